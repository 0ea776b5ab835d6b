package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// LessonRepository is the interface that wraps methods for lessons table data access
type LessonRepository interface {
	// Method GetByID retrieves a lesson by ID.
	//
	// If lesson with such ID does not exist, a NotFound error is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Lesson, error)
	// Method GetByCourseID retrieves a course's lessons sorted by position.
	GetByCourseID(ctx context.Context, courseID int) ([]models.Lesson, error)
	// Method GetByCourseIDWithCompletion retrieves a course's lessons sorted by
	// position, with completion flags for the given enrollment.
	//
	// "enrollmentID" of zero matches no progress rows, so every lesson comes
	// back not completed.
	GetByCourseIDWithCompletion(ctx context.Context, courseID, enrollmentID int) ([]models.LessonListItem, error)
	// Method CountByCourse counts a course's lessons.
	CountByCourse(ctx context.Context, courseID int) (int, error)
	// Method Create inserts a new lesson at the end of the course.
	//
	// The position is assigned inside the insert, so concurrent appends cannot
	// produce duplicate positions.
	Create(ctx context.Context, lesson *models.Lesson) error
	// Method Update overwrites a lesson's title and content.
	Update(ctx context.Context, lesson *models.Lesson) error
	// Method DeleteAndRecompact deletes a lesson and renumbers the remaining
	// lessons to dense positions 1..N-1 in one transaction, preserving order.
	DeleteAndRecompact(ctx context.Context, id int) error
	// Method Reorder assigns positions 1..N to the course's lessons in the
	// given order, in one transaction.
	//
	// A Validation error is returned when the given ids are not exactly the
	// course's lesson id set.
	Reorder(ctx context.Context, courseID int, lessonIDs []int) error
}

// lessonService handles lesson CRUD, ordering and student access
type lessonService struct {
	lessonRepo     LessonRepository
	courseRepo     CourseRepository
	enrollmentRepo EnrollmentRepository
	logger         *zap.Logger
}

// NewLessonService creates a new lesson service
func NewLessonService(
	lessonRepo LessonRepository,
	courseRepo CourseRepository,
	enrollmentRepo EnrollmentRepository,
	logger *zap.Logger,
) *lessonService {
	return &lessonService{
		lessonRepo:     lessonRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		logger:         logger,
	}
}

// CreateLesson appends a lesson at the end of the course; owner or admin only
func (s *lessonService) CreateLesson(ctx context.Context, courseID int, req *models.CreateLessonRequest, requesterID int, role models.Role) (*models.Lesson, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !canManageCourse(course, requesterID, role) {
		return nil, apperr.Forbidden("NOT_COURSE_OWNER", "only the course owner or an admin can modify lessons")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.Validation("INVALID_LESSON", "invalid lesson data",
			apperr.FieldError{Field: "title", Message: "title cannot be empty"})
	}

	lesson := &models.Lesson{
		CourseID: courseID,
		Title:    title,
		Content:  req.Content,
	}

	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		return nil, err
	}

	return lesson, nil
}

// UpdateLesson applies a partial update; owner or admin only
func (s *lessonService) UpdateLesson(ctx context.Context, lessonID int, req *models.UpdateLessonRequest, requesterID int, role models.Role) (*models.Lesson, error) {
	lesson, course, err := s.getLessonWithCourse(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if !canManageCourse(course, requesterID, role) {
		return nil, apperr.Forbidden("NOT_COURSE_OWNER", "only the course owner or an admin can modify lessons")
	}

	if req.Title != "" {
		lesson.Title = strings.TrimSpace(req.Title)
		if lesson.Title == "" {
			return nil, apperr.Validation("INVALID_LESSON", "invalid lesson data",
				apperr.FieldError{Field: "title", Message: "title cannot be empty"})
		}
	}
	if req.Content != "" {
		lesson.Content = req.Content
	}

	if err := s.lessonRepo.Update(ctx, lesson); err != nil {
		return nil, err
	}

	return lesson, nil
}

// DeleteLesson deletes a lesson and recompacts the remaining positions to a
// dense 1..N-1; owner or admin only
func (s *lessonService) DeleteLesson(ctx context.Context, lessonID, requesterID int, role models.Role) error {
	_, course, err := s.getLessonWithCourse(ctx, lessonID)
	if err != nil {
		return err
	}

	if !canManageCourse(course, requesterID, role) {
		return apperr.Forbidden("NOT_COURSE_OWNER", "only the course owner or an admin can modify lessons")
	}

	return s.lessonRepo.DeleteAndRecompact(ctx, lessonID)
}

// ReorderLessons reassigns positions 1..N in the given order; owner or admin
// only. The given ids must be exactly the course's lesson id set.
func (s *lessonService) ReorderLessons(ctx context.Context, courseID int, lessonIDs []int, requesterID int, role models.Role) ([]models.Lesson, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !canManageCourse(course, requesterID, role) {
		return nil, apperr.Forbidden("NOT_COURSE_OWNER", "only the course owner or an admin can modify lessons")
	}

	if len(lessonIDs) == 0 {
		return nil, apperr.Validation("INVALID_REORDER", "lessonIds cannot be empty")
	}

	if err := s.lessonRepo.Reorder(ctx, courseID, lessonIDs); err != nil {
		return nil, err
	}

	return s.lessonRepo.GetByCourseID(ctx, courseID)
}

// GetLesson retrieves a lesson with its content. Course managers always have
// access; students need an active or completed enrollment in a published course.
func (s *lessonService) GetLesson(ctx context.Context, lessonID, requesterID int, role models.Role) (*models.Lesson, error) {
	lesson, course, err := s.getLessonWithCourse(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if canManageCourse(course, requesterID, role) {
		return lesson, nil
	}

	if err := checkStudentAccess(ctx, s.enrollmentRepo, course, requesterID); err != nil {
		return nil, err
	}

	return lesson, nil
}

// ListLessons retrieves a course's lessons sorted by position. For students
// the items carry per-lesson completion from their own enrollment.
func (s *lessonService) ListLessons(ctx context.Context, courseID, requesterID int, role models.Role) ([]models.LessonListItem, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if canManageCourse(course, requesterID, role) {
		return s.lessonRepo.GetByCourseIDWithCompletion(ctx, courseID, 0)
	}

	if err := checkStudentAccess(ctx, s.enrollmentRepo, course, requesterID); err != nil {
		return nil, err
	}

	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, requesterID, courseID)
	if err != nil {
		return nil, err
	}

	return s.lessonRepo.GetByCourseIDWithCompletion(ctx, courseID, enrollment.ID)
}

// checkStudentAccess requires a published course and an active or completed
// enrollment. Unpublished courses read as missing, not forbidden.
func checkStudentAccess(ctx context.Context, enrollmentRepo EnrollmentRepository, course *models.Course, userID int) error {
	if !course.Published {
		return apperr.NotFound("COURSE_NOT_FOUND", "course not found")
	}

	enrollment, err := enrollmentRepo.GetByUserAndCourse(ctx, userID, course.ID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.Forbidden("NOT_ENROLLED", "user is not enrolled in this course")
		}
		return err
	}

	if enrollment.Status == models.EnrollmentStatusRefunded {
		return apperr.Forbidden("NOT_ENROLLED", "user is not enrolled in this course")
	}

	return nil
}

func (s *lessonService) getLessonWithCourse(ctx context.Context, lessonID int) (*models.Lesson, *models.Course, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, lesson.CourseID)
	if err != nil {
		return nil, nil, err
	}

	return lesson, course, nil
}
