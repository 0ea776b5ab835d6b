package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// ProgressRepository is the interface that wraps methods for lesson_progress table data access
type ProgressRepository interface {
	// Method MarkCompleted upserts the progress row for (enrollment, lesson) as
	// completed with the current timestamp.
	MarkCompleted(ctx context.Context, enrollmentID, lessonID int) error
	// Method MarkIncomplete upserts the progress row for (enrollment, lesson)
	// as not completed.
	MarkIncomplete(ctx context.Context, enrollmentID, lessonID int) error
	// Method CountCompleted counts completed lessons for an enrollment.
	CountCompleted(ctx context.Context, enrollmentID int) (int, error)
}

// progressService tracks per-lesson completion against a student's enrollment
type progressService struct {
	progressRepo   ProgressRepository
	lessonRepo     LessonRepository
	courseRepo     CourseRepository
	enrollmentRepo EnrollmentRepository
	logger         *zap.Logger
}

// NewProgressService creates a new progress service
func NewProgressService(
	progressRepo ProgressRepository,
	lessonRepo LessonRepository,
	courseRepo CourseRepository,
	enrollmentRepo EnrollmentRepository,
	logger *zap.Logger,
) *progressService {
	return &progressService{
		progressRepo:   progressRepo,
		lessonRepo:     lessonRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		logger:         logger,
	}
}

// CompleteLesson marks a lesson completed for the caller's own enrollment
func (s *progressService) CompleteLesson(ctx context.Context, userID, lessonID int) error {
	enrollment, err := s.activeEnrollmentForLesson(ctx, userID, lessonID)
	if err != nil {
		return err
	}

	return s.progressRepo.MarkCompleted(ctx, enrollment.ID, lessonID)
}

// UncompleteLesson clears a lesson's completion for the caller's own enrollment
func (s *progressService) UncompleteLesson(ctx context.Context, userID, lessonID int) error {
	enrollment, err := s.activeEnrollmentForLesson(ctx, userID, lessonID)
	if err != nil {
		return err
	}

	return s.progressRepo.MarkIncomplete(ctx, enrollment.ID, lessonID)
}

// GetCourseProgress reports completed and total lesson counts for the caller's
// enrollment in a course
func (s *progressService) GetCourseProgress(ctx context.Context, userID, courseID int) (*models.CourseProgress, error) {
	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	total, err := s.lessonRepo.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	completed, err := s.progressRepo.CountCompleted(ctx, enrollment.ID)
	if err != nil {
		return nil, err
	}

	return &models.CourseProgress{
		CourseID:         courseID,
		TotalLessons:     total,
		CompletedLessons: completed,
	}, nil
}

// activeEnrollmentForLesson resolves the lesson's course and requires the
// caller's own active enrollment in it
func (s *progressService) activeEnrollmentForLesson(ctx context.Context, userID, lessonID int) (*models.Enrollment, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, userID, lesson.CourseID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.Forbidden("NOT_ENROLLED", "user is not enrolled in this course")
		}
		return nil, err
	}

	if enrollment.Status != models.EnrollmentStatusActive {
		return nil, apperr.Forbidden("NOT_ENROLLED", "enrollment is not active")
	}

	return enrollment, nil
}
