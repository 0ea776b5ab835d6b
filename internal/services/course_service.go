package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// CourseRepository is the interface that wraps methods for courses table data access
type CourseRepository interface {
	// Method Create inserts a new course into the database.
	//
	// "course" parameter is used to create a new course; its ID is set on success.
	Create(ctx context.Context, course *models.Course) error
	// Method GetByID retrieves a course by ID.
	//
	// If course with such ID does not exist, a NotFound error is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Course, error)
	// Method List retrieves a page of courses with the total row count.
	//
	// "publishedOnly" restricts the listing to published courses.
	// "instructorID", when non-nil, restricts the listing to one instructor's courses.
	List(ctx context.Context, publishedOnly bool, instructorID *int, page, limit int) ([]models.Course, int, error)
	// Method Update overwrites a course's mutable fields.
	//
	// If course with such ID does not exist, a NotFound error is returned.
	Update(ctx context.Context, course *models.Course) error
	// Method Publish flips a course to published.
	//
	// Publishing is one-way; publishing an already-published course is a no-op.
	Publish(ctx context.Context, id int) error
	// Method Delete deletes a course by ID.
	//
	// If course with such ID does not exist, a NotFound error is returned.
	Delete(ctx context.Context, id int) error
}

// courseService handles course CRUD with ownership rules
type courseService struct {
	courseRepo CourseRepository
	logger     *zap.Logger
}

// NewCourseService creates a new course service
func NewCourseService(courseRepo CourseRepository, logger *zap.Logger) *courseService {
	return &courseService{
		courseRepo: courseRepo,
		logger:     logger,
	}
}

// CreateCourse creates an unpublished course owned by the calling instructor
func (s *courseService) CreateCourse(ctx context.Context, req *models.CreateCourseRequest, instructorID int) (*models.Course, error) {
	title := strings.TrimSpace(req.Title)

	var fields []apperr.FieldError
	if title == "" {
		fields = append(fields, apperr.FieldError{Field: "title", Message: "title cannot be empty"})
	}
	if req.Price < 0 {
		fields = append(fields, apperr.FieldError{Field: "price", Message: "price cannot be negative"})
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("INVALID_COURSE", "invalid course data", fields...)
	}

	course := &models.Course{
		Title:        title,
		Description:  req.Description,
		Price:        req.Price,
		Published:    false,
		InstructorID: instructorID,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// GetCourse retrieves a course. Unpublished courses are visible only to the
// owning instructor and admins.
func (s *courseService) GetCourse(ctx context.Context, id, requesterID int, role models.Role) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !course.Published && !canManageCourse(course, requesterID, role) {
		// Hidden, not forbidden: an unpublished course does not exist for students
		return nil, apperr.NotFound("COURSE_NOT_FOUND", "course not found")
	}

	return course, nil
}

// ListCourses lists courses by role: students see published courses only,
// instructors see their own, admins see everything.
func (s *courseService) ListCourses(ctx context.Context, requesterID int, role models.Role, page, limit int) ([]models.Course, *models.Pagination, error) {
	page, limit = models.ClampPage(page, limit)

	var (
		publishedOnly bool
		instructorID  *int
	)
	switch role {
	case models.RoleAdmin:
	case models.RoleInstructor:
		instructorID = &requesterID
	default:
		publishedOnly = true
	}

	courses, total, err := s.courseRepo.List(ctx, publishedOnly, instructorID, page, limit)
	if err != nil {
		return nil, nil, err
	}

	return courses, models.NewPagination(page, limit, total), nil
}

// UpdateCourse applies a partial update; owner or admin only
func (s *courseService) UpdateCourse(ctx context.Context, id int, req *models.UpdateCourseRequest, requesterID int, role models.Role) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canManageCourse(course, requesterID, role) {
		return nil, apperr.Forbidden("NOT_COURSE_OWNER", "only the course owner or an admin can modify this course")
	}

	if req.Title != "" {
		course.Title = strings.TrimSpace(req.Title)
		if course.Title == "" {
			return nil, apperr.Validation("INVALID_COURSE", "invalid course data",
				apperr.FieldError{Field: "title", Message: "title cannot be empty"})
		}
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, apperr.Validation("INVALID_COURSE", "invalid course data",
				apperr.FieldError{Field: "price", Message: "price cannot be negative"})
		}
		course.Price = *req.Price
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// PublishCourse flips a course to published; owner or admin only.
// Re-publishing is a no-op success.
func (s *courseService) PublishCourse(ctx context.Context, id, requesterID int, role models.Role) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canManageCourse(course, requesterID, role) {
		return nil, apperr.Forbidden("NOT_COURSE_OWNER", "only the course owner or an admin can publish this course")
	}

	if err := s.courseRepo.Publish(ctx, id); err != nil {
		return nil, err
	}

	course.Published = true
	return course, nil
}

// DeleteCourse deletes a course; owner or admin only
func (s *courseService) DeleteCourse(ctx context.Context, id, requesterID int, role models.Role) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !canManageCourse(course, requesterID, role) {
		return apperr.Forbidden("NOT_COURSE_OWNER", "only the course owner or an admin can delete this course")
	}

	return s.courseRepo.Delete(ctx, id)
}

// canManageCourse reports whether the requester owns the course or is an admin
func canManageCourse(course *models.Course, requesterID int, role models.Role) bool {
	return role == models.RoleAdmin || (role == models.RoleInstructor && course.InstructorID == requesterID)
}
