package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// EnrollmentRepository is the interface that wraps methods for enrollments table data access
type EnrollmentRepository interface {
	// Method Create inserts a new enrollment into the database.
	//
	// If the user is already enrolled in the course, a Conflict error is returned.
	Create(ctx context.Context, enrollment *models.Enrollment) error
	// Method GetByID retrieves an enrollment by ID.
	//
	// If enrollment with such ID does not exist, a NotFound error is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Enrollment, error)
	// Method GetByUserAndCourse retrieves a user's enrollment in a course.
	//
	// If no such enrollment exists, a NotFound error is returned together with "nil" value.
	GetByUserAndCourse(ctx context.Context, userID, courseID int) (*models.Enrollment, error)
	// Method GetByUser retrieves a page of a user's enrollments joined with
	// course summaries, with the total row count.
	GetByUser(ctx context.Context, userID, page, limit int) ([]models.EnrollmentWithCourse, int, error)
	// Method GetByCourse retrieves a page of a course's enrollments joined with
	// student summaries, with the total row count.
	GetByCourse(ctx context.Context, courseID, page, limit int) ([]models.EnrollmentWithStudent, int, error)
	// Method UpdateStatus updates an enrollment's status.
	//
	// Existence is checked by the caller; a same-status update is not an error.
	UpdateStatus(ctx context.Context, id int, status models.EnrollmentStatus) error
}

// OutboxPublisher is the interface that wraps the outbox event publication method
type OutboxPublisher interface {
	// Method Publish writes one unprocessed event row for the worker to pick up.
	//
	// "topic" names the event type; "payload" must be a JSON-marshalable value.
	Publish(ctx context.Context, topic string, payload any) error
}

// enrollmentService handles self-enrollment, listings and status transitions
type enrollmentService struct {
	enrollmentRepo EnrollmentRepository
	courseRepo     CourseRepository
	publisher      OutboxPublisher
	logger         *zap.Logger
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	enrollmentRepo EnrollmentRepository,
	courseRepo CourseRepository,
	publisher OutboxPublisher,
	logger *zap.Logger,
) *enrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		publisher:      publisher,
		logger:         logger,
	}
}

// enrollmentEvent is the payload for enrollment outbox topics
type enrollmentEvent struct {
	EnrollmentID int                     `json:"enrollmentId"`
	UserID       int                     `json:"userId"`
	CourseID     int                     `json:"courseId"`
	Status       models.EnrollmentStatus `json:"status"`
}

// CreateEnrollment enrolls a user in a published course with status active.
// Duplicate enrollment is rejected by the unique constraint, so two concurrent
// requests for the same pair cannot both succeed.
func (s *enrollmentService) CreateEnrollment(ctx context.Context, userID, courseID int) (*models.Enrollment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !course.Published {
		return nil, apperr.Validation("COURSE_NOT_PUBLISHED", "course is not open for enrollment")
	}

	enrollment := &models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   models.EnrollmentStatusActive,
	}

	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	s.publish(ctx, models.TopicEnrollmentCreated, enrollmentEvent{
		EnrollmentID: enrollment.ID,
		UserID:       enrollment.UserID,
		CourseID:     enrollment.CourseID,
		Status:       enrollment.Status,
	})

	return enrollment, nil
}

// GetUserEnrollments retrieves a page of the user's enrollments with course
// summaries
func (s *enrollmentService) GetUserEnrollments(ctx context.Context, userID, page, limit int) ([]models.EnrollmentWithCourse, *models.Pagination, error) {
	page, limit = models.ClampPage(page, limit)

	enrollments, total, err := s.enrollmentRepo.GetByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, nil, err
	}

	return enrollments, models.NewPagination(page, limit, total), nil
}

// CanViewCourseEnrollments reports whether the requester may list a course's
// enrollments: admins always, instructors only for their own courses.
func (s *enrollmentService) CanViewCourseEnrollments(ctx context.Context, courseID, requesterID int, role models.Role) (bool, error) {
	if role == models.RoleAdmin {
		return true, nil
	}
	if role != models.RoleInstructor {
		return false, nil
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return false, err
	}

	return course.InstructorID == requesterID, nil
}

// GetCourseEnrollments retrieves a page of a course's enrollments with student
// summaries. Access is checked by the caller via CanViewCourseEnrollments.
func (s *enrollmentService) GetCourseEnrollments(ctx context.Context, courseID, page, limit int) ([]models.EnrollmentWithStudent, *models.Pagination, error) {
	page, limit = models.ClampPage(page, limit)

	enrollments, total, err := s.enrollmentRepo.GetByCourse(ctx, courseID, page, limit)
	if err != nil {
		return nil, nil, err
	}

	return enrollments, models.NewPagination(page, limit, total), nil
}

// UpdateEnrollmentStatus transitions an enrollment to the given status.
// Route-level role checks restrict this to admins.
func (s *enrollmentService) UpdateEnrollmentStatus(ctx context.Context, id int, status models.EnrollmentStatus) (*models.Enrollment, error) {
	if !status.Valid() {
		return nil, apperr.Validation("INVALID_STATUS", "status must be one of active, completed, refunded",
			apperr.FieldError{Field: "status", Message: "unknown status"})
	}

	enrollment, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.enrollmentRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	enrollment.Status = status

	s.publish(ctx, models.TopicEnrollmentStatusChanged, enrollmentEvent{
		EnrollmentID: enrollment.ID,
		UserID:       enrollment.UserID,
		CourseID:     enrollment.CourseID,
		Status:       status,
	})

	return enrollment, nil
}

// publish writes the outbox row for an already-committed business change.
// A publish failure is logged and does not roll back the change; the event is
// lost rather than the write, which is the documented delivery boundary.
func (s *enrollmentService) publish(ctx context.Context, topic string, payload any) {
	if err := s.publisher.Publish(ctx, topic, payload); err != nil {
		body, _ := json.Marshal(payload)
		s.logger.Error("failed to publish outbox event",
			zap.String("topic", topic),
			zap.ByteString("payload", body),
			zap.Error(err))
	}
}
