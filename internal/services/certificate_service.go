package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// CertificateRepository is the interface that wraps methods for certificates table data access
type CertificateRepository interface {
	// Method Create inserts a new certificate into the database.
	//
	// If a certificate for the same (user, course) pair already exists, a
	// Conflict error is returned.
	Create(ctx context.Context, cert *models.Certificate) error
	// Method GetByCode retrieves a certificate by its unique code.
	//
	// If no certificate carries the code, a NotFound error is returned together with "nil" value.
	GetByCode(ctx context.Context, code string) (*models.Certificate, error)
	// Method GetByUser retrieves a user's certificates joined with course summaries.
	GetByUser(ctx context.Context, userID int) ([]models.CertificateWithCourse, error)
	// Method GetByCourse retrieves all certificates issued for a course.
	GetByCourse(ctx context.Context, courseID int) ([]models.Certificate, error)
}

// ProgressCounter is the interface that wraps the completed-lesson count method
type ProgressCounter interface {
	// Method CountCompleted counts completed lessons for an enrollment.
	CountCompleted(ctx context.Context, enrollmentID int) (int, error)
}

// LessonCounter is the interface that wraps the per-course lesson count method
type LessonCounter interface {
	// Method CountByCourse counts a course's lessons.
	CountByCourse(ctx context.Context, courseID int) (int, error)
}

// certificateService handles issuance, self-claim and public verification
type certificateService struct {
	certRepo       CertificateRepository
	courseRepo     CourseRepository
	enrollmentRepo EnrollmentRepository
	progressRepo   ProgressCounter
	lessonRepo     LessonCounter
	publisher      OutboxPublisher
	logger         *zap.Logger
}

// NewCertificateService creates a new certificate service
func NewCertificateService(
	certRepo CertificateRepository,
	courseRepo CourseRepository,
	enrollmentRepo EnrollmentRepository,
	progressRepo ProgressCounter,
	lessonRepo LessonCounter,
	publisher OutboxPublisher,
	logger *zap.Logger,
) *certificateService {
	return &certificateService{
		certRepo:       certRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
		lessonRepo:     lessonRepo,
		publisher:      publisher,
		logger:         logger,
	}
}

// certificateEvent is the payload for the certificate.issued topic
type certificateEvent struct {
	CertificateID int    `json:"certificateId"`
	UserID        int    `json:"userId"`
	CourseID      int    `json:"courseId"`
	Code          string `json:"code"`
}

// IssueCertificate issues a certificate on behalf of a student. Instructors
// may only issue for their own courses; admins may issue for any course.
func (s *certificateService) IssueCertificate(ctx context.Context, req *models.IssueCertificateRequest, issuerID int, issuerRole models.Role) (*models.Certificate, error) {
	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	if issuerRole != models.RoleAdmin && course.InstructorID != issuerID {
		return nil, apperr.Forbidden("NOT_COURSE_OWNER", "only the course owner or an admin can issue certificates for this course")
	}

	if err := s.checkEligibility(ctx, req.UserID, course.ID); err != nil {
		return nil, err
	}

	return s.create(ctx, req.UserID, course.ID)
}

// ClaimCertificate lets a student claim their own certificate once every
// lesson of the course is completed
func (s *certificateService) ClaimCertificate(ctx context.Context, userID, courseID int) (*models.Certificate, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	if err := s.checkEligibility(ctx, userID, courseID); err != nil {
		return nil, err
	}

	return s.create(ctx, userID, courseID)
}

// VerifyCertificate checks a certificate code. Verification is public and
// never errors: malformed or unknown codes come back as not valid.
func (s *certificateService) VerifyCertificate(ctx context.Context, code string) *models.CertificateVerification {
	code = strings.TrimSpace(code)
	if code == "" {
		return &models.CertificateVerification{Valid: false}
	}

	cert, err := s.certRepo.GetByCode(ctx, code)
	if err != nil {
		if !apperr.IsKind(err, apperr.KindNotFound) {
			s.logger.Error("failed to verify certificate", zap.Error(err))
		}
		return &models.CertificateVerification{Valid: false}
	}

	return &models.CertificateVerification{Valid: true, Certificate: cert}
}

// GetUserCertificates retrieves the caller's certificates with course summaries
func (s *certificateService) GetUserCertificates(ctx context.Context, userID int) ([]models.CertificateWithCourse, error) {
	return s.certRepo.GetByUser(ctx, userID)
}

// GetCourseCertificates retrieves all certificates issued for a course; owner
// or admin only
func (s *certificateService) GetCourseCertificates(ctx context.Context, courseID, requesterID int, role models.Role) ([]models.Certificate, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !canManageCourse(course, requesterID, role) {
		return nil, apperr.Forbidden("NOT_COURSE_OWNER", "only the course owner or an admin can list certificates for this course")
	}

	return s.certRepo.GetByCourse(ctx, courseID)
}

// checkEligibility requires an active or completed enrollment and every lesson
// of the course completed. A course with no lessons is vacuously complete.
func (s *certificateService) checkEligibility(ctx context.Context, userID, courseID int) error {
	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return err
	}

	if enrollment.Status != models.EnrollmentStatusActive && enrollment.Status != models.EnrollmentStatusCompleted {
		return apperr.NotFound("ENROLLMENT_NOT_FOUND", "enrollment not found")
	}

	total, err := s.lessonRepo.CountByCourse(ctx, courseID)
	if err != nil {
		return err
	}

	if total == 0 {
		return nil
	}

	completed, err := s.progressRepo.CountCompleted(ctx, enrollment.ID)
	if err != nil {
		return err
	}

	if completed < total {
		return apperr.Validation("NOT_ALL_LESSONS_COMPLETED",
			fmt.Sprintf("not all lessons completed (%d/%d)", completed, total))
	}

	return nil
}

// create inserts the certificate and publishes the issuance event. A
// concurrent duplicate surfaces as a Conflict from the unique constraint.
func (s *certificateService) create(ctx context.Context, userID, courseID int) (*models.Certificate, error) {
	cert := &models.Certificate{
		UserID:   userID,
		CourseID: courseID,
		Code:     uuid.NewString(),
	}

	if err := s.certRepo.Create(ctx, cert); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, models.TopicCertificateIssued, certificateEvent{
		CertificateID: cert.ID,
		UserID:        cert.UserID,
		CourseID:      cert.CourseID,
		Code:          cert.Code,
	}); err != nil {
		s.logger.Error("failed to publish outbox event",
			zap.String("topic", models.TopicCertificateIssued),
			zap.Int("certificateId", cert.ID),
			zap.Error(err))
	}

	return cert, nil
}
