package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// EnrollmentService is the interface that wraps methods for enrollment business logic.
type EnrollmentService interface {
	// Method CreateEnrollment enrolls a user in a published course.
	CreateEnrollment(ctx context.Context, userID, courseID int) (*models.Enrollment, error)
	// Method GetUserEnrollments retrieves a page of the user's enrollments with
	// course summaries.
	GetUserEnrollments(ctx context.Context, userID, page, limit int) ([]models.EnrollmentWithCourse, *models.Pagination, error)
	// Method CanViewCourseEnrollments reports whether the requester may list a
	// course's enrollments.
	CanViewCourseEnrollments(ctx context.Context, courseID, requesterID int, role models.Role) (bool, error)
	// Method GetCourseEnrollments retrieves a page of a course's enrollments
	// with student summaries.
	GetCourseEnrollments(ctx context.Context, courseID, page, limit int) ([]models.EnrollmentWithStudent, *models.Pagination, error)
	// Method UpdateEnrollmentStatus transitions an enrollment to a new status.
	UpdateEnrollmentStatus(ctx context.Context, id int, status models.EnrollmentStatus) (*models.Enrollment, error)
}

// EnrollmentHandler handles enrollment-related HTTP requests
type EnrollmentHandler struct {
	BaseHandler
	enrollmentService EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(enrollmentService EnrollmentService, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       BaseHandler{Logger: logger},
		enrollmentService: enrollmentService,
	}
}

// RegisterRoutes registers all enrollment handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *EnrollmentHandler) RegisterRoutes(r chi.Router, authMW, staffMW, adminMW func(http.Handler) http.Handler) {
	r.Route("/enrollments", func(r chi.Router) {
		r.With(authMW).Post("/", h.Create)
		r.With(authMW).Get("/me", h.ListMine)
		r.With(adminMW).Put("/{id}/status", h.UpdateStatus)
	})
	r.With(staffMW).Get("/courses/{courseId}/enrollments", h.ListForCourse)
}

// Create handles POST /enrollments
// @Summary Enroll in a course
// @Description Enroll the caller in a published course with status active
// @Tags enrollments
// @Accept json
// @Produce json
// @Param request body models.CreateEnrollmentRequest true "Course to enroll in"
// @Success 201 {object} models.Enrollment
// @Failure 400 {object} map[string]any "Course not published"
// @Failure 404 {object} map[string]any "Course not found"
// @Failure 409 {object} map[string]any "Already enrolled"
// @Security BearerAuth
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.Identity(w, r)
	if !ok {
		return
	}

	var req models.CreateEnrollmentRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.RespondError(w, err)
		return
	}

	enrollment, err := h.enrollmentService.CreateEnrollment(r.Context(), userID, req.CourseID)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, enrollment)
}

// ListMine handles GET /enrollments/me
// @Summary List own enrollments
// @Description List the caller's enrollments with course summaries, paginated
// @Tags enrollments
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} models.EnrollmentWithCourse
// @Security BearerAuth
// @Router /enrollments/me [get]
func (h *EnrollmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.Identity(w, r)
	if !ok {
		return
	}

	page := QueryInt(r, "page", 1)
	limit := QueryInt(r, "limit", 10)

	enrollments, pagination, err := h.enrollmentService.GetUserEnrollments(r.Context(), userID, page, limit)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondPage(w, http.StatusOK, enrollments, pagination)
}

// ListForCourse handles GET /courses/{courseId}/enrollments
// @Summary List a course's enrollments
// @Description List enrollments with student summaries; owning instructor or admin only
// @Tags enrollments
// @Produce json
// @Param courseId path int true "Course ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} models.EnrollmentWithStudent
// @Failure 403 {object} map[string]any "Not the course owner"
// @Failure 404 {object} map[string]any "Course not found"
// @Security BearerAuth
// @Router /courses/{courseId}/enrollments [get]
func (h *EnrollmentHandler) ListForCourse(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	courseID, err := URLParamInt(r, "courseId")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	allowed, err := h.enrollmentService.CanViewCourseEnrollments(r.Context(), courseID, userID, role)
	if err != nil {
		h.RespondError(w, err)
		return
	}
	if !allowed {
		h.RespondError(w, apperr.Forbidden("NOT_COURSE_OWNER", "only the course owner or an admin can list enrollments"))
		return
	}

	page := QueryInt(r, "page", 1)
	limit := QueryInt(r, "limit", 10)

	enrollments, pagination, err := h.enrollmentService.GetCourseEnrollments(r.Context(), courseID, page, limit)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondPage(w, http.StatusOK, enrollments, pagination)
}

// UpdateStatus handles PUT /enrollments/{id}/status
// @Summary Update an enrollment's status
// @Description Transition an enrollment to active, completed or refunded; admin only
// @Tags enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param request body models.UpdateEnrollmentStatusRequest true "New status"
// @Success 200 {object} models.Enrollment
// @Failure 400 {object} map[string]any "Unknown status"
// @Failure 404 {object} map[string]any "Enrollment not found"
// @Security BearerAuth
// @Router /enrollments/{id}/status [put]
func (h *EnrollmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := URLParamInt(r, "id")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	var req models.UpdateEnrollmentStatusRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.RespondError(w, err)
		return
	}

	enrollment, err := h.enrollmentService.UpdateEnrollmentStatus(r.Context(), id, req.Status)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, enrollment)
}
