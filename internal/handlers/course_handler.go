package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// CourseService is the interface that wraps methods for course business logic.
type CourseService interface {
	// Method CreateCourse creates an unpublished course owned by the instructor.
	CreateCourse(ctx context.Context, req *models.CreateCourseRequest, instructorID int) (*models.Course, error)
	// Method GetCourse retrieves a course visible to the requester.
	GetCourse(ctx context.Context, id, requesterID int, role models.Role) (*models.Course, error)
	// Method ListCourses retrieves a page of courses visible to the requester.
	ListCourses(ctx context.Context, requesterID int, role models.Role, page, limit int) ([]models.Course, *models.Pagination, error)
	// Method UpdateCourse applies a partial update; owner or admin only.
	UpdateCourse(ctx context.Context, id int, req *models.UpdateCourseRequest, requesterID int, role models.Role) (*models.Course, error)
	// Method PublishCourse flips a course to published; owner or admin only.
	PublishCourse(ctx context.Context, id, requesterID int, role models.Role) (*models.Course, error)
	// Method DeleteCourse deletes a course; owner or admin only.
	DeleteCourse(ctx context.Context, id, requesterID int, role models.Role) error
}

// CourseHandler handles course-related HTTP requests
type CourseHandler struct {
	BaseHandler
	courseService CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		courseService: courseService,
	}
}

// RegisterRoutes registers all course handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *CourseHandler) RegisterRoutes(r chi.Router, authMW, staffMW func(http.Handler) http.Handler) {
	r.Route("/courses", func(r chi.Router) {
		r.With(authMW).Get("/", h.List)
		r.With(authMW).Get("/{id}", h.Get)
		r.With(staffMW).Post("/", h.Create)
		r.With(staffMW).Put("/{id}", h.Update)
		r.With(staffMW).Delete("/{id}", h.Delete)
		r.With(staffMW).Post("/{id}/publish", h.Publish)
	})
}

// Create handles POST /courses
// @Summary Create a course
// @Description Create an unpublished course owned by the calling instructor
// @Tags courses
// @Accept json
// @Produce json
// @Param request body models.CreateCourseRequest true "Course data"
// @Success 201 {object} models.Course
// @Failure 400 {object} map[string]any "Invalid course data"
// @Failure 403 {object} map[string]any "Insufficient permissions"
// @Security BearerAuth
// @Router /courses [post]
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.Identity(w, r)
	if !ok {
		return
	}

	var req models.CreateCourseRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.RespondError(w, err)
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), &req, userID)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, course)
}

// List handles GET /courses
// @Summary List courses
// @Description List courses visible to the caller: published for students, own for instructors, all for admins
// @Tags courses
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} models.Course
// @Security BearerAuth
// @Router /courses [get]
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	page := QueryInt(r, "page", 1)
	limit := QueryInt(r, "limit", 10)

	courses, pagination, err := h.courseService.ListCourses(r.Context(), userID, role, page, limit)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondPage(w, http.StatusOK, courses, pagination)
}

// Get handles GET /courses/{id}
// @Summary Get a course
// @Description Get a course by ID; unpublished courses are visible only to the owner and admins
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} map[string]any "Course not found"
// @Security BearerAuth
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	id, err := URLParamInt(r, "id")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	course, err := h.courseService.GetCourse(r.Context(), id, userID, role)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// Update handles PUT /courses/{id}
// @Summary Update a course
// @Description Apply a partial update to a course; owner or admin only
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body models.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} models.Course
// @Failure 403 {object} map[string]any "Not the course owner"
// @Failure 404 {object} map[string]any "Course not found"
// @Security BearerAuth
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	id, err := URLParamInt(r, "id")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	var req models.UpdateCourseRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.RespondError(w, err)
		return
	}

	course, err := h.courseService.UpdateCourse(r.Context(), id, &req, userID, role)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// Publish handles POST /courses/{id}/publish
// @Summary Publish a course
// @Description Flip a course to published; publishing again is a no-op
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.Course
// @Failure 403 {object} map[string]any "Not the course owner"
// @Failure 404 {object} map[string]any "Course not found"
// @Security BearerAuth
// @Router /courses/{id}/publish [post]
func (h *CourseHandler) Publish(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	id, err := URLParamInt(r, "id")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	course, err := h.courseService.PublishCourse(r.Context(), id, userID, role)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// Delete handles DELETE /courses/{id}
// @Summary Delete a course
// @Description Delete a course and its lessons; owner or admin only
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]any "Not the course owner"
// @Failure 404 {object} map[string]any "Course not found"
// @Security BearerAuth
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	id, err := URLParamInt(r, "id")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	if err := h.courseService.DeleteCourse(r.Context(), id, userID, role); err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "course deleted"})
}
