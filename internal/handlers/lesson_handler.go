package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// LessonService is the interface that wraps methods for lesson business logic.
type LessonService interface {
	// Method CreateLesson appends a lesson at the end of the course; owner or admin only.
	CreateLesson(ctx context.Context, courseID int, req *models.CreateLessonRequest, requesterID int, role models.Role) (*models.Lesson, error)
	// Method UpdateLesson applies a partial update; owner or admin only.
	UpdateLesson(ctx context.Context, lessonID int, req *models.UpdateLessonRequest, requesterID int, role models.Role) (*models.Lesson, error)
	// Method DeleteLesson deletes a lesson and recompacts positions; owner or admin only.
	DeleteLesson(ctx context.Context, lessonID, requesterID int, role models.Role) error
	// Method ReorderLessons reassigns positions 1..N in the given order and
	// returns the reordered lessons; owner or admin only.
	ReorderLessons(ctx context.Context, courseID int, lessonIDs []int, requesterID int, role models.Role) ([]models.Lesson, error)
	// Method GetLesson retrieves a lesson with its content.
	GetLesson(ctx context.Context, lessonID, requesterID int, role models.Role) (*models.Lesson, error)
	// Method ListLessons retrieves a course's lessons with completion flags.
	ListLessons(ctx context.Context, courseID, requesterID int, role models.Role) ([]models.LessonListItem, error)
}

// LessonHandler handles lesson-related HTTP requests
type LessonHandler struct {
	BaseHandler
	lessonService LessonService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessonService LessonService, logger *zap.Logger) *LessonHandler {
	return &LessonHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		lessonService: lessonService,
	}
}

// RegisterRoutes registers all lesson handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *LessonHandler) RegisterRoutes(r chi.Router, authMW, staffMW func(http.Handler) http.Handler) {
	r.Route("/courses/{courseId}/lessons", func(r chi.Router) {
		r.With(authMW).Get("/", h.List)
		r.With(staffMW).Post("/", h.Create)
		r.With(staffMW).Put("/reorder", h.Reorder)
	})
	r.Route("/lessons", func(r chi.Router) {
		r.With(authMW).Get("/{id}", h.Get)
		r.With(staffMW).Put("/{id}", h.Update)
		r.With(staffMW).Delete("/{id}", h.Delete)
	})
}

// Create handles POST /courses/{courseId}/lessons
// @Summary Create a lesson
// @Description Append a lesson at the end of the course
// @Tags lessons
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param request body models.CreateLessonRequest true "Lesson data"
// @Success 201 {object} models.Lesson
// @Failure 403 {object} map[string]any "Not the course owner"
// @Failure 404 {object} map[string]any "Course not found"
// @Security BearerAuth
// @Router /courses/{courseId}/lessons [post]
func (h *LessonHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	courseID, err := URLParamInt(r, "courseId")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	var req models.CreateLessonRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.RespondError(w, err)
		return
	}

	lesson, err := h.lessonService.CreateLesson(r.Context(), courseID, &req, userID, role)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, lesson)
}

// List handles GET /courses/{courseId}/lessons
// @Summary List a course's lessons
// @Description List lessons in position order; students see their own completion flags
// @Tags lessons
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {array} models.LessonListItem
// @Failure 403 {object} map[string]any "Not enrolled"
// @Failure 404 {object} map[string]any "Course not found"
// @Security BearerAuth
// @Router /courses/{courseId}/lessons [get]
func (h *LessonHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	courseID, err := URLParamInt(r, "courseId")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	lessons, err := h.lessonService.ListLessons(r.Context(), courseID, userID, role)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, lessons)
}

// Reorder handles PUT /courses/{courseId}/lessons/reorder
// @Summary Reorder a course's lessons
// @Description Reassign dense positions 1..N in the given order; the ids must be exactly the course's lesson set
// @Tags lessons
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param request body models.ReorderLessonsRequest true "Lesson ids in the new order"
// @Success 200 {array} models.Lesson
// @Failure 400 {object} map[string]any "Id set mismatch"
// @Failure 403 {object} map[string]any "Not the course owner"
// @Security BearerAuth
// @Router /courses/{courseId}/lessons/reorder [put]
func (h *LessonHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	courseID, err := URLParamInt(r, "courseId")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	var req models.ReorderLessonsRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.RespondError(w, err)
		return
	}

	lessons, err := h.lessonService.ReorderLessons(r.Context(), courseID, req.LessonIDs, userID, role)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, lessons)
}

// Get handles GET /lessons/{id}
// @Summary Get a lesson
// @Description Get a lesson with its content; students need an enrollment in the published course
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} models.Lesson
// @Failure 403 {object} map[string]any "Not enrolled"
// @Failure 404 {object} map[string]any "Lesson not found"
// @Security BearerAuth
// @Router /lessons/{id} [get]
func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	id, err := URLParamInt(r, "id")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	lesson, err := h.lessonService.GetLesson(r.Context(), id, userID, role)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, lesson)
}

// Update handles PUT /lessons/{id}
// @Summary Update a lesson
// @Description Apply a partial update to a lesson; owner or admin only
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param request body models.UpdateLessonRequest true "Fields to update"
// @Success 200 {object} models.Lesson
// @Failure 403 {object} map[string]any "Not the course owner"
// @Failure 404 {object} map[string]any "Lesson not found"
// @Security BearerAuth
// @Router /lessons/{id} [put]
func (h *LessonHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	id, err := URLParamInt(r, "id")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	var req models.UpdateLessonRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.RespondError(w, err)
		return
	}

	lesson, err := h.lessonService.UpdateLesson(r.Context(), id, &req, userID, role)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, lesson)
}

// Delete handles DELETE /lessons/{id}
// @Summary Delete a lesson
// @Description Delete a lesson and recompact the remaining positions to a dense sequence
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]any "Not the course owner"
// @Failure 404 {object} map[string]any "Lesson not found"
// @Security BearerAuth
// @Router /lessons/{id} [delete]
func (h *LessonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	id, err := URLParamInt(r, "id")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	if err := h.lessonService.DeleteLesson(r.Context(), id, userID, role); err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "lesson deleted"})
}
