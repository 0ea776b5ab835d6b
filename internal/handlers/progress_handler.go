package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// ProgressService is the interface that wraps methods for lesson progress business logic.
type ProgressService interface {
	// Method CompleteLesson marks a lesson completed for the caller's own
	// active enrollment.
	CompleteLesson(ctx context.Context, userID, lessonID int) error
	// Method UncompleteLesson clears a lesson's completion.
	UncompleteLesson(ctx context.Context, userID, lessonID int) error
	// Method GetCourseProgress reports completed and total lesson counts for
	// the caller's enrollment.
	GetCourseProgress(ctx context.Context, userID, courseID int) (*models.CourseProgress, error)
}

// ProgressHandler handles lesson progress HTTP requests
type ProgressHandler struct {
	BaseHandler
	progressService ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressService ProgressService, logger *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     BaseHandler{Logger: logger},
		progressService: progressService,
	}
}

// RegisterRoutes registers all progress handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *ProgressHandler) RegisterRoutes(r chi.Router, authMW func(http.Handler) http.Handler) {
	r.With(authMW).Post("/lessons/{id}/complete", h.Complete)
	r.With(authMW).Delete("/lessons/{id}/complete", h.Uncomplete)
	r.With(authMW).Get("/courses/{courseId}/progress", h.CourseProgress)
}

// Complete handles POST /lessons/{id}/complete
// @Summary Mark a lesson completed
// @Description Mark a lesson completed for the caller's own active enrollment
// @Tags progress
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]any "Not enrolled"
// @Failure 404 {object} map[string]any "Lesson not found"
// @Security BearerAuth
// @Router /lessons/{id}/complete [post]
func (h *ProgressHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.Identity(w, r)
	if !ok {
		return
	}

	id, err := URLParamInt(r, "id")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	if err := h.progressService.CompleteLesson(r.Context(), userID, id); err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "lesson completed"})
}

// Uncomplete handles DELETE /lessons/{id}/complete
// @Summary Clear a lesson's completion
// @Tags progress
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]any "Not enrolled"
// @Failure 404 {object} map[string]any "Lesson not found"
// @Security BearerAuth
// @Router /lessons/{id}/complete [delete]
func (h *ProgressHandler) Uncomplete(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.Identity(w, r)
	if !ok {
		return
	}

	id, err := URLParamInt(r, "id")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	if err := h.progressService.UncompleteLesson(r.Context(), userID, id); err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "lesson completion cleared"})
}

// CourseProgress handles GET /courses/{courseId}/progress
// @Summary Get course progress
// @Description Report completed and total lesson counts for the caller's enrollment
// @Tags progress
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} models.CourseProgress
// @Failure 404 {object} map[string]any "Enrollment not found"
// @Security BearerAuth
// @Router /courses/{courseId}/progress [get]
func (h *ProgressHandler) CourseProgress(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.Identity(w, r)
	if !ok {
		return
	}

	courseID, err := URLParamInt(r, "courseId")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	progress, err := h.progressService.GetCourseProgress(r.Context(), userID, courseID)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, progress)
}
