package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/services"
)

// QuizService is the interface that wraps methods for quiz business logic.
type QuizService interface {
	// Method CreateQuiz creates a quiz on a course; owner or admin only.
	CreateQuiz(ctx context.Context, courseID int, req *models.CreateQuizRequest, requesterID int, role models.Role) (*models.Quiz, error)
	// Method ListQuizzes retrieves a course's quizzes.
	ListQuizzes(ctx context.Context, courseID, requesterID int, role models.Role) ([]models.Quiz, error)
	// Method GetQuiz retrieves a quiz with its questions; correct answers are
	// not serialized.
	GetQuiz(ctx context.Context, quizID, requesterID int, role models.Role) (*services.QuizWithQuestions, error)
	// Method AddQuestion appends a question to a quiz; owner or admin only.
	AddQuestion(ctx context.Context, quizID int, req *models.CreateQuizQuestionRequest, requesterID int, role models.Role) (*models.QuizQuestion, error)
	// Method DeleteQuiz deletes a quiz; owner or admin only.
	DeleteQuiz(ctx context.Context, quizID, requesterID int, role models.Role) error
	// Method SubmitQuiz grades the answers and appends a submission.
	SubmitQuiz(ctx context.Context, quizID int, answers []int, userID int) (*models.QuizSubmission, error)
	// Method GetLatestSubmission retrieves the caller's newest submission.
	GetLatestSubmission(ctx context.Context, quizID, userID int) (*models.QuizSubmission, error)
	// Method ListSubmissions retrieves a page of submissions; owner or admin only.
	ListSubmissions(ctx context.Context, quizID, requesterID int, role models.Role, page, limit int) ([]models.QuizSubmission, *models.Pagination, error)
}

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	BaseHandler
	quizService QuizService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizService QuizService, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler: BaseHandler{Logger: logger},
		quizService: quizService,
	}
}

// RegisterRoutes registers all quiz handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *QuizHandler) RegisterRoutes(r chi.Router, authMW, staffMW func(http.Handler) http.Handler) {
	r.Route("/courses/{courseId}/quizzes", func(r chi.Router) {
		r.With(authMW).Get("/", h.List)
		r.With(staffMW).Post("/", h.Create)
	})
	r.Route("/quizzes", func(r chi.Router) {
		r.With(authMW).Get("/{id}", h.Get)
		r.With(staffMW).Post("/{id}/questions", h.AddQuestion)
		r.With(staffMW).Delete("/{id}", h.Delete)
		r.With(authMW).Post("/{id}/submit", h.Submit)
		r.With(authMW).Get("/{id}/submissions/latest", h.LatestSubmission)
		r.With(staffMW).Get("/{id}/submissions", h.ListSubmissions)
	})
}

// Create handles POST /courses/{courseId}/quizzes
// @Summary Create a quiz
// @Description Create a quiz on a course; owner or admin only
// @Tags quizzes
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param request body models.CreateQuizRequest true "Quiz data"
// @Success 201 {object} models.Quiz
// @Failure 403 {object} map[string]any "Not the course owner"
// @Failure 404 {object} map[string]any "Course not found"
// @Security BearerAuth
// @Router /courses/{courseId}/quizzes [post]
func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	courseID, err := URLParamInt(r, "courseId")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	var req models.CreateQuizRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.RespondError(w, err)
		return
	}

	quiz, err := h.quizService.CreateQuiz(r.Context(), courseID, &req, userID, role)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, quiz)
}

// List handles GET /courses/{courseId}/quizzes
// @Summary List a course's quizzes
// @Tags quizzes
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {array} models.Quiz
// @Failure 403 {object} map[string]any "Not enrolled"
// @Security BearerAuth
// @Router /courses/{courseId}/quizzes [get]
func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	courseID, err := URLParamInt(r, "courseId")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	quizzes, err := h.quizService.ListQuizzes(r.Context(), courseID, userID, role)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, quizzes)
}

// Get handles GET /quizzes/{id}
// @Summary Get a quiz with its questions
// @Description Get a quiz and its questions in position order; correct answers are hidden
// @Tags quizzes
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} services.QuizWithQuestions
// @Failure 404 {object} map[string]any "Quiz not found"
// @Security BearerAuth
// @Router /quizzes/{id} [get]
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	id, err := URLParamInt(r, "id")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	quiz, err := h.quizService.GetQuiz(r.Context(), id, userID, role)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, quiz)
}

// AddQuestion handles POST /quizzes/{id}/questions
// @Summary Add a question to a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param request body models.CreateQuizQuestionRequest true "Question data"
// @Success 201 {object} models.QuizQuestion
// @Failure 400 {object} map[string]any "Invalid question data"
// @Failure 403 {object} map[string]any "Not the course owner"
// @Security BearerAuth
// @Router /quizzes/{id}/questions [post]
func (h *QuizHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	id, err := URLParamInt(r, "id")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	var req models.CreateQuizQuestionRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.RespondError(w, err)
		return
	}

	question, err := h.quizService.AddQuestion(r.Context(), id, &req, userID, role)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, question)
}

// Delete handles DELETE /quizzes/{id}
// @Summary Delete a quiz
// @Description Delete a quiz with its questions and submissions; owner or admin only
// @Tags quizzes
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]any "Not the course owner"
// @Failure 404 {object} map[string]any "Quiz not found"
// @Security BearerAuth
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	id, err := URLParamInt(r, "id")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	if err := h.quizService.DeleteQuiz(r.Context(), id, userID, role); err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "quiz deleted"})
}

// Submit handles POST /quizzes/{id}/submit
// @Summary Submit quiz answers
// @Description Grade the answers and append a submission; one answer per question
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param request body models.SubmitQuizRequest true "Answer indexes"
// @Success 201 {object} models.QuizSubmission
// @Failure 400 {object} map[string]any "Answer count mismatch"
// @Failure 403 {object} map[string]any "Not enrolled or course unpublished"
// @Failure 404 {object} map[string]any "Quiz not found"
// @Security BearerAuth
// @Router /quizzes/{id}/submit [post]
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.Identity(w, r)
	if !ok {
		return
	}

	id, err := URLParamInt(r, "id")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	var req models.SubmitQuizRequest
	if err := DecodeJSON(r, &req); err != nil {
		h.RespondError(w, err)
		return
	}

	submission, err := h.quizService.SubmitQuiz(r.Context(), id, req.Answers, userID)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusCreated, submission)
}

// LatestSubmission handles GET /quizzes/{id}/submissions/latest
// @Summary Get own latest submission
// @Tags quizzes
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} models.QuizSubmission
// @Failure 404 {object} map[string]any "No submission found"
// @Security BearerAuth
// @Router /quizzes/{id}/submissions/latest [get]
func (h *QuizHandler) LatestSubmission(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := h.Identity(w, r)
	if !ok {
		return
	}

	id, err := URLParamInt(r, "id")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	submission, err := h.quizService.GetLatestSubmission(r.Context(), id, userID)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondJSON(w, http.StatusOK, submission)
}

// ListSubmissions handles GET /quizzes/{id}/submissions
// @Summary List a quiz's submissions
// @Description List submissions newest first; owning instructor or admin only
// @Tags quizzes
// @Produce json
// @Param id path int true "Quiz ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} models.QuizSubmission
// @Failure 403 {object} map[string]any "Not the course owner"
// @Security BearerAuth
// @Router /quizzes/{id}/submissions [get]
func (h *QuizHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := h.Identity(w, r)
	if !ok {
		return
	}

	id, err := URLParamInt(r, "id")
	if err != nil {
		h.RespondError(w, err)
		return
	}

	page := QueryInt(r, "page", 1)
	limit := QueryInt(r, "limit", 10)

	submissions, pagination, err := h.quizService.ListSubmissions(r.Context(), id, userID, role, page, limit)
	if err != nil {
		h.RespondError(w, err)
		return
	}

	h.RespondPage(w, http.StatusOK, submissions, pagination)
}
