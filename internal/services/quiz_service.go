package services

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// QuizRepository is the interface that wraps methods for quiz table data access
type QuizRepository interface {
	// Method Create inserts a new quiz into the database.
	Create(ctx context.Context, quiz *models.Quiz) error
	// Method GetByID retrieves a quiz by ID.
	//
	// If quiz with such ID does not exist, a NotFound error is returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.Quiz, error)
	// Method GetByCourseID retrieves all quizzes for a course.
	GetByCourseID(ctx context.Context, courseID int) ([]models.Quiz, error)
	// Method Delete deletes a quiz; questions and submissions follow via
	// cascading foreign keys.
	Delete(ctx context.Context, id int) error
	// Method CreateQuestion appends a question at the end of the quiz.
	CreateQuestion(ctx context.Context, question *models.QuizQuestion) error
	// Method GetQuestions retrieves a quiz's questions sorted by position.
	GetQuestions(ctx context.Context, quizID int) ([]models.QuizQuestion, error)
	// Method CreateSubmission appends a new submission row.
	CreateSubmission(ctx context.Context, submission *models.QuizSubmission) error
	// Method GetLatestSubmission retrieves a user's newest submission for a quiz.
	//
	// If the user never submitted, a NotFound error is returned together with "nil" value.
	GetLatestSubmission(ctx context.Context, quizID, userID int) (*models.QuizSubmission, error)
	// Method ListSubmissions retrieves a page of a quiz's submissions with the
	// total row count, newest first.
	ListSubmissions(ctx context.Context, quizID, page, limit int) ([]models.QuizSubmission, int, error)
}

// QuizWithQuestions is a quiz together with its questions; correct answers
// are not serialized
type QuizWithQuestions struct {
	models.Quiz
	Questions []models.QuizQuestion `json:"questions"`
}

// quizService handles quiz CRUD, grading and submission access
type quizService struct {
	quizRepo       QuizRepository
	courseRepo     CourseRepository
	enrollmentRepo EnrollmentRepository
	logger         *zap.Logger
}

// NewQuizService creates a new quiz service
func NewQuizService(
	quizRepo QuizRepository,
	courseRepo CourseRepository,
	enrollmentRepo EnrollmentRepository,
	logger *zap.Logger,
) *quizService {
	return &quizService{
		quizRepo:       quizRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		logger:         logger,
	}
}

// CreateQuiz creates a quiz on a course; owner or admin only
func (s *quizService) CreateQuiz(ctx context.Context, courseID int, req *models.CreateQuizRequest, requesterID int, role models.Role) (*models.Quiz, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !canManageCourse(course, requesterID, role) {
		return nil, apperr.Forbidden("NOT_COURSE_OWNER", "only the course owner or an admin can modify quizzes")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.Validation("INVALID_QUIZ", "invalid quiz data",
			apperr.FieldError{Field: "title", Message: "title cannot be empty"})
	}

	quiz := &models.Quiz{CourseID: courseID, Title: title}
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, err
	}

	return quiz, nil
}

// ListQuizzes retrieves a course's quizzes. Managers always have access;
// students need an enrollment in a published course.
func (s *quizService) ListQuizzes(ctx context.Context, courseID, requesterID int, role models.Role) ([]models.Quiz, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !canManageCourse(course, requesterID, role) {
		if err := checkStudentAccess(ctx, s.enrollmentRepo, course, requesterID); err != nil {
			return nil, err
		}
	}

	return s.quizRepo.GetByCourseID(ctx, courseID)
}

// GetQuiz retrieves a quiz with its questions. Correct answer indexes are
// never serialized to students.
func (s *quizService) GetQuiz(ctx context.Context, quizID, requesterID int, role models.Role) (*QuizWithQuestions, error) {
	quiz, course, err := s.getQuizWithCourse(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if !canManageCourse(course, requesterID, role) {
		if err := checkStudentAccess(ctx, s.enrollmentRepo, course, requesterID); err != nil {
			return nil, err
		}
	}

	questions, err := s.quizRepo.GetQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	return &QuizWithQuestions{Quiz: *quiz, Questions: questions}, nil
}

// AddQuestion appends a question to a quiz; owner or admin only
func (s *quizService) AddQuestion(ctx context.Context, quizID int, req *models.CreateQuizQuestionRequest, requesterID int, role models.Role) (*models.QuizQuestion, error) {
	quiz, course, err := s.getQuizWithCourse(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if !canManageCourse(course, requesterID, role) {
		return nil, apperr.Forbidden("NOT_COURSE_OWNER", "only the course owner or an admin can modify quizzes")
	}

	var fields []apperr.FieldError
	if strings.TrimSpace(req.Prompt) == "" {
		fields = append(fields, apperr.FieldError{Field: "prompt", Message: "prompt cannot be empty"})
	}
	if len(req.Choices) < 2 {
		fields = append(fields, apperr.FieldError{Field: "choices", Message: "at least two choices are required"})
	}
	if req.CorrectIndex < 0 || req.CorrectIndex >= len(req.Choices) {
		fields = append(fields, apperr.FieldError{Field: "correctIndex", Message: "correctIndex must reference one of the choices"})
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("INVALID_QUESTION", "invalid question data", fields...)
	}

	question := &models.QuizQuestion{
		QuizID:       quiz.ID,
		Prompt:       strings.TrimSpace(req.Prompt),
		Choices:      req.Choices,
		CorrectIndex: req.CorrectIndex,
	}

	if err := s.quizRepo.CreateQuestion(ctx, question); err != nil {
		return nil, err
	}

	return question, nil
}

// DeleteQuiz deletes a quiz and its questions and submissions; owner or admin
// only
func (s *quizService) DeleteQuiz(ctx context.Context, quizID, requesterID int, role models.Role) error {
	_, course, err := s.getQuizWithCourse(ctx, quizID)
	if err != nil {
		return err
	}

	if !canManageCourse(course, requesterID, role) {
		return apperr.Forbidden("NOT_COURSE_OWNER", "only the course owner or an admin can modify quizzes")
	}

	return s.quizRepo.Delete(ctx, quizID)
}

// SubmitQuiz grades the answers and appends a submission. The answers slice
// must match the question list one-to-one.
func (s *quizService) SubmitQuiz(ctx context.Context, quizID int, answers []int, userID int) (*models.QuizSubmission, error) {
	quiz, course, err := s.getQuizWithCourse(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if !course.Published {
		return nil, apperr.Forbidden("COURSE_NOT_PUBLISHED", "course is not published")
	}

	if err := checkStudentAccess(ctx, s.enrollmentRepo, course, userID); err != nil {
		return nil, err
	}

	questions, err := s.quizRepo.GetQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if len(answers) != len(questions) {
		return nil, apperr.Validation("INVALID_ANSWERS_LENGTH", "answers must match the question count",
			apperr.FieldError{Field: "answers", Message: "one answer per question is required"})
	}

	submission := &models.QuizSubmission{
		QuizID:  quiz.ID,
		UserID:  userID,
		Answers: answers,
		Score:   gradeSubmission(questions, answers),
	}

	if err := s.quizRepo.CreateSubmission(ctx, submission); err != nil {
		return nil, err
	}

	return submission, nil
}

// GetLatestSubmission retrieves the caller's newest submission for a quiz
func (s *quizService) GetLatestSubmission(ctx context.Context, quizID, userID int) (*models.QuizSubmission, error) {
	if _, err := s.quizRepo.GetByID(ctx, quizID); err != nil {
		return nil, err
	}

	return s.quizRepo.GetLatestSubmission(ctx, quizID, userID)
}

// ListSubmissions retrieves a page of a quiz's submissions; owner or admin only
func (s *quizService) ListSubmissions(ctx context.Context, quizID, requesterID int, role models.Role, page, limit int) ([]models.QuizSubmission, *models.Pagination, error) {
	_, course, err := s.getQuizWithCourse(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}

	if !canManageCourse(course, requesterID, role) {
		return nil, nil, apperr.Forbidden("NOT_COURSE_OWNER", "only the course owner or an admin can list submissions")
	}

	page, limit = models.ClampPage(page, limit)

	submissions, total, err := s.quizRepo.ListSubmissions(ctx, quizID, page, limit)
	if err != nil {
		return nil, nil, err
	}

	return submissions, models.NewPagination(page, limit, total), nil
}

// gradeSubmission scores 100 * correct / total rounded to two decimals.
// A quiz with no questions grades to zero.
func gradeSubmission(questions []models.QuizQuestion, answers []int) float64 {
	if len(questions) == 0 {
		return 0
	}

	correct := 0
	for i, q := range questions {
		if answers[i] == q.CorrectIndex {
			correct++
		}
	}

	score := 100 * float64(correct) / float64(len(questions))
	return math.Round(score*100) / 100
}

func (s *quizService) getQuizWithCourse(ctx context.Context, quizID int) (*models.Quiz, *models.Course, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, quiz.CourseID)
	if err != nil {
		return nil, nil, err
	}

	return quiz, course, nil
}
