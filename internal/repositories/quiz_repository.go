package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

type quizRepository struct {
	db *sql.DB
}

// NewQuizRepository creates a new quiz repository
func NewQuizRepository(db *sql.DB) *quizRepository {
	return &quizRepository{
		db: db,
	}
}

// Create inserts a new quiz
func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	query := `
		INSERT INTO quizzes (course_id, title)
		VALUES (?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, quiz.CourseID, quiz.Title)
	if err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	quiz.ID = int(id)
	return nil
}

// GetByID retrieves a quiz by ID
func (r *quizRepository) GetByID(ctx context.Context, id int) (*models.Quiz, error) {
	query := `
		SELECT id, course_id, title
		FROM quizzes
		WHERE id = ?
		LIMIT 1
	`

	var quiz models.Quiz
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&quiz.ID,
		&quiz.CourseID,
		&quiz.Title,
	)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("QUIZ_NOT_FOUND", "quiz not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quiz by id: %w", err)
	}

	return &quiz, nil
}

// GetByCourseID retrieves all quizzes for a course
func (r *quizRepository) GetByCourseID(ctx context.Context, courseID int) ([]models.Quiz, error) {
	query := `
		SELECT id, course_id, title
		FROM quizzes
		WHERE course_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []models.Quiz
	for rows.Next() {
		var quiz models.Quiz
		if err := rows.Scan(&quiz.ID, &quiz.CourseID, &quiz.Title); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return quizzes, nil
}

// Delete deletes a quiz by ID; questions and submissions follow via
// cascading foreign keys
func (r *quizRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM quizzes WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperr.NotFound("QUIZ_NOT_FOUND", "quiz not found")
	}

	return nil
}

// CreateQuestion inserts a new question at the end of the quiz
func (r *quizRepository) CreateQuestion(ctx context.Context, question *models.QuizQuestion) error {
	choicesJSON, err := json.Marshal(question.Choices)
	if err != nil {
		return fmt.Errorf("failed to marshal choices: %w", err)
	}

	query := `
		INSERT INTO quiz_questions (quiz_id, prompt, choices, correct_index, position)
		SELECT ?, ?, ?, ?, COALESCE(MAX(position), 0) + 1
		FROM quiz_questions
		WHERE quiz_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		question.QuizID,
		question.Prompt,
		choicesJSON,
		question.CorrectIndex,
		question.QuizID,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz question: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	question.ID = int(id)
	return nil
}

// GetQuestions retrieves a quiz's questions sorted by position
func (r *quizRepository) GetQuestions(ctx context.Context, quizID int) ([]models.QuizQuestion, error) {
	query := `
		SELECT id, quiz_id, prompt, choices, correct_index, position
		FROM quiz_questions
		WHERE quiz_id = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz questions: %w", err)
	}
	defer rows.Close()

	var questions []models.QuizQuestion
	for rows.Next() {
		var q models.QuizQuestion
		var choicesJSON []byte
		err := rows.Scan(
			&q.ID,
			&q.QuizID,
			&q.Prompt,
			&choicesJSON,
			&q.CorrectIndex,
			&q.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quiz question: %w", err)
		}
		if err := json.Unmarshal(choicesJSON, &q.Choices); err != nil {
			return nil, fmt.Errorf("failed to unmarshal choices: %w", err)
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return questions, nil
}

// CreateSubmission inserts a new quiz submission. Submissions are
// append-only; the latest is the newest by created_at.
func (r *quizRepository) CreateSubmission(ctx context.Context, submission *models.QuizSubmission) error {
	answersJSON, err := json.Marshal(submission.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	query := `
		INSERT INTO quiz_submissions (quiz_id, user_id, answers, score)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		submission.QuizID,
		submission.UserID,
		answersJSON,
		submission.Score,
	)
	if err != nil {
		return fmt.Errorf("failed to create quiz submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	submission.ID = int(id)
	return nil
}

// GetLatestSubmission retrieves a user's most recent submission for a quiz
func (r *quizRepository) GetLatestSubmission(ctx context.Context, quizID, userID int) (*models.QuizSubmission, error) {
	query := `
		SELECT id, quiz_id, user_id, answers, score, created_at
		FROM quiz_submissions
		WHERE quiz_id = ? AND user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var s models.QuizSubmission
	var answersJSON []byte
	err := r.db.QueryRowContext(ctx, query, quizID, userID).Scan(
		&s.ID,
		&s.QuizID,
		&s.UserID,
		&answersJSON,
		&s.Score,
		&s.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("SUBMISSION_NOT_FOUND", "no submission found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest submission: %w", err)
	}

	if err := json.Unmarshal(answersJSON, &s.Answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
	}

	return &s, nil
}

// ListSubmissions retrieves all submissions for a quiz, newest first
func (r *quizRepository) ListSubmissions(ctx context.Context, quizID, page, limit int) ([]models.QuizSubmission, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM quiz_submissions WHERE quiz_id = ?`
	if err := r.db.QueryRowContext(ctx, countQuery, quizID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	query := `
		SELECT id, quiz_id, user_id, answers, score, created_at
		FROM quiz_submissions
		WHERE quiz_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, quizID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var submissions []models.QuizSubmission
	for rows.Next() {
		var s models.QuizSubmission
		var answersJSON []byte
		err := rows.Scan(
			&s.ID,
			&s.QuizID,
			&s.UserID,
			&answersJSON,
			&s.Score,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan submission: %w", err)
		}
		if err := json.Unmarshal(answersJSON, &s.Answers); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal answers: %w", err)
		}
		submissions = append(submissions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return submissions, total, nil
}
