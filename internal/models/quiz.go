package models

import "time"

// Quiz represents a quiz attached to a course
type Quiz struct {
	ID       int    `json:"id"`
	CourseID int    `json:"courseId"`
	Title    string `json:"title"`
}

// QuizQuestion represents a single question in a quiz
type QuizQuestion struct {
	ID           int      `json:"id"`
	QuizID       int      `json:"quizId"`
	Prompt       string   `json:"prompt"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"-"`
	Position     int      `json:"position"`
}

// QuizSubmission represents a student's answers and computed score.
// Submissions are append-only; the latest is the newest by CreatedAt.
type QuizSubmission struct {
	ID        int       `json:"id"`
	QuizID    int       `json:"quizId"`
	UserID    int       `json:"userId"`
	Answers   []int     `json:"answers"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateQuizRequest represents a request to create a quiz
type CreateQuizRequest struct {
	Title string `json:"title"`
}

// CreateQuizQuestionRequest represents a request to add a question to a quiz
type CreateQuizQuestionRequest struct {
	Prompt       string   `json:"prompt"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correctIndex"`
}

// SubmitQuizRequest represents a quiz submission request
type SubmitQuizRequest struct {
	Answers []int `json:"answers"`
}
