package models

import "time"

// Course represents a course owned by an instructor
type Course struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        int       `json:"price"`
	Published    bool      `json:"published"`
	InstructorID int       `json:"instructorId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CourseSummary represents a course in joined list responses
type CourseSummary struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Price     int    `json:"price"`
	Published bool   `json:"published"`
}

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int    `json:"price"`
}

// UpdateCourseRequest represents a request to update a course (partial update)
type UpdateCourseRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Price       *int   `json:"price,omitempty"`
}
