package models

import "time"

// EnrollmentStatus represents the status of an enrollment
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusRefunded  EnrollmentStatus = "refunded"
)

// Valid reports whether the status is one of the known statuses
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusCompleted, EnrollmentStatusRefunded:
		return true
	}
	return false
}

// Enrollment represents a user's enrollment in a course
type Enrollment struct {
	ID        int              `json:"id"`
	UserID    int              `json:"userId"`
	CourseID  int              `json:"courseId"`
	Status    EnrollmentStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
}

// EnrollmentWithCourse represents an enrollment joined with its course summary
type EnrollmentWithCourse struct {
	Enrollment
	Course CourseSummary `json:"course"`
}

// EnrollmentWithStudent represents an enrollment joined with the student summary
type EnrollmentWithStudent struct {
	Enrollment
	Student UserSummary `json:"student"`
}

// CreateEnrollmentRequest represents a self-enrollment request
type CreateEnrollmentRequest struct {
	CourseID int `json:"courseId"`
}

// UpdateEnrollmentStatusRequest represents an admin status transition request
type UpdateEnrollmentStatusRequest struct {
	Status EnrollmentStatus `json:"status"`
}
