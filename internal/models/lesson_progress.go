package models

import "time"

// LessonProgress represents a student's completion record for a lesson
type LessonProgress struct {
	ID           int        `json:"id"`
	EnrollmentID int        `json:"enrollmentId"`
	LessonID     int        `json:"lessonId"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

// CourseProgress summarizes a student's progress within a course
type CourseProgress struct {
	CourseID         int `json:"courseId"`
	TotalLessons     int `json:"totalLessons"`
	CompletedLessons int `json:"completedLessons"`
}
