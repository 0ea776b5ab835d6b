package models

// Lesson represents a lesson in a course with a dense 1..N position
type Lesson struct {
	ID       int    `json:"id"`
	CourseID int    `json:"courseId"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

// LessonListItem represents a lesson in student list responses
type LessonListItem struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Position  int    `json:"position"`
	Completed bool   `json:"completed"`
}

// CreateLessonRequest represents a request to create a lesson
type CreateLessonRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateLessonRequest represents a request to update a lesson (partial update)
type UpdateLessonRequest struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// ReorderLessonsRequest represents a request to reorder a course's lessons
type ReorderLessonsRequest struct {
	LessonIDs []int `json:"lessonIds"`
}
