package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

type lessonRepository struct {
	db *sql.DB
}

// NewLessonRepository creates a new lesson repository
func NewLessonRepository(db *sql.DB) *lessonRepository {
	return &lessonRepository{
		db: db,
	}
}

// GetByID retrieves a lesson by its ID
func (r *lessonRepository) GetByID(ctx context.Context, id int) (*models.Lesson, error) {
	query := `
		SELECT id, course_id, title, content, position
		FROM lessons
		WHERE id = ?
		LIMIT 1
	`

	var lesson models.Lesson
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&lesson.ID,
		&lesson.CourseID,
		&lesson.Title,
		&lesson.Content,
		&lesson.Position,
	)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("LESSON_NOT_FOUND", "lesson not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson by id: %w", err)
	}

	return &lesson, nil
}

// GetByCourseID retrieves all lessons for a course, sorted by position
func (r *lessonRepository) GetByCourseID(ctx context.Context, courseID int) ([]models.Lesson, error) {
	query := `
		SELECT id, course_id, title, content, position
		FROM lessons
		WHERE course_id = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var lesson models.Lesson
		err := rows.Scan(
			&lesson.ID,
			&lesson.CourseID,
			&lesson.Title,
			&lesson.Content,
			&lesson.Position,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lessons, nil
}

// GetByCourseIDWithCompletion retrieves lessons for a course with completion
// status for the enrollment
func (r *lessonRepository) GetByCourseIDWithCompletion(ctx context.Context, courseID, enrollmentID int) ([]models.LessonListItem, error) {
	query := `
		SELECT
			l.id,
			l.title,
			l.position,
			CASE WHEN lp.completed = TRUE THEN 1 ELSE 0 END as completed
		FROM lessons l
		LEFT JOIN lesson_progress lp ON lp.lesson_id = l.id AND lp.enrollment_id = ?
		WHERE l.course_id = ?
		ORDER BY l.position
	`

	rows, err := r.db.QueryContext(ctx, query, enrollmentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	var lessons []models.LessonListItem
	for rows.Next() {
		var lesson models.LessonListItem
		var completed int
		err := rows.Scan(
			&lesson.ID,
			&lesson.Title,
			&lesson.Position,
			&completed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lesson.Completed = completed == 1
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return lessons, nil
}

// CountByCourse counts lessons in a course
func (r *lessonRepository) CountByCourse(ctx context.Context, courseID int) (int, error) {
	query := `SELECT COUNT(*) FROM lessons WHERE course_id = ?`

	var count int
	err := r.db.QueryRowContext(ctx, query, courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}

	return count, nil
}

// Create inserts a new lesson at the end of the course (position N+1)
func (r *lessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	query := `
		INSERT INTO lessons (course_id, title, content, position)
		SELECT ?, ?, ?, COALESCE(MAX(position), 0) + 1
		FROM lessons
		WHERE course_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		lesson.CourseID,
		lesson.Title,
		lesson.Content,
		lesson.CourseID,
	)
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	lesson.ID = int(id)
	return nil
}

// Update updates a lesson (partial update)
func (r *lessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	var setParts []string
	var args []any

	if lesson.Title != "" {
		setParts = append(setParts, "title = ?")
		args = append(args, lesson.Title)
	}
	if lesson.Content != "" {
		setParts = append(setParts, "content = ?")
		args = append(args, lesson.Content)
	}

	if len(setParts) == 0 {
		return apperr.Validation("NO_FIELDS", "no fields to update")
	}

	query := fmt.Sprintf(`
		UPDATE lessons
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))

	args = append(args, lesson.ID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperr.NotFound("LESSON_NOT_FOUND", "lesson not found")
	}

	return nil
}

// DeleteAndRecompact deletes a lesson and rewrites the remaining positions to
// a dense 1..N-1 sequence, preserving relative order, in one transaction so a
// reader never observes a gap
func (r *lessonRepository) DeleteAndRecompact(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var courseID int
	err = tx.QueryRowContext(ctx, `SELECT course_id FROM lessons WHERE id = ? FOR UPDATE`, id).Scan(&courseID)
	if err == sql.ErrNoRows {
		return apperr.NotFound("LESSON_NOT_FOUND", "lesson not found")
	}
	if err != nil {
		return fmt.Errorf("failed to get lesson course: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM lessons WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}

	if err := recompactPositions(ctx, tx, courseID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Reorder assigns positions 1..N to the course's lessons in the order given.
// The id list must be exactly the course's current lesson id set; the check
// runs inside the transaction so the set cannot change under it.
func (r *lessonRepository) Reorder(ctx context.Context, courseID int, lessonIDs []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id FROM lessons WHERE course_id = ? FOR UPDATE`, courseID)
	if err != nil {
		return fmt.Errorf("failed to lock lessons: %w", err)
	}

	current := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan lesson id: %w", err)
		}
		current[id] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating rows: %w", err)
	}
	rows.Close()

	if len(lessonIDs) != len(current) {
		return apperr.Validation("LESSON_COUNT_MISMATCH", "lesson count mismatch")
	}
	seen := make(map[int]bool, len(lessonIDs))
	for _, id := range lessonIDs {
		if !current[id] {
			return apperr.Validation("LESSON_COUNT_MISMATCH", fmt.Sprintf("lesson %d does not belong to course %d", id, courseID))
		}
		if seen[id] {
			return apperr.Validation("LESSON_COUNT_MISMATCH", fmt.Sprintf("lesson %d appears more than once", id))
		}
		seen[id] = true
	}

	for i, id := range lessonIDs {
		if _, err := tx.ExecContext(ctx, `UPDATE lessons SET position = ? WHERE id = ?`, i+1, id); err != nil {
			return fmt.Errorf("failed to update lesson position: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// recompactPositions rewrites a course's lesson positions to 1..N in the
// current order
func recompactPositions(ctx context.Context, tx *sql.Tx, courseID int) error {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM lessons WHERE course_id = ? ORDER BY position`, courseID)
	if err != nil {
		return fmt.Errorf("failed to query remaining lessons: %w", err)
	}

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan lesson id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("error iterating rows: %w", err)
	}
	rows.Close()

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE lessons SET position = ? WHERE id = ?`, i+1, id); err != nil {
			return fmt.Errorf("failed to recompact lesson position: %w", err)
		}
	}

	return nil
}
