package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new lesson progress repository
func NewProgressRepository(db *sql.DB) *progressRepository {
	return &progressRepository{
		db: db,
	}
}

// MarkCompleted upserts the progress row for (enrollment, lesson) as
// completed. The unique constraint keeps at most one row per pair; a
// concurrent duplicate resolves to the same completed state.
func (r *progressRepository) MarkCompleted(ctx context.Context, enrollmentID, lessonID int) error {
	query := `
		INSERT INTO lesson_progress (enrollment_id, lesson_id, completed, completed_at)
		VALUES (?, ?, TRUE, NOW())
		ON DUPLICATE KEY UPDATE completed = TRUE, completed_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query, enrollmentID, lessonID)
	if err != nil {
		return fmt.Errorf("failed to mark lesson completed: %w", err)
	}

	return nil
}

// MarkIncomplete upserts the progress row for (enrollment, lesson) as not
// completed
func (r *progressRepository) MarkIncomplete(ctx context.Context, enrollmentID, lessonID int) error {
	query := `
		INSERT INTO lesson_progress (enrollment_id, lesson_id, completed, completed_at)
		VALUES (?, ?, FALSE, NULL)
		ON DUPLICATE KEY UPDATE completed = FALSE, completed_at = NULL
	`

	_, err := r.db.ExecContext(ctx, query, enrollmentID, lessonID)
	if err != nil {
		return fmt.Errorf("failed to mark lesson incomplete: %w", err)
	}

	return nil
}

// CountCompleted counts completed lessons for an enrollment
func (r *progressRepository) CountCompleted(ctx context.Context, enrollmentID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM lesson_progress
		WHERE enrollment_id = ? AND completed = TRUE
	`

	var count int
	err := r.db.QueryRowContext(ctx, query, enrollmentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed lessons: %w", err)
	}

	return count, nil
}

// GetByEnrollment retrieves all progress rows for an enrollment
func (r *progressRepository) GetByEnrollment(ctx context.Context, enrollmentID int) ([]models.LessonProgress, error) {
	query := `
		SELECT id, enrollment_id, lesson_id, completed, completed_at
		FROM lesson_progress
		WHERE enrollment_id = ?
		ORDER BY lesson_id
	`

	rows, err := r.db.QueryContext(ctx, query, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lesson progress: %w", err)
	}
	defer rows.Close()

	var progress []models.LessonProgress
	for rows.Next() {
		var p models.LessonProgress
		err := rows.Scan(
			&p.ID,
			&p.EnrollmentID,
			&p.LessonID,
			&p.Completed,
			&p.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson progress: %w", err)
		}
		progress = append(progress, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return progress, nil
}
