package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

// Create inserts a new course
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (title, description, price, published, instructor_id)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		course.Title,
		course.Description,
		course.Price,
		course.Published,
		course.InstructorID,
	)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	course.ID = int(id)
	return nil
}

// GetByID retrieves a course by ID
func (r *courseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	query := `
		SELECT id, title, description, price, published, instructor_id, created_at
		FROM courses
		WHERE id = ?
		LIMIT 1
	`

	course := &models.Course{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Price,
		&course.Published,
		&course.InstructorID,
		&course.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("COURSE_NOT_FOUND", "course not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}

	return course, nil
}

// List retrieves courses with optional filters and pagination.
// publishedOnly restricts to published courses; instructorID, when non-nil,
// restricts to courses owned by that instructor.
func (r *courseRepository) List(ctx context.Context, publishedOnly bool, instructorID *int, page, limit int) ([]models.Course, int, error) {
	var whereParts []string
	var args []any

	if publishedOnly {
		whereParts = append(whereParts, "published = TRUE")
	}
	if instructorID != nil {
		whereParts = append(whereParts, "instructor_id = ?")
		args = append(args, *instructorID)
	}

	whereClause := ""
	if len(whereParts) > 0 {
		whereClause = "WHERE " + strings.Join(whereParts, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM courses %s`, whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, title, description, price, published, instructor_id, created_at
		FROM courses
		%s
		ORDER BY id
		LIMIT ? OFFSET ?
	`, whereClause)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var course models.Course
		err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Description,
			&course.Price,
			&course.Published,
			&course.InstructorID,
			&course.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return courses, total, nil
}

// Update updates a course (partial update)
func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	var setParts []string
	var args []any

	if course.Title != "" {
		setParts = append(setParts, "title = ?")
		args = append(args, course.Title)
	}
	if course.Description != "" {
		setParts = append(setParts, "description = ?")
		args = append(args, course.Description)
	}
	if course.Price >= 0 {
		setParts = append(setParts, "price = ?")
		args = append(args, course.Price)
	}

	if len(setParts) == 0 {
		return apperr.Validation("NO_FIELDS", "no fields to update")
	}

	query := fmt.Sprintf(`
		UPDATE courses
		SET %s
		WHERE id = ?
	`, strings.Join(setParts, ", "))

	args = append(args, course.ID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperr.NotFound("COURSE_NOT_FOUND", "course not found")
	}

	return nil
}

// Publish flips the published flag on. The flip is one-way; publishing an
// already-published course is a no-op.
func (r *courseRepository) Publish(ctx context.Context, id int) error {
	query := `UPDATE courses SET published = TRUE WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to publish course: %w", err)
	}

	return nil
}

// Delete deletes a course by ID; lessons, enrollments, quizzes and
// certificates follow via cascading foreign keys
func (r *courseRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM courses WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperr.NotFound("COURSE_NOT_FOUND", "course not found")
	}

	return nil
}
