package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

type enrollmentRepository struct {
	db *sql.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *sql.DB) *enrollmentRepository {
	return &enrollmentRepository{
		db: db,
	}
}

// Create inserts a new enrollment with status active. A concurrent duplicate
// for the same (user, course) pair fails the unique constraint and is
// translated to ALREADY_ENROLLED.
func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (user_id, course_id, status)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		enrollment.UserID,
		enrollment.CourseID,
		enrollment.Status,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperr.Conflict("ALREADY_ENROLLED", "user is already enrolled in this course")
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	enrollment.ID = int(id)
	return nil
}

// GetByID retrieves an enrollment by ID
func (r *enrollmentRepository) GetByID(ctx context.Context, id int) (*models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, status, created_at
		FROM enrollments
		WHERE id = ?
		LIMIT 1
	`

	var enrollment models.Enrollment
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&enrollment.ID,
		&enrollment.UserID,
		&enrollment.CourseID,
		&enrollment.Status,
		&enrollment.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("ENROLLMENT_NOT_FOUND", "enrollment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment by id: %w", err)
	}

	return &enrollment, nil
}

// GetByUserAndCourse retrieves a user's enrollment in a course
func (r *enrollmentRepository) GetByUserAndCourse(ctx context.Context, userID, courseID int) (*models.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, status, created_at
		FROM enrollments
		WHERE user_id = ? AND course_id = ?
		LIMIT 1
	`

	var enrollment models.Enrollment
	err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(
		&enrollment.ID,
		&enrollment.UserID,
		&enrollment.CourseID,
		&enrollment.Status,
		&enrollment.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("ENROLLMENT_NOT_FOUND", "enrollment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	return &enrollment, nil
}

// GetByUser retrieves a user's enrollments joined with course summary,
// paginated, with the total row count
func (r *enrollmentRepository) GetByUser(ctx context.Context, userID, page, limit int) ([]models.EnrollmentWithCourse, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM enrollments WHERE user_id = ?`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	query := `
		SELECT
			e.id, e.user_id, e.course_id, e.status, e.created_at,
			c.id, c.title, c.price, c.published
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = ?
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []models.EnrollmentWithCourse
	for rows.Next() {
		var e models.EnrollmentWithCourse
		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.CourseID,
			&e.Status,
			&e.CreatedAt,
			&e.Course.ID,
			&e.Course.Title,
			&e.Course.Price,
			&e.Course.Published,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return enrollments, total, nil
}

// GetByCourse retrieves a course's enrollments joined with student summary,
// paginated, with the total row count
func (r *enrollmentRepository) GetByCourse(ctx context.Context, courseID, page, limit int) ([]models.EnrollmentWithStudent, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM enrollments WHERE course_id = ?`
	if err := r.db.QueryRowContext(ctx, countQuery, courseID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	query := `
		SELECT
			e.id, e.user_id, e.course_id, e.status, e.created_at,
			u.id, u.email, u.name
		FROM enrollments e
		JOIN users u ON u.id = e.user_id
		WHERE e.course_id = ?
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, courseID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []models.EnrollmentWithStudent
	for rows.Next() {
		var e models.EnrollmentWithStudent
		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.CourseID,
			&e.Status,
			&e.CreatedAt,
			&e.Student.ID,
			&e.Student.Email,
			&e.Student.Name,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return enrollments, total, nil
}

// UpdateStatus updates an enrollment's status. Existence is checked by the
// caller; a same-status update affects zero rows and is not an error.
func (r *enrollmentRepository) UpdateStatus(ctx context.Context, id int, status models.EnrollmentStatus) error {
	query := `UPDATE enrollments SET status = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update enrollment status: %w", err)
	}

	return nil
}
