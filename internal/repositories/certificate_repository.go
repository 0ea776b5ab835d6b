package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

type certificateRepository struct {
	db *sql.DB
}

// NewCertificateRepository creates a new certificate repository
func NewCertificateRepository(db *sql.DB) *certificateRepository {
	return &certificateRepository{
		db: db,
	}
}

// Create inserts a new certificate. A concurrent duplicate for the same
// (user, course) pair fails the unique constraint and is translated to
// ALREADY_ISSUED.
func (r *certificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	query := `
		INSERT INTO certificates (user_id, course_id, code)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		cert.UserID,
		cert.CourseID,
		cert.Code,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return apperr.Conflict("ALREADY_ISSUED", "certificate already issued for this course")
		}
		return fmt.Errorf("failed to create certificate: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	cert.ID = int(id)
	return nil
}

// GetByCode retrieves a certificate by its unique code
func (r *certificateRepository) GetByCode(ctx context.Context, code string) (*models.Certificate, error) {
	query := `
		SELECT id, user_id, course_id, code, issued_at
		FROM certificates
		WHERE code = ?
		LIMIT 1
	`

	var cert models.Certificate
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&cert.ID,
		&cert.UserID,
		&cert.CourseID,
		&cert.Code,
		&cert.IssuedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("CERTIFICATE_NOT_FOUND", "certificate not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate by code: %w", err)
	}

	return &cert, nil
}

// GetByUser retrieves a user's certificates joined with course summary
func (r *certificateRepository) GetByUser(ctx context.Context, userID int) ([]models.CertificateWithCourse, error) {
	query := `
		SELECT
			ct.id, ct.user_id, ct.course_id, ct.code, ct.issued_at,
			c.id, c.title, c.price, c.published
		FROM certificates ct
		JOIN courses c ON c.id = ct.course_id
		WHERE ct.user_id = ?
		ORDER BY ct.issued_at DESC, ct.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer rows.Close()

	var certs []models.CertificateWithCourse
	for rows.Next() {
		var c models.CertificateWithCourse
		err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.CourseID,
			&c.Code,
			&c.IssuedAt,
			&c.Course.ID,
			&c.Course.Title,
			&c.Course.Price,
			&c.Course.Published,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		certs = append(certs, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return certs, nil
}

// GetByCourse retrieves all certificates issued for a course
func (r *certificateRepository) GetByCourse(ctx context.Context, courseID int) ([]models.Certificate, error) {
	query := `
		SELECT id, user_id, course_id, code, issued_at
		FROM certificates
		WHERE course_id = ?
		ORDER BY issued_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer rows.Close()

	var certs []models.Certificate
	for rows.Next() {
		var c models.Certificate
		err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.CourseID,
			&c.Code,
			&c.IssuedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		certs = append(certs, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return certs, nil
}
