package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// setupCertificateTestRepository creates a certificate repository with a mock database
func setupCertificateTestRepository(t *testing.T) (*certificateRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewCertificateRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewCertificateRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewCertificateRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestCertificateRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		cert          *models.Certificate
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		checkConflict bool
		expectedID    int
	}{
		{
			name: "success",
			cert: &models.Certificate{
				UserID:   1,
				CourseID: 3,
				Code:     "abc-123",
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO certificates`).
					WithArgs(1, 3, "abc-123").
					WillReturnResult(sqlmock.NewResult(6, 1))
			},
			expectedError: false,
			expectedID:    6,
		},
		{
			name: "already issued",
			cert: &models.Certificate{
				UserID:   1,
				CourseID: 3,
				Code:     "abc-456",
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO certificates`).
					WithArgs(1, 3, "abc-456").
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
			},
			expectedError: true,
			checkConflict: true,
		},
		{
			name: "database error",
			cert: &models.Certificate{
				UserID:   1,
				CourseID: 3,
				Code:     "abc-123",
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO certificates`).
					WithArgs(1, 3, "abc-123").
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCertificateTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Create(context.Background(), tt.cert)

			if tt.expectedError {
				assert.Error(t, err)
				if tt.checkConflict {
					assert.True(t, apperr.IsKind(err, apperr.KindConflict))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, tt.cert.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCertificateRepository_GetByCode(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		code          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		checkNotFound bool
	}{
		{
			name: "success",
			code: "abc-123",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "user_id", "course_id", "code", "issued_at"}).
					AddRow(6, 1, 3, "abc-123", now)
				mock.ExpectQuery(`SELECT id, user_id, course_id, code, issued_at`).
					WithArgs("abc-123").
					WillReturnRows(rows)
			},
			expectedError: false,
		},
		{
			name: "certificate not found",
			code: "unknown",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, user_id, course_id, code, issued_at`).
					WithArgs("unknown").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: true,
			checkNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCertificateTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			cert, err := repo.GetByCode(context.Background(), tt.code)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, cert)
				if tt.checkNotFound {
					assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.code, cert.Code)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCertificateRepository_GetByUser(t *testing.T) {
	now := time.Now()

	repo, mock, cleanup := setupCertificateTestRepository(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"ct.id", "ct.user_id", "ct.course_id", "ct.code", "ct.issued_at", "c.id", "c.title", "c.price", "c.published"}).
		AddRow(6, 1, 3, "abc-123", now, 3, "Go Basics", 4999, true)
	mock.ExpectQuery(`JOIN courses c ON c.id = ct.course_id`).
		WithArgs(1).
		WillReturnRows(rows)

	certs, err := repo.GetByUser(context.Background(), 1)

	assert.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, "abc-123", certs[0].Code)
	assert.Equal(t, "Go Basics", certs[0].Course.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCertificateRepository_GetByCourse(t *testing.T) {
	now := time.Now()

	repo, mock, cleanup := setupCertificateTestRepository(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "user_id", "course_id", "code", "issued_at"}).
		AddRow(7, 2, 3, "def-456", now).
		AddRow(6, 1, 3, "abc-123", now)
	mock.ExpectQuery(`SELECT id, user_id, course_id, code, issued_at`).
		WithArgs(3).
		WillReturnRows(rows)

	certs, err := repo.GetByCourse(context.Background(), 3)

	assert.NoError(t, err)
	require.Len(t, certs, 2)
	assert.Equal(t, "def-456", certs[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
