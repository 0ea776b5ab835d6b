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

// setupEnrollmentTestRepository creates an enrollment repository with a mock database
func setupEnrollmentTestRepository(t *testing.T) (*enrollmentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewEnrollmentRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewEnrollmentRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewEnrollmentRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestEnrollmentRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		enrollment    *models.Enrollment
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		checkConflict bool
		expectedID    int
	}{
		{
			name: "success",
			enrollment: &models.Enrollment{
				UserID:   1,
				CourseID: 3,
				Status:   models.EnrollmentStatusActive,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO enrollments`).
					WithArgs(1, 3, models.EnrollmentStatusActive).
					WillReturnResult(sqlmock.NewResult(9, 1))
			},
			expectedError: false,
			expectedID:    9,
		},
		{
			name: "already enrolled",
			enrollment: &models.Enrollment{
				UserID:   1,
				CourseID: 3,
				Status:   models.EnrollmentStatusActive,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO enrollments`).
					WithArgs(1, 3, models.EnrollmentStatusActive).
					WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
			},
			expectedError: true,
			checkConflict: true,
		},
		{
			name: "database error",
			enrollment: &models.Enrollment{
				UserID:   1,
				CourseID: 3,
				Status:   models.EnrollmentStatusActive,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO enrollments`).
					WithArgs(1, 3, models.EnrollmentStatusActive).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupEnrollmentTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Create(context.Background(), tt.enrollment)

			if tt.expectedError {
				assert.Error(t, err)
				if tt.checkConflict {
					assert.True(t, apperr.IsKind(err, apperr.KindConflict))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, tt.enrollment.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnrollmentRepository_GetByUserAndCourse(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		userID        int
		courseID      int
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		checkNotFound bool
	}{
		{
			name:     "success",
			userID:   1,
			courseID: 3,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "user_id", "course_id", "status", "created_at"}).
					AddRow(9, 1, 3, "active", now)
				mock.ExpectQuery(`SELECT id, user_id, course_id, status, created_at`).
					WithArgs(1, 3).
					WillReturnRows(rows)
			},
			expectedError: false,
		},
		{
			name:     "enrollment not found",
			userID:   1,
			courseID: 999,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, user_id, course_id, status, created_at`).
					WithArgs(1, 999).
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: true,
			checkNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupEnrollmentTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			enrollment, err := repo.GetByUserAndCourse(context.Background(), tt.userID, tt.courseID)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, enrollment)
				if tt.checkNotFound {
					assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEnrollmentRepository_GetByUser(t *testing.T) {
	now := time.Now()

	repo, mock, cleanup := setupEnrollmentTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM enrollments WHERE user_id = \?`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	rows := sqlmock.NewRows([]string{"e.id", "e.user_id", "e.course_id", "e.status", "e.created_at", "c.id", "c.title", "c.price", "c.published"}).
		AddRow(9, 1, 3, "active", now, 3, "Go Basics", 4999, true).
		AddRow(8, 1, 2, "completed", now, 2, "SQL Basics", 2999, true)
	mock.ExpectQuery(`JOIN courses c ON c.id = e.course_id`).
		WithArgs(1, 20, 0).
		WillReturnRows(rows)

	enrollments, total, err := repo.GetByUser(context.Background(), 1, 1, 20)

	assert.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, enrollments, 2)
	assert.Equal(t, "Go Basics", enrollments[0].Course.Title)
	assert.Equal(t, models.EnrollmentStatusCompleted, enrollments[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_GetByCourse(t *testing.T) {
	now := time.Now()

	repo, mock, cleanup := setupEnrollmentTestRepository(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM enrollments WHERE course_id = \?`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	rows := sqlmock.NewRows([]string{"e.id", "e.user_id", "e.course_id", "e.status", "e.created_at", "u.id", "u.email", "u.name"}).
		AddRow(9, 1, 3, "active", now, 1, "student@example.com", "Student One")
	mock.ExpectQuery(`JOIN users u ON u.id = e.user_id`).
		WithArgs(3, 20, 0).
		WillReturnRows(rows)

	enrollments, total, err := repo.GetByCourse(context.Background(), 3, 1, 20)

	assert.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, enrollments, 1)
	assert.Equal(t, "student@example.com", enrollments[0].Student.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_UpdateStatus(t *testing.T) {
	tests := []struct {
		name          string
		enrollmentID  int
		status        models.EnrollmentStatus
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name:         "success",
			enrollmentID: 9,
			status:       models.EnrollmentStatusRefunded,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE enrollments SET status = \?`).
					WithArgs(models.EnrollmentStatusRefunded, 9).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedError: false,
		},
		{
			name:         "same status affects zero rows",
			enrollmentID: 9,
			status:       models.EnrollmentStatusActive,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE enrollments SET status = \?`).
					WithArgs(models.EnrollmentStatusActive, 9).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: false,
		},
		{
			name:         "database error",
			enrollmentID: 9,
			status:       models.EnrollmentStatusCompleted,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE enrollments SET status = \?`).
					WithArgs(models.EnrollmentStatusCompleted, 9).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupEnrollmentTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.UpdateStatus(context.Background(), tt.enrollmentID, tt.status)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
