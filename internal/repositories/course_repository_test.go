package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// setupCourseTestRepository creates a course repository with a mock database
func setupCourseTestRepository(t *testing.T) (*courseRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewCourseRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewCourseRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewCourseRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestCourseRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		course        *models.Course
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedID    int
	}{
		{
			name: "success",
			course: &models.Course{
				Title:        "Go Basics",
				Description:  "An introduction to Go",
				Price:        4999,
				Published:    false,
				InstructorID: 2,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO courses`).
					WithArgs("Go Basics", "An introduction to Go", 4999, false, 2).
					WillReturnResult(sqlmock.NewResult(5, 1))
			},
			expectedError: false,
			expectedID:    5,
		},
		{
			name: "database error",
			course: &models.Course{
				Title:        "Go Basics",
				Description:  "An introduction to Go",
				Price:        4999,
				InstructorID: 2,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO courses`).
					WithArgs("Go Basics", "An introduction to Go", 4999, false, 2).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Create(context.Background(), tt.course)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, tt.course.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_GetByID(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		courseID      int
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		checkNotFound bool
	}{
		{
			name:     "success",
			courseID: 1,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "title", "description", "price", "published", "instructor_id", "created_at"}).
					AddRow(1, "Go Basics", "An introduction to Go", 4999, true, 2, now)
				mock.ExpectQuery(`SELECT id, title, description, price, published, instructor_id, created_at`).
					WithArgs(1).
					WillReturnRows(rows)
			},
			expectedError: false,
		},
		{
			name:     "course not found",
			courseID: 999,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, description, price, published, instructor_id, created_at`).
					WithArgs(999).
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: true,
			checkNotFound: true,
		},
		{
			name:     "database error",
			courseID: 1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, description, price, published, instructor_id, created_at`).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			course, err := repo.GetByID(context.Background(), tt.courseID)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, course)
				if tt.checkNotFound {
					assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.courseID, course.ID)
				assert.True(t, course.Published)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_List(t *testing.T) {
	now := time.Now()
	instructorID := 2

	tests := []struct {
		name          string
		publishedOnly bool
		instructorID  *int
		page          int
		limit         int
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedTotal int
		expectedLen   int
	}{
		{
			name:          "all courses",
			publishedOnly: false,
			page:          1,
			limit:         20,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM courses`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
				rows := sqlmock.NewRows([]string{"id", "title", "description", "price", "published", "instructor_id", "created_at"}).
					AddRow(1, "Go Basics", "Intro", 4999, true, 2, now).
					AddRow(2, "Advanced Go", "Deep dive", 9999, false, 2, now)
				mock.ExpectQuery(`SELECT id, title, description, price, published, instructor_id, created_at`).
					WithArgs(20, 0).
					WillReturnRows(rows)
			},
			expectedTotal: 2,
			expectedLen:   2,
		},
		{
			name:          "published only for instructor",
			publishedOnly: true,
			instructorID:  &instructorID,
			page:          2,
			limit:         10,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM courses`).
					WithArgs(2).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
				rows := sqlmock.NewRows([]string{"id", "title", "description", "price", "published", "instructor_id", "created_at"}).
					AddRow(11, "Go Basics", "Intro", 4999, true, 2, now)
				mock.ExpectQuery(`SELECT id, title, description, price, published, instructor_id, created_at`).
					WithArgs(2, 10, 10).
					WillReturnRows(rows)
			},
			expectedTotal: 11,
			expectedLen:   1,
		},
		{
			name:          "count error",
			publishedOnly: false,
			page:          1,
			limit:         20,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM courses`).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
		{
			name:          "query error",
			publishedOnly: false,
			page:          1,
			limit:         20,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT COUNT\(\*\) FROM courses`).
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
				mock.ExpectQuery(`SELECT id, title, description, price, published, instructor_id, created_at`).
					WithArgs(20, 0).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			courses, total, err := repo.List(context.Background(), tt.publishedOnly, tt.instructorID, tt.page, tt.limit)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedTotal, total)
				assert.Len(t, courses, tt.expectedLen)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_Update(t *testing.T) {
	tests := []struct {
		name          string
		course        *models.Course
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedKind  apperr.Kind
		checkKind     bool
	}{
		{
			name: "success with all fields",
			course: &models.Course{
				ID:          1,
				Title:       "New Title",
				Description: "New description",
				Price:       5999,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE courses`).
					WithArgs("New Title", "New description", 5999, 1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedError: false,
		},
		{
			name: "course not found",
			course: &models.Course{
				ID:    999,
				Title: "New Title",
				Price: 5999,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE courses`).
					WithArgs("New Title", 5999, 999).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: true,
			checkKind:     true,
			expectedKind:  apperr.KindNotFound,
		},
		{
			name: "database error",
			course: &models.Course{
				ID:    1,
				Title: "New Title",
				Price: 5999,
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE courses`).
					WithArgs("New Title", 5999, 1).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Update(context.Background(), tt.course)

			if tt.expectedError {
				assert.Error(t, err)
				if tt.checkKind {
					assert.True(t, apperr.IsKind(err, tt.expectedKind))
				}
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_Publish(t *testing.T) {
	tests := []struct {
		name          string
		courseID      int
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
	}{
		{
			name:     "success",
			courseID: 1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE courses SET published = TRUE`).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedError: false,
		},
		{
			name:     "already published is a no-op",
			courseID: 1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE courses SET published = TRUE`).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: false,
		},
		{
			name:     "database error",
			courseID: 1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE courses SET published = TRUE`).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Publish(context.Background(), tt.courseID)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseRepository_Delete(t *testing.T) {
	tests := []struct {
		name          string
		courseID      int
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		checkNotFound bool
	}{
		{
			name:     "success",
			courseID: 1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM courses`).
					WithArgs(1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedError: false,
		},
		{
			name:     "course not found",
			courseID: 999,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM courses`).
					WithArgs(999).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: true,
			checkNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupCourseTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			err := repo.Delete(context.Background(), tt.courseID)

			if tt.expectedError {
				assert.Error(t, err)
				if tt.checkNotFound {
					assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
				}
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
