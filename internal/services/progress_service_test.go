package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/apperr"
	"github.com/rafaelpatinogoji-demo-org/learning-platform-monolith-sub005/internal/models"
)

// mockProgressRepository is a configurable fake for ProgressRepository
type mockProgressRepository struct {
	markCompletedErr  error
	markIncompleteErr error
	completed         int
	countErr          error

	completedCalls  []int
	incompleteCalls []int
}

func (m *mockProgressRepository) MarkCompleted(ctx context.Context, enrollmentID, lessonID int) error {
	if m.markCompletedErr != nil {
		return m.markCompletedErr
	}
	m.completedCalls = append(m.completedCalls, lessonID)
	return nil
}

func (m *mockProgressRepository) MarkIncomplete(ctx context.Context, enrollmentID, lessonID int) error {
	if m.markIncompleteErr != nil {
		return m.markIncompleteErr
	}
	m.incompleteCalls = append(m.incompleteCalls, lessonID)
	return nil
}

func (m *mockProgressRepository) CountCompleted(ctx context.Context, enrollmentID int) (int, error) {
	return m.completed, m.countErr
}

func TestNewProgressService(t *testing.T) {
	progressRepo := &mockProgressRepository{}
	logger := zap.NewNop()

	svc := NewProgressService(progressRepo, &mockLessonRepository{}, &mockCourseRepository{}, &mockEnrollmentRepository{}, logger)

	assert.NotNil(t, svc)
	assert.Equal(t, progressRepo, svc.progressRepo)
	assert.Equal(t, logger, svc.logger)
}

func TestProgressService_CompleteLesson(t *testing.T) {
	lesson := &models.Lesson{ID: 5, CourseID: 3}

	tests := []struct {
		name           string
		lessonRepo     *mockLessonRepository
		enrollmentRepo *mockEnrollmentRepository
		expectedError  bool
		expectedKind   apperr.Kind
	}{
		{
			name:       "active enrollment marks completed",
			lessonRepo: &mockLessonRepository{lesson: lesson},
			enrollmentRepo: &mockEnrollmentRepository{
				byUserAndCourse: &models.Enrollment{ID: 10, Status: models.EnrollmentStatusActive},
			},
		},
		{
			name:       "not enrolled",
			lessonRepo: &mockLessonRepository{lesson: lesson},
			enrollmentRepo: &mockEnrollmentRepository{
				byUserAndCourseErr: apperr.NotFound("ENROLLMENT_NOT_FOUND", "enrollment not found"),
			},
			expectedError: true,
			expectedKind:  apperr.KindForbidden,
		},
		{
			name:       "completed enrollment cannot record progress",
			lessonRepo: &mockLessonRepository{lesson: lesson},
			enrollmentRepo: &mockEnrollmentRepository{
				byUserAndCourse: &models.Enrollment{ID: 10, Status: models.EnrollmentStatusCompleted},
			},
			expectedError: true,
			expectedKind:  apperr.KindForbidden,
		},
		{
			name:           "lesson not found",
			lessonRepo:     &mockLessonRepository{getErr: apperr.NotFound("LESSON_NOT_FOUND", "lesson not found")},
			enrollmentRepo: &mockEnrollmentRepository{},
			expectedError:  true,
			expectedKind:   apperr.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progressRepo := &mockProgressRepository{}
			svc := NewProgressService(progressRepo, tt.lessonRepo, &mockCourseRepository{}, tt.enrollmentRepo, zap.NewNop())

			err := svc.CompleteLesson(context.Background(), 1, 5)

			if tt.expectedError {
				assert.Error(t, err)
				assert.True(t, apperr.IsKind(err, tt.expectedKind))
				assert.Empty(t, progressRepo.completedCalls)
			} else {
				require.NoError(t, err)
				assert.Equal(t, []int{5}, progressRepo.completedCalls)
			}
		})
	}
}

func TestProgressService_UncompleteLesson(t *testing.T) {
	lesson := &models.Lesson{ID: 5, CourseID: 3}

	t.Run("active enrollment clears completion", func(t *testing.T) {
		progressRepo := &mockProgressRepository{}
		svc := NewProgressService(
			progressRepo,
			&mockLessonRepository{lesson: lesson},
			&mockCourseRepository{},
			&mockEnrollmentRepository{
				byUserAndCourse: &models.Enrollment{ID: 10, Status: models.EnrollmentStatusActive},
			},
			zap.NewNop(),
		)

		err := svc.UncompleteLesson(context.Background(), 1, 5)

		require.NoError(t, err)
		assert.Equal(t, []int{5}, progressRepo.incompleteCalls)
	})

	t.Run("refunded enrollment forbidden", func(t *testing.T) {
		svc := NewProgressService(
			&mockProgressRepository{},
			&mockLessonRepository{lesson: lesson},
			&mockCourseRepository{},
			&mockEnrollmentRepository{
				byUserAndCourse: &models.Enrollment{ID: 10, Status: models.EnrollmentStatusRefunded},
			},
			zap.NewNop(),
		)

		err := svc.UncompleteLesson(context.Background(), 1, 5)

		assert.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})
}

func TestProgressService_GetCourseProgress(t *testing.T) {
	tests := []struct {
		name           string
		enrollmentRepo *mockEnrollmentRepository
		lessonRepo     *mockLessonRepository
		progressRepo   *mockProgressRepository
		expectedError  bool
		expectedTotal  int
		expectedDone   int
	}{
		{
			name: "success",
			enrollmentRepo: &mockEnrollmentRepository{
				byUserAndCourse: &models.Enrollment{ID: 10, Status: models.EnrollmentStatusActive},
			},
			lessonRepo:    &mockLessonRepository{count: 4},
			progressRepo:  &mockProgressRepository{completed: 3},
			expectedTotal: 4,
			expectedDone:  3,
		},
		{
			name: "not enrolled",
			enrollmentRepo: &mockEnrollmentRepository{
				byUserAndCourseErr: apperr.NotFound("ENROLLMENT_NOT_FOUND", "enrollment not found"),
			},
			lessonRepo:    &mockLessonRepository{},
			progressRepo:  &mockProgressRepository{},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewProgressService(tt.progressRepo, tt.lessonRepo, &mockCourseRepository{}, tt.enrollmentRepo, zap.NewNop())

			progress, err := svc.GetCourseProgress(context.Background(), 1, 3)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, progress)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 3, progress.CourseID)
				assert.Equal(t, tt.expectedTotal, progress.TotalLessons)
				assert.Equal(t, tt.expectedDone, progress.CompletedLessons)
			}
		})
	}
}
