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

// mockCourseRepository is a configurable fake for CourseRepository
type mockCourseRepository struct {
	course     *models.Course
	getErr     error
	createErr  error
	courses    []models.Course
	total      int
	listErr    error
	updateErr  error
	publishErr error
	deleteErr  error

	listPublishedOnly bool
	listInstructorID  *int
}

func (m *mockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	if m.createErr != nil {
		return m.createErr
	}
	course.ID = 1
	return nil
}

func (m *mockCourseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.course, nil
}

func (m *mockCourseRepository) List(ctx context.Context, publishedOnly bool, instructorID *int, page, limit int) ([]models.Course, int, error) {
	m.listPublishedOnly = publishedOnly
	m.listInstructorID = instructorID
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.courses, m.total, nil
}

func (m *mockCourseRepository) Update(ctx context.Context, course *models.Course) error {
	return m.updateErr
}

func (m *mockCourseRepository) Publish(ctx context.Context, id int) error {
	return m.publishErr
}

func (m *mockCourseRepository) Delete(ctx context.Context, id int) error {
	return m.deleteErr
}

func TestNewCourseService(t *testing.T) {
	repo := &mockCourseRepository{}
	logger := zap.NewNop()

	svc := NewCourseService(repo, logger)

	assert.NotNil(t, svc)
	assert.Equal(t, repo, svc.courseRepo)
	assert.Equal(t, logger, svc.logger)
}

func TestCourseService_CreateCourse(t *testing.T) {
	tests := []struct {
		name          string
		req           *models.CreateCourseRequest
		expectedError bool
	}{
		{
			name: "success",
			req:  &models.CreateCourseRequest{Title: "Go Basics", Description: "Intro", Price: 4999},
		},
		{
			name:          "empty title",
			req:           &models.CreateCourseRequest{Title: "   ", Price: 4999},
			expectedError: true,
		},
		{
			name:          "negative price",
			req:           &models.CreateCourseRequest{Title: "Go Basics", Price: -1},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCourseService(&mockCourseRepository{}, zap.NewNop())

			course, err := svc.CreateCourse(context.Background(), tt.req, 2)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, course)
				assert.True(t, apperr.IsKind(err, apperr.KindValidation))
			} else {
				require.NoError(t, err)
				assert.Equal(t, 2, course.InstructorID)
				assert.False(t, course.Published)
			}
		})
	}
}

func TestCourseService_GetCourse(t *testing.T) {
	unpublished := &models.Course{ID: 1, Title: "Draft", Published: false, InstructorID: 2}
	published := &models.Course{ID: 1, Title: "Live", Published: true, InstructorID: 2}

	tests := []struct {
		name          string
		repo          *mockCourseRepository
		requesterID   int
		role          models.Role
		expectedError bool
	}{
		{
			name:        "published visible to student",
			repo:        &mockCourseRepository{course: published},
			requesterID: 5,
			role:        models.RoleStudent,
		},
		{
			name:          "unpublished hidden from student",
			repo:          &mockCourseRepository{course: unpublished},
			requesterID:   5,
			role:          models.RoleStudent,
			expectedError: true,
		},
		{
			name:        "unpublished visible to owner",
			repo:        &mockCourseRepository{course: unpublished},
			requesterID: 2,
			role:        models.RoleInstructor,
		},
		{
			name:          "unpublished hidden from other instructor",
			repo:          &mockCourseRepository{course: unpublished},
			requesterID:   7,
			role:          models.RoleInstructor,
			expectedError: true,
		},
		{
			name:        "unpublished visible to admin",
			repo:        &mockCourseRepository{course: unpublished},
			requesterID: 99,
			role:        models.RoleAdmin,
		},
		{
			name:          "course not found",
			repo:          &mockCourseRepository{getErr: apperr.NotFound("COURSE_NOT_FOUND", "course not found")},
			requesterID:   5,
			role:          models.RoleStudent,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCourseService(tt.repo, zap.NewNop())

			course, err := svc.GetCourse(context.Background(), 1, tt.requesterID, tt.role)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, course)
				// Hidden courses read the same as missing ones
				assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
			} else {
				require.NoError(t, err)
				assert.NotNil(t, course)
			}
		})
	}
}

func TestCourseService_ListCourses(t *testing.T) {
	tests := []struct {
		name                  string
		requesterID           int
		role                  models.Role
		expectedPublishedOnly bool
		expectInstructorID    bool
	}{
		{
			name:                  "student sees published only",
			requesterID:           5,
			role:                  models.RoleStudent,
			expectedPublishedOnly: true,
		},
		{
			name:               "instructor sees own courses",
			requesterID:        2,
			role:               models.RoleInstructor,
			expectInstructorID: true,
		},
		{
			name:        "admin sees everything",
			requesterID: 99,
			role:        models.RoleAdmin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockCourseRepository{
				courses: []models.Course{{ID: 1, Title: "Go Basics"}},
				total:   1,
			}
			svc := NewCourseService(repo, zap.NewNop())

			courses, pagination, err := svc.ListCourses(context.Background(), tt.requesterID, tt.role, 0, 0)

			require.NoError(t, err)
			assert.Len(t, courses, 1)
			require.NotNil(t, pagination)
			assert.Equal(t, 1, pagination.Page)
			assert.Equal(t, 1, pagination.Total)
			assert.Equal(t, tt.expectedPublishedOnly, repo.listPublishedOnly)
			if tt.expectInstructorID {
				require.NotNil(t, repo.listInstructorID)
				assert.Equal(t, tt.requesterID, *repo.listInstructorID)
			} else {
				assert.Nil(t, repo.listInstructorID)
			}
		})
	}
}

func TestCourseService_UpdateCourse(t *testing.T) {
	price := -5

	tests := []struct {
		name          string
		repo          *mockCourseRepository
		req           *models.UpdateCourseRequest
		requesterID   int
		role          models.Role
		expectedError bool
		expectedKind  apperr.Kind
	}{
		{
			name:        "owner updates title",
			repo:        &mockCourseRepository{course: &models.Course{ID: 1, Title: "Old", InstructorID: 2}},
			req:         &models.UpdateCourseRequest{Title: "New Title"},
			requesterID: 2,
			role:        models.RoleInstructor,
		},
		{
			name:          "non-owner forbidden",
			repo:          &mockCourseRepository{course: &models.Course{ID: 1, InstructorID: 2}},
			req:           &models.UpdateCourseRequest{Title: "New Title"},
			requesterID:   7,
			role:          models.RoleInstructor,
			expectedError: true,
			expectedKind:  apperr.KindForbidden,
		},
		{
			name:          "student forbidden",
			repo:          &mockCourseRepository{course: &models.Course{ID: 1, InstructorID: 2}},
			req:           &models.UpdateCourseRequest{Title: "New Title"},
			requesterID:   5,
			role:          models.RoleStudent,
			expectedError: true,
			expectedKind:  apperr.KindForbidden,
		},
		{
			name:          "negative price rejected",
			repo:          &mockCourseRepository{course: &models.Course{ID: 1, InstructorID: 2}},
			req:           &models.UpdateCourseRequest{Price: &price},
			requesterID:   2,
			role:          models.RoleInstructor,
			expectedError: true,
			expectedKind:  apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCourseService(tt.repo, zap.NewNop())

			course, err := svc.UpdateCourse(context.Background(), 1, tt.req, tt.requesterID, tt.role)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, course)
				assert.True(t, apperr.IsKind(err, tt.expectedKind))
			} else {
				require.NoError(t, err)
				assert.Equal(t, "New Title", course.Title)
			}
		})
	}
}

func TestCourseService_PublishCourse(t *testing.T) {
	tests := []struct {
		name          string
		repo          *mockCourseRepository
		requesterID   int
		role          models.Role
		expectedError bool
	}{
		{
			name:        "owner publishes",
			repo:        &mockCourseRepository{course: &models.Course{ID: 1, InstructorID: 2}},
			requesterID: 2,
			role:        models.RoleInstructor,
		},
		{
			name:        "republish is a no-op success",
			repo:        &mockCourseRepository{course: &models.Course{ID: 1, InstructorID: 2, Published: true}},
			requesterID: 2,
			role:        models.RoleInstructor,
		},
		{
			name:          "non-owner forbidden",
			repo:          &mockCourseRepository{course: &models.Course{ID: 1, InstructorID: 2}},
			requesterID:   7,
			role:          models.RoleInstructor,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCourseService(tt.repo, zap.NewNop())

			course, err := svc.PublishCourse(context.Background(), 1, tt.requesterID, tt.role)

			if tt.expectedError {
				assert.Error(t, err)
				assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
			} else {
				require.NoError(t, err)
				assert.True(t, course.Published)
			}
		})
	}
}

func TestCourseService_DeleteCourse(t *testing.T) {
	tests := []struct {
		name          string
		repo          *mockCourseRepository
		requesterID   int
		role          models.Role
		expectedError bool
	}{
		{
			name:        "admin deletes any course",
			repo:        &mockCourseRepository{course: &models.Course{ID: 1, InstructorID: 2}},
			requesterID: 99,
			role:        models.RoleAdmin,
		},
		{
			name:          "non-owner forbidden",
			repo:          &mockCourseRepository{course: &models.Course{ID: 1, InstructorID: 2}},
			requesterID:   7,
			role:          models.RoleInstructor,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCourseService(tt.repo, zap.NewNop())

			err := svc.DeleteCourse(context.Background(), 1, tt.requesterID, tt.role)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
