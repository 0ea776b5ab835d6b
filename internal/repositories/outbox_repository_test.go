package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupOutboxTestRepository creates an outbox repository with a mock database
func setupOutboxTestRepository(t *testing.T) (*outboxRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewOutboxRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestNewOutboxRepository(t *testing.T) {
	db := &sql.DB{}

	repo := NewOutboxRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestOutboxRepository_Insert(t *testing.T) {
	tests := []struct {
		name          string
		topic         string
		payload       json.RawMessage
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedID    int
	}{
		{
			name:    "success",
			topic:   "enrollment.created",
			payload: json.RawMessage(`{"enrollmentId":9}`),
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO outbox_events`).
					WithArgs("enrollment.created", []byte(`{"enrollmentId":9}`)).
					WillReturnResult(sqlmock.NewResult(42, 1))
			},
			expectedError: false,
			expectedID:    42,
		},
		{
			name:    "database error",
			topic:   "enrollment.created",
			payload: json.RawMessage(`{"enrollmentId":9}`),
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO outbox_events`).
					WithArgs("enrollment.created", []byte(`{"enrollmentId":9}`)).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupOutboxTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			id, err := repo.Insert(context.Background(), tt.topic, tt.payload)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedID, id)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestOutboxRepository_FetchUnprocessed(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		limit         int
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedLen   int
	}{
		{
			name:  "success oldest first",
			limit: 50,
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "topic", "payload", "created_at", "processed"}).
					AddRow(41, "enrollment.created", []byte(`{"enrollmentId":8}`), now.Add(-time.Minute), false).
					AddRow(42, "certificate.issued", []byte(`{"certificateId":6}`), now, false)
				mock.ExpectQuery(`WHERE processed = FALSE`).
					WithArgs(50).
					WillReturnRows(rows)
			},
			expectedLen: 2,
		},
		{
			name:  "empty batch",
			limit: 50,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WHERE processed = FALSE`).
					WithArgs(50).
					WillReturnRows(sqlmock.NewRows([]string{"id", "topic", "payload", "created_at", "processed"}))
			},
			expectedLen: 0,
		},
		{
			name:  "database error",
			limit: 50,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`WHERE processed = FALSE`).
					WithArgs(50).
					WillReturnError(errors.New("database error"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupOutboxTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			events, err := repo.FetchUnprocessed(context.Background(), tt.limit)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, events, tt.expectedLen)
				if tt.expectedLen > 0 {
					assert.Equal(t, "enrollment.created", events[0].Topic)
					assert.JSONEq(t, `{"enrollmentId":8}`, string(events[0].Payload))
				}
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestOutboxRepository_MarkProcessed(t *testing.T) {
	repo, mock, cleanup := setupOutboxTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`UPDATE outbox_events`).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkProcessed(context.Background(), 42)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
