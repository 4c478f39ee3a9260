package mongo

import (
	"context"
	"errors"
	"testing"

	"log/slog"

	"github.com/google/uuid"
	"github.com/remitwise-ledger/internal/domain/audit"
	"github.com/remitwise-ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Record(ctx context.Context, event *shared.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAuditRepository) GetByID(ctx context.Context, id uuid.UUID) (*shared.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Event), args.Error(1)
}

func (m *MockAuditRepository) ListByOwner(ctx context.Context, owner shared.Principal, limit, offset int) ([]*shared.Event, error) {
	args := m.Called(ctx, owner, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shared.Event), args.Error(1)
}

func (m *MockAuditRepository) ListByAction(ctx context.Context, action string, limit, offset int) ([]*shared.Event, error) {
	args := m.Called(ctx, action, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shared.Event), args.Error(1)
}

func TestNewAuditRepository(t *testing.T) {
	db := &mongo.Database{}
	logger := slog.Default()

	repo := NewAuditRepository(logger, db)

	assert.NotNil(t, repo)
	assert.IsType(t, &AuditRepository{}, repo)
}

func TestAuditRepository_Record(t *testing.T) {
	event := shared.NewEvent(shared.EventCategoryTransaction, shared.EventPriorityMedium, shared.EventBillSettled)
	event.Owner = "GOWNER"
	event.RecordID = 7
	event.Amount = 2500

	tests := []struct {
		name          string
		setupMocks    func(m *MockAuditRepository)
		expectedError error
	}{
		{
			name: "successful record",
			setupMocks: func(m *MockAuditRepository) {
				m.On("Record", mock.Anything, event).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "duplicate event",
			setupMocks: func(m *MockAuditRepository) {
				m.On("Record", mock.Anything, event).Return(audit.ErrDuplicateEvent{EventID: event.ID})
			},
			expectedError: audit.ErrDuplicateEvent{EventID: event.ID},
		},
		{
			name: "database error",
			setupMocks: func(m *MockAuditRepository) {
				m.On("Record", mock.Anything, event).Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockAuditRepository{}
			tt.setupMocks(mockRepo)

			ctx := context.Background()
			err := mockRepo.Record(ctx, event)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuditRepository_GetByID(t *testing.T) {
	event := shared.NewEvent(shared.EventCategoryState, shared.EventPriorityLow, shared.EventSplitUpdated)

	tests := []struct {
		name          string
		setupMocks    func(m *MockAuditRepository)
		expectedEvent *shared.Event
		expectedError error
	}{
		{
			name: "event found",
			setupMocks: func(m *MockAuditRepository) {
				m.On("GetByID", mock.Anything, event.ID).Return(event, nil)
			},
			expectedEvent: event,
		},
		{
			name: "event not found",
			setupMocks: func(m *MockAuditRepository) {
				m.On("GetByID", mock.Anything, event.ID).Return(nil, audit.ErrEventNotFound{EventID: event.ID})
			},
			expectedError: audit.ErrEventNotFound{EventID: event.ID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockAuditRepository{}
			tt.setupMocks(mockRepo)

			result, err := mockRepo.GetByID(context.Background(), event.ID)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedEvent, result)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

// Verify interface implementation
var _ audit.Repository = (*MockAuditRepository)(nil)
