package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/alchemorsel-v2/discovery/internal/models"
)

// MockEventService is a mock implementation of the IEventService interface
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Record(ctx context.Context, event *models.DiscoveryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventService) ListForUser(ctx context.Context, userID string, limit int) ([]*models.DiscoveryEvent, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DiscoveryEvent), args.Error(1)
}

func (m *MockEventService) Prune(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}
