package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-v2/discovery/internal/models"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

// Record stores a discovery event
func (s *EventService) Record(ctx context.Context, event *models.DiscoveryEvent) error {
	if event.UserID == "" {
		return fmt.Errorf("failed to record event: user id is required")
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// ListForUser returns a user's most recent events, newest first
func (s *EventService) ListForUser(ctx context.Context, userID string, limit int) ([]*models.DiscoveryEvent, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	var events []*models.DiscoveryEvent
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Prune deletes events created before the cutoff and reports how many were removed
func (s *EventService) Prune(ctx context.Context, before time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("created_at < ?", before).Delete(&models.DiscoveryEvent{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune events: %w", res.Error)
	}
	return res.RowsAffected, nil
}
