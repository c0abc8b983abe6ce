package service

import (
	"context"
	"time"

	"github.com/pageza/alchemorsel-v2/discovery/internal/models"
	"github.com/pageza/alchemorsel-v2/discovery/internal/types"
)

// IAuthService defines the interface for token operations
type IAuthService interface {
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
}

// IEventService defines the interface for the discovery event log
type IEventService interface {
	Record(ctx context.Context, event *models.DiscoveryEvent) error
	ListForUser(ctx context.Context, userID string, limit int) ([]*models.DiscoveryEvent, error)
	Prune(ctx context.Context, before time.Time) (int64, error)
}
