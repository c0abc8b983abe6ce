package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-v2/discovery/internal/models"
	"github.com/pageza/alchemorsel-v2/discovery/internal/service"
	"github.com/pageza/alchemorsel-v2/discovery/internal/testhelpers"
)

func TestEventService(t *testing.T) {
	ctx := context.Background()

	t.Run("should list a user's events newest first", func(t *testing.T) {
		svc := service.NewEventService(testhelpers.SetupTestDatabase(t))
		base := time.Now().Add(-time.Hour)
		for i, kind := range []string{models.EventRecommendations, models.EventSimilar, models.EventListing} {
			require.NoError(t, svc.Record(ctx, &models.DiscoveryEvent{
				UserID:      "user-1",
				Kind:        kind,
				ResultCount: i,
				CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			}))
		}
		require.NoError(t, svc.Record(ctx, &models.DiscoveryEvent{UserID: "user-2", Kind: models.EventSimilar}))

		events, err := svc.ListForUser(ctx, "user-1", 0)
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, models.EventListing, events[0].Kind)
		assert.Equal(t, models.EventRecommendations, events[2].Kind)
		assert.NotEqual(t, events[0].ID, events[1].ID)
	})

	t.Run("should honor the limit", func(t *testing.T) {
		svc := service.NewEventService(testhelpers.SetupTestDatabase(t))
		for i := 0; i < 5; i++ {
			require.NoError(t, svc.Record(ctx, &models.DiscoveryEvent{UserID: "user-1", Kind: models.EventSimilar}))
		}

		events, err := svc.ListForUser(ctx, "user-1", 2)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("should require a user id", func(t *testing.T) {
		svc := service.NewEventService(testhelpers.SetupTestDatabase(t))
		assert.Error(t, svc.Record(ctx, &models.DiscoveryEvent{Kind: models.EventSimilar}))
	})

	t.Run("should prune old events", func(t *testing.T) {
		svc := service.NewEventService(testhelpers.SetupTestDatabase(t))
		require.NoError(t, svc.Record(ctx, &models.DiscoveryEvent{UserID: "user-1", Kind: models.EventSimilar, CreatedAt: time.Now().Add(-48 * time.Hour)}))
		require.NoError(t, svc.Record(ctx, &models.DiscoveryEvent{UserID: "user-1", Kind: models.EventListing}))

		n, err := svc.Prune(ctx, time.Now().Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		events, err := svc.ListForUser(ctx, "user-1", 0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, models.EventListing, events[0].Kind)
	})
}
