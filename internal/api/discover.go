package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-v2/discovery/internal/catalog"
	"github.com/pageza/alchemorsel-v2/discovery/internal/discovery"
	"github.com/pageza/alchemorsel-v2/discovery/internal/logging"
	"github.com/pageza/alchemorsel-v2/discovery/internal/middleware"
	"github.com/pageza/alchemorsel-v2/discovery/internal/models"
	"github.com/pageza/alchemorsel-v2/discovery/internal/service"
	"github.com/pageza/alchemorsel-v2/discovery/internal/types"
)

// Discoverer computes recommendations for the caller whose token is in the context
type Discoverer interface {
	ComputeRecommendations(ctx context.Context) (*discovery.Result, error)
	ComputeSimilarByID(ctx context.Context, id string) (*types.RecipeDetail, *discovery.Result, error)
	Dashboard(ctx context.Context) (*discovery.Dashboard, error)
}

// DiscoverHandler handles recommendation requests
type DiscoverHandler struct {
	discoverer Discoverer
	events     service.IEventService
}

// NewDiscoverHandler creates a new DiscoverHandler; events may be nil
func NewDiscoverHandler(discoverer Discoverer, events service.IEventService) *DiscoverHandler {
	return &DiscoverHandler{
		discoverer: discoverer,
		events:     events,
	}
}

// RegisterRoutes registers the discovery routes
func (h *DiscoverHandler) RegisterRoutes(router *gin.RouterGroup) {
	discover := router.Group("/discover")
	{
		discover.GET("/recommendations", h.GetRecommendations)
		discover.GET("/similar/:id", h.GetSimilar)
		discover.GET("/home", h.GetHome)
		discover.GET("/history", h.GetHistory)
	}
}

// GetRecommendations returns recipes matching a sample of the caller's favorites and recent views.
// A failed computation is reported as an empty result.
func (h *DiscoverHandler) GetRecommendations(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.discoverer.ComputeRecommendations(c.Request.Context())
	event := &models.DiscoveryEvent{UserID: userID, Kind: models.EventRecommendations}
	if err != nil {
		logging.Warn().Err(err).Str("user_id", userID).Msg("recommendations failed")
		event.Error = err.Error()
		h.record(c.Request.Context(), event)
		c.JSON(http.StatusOK, gin.H{"results": []types.RecipeRef{}})
		return
	}

	event.Query = result.Query
	event.ResultCount = len(result.Items)
	event.Searches = result.Searches
	h.record(c.Request.Context(), event)

	c.JSON(http.StatusOK, gin.H{
		"results": nonNil(result.Items),
		"query":   result.Query,
	})
}

// GetSimilar returns recipes sharing name words with the given recipe
func (h *DiscoverHandler) GetSimilar(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id := c.Param("id")
	focal, result, err := h.discoverer.ComputeSimilarByID(c.Request.Context(), id)
	event := &models.DiscoveryEvent{UserID: userID, Kind: models.EventSimilar, FocalID: id}
	if err != nil {
		event.Error = err.Error()
		h.record(c.Request.Context(), event)
		if catalog.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		logging.Warn().Err(err).Str("recipe_id", id).Msg("similar recipes failed")
		c.JSON(http.StatusOK, gin.H{"results": []types.RecipeRef{}})
		return
	}

	event.ResultCount = len(result.Items)
	event.Searches = result.Searches
	h.record(c.Request.Context(), event)

	c.JSON(http.StatusOK, gin.H{
		"recipe":  focal,
		"results": nonNil(result.Items),
	})
}

// GetHome returns the caller's recent recipes, favorites and catalogs
func (h *DiscoverHandler) GetHome(c *gin.Context) {
	dashboard, err := h.discoverer.Dashboard(c.Request.Context())
	if err != nil {
		logging.Warn().Err(err).Msg("dashboard failed")
		status := http.StatusBadGateway
		if errors.Is(err, catalog.ErrCircuitOpen) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": "catalog unavailable"})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GetHistory returns the caller's recent discovery events
func (h *DiscoverHandler) GetHistory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	if h.events == nil {
		c.JSON(http.StatusOK, gin.H{"results": []*models.DiscoveryEvent{}})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	events, err := h.events.ListForUser(c.Request.Context(), userID, limit)
	if err != nil {
		logging.Error().Err(err).Str("user_id", userID).Msg("failed to list discovery history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	if events == nil {
		events = []*models.DiscoveryEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"results": events})
}

func (h *DiscoverHandler) record(ctx context.Context, event *models.DiscoveryEvent) {
	if h.events == nil {
		return
	}
	if err := h.events.Record(ctx, event); err != nil {
		logging.Warn().Err(err).Str("kind", event.Kind).Msg("failed to record discovery event")
	}
}

func nonNil(items []types.RecipeRef) []types.RecipeRef {
	if items == nil {
		return []types.RecipeRef{}
	}
	return items
}
