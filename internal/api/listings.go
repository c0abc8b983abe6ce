package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/alchemorsel-v2/discovery/internal/logging"
	"github.com/pageza/alchemorsel-v2/discovery/internal/middleware"
	"github.com/pageza/alchemorsel-v2/discovery/internal/models"
	"github.com/pageza/alchemorsel-v2/discovery/internal/pagination"
	"github.com/pageza/alchemorsel-v2/discovery/internal/service"
)

// Lister runs paginated listings kept between requests
type Lister interface {
	Start(ctx context.Context, userID string, req pagination.StartRequest) (*pagination.Session, error)
	LoadMore(ctx context.Context, userID string, id uuid.UUID) (*pagination.Session, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (*pagination.Session, error)
}

// StartListingRequest is the body of POST /listings.
// Filter values may be strings, numbers, booleans or lists of those.
type StartListingRequest struct {
	Endpoint     string         `json:"endpoint"`
	Filters      map[string]any `json:"filters"`
	PredefinedID string         `json:"predefined_id"`
}

// ListingHandler handles paginated recipe listings
type ListingHandler struct {
	lister Lister
	events service.IEventService
}

// NewListingHandler creates a new ListingHandler; events may be nil
func NewListingHandler(lister Lister, events service.IEventService) *ListingHandler {
	return &ListingHandler{lister: lister, events: events}
}

// RegisterRoutes registers the listing routes
func (h *ListingHandler) RegisterRoutes(router *gin.RouterGroup) {
	listings := router.Group("/listings")
	{
		listings.POST("", h.StartListing)
		listings.GET("/:id", h.GetListing)
		listings.POST("/:id/more", h.LoadMore)
	}
}

// StartListing opens a listing session and returns its first page.
// A listing the catalog could not serve comes back empty and exhausted.
func (h *ListingHandler) StartListing(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req StartListingRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	sess, err := h.lister.Start(c.Request.Context(), userID, pagination.StartRequest{
		Endpoint:     req.Endpoint,
		Filters:      pagination.FiltersFromCriteria(req.Filters),
		PredefinedID: req.PredefinedID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	if h.events != nil {
		event := &models.DiscoveryEvent{
			UserID:      userID,
			Kind:        models.EventListing,
			Query:       sess.Snapshot.Endpoint,
			FocalID:     req.PredefinedID,
			ResultCount: len(sess.Snapshot.Items),
			Searches:    sess.Snapshot.Requests,
			Error:       sess.LastError,
		}
		if err := h.events.Record(c.Request.Context(), event); err != nil {
			logging.Warn().Err(err).Msg("failed to record listing event")
		}
	}

	c.JSON(http.StatusCreated, sess)
}

// GetListing returns the stored session
func (h *ListingHandler) GetListing(c *gin.Context) {
	userID, id, ok := h.sessionParams(c)
	if !ok {
		return
	}

	sess, err := h.lister.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// LoadMore appends the next page to the session. A request made while another
// is loading, or after the listing is exhausted, returns the session unchanged.
func (h *ListingHandler) LoadMore(c *gin.Context) {
	userID, id, ok := h.sessionParams(c)
	if !ok {
		return
	}

	sess, err := h.lister.LoadMore(c.Request.Context(), userID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *ListingHandler) sessionParams(c *gin.Context) (string, uuid.UUID, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return "", uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
		return "", uuid.Nil, false
	}
	return userID, id, true
}

func (h *ListingHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pagination.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
	case errors.Is(err, pagination.ErrInvalidEndpoint):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logging.Error().Err(err).Str("path", c.Request.URL.Path).Msg("listing request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing storage unavailable"})
	}
}
