package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-v2/discovery/internal/middleware"
	"github.com/pageza/alchemorsel-v2/discovery/internal/service"
)

// Dependencies are the services behind the HTTP API
type Dependencies struct {
	Auth        middleware.TokenValidator
	Discoverer  Discoverer
	Lister      Lister
	Events      service.IEventService
	RateLimiter *middleware.RateLimiter
}

// SetupAPI registers the authenticated /api/v1 routes
func SetupAPI(router *gin.Engine, deps Dependencies) {
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(deps.Auth))
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.RateLimitMiddleware())
	}

	NewDiscoverHandler(deps.Discoverer, deps.Events).RegisterRoutes(v1)
	NewListingHandler(deps.Lister, deps.Events).RegisterRoutes(v1)
}
