package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"parking-marketplace-backend/config"
	"parking-marketplace-backend/internal/mw"
	"parking-marketplace-backend/internal/store"
)

// NewRouter creates and configures a new Gin router. cfg may be nil; in that
// case conservative defaults apply.
func NewRouter(s store.Store, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	var engineCfg *config.EngineConfig
	limit, burst := rate.Limit(10), 5
	cacheTTL := time.Minute
	ipHeader := ""
	if cfg != nil {
		engineCfg = &cfg.Engine
		// Zero-valued server fields fall back to the same defaults as a nil
		// config; a limiter built with limit 0 would reject every request.
		if cfg.Server.RateLimitPerSec > 0 {
			limit = rate.Limit(cfg.Server.RateLimitPerSec)
		}
		if cfg.Server.RateLimitBurst > 0 {
			burst = cfg.Server.RateLimitBurst
		}
		if cfg.Server.CacheTTLSeconds > 0 {
			cacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
		}
		ipHeader = cfg.Server.RequestIPHeader
	}

	handler := NewHandler(s, engineCfg)
	rateLimiter := mw.RateLimiter(limit, burst, ipHeader)

	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/spaces", caching, handler.GetSpaces)
		api.GET("/spaces/sorted", caching, handler.GetSortedSpaces)
		api.GET("/spaces/nearest", handler.GetNearestSpace)

		// Recommendation results depend on the scoring hour; the short cache
		// TTL keeps them fresh enough while absorbing bursts.
		api.GET("/recommendations", caching, handler.GetRecommendations)
	}

	return r
}
