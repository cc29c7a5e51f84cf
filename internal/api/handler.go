package api

import (
	"time"

	"parking-marketplace-backend/config"
	"parking-marketplace-backend/internal/engine"
	"parking-marketplace-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store  store.Store
	engine *engine.Engine
}

// NewHandler creates a new API handler. cfg may be nil, in which case the
// engine runs with its built-in defaults.
func NewHandler(s store.Store, cfg *config.EngineConfig) *Handler {
	var engineCfg engine.Config
	if cfg != nil {
		engineCfg = engine.Config{
			HistoryWindowDays:    cfg.HistoryWindowDays,
			HistoryLimit:         cfg.HistoryLimit,
			PersonalHistoryLimit: cfg.PersonalHistoryLimit,
			AggregateCacheTTL:    time.Duration(cfg.AggregateCacheTTLSeconds) * time.Second,
			DefaultMaxResults:    cfg.DefaultMaxResults,
			DefaultMinScore:      cfg.DefaultMinScore,
		}
	}
	return &Handler{
		store:  s,
		engine: engine.New(s, engineCfg),
	}
}
