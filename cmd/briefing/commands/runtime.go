package commands

import (
	"context"
	"fmt"

	"github.com/wonny/briefing/internal/briefing"
	"github.com/wonny/briefing/internal/store"
	"github.com/wonny/briefing/internal/viewconfig"
	"github.com/wonny/briefing/pkg/config"
	"github.com/wonny/briefing/pkg/database"
	"github.com/wonny/briefing/pkg/logger"
	"github.com/wonny/briefing/pkg/redis"
)

// runtime bundles what every command builds from config
type runtime struct {
	cfg    *config.Config
	view   *viewconfig.Config
	logger *logger.Logger
}

// loadRuntime loads env config, the analytics YAML and the logger
func loadRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if viewConfigFile != "" {
		cfg.ViewConfigPath = viewConfigFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	view, err := viewconfig.LoadOrDefault(cfg.ViewConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load analytics config: %w", err)
	}
	log.WithFields(map[string]interface{}{
		"path":    cfg.ViewConfigPath,
		"version": view.Meta.Version,
	}).Debug("Analytics config loaded")

	return &runtime{cfg: cfg, view: view, logger: log}, nil
}

// sources is the opened snapshot backend
type sources struct {
	// raw bypasses the cache (snapshot watch)
	raw store.Source
	// cached serves requests
	cached *store.CachedSource

	db    *database.DB
	redis *redis.Client
}

// Close releases connections
func (s *sources) Close() {
	if s.db != nil {
		s.db.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
}

// openSources opens the configured snapshot source and the redis cache in front of it
func (rt *runtime) openSources(ctx context.Context) (*sources, error) {
	out := &sources{}

	switch rt.cfg.Source {
	case config.SourcePostgres:
		db, err := database.New(ctx, rt.cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		out.db = db
		out.raw = store.NewPostgresSource(db.Pool)
		rt.logger.Info("Connected to database")
	default:
		out.raw = store.NewFileSource(rt.cfg.StateDir)
		rt.logger.WithField("dir", rt.cfg.StateDir).Info("Reading snapshots from state directory")
	}

	rc, err := redis.New(ctx, rt.cfg)
	if err != nil {
		// 캐시 없이도 동작: 경고 후 pass-through
		rt.logger.WithError(err).Warn("Redis unavailable, caching disabled")
		rc = redis.Disabled()
	}
	out.redis = rc
	out.cached = store.NewCachedSource(out.raw, redis.NewCache(rc, rt.cfg.Redis.Prefix))

	return out, nil
}

// newService builds the briefing service over the cached source
func (rt *runtime) newService(src *sources) *briefing.Service {
	return briefing.NewService(src.cached, rt.view.BriefingOptions(), rt.logger)
}
