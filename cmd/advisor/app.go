package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/course-advisor/internal/cache"
	"github.com/jonathan/course-advisor/internal/config"
	"github.com/jonathan/course-advisor/internal/dataset"
	"github.com/jonathan/course-advisor/internal/db"
	"github.com/jonathan/course-advisor/internal/observability"
	"github.com/jonathan/course-advisor/internal/recommend"
	"github.com/jonathan/course-advisor/internal/sources"
	"github.com/jonathan/course-advisor/internal/transcript"
	"github.com/jonathan/course-advisor/internal/types"
)

// app holds what every data-backed command needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	sources recommend.Sources
	closers []func()
}

// loadConfig resolves configuration from the --config file, the environment and
// the persistent flags, in increasing precedence.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// A store chosen on the command line replaces one from file or environment
	if datasetPath != "" {
		cfg.Dataset = datasetPath
		cfg.DatabaseURL = ""
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
		cfg.Dataset = ""
	}
	if redisURL != "" {
		cfg.RedisURL = redisURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp loads configuration and opens the configured data sources.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireStore(); err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	if err := a.openSources(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// openSources builds the store, then the optional offering cache, then the
// circuit breaker around both.
func (a *app) openSources(ctx context.Context) error {
	var src recommend.Sources
	var name string

	if a.cfg.Dataset != "" {
		store, err := dataset.Load(a.cfg.Dataset)
		if err != nil {
			return err
		}
		src, name = store, "dataset"
	} else {
		database, err := db.Connect(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, database.Close)
		src, name = database, "postgres"
	}

	if a.cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, a.cfg.RedisURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		src = cache.Wrap(src, client, a.cfg.CacheTTLDuration(), a.logger)
	}

	a.sources = sources.NewGuard(src, sources.GuardConfig{
		Name:        name,
		MaxFailures: uint32(a.cfg.BreakerFailures),
		OpenTimeout: a.cfg.BreakerTimeoutDuration(),
	}, a.logger)
	a.logger.Debug("data sources ready",
		zap.String("store", name),
		zap.Bool("cache", a.cfg.RedisURL != ""))
	return nil
}

func (a *app) engine() *recommend.Engine {
	return recommend.NewEngine(a.sources, observability.NewLogObserver(a.logger))
}

// Close releases connections in reverse order of opening.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.logger.Sync()
}

// completedCourses returns the courses named by a comma-separated list, or
// else those found in a transcript file. Neither yields an empty list.
func completedCourses(list, transcriptPath string) ([]string, error) {
	if strings.TrimSpace(list) != "" {
		codes := make([]string, 0)
		for _, code := range strings.Split(list, ",") {
			if code = strings.TrimSpace(code); code != "" {
				codes = append(codes, code)
			}
		}
		return codes, nil
	}
	if transcriptPath != "" {
		return transcript.ExtractFile(transcriptPath, transcript.Options{})
	}
	return []string{}, nil
}

// parsePreferences decodes a --prefs value. Malformed input falls back to no
// preferences with a warning.
func parsePreferences(raw string, logger *zap.Logger) types.Preferences {
	prefs, err := types.ParsePreferences([]byte(raw))
	if err != nil {
		logger.Warn("ignoring malformed preferences", zap.Error(err))
	}
	return prefs
}
