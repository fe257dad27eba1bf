// Package sources protects data sources with a circuit breaker so that a store
// which keeps failing is reported as unavailable instead of being hammered.
package sources

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/jonathan/course-advisor/internal/matching"
	"github.com/jonathan/course-advisor/internal/metrics"
	"github.com/jonathan/course-advisor/internal/recommend"
	"github.com/jonathan/course-advisor/internal/types"
)

// Defaults for GuardConfig zero values
const (
	DefaultMaxFailures = 5
	DefaultOpenTimeout = 30 * time.Second
	defaultHalfOpenMax = 1
)

// GuardConfig configures a Guard
type GuardConfig struct {
	Name        string        // breaker name, used in logs and metrics
	MaxFailures uint32        // consecutive failures that open the circuit
	OpenTimeout time.Duration // time spent open before a trial request
}

// Guard wraps recommend.Sources with a circuit breaker. Lookups rejected by an
// open circuit fail with an error matching types.ErrUnavailable.
type Guard struct {
	next   recommend.Sources
	cb     *gobreaker.CircuitBreaker[any]
	name   string
	logger *zap.Logger
}

// NewGuard creates a Guard around next.
func NewGuard(next recommend.Sources, cfg GuardConfig, logger *zap.Logger) *Guard {
	if cfg.Name == "" {
		cfg.Name = "store"
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultMaxFailures
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = DefaultOpenTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &Guard{next: next, name: cfg.Name, logger: logger}
	metrics.SetBreakerState(cfg.Name, int(gobreaker.StateClosed))

	g.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: defaultHalfOpenMax,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// Answers about the data, like an unknown department, are not store failures
		IsSuccessful: func(err error) bool {
			var nf *types.NotFoundError
			return err == nil || errors.As(err, &nf) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Warn("circuit breaker state change",
				zap.String("source", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.SetBreakerState(name, int(to))
		},
	})

	return g
}

// State returns the current breaker state
func (g *Guard) State() gobreaker.State {
	return g.cb.State()
}

// GetCatalog implements recommend.CatalogSource
func (g *Guard) GetCatalog(ctx context.Context, department string) ([]types.CatalogEntry, error) {
	return execute(g, func() ([]types.CatalogEntry, error) {
		return g.next.GetCatalog(ctx, department)
	})
}

// GetOfferings implements recommend.OfferingSource
func (g *Guard) GetOfferings(ctx context.Context, courseCode string) ([]types.OfferingRecord, error) {
	return execute(g, func() ([]types.OfferingRecord, error) {
		return g.next.GetOfferings(ctx, courseCode)
	})
}

// FindProfessorByNamePattern implements matching.Directory
func (g *Guard) FindProfessorByNamePattern(ctx context.Context, pattern string, mode matching.MatchMode) (*types.ProfessorDirectoryEntry, error) {
	return execute(g, func() (*types.ProfessorDirectoryEntry, error) {
		return g.next.FindProfessorByNamePattern(ctx, pattern, mode)
	})
}

func execute[T any](g *Guard, fn func() (T, error)) (T, error) {
	var zero T
	result, err := g.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%s: %w: %w", g.name, types.ErrUnavailable, err)
		}
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}
