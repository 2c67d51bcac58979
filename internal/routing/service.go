package routing

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the routing service.
type ServiceConfig struct {
	// Provider is the directions provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// RequestTimeout bounds each upstream provider call (default: 10s).
	RequestTimeout time.Duration

	// TTL is how long a cached response stays valid. Zero means entries
	// live for the lifetime of the service: directions between two fixed
	// addresses are effectively static.
	TTL time.Duration
}

// Service memoizes provider responses per (origin, destination, mode).
//
// Each distinct key triggers at most one upstream call: concurrent
// requests for the same key share a single in-flight fetch. Empty
// results are cached like any other response; failures are not cached,
// so the next request for that key retries the provider.
type Service struct {
	provider Provider
	logger   zerolog.Logger
	timeout  time.Duration
	ttl      time.Duration

	mu    sync.Mutex
	cache map[string]*flight
}

// flight is a single-computation cache entry. The fetching goroutine
// fills routes/err and closes done; waiters block on done.
type flight struct {
	done      chan struct{}
	routes    []Route
	err       error
	fetchedAt time.Time
}

// NewService creates a new routing service.
func NewService(cfg ServiceConfig) *Service {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
		timeout:  timeout,
		ttl:      cfg.TTL,
		cache:    make(map[string]*flight),
	}
}

// GetRoutes returns candidate routes between origin and destination for
// the given mode, fetching from the provider on first use.
func (s *Service) GetRoutes(ctx context.Context, origin, destination string, mode TravelMode) ([]Route, error) {
	key := cacheKey(origin, destination, mode)

	s.mu.Lock()
	if f, ok := s.cache[key]; ok && !s.expired(f) {
		s.mu.Unlock()
		return s.await(ctx, key, f)
	}

	f := &flight{done: make(chan struct{})}
	s.cache[key] = f
	s.mu.Unlock()

	s.logger.Debug().
		Str("origin", origin).
		Str("destination", destination).
		Str("mode", string(mode)).
		Str("provider", s.provider.Name()).
		Msg("fetching directions from provider")

	fctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	routes, err := s.provider.GetRoutes(fctx, origin, destination, mode)
	f.routes = routes
	f.err = err
	f.fetchedAt = time.Now()
	close(f.done)

	if err != nil {
		// Failures are not cached: drop the entry so the next caller retries.
		s.mu.Lock()
		if s.cache[key] == f {
			delete(s.cache, key)
		}
		s.mu.Unlock()

		s.logger.Error().Err(err).
			Str("origin", origin).
			Str("destination", destination).
			Str("mode", string(mode)).
			Msg("failed to fetch directions")
		return nil, err
	}

	s.logger.Debug().
		Str("mode", string(mode)).
		Int("route_count", len(routes)).
		Msg("cached directions response")

	return routes, nil
}

// await blocks until the shared in-flight fetch for key completes.
func (s *Service) await(ctx context.Context, key string, f *flight) ([]Route, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if f.err != nil {
		return nil, f.err
	}

	s.logger.Debug().Str("cache_key", key).Msg("cache hit for directions")
	return f.routes, nil
}

// expired reports whether a completed entry is past its TTL. In-flight
// entries are never expired.
func (s *Service) expired(f *flight) bool {
	if s.ttl == 0 {
		return false
	}
	select {
	case <-f.done:
	default:
		return false
	}
	return f.err == nil && time.Since(f.fetchedAt) > s.ttl
}

// InvalidateCache clears all cached directions.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*flight)
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// cacheKey builds a stable, case-sensitive composite key.
func cacheKey(origin, destination string, mode TravelMode) string {
	return origin + "|" + destination + "|" + string(mode)
}
