package arcgis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"
)

const (
	// Service names for rate limiting
	ServiceGeocode   = "geocode"
	ServicePlaces    = "places"
	ServiceRouting   = "routing"
	ServiceElevation = "elevation"
	ServiceBasemap   = "basemap"
)

// RateLimiter manages rate limiting for the ArcGIS Location Services
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

var (
	// globalRateLimiter is the singleton rate limiter instance
	globalRateLimiter *RateLimiter

	// rateLimiterOnce ensures we only create the rate limiter once
	rateLimiterOnce sync.Once
)

// GetRateLimiter returns the global rate limiter instance
func GetRateLimiter() *RateLimiter {
	rateLimiterOnce.Do(func() {
		// The hosted Location Services meter usage per API key rather
		// than enforcing a hard request rate, so these limits exist to
		// keep a runaway client from burning through a key's quota.
		limiters := make(map[string]*rate.Limiter)

		limiters[ServiceGeocode] = rate.NewLimiter(rate.Limit(10), 5)
		limiters[ServicePlaces] = rate.NewLimiter(rate.Limit(10), 5)
		limiters[ServiceRouting] = rate.NewLimiter(rate.Limit(5), 2)
		limiters[ServiceElevation] = rate.NewLimiter(rate.Limit(10), 5)
		limiters[ServiceBasemap] = rate.NewLimiter(rate.Limit(25), 10)

		globalRateLimiter = &RateLimiter{
			limiters: limiters,
		}
	})

	return globalRateLimiter
}

// Wait blocks until the rate limit for the specified service allows an event
// or the context is canceled.
func (rl *RateLimiter) Wait(ctx context.Context, service string) error {
	rl.mu.RLock()
	limiter, exists := rl.limiters[service]
	rl.mu.RUnlock()

	if !exists {
		return fmt.Errorf("no rate limiter defined for service: %s", service)
	}

	err := limiter.Wait(ctx)
	if err != nil {
		slog.Debug("rate limiter wait error", "service", service, "error", err)
		return err
	}

	return nil
}

// WaitForService is a convenience function to wait for a service's rate limit
// using the global rate limiter
func WaitForService(ctx context.Context, service string) error {
	return GetRateLimiter().Wait(ctx, service)
}
