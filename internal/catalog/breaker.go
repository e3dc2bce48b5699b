package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/sidddev006/CineMatch/internal/logging"
	"github.com/sidddev006/CineMatch/internal/metrics"
)

// BreakerSettings configures the circuit breaker wrapped around a catalog client.
type BreakerSettings struct {
	Name string
	// MinRequests is the sample size required before the failure ratio is evaluated.
	MinRequests uint32
	// FailureRatio opens the circuit once reached.
	FailureRatio float64
	// Interval resets counts while closed.
	Interval time.Duration
	// OpenTimeout is how long the circuit stays open before probing again.
	OpenTimeout time.Duration
	// HalfOpenRequests caps concurrent probes while half-open.
	HalfOpenRequests uint32
}

// DefaultBreakerSettings opens after 60% failures over at least 10 requests
// and probes again after 30 seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:             "catalog-api",
		MinRequests:      10,
		FailureRatio:     0.6,
		Interval:         time.Minute,
		OpenTimeout:      30 * time.Second,
		HalfOpenRequests: 3,
	}
}

// BreakerClient wraps a Client with a circuit breaker so that an unhealthy
// catalog fails fast instead of holding every request for its timeout.
type BreakerClient struct {
	next Client
	cb   *gobreaker.CircuitBreaker[interface{}]
	name string
}

// NewBreakerClient wraps next with a circuit breaker.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBreakerClient(next Client, settings BreakerSettings, logger zerolog.Logger) *BreakerClient {
	name := settings.Name
	if name == "" {
		name = "catalog-api"
	}
	logger = logging.Component(logger, "breaker").With().Str("breaker", name).Logger()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.HalfOpenRequests,
		Interval:    settings.Interval,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= settings.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &BreakerClient{next: next, cb: cb, name: name}
}

// State returns the current breaker state.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

// Discover fetches a discovery page with circuit breaker protection.
func (b *BreakerClient) Discover(ctx context.Context, q DiscoverQuery) (*DiscoverPage, error) {
	return castResult[DiscoverPage](b.cb.Execute(func() (interface{}, error) {
		return b.next.Discover(ctx, q)
	}))
}

// Details fetches a detail record with circuit breaker protection.
func (b *BreakerClient) Details(ctx context.Context, id int64) (*Details, error) {
	return castResult[Details](b.cb.Execute(func() (interface{}, error) {
		return b.next.Details(ctx, id)
	}))
}

func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
