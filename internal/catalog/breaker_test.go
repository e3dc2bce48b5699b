package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	calls      atomic.Int32
	detailsErr error
}

func (s *scriptedClient) Discover(ctx context.Context, q DiscoverQuery) (*DiscoverPage, error) {
	s.calls.Add(1)
	return &DiscoverPage{Page: q.Page}, nil
}

func (s *scriptedClient) Details(ctx context.Context, id int64) (*Details, error) {
	s.calls.Add(1)
	if s.detailsErr != nil {
		return nil, s.detailsErr
	}
	return &Details{ID: id}, nil
}

func testBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:             "test-" + time.Now().Format("150405.000000000"),
		MinRequests:      3,
		FailureRatio:     0.6,
		Interval:         time.Minute,
		OpenTimeout:      time.Minute,
		HalfOpenRequests: 1,
	}
}

func TestBreakerPassesResultsThrough(t *testing.T) {
	next := &scriptedClient{}
	b := NewBreakerClient(next, testBreakerSettings(), zerolog.Nop())

	page, err := b.Discover(context.Background(), DiscoverQuery{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)

	d, err := b.Details(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), d.ID)
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	next := &scriptedClient{detailsErr: &StatusError{Endpoint: endpointDetails, Code: 503}}
	b := NewBreakerClient(next, testBreakerSettings(), zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, err := b.Details(context.Background(), 1)
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
	}
	require.Equal(t, gobreaker.StateOpen, b.State())

	before := next.calls.Load()
	_, err := b.Details(context.Background(), 1)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, before, next.calls.Load(), "open breaker must not call upstream")
}

func TestBreakerIgnoresNotFoundAndCancellation(t *testing.T) {
	for _, upstreamErr := range []error{ErrNotFound, context.Canceled} {
		next := &scriptedClient{detailsErr: upstreamErr}
		b := NewBreakerClient(next, testBreakerSettings(), zerolog.Nop())

		for i := 0; i < 5; i++ {
			_, err := b.Details(context.Background(), 1)
			require.True(t, errors.Is(err, upstreamErr))
		}
		assert.Equal(t, gobreaker.StateClosed, b.State(), "%v must not trip the breaker", upstreamErr)
	}
}
