package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Instrumented counts lookups per key family and result (hit, miss, error).
type Instrumented struct {
	next     Store
	requests *prometheus.CounterVec
}

// NewInstrumented wraps next. requests must carry the labels "cache" and "result".
func NewInstrumented(next Store, requests *prometheus.CounterVec) *Instrumented {
	return &Instrumented{next: next, requests: requests}
}

func (i *Instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := i.next.Get(ctx, key)
	result := "hit"
	switch {
	case errors.Is(err, ErrMiss):
		result = "miss"
	case err != nil:
		result = "error"
	}
	i.requests.WithLabelValues(Family(key), result).Inc()
	return b, err
}

func (i *Instrumented) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return i.next.Set(ctx, key, value, ttl)
}

func (i *Instrumented) Delete(ctx context.Context, keys ...string) error {
	return i.next.Delete(ctx, keys...)
}

// Family maps a key to its low-cardinality metric label.
func Family(key string) string {
	switch {
	case strings.HasPrefix(key, dashboardPrefix):
		return "dashboard"
	case strings.HasPrefix(key, profilePrefix):
		return "profile"
	case strings.HasPrefix(key, goalPrefix):
		return "goals"
	case strings.HasPrefix(key, mealLogsPrefix):
		return "meal_logs"
	default:
		return "other"
	}
}
