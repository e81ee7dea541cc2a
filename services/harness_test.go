package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/healthtrack/backend/cache"
	"github.com/healthtrack/backend/dbtest"
	"github.com/healthtrack/backend/models"
	"github.com/healthtrack/backend/repositories"
	"github.com/healthtrack/backend/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

// Wednesday afternoon; the week started Monday 2025-03-03.
var testNow = time.Date(2025, 3, 5, 14, 0, 0, 0, time.UTC)

type harness struct {
	db            *gorm.DB
	repos         services.Repositories
	store         *cache.MemoryStore
	invalidations *prometheus.CounterVec
	logs          *observer.ObservedLogs
	deps          services.Deps
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := dbtest.Open(t)
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)
	store := cache.NewMemoryStore()
	clock := func() time.Time { return testNow }
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_invalidations_total"}, []string{"trigger", "outcome"})
	repos := repositories.New(db)

	return &harness{
		db:            db,
		repos:         repos,
		store:         store,
		invalidations: counter,
		logs:          logs,
		deps: services.Deps{
			Repos:       repos,
			UoW:         repositories.NewUnitOfWork(db),
			Cache:       store,
			Invalidator: services.NewCacheInvalidator(store, log, counter, clock),
			Log:         log,
			Clock:       clock,
		},
	}
}

func (h *harness) user(t *testing.T, email string) uint {
	t.Helper()
	u := &models.User{Email: email, FullName: "Jamie Doe"}
	require.NoError(t, h.db.Create(u).Error)
	return u.ID
}

func (h *harness) create(t *testing.T, values ...any) {
	t.Helper()
	for _, v := range values {
		require.NoError(t, h.db.Create(v).Error)
	}
}

func (h *harness) cached(key string) bool {
	_, err := h.store.Get(context.Background(), key)
	return !errors.Is(err, cache.ErrMiss)
}

func ptr[T any](v T) *T { return &v }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

type failingArticles struct{ err error }

func (f failingArticles) Top2ByPublishedDesc(context.Context) ([]models.Article, error) {
	return nil, f.err
}

// brokenStore fails every operation.
type brokenStore struct{ err error }

func (b brokenStore) Get(context.Context, string) ([]byte, error)              { return nil, b.err }
func (b brokenStore) Set(context.Context, string, []byte, time.Duration) error { return b.err }
func (b brokenStore) Delete(context.Context, ...string) error                  { return b.err }
