package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/healthtrack/backend/cache"
	"github.com/healthtrack/backend/models"
	"github.com/healthtrack/backend/services"
	"github.com/healthtrack/backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardEmptyUser(t *testing.T) {
	h := newHarness(t)
	uid := h.user(t, "empty@example.com")
	svc := services.NewDashboardService(h.deps, 0)

	d, err := svc.GetDashboard(context.Background(), uid)
	require.NoError(t, err)

	assert.Equal(t, 0, d.HealthScore.Score)
	assert.Equal(t, "poor", d.HealthScore.Status)
	assert.NotEmpty(t, d.HealthScore.Message)
	assert.Equal(t, models.StepsHighlight{Value: 0, Goal: 10000, Percentage: 0, LastUpdated: utils.NoData}, d.Highlights.Steps)
	assert.Equal(t, utils.NoData, d.Highlights.CycleTracking.Status)
	assert.Equal(t, 0, d.Highlights.CycleTracking.DaysRemaining)
	assert.Equal(t, 8.0, d.Highlights.Sleep.Goal)
	assert.Equal(t, "0h 0min", d.Highlights.Sleep.Formatted)
	assert.Equal(t, models.NutritionHighlight{Goal: 2000, LastUpdated: utils.NoData}, d.Highlights.Nutrition)
	assert.Equal(t, "0min", d.WeeklyReport.FormattedWorkoutDuration)
	assert.NotNil(t, d.Blogs)
	assert.Empty(t, d.Blogs)

	assert.True(t, h.cached(cache.DashboardKey(uid)))
}

func TestDashboardAggregates(t *testing.T) {
	h := newHarness(t)
	uid := h.user(t, "busy@example.com")
	today := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	cat := models.Category{Name: "Nutrition"}
	h.create(t, &cat)

	h.create(t,
		&models.UserGoal{UserID: uid, DailyStepsGoal: 8000, DailyCaloriesGoal: 2000,
			Bedtime: ptr("23:00"), Wakeup: ptr("07:00"), ActivityLevel: models.Sedentary},
		&models.HealthDataEntry{UserID: uid, MetricType: models.Steps, Value: 6000, RecordedAt: testNow.Add(-2 * time.Hour)},
		&models.HealthDataEntry{UserID: uid, MetricType: models.Steps, Value: 3000, RecordedAt: testNow.Add(-20 * time.Hour)},
		&models.HealthDataEntry{UserID: uid, MetricType: models.HeartRate, Value: 70, RecordedAt: testNow.Add(-time.Hour)},
		&models.HealthDataEntry{UserID: uid, MetricType: models.SleepDuration, Value: 7.5, RecordedAt: testNow.Add(-7 * time.Hour)},
		&models.HealthDataEntry{UserID: uid, MetricType: models.WaterIntake, Value: 1500, RecordedAt: today.AddDate(0, 0, -2).Add(9 * time.Hour)},
		&models.HealthDataEntry{UserID: uid, MetricType: models.WorkoutDuration, Value: 75, RecordedAt: today.AddDate(0, 0, -1).Add(18 * time.Hour)},
		&models.HealthDataEntry{UserID: uid, MetricType: models.Steps, Value: 50000, RecordedAt: today.AddDate(0, 0, -3)}, // last week
		&models.MealLog{UserID: uid, MealName: "oats", MealType: models.Breakfast, TotalCalories: 320, LoggedAt: today.Add(8 * time.Hour)},
		&models.MealLog{UserID: uid, MealName: "pho", MealType: models.Lunch, TotalCalories: 480, LoggedAt: today.Add(12*time.Hour + 30*time.Minute)},
		&models.MenstrualCycle{UserID: uid, StartDate: date(2025, 2, 20)},
		&models.Article{Title: "Sleep hygiene", PublishedAt: today.AddDate(0, 0, -10)},
		&models.Article{Title: "Protein myths", CategoryID: &cat.ID, VoteCount: 12, PublishedAt: today.AddDate(0, 0, -1)},
		&models.Article{Title: "Hydration", PublishedAt: today.AddDate(0, 0, -2)},
	)

	d, err := services.NewDashboardService(h.deps, 0).GetDashboard(context.Background(), uid)
	require.NoError(t, err)

	// steps 75 + 37.5, heart rate 100, sleep 93.75
	assert.Equal(t, 76, d.HealthScore.Score)
	assert.Equal(t, "good", d.HealthScore.Status)

	assert.Equal(t, models.StepsHighlight{Value: 6000, Goal: 8000, Percentage: 75, LastUpdated: "2 hours ago"}, d.Highlights.Steps)
	assert.Equal(t, models.SleepHighlight{Hours: 7.5, Goal: 8, Percentage: 93.75, LastUpdated: "7 hours ago", Formatted: "7h 30min"}, d.Highlights.Sleep)
	assert.Equal(t, models.NutritionHighlight{TotalKcal: 800, Goal: 2000, Percentage: 40, LastUpdated: "1 hours ago"}, d.Highlights.Nutrition)
	assert.Equal(t, models.CycleHighlight{
		Status:        "next cycle in 20 days",
		LastCycleDate: "2025-02-20",
		NextCycleDate: "2025-03-25",
		DaysRemaining: 20,
	}, d.Highlights.CycleTracking)

	assert.Equal(t, models.WeeklyReport{
		TotalSteps:               9000,
		TotalWater:               1500,
		TotalWorkoutDuration:     75,
		TotalSleepDuration:       7.5,
		FormattedWorkoutDuration: "1h 15min",
		FormattedSleepDuration:   "7h 30min",
	}, d.WeeklyReport)

	require.Len(t, d.Blogs, 2)
	assert.Equal(t, "Protein myths", d.Blogs[0].Title)
	assert.Equal(t, "Nutrition", d.Blogs[0].CategoryName)
	assert.Equal(t, 12, d.Blogs[0].VoteCount)
	assert.Equal(t, "Hydration", d.Blogs[1].Title)
	assert.Equal(t, "Uncategorized", d.Blogs[1].CategoryName)
}

func TestDashboardCacheHitSkipsRepositories(t *testing.T) {
	store := cache.NewMemoryStore()
	want := models.Dashboard{HealthScore: models.HealthScore{Score: 91, Status: "excellent"}, Blogs: []models.BlogCard{}}
	require.NoError(t, cache.SetTyped(context.Background(), store, cache.DashboardKey(7), want, time.Minute))

	// Every repository is nil: any lookup would panic.
	svc := services.NewDashboardService(services.Deps{Cache: store}, 0)
	got, err := svc.GetDashboard(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestDashboardRecomputesCorruptEntry(t *testing.T) {
	h := newHarness(t)
	uid := h.user(t, "stale@example.com")
	require.NoError(t, h.store.Set(context.Background(), cache.DashboardKey(uid), []byte(`{"healthScore":{"score":99}}`), time.Minute))

	d, err := services.NewDashboardService(h.deps, 0).GetDashboard(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, 0, d.HealthScore.Score)

	again, ok, err := cache.GetTyped[models.Dashboard](context.Background(), h.store, cache.DashboardKey(uid))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "poor", again.HealthScore.Status)
}

func TestDashboardPropagatesFailures(t *testing.T) {
	boom := errors.New("connection reset")

	t.Run("repository failure caches nothing", func(t *testing.T) {
		h := newHarness(t)
		uid := h.user(t, "fail@example.com")
		deps := h.deps
		deps.Repos.Articles = failingArticles{err: boom}

		d, err := services.NewDashboardService(deps, 0).GetDashboard(context.Background(), uid)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, d)
		assert.False(t, h.cached(cache.DashboardKey(uid)))
	})

	t.Run("cache failure", func(t *testing.T) {
		h := newHarness(t)
		uid := h.user(t, "cachefail@example.com")
		deps := h.deps
		deps.Cache = brokenStore{err: boom}

		_, err := services.NewDashboardService(deps, 0).GetDashboard(context.Background(), uid)
		assert.ErrorIs(t, err, boom)
	})
}
