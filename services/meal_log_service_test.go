package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/healthtrack/backend/cache"
	"github.com/healthtrack/backend/models"
	"github.com/healthtrack/backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMealLogCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("fills defaults and splits calories", func(t *testing.T) {
		h := newHarness(t)
		uid := h.user(t, "m@example.com")
		v, err := services.NewMealLogService(h.deps, 0).Create(ctx, uid, services.MealLogInput{
			MealName:      ptr("  ramen "),
			TotalCalories: ptr(600.0),
		})
		require.NoError(t, err)

		assert.Equal(t, "ramen", v.MealName)
		assert.Equal(t, models.Snack, v.MealType)
		assert.Equal(t, testNow, v.LoggedAt)
		assert.InDelta(t, 600, v.TotalCalories, 1e-9)
		assert.InDelta(t, 20, v.FatGrams, 1e-9)
		assert.InDelta(t, 45, v.ProteinGrams, 1e-9)
		assert.InDelta(t, 60, v.CarbsGrams, 1e-9)
	})

	t.Run("macros alone set calories", func(t *testing.T) {
		h := newHarness(t)
		uid := h.user(t, "m@example.com")
		v, err := services.NewMealLogService(h.deps, 0).Create(ctx, uid, services.MealLogInput{
			MealName:     ptr("eggs"),
			MealType:     "breakfast",
			FatGrams:     ptr(10.0),
			ProteinGrams: ptr(12.0),
		})
		require.NoError(t, err)
		assert.Equal(t, models.Breakfast, v.MealType)
		assert.InDelta(t, 138, v.TotalCalories, 1e-9)
	})

	t.Run("validation", func(t *testing.T) {
		h := newHarness(t)
		uid := h.user(t, "m@example.com")
		svc := services.NewMealLogService(h.deps, 0)
		for name, in := range map[string]services.MealLogInput{
			"missing name":      {TotalCalories: ptr(100.0)},
			"blank name":        {MealName: ptr("  ")},
			"negative calories": {MealName: ptr("x"), TotalCalories: ptr(-1.0)},
			"unknown type":      {MealName: ptr("x"), MealType: "brunch"},
		} {
			_, err := svc.Create(ctx, uid, in)
			assert.ErrorIs(t, err, services.ErrInvalidInput, name)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		h := newHarness(t)
		_, err := services.NewMealLogService(h.deps, 0).Create(ctx, 77, services.MealLogInput{MealName: ptr("x")})
		assert.ErrorIs(t, err, services.ErrNotFound)
	})
}

func TestMealLogListByDate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	uid := h.user(t, "list@example.com")
	other := h.user(t, "other@example.com")
	today := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	h.create(t,
		&models.MealLog{UserID: uid, MealName: "dinner", MealType: models.Dinner, LoggedAt: today.Add(-4 * time.Hour)},
		&models.MealLog{UserID: uid, MealName: "lunch", MealType: models.Lunch, LoggedAt: today.Add(12 * time.Hour)},
		&models.MealLog{UserID: uid, MealName: "breakfast", MealType: models.Breakfast, LoggedAt: today.Add(7 * time.Hour)},
		&models.MealLog{UserID: other, MealName: "not mine", MealType: models.Snack, LoggedAt: today.Add(9 * time.Hour)},
	)
	svc := services.NewMealLogService(h.deps, 0)

	got, err := svc.ListByDate(ctx, uid, today.Add(15*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "breakfast", got[0].MealName)
	assert.Equal(t, "lunch", got[1].MealName)
	assert.True(t, h.cached(cache.MealLogsKey(uid, today)))

	_, err = svc.Create(ctx, uid, services.MealLogInput{MealName: ptr("tea"), TotalCalories: ptr(5.0)})
	require.NoError(t, err)
	assert.False(t, h.cached(cache.MealLogsKey(uid, today)))

	got, err = svc.ListByDate(ctx, uid, today)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	empty, err := svc.ListByDate(ctx, uid, today.AddDate(0, 0, -5))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMealLogUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	yesterday := time.Date(2025, 3, 4, 19, 0, 0, 0, time.UTC)

	seed := func(t *testing.T, h *harness, uid uint) *models.MealLog {
		m := &models.MealLog{UserID: uid, MealName: "curry", MealType: models.Dinner,
			TotalCalories: 700, FatGrams: 20, ProteinGrams: 30, CarbsGrams: 80, LoggedAt: yesterday}
		h.create(t, m)
		return m
	}

	t.Run("ownership", func(t *testing.T) {
		h := newHarness(t)
		owner := h.user(t, "owner@example.com")
		intruder := h.user(t, "intruder@example.com")
		m := seed(t, h, owner)
		svc := services.NewMealLogService(h.deps, 0)

		_, err := svc.Update(ctx, intruder, m.ID, services.MealLogInput{MealName: ptr("mine now")})
		assert.ErrorIs(t, err, services.ErrForbidden)
		assert.ErrorIs(t, svc.Delete(ctx, intruder, m.ID), services.ErrForbidden)
		_, err = svc.Update(ctx, owner, m.ID+100, services.MealLogInput{})
		assert.ErrorIs(t, err, services.ErrNotFound)
		assert.ErrorIs(t, svc.Delete(ctx, 999, m.ID), services.ErrNotFound)
	})

	t.Run("keeps nutrition when none is sent", func(t *testing.T) {
		h := newHarness(t)
		uid := h.user(t, "u@example.com")
		m := seed(t, h, uid)

		v, err := services.NewMealLogService(h.deps, 0).Update(ctx, uid, m.ID, services.MealLogInput{MealName: ptr("green curry"), MealType: "lunch"})
		require.NoError(t, err)
		assert.Equal(t, "green curry", v.MealName)
		assert.Equal(t, models.Lunch, v.MealType)
		assert.Equal(t, 700.0, v.TotalCalories)
		assert.Equal(t, 80.0, v.CarbsGrams)
	})

	t.Run("re-resolves nutrition when sent", func(t *testing.T) {
		h := newHarness(t)
		uid := h.user(t, "u@example.com")
		m := seed(t, h, uid)

		v, err := services.NewMealLogService(h.deps, 0).Update(ctx, uid, m.ID, services.MealLogInput{TotalCalories: ptr(400.0)})
		require.NoError(t, err)
		assert.InDelta(t, 400, v.TotalCalories, 1e-9)
		assert.InDelta(t, 40, v.CarbsGrams, 1e-9)
	})

	t.Run("moving a meal drops both days", func(t *testing.T) {
		h := newHarness(t)
		uid := h.user(t, "u@example.com")
		m := seed(t, h, uid)
		svc := services.NewMealLogService(h.deps, 0)

		_, err := svc.ListByDate(ctx, uid, yesterday)
		require.NoError(t, err)
		_, err = svc.ListByDate(ctx, uid, testNow)
		require.NoError(t, err)

		_, err = svc.Update(ctx, uid, m.ID, services.MealLogInput{LoggedAt: ptr(testNow.Add(-time.Hour))})
		require.NoError(t, err)
		assert.False(t, h.cached(cache.MealLogsKey(uid, yesterday)))
		assert.False(t, h.cached(cache.MealLogsKey(uid, testNow)))

		today, err := svc.ListByDate(ctx, uid, testNow)
		require.NoError(t, err)
		assert.Len(t, today, 1)
	})

	t.Run("delete", func(t *testing.T) {
		h := newHarness(t)
		uid := h.user(t, "u@example.com")
		m := seed(t, h, uid)
		svc := services.NewMealLogService(h.deps, 0)

		require.NoError(t, svc.Delete(ctx, uid, m.ID))
		got, err := svc.ListByDate(ctx, uid, yesterday)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.ErrorIs(t, svc.Delete(ctx, uid, m.ID), services.ErrNotFound)
	})
}
