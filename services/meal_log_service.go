package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/healthtrack/backend/cache"
	"github.com/healthtrack/backend/models"
	"go.uber.org/zap"
)

const DefaultMealLogsTTL = 10 * time.Minute

type MealLogService struct {
	repos Repositories
	uow   UnitOfWork
	store cache.Store
	inv   *CacheInvalidator
	ttl   time.Duration
	log   *zap.Logger
	now   Clock
}

func NewMealLogService(d Deps, ttl time.Duration) *MealLogService {
	d = d.withDefaults()
	if ttl <= 0 {
		ttl = DefaultMealLogsTTL
	}
	return &MealLogService{repos: d.Repos, uow: d.UoW, store: d.Cache, inv: d.Invalidator, ttl: ttl, log: d.Log, now: d.Clock}
}

type MealLogView struct {
	ID            uint            `json:"id"`
	MealName      string          `json:"mealName"`
	MealType      models.MealType `json:"mealType"`
	TotalCalories float64         `json:"totalCalories"`
	FatGrams      float64         `json:"fatGrams"`
	ProteinGrams  float64         `json:"proteinGrams"`
	CarbsGrams    float64         `json:"carbsGrams"`
	LoggedAt      time.Time       `json:"loggedAt"`
}

func mealLogView(m models.MealLog) MealLogView {
	return MealLogView{
		ID:            m.ID,
		MealName:      m.MealName,
		MealType:      m.MealType,
		TotalCalories: m.TotalCalories,
		FatGrams:      m.FatGrams,
		ProteinGrams:  m.ProteinGrams,
		CarbsGrams:    m.CarbsGrams,
		LoggedAt:      m.LoggedAt,
	}
}

type MealLogInput struct {
	MealName      *string    `json:"mealName"`
	MealType      string     `json:"mealType"`
	TotalCalories *float64   `json:"totalCalories"`
	FatGrams      *float64   `json:"fatGrams"`
	ProteinGrams  *float64   `json:"proteinGrams"`
	CarbsGrams    *float64   `json:"carbsGrams"`
	LoggedAt      *time.Time `json:"loggedAt"`
}

func (in MealLogInput) nutrition() NutritionInput {
	return NutritionInput{Calories: in.TotalCalories, Fat: in.FatGrams, Protein: in.ProteinGrams, Carbs: in.CarbsGrams}
}

func (in MealLogInput) validate() (models.MealType, error) {
	for name, v := range map[string]*float64{
		"totalCalories": in.TotalCalories,
		"fatGrams":      in.FatGrams,
		"proteinGrams":  in.ProteinGrams,
		"carbsGrams":    in.CarbsGrams,
	} {
		if v != nil && (*v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return "", fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidInput, name)
		}
	}
	if in.MealType == "" {
		return "", nil
	}
	mt, ok := models.ParseMealType(in.MealType)
	if !ok {
		return "", fmt.Errorf("%w: unknown mealType %q", ErrInvalidInput, in.MealType)
	}
	return mt, nil
}

func applyNutrition(m *models.MealLog, n Nutrition) {
	m.TotalCalories, m.FatGrams, m.ProteinGrams, m.CarbsGrams = n.Calories, n.Fat, n.Protein, n.Carbs
}

func (s *MealLogService) Create(ctx context.Context, userID uint, in MealLogInput) (*MealLogView, error) {
	mealType, err := in.validate()
	if err != nil {
		return nil, err
	}
	if in.MealName == nil || strings.TrimSpace(*in.MealName) == "" {
		return nil, fmt.Errorf("%w: mealName is required", ErrInvalidInput)
	}
	if mealType == "" {
		mealType = models.Snack
	}

	m := models.MealLog{
		UserID:   userID,
		MealName: strings.TrimSpace(*in.MealName),
		MealType: mealType,
		LoggedAt: localize(s.now(), in.LoggedAt),
	}
	applyNutrition(&m, ResolveNutrition(in.nutrition()))

	err = s.uow.Do(ctx, func(tx Repositories) error {
		if err := requireUser(ctx, tx.Users, userID); err != nil {
			return err
		}
		return tx.MealLogs.Create(ctx, &m)
	})
	if err != nil {
		return nil, fmt.Errorf("create meal log: %w", err)
	}
	s.inv.MealLogChanged(ctx, userID, m.LoggedAt)

	v := mealLogView(m)
	return &v, nil
}

// ParseDay reads a ?date= value in the service's zone; "" is today.
func (s *MealLogService) ParseDay(v string) (time.Time, error) { return parseDay(v, s.now) }

// ListByDate returns one calendar day's meals, oldest first. Listings are
// cached per day.
func (s *MealLogService) ListByDate(ctx context.Context, userID uint, day time.Time) ([]MealLogView, error) {
	day = day.In(s.now().Location())
	key := cache.MealLogsKey(userID, day)
	if v, ok := cachedValue[[]MealLogView](ctx, s.store, key, s.log); ok {
		return v, nil
	}

	from, to := DayWindow(day)
	rows, err := s.repos.MealLogs.ByUserAndDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list meal logs: %w", err)
	}
	out := make([]MealLogView, 0, len(rows))
	for _, m := range rows {
		out = append(out, mealLogView(m))
	}
	storeValue(ctx, s.store, key, out, s.ttl, s.log)
	return out, nil
}

func ownedMealLog(ctx context.Context, tx Repositories, userID, mealLogID uint) (*models.MealLog, error) {
	if err := requireUser(ctx, tx.Users, userID); err != nil {
		return nil, err
	}
	m, err := tx.MealLogs.FindByID(ctx, mealLogID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("meal log %d: %w", mealLogID, ErrNotFound)
	}
	if m.UserID != userID {
		return nil, fmt.Errorf("meal log %d: %w", mealLogID, ErrForbidden)
	}
	return m, nil
}

// Update changes only what the input carries. Nutrition is re-resolved from
// the input when any nutrition field is present.
func (s *MealLogService) Update(ctx context.Context, userID, mealLogID uint, in MealLogInput) (*MealLogView, error) {
	mealType, err := in.validate()
	if err != nil {
		return nil, err
	}
	var saved models.MealLog
	var previousDay time.Time
	err = s.uow.Do(ctx, func(tx Repositories) error {
		m, err := ownedMealLog(ctx, tx, userID, mealLogID)
		if err != nil {
			return err
		}
		previousDay = m.LoggedAt
		if in.MealName != nil && strings.TrimSpace(*in.MealName) != "" {
			m.MealName = strings.TrimSpace(*in.MealName)
		}
		if mealType != "" {
			m.MealType = mealType
		}
		if n := in.nutrition(); !n.empty() {
			applyNutrition(m, ResolveNutrition(n))
		}
		if in.LoggedAt != nil {
			m.LoggedAt = localize(s.now(), in.LoggedAt)
		}
		if err := tx.MealLogs.Update(ctx, m); err != nil {
			return err
		}
		saved = *m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update meal log: %w", err)
	}
	s.inv.MealLogChanged(ctx, userID, previousDay, saved.LoggedAt)

	v := mealLogView(saved)
	return &v, nil
}

func (s *MealLogService) Delete(ctx context.Context, userID, mealLogID uint) error {
	var loggedAt time.Time
	err := s.uow.Do(ctx, func(tx Repositories) error {
		m, err := ownedMealLog(ctx, tx, userID, mealLogID)
		if err != nil {
			return err
		}
		loggedAt = m.LoggedAt
		return tx.MealLogs.Delete(ctx, m)
	})
	if err != nil {
		return fmt.Errorf("delete meal log: %w", err)
	}
	s.inv.MealLogChanged(ctx, userID, loggedAt)
	return nil
}
