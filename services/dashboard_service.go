package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/healthtrack/backend/cache"
	"github.com/healthtrack/backend/logging"
	"github.com/healthtrack/backend/models"
	"github.com/healthtrack/backend/utils"
	"go.uber.org/zap"
)

const (
	DefaultDashboardTTL = 10 * time.Minute
	// cycleLength is the assumed days from one period's end to the next start.
	cycleLength   = 28
	uncategorized = "Uncategorized"
	noCycleDate   = "none"
)

var weeklyMetrics = []models.MetricType{
	models.Steps,
	models.WaterIntake,
	models.WorkoutDuration,
	models.SleepDuration,
}

type DashboardService struct {
	repos Repositories
	store cache.Store
	ttl   time.Duration
	log   *zap.Logger
	now   Clock
}

func NewDashboardService(d Deps, ttl time.Duration) *DashboardService {
	d = d.withDefaults()
	if ttl <= 0 {
		ttl = DefaultDashboardTTL
	}
	return &DashboardService{repos: d.Repos, store: d.Cache, ttl: ttl, log: d.Log, now: d.Clock}
}

// GetDashboard serves the cached view when present and otherwise computes,
// caches and returns it. Any repository or cache failure is returned as is;
// nothing partial is cached.
func (s *DashboardService) GetDashboard(ctx context.Context, userID uint) (*models.Dashboard, error) {
	log := logging.For(ctx, s.log).With(zap.Uint("user_id", userID))
	key := cache.DashboardKey(userID)

	cached, ok, err := cache.GetTyped[models.Dashboard](ctx, s.store, key)
	switch {
	case errors.Is(err, cache.ErrCorrupt):
		log.Warn("discarding unreadable dashboard cache entry", zap.Error(err))
	case err != nil:
		return nil, fmt.Errorf("read dashboard cache: %w", err)
	case ok:
		log.Debug("dashboard cache hit")
		return &cached, nil
	}
	log.Debug("dashboard cache miss")

	d, err := s.compute(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := cache.SetTyped(ctx, s.store, key, *d, s.ttl); err != nil {
		return nil, fmt.Errorf("store dashboard cache: %w", err)
	}
	return d, nil
}

func (s *DashboardService) compute(ctx context.Context, userID uint) (*models.Dashboard, error) {
	now := s.now()

	goal, err := s.goalOrDefault(ctx, userID)
	if err != nil {
		return nil, err
	}

	score, err := s.healthScore(ctx, userID, goal, now)
	if err != nil {
		return nil, err
	}
	steps, err := s.steps(ctx, userID, goal, now)
	if err != nil {
		return nil, err
	}
	cycle, err := s.cycle(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	sleep, err := s.sleep(ctx, userID, goal, now)
	if err != nil {
		return nil, err
	}
	nutrition, err := s.nutrition(ctx, userID, goal, now)
	if err != nil {
		return nil, err
	}
	weekly, err := s.weeklyReport(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	blogs, err := s.blogs(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Dashboard{
		HealthScore: score,
		Highlights: models.Highlights{
			Steps:         steps,
			CycleTracking: cycle,
			Sleep:         sleep,
			Nutrition:     nutrition,
		},
		WeeklyReport: weekly,
		Blogs:        blogs,
	}, nil
}

func (s *DashboardService) goalOrDefault(ctx context.Context, userID uint) (models.UserGoal, error) {
	g, err := s.repos.Goals.FindByUserID(ctx, userID)
	if err != nil {
		return models.UserGoal{}, fmt.Errorf("load goal: %w", err)
	}
	if g == nil {
		return models.DefaultUserGoal(), nil
	}
	return *g, nil
}

func (s *DashboardService) healthScore(ctx context.Context, userID uint, goal models.UserGoal, now time.Time) (models.HealthScore, error) {
	entries, err := s.repos.HealthData.RecentForScore(ctx, userID, ScoredMetrics, now.Add(-ScoreLookback))
	if err != nil {
		return models.HealthScore{}, fmt.Errorf("load recent health data: %w", err)
	}
	return healthScoreFor(entries, goal), nil
}

func (s *DashboardService) steps(ctx context.Context, userID uint, goal models.UserGoal, now time.Time) (models.StepsHighlight, error) {
	from, to := DayWindow(now)
	e, err := s.repos.HealthData.LatestInWindow(ctx, userID, models.Steps, from, to)
	if err != nil {
		return models.StepsHighlight{}, fmt.Errorf("load today's steps: %w", err)
	}
	h := models.StepsHighlight{Goal: goal.DailyStepsGoal, LastUpdated: utils.NoData}
	if e != nil {
		h.Value = int(e.Value)
		h.LastUpdated = utils.FormatLastUpdated(e.RecordedAt, now)
	}
	h.Percentage = pct(float64(h.Value), float64(h.Goal))
	return h, nil
}

func (s *DashboardService) sleep(ctx context.Context, userID uint, goal models.UserGoal, now time.Time) (models.SleepHighlight, error) {
	e, err := s.repos.HealthData.LatestSince(ctx, userID, models.SleepDuration, now.Add(-SleepLookback))
	if err != nil {
		return models.SleepHighlight{}, fmt.Errorf("load recent sleep: %w", err)
	}
	h := models.SleepHighlight{Goal: goal.SleepGoalHours(), LastUpdated: utils.NoData}
	if e != nil {
		h.Hours = e.Value
		h.LastUpdated = utils.FormatLastUpdated(e.RecordedAt, now)
	}
	h.Formatted = utils.FormatSleepDuration(h.Hours)
	h.Percentage = pct(h.Hours, h.Goal)
	return h, nil
}

func (s *DashboardService) nutrition(ctx context.Context, userID uint, goal models.UserGoal, now time.Time) (models.NutritionHighlight, error) {
	from, to := DayWindow(now)
	agg, err := s.repos.MealLogs.DailyTotalAndLastUpdate(ctx, userID, from, to)
	if err != nil {
		return models.NutritionHighlight{}, fmt.Errorf("aggregate today's meals: %w", err)
	}
	rows, err := s.repos.MealLogs.ByUserAndDateRange(ctx, userID, from, to)
	if err != nil {
		return models.NutritionHighlight{}, fmt.Errorf("list today's meals: %w", err)
	}
	daily := ReconcileNutrition(agg, rows, now.Location())

	h := models.NutritionHighlight{
		TotalKcal:   daily.TotalKcal,
		Goal:        goal.DailyCaloriesGoal,
		LastUpdated: utils.NoData,
	}
	if daily.LastLoggedAt != nil {
		h.LastUpdated = utils.FormatLastUpdated(*daily.LastLoggedAt, now)
	}
	h.Percentage = pct(float64(h.TotalKcal), float64(h.Goal))
	return h, nil
}

func (s *DashboardService) cycle(ctx context.Context, userID uint, now time.Time) (models.CycleHighlight, error) {
	c, err := s.repos.Cycles.LatestByUser(ctx, userID)
	if err != nil {
		return models.CycleHighlight{}, fmt.Errorf("load latest cycle: %w", err)
	}
	return ProjectCycle(c, now), nil
}

// ProjectCycle predicts the next cycle as the period end (recorded, or start
// plus the default period length) plus 28 days.
func ProjectCycle(c *models.MenstrualCycle, now time.Time) models.CycleHighlight {
	if c == nil || c.StartDate == nil {
		return models.CycleHighlight{
			Status:        utils.NoData,
			LastCycleDate: noCycleDate,
			NextCycleDate: noCycleDate,
		}
	}
	next := c.EndDateOrDefault().AddDate(0, 0, cycleLength)
	days := CivilDaysBetween(now, next)

	status := "due now"
	if days > 0 {
		status = fmt.Sprintf("next cycle in %d days", days)
	}
	return models.CycleHighlight{
		Status:        status,
		LastCycleDate: c.StartDate.Format(utils.DateLayout),
		NextCycleDate: next.Format(utils.DateLayout),
		DaysRemaining: days,
	}
}

func (s *DashboardService) weeklyReport(ctx context.Context, userID uint, now time.Time) (models.WeeklyReport, error) {
	totals, err := s.repos.HealthData.WeeklyTotals(ctx, userID, WeekStart(now), weeklyMetrics)
	if err != nil {
		return models.WeeklyReport{}, fmt.Errorf("load weekly totals: %w", err)
	}
	var r models.WeeklyReport
	for _, t := range totals {
		v := parseNumber(t.Total)
		switch t.MetricType {
		case models.Steps:
			r.TotalSteps = int(v)
		case models.WaterIntake:
			r.TotalWater = v
		case models.WorkoutDuration:
			r.TotalWorkoutDuration = v
		case models.SleepDuration:
			r.TotalSleepDuration = v
		}
	}
	r.FormattedWorkoutDuration = utils.FormatWorkoutDuration(r.TotalWorkoutDuration)
	r.FormattedSleepDuration = utils.FormatSleepDuration(r.TotalSleepDuration)
	return r, nil
}

func (s *DashboardService) blogs(ctx context.Context) ([]models.BlogCard, error) {
	articles, err := s.repos.Articles.Top2ByPublishedDesc(ctx)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	out := make([]models.BlogCard, 0, len(articles))
	for _, a := range articles {
		category := uncategorized
		if a.Category != nil {
			category = a.Category.Name
		}
		out = append(out, models.BlogCard{
			ID:           a.ID,
			Title:        a.Title,
			CategoryName: category,
			VoteCount:    a.VoteCount,
			PublishedAt:  a.PublishedAt,
		})
	}
	return out, nil
}
