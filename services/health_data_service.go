package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/healthtrack/backend/models"
)

type HealthDataService struct {
	repos Repositories
	uow   UnitOfWork
	inv   *CacheInvalidator
	now   Clock
}

func NewHealthDataService(d Deps) *HealthDataService {
	d = d.withDefaults()
	return &HealthDataService{repos: d.Repos, uow: d.UoW, inv: d.Invalidator, now: d.Clock}
}

type HealthDataView struct {
	ID         uint              `json:"id"`
	MetricType models.MetricType `json:"metricType"`
	Value      float64           `json:"value"`
	Unit       string            `json:"unit"`
	RecordedAt time.Time         `json:"recordedAt"`
}

func healthDataView(e models.HealthDataEntry) HealthDataView {
	return HealthDataView{ID: e.ID, MetricType: e.MetricType, Value: e.Value, Unit: e.Unit, RecordedAt: e.RecordedAt}
}

func healthDataViews(es []models.HealthDataEntry) []HealthDataView {
	out := make([]HealthDataView, 0, len(es))
	for _, e := range es {
		out = append(out, healthDataView(e))
	}
	return out
}

// HealthDataInput is used for create (MetricType and Value required) and for
// partial update (nil or empty fields are left alone).
type HealthDataInput struct {
	MetricType string     `json:"metricType"`
	Value      *float64   `json:"value"`
	Unit       *string    `json:"unit"`
	RecordedAt *time.Time `json:"recordedAt"`
}

func checkValue(v *float64) error {
	if v != nil && (*v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0)) {
		return fmt.Errorf("%w: value must be a non-negative number", ErrInvalidInput)
	}
	return nil
}

func (s *HealthDataService) Create(ctx context.Context, userID uint, in HealthDataInput) (*HealthDataView, error) {
	metric, ok := models.ParseMetricType(in.MetricType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown metricType %q", ErrInvalidInput, in.MetricType)
	}
	if in.Value == nil {
		return nil, fmt.Errorf("%w: value is required", ErrInvalidInput)
	}
	if err := checkValue(in.Value); err != nil {
		return nil, err
	}

	e := models.HealthDataEntry{UserID: userID, MetricType: metric, Value: *in.Value}
	if in.Unit != nil {
		e.Unit = strings.TrimSpace(*in.Unit)
	}
	e.RecordedAt = localize(s.now(), in.RecordedAt)

	err := s.uow.Do(ctx, func(tx Repositories) error {
		if err := requireUser(ctx, tx.Users, userID); err != nil {
			return err
		}
		return tx.HealthData.Create(ctx, &e)
	})
	if err != nil {
		return nil, fmt.Errorf("create health data: %w", err)
	}
	s.inv.HealthDataChanged(ctx, userID)

	v := healthDataView(e)
	return &v, nil
}

// List returns the user's entries newest first, optionally limited to one
// calendar day and one metric.
func (s *HealthDataService) List(ctx context.Context, userID uint, day *time.Time, metric string) ([]HealthDataView, error) {
	f := HealthDataFilter{UserID: userID}
	if metric != "" {
		m, ok := models.ParseMetricType(metric)
		if !ok {
			return nil, fmt.Errorf("%w: unknown metricType %q", ErrInvalidInput, metric)
		}
		f.Metric = m
	}
	if day != nil {
		f.From, f.To = DayWindow(*day)
	}
	es, err := s.repos.HealthData.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list health data: %w", err)
	}
	return healthDataViews(es), nil
}

// ParseDay reads a ?date= value in the service's zone; "" is today.
func (s *HealthDataService) ParseDay(v string) (time.Time, error) { return parseDay(v, s.now) }

func (s *HealthDataService) Today(ctx context.Context, userID uint) ([]HealthDataView, error) {
	today := s.now()
	return s.List(ctx, userID, &today, "")
}

// Weekly lists the last seven calendar days, today included.
func (s *HealthDataService) Weekly(ctx context.Context, userID uint, metric string) ([]HealthDataView, error) {
	f := HealthDataFilter{UserID: userID}
	if metric != "" {
		m, ok := models.ParseMetricType(metric)
		if !ok {
			return nil, fmt.Errorf("%w: unknown metricType %q", ErrInvalidInput, metric)
		}
		f.Metric = m
	}
	f.From, f.To = LastDays(s.now(), WeeklyListingDays)
	es, err := s.repos.HealthData.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list weekly health data: %w", err)
	}
	return healthDataViews(es), nil
}

// ownedEntry loads an entry, distinguishing missing from someone else's.
func ownedEntry(ctx context.Context, repo HealthDataRepository, userID, entryID uint) (*models.HealthDataEntry, error) {
	e, err := repo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("health data entry %d: %w", entryID, ErrNotFound)
	}
	if e.UserID != userID {
		return nil, fmt.Errorf("health data entry %d: %w", entryID, ErrForbidden)
	}
	return e, nil
}

func (s *HealthDataService) Update(ctx context.Context, userID, entryID uint, in HealthDataInput) (*HealthDataView, error) {
	var metric models.MetricType
	if in.MetricType != "" {
		m, ok := models.ParseMetricType(in.MetricType)
		if !ok {
			return nil, fmt.Errorf("%w: unknown metricType %q", ErrInvalidInput, in.MetricType)
		}
		metric = m
	}
	if err := checkValue(in.Value); err != nil {
		return nil, err
	}

	var saved models.HealthDataEntry
	err := s.uow.Do(ctx, func(tx Repositories) error {
		e, err := ownedEntry(ctx, tx.HealthData, userID, entryID)
		if err != nil {
			return err
		}
		if metric != "" {
			e.MetricType = metric
		}
		if in.Value != nil {
			e.Value = *in.Value
		}
		if in.Unit != nil {
			e.Unit = strings.TrimSpace(*in.Unit)
		}
		if in.RecordedAt != nil {
			e.RecordedAt = localize(s.now(), in.RecordedAt)
		}
		if err := tx.HealthData.Update(ctx, e); err != nil {
			return err
		}
		saved = *e
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update health data: %w", err)
	}
	s.inv.HealthDataChanged(ctx, userID)

	v := healthDataView(saved)
	return &v, nil
}

func (s *HealthDataService) Delete(ctx context.Context, userID, entryID uint) error {
	err := s.uow.Do(ctx, func(tx Repositories) error {
		e, err := ownedEntry(ctx, tx.HealthData, userID, entryID)
		if err != nil {
			return err
		}
		return tx.HealthData.Delete(ctx, e)
	})
	if err != nil {
		return fmt.Errorf("delete health data: %w", err)
	}
	s.inv.HealthDataChanged(ctx, userID)
	return nil
}
