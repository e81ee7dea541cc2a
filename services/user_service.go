package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/healthtrack/backend/cache"
	"github.com/healthtrack/backend/logging"
	"github.com/healthtrack/backend/models"
	"github.com/healthtrack/backend/utils"
	"go.uber.org/zap"
)

const DefaultUserTTL = 30 * time.Minute

// Accepted body-metric ranges for profile updates.
const (
	minHeightCm = 100.0
	maxHeightCm = 250.0
	minWeightKg = 30.0
	maxWeightKg = 300.0
)

// AvatarUploader stores an uploaded image and returns its public URL.
type AvatarUploader interface {
	UploadAvatar(ctx context.Context, userID uint, dataURL string) (string, error)
}

// UserService owns profiles, goals and menstrual cycles.
type UserService struct {
	repos    Repositories
	uow      UnitOfWork
	store    cache.Store
	inv      *CacheInvalidator
	uploader AvatarUploader
	ttl      time.Duration
	log      *zap.Logger
	now      Clock
}

// NewUserService wires the service; uploader may be nil, in which case
// inline avatar images are rejected.
func NewUserService(d Deps, ttl time.Duration, uploader AvatarUploader) *UserService {
	d = d.withDefaults()
	if ttl <= 0 {
		ttl = DefaultUserTTL
	}
	return &UserService{
		repos:    d.Repos,
		uow:      d.UoW,
		store:    d.Cache,
		inv:      d.Invalidator,
		uploader: uploader,
		ttl:      ttl,
		log:      d.Log,
		now:      d.Clock,
	}
}

// ---------- Profile ----------

type ProfileView struct {
	UserID      uint     `json:"userId"`
	FullName    string   `json:"fullName"`
	Email       string   `json:"email"`
	Exists      bool     `json:"exists"`
	DateOfBirth *string  `json:"dateOfBirth"`
	Age         *int     `json:"age"`
	HeightCm    *float64 `json:"heightCm"`
	WeightKg    *float64 `json:"weightKg"`
	Gender      string   `json:"gender"`
	Avatar      string   `json:"avatar"`
	BMI         *float64 `json:"bmi"`
	BMICategory string   `json:"bmiCategory,omitempty"`
}

type ProfileInput struct {
	DateOfBirth string   `json:"dateOfBirth"` // YYYY-MM-DD
	HeightCm    *float64 `json:"heightCm"`
	WeightKg    *float64 `json:"weightKg"`
	Gender      string   `json:"gender"`
	Avatar      string   `json:"avatar"` // URL, or a data: URL to upload
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*ProfileView, error) {
	key := cache.ProfileKey(userID)
	if v, ok := cachedValue[ProfileView](ctx, s.store, key, s.log); ok {
		return &v, nil
	}

	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	p, err := s.repos.Profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	v := s.profileView(user, p)
	storeValue(ctx, s.store, key, v, s.ttl, s.log)
	return &v, nil
}

func (s *UserService) profileView(u *models.User, p *models.UserProfile) ProfileView {
	v := ProfileView{UserID: u.ID, FullName: u.FullName, Email: u.Email}
	if p == nil {
		return v
	}
	v.Exists = true
	v.HeightCm, v.WeightKg = p.HeightCm, p.WeightKg
	v.Gender, v.Avatar = p.Gender, p.Avatar
	if p.DateOfBirth != nil {
		dob := p.DateOfBirth.Format(utils.DateLayout)
		age := models.AgeAt(*p.DateOfBirth, s.now())
		v.DateOfBirth, v.Age = &dob, &age
	}
	if bmi, category, ok := utils.BMIOf(p.HeightCm, p.WeightKg); ok {
		v.BMI, v.BMICategory = &bmi, category
	}
	return v
}

func (s *UserService) validateProfile(in ProfileInput) (time.Time, error) {
	var problems []string
	if in.HeightCm == nil || *in.HeightCm < minHeightCm || *in.HeightCm > maxHeightCm {
		problems = append(problems, fmt.Sprintf("heightCm must be between %.0f and %.0f", minHeightCm, maxHeightCm))
	}
	if in.WeightKg == nil || *in.WeightKg < minWeightKg || *in.WeightKg > maxWeightKg {
		problems = append(problems, fmt.Sprintf("weightKg must be between %.0f and %.0f", minWeightKg, maxWeightKg))
	}
	if strings.TrimSpace(in.Gender) == "" {
		problems = append(problems, "gender is required")
	}
	var dob time.Time
	if in.DateOfBirth == "" {
		problems = append(problems, "dateOfBirth is required")
	} else {
		var err error
		dob, err = time.ParseInLocation(utils.DateLayout, in.DateOfBirth, s.now().Location())
		if err != nil {
			problems = append(problems, "dateOfBirth must be YYYY-MM-DD")
		} else if dob.After(s.now()) {
			problems = append(problems, "dateOfBirth is in the future")
		}
	}
	if len(problems) > 0 {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}
	return dob, nil
}

// UpdateProfile upserts the profile and, when the user already has goals,
// recalculates the calorie goal from the new metrics in the same transaction.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*ProfileView, error) {
	dob, err := s.validateProfile(in)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.repos.Users, userID); err != nil {
		return nil, err
	}

	avatar := in.Avatar
	if strings.HasPrefix(avatar, "data:") {
		if s.uploader == nil {
			return nil, fmt.Errorf("%w: avatar uploads are not configured", ErrInvalidInput)
		}
		if avatar, err = s.uploader.UploadAvatar(ctx, userID, avatar); err != nil {
			return nil, fmt.Errorf("upload avatar: %w", err)
		}
	}

	err = s.uow.Do(ctx, func(tx Repositories) error {
		p, err := tx.Profiles.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if p == nil {
			p = &models.UserProfile{UserID: userID}
		}
		p.DateOfBirth = &dob
		p.HeightCm, p.WeightKg = in.HeightCm, in.WeightKg
		p.Gender = strings.TrimSpace(in.Gender)
		if avatar != "" {
			p.Avatar = avatar
		}
		if err := tx.Profiles.Save(ctx, p); err != nil {
			return err
		}

		g, err := tx.Goals.FindByUserID(ctx, userID)
		if err != nil || g == nil {
			return err
		}
		calories, formula, err := CalorieGoalFor(p, g.ActivityLevel, s.now)
		if err != nil {
			return err
		}
		s.logFormula(ctx, userID, p.Gender, formula)
		g.DailyCaloriesGoal = calories
		return tx.Goals.Save(ctx, g)
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.inv.ProfileChanged(ctx, userID)

	return s.GetProfile(ctx, userID)
}

// ---------- Goals ----------

type GoalView struct {
	models.UserGoal
	SleepGoalHours float64 `json:"sleepGoalHours"`
	// Exists is false when the user never saved goals and defaults are shown.
	Exists bool `json:"exists"`
}

type GoalInput struct {
	DailyStepsGoal *int    `json:"dailyStepsGoal"`
	Bedtime        *string `json:"bedtime"` // HH:MM
	Wakeup         *string `json:"wakeup"`  // HH:MM
	ActivityLevel  string  `json:"activityLevel"`
}

// GetGoal returns the stored goal, or the defaults when none exists. Only
// stored goals are cached.
func (s *UserService) GetGoal(ctx context.Context, userID uint) (*GoalView, error) {
	key := cache.GoalKey(userID)
	if v, ok := cachedValue[GoalView](ctx, s.store, key, s.log); ok {
		return &v, nil
	}

	g, err := s.repos.Goals.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load goal: %w", err)
	}
	if g == nil {
		def := models.DefaultUserGoal()
		def.UserID = userID
		return &GoalView{UserGoal: def, SleepGoalHours: def.SleepGoalHours()}, nil
	}

	v := GoalView{UserGoal: *g, SleepGoalHours: g.SleepGoalHours(), Exists: true}
	storeValue(ctx, s.store, key, v, s.ttl, s.log)
	return &v, nil
}

func validateGoal(in GoalInput) (models.ActivityLevel, error) {
	level := models.ActivityLevel(strings.ToUpper(strings.TrimSpace(in.ActivityLevel)))
	if _, ok := level.Multiplier(); !ok {
		return "", fmt.Errorf("%w: activityLevel must be one of SEDENTARY, LIGHTLY_ACTIVE, MODERATELY_ACTIVE, VERY_ACTIVE, EXTRA_ACTIVE", ErrInvalidInput)
	}
	if in.DailyStepsGoal != nil && *in.DailyStepsGoal <= 0 {
		return "", fmt.Errorf("%w: dailyStepsGoal must be positive", ErrInvalidInput)
	}
	for name, v := range map[string]*string{"bedtime": in.Bedtime, "wakeup": in.Wakeup} {
		if v == nil {
			continue
		}
		if _, err := models.ParseClock(*v); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrInvalidInput, name, err)
		}
	}
	return level, nil
}

// UpdateGoal recalculates the whole goal from the profile and the input. It
// fails with ErrProfileNotFound or ErrProfileIncomplete when the calorie goal
// cannot be computed.
func (s *UserService) UpdateGoal(ctx context.Context, userID uint, in GoalInput) (*GoalView, error) {
	level, err := validateGoal(in)
	if err != nil {
		return nil, err
	}
	var saved models.UserGoal
	err = s.uow.Do(ctx, func(tx Repositories) error {
		p, err := tx.Profiles.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}
		calories, formula, err := CalorieGoalFor(p, level, s.now)
		if err != nil {
			return err
		}
		s.logFormula(ctx, userID, p.Gender, formula)

		g, err := tx.Goals.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if g == nil {
			g = &models.UserGoal{UserID: userID}
		}
		g.DailyStepsGoal = models.DefaultDailyStepsGoal
		if in.DailyStepsGoal != nil {
			g.DailyStepsGoal = *in.DailyStepsGoal
		}
		g.Bedtime, g.Wakeup = in.Bedtime, in.Wakeup
		g.ActivityLevel = level
		g.DailyCaloriesGoal = calories
		if err := tx.Goals.Save(ctx, g); err != nil {
			return err
		}
		saved = *g
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	s.inv.GoalChanged(ctx, userID)

	return &GoalView{UserGoal: saved, SleepGoalHours: saved.SleepGoalHours(), Exists: true}, nil
}

func (s *UserService) logFormula(ctx context.Context, userID uint, gender string, f BMRFormula) {
	if f != FormulaFemaleDefault {
		return
	}
	logging.For(ctx, s.log).Warn("unrecognised gender, BMR defaulted to female formula",
		zap.Uint("user_id", userID), zap.String("gender", gender))
}

// ---------- Menstrual cycle ----------

type CycleInput struct {
	StartDate string  `json:"startDate"`         // YYYY-MM-DD
	EndDate   *string `json:"endDate,omitempty"` // defaults to start + 5 days
}

func (s *UserService) parseCycle(in CycleInput) (start, end time.Time, err error) {
	loc := s.now().Location()
	start, err = time.ParseInLocation(utils.DateLayout, in.StartDate, loc)
	if err != nil {
		return start, end, fmt.Errorf("%w: startDate must be YYYY-MM-DD", ErrInvalidInput)
	}
	if in.EndDate == nil || *in.EndDate == "" {
		return start, start.AddDate(0, 0, models.DefaultPeriodLength), nil
	}
	end, err = time.ParseInLocation(utils.DateLayout, *in.EndDate, loc)
	if err != nil {
		return start, end, fmt.Errorf("%w: endDate must be YYYY-MM-DD", ErrInvalidInput)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}
	return start, end, nil
}

// CreateCycle records a new cycle.
func (s *UserService) CreateCycle(ctx context.Context, userID uint, in CycleInput) (*models.MenstrualCycle, error) {
	return s.saveCycle(ctx, userID, in, false)
}

// UpdateCycle overwrites the latest cycle, creating one if none exists.
func (s *UserService) UpdateCycle(ctx context.Context, userID uint, in CycleInput) (*models.MenstrualCycle, error) {
	return s.saveCycle(ctx, userID, in, true)
}

func (s *UserService) saveCycle(ctx context.Context, userID uint, in CycleInput, latest bool) (*models.MenstrualCycle, error) {
	start, end, err := s.parseCycle(in)
	if err != nil {
		return nil, err
	}
	var saved models.MenstrualCycle
	err = s.uow.Do(ctx, func(tx Repositories) error {
		if err := requireUser(ctx, tx.Users, userID); err != nil {
			return err
		}
		c := &models.MenstrualCycle{UserID: userID}
		if latest {
			existing, err := tx.Cycles.LatestByUser(ctx, userID)
			if err != nil {
				return err
			}
			if existing != nil {
				c = existing
			}
		}
		c.StartDate, c.EndDate = &start, &end
		if err := tx.Cycles.Save(ctx, c); err != nil {
			return err
		}
		saved = *c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save cycle: %w", err)
	}
	s.inv.CycleChanged(ctx, userID)
	return &saved, nil
}
