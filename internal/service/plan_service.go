package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/digkill/contos-diarios/internal/models"
	"github.com/digkill/contos-diarios/internal/repository"
)

type PlanService struct {
	log        *slog.Logger
	plans      *repository.PlanRepository
	thirtyDays *repository.ThirtyDayRepository
	locks      *UserLocks
	now        func() time.Time
}

func NewPlanService(log *slog.Logger, plans *repository.PlanRepository, thirtyDays *repository.ThirtyDayRepository, locks *UserLocks) *PlanService {
	return &PlanService{
		log:        log,
		plans:      plans,
		thirtyDays: thirtyDays,
		locks:      locks,
		now:        time.Now,
	}
}

// Load returns the user's plan after applying the monthly rollover, with the
// thirty-day state attached when a run exists.
func (s *PlanService) Load(ctx context.Context, userID string) (models.PlanRecord, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.load(ctx, userID)
}

func (s *PlanService) load(ctx context.Context, userID string) (models.PlanRecord, error) {
	plan, err := s.loadPlan(ctx, userID)
	if err != nil {
		return models.PlanRecord{}, err
	}
	state, err := s.thirtyDays.Get(ctx, userID)
	if err != nil {
		return models.PlanRecord{}, err
	}
	plan.ThirtyDayMode = state
	return plan, nil
}

// loadPlan reads the plan record, creating or rolling it over as needed.
// Callers hold the user's lock.
func (s *PlanService) loadPlan(ctx context.Context, userID string) (models.PlanRecord, error) {
	now := s.now()
	stored, err := s.plans.Get(ctx, userID)
	if err != nil {
		return models.PlanRecord{}, err
	}
	if stored == nil {
		plan := models.DefaultPlan(now)
		if err := s.plans.Save(ctx, userID, plan); err != nil {
			return models.PlanRecord{}, err
		}
		return plan, nil
	}

	plan := *stored
	today := models.Date(now)
	if models.MonthOf(today) != models.MonthOf(plan.LastResetDate) {
		s.log.Info("monthly counter reset", "user", repository.Scope(userID), "previous", plan.LastResetDate, "generated", plan.StoriesGeneratedThisMonth)
		plan.StoriesGeneratedThisMonth = 0
		plan.LastResetDate = today
		if err := s.plans.Save(ctx, userID, plan); err != nil {
			return models.PlanRecord{}, err
		}
	}
	return plan, nil
}

func (s *PlanService) UpgradeToPremium(ctx context.Context, userID string) (models.PlanRecord, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	plan, err := s.loadPlan(ctx, userID)
	if err != nil {
		return models.PlanRecord{}, err
	}
	plan.Type = models.PlanPremium
	if err := s.plans.Save(ctx, userID, plan); err != nil {
		return models.PlanRecord{}, fmt.Errorf("upgrade plan: %w", err)
	}
	s.log.Info("plan upgraded", "user", repository.Scope(userID))
	return s.load(ctx, userID)
}

// DowngradeToFree switches the user to the free plan and ends any thirty-day run.
func (s *PlanService) DowngradeToFree(ctx context.Context, userID string) (models.PlanRecord, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	plan, err := s.loadPlan(ctx, userID)
	if err != nil {
		return models.PlanRecord{}, err
	}
	plan.Type = models.PlanFree
	if err := s.plans.Save(ctx, userID, plan); err != nil {
		return models.PlanRecord{}, fmt.Errorf("downgrade plan: %w", err)
	}
	if err := s.thirtyDays.Delete(ctx, userID); err != nil {
		return models.PlanRecord{}, fmt.Errorf("downgrade plan: %w", err)
	}
	s.log.Info("plan downgraded", "user", repository.Scope(userID))
	return plan, nil
}

// IncrementStoryCount records one successful generation against the quota.
func (s *PlanService) IncrementStoryCount(ctx context.Context, userID string) (models.PlanRecord, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	plan, err := s.loadPlan(ctx, userID)
	if err != nil {
		return models.PlanRecord{}, err
	}
	plan.StoriesGeneratedThisMonth++
	if err := s.plans.Save(ctx, userID, plan); err != nil {
		return models.PlanRecord{}, fmt.Errorf("increment story count: %w", err)
	}
	return plan, nil
}

func (s *PlanService) CanGenerateStory(ctx context.Context, userID string) (bool, error) {
	plan, err := s.Load(ctx, userID)
	if err != nil {
		return false, err
	}
	return plan.CanGenerateStory(), nil
}

func (s *PlanService) RemainingStories(ctx context.Context, userID string) (int, error) {
	plan, err := s.Load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return plan.RemainingStories(), nil
}

func (s *PlanService) CanAccessAdultContent(ctx context.Context, userID string) (bool, error) {
	plan, err := s.Load(ctx, userID)
	if err != nil {
		return false, err
	}
	return plan.CanAccessAdultContent(), nil
}

func (s *PlanService) CanAccessThirtyDayMode(ctx context.Context, userID string) (bool, error) {
	plan, err := s.Load(ctx, userID)
	if err != nil {
		return false, err
	}
	return plan.CanAccessThirtyDayMode(), nil
}
