package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/digkill/contos-diarios/internal/models"
	"github.com/digkill/contos-diarios/internal/repository"
	"github.com/digkill/contos-diarios/internal/theme"
)

type TickOutcome string

const (
	TickInactive         TickOutcome = "inactive"
	TickAlreadyGenerated TickOutcome = "already_generated"
	TickCompleted        TickOutcome = "completed"
	TickGenerated        TickOutcome = "generated"
	TickFailed           TickOutcome = "failed"
)

type TickResult struct {
	Outcome TickOutcome   `json:"outcome"`
	Day     int           `json:"day,omitempty"`
	Story   *models.Story `json:"story,omitempty"`
}

// ThirtyDayService runs the daily schedule of a thirty-day run.
type ThirtyDayService struct {
	log        *slog.Logger
	plans      *PlanService
	repo       *repository.ThirtyDayRepository
	generation *GenerationService
	locks      *UserLocks
	now        func() time.Time
}

func NewThirtyDayService(log *slog.Logger, plans *PlanService, repo *repository.ThirtyDayRepository, generation *GenerationService, locks *UserLocks) *ThirtyDayService {
	return &ThirtyDayService{
		log:        log,
		plans:      plans,
		repo:       repo,
		generation: generation,
		locks:      locks,
		now:        time.Now,
	}
}

// Start begins a new run at day one, replacing any run in progress.
func (s *ThirtyDayService) Start(ctx context.Context, userID string, themeID theme.ID) (*models.ThirtyDayState, error) {
	th := themeID.Theme()
	if th.ID == "" {
		return nil, theme.ErrUnknownTheme
	}
	plan, err := s.plans.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !plan.CanAccessThirtyDayMode() {
		return nil, ErrThirtyDayRequiresPremium
	}
	if th.Adult {
		return nil, ErrAdultThemeInThirtyDay
	}

	state := models.ThirtyDayState{
		RunID:            uuid.NewString(),
		IsActive:         true,
		StartDate:        models.Date(s.now()),
		CurrentDay:       1,
		MainTheme:        th.ID.String(),
		StoriesGenerated: []string{},
	}

	unlock := s.locks.Lock(userID)
	defer unlock()
	if err := s.repo.Save(ctx, userID, state); err != nil {
		return nil, fmt.Errorf("start thirty-day mode: %w", err)
	}
	s.log.Info("thirty-day mode started", "user", repository.Scope(userID), "theme", th.ID)
	return &state, nil
}

// Stop discards the run. Stopping an inactive schedule is a no-op.
func (s *ThirtyDayService) Stop(ctx context.Context, userID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()
	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("stop thirty-day mode: %w", err)
	}
	s.log.Info("thirty-day mode stopped", "user", repository.Scope(userID))
	return nil
}

// State returns the active run, or nil.
func (s *ThirtyDayService) State(ctx context.Context, userID string) (*models.ThirtyDayState, error) {
	state, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state == nil || !state.IsActive {
		return nil, nil
	}
	return state, nil
}

// Tick generates today's story when one is due. A failed generation leaves
// the run untouched so the same day is retried on the next tick.
func (s *ThirtyDayService) Tick(ctx context.Context, userID string) (TickResult, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return TickResult{}, err
	}
	if state == nil {
		return TickResult{Outcome: TickInactive}, nil
	}

	today := models.Date(s.now())
	if state.LastGenerationDate == today {
		return TickResult{Outcome: TickAlreadyGenerated, Day: state.CurrentDay - 1}, nil
	}
	if state.CurrentDay > models.ThirtyDayLength {
		if err := s.Stop(ctx, userID); err != nil {
			return TickResult{}, err
		}
		s.log.Info("thirty-day mode completed", "user", repository.Scope(userID))
		return TickResult{Outcome: TickCompleted}, nil
	}

	themeID, err := theme.Parse(state.MainTheme)
	if err != nil || themeID.Theme().Adult {
		s.log.Warn("discarding thirty-day run with unusable theme", "user", repository.Scope(userID), "theme", state.MainTheme)
		if err := s.Stop(ctx, userID); err != nil {
			return TickResult{}, err
		}
		return TickResult{Outcome: TickInactive}, nil
	}

	day := state.CurrentDay
	story, err := s.generation.generate(ctx, userID, themeID, false, day)
	if err != nil {
		return TickResult{Outcome: TickFailed, Day: day}, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()
	// The run may have been stopped or restarted while the story was written.
	current, err := s.repo.Get(ctx, userID)
	if err != nil {
		return TickResult{}, err
	}
	if current == nil || !current.IsActive || current.RunID != state.RunID || current.CurrentDay != day {
		s.log.Warn("thirty-day run changed during generation", "user", repository.Scope(userID), "day", day)
		return TickResult{Outcome: TickGenerated, Day: day, Story: story}, nil
	}
	current.StoriesGenerated = append(current.StoriesGenerated, story.ID)
	current.LastGenerationDate = today
	current.CurrentDay = day + 1
	if err := s.repo.Save(ctx, userID, *current); err != nil {
		return TickResult{}, fmt.Errorf("advance thirty-day mode: %w", err)
	}
	return TickResult{Outcome: TickGenerated, Day: day, Story: story}, nil
}
