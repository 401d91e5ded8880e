package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/digkill/contos-diarios/internal/models"
	"github.com/digkill/contos-diarios/internal/storage"
)

type PlanRepository struct {
	kv  storage.KeyValue
	log *slog.Logger
}

func NewPlanRepository(kv storage.KeyValue, log *slog.Logger) *PlanRepository {
	return &PlanRepository{kv: kv, log: log}
}

// Get returns the stored plan. Absent or malformed records yield nil so the
// caller can fall back to a default plan.
func (r *PlanRepository) Get(ctx context.Context, userID string) (*models.PlanRecord, error) {
	raw, found, err := r.kv.Get(ctx, planKey(userID))
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	if !found {
		return nil, nil
	}
	var plan models.PlanRecord
	if err := json.Unmarshal(raw, &plan); err != nil {
		r.log.Warn("discarding malformed plan record", "user", Scope(userID), "err", err)
		return nil, nil
	}
	if !validPlan(plan) {
		r.log.Warn("discarding invalid plan record", "user", Scope(userID))
		return nil, nil
	}
	plan.ThirtyDayMode = nil
	return &plan, nil
}

// Save persists the plan without its thirty-day state, which has its own record.
func (r *PlanRepository) Save(ctx context.Context, userID string, plan models.PlanRecord) error {
	plan.ThirtyDayMode = nil
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	if err := r.kv.Set(ctx, planKey(userID), raw); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func validPlan(plan models.PlanRecord) bool {
	if !plan.Type.Valid() || plan.StoriesGeneratedThisMonth < 0 {
		return false
	}
	_, err := time.Parse(models.DateLayout, plan.LastResetDate)
	return err == nil
}
