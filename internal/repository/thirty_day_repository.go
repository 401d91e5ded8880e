package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/digkill/contos-diarios/internal/models"
	"github.com/digkill/contos-diarios/internal/storage"
)

type ThirtyDayRepository struct {
	kv  storage.KeyValue
	log *slog.Logger
}

func NewThirtyDayRepository(kv storage.KeyValue, log *slog.Logger) *ThirtyDayRepository {
	return &ThirtyDayRepository{kv: kv, log: log}
}

// Get returns the stored run, or nil when there is none or it is unreadable.
func (r *ThirtyDayRepository) Get(ctx context.Context, userID string) (*models.ThirtyDayState, error) {
	raw, found, err := r.kv.Get(ctx, thirtyDayKey(userID))
	if err != nil {
		return nil, fmt.Errorf("get thirty-day state: %w", err)
	}
	if !found {
		return nil, nil
	}
	var state models.ThirtyDayState
	if err := json.Unmarshal(raw, &state); err != nil {
		r.log.Warn("discarding malformed thirty-day state", "user", Scope(userID), "err", err)
		return nil, nil
	}
	if state.CurrentDay < 1 || state.MainTheme == "" {
		r.log.Warn("discarding invalid thirty-day state", "user", Scope(userID))
		return nil, nil
	}
	if state.StoriesGenerated == nil {
		state.StoriesGenerated = []string{}
	}
	return &state, nil
}

func (r *ThirtyDayRepository) Save(ctx context.Context, userID string, state models.ThirtyDayState) error {
	if state.StoriesGenerated == nil {
		state.StoriesGenerated = []string{}
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal thirty-day state: %w", err)
	}
	if err := r.kv.Set(ctx, thirtyDayKey(userID), raw); err != nil {
		return fmt.Errorf("save thirty-day state: %w", err)
	}
	return nil
}

func (r *ThirtyDayRepository) Delete(ctx context.Context, userID string) error {
	if err := r.kv.Delete(ctx, thirtyDayKey(userID)); err != nil {
		return fmt.Errorf("delete thirty-day state: %w", err)
	}
	return nil
}
