package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/digkill/contos-diarios/internal/models"
	"github.com/digkill/contos-diarios/internal/storage"
)

// StoryRepository is the per-user archive of generated stories, newest first.
type StoryRepository struct {
	kv       storage.KeyValue
	log      *slog.Logger
	capacity int
}

func NewStoryRepository(kv storage.KeyValue, log *slog.Logger) *StoryRepository {
	return &StoryRepository{kv: kv, log: log, capacity: models.ArchiveCapacity}
}

func (r *StoryRepository) List(ctx context.Context, userID string) ([]models.Story, error) {
	raw, found, err := r.kv.Get(ctx, storiesKey(userID))
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	if !found {
		return []models.Story{}, nil
	}
	var stories []models.Story
	if err := json.Unmarshal(raw, &stories); err != nil {
		r.log.Warn("discarding malformed story archive", "user", Scope(userID), "err", err)
		return []models.Story{}, nil
	}
	if stories == nil {
		stories = []models.Story{}
	}
	return stories, nil
}

// Append puts story at the head and drops anything beyond capacity.
func (r *StoryRepository) Append(ctx context.Context, userID string, story models.Story) error {
	stories, err := r.List(ctx, userID)
	if err != nil {
		return err
	}
	stories = append([]models.Story{story}, stories...)
	if len(stories) > r.capacity {
		stories = stories[:r.capacity]
	}
	raw, err := json.Marshal(stories)
	if err != nil {
		return fmt.Errorf("marshal stories: %w", err)
	}
	if err := r.kv.Set(ctx, storiesKey(userID), raw); err != nil {
		return fmt.Errorf("save stories: %w", err)
	}
	return nil
}

// Find returns the archived story with the given id, or nil.
func (r *StoryRepository) Find(ctx context.Context, userID, storyID string) (*models.Story, error) {
	stories, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range stories {
		if stories[i].ID == storyID {
			return &stories[i], nil
		}
	}
	return nil, nil
}
