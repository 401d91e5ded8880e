package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/digkill/contos-diarios/internal/models"
	"github.com/digkill/contos-diarios/internal/repository"
	"github.com/digkill/contos-diarios/internal/storyapi"
	"github.com/digkill/contos-diarios/internal/theme"
)

const maxDerivedTitleRunes = 60

// StoryGenerator is the outbound collaborator that writes story text.
type StoryGenerator interface {
	Generate(ctx context.Context, req storyapi.Request) (*storyapi.Result, error)
}

type GenerationService struct {
	log      *slog.Logger
	plans    *PlanService
	stories  *repository.StoryRepository
	api      StoryGenerator
	inflight *InFlight
	locks    *UserLocks
	style    string
	now      func() time.Time
	pick     func(n int) int
}

func NewGenerationService(log *slog.Logger, plans *PlanService, stories *repository.StoryRepository, api StoryGenerator, inflight *InFlight, locks *UserLocks, style string) *GenerationService {
	return &GenerationService{
		log:      log,
		plans:    plans,
		stories:  stories,
		api:      api,
		inflight: inflight,
		locks:    locks,
		style:    style,
		now:      time.Now,
		pick:     rand.IntN,
	}
}

// Generate produces one story on demand, subject to the user's entitlement.
func (s *GenerationService) Generate(ctx context.Context, userID string, themeID theme.ID, isAdultContent bool) (*models.Story, error) {
	return s.generate(ctx, userID, themeID, isAdultContent, 0)
}

// Busy reports whether a generation is in flight for the user.
func (s *GenerationService) Busy(userID string) bool {
	return s.inflight.Busy(userID)
}

// generate runs the full gate, call, archive and count sequence. A non-zero
// day marks the story as produced by the thirty-day schedule.
func (s *GenerationService) generate(ctx context.Context, userID string, themeID theme.ID, isAdultContent bool, day int) (*models.Story, error) {
	th := themeID.Theme()
	if th.ID == "" {
		return nil, theme.ErrUnknownTheme
	}
	adult := isAdultContent || th.Adult

	release, ok := s.inflight.TryAcquire(userID)
	if !ok {
		return nil, ErrGenerationInProgress
	}
	defer release()

	plan, err := s.plans.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if decision := Authorize(adult, plan); !decision.Allowed {
		s.log.Info("generation denied", "user", repository.Scope(userID), "theme", th.ID, "reason", decision.Reason)
		return nil, decision.Reason.Err()
	}

	ageGroup := models.AgeGroupGeneral
	if adult {
		ageGroup = models.AgeGroupAdult
	}
	result, err := s.api.Generate(ctx, storyapi.Request{
		Theme:    th.ID.String(),
		AgeGroup: ageGroup,
		Style:    s.style,
	})
	if err != nil {
		s.log.Error("story generation failed", "user", repository.Scope(userID), "theme", th.ID, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if result.Remaining != nil {
		s.log.Debug("collaborator usage reported", "remaining", *result.Remaining)
	}

	story := s.buildStory(th, result, adult, day)

	unlock := s.locks.Lock(userID)
	err = s.stories.Append(ctx, userID, story)
	unlock()
	if err != nil {
		return nil, fmt.Errorf("archive story: %w", err)
	}
	if _, err := s.plans.IncrementStoryCount(ctx, userID); err != nil {
		return nil, err
	}

	s.log.Info("story generated", "user", repository.Scope(userID), "story_id", story.ID, "theme", th.ID, "day", day)
	return &story, nil
}

func (s *GenerationService) buildStory(th theme.Theme, result *storyapi.Result, adult bool, day int) models.Story {
	id := result.ID
	if id == "" {
		id = "story-" + uuid.NewString()
	}
	createdAt := result.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	content := strings.TrimSpace(result.Content)
	wordCount := result.WordCount
	if wordCount == 0 {
		wordCount = len(strings.Fields(content))
	}
	return models.Story{
		ID:             id,
		Title:          deriveTitle(content, th, s.pick),
		Content:        content,
		Theme:          th.ID.String(),
		CreatedAt:      createdAt.UTC(),
		IsAdultContent: adult,
		Day:            day,
		WordCount:      wordCount,
	}
}

// deriveTitle uses the opening sentence when it is short enough, otherwise a
// random title from the theme's list.
func deriveTitle(content string, th theme.Theme, pick func(n int) int) string {
	if first := firstSentence(content); first != "" && utf8.RuneCountInString(first) < maxDerivedTitleRunes {
		return first
	}
	titles := th.FallbackTitles
	if len(titles) == 0 {
		titles = theme.GenericTitles()
	}
	return titles[pick(len(titles))]
}

func firstSentence(content string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	line = strings.Trim(strings.TrimSpace(line), "#*_ ")
	if i := strings.IndexAny(line, ".!?"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// Stories returns the user's archive, most recent first.
func (s *GenerationService) Stories(ctx context.Context, userID string) ([]models.Story, error) {
	return s.stories.List(ctx, userID)
}

// Story returns one archived story, or nil when the id is unknown.
func (s *GenerationService) Story(ctx context.Context, userID, storyID string) (*models.Story, error) {
	return s.stories.Find(ctx, userID, storyID)
}
