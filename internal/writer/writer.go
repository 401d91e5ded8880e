// Package writer turns a story request into text by prompting a language model.
package writer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/digkill/contos-diarios/internal/models"
	"github.com/digkill/contos-diarios/internal/storyapi"
	"github.com/digkill/contos-diarios/internal/theme"
)

// PlaceholderRemaining is reported in usage for wire compatibility. Quotas
// are tracked by the plan store, not here.
const PlaceholderRemaining = 99

var ErrInvalidAgeGroup = errors.New("invalid age group")

// Completer produces a model completion for a system and user prompt.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Writer struct {
	llm  Completer
	log  *slog.Logger
	now  func() time.Time
	pick func(n int) int
}

func New(llm Completer, log *slog.Logger) *Writer {
	return &Writer{
		llm:  llm,
		log:  log,
		now:  time.Now,
		pick: rand.IntN,
	}
}

// Write generates a story for the request and shapes it as a success response.
func (w *Writer) Write(ctx context.Context, req storyapi.Request) (*storyapi.Response, error) {
	themeID, err := theme.Parse(req.Theme)
	if err != nil {
		return nil, err
	}
	if req.AgeGroup != models.AgeGroupGeneral && req.AgeGroup != models.AgeGroupAdult {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAgeGroup, req.AgeGroup)
	}
	th := themeID.Theme()
	adult := req.AgeGroup == models.AgeGroupAdult

	w.log.Info("writing story", "theme", th.ID, "age_group", req.AgeGroup, "style", req.Style)

	content, err := w.llm.Complete(ctx, systemPrompt, buildPrompt(th, adult, req.Style, w.pick))
	if err != nil {
		return nil, fmt.Errorf("complete story: %w", err)
	}
	content = strings.TrimSpace(content)
	wordCount := len(strings.Fields(content))

	w.log.Info("story written", "theme", th.ID, "word_count", wordCount)

	return &storyapi.Response{
		Success: true,
		Story: &storyapi.StoryPayload{
			ID:        uuid.NewString(),
			Content:   content,
			WordCount: wordCount,
			CreatedAt: w.now().UTC().Format(time.RFC3339Nano),
		},
		Usage: &storyapi.Usage{Remaining: PlaceholderRemaining},
	}, nil
}
