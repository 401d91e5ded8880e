// Package storyapi calls the story-writing collaborator over HTTP.
package storyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/digkill/contos-diarios/internal/models"
)

var (
	ErrRateLimited    = errors.New("story api rate limited")
	ErrQuotaExhausted = errors.New("story api credits exhausted")
	ErrUnavailable    = errors.New("story api unavailable")
)

type Request struct {
	Theme    string          `json:"theme"`
	AgeGroup models.AgeGroup `json:"ageGroup"`
	Style    string          `json:"style"`
}

type Response struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Story   *StoryPayload `json:"story,omitempty"`
	Usage   *Usage        `json:"usage,omitempty"`
}

type StoryPayload struct {
	ID        string `json:"id,omitempty"`
	Content   string `json:"content"`
	WordCount int    `json:"word_count,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type Usage struct {
	Remaining int `json:"remaining"`
}

// Result is a successfully generated story as reported by the collaborator.
type Result struct {
	ID        string
	Content   string
	WordCount int
	CreatedAt time.Time
	Remaining *int
}

type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(url, apiKey string, timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Generate issues exactly one request; retries are left to the caller.
func (c *Client) Generate(ctx context.Context, req Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal story request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: post story api: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.log.Warn("story api rate limited", "body", truncateBody(rawBody))
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		c.log.Error("story api credits exhausted", "body", truncateBody(rawBody))
		return nil, ErrQuotaExhausted
	case resp.StatusCode >= 300:
		c.log.Error("story api failed", "status", resp.StatusCode, "body", truncateBody(rawBody))
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrUnavailable, resp.StatusCode, truncateBody(rawBody))
	}

	var decoded Response
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v (body=%s)", ErrUnavailable, err, truncateBody(rawBody))
	}
	if !decoded.Success || decoded.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, decoded.Error)
	}
	if decoded.Story == nil || strings.TrimSpace(decoded.Story.Content) == "" {
		return nil, fmt.Errorf("%w: empty story content", ErrUnavailable)
	}

	result := &Result{
		ID:        decoded.Story.ID,
		Content:   strings.TrimSpace(decoded.Story.Content),
		WordCount: decoded.Story.WordCount,
	}
	if decoded.Story.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, decoded.Story.CreatedAt); err == nil {
			result.CreatedAt = ts
		}
	}
	if decoded.Usage != nil {
		remaining := decoded.Usage.Remaining
		result.Remaining = &remaining
	}
	return result, nil
}

func truncateBody(body []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(body))
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
