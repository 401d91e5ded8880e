// Package llm talks to an OpenAI-compatible chat-completions gateway.
package llm

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
)

var (
	ErrRateLimited      = errors.New("llm gateway rate limited")
	ErrCreditsExhausted = errors.New("llm gateway credits exhausted")
	ErrEmptyCompletion  = errors.New("llm gateway returned no content")
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Complete sends a system and a user message and returns the first choice.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	payload := completionRequest{
		Model: c.cfg.Model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("post chat completion: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		c.log.Warn("llm gateway rate limited", "body", truncateBody(rawBody))
		return "", ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		c.log.Error("llm gateway credits exhausted", "body", truncateBody(rawBody))
		return "", ErrCreditsExhausted
	case resp.StatusCode >= 300:
		c.log.Error("llm gateway failed", "status", resp.StatusCode, "body", truncateBody(rawBody))
		return "", fmt.Errorf("llm gateway error: status=%d body=%s", resp.StatusCode, truncateBody(rawBody))
	}

	var decoded completionResponse
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return "", fmt.Errorf("decode completion: %w (body=%s)", err, truncateBody(rawBody))
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		c.log.Error("llm gateway returned no content", "body", truncateBody(rawBody))
		return "", ErrEmptyCompletion
	}
	return decoded.Choices[0].Message.Content, nil
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
