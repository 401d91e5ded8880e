package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digkill/contos-diarios/internal/auth"
	"github.com/digkill/contos-diarios/internal/llm"
	"github.com/digkill/contos-diarios/internal/models"
	"github.com/digkill/contos-diarios/internal/repository"
	"github.com/digkill/contos-diarios/internal/service"
	"github.com/digkill/contos-diarios/internal/storage"
	"github.com/digkill/contos-diarios/internal/storyapi"
	"github.com/digkill/contos-diarios/internal/writer"
)

type stubLLM struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *stubLLM) Complete(context.Context, string, string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "O farol acendeu-se sozinho. Ninguém sabia porquê.", nil
}

func (s *stubLLM) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

type harness struct {
	server   *Server
	verifier *auth.Verifier
	llm      *stubLLM
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := storage.NewMemory()
	locks := service.NewUserLocks()

	verifier, err := auth.NewVerifier("test-secret", "")
	require.NoError(t, err)

	h := &harness{verifier: verifier, llm: &stubLLM{}}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.server.Handler().ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	plans := service.NewPlanService(log, repository.NewPlanRepository(kv, log), repository.NewThirtyDayRepository(kv, log), locks)
	client := storyapi.NewClient(ts.URL+"/v1/writer", opts.WriterAPIKey, 5*time.Second, log)
	generation := service.NewGenerationService(log, plans, repository.NewStoryRepository(kv, log), client, service.NewInFlight(), locks, "literario")
	thirtyDay := service.NewThirtyDayService(log, plans, repository.NewThirtyDayRepository(kv, log), generation, locks)

	h.server = NewServer(opts, log, plans, generation, thirtyDay, writer.New(h.llm, log), verifier, nil)
	return h
}

func (h *harness) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := h.verifier.Issue(userID, "", time.Hour)
	require.NoError(t, err)
	return token
}

func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(resp, req)
	return resp
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), resp.Body.String())
	return out
}

func TestHealthAndAuth(t *testing.T) {
	h := newHarness(t, Options{})
	assert.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/healthz", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodGet, "/v1/plan", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodGet, "/v1/plan", "nope", nil).Code)
}

func TestAuthDisabledUsesLocalUser(t *testing.T) {
	h := newHarness(t, Options{AuthDisabled: true})
	resp := h.do(t, http.MethodGet, "/v1/plan", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestPlanEndpoints(t *testing.T) {
	h := newHarness(t, Options{})
	token := h.token(t, "ana")

	resp := h.do(t, http.MethodGet, "/v1/plan", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	plan := decode[planResponse](t, resp)
	assert.Equal(t, models.PlanFree, plan.Type)
	assert.Equal(t, 5, plan.RemainingStories)
	assert.False(t, plan.Capabilities.ThirtyDayMode)

	resp = h.do(t, http.MethodPost, "/v1/plan/upgrade", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	plan = decode[planResponse](t, resp)
	assert.Equal(t, models.PlanPremium, plan.Type)
	assert.Equal(t, models.UnlimitedStories, plan.RemainingStories)
	assert.True(t, plan.Capabilities.AdultContent)

	resp = h.do(t, http.MethodPost, "/v1/plan/downgrade", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, models.PlanFree, decode[planResponse](t, resp).Type)
}

func TestGenerateAndReadStories(t *testing.T) {
	h := newHarness(t, Options{})
	token := h.token(t, "ana")

	resp := h.do(t, http.MethodPost, "/v1/stories", token, generateRequest{Theme: "misterio"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decode[storyResponse](t, resp)
	require.NotNil(t, created.Story)
	assert.Equal(t, "O farol acendeu-se sozinho", created.Story.Title)
	assert.Equal(t, "misterio", created.Story.Theme)
	assert.Equal(t, 7, created.Story.WordCount)
	assert.Equal(t, service.MsgStoryGenerated, created.Message)

	resp = h.do(t, http.MethodGet, "/v1/stories", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	list := decode[struct {
		Stories []models.Story `json:"stories"`
	}](t, resp)
	require.Len(t, list.Stories, 1)

	resp = h.do(t, http.MethodGet, "/v1/stories/"+created.Story.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	other := h.token(t, "rui")
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/v1/stories/"+created.Story.ID, other, nil).Code)

	plan := decode[planResponse](t, h.do(t, http.MethodGet, "/v1/plan", token, nil))
	assert.Equal(t, 1, plan.StoriesGeneratedThisMonth)
	assert.Equal(t, 4, plan.RemainingStories)
}

func TestGenerateErrors(t *testing.T) {
	h := newHarness(t, Options{})
	token := h.token(t, "ana")

	resp := h.do(t, http.MethodPost, "/v1/stories", token, generateRequest{Theme: "erotico"})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	body := decode[errorResponse](t, resp)
	assert.Equal(t, "adult_content_requires_premium", body.Error)
	assert.Equal(t, service.MsgEroticPremiumOnly, body.Message)

	resp = h.do(t, http.MethodPost, "/v1/stories", token, generateRequest{Theme: "western"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "unknown_theme", decode[errorResponse](t, resp).Error)

	req := httptest.NewRequest(http.MethodPost, "/v1/stories", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h.llm.setErr(llm.ErrRateLimited)
	resp = h.do(t, http.MethodPost, "/v1/stories", token, generateRequest{Theme: "drama"})
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, service.MsgRateLimited, decode[errorResponse](t, resp).Message)

	h.llm.setErr(llm.ErrCreditsExhausted)
	resp = h.do(t, http.MethodPost, "/v1/stories", token, generateRequest{Theme: "drama"})
	assert.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Equal(t, "quota_exhausted", decode[errorResponse](t, resp).Error)

	plan := decode[planResponse](t, h.do(t, http.MethodGet, "/v1/plan", token, nil))
	assert.Equal(t, 0, plan.StoriesGeneratedThisMonth, "failures do not count")
}

func TestThirtyDayFlow(t *testing.T) {
	h := newHarness(t, Options{})
	token := h.token(t, "ana")

	resp := h.do(t, http.MethodPost, "/v1/thirty-day", token, startThirtyDayRequest{Theme: "drama"})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Equal(t, "thirty_day_requires_premium", decode[errorResponse](t, resp).Error)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/v1/plan/upgrade", token, nil).Code)

	resp = h.do(t, http.MethodPost, "/v1/thirty-day", token, startThirtyDayRequest{Theme: "erotico"})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = h.do(t, http.MethodPost, "/v1/thirty-day", token, startThirtyDayRequest{Theme: "drama"})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = h.do(t, http.MethodGet, "/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	dash := decode[dashboardResponse](t, resp)
	assert.Equal(t, service.TickGenerated, dash.Tick.Outcome)
	require.NotNil(t, dash.Tick.Story)
	assert.Equal(t, 1, dash.Tick.Story.Day)
	assert.Equal(t, service.MsgDailyStoryReady, dash.Tick.Message)
	require.NotNil(t, dash.ThirtyDay)
	assert.Equal(t, 2, dash.ThirtyDay.CurrentDay)
	require.Len(t, dash.Stories, 1)
	assert.Equal(t, 1, dash.Stories[0].Day)

	resp = h.do(t, http.MethodPost, "/v1/thirty-day/tick", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, service.TickAlreadyGenerated, decode[tickResponse](t, resp).Outcome)
	assert.Equal(t, 1, h.llm.calls)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/v1/plan/downgrade", token, nil).Code)
	resp = h.do(t, http.MethodGet, "/v1/thirty-day", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"thirtyDay":null}`, resp.Body.String())
}

func TestDashboardReportsTickFailure(t *testing.T) {
	h := newHarness(t, Options{})
	token := h.token(t, "ana")
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/v1/plan/upgrade", token, nil).Code)
	require.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/v1/thirty-day", token, startThirtyDayRequest{Theme: "aventura"}).Code)

	h.llm.setErr(llm.ErrEmptyCompletion)
	resp := h.do(t, http.MethodGet, "/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	dash := decode[dashboardResponse](t, resp)
	assert.Equal(t, service.TickFailed, dash.Tick.Outcome)
	assert.Equal(t, service.MsgGenericFailure, dash.Tick.Message)
	require.NotNil(t, dash.ThirtyDay)
	assert.Equal(t, 1, dash.ThirtyDay.CurrentDay)

	resp = h.do(t, http.MethodDelete, "/v1/thirty-day", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	dash = decode[dashboardResponse](t, h.do(t, http.MethodGet, "/v1/dashboard", token, nil))
	assert.Equal(t, service.TickInactive, dash.Tick.Outcome)
	assert.Nil(t, dash.ThirtyDay)
}

func TestWriterEndpoint(t *testing.T) {
	h := newHarness(t, Options{WriterAPIKey: "writer-key"})

	resp := h.do(t, http.MethodPost, "/v1/writer", "", storyapi.Request{Theme: "drama", AgeGroup: models.AgeGroupGeneral})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = h.do(t, http.MethodPost, "/v1/writer", "writer-key", storyapi.Request{Theme: "drama", AgeGroup: models.AgeGroupGeneral, Style: "literario"})
	require.Equal(t, http.StatusOK, resp.Code)
	out := decode[storyapi.Response](t, resp)
	assert.True(t, out.Success)
	require.NotNil(t, out.Story)
	assert.Equal(t, 7, out.Story.WordCount)
	require.NotNil(t, out.Usage)
	assert.Equal(t, writer.PlaceholderRemaining, out.Usage.Remaining)

	resp = h.do(t, http.MethodPost, "/v1/writer", "writer-key", storyapi.Request{Theme: "nada", AgeGroup: models.AgeGroupGeneral})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	h.llm.setErr(llm.ErrCreditsExhausted)
	resp = h.do(t, http.MethodPost, "/v1/writer", "writer-key", storyapi.Request{Theme: "drama", AgeGroup: models.AgeGroupGeneral})
	assert.Equal(t, http.StatusPaymentRequired, resp.Code)
	assert.False(t, decode[storyapi.Response](t, resp).Success)

	// The generation client authenticates with the same key.
	token := h.token(t, "ana")
	h.llm.setErr(nil)
	assert.Equal(t, http.StatusCreated, h.do(t, http.MethodPost, "/v1/stories", token, generateRequest{Theme: "drama"}).Code)
}

func TestWriterDisabled(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(Options{AuthDisabled: true}, log, nil, nil, nil, nil, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/writer", bytes.NewBufferString(`{}`))
	resp := httptest.NewRecorder()
	srv.Handler().ServeHTTP(resp, req)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	limiter := NewRateLimiter(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	h := limiter.Limit("writer", 1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/v1/writer", nil))
		assert.Equal(t, http.StatusNoContent, resp.Code)
	}
}

// scriptedRedis answers limiter commands in-process and fails EXPIRE on demand.
type scriptedRedis struct {
	mu          sync.Mutex
	counts      map[string]int64
	failExpires int
	deleted     []string
}

func (h *scriptedRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("no network in tests")
	}
}

func (h *scriptedRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.mu.Lock()
		defer h.mu.Unlock()
		key, _ := cmd.Args()[1].(string)
		switch cmd.Name() {
		case "incr":
			h.counts[key]++
			cmd.(*redis.IntCmd).SetVal(h.counts[key])
		case "expire":
			if h.failExpires > 0 {
				h.failExpires--
				err := errors.New("expire refused")
				cmd.SetErr(err)
				return err
			}
			cmd.(*redis.BoolCmd).SetVal(true)
		case "del":
			delete(h.counts, key)
			h.deleted = append(h.deleted, key)
			cmd.(*redis.IntCmd).SetVal(1)
		case "ttl":
			cmd.(*redis.DurationCmd).SetVal(30 * time.Second)
		default:
			err := fmt.Errorf("unexpected command %s", cmd.Name())
			cmd.SetErr(err)
			return err
		}
		return nil
	}
}

func (h *scriptedRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRateLimiterClearsCounterWhenExpireFails(t *testing.T) {
	script := &scriptedRedis{counts: map[string]int64{}, failExpires: 1}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	client.AddHook(script)
	t.Cleanup(func() { _ = client.Close() })
	limiter := NewRateLimiter(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	h := limiter.Limit("writer", 1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	serve := func() *httptest.ResponseRecorder {
		resp := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/writer", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		h.ServeHTTP(resp, req)
		return resp
	}

	assert.Equal(t, http.StatusNoContent, serve().Code)
	assert.Equal(t, []string{"rate_limit:writer:203.0.113.7"}, script.deleted)

	assert.Equal(t, http.StatusNoContent, serve().Code, "counter starts over after cleanup")

	resp := serve()
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "30", resp.Header().Get("Retry-After"))
}

func TestClassify(t *testing.T) {
	status, code := classify(service.ErrGenerationInProgress)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "generation_in_progress", code)

	status, _ = classify(service.ErrMonthlyLimitReached)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = classify(io.EOF)
	assert.Equal(t, http.StatusInternalServerError, status)
}
