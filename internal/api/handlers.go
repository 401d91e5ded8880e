package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/digkill/contos-diarios/internal/auth"
	"github.com/digkill/contos-diarios/internal/models"
	"github.com/digkill/contos-diarios/internal/service"
	"github.com/digkill/contos-diarios/internal/theme"
)

const defaultDashboardStories = 5

type capabilities struct {
	CanGenerateStory bool `json:"canGenerateStory"`
	AdultContent     bool `json:"adultContent"`
	ThirtyDayMode    bool `json:"thirtyDayMode"`
}

type planResponse struct {
	models.PlanRecord
	MonthlyLimit     int          `json:"monthlyLimit"`
	RemainingStories int          `json:"remainingStories"`
	Capabilities     capabilities `json:"capabilities"`
}

func newPlanResponse(plan models.PlanRecord) planResponse {
	return planResponse{
		PlanRecord:       plan,
		MonthlyLimit:     plan.MonthlyLimit(),
		RemainingStories: plan.RemainingStories(),
		Capabilities: capabilities{
			CanGenerateStory: plan.CanGenerateStory(),
			AdultContent:     plan.CanAccessAdultContent(),
			ThirtyDayMode:    plan.CanAccessThirtyDayMode(),
		},
	}
}

type generateRequest struct {
	Theme          string `json:"theme"`
	IsAdultContent bool   `json:"isAdultContent"`
}

type startThirtyDayRequest struct {
	Theme string `json:"theme"`
}

type storyResponse struct {
	Story   *models.Story `json:"story"`
	Message string        `json:"message,omitempty"`
}

type tickResponse struct {
	service.TickResult
	Message string `json:"message,omitempty"`
}

type dashboardResponse struct {
	Plan      planResponse           `json:"plan"`
	ThirtyDay *models.ThirtyDayState `json:"thirtyDay"`
	Tick      tickResponse           `json:"tick"`
	Stories   []models.Story         `json:"stories"`
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.plans.Load(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newPlanResponse(plan))
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	plan, err := s.plans.UpgradeToPremium(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newPlanResponse(plan))
}

func (s *Server) handleDowngrade(w http.ResponseWriter, r *http.Request) {
	plan, err := s.plans.DowngradeToFree(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newPlanResponse(plan))
}

func (s *Server) handleListStories(w http.ResponseWriter, r *http.Request) {
	stories, err := s.generation.Stories(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"stories": stories})
}

func (s *Server) handleGetStory(w http.ResponseWriter, r *http.Request) {
	story, err := s.generation.Story(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if story == nil {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "story_not_found", Message: "Conto não encontrado."})
		return
	}
	s.writeJSON(w, http.StatusOK, storyResponse{Story: story})
}

func (s *Server) handleGenerateStory(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	themeID, err := theme.Parse(req.Theme)
	if err != nil {
		s.writeError(w, err)
		return
	}
	story, err := s.generation.Generate(r.Context(), auth.UserID(r.Context()), themeID, req.IsAdultContent)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, storyResponse{Story: story, Message: service.MsgStoryGenerated})
}

func (s *Server) handleGetThirtyDay(w http.ResponseWriter, r *http.Request) {
	state, err := s.thirtyDay.State(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"thirtyDay": state})
}

func (s *Server) handleStartThirtyDay(w http.ResponseWriter, r *http.Request) {
	var req startThirtyDayRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	themeID, err := theme.Parse(req.Theme)
	if err != nil {
		s.writeError(w, err)
		return
	}
	state, err := s.thirtyDay.Start(r.Context(), auth.UserID(r.Context()), themeID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"thirtyDay": state})
}

func (s *Server) handleStopThirtyDay(w http.ResponseWriter, r *http.Request) {
	if err := s.thirtyDay.Stop(r.Context(), auth.UserID(r.Context())); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"thirtyDay": nil, "message": service.MsgThirtyDayStopped})
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	res, err := s.thirtyDay.Tick(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newTickResponse(res, nil))
}

// handleDashboard consults the schedule before reporting, so a due daily
// story is produced on load. Tick failures are reported, not fatal.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := auth.UserID(ctx)

	res, tickErr := s.thirtyDay.Tick(ctx, userID)
	if tickErr != nil {
		s.log.Warn("dashboard tick failed", "user", userID, "err", tickErr)
		if res.Outcome == "" {
			res.Outcome = service.TickFailed
		}
	}

	plan, err := s.plans.Load(ctx, userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	stories, err := s.generation.Stories(ctx, userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	limit := defaultDashboardStories
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			limit = n
		}
	}
	if len(stories) > limit {
		stories = stories[:limit]
	}

	s.writeJSON(w, http.StatusOK, dashboardResponse{
		Plan:      newPlanResponse(plan),
		ThirtyDay: plan.ThirtyDayMode,
		Tick:      newTickResponse(res, tickErr),
		Stories:   stories,
	})
}

func newTickResponse(res service.TickResult, err error) tickResponse {
	out := tickResponse{TickResult: res}
	switch {
	case err != nil:
		out.Message = service.UserMessage(err)
	case res.Outcome == service.TickGenerated:
		out.Message = service.MsgDailyStoryReady
	case res.Outcome == service.TickCompleted:
		out.Message = service.MsgThirtyDayCompleted
	}
	return out
}
