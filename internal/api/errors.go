package api

import (
	"errors"
	"net/http"

	"github.com/digkill/contos-diarios/internal/service"
	"github.com/digkill/contos-diarios/internal/storyapi"
	"github.com/digkill/contos-diarios/internal/theme"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// classify maps a service error to an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrAdultContentRequiresPremium):
		return http.StatusForbidden, "adult_content_requires_premium"
	case errors.Is(err, service.ErrMonthlyLimitReached):
		return http.StatusForbidden, "monthly_limit_reached"
	case errors.Is(err, service.ErrThirtyDayRequiresPremium):
		return http.StatusForbidden, "thirty_day_requires_premium"
	case errors.Is(err, service.ErrAdultThemeInThirtyDay):
		return http.StatusForbidden, "adult_theme_in_thirty_day"
	case errors.Is(err, service.ErrGenerationInProgress):
		return http.StatusConflict, "generation_in_progress"
	case errors.Is(err, theme.ErrUnknownTheme):
		return http.StatusBadRequest, "unknown_theme"
	case errors.Is(err, storyapi.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, storyapi.ErrQuotaExhausted):
		return http.StatusBadGateway, "quota_exhausted"
	case errors.Is(err, service.ErrGenerationFailed):
		return http.StatusBadGateway, "generation_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		s.log.Error("api handler error", "err", err)
		s.writeJSON(w, status, errorResponse{Error: code, Message: "Erro interno. Tente novamente."})
		return
	}
	s.writeJSON(w, status, errorResponse{Error: code, Message: service.UserMessage(err)})
}
