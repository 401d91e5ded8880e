package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/digkill/contos-diarios/internal/auth"
	"github.com/digkill/contos-diarios/internal/llm"
	"github.com/digkill/contos-diarios/internal/storyapi"
	"github.com/digkill/contos-diarios/internal/theme"
	"github.com/digkill/contos-diarios/internal/writer"
)

const (
	writerMsgRateLimited = "Limite de pedidos atingido. Tente novamente em alguns minutos."
	writerMsgCredits     = "Créditos esgotados. Por favor, adicione créditos à sua conta."
	writerMsgFailed      = "Erro ao gerar o conto"
	writerMsgDisabled    = "Configuração do servidor incompleta"
)

func (s *Server) handleWriter(w http.ResponseWriter, r *http.Request) {
	if s.writer == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, storyapi.Response{Error: writerMsgDisabled})
		return
	}
	if s.opts.WriterAPIKey != "" {
		token, ok := auth.BearerToken(r)
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.opts.WriterAPIKey)) != 1 {
			s.writeJSON(w, http.StatusUnauthorized, storyapi.Response{Error: "unauthorized"})
			return
		}
	}

	var req storyapi.Request
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, storyapi.Response{Error: "invalid json"})
		return
	}

	resp, err := s.writer.Write(r.Context(), req)
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, theme.ErrUnknownTheme), errors.Is(err, writer.ErrInvalidAgeGroup):
		s.writeJSON(w, http.StatusBadRequest, storyapi.Response{Error: err.Error()})
	case errors.Is(err, llm.ErrRateLimited):
		s.writeJSON(w, http.StatusTooManyRequests, storyapi.Response{Error: writerMsgRateLimited})
	case errors.Is(err, llm.ErrCreditsExhausted):
		s.writeJSON(w, http.StatusPaymentRequired, storyapi.Response{Error: writerMsgCredits})
	default:
		s.log.Error("writer failed", "err", err)
		s.writeJSON(w, http.StatusInternalServerError, storyapi.Response{Error: writerMsgFailed})
	}
}
