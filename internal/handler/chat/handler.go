package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ShawnKBeck/GraceAI-Frontend/internal/model/chat"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/service/ai"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/service/reply"
	"github.com/ShawnKBeck/GraceAI-Frontend/pkg/utils"
)

// Generator produces a reply for a message and its pair-encoded history.
type Generator interface {
	GenerateResponse(ctx context.Context, message string, history []chat.HistoryPair) (string, error)
}

// Handler serves the Reply Service endpoint.
type Handler struct {
	generator Generator
	logger    zerolog.Logger
}

// New creates the chat handler. A nil generator makes the endpoint answer 503.
func New(generator Generator, logger zerolog.Logger) *Handler {
	return &Handler{
		generator: generator,
		logger:    logger,
	}
}

// RegisterRoutes registers the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

// handleChat answers {message, history} with {response}, line breaks escaped.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "ai unavailable")
		return
	}

	var payload reply.Request
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text, err := h.generator.GenerateResponse(r.Context(), payload.Message, payload.History)
	if err != nil {
		if errors.Is(err, ai.ErrMessageRequired) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error().Err(err).Int("history", len(payload.History)).Msg("reply generation failed")
		utils.RespondError(w, http.StatusBadGateway, "reply generation failed")
		return
	}

	response := chat.Escape(text)
	utils.RespondJSON(w, http.StatusOK, reply.Response{Response: &response})
}
