package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ShawnKBeck/GraceAI-Frontend/internal/handler/chat"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/handler/live"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/handler/persona"
	middlewarePkg "github.com/ShawnKBeck/GraceAI-Frontend/internal/middleware"
	personaModel "github.com/ShawnKBeck/GraceAI-Frontend/internal/model/persona"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/service/reply"
	"github.com/ShawnKBeck/GraceAI-Frontend/pkg/utils"
)

// Dependencies are the services the HTTP surface is built from.
type Dependencies struct {
	Personas personaModel.Store
	// Generator backs POST /api/chat; nil answers 503.
	Generator chat.Generator
	// Replier backs the live websocket sessions; nil makes every reply fall back.
	Replier reply.Replier
	Logger  zerolog.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.Logger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	personaHandler := persona.New(deps.Personas)
	chatHandler := chat.New(deps.Generator, deps.Logger.With().Str("component", "chat").Logger())
	liveHandler := live.NewWebSocketHandler(deps.Replier, deps.Logger.With().Str("component", "live").Logger())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"ai":     deps.Generator != nil,
		})
	})

	r.Route("/api", func(api chi.Router) {
		personaHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		liveHandler.RegisterRoutes(api)
	})

	return r
}
