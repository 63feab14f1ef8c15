package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/handlers"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/middleware"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
)

func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, jwtSecret string) {
	router.Route("/api/v1/interview", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.With(middleware.ValidateRequest[*models.StartSessionRequest]()).Post("/sessions", interviewHandler.StartSessionHandler)
		r.With(middleware.ValidateRequest[*models.TurnRequest]()).Post("/turn", interviewHandler.SubmitTurnHandler)
		r.Get("/sessions", interviewHandler.ListSessionsHandler)
		r.Get("/sessions/{sessionID}", interviewHandler.GetSessionHandler)
		r.Get("/sessions/{sessionID}/summary", interviewHandler.GetSummaryHandler)
	})
}

func TTSRoutes(router *chi.Mux, ttsHandler *handlers.TTSHandler, jwtSecret string) {
	router.With(
		middleware.Authenticate(jwtSecret),
		middleware.ValidateRequest[*models.TTSRequest](),
	).Post("/api/v1/tts", ttsHandler.SynthesizeHandler)
}
