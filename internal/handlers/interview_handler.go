package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/middleware"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/services"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/store"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/utils"
)

// InterviewService is implemented by *services.InterviewService
type InterviewService interface {
	StartSession(ctx context.Context, userID string, req *models.StartSessionRequest) (*models.StartSessionResponse, error)
	ProcessTurn(ctx context.Context, userID string, req *models.TurnRequest) (*models.TurnResponse, error)
	GetSession(ctx context.Context, userID, sessionID string) (*models.SessionView, error)
	GetSummary(ctx context.Context, userID, sessionID string) (*models.FeedbackSummary, error)
	ListSessions(ctx context.Context, userID string) ([]models.SessionView, error)
}

type InterviewHandler struct {
	service InterviewService
	logger  *zap.Logger
}

func NewInterviewHandler(service InterviewService, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		service: service,
		logger:  logger,
	}
}

func (h *InterviewHandler) StartSessionHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.StartSessionRequest](r)

	resp, err := h.service.StartSession(r.Context(), middleware.UserID(r), req)
	if err != nil {
		h.writeError(w, err, "")
		return
	}
	utils.JSON(w, http.StatusCreated, resp)
}

func (h *InterviewHandler) SubmitTurnHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.TurnRequest](r)

	resp, err := h.service.ProcessTurn(r.Context(), middleware.UserID(r), req)
	if err != nil {
		// the answer was scored but not saved; hand the scores back so the client can retry
		if resp != nil && store.IsPersistenceError(err) {
			utils.JSON(w, http.StatusServiceUnavailable, models.PersistenceFailureResponse{
				ErrorResponse: models.ErrorResponse{
					Code:    "persistence_failure",
					Message: "Your answer was scored but could not be saved. Please retry.",
				},
				Retryable:    true,
				Scores:       resp.Scores,
				FeedbackText: resp.FeedbackText,
			})
			return
		}
		h.writeError(w, err, req.SessionID)
		return
	}

	if resp.OracleDegraded {
		h.logger.Info("Turn scored heuristically", zap.String("session_id", req.SessionID))
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *InterviewHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	view, err := h.service.GetSession(r.Context(), middleware.UserID(r), sessionID)
	if err != nil {
		h.writeError(w, err, sessionID)
		return
	}
	utils.JSON(w, http.StatusOK, view)
}

func (h *InterviewHandler) GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	summary, err := h.service.GetSummary(r.Context(), middleware.UserID(r), sessionID)
	if err != nil {
		h.writeError(w, err, sessionID)
		return
	}
	utils.JSON(w, http.StatusOK, summary)
}

func (h *InterviewHandler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.ListSessions(r.Context(), middleware.UserID(r))
	if err != nil {
		h.writeError(w, err, "")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (h *InterviewHandler) writeError(w http.ResponseWriter, err error, sessionID string) {
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "session_not_found",
			Message: "Interview session not found",
		})
	case errors.Is(err, store.ErrSummaryNotFound):
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "summary_not_found",
			Message: "Interview summary is not available yet",
		})
	case errors.Is(err, services.ErrSessionCompleted):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "session_completed",
			Message: "Interview session is already completed",
		})
	case errors.Is(err, services.ErrStaleSequence):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "stale_sequence",
			Message: err.Error(),
		})
	case errors.Is(err, store.ErrConflict):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "conflict",
			Message: "Another answer for this session is being processed",
		})
	case store.IsPersistenceError(err):
		h.logger.Error("Persistence failure", zap.String("session_id", sessionID), zap.Error(err))
		utils.JSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
			Code:    "persistence_failure",
			Message: "Storage is temporarily unavailable",
		})
	default:
		h.logger.Error("Interview request failed", zap.String("session_id", sessionID), zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Internal server error",
		})
	}
}
