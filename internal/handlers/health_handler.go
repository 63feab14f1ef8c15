package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/config"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/utils"
)

const (
	serviceName  = "interview"
	pingTimeout  = 2 * time.Second
	checkOK      = "ok"
	checkFailed  = "failed"
	checkDegrade = "degraded"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "degraded" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"`  // "ready" | "not_ready"
	Service string                    `json:"service"` // Service name
	Checks  map[string]ReadinessCheck `json:"checks"`  // Individual check results
}

// ReadinessProbe is implemented by *services.InterviewService
type ReadinessProbe interface {
	Ping(ctx context.Context) error
	QuestionCount() int
	OracleConfigured() bool
}

type HealthHandler struct {
	probe  ReadinessProbe
	config *config.Config
}

func NewHealthHandler(probe ReadinessProbe, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		probe:  probe,
		config: cfg,
	}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
		"version": "1.0.0",
	})
}

// ReadyzHandler fails on a broken store or empty question bank. A missing oracle only degrades
// scoring to the heuristic, so it is reported but does not fail readiness.
func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true

	if handler.probe == nil {
		checks["service"] = ReadinessCheck{Status: checkFailed, Message: "Interview service not initialized"}
		allChecksPass = false
	} else {
		ctx, cancel := context.WithTimeout(request.Context(), pingTimeout)
		defer cancel()
		if err := handler.probe.Ping(ctx); err != nil {
			checks["database"] = ReadinessCheck{Status: checkFailed, Message: err.Error()}
			allChecksPass = false
		} else {
			checks["database"] = ReadinessCheck{Status: checkOK}
		}

		if handler.probe.QuestionCount() == 0 {
			checks["question_bank"] = ReadinessCheck{Status: checkFailed, Message: "No questions loaded"}
			allChecksPass = false
		} else {
			checks["question_bank"] = ReadinessCheck{Status: checkOK}
		}

		if handler.probe.OracleConfigured() {
			checks["scoring_oracle"] = ReadinessCheck{Status: checkOK}
		} else {
			checks["scoring_oracle"] = ReadinessCheck{Status: checkDegrade, Message: "No AI provider configured; using heuristic scoring"}
		}
	}

	if handler.config == nil {
		checks["configuration"] = ReadinessCheck{Status: checkFailed, Message: "Configuration not loaded"}
		allChecksPass = false
	} else {
		checks["configuration"] = ReadinessCheck{Status: checkOK}
	}

	response := ReadinessResponse{
		Service: serviceName,
		Checks:  checks,
	}

	if allChecksPass {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
	} else {
		response.Status = "not_ready"
		utils.JSON(writer, http.StatusServiceUnavailable, response)
	}
}
