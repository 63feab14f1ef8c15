package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/feedback"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/llm"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/middleware"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/poll"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/prompts"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/questions"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/scoring"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/services"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/store"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/testhelpers"
)

// mockInterviewService returns canned results for handler error mapping tests
type mockInterviewService struct {
	startFn   func(ctx context.Context, userID string, req *models.StartSessionRequest) (*models.StartSessionResponse, error)
	turnFn    func(ctx context.Context, userID string, req *models.TurnRequest) (*models.TurnResponse, error)
	sessionFn func(ctx context.Context, userID, sessionID string) (*models.SessionView, error)
	summaryFn func(ctx context.Context, userID, sessionID string) (*models.FeedbackSummary, error)
	listFn    func(ctx context.Context, userID string) ([]models.SessionView, error)
}

func (m *mockInterviewService) StartSession(ctx context.Context, userID string, req *models.StartSessionRequest) (*models.StartSessionResponse, error) {
	return m.startFn(ctx, userID, req)
}

func (m *mockInterviewService) ProcessTurn(ctx context.Context, userID string, req *models.TurnRequest) (*models.TurnResponse, error) {
	return m.turnFn(ctx, userID, req)
}

func (m *mockInterviewService) GetSession(ctx context.Context, userID, sessionID string) (*models.SessionView, error) {
	return m.sessionFn(ctx, userID, sessionID)
}

func (m *mockInterviewService) GetSummary(ctx context.Context, userID, sessionID string) (*models.FeedbackSummary, error) {
	return m.summaryFn(ctx, userID, sessionID)
}

func (m *mockInterviewService) ListSessions(ctx context.Context, userID string) ([]models.SessionView, error) {
	return m.listFn(ctx, userID)
}

// newInterviewRouter mounts the handler the way the routers package does
func newInterviewRouter(service InterviewService) http.Handler {
	h := NewInterviewHandler(service, zap.NewNop())
	r := chi.NewRouter()
	r.With(middleware.ValidateRequest[*models.StartSessionRequest]()).Post("/sessions", h.StartSessionHandler)
	r.With(middleware.ValidateRequest[*models.TurnRequest]()).Post("/turn", h.SubmitTurnHandler)
	r.Get("/sessions", h.ListSessionsHandler)
	r.Get("/sessions/{sessionID}", h.GetSessionHandler)
	r.Get("/sessions/{sessionID}/summary", h.GetSummaryHandler)
	return r
}

// newRealService wires the interview service to sqlite and the given oracle provider
func newRealService(t *testing.T, provider llm.Provider) *services.InterviewService {
	t.Helper()

	bank, err := questions.NewBank()
	if err != nil {
		t.Fatalf("failed to load question bank: %v", err)
	}
	pm, err := prompts.NewPromptManager()
	if err != nil {
		t.Fatalf("failed to load prompts: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var oracle scoring.AnswerScorer
	name := ""
	if provider != nil {
		oracle = scoring.NewOracle(provider, pm, nil)
		name = provider.GetProviderName()
	}
	engine := scoring.NewEngine(oracle, name, scoring.NewHeuristic(nil, 0), nil)

	return services.NewInterviewService(
		store.New(testhelpers.SetupTestDB(t)),
		store.NewLocalLocker(poll.Options{Interval: 2 * time.Millisecond, MaxAttempts: 500}),
		engine,
		bank,
		feedback.NewScoreCache(ctx, time.Minute),
		scoring.NewSummarizer(provider, pm, nil),
		time.Minute,
		nil,
	)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v (body %q)", err, rec.Body.String())
	}
	return out
}
