package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/feedback"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/poll"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/questions"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/scoring"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/session"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/store"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/testhelpers"
)

type stubScorer struct {
	mu       sync.Mutex
	calls    int
	delay    time.Duration
	scores   models.RubricScores
	degraded bool
}

func (s *stubScorer) Score(_ context.Context, _ scoring.Input) scoring.Assessment {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return scoring.Assessment{
		Scores:       s.scores,
		Feedback:     "Good answer",
		Strengths:    []string{"Clear"},
		Improvements: []string{"Add metrics"},
		Source:       "stub",
		Degraded:     s.degraded,
	}
}

func (s *stubScorer) OracleConfigured() bool { return !s.degraded }

func (s *stubScorer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// flakyStore fails a number of commits or summary saves before delegating
type flakyStore struct {
	*store.Store
	mu            sync.Mutex
	failCommits   int
	failSummaries int
}

func (f *flakyStore) CommitTurn(ctx context.Context, s *models.InterviewSession, r *models.QuestionAnswerRecord) error {
	f.mu.Lock()
	if f.failCommits > 0 {
		f.failCommits--
		f.mu.Unlock()
		return &store.PersistenceError{Op: "commit turn", Err: errors.New("connection reset")}
	}
	f.mu.Unlock()
	return f.Store.CommitTurn(ctx, s, r)
}

func (f *flakyStore) SaveSummary(ctx context.Context, summary *models.FeedbackSummary) error {
	f.mu.Lock()
	if f.failSummaries > 0 {
		f.failSummaries--
		f.mu.Unlock()
		return &store.PersistenceError{Op: "save summary", Err: errors.New("connection reset")}
	}
	f.mu.Unlock()
	return f.Store.SaveSummary(ctx, summary)
}

type fixture struct {
	svc     *InterviewService
	store   *flakyStore
	scorer  *stubScorer
	pending *feedback.ScoreCache
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	bank, err := questions.NewBank()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	f := &fixture{
		store:   &flakyStore{Store: store.New(testhelpers.SetupTestDB(t))},
		scorer:  &stubScorer{scores: models.RubricScores{Relevance: 80, Clarity: 70, Depth: 60, Confidence: 90}},
		pending: feedback.NewScoreCache(ctx, time.Minute),
	}
	locker := store.NewLocalLocker(poll.Options{Interval: 2 * time.Millisecond, MaxAttempts: 500})
	f.svc = NewInterviewService(f.store, locker, f.scorer, bank, f.pending, scoring.NewSummarizer(nil, nil, nil), time.Minute, nil)
	return f
}

func (f *fixture) start(t *testing.T, userID string, minutes int, interviewType string) *models.StartSessionResponse {
	t.Helper()
	req := &models.StartSessionRequest{Position: "Backend Engineer", Company: "Acme", InterviewType: interviewType, DurationMinutes: minutes}
	require.NoError(t, req.Validate())
	resp, err := f.svc.StartSession(context.Background(), userID, req)
	require.NoError(t, err)
	return resp
}

func turn(sessionID string, seq int) *models.TurnRequest {
	return &models.TurnRequest{
		SessionID:            sessionID,
		AnswerText:           "I would put a token bucket in Redis and shed load at the edge.",
		AnswerSequenceNumber: seq,
	}
}

func TestStartSession(t *testing.T) {
	f := newFixture(t)
	resp := f.start(t, "user-1", 30, models.InterviewTypeMixed)

	assert.Equal(t, 10, resp.Session.TotalQuestions)
	assert.Equal(t, models.StageIntroduction, resp.Session.Stage)
	assert.Equal(t, models.StatusActive, resp.Session.Status)
	assert.Equal(t, "intro-1", resp.Question.ID)
	assert.Contains(t, resp.Question.Text, "Backend Engineer")

	stored, err := f.store.LoadSession(context.Background(), resp.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, "intro-1", stored.CurrentQuestionID)
	assert.Equal(t, "user-1", stored.UserID)
}

func TestProcessTurnFullMixedInterview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := f.start(t, "user-1", 30, models.InterviewTypeMixed)
	id := start.Session.ID

	var last *models.TurnResponse
	seen := map[string]bool{start.Question.ID: true}
	for seq := 1; seq <= 10; seq++ {
		resp, err := f.svc.ProcessTurn(ctx, "user-1", turn(id, seq))
		require.NoError(t, err, "turn %d", seq)
		assert.Equal(t, seq, resp.AnsweredCount)
		assert.Equal(t, seq == 10, resp.IsComplete, "turn %d", seq)
		if seq < 10 {
			require.NotNil(t, resp.NextQuestion)
			assert.False(t, seen[resp.NextQuestion.ID], "question %s asked twice", resp.NextQuestion.ID)
			seen[resp.NextQuestion.ID] = true
		} else {
			assert.Nil(t, resp.NextQuestion)
		}
		last = resp
	}

	records, err := f.store.ListRecords(ctx, id)
	require.NoError(t, err)
	require.Len(t, records, 10)

	want := []models.Stage{
		models.StageIntroduction, models.StageIntroduction,
		models.StageWarmup, models.StageWarmup,
		models.StageTechnical, models.StageTechnical, models.StageTechnical,
		models.StageDeep, models.StageDeep,
		models.StageClosing,
	}
	for i, r := range records {
		assert.Equal(t, want[i], r.StageAtAsk, "answer %d", i+1)
	}

	require.NotNil(t, last.Summary)
	assert.InDelta(t, 75, last.Summary.Overall, 1e-9)
	assert.Equal(t, models.RecommendationYes, last.Summary.Recommendation)
	assert.NotEmpty(t, last.Summary.Narrative)

	stored, err := f.svc.GetSummary(ctx, "user-1", id)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.AnswerCount)

	_, err = f.svc.ProcessTurn(ctx, "user-1", turn(id, 11))
	assert.ErrorIs(t, err, ErrSessionCompleted)
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestProcessTurnBehavioralStages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.start(t, "", 30, models.InterviewTypeBehavioral).Session.ID

	var stages []models.Stage
	for seq := 1; seq <= 9; seq++ {
		resp, err := f.svc.ProcessTurn(ctx, "", turn(id, seq))
		require.NoError(t, err)
		stages = append(stages, resp.NextQuestion.Stage)
	}
	assert.Contains(t, stages, models.StageBehavioral)
	assert.Contains(t, stages, models.StageSituational)
	assert.NotContains(t, stages, models.StageTechnical)
}

func TestProcessTurnRejectsStaleSequence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.start(t, "user-1", 30, models.InterviewTypeMixed).Session.ID

	_, err := f.svc.ProcessTurn(ctx, "user-1", turn(id, 2))
	assert.ErrorIs(t, err, ErrStaleSequence)

	_, err = f.svc.ProcessTurn(ctx, "user-1", turn(id, 1))
	require.NoError(t, err)

	_, err = f.svc.ProcessTurn(ctx, "user-1", turn(id, 1))
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.Equal(t, 1, f.scorer.Calls())
}

func TestProcessTurnUnknownOrForeignSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ProcessTurn(ctx, "user-1", turn("missing", 1))
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	id := f.start(t, "user-1", 30, models.InterviewTypeMixed).Session.ID
	_, err = f.svc.ProcessTurn(ctx, "user-2", turn(id, 1))
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	_, err = f.svc.GetSession(ctx, "user-2", id)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestProcessTurnPersistenceFailureKeepsScoreForRetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.start(t, "user-1", 30, models.InterviewTypeMixed).Session.ID

	f.store.failCommits = 1
	resp, err := f.svc.ProcessTurn(ctx, "user-1", turn(id, 1))
	require.Error(t, err)
	assert.True(t, store.IsPersistenceError(err))
	require.NotNil(t, resp)
	assert.Equal(t, 80.0, resp.Scores.Relevance)
	assert.Equal(t, 1, f.pending.Size())

	stored, err := f.store.LoadSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.AnsweredCount)

	resp, err = f.svc.ProcessTurn(ctx, "user-1", turn(id, 1))
	require.NoError(t, err)
	assert.Equal(t, 80.0, resp.Scores.Relevance)
	assert.Equal(t, 1, f.scorer.Calls(), "retry must not score again")
	assert.Equal(t, 0, f.pending.Size())
}

func TestProcessTurnRetryWithChangedAnswerIsScoredAgain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.start(t, "user-1", 30, models.InterviewTypeMixed).Session.ID

	f.store.failCommits = 1
	_, err := f.svc.ProcessTurn(ctx, "user-1", turn(id, 1))
	require.Error(t, err)
	assert.Equal(t, 1, f.scorer.Calls())

	changed := turn(id, 1)
	changed.AnswerText = "A completely different answer about caching layers."
	_, err = f.svc.ProcessTurn(ctx, "user-1", changed)
	require.NoError(t, err)
	assert.Equal(t, 2, f.scorer.Calls(), "a changed answer must not reuse the pending score")
	assert.Equal(t, 0, f.pending.Size())

	records, err := f.store.ListRecords(ctx, id)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, changed.AnswerText, records[0].AnswerText)
}

func TestProcessTurnConcurrentSameSequence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.start(t, "user-1", 30, models.InterviewTypeMixed).Session.ID

	for seq := 1; seq <= 4; seq++ {
		_, err := f.svc.ProcessTurn(ctx, "user-1", turn(id, seq))
		require.NoError(t, err)
	}
	f.scorer.delay = 30 * time.Millisecond

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.ProcessTurn(ctx, "user-1", turn(id, 5))
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, store.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	stored, err := f.store.LoadSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.AnsweredCount)
}

func TestProcessTurnIgnoresClientCancellation(t *testing.T) {
	f := newFixture(t)
	id := f.start(t, "user-1", 30, models.InterviewTypeMixed).Session.ID

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.ProcessTurn(ctx, "user-1", turn(id, 1))
	require.NoError(t, err)
}

func TestBackfillFinalizesOrphanedSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.start(t, "user-1", 3, models.InterviewTypeMixed).Session.ID

	f.store.failSummaries = 1
	resp, err := f.svc.ProcessTurn(ctx, "user-1", turn(id, 1))
	require.NoError(t, err)
	assert.True(t, resp.IsComplete)
	assert.Nil(t, resp.Summary)

	_, err = f.svc.GetSummary(ctx, "user-1", id)
	assert.ErrorIs(t, err, store.ErrSummaryNotFound)

	written, err := f.svc.BackfillSummaries(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	summary, err := f.svc.GetSummary(ctx, "user-1", id)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.AnswerCount)

	written, err = f.svc.BackfillSummaries(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, written)

	sess, err := f.store.LoadSession(ctx, id)
	require.NoError(t, err)
	_, err = f.svc.FinalizeSession(ctx, sess)
	assert.ErrorIs(t, err, session.ErrAlreadyFinalized)
}

func TestListSessionsAndView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.start(t, "user-1", 30, models.InterviewTypeMixed).Session.ID
	f.start(t, "user-2", 30, models.InterviewTypeMixed)

	_, err := f.svc.ProcessTurn(ctx, "user-1", turn(id, 1))
	require.NoError(t, err)

	views, err := f.svc.ListSessions(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 75.0, views[0].AverageScores.Overall())

	view, err := f.svc.GetSession(ctx, "user-1", id)
	require.NoError(t, err)
	assert.Equal(t, 80.0, view.AverageScores.Relevance)
	assert.Equal(t, 2, view.Version)

	assert.NoError(t, f.svc.Ping(ctx))
	assert.True(t, f.svc.OracleConfigured())
	assert.Greater(t, f.svc.QuestionCount(), 0)
}
