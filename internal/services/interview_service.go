// Package services runs interview turns: lease, load, score, record, persist and finalize.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/feedback"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/metrics"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/progression"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/questions"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/scoring"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/session"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/store"
)

const (
	DefaultTurnTimeout = 45 * time.Second
	listSessionsLimit  = 50
)

var (
	// ErrStaleSequence means the answer does not follow the last recorded one
	ErrStaleSequence = fmt.Errorf("%w: stale answer sequence", store.ErrConflict)
	// ErrSessionCompleted means every question has already been answered
	ErrSessionCompleted = fmt.Errorf("%w: session already completed", store.ErrConflict)
)

// Store is the persistence the service needs; *store.Store implements it
type Store interface {
	CreateSession(ctx context.Context, s *models.InterviewSession) error
	LoadSession(ctx context.Context, id string) (*models.InterviewSession, error)
	CommitTurn(ctx context.Context, s *models.InterviewSession, record *models.QuestionAnswerRecord) error
	ListRecords(ctx context.Context, sessionID string) ([]models.QuestionAnswerRecord, error)
	ListSessionsByUser(ctx context.Context, userID string, limit int) ([]models.InterviewSession, error)
	SaveSummary(ctx context.Context, summary *models.FeedbackSummary) error
	LoadSummary(ctx context.Context, sessionID string) (*models.FeedbackSummary, error)
	FindUnfinalized(ctx context.Context, limit int) ([]models.InterviewSession, error)
	Ping(ctx context.Context) error
}

// Scorer never fails; it degrades to the heuristic instead
type Scorer interface {
	Score(ctx context.Context, in scoring.Input) scoring.Assessment
	OracleConfigured() bool
}

type Narrator interface {
	Narrative(ctx context.Context, summary *models.FeedbackSummary, s *models.InterviewSession) string
}

type InterviewService struct {
	store       Store
	locker      store.Locker
	scorer      Scorer
	bank        *questions.Bank
	pending     *feedback.ScoreCache
	narrator    Narrator
	turnTimeout time.Duration
	logger      *zap.Logger
}

func NewInterviewService(
	st Store,
	locker store.Locker,
	scorer Scorer,
	bank *questions.Bank,
	pending *feedback.ScoreCache,
	narrator Narrator,
	turnTimeout time.Duration,
	logger *zap.Logger,
) *InterviewService {
	if turnTimeout <= 0 {
		turnTimeout = DefaultTurnTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterviewService{
		store:       st,
		locker:      locker,
		scorer:      scorer,
		bank:        bank,
		pending:     pending,
		narrator:    narrator,
		turnTimeout: turnTimeout,
		logger:      logger,
	}
}

// StartSession creates a session and returns it with its first question
func (s *InterviewService) StartSession(ctx context.Context, userID string, req *models.StartSessionRequest) (*models.StartSessionResponse, error) {
	total := progression.TotalQuestions(req.DurationMinutes)
	stage := progression.NextStage(0, total, req.InterviewType)
	first := s.bank.Next(stage, nil, req.Position, req.Company)

	sess := &models.InterviewSession{
		ID:                uuid.NewString(),
		UserID:            userID,
		Position:          req.Position,
		Company:           req.Company,
		ExperienceLevel:   req.ExperienceLevel,
		InterviewType:     req.InterviewType,
		Stage:             stage,
		Status:            models.StatusActive,
		TotalQuestions:    total,
		CurrentQuestionID: first.ID,
		CurrentQuestion:   first.Text,
		Version:           1,
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Info("Interview session started",
		zap.String("session_id", sess.ID),
		zap.String("interview_type", sess.InterviewType),
		zap.Int("total_questions", total))

	question := first.View()
	question.Stage = stage
	return &models.StartSessionResponse{
		Session:  models.SessionView{InterviewSession: sess},
		Question: question,
	}, nil
}

// ProcessTurn scores and records one answer. Client cancellation does not abort the turn.
// On a persistence failure the scored response is returned together with the error so the
// caller can surface the scores; the score is kept for the retry.
func (s *InterviewService) ProcessTurn(ctx context.Context, userID string, req *models.TurnRequest) (*models.TurnResponse, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.turnTimeout)
	defer cancel()

	waitStart := time.Now()
	release, err := s.locker.Acquire(ctx, req.SessionID)
	metrics.ObserveLeaseWait(time.Since(waitStart))
	if err != nil {
		s.observeFailure(err)
		return nil, err
	}
	defer release()

	sess, err := s.loadOwned(ctx, userID, req.SessionID)
	if err != nil {
		s.observeFailure(err)
		return nil, err
	}
	if sess.IsCompleted() {
		metrics.ObserveTurn(metrics.OutcomeConflict)
		return nil, ErrSessionCompleted
	}
	if req.AnswerSequenceNumber != sess.AnsweredCount+1 {
		metrics.ObserveTurn(metrics.OutcomeConflict)
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrStaleSequence, sess.AnsweredCount+1, req.AnswerSequenceNumber)
	}

	records, err := s.store.ListRecords(ctx, sess.ID)
	if err != nil {
		s.observeFailure(err)
		return nil, err
	}

	stage := progression.NextStage(sess.AnsweredCount, sess.TotalQuestions, sess.InterviewType)
	if req.Stage != "" && models.Stage(strings.ToLower(req.Stage)) != stage {
		s.logger.Debug("Client stage differs from server stage",
			zap.String("session_id", sess.ID),
			zap.String("client_stage", req.Stage),
			zap.String("server_stage", string(stage)))
	}
	question := s.currentQuestion(sess, req)

	key := feedback.Key(sess.ID, req.AnswerSequenceNumber)
	assessment, cached := s.pending.Get(key, req.AnswerText)
	if !cached {
		assessment = s.scorer.Score(ctx, scoring.Input{
			Question:        question.Text,
			Answer:          req.AnswerText,
			Stage:           stage,
			InterviewType:   sess.InterviewType,
			Position:        sess.Position,
			Company:         sess.Company,
			ExperienceLevel: sess.ExperienceLevel,
			Keywords:        question.Keywords,
			RequestID:       key,
		})
	}

	record := &models.QuestionAnswerRecord{
		SessionID:      sess.ID,
		SequenceNumber: req.AnswerSequenceNumber,
		QuestionID:     question.ID,
		QuestionText:   question.Text,
		AnswerText:     req.AnswerText,
		StageAtAsk:     stage,
		FeedbackText:   assessment.Feedback,
		Strengths:      assessment.Strengths,
		Improvements:   assessment.Improvements,
		ScoreSource:    assessment.Source,
		OracleDegraded: assessment.Degraded,
	}
	record.SetScores(assessment.Scores)

	updated, err := session.RecordAnswer(sess, record)
	if err != nil {
		metrics.ObserveTurn(metrics.OutcomeConflict)
		return nil, fmt.Errorf("%w: %w", store.ErrConflict, err)
	}

	resp := &models.TurnResponse{
		Scores:         assessment.Scores,
		OverallScore:   assessment.Scores.Overall(),
		FeedbackText:   assessment.Feedback,
		Strengths:      assessment.Strengths,
		Improvements:   assessment.Improvements,
		NextStage:      updated.Stage,
		IsComplete:     updated.IsCompleted(),
		OracleDegraded: assessment.Degraded,
		AnsweredCount:  updated.AnsweredCount,
		TotalQuestions: updated.TotalQuestions,
	}

	if !updated.IsCompleted() {
		asked := make([]string, 0, len(records)+1)
		for i := range records {
			asked = append(asked, records[i].QuestionID)
		}
		asked = append(asked, question.ID)

		next := s.bank.Next(updated.Stage, asked, sess.Position, sess.Company)
		updated.CurrentQuestionID = next.ID
		updated.CurrentQuestion = next.Text

		view := next.View()
		view.Stage = updated.Stage
		resp.NextQuestion = &view
	}

	if err := s.store.CommitTurn(ctx, updated, record); err != nil {
		if store.IsPersistenceError(err) {
			s.pending.Set(key, req.AnswerText, assessment)
			metrics.ObserveTurn(metrics.OutcomePersistFail)
			s.logger.Error("Failed to persist turn; score kept for retry",
				zap.String("session_id", sess.ID),
				zap.Int("sequence", req.AnswerSequenceNumber),
				zap.Error(err))
			return resp, err
		}
		s.observeFailure(err)
		return nil, err
	}
	s.pending.Delete(key)

	if assessment.Degraded {
		metrics.ObserveTurn(metrics.OutcomeDegraded)
	} else {
		metrics.ObserveTurn(metrics.OutcomeOK)
	}

	s.logger.Info("Turn recorded",
		zap.String("session_id", sess.ID),
		zap.Int("sequence", req.AnswerSequenceNumber),
		zap.String("stage", string(stage)),
		zap.String("score_source", assessment.Source),
		zap.Bool("complete", updated.IsCompleted()))

	if updated.IsCompleted() {
		metrics.ObserveSessionCompleted()
		summary, err := s.FinalizeSession(ctx, updated)
		if err != nil {
			s.logger.Warn("Failed to finalize session; backfill will retry",
				zap.String("session_id", sess.ID), zap.Error(err))
		} else {
			resp.Summary = summary
		}
	}
	return resp, nil
}

// FinalizeSession computes, narrates and stores the summary of a completed session
func (s *InterviewService) FinalizeSession(ctx context.Context, sess *models.InterviewSession) (*models.FeedbackSummary, error) {
	existing, err := s.store.LoadSummary(ctx, sess.ID)
	if err != nil && !errors.Is(err, store.ErrSummaryNotFound) {
		return nil, err
	}

	records, err := s.store.ListRecords(ctx, sess.ID)
	if err != nil {
		return nil, err
	}

	summary, err := session.Finalize(sess, records, existing)
	if err != nil {
		return nil, err
	}
	if s.narrator != nil {
		summary.Narrative = s.narrator.Narrative(ctx, summary, sess)
	} else {
		summary.Narrative = scoring.DefaultNarrative(summary)
	}

	if err := s.store.SaveSummary(ctx, summary); err != nil {
		if errors.Is(err, store.ErrSummaryExists) {
			return nil, session.ErrAlreadyFinalized
		}
		return nil, err
	}

	s.logger.Info("Session finalized",
		zap.String("session_id", sess.ID),
		zap.Float64("overall", summary.Overall),
		zap.String("recommendation", summary.Recommendation))
	return summary, nil
}

// BackfillSummaries finalizes completed sessions that have no summary. It returns how many
// summaries were written.
func (s *InterviewService) BackfillSummaries(ctx context.Context, limit int) (int, error) {
	sessions, err := s.store.FindUnfinalized(ctx, limit)
	if err != nil {
		return 0, err
	}

	written := 0
	for i := range sessions {
		if _, err := s.FinalizeSession(ctx, &sessions[i]); err != nil {
			if errors.Is(err, session.ErrAlreadyFinalized) {
				continue
			}
			s.logger.Warn("Backfill could not finalize session",
				zap.String("session_id", sessions[i].ID), zap.Error(err))
			continue
		}
		written++
	}
	return written, nil
}

func (s *InterviewService) GetSession(ctx context.Context, userID, sessionID string) (*models.SessionView, error) {
	sess, err := s.loadOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return &models.SessionView{InterviewSession: sess, AverageScores: sess.RunningAverage()}, nil
}

func (s *InterviewService) GetSummary(ctx context.Context, userID, sessionID string) (*models.FeedbackSummary, error) {
	if _, err := s.loadOwned(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.store.LoadSummary(ctx, sessionID)
}

// ListSessions returns the user's sessions, newest first
func (s *InterviewService) ListSessions(ctx context.Context, userID string) ([]models.SessionView, error) {
	sessions, err := s.store.ListSessionsByUser(ctx, userID, listSessionsLimit)
	if err != nil {
		return nil, err
	}
	views := make([]models.SessionView, len(sessions))
	for i := range sessions {
		views[i] = models.SessionView{InterviewSession: &sessions[i], AverageScores: sessions[i].RunningAverage()}
	}
	return views, nil
}

// Ping checks the store
func (s *InterviewService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// OracleConfigured reports whether answers are scored by a language model
func (s *InterviewService) OracleConfigured() bool {
	return s.scorer.OracleConfigured()
}

// QuestionCount is the size of the question bank
func (s *InterviewService) QuestionCount() int {
	return s.bank.Size()
}

// sessions owned by another user are reported as missing
func (s *InterviewService) loadOwned(ctx context.Context, userID, sessionID string) (*models.InterviewSession, error) {
	sess, err := s.store.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if userID != "" && sess.UserID != "" && sess.UserID != userID {
		return nil, store.ErrSessionNotFound
	}
	return sess, nil
}

// currentQuestion is the question the session is waiting on; the request's question id is only
// used when the session has none recorded
func (s *InterviewService) currentQuestion(sess *models.InterviewSession, req *models.TurnRequest) questions.Question {
	id := sess.CurrentQuestionID
	if id == "" {
		id = req.QuestionID
	} else if req.QuestionID != "" && req.QuestionID != id {
		s.logger.Warn("Answer submitted for a question other than the current one",
			zap.String("session_id", sess.ID),
			zap.String("current_question_id", id),
			zap.String("submitted_question_id", req.QuestionID))
	}

	q, ok := s.bank.Get(id, sess.Position, sess.Company)
	if !ok {
		q = questions.Question{ID: id}
	}
	if sess.CurrentQuestion != "" && id == sess.CurrentQuestionID {
		q.Text = sess.CurrentQuestion
	}
	return q
}

func (s *InterviewService) observeFailure(err error) {
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		metrics.ObserveTurn(metrics.OutcomeNotFound)
	case errors.Is(err, store.ErrConflict):
		metrics.ObserveTurn(metrics.OutcomeConflict)
	case store.IsPersistenceError(err):
		metrics.ObserveTurn(metrics.OutcomePersistFail)
	default:
		metrics.ObserveTurn(metrics.OutcomeError)
	}
}
