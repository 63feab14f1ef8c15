// Package store is the persistence gateway for interview sessions, their answer records and
// summaries. Sessions are saved with a compare-and-swap on Version; records are append-only.
package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
)

type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return persistErr("ping", err)
	}
	return persistErr("ping", sqlDB.PingContext(ctx))
}

// CreateSession inserts a new session at version 1
func (s *Store) CreateSession(ctx context.Context, session *models.InterviewSession) error {
	if session.Version == 0 {
		session.Version = 1
	}
	return persistErr("create session", s.DB.WithContext(ctx).Create(session).Error)
}

func (s *Store) LoadSession(ctx context.Context, id string) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, persistErr("load session", err)
	}
	return &session, nil
}

// SaveSession writes the session only if the stored version still matches session.Version,
// then bumps session.Version in place.
func (s *Store) SaveSession(ctx context.Context, session *models.InterviewSession) error {
	return saveSession(s.DB.WithContext(ctx), session)
}

func saveSession(db *gorm.DB, session *models.InterviewSession) error {
	updatedAt := time.Now().UTC()
	res := db.Model(&models.InterviewSession{}).
		Where("id = ? AND version = ?", session.ID, session.Version).
		Updates(map[string]interface{}{
			"stage":               session.Stage,
			"status":              session.Status,
			"total_questions":     session.TotalQuestions,
			"answered_count":      session.AnsweredCount,
			"relevance_sum":       session.RelevanceSum,
			"clarity_sum":         session.ClaritySum,
			"depth_sum":           session.DepthSum,
			"confidence_sum":      session.ConfidenceSum,
			"degraded_count":      session.DegradedCount,
			"current_question_id": session.CurrentQuestionID,
			"current_question":    session.CurrentQuestion,
			"completed_at":        session.CompletedAt,
			"updated_at":          updatedAt,
			"version":             session.Version + 1,
		})
	if res.Error != nil {
		return persistErr("save session", res.Error)
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.InterviewSession{}).Where("id = ?", session.ID).Count(&count).Error; err != nil {
			return persistErr("save session", err)
		}
		if count == 0 {
			return ErrSessionNotFound
		}
		return ErrConflict
	}

	session.Version++
	session.UpdatedAt = updatedAt
	return nil
}

// AppendRecord inserts the record unless (session, sequence) already exists.
// created is false for a duplicate, which is not an error.
func (s *Store) AppendRecord(ctx context.Context, record *models.QuestionAnswerRecord) (bool, error) {
	return appendRecord(s.DB.WithContext(ctx), record)
}

func appendRecord(db *gorm.DB, record *models.QuestionAnswerRecord) (bool, error) {
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "sequence_number"}},
		DoNothing: true,
	}).Create(record)
	if res.Error != nil {
		return false, persistErr("append record", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CommitTurn appends the record and saves the session atomically. A duplicate record rolls the
// transaction back with ErrConflict so the answered count cannot be incremented twice.
func (s *Store) CommitTurn(ctx context.Context, session *models.InterviewSession, record *models.QuestionAnswerRecord) error {
	version := session.Version
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := appendRecord(tx, record)
		if err != nil {
			return err
		}
		if !created {
			return ErrConflict
		}
		return saveSession(tx, session)
	})
	if err != nil {
		// rolled back: the caller's copy must not claim the new version
		session.Version = version
		if errors.Is(err, ErrConflict) || errors.Is(err, ErrSessionNotFound) || IsPersistenceError(err) {
			return err
		}
		return persistErr("commit turn", err)
	}
	return nil
}

// ListRecords returns a session's records in sequence order
func (s *Store) ListRecords(ctx context.Context, sessionID string) ([]models.QuestionAnswerRecord, error) {
	records := []models.QuestionAnswerRecord{}
	err := s.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("sequence_number ASC").
		Find(&records).Error
	if err != nil {
		return nil, persistErr("list records", err)
	}
	return records, nil
}

// ListSessionsByUser returns the user's sessions, newest first
func (s *Store) ListSessionsByUser(ctx context.Context, userID string, limit int) ([]models.InterviewSession, error) {
	sessions := []models.InterviewSession{}
	q := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&sessions).Error; err != nil {
		return nil, persistErr("list sessions", err)
	}
	return sessions, nil
}

// SaveSummary stores a session's summary; a second summary for the same session is rejected
func (s *Store) SaveSummary(ctx context.Context, summary *models.FeedbackSummary) error {
	res := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoNothing: true,
	}).Create(summary)
	if res.Error != nil {
		return persistErr("save summary", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSummaryExists
	}
	return nil
}

func (s *Store) LoadSummary(ctx context.Context, sessionID string) (*models.FeedbackSummary, error) {
	var summary models.FeedbackSummary
	err := s.DB.WithContext(ctx).Where("session_id = ?", sessionID).First(&summary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSummaryNotFound
	}
	if err != nil {
		return nil, persistErr("load summary", err)
	}
	return &summary, nil
}

// FindUnfinalized returns completed sessions that have no summary yet, oldest first
func (s *Store) FindUnfinalized(ctx context.Context, limit int) ([]models.InterviewSession, error) {
	sessions := []models.InterviewSession{}
	q := s.DB.WithContext(ctx).
		Where("status = ?", models.StatusCompleted).
		Where("NOT EXISTS (SELECT 1 FROM feedback_summaries WHERE feedback_summaries.session_id = interview_sessions.id)").
		Order("completed_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&sessions).Error; err != nil {
		return nil, persistErr("find unfinalized", err)
	}
	return sessions, nil
}
