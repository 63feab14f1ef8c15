package scoring

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/llm"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/prompts"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/utils"
)

const maxNarrativeLength = 1200

// Summarizer writes the closing narrative of a finalized session
type Summarizer struct {
	provider      llm.Provider
	promptManager prompts.PromptProvider
	logger        *zap.Logger
}

func NewSummarizer(provider llm.Provider, promptManager prompts.PromptProvider, logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{provider: provider, promptManager: promptManager, logger: logger}
}

// Narrative asks the oracle for a short overall assessment and falls back to a template
func (s *Summarizer) Narrative(ctx context.Context, summary *models.FeedbackSummary, session *models.InterviewSession) string {
	if s == nil || s.provider == nil || s.promptManager == nil {
		return DefaultNarrative(summary)
	}

	prompt, err := s.promptManager.BuildPrompt(prompts.ModeSummary, prompts.DefaultVariant, prompts.SummaryData{
		Position:        session.Position,
		ExperienceLevel: session.ExperienceLevel,
		AnswerCount:     summary.AnswerCount,
		Relevance:       summary.Relevance,
		Clarity:         summary.Clarity,
		Depth:           summary.Depth,
		Confidence:      summary.Confidence,
		Overall:         summary.Overall,
		Recommendation:  summary.Recommendation,
		Strengths:       summary.Strengths,
		Improvements:    summary.Improvements,
	})
	if err != nil {
		s.logger.Warn("Failed to build summary prompt", zap.Error(err))
		return DefaultNarrative(summary)
	}

	resp, err := s.provider.GenerateContent(ctx, prompt, session.ID)
	if err != nil {
		s.logger.Warn("Summary oracle unavailable, using template narrative",
			zap.String("session_id", session.ID), zap.Error(err))
		return DefaultNarrative(summary)
	}

	text := strings.TrimSpace(utils.StripFences(resp.Content))
	if text == "" {
		return DefaultNarrative(summary)
	}
	return truncateRunes(text, maxNarrativeLength)
}

// truncateRunes cuts s to at most maxBytes without splitting a multi-byte rune
func truncateRunes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// DefaultNarrative is the deterministic closing text used without an oracle
func DefaultNarrative(summary *models.FeedbackSummary) string {
	var b strings.Builder
	switch summary.Recommendation {
	case models.RecommendationStrongYes:
		b.WriteString("Excellent interview: your answers were consistently strong.")
	case models.RecommendationYes:
		b.WriteString("Good interview: you handled most questions well.")
	case models.RecommendationMaybe:
		b.WriteString("Mixed interview: some answers landed, others need more work.")
	default:
		b.WriteString("This interview showed clear gaps to work on before the real thing.")
	}
	fmt.Fprintf(&b, " Overall score %.0f/100 across %d answers.", summary.Overall, summary.AnswerCount)
	if len(summary.Strengths) > 0 {
		fmt.Fprintf(&b, " Keep doing this: %s.", strings.ToLower(summary.Strengths[0]))
	}
	if len(summary.Improvements) > 0 {
		fmt.Fprintf(&b, " Practise next: %s.", strings.ToLower(summary.Improvements[0]))
	}
	return b.String()
}
