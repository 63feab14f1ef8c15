package scoring

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/metrics"
)

// Engine tries the oracle first and falls back to the heuristic. Score always returns an assessment.
type Engine struct {
	oracle       AnswerScorer
	providerName string
	heuristic    *Heuristic
	timeout      time.Duration
	logger       *zap.Logger
}

// NewEngine wires an oracle (may be nil) with the fallback heuristic
func NewEngine(oracle AnswerScorer, providerName string, heuristic *Heuristic, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if heuristic == nil {
		heuristic = NewHeuristic(nil, 0)
	}
	if providerName == "" {
		providerName = "none"
	}
	return &Engine{
		oracle:       oracle,
		providerName: providerName,
		heuristic:    heuristic,
		logger:       logger,
	}
}

// WithOracleTimeout bounds each oracle call; zero leaves only the caller's deadline
func (e *Engine) WithOracleTimeout(timeout time.Duration) *Engine {
	e.timeout = timeout
	return e
}

func (e *Engine) Score(ctx context.Context, in Input) Assessment {
	if e.oracle != nil {
		start := time.Now()
		assessment, err := e.scoreWithOracle(ctx, in)
		if err == nil {
			metrics.ObserveOracle(e.providerName, metrics.OracleSuccess, time.Since(start))
			return assessment
		}
		metrics.ObserveOracle(e.providerName, metrics.OracleUnavailable, time.Since(start))
		e.logger.Warn("Scoring oracle unavailable, using heuristic",
			zap.String("provider", e.providerName),
			zap.String("request_id", in.RequestID),
			zap.Error(err))
	}
	return e.heuristic.Assess(in)
}

// OracleConfigured reports whether an oracle is wired in
func (e *Engine) OracleConfigured() bool {
	return e.oracle != nil
}

func (e *Engine) scoreWithOracle(ctx context.Context, in Input) (Assessment, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	return e.oracle.Score(ctx, in)
}
