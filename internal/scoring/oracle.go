package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/llm"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/prompts"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/utils"
)

// Oracle scores answers through a language-model provider. It performs exactly one provider
// call per Score and never retries.
type Oracle struct {
	provider      llm.Provider
	promptManager prompts.PromptProvider
	logger        *zap.Logger
}

func NewOracle(provider llm.Provider, promptManager prompts.PromptProvider, logger *zap.Logger) *Oracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Oracle{
		provider:      provider,
		promptManager: promptManager,
		logger:        logger,
	}
}

// rubric as returned by the model; pointers distinguish a missing key from a zero score
type oracleRubric struct {
	Relevance    *float64 `json:"relevance"`
	Clarity      *float64 `json:"clarity"`
	Depth        *float64 `json:"depth"`
	Confidence   *float64 `json:"confidence"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

func (o *Oracle) Score(ctx context.Context, in Input) (Assessment, error) {
	if err := in.validate(); err != nil {
		return Assessment{}, err
	}
	if o == nil || o.provider == nil || o.promptManager == nil {
		return Assessment{}, fmt.Errorf("%w: no provider configured", ErrOracleUnavailable)
	}

	prompt, err := o.promptManager.BuildPrompt(prompts.ModeScoreAnswer, promptVariant(in), prompts.ScoreData{
		Position:        in.Position,
		Company:         in.Company,
		ExperienceLevel: in.ExperienceLevel,
		Stage:           string(in.Stage),
		Question:        in.Question,
		Answer:          in.Answer,
		Keywords:        in.Keywords,
	})
	if err != nil {
		return Assessment{}, fmt.Errorf("%w: build prompt: %w", ErrOracleUnavailable, err)
	}

	resp, err := o.provider.GenerateContent(ctx, prompt, in.RequestID)
	if err != nil {
		return Assessment{}, fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
	}

	assessment, err := ParseRubric(resp.Content)
	if err != nil {
		o.logger.Warn("Oracle returned an unusable rubric",
			zap.String("provider", o.provider.GetProviderName()),
			zap.String("request_id", in.RequestID),
			zap.Error(err))
		return Assessment{}, fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
	}
	assessment.Source = o.provider.GetProviderName()
	return assessment, nil
}

// ParseRubric decodes a model reply into an Assessment. Fenced or prefixed JSON is tolerated;
// any missing rubric dimension is an error. Scores are clamped to 0-100.
func ParseRubric(content string) (Assessment, error) {
	raw := utils.ExtractJSONObject(utils.StripFences(content))

	var rubric oracleRubric
	if err := json.Unmarshal([]byte(raw), &rubric); err != nil {
		return Assessment{}, fmt.Errorf("decode rubric: %w", err)
	}

	var missing []string
	for _, dim := range []struct {
		name  string
		value *float64
	}{
		{"relevance", rubric.Relevance},
		{"clarity", rubric.Clarity},
		{"depth", rubric.Depth},
		{"confidence", rubric.Confidence},
	} {
		if dim.value == nil {
			missing = append(missing, dim.name)
		}
	}
	if len(missing) > 0 {
		return Assessment{}, fmt.Errorf("rubric missing keys: %s", strings.Join(missing, ", "))
	}

	scores := models.RubricScores{
		Relevance:  *rubric.Relevance,
		Clarity:    *rubric.Clarity,
		Depth:      *rubric.Depth,
		Confidence: *rubric.Confidence,
	}

	return Assessment{
		Scores:       scores.Clamp(models.ScaleMax).Round(),
		Feedback:     strings.TrimSpace(rubric.Feedback),
		Strengths:    cleanList(rubric.Strengths),
		Improvements: cleanList(rubric.Improvements),
	}, nil
}

func promptVariant(in Input) string {
	switch in.Stage {
	case models.StageTechnical, models.StageDeep:
		return "technical"
	case models.StageBehavioral, models.StageSituational:
		return "behavioral"
	}
	if in.InterviewType == models.InterviewTypeBehavioral {
		return "behavioral"
	}
	return prompts.DefaultVariant
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
		if len(out) == maxListItems {
			break
		}
	}
	return out
}
