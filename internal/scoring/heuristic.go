package scoring

import (
	"math"
	"math/rand"
	"regexp"
	"strings"
	"sync"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/utils"
)

const (
	heuristicBase       = 5
	wordsPerPoint       = 30
	keywordBonus        = 2
	briefAnswerWords    = 20
	detailedAnswerWords = 60
	maxListItems        = 5
)

// STAR components, matched case-insensitively
var starPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(situation|context|background)\b`),
	regexp.MustCompile(`(?i)\b(task|goal|objective|challenge)\b`),
	regexp.MustCompile(`(?i)\b(action|did|implemented|developed)\b`),
	regexp.MustCompile(`(?i)\b(result|outcome|impact|achieved)\b`),
}

// Heuristic is the last-resort scorer. Jitter is drawn from an injected source so a fixed seed
// (or zero amplitude) gives reproducible scores.
type Heuristic struct {
	mu     sync.Mutex
	rng    *rand.Rand
	jitter float64
}

// NewHeuristic returns a scorer adding up to ±jitter points (0-10 scale) per dimension.
// A nil source or zero jitter disables the random component.
func NewHeuristic(src rand.Source, jitter float64) *Heuristic {
	h := &Heuristic{jitter: math.Max(0, jitter)}
	if src != nil {
		h.rng = rand.New(src)
	}
	return h
}

// ScoreHeuristically scores an answer on the 0-10 scale:
// base = min(10, 5 + floor(words/30) + (keyword hit ? 2 : 0)), plus bounded jitter.
func (h *Heuristic) ScoreHeuristically(answer string, expectedKeywords []string) models.RubricScores {
	base := baseScore(utils.WordCount(answer), keywordHit(answer, expectedKeywords))
	scores := models.RubricScores{
		Relevance:  base + h.noise(),
		Clarity:    base + h.noise(),
		Depth:      base + h.noise(),
		Confidence: base + h.noise(),
	}
	return scores.Clamp(models.TenPointScaleMax).Round()
}

// Assess wraps ScoreHeuristically with canonical scores and rule-based feedback
func (h *Heuristic) Assess(in Input) Assessment {
	words := utils.WordCount(in.Answer)
	hit := keywordHit(in.Answer, in.Keywords)

	var strengths, improvements []string
	var feedback []string

	switch {
	case words < briefAnswerWords:
		improvements = append(improvements, "Expand your answer with specific examples")
		feedback = append(feedback, "Your answer was brief; walk through a concrete example to show your reasoning.")
	case words >= detailedAnswerWords:
		strengths = append(strengths, "Gave a detailed, thorough answer")
		feedback = append(feedback, "You gave a thorough answer with plenty of detail.")
	default:
		feedback = append(feedback, "Your answer covered the question at a reasonable level of detail.")
	}

	if hit {
		strengths = append(strengths, "Addressed the key concepts of the question")
	} else if len(in.Keywords) > 0 {
		improvements = append(improvements, "Connect your answer to the core concepts the question is probing")
	}

	if in.Stage == models.StageBehavioral || in.Stage == models.StageSituational || in.InterviewType == models.InterviewTypeBehavioral {
		if starComponents(in.Answer) >= 3 {
			strengths = append(strengths, "Used a clear STAR structure")
		} else {
			improvements = append(improvements, "Structure stories as situation, task, action and result")
			feedback = append(feedback, "Try framing the story with the STAR method.")
		}
	}

	if len(strengths) == 0 {
		strengths = append(strengths, "Stayed engaged with the question")
	}
	if len(improvements) == 0 {
		improvements = append(improvements, "Quantify the impact of your work where possible")
	}

	return Assessment{
		Scores:       models.FromTenPoint(h.ScoreHeuristically(in.Answer, in.Keywords)).Round(),
		Feedback:     strings.Join(feedback, " "),
		Strengths:    strengths,
		Improvements: improvements,
		Source:       models.ScoreSourceHeuristic,
		Degraded:     true,
	}
}

func (h *Heuristic) noise() float64 {
	if h == nil || h.rng == nil || h.jitter == 0 {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return (h.rng.Float64()*2 - 1) * h.jitter
}

func baseScore(words int, hit bool) float64 {
	base := heuristicBase + words/wordsPerPoint
	if hit {
		base += keywordBonus
	}
	if base > 10 {
		base = 10
	}
	return float64(base)
}

func keywordHit(answer string, keywords []string) bool {
	lower := strings.ToLower(answer)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func starComponents(answer string) int {
	n := 0
	for _, p := range starPatterns {
		if p.MatchString(answer) {
			n++
		}
	}
	return n
}
