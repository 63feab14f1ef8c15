package prompts

// template modes
const (
	ModeScoreAnswer = "score_answer"
	ModeSummary     = "summary"
)

// ScoreData feeds templates/score_answer.yaml
type ScoreData struct {
	Position        string
	Company         string
	ExperienceLevel string
	Stage           string
	Question        string
	Answer          string
	Keywords        []string
}

// SummaryData feeds templates/summary.yaml; scores are on the 0-100 scale
type SummaryData struct {
	Position        string
	ExperienceLevel string
	AnswerCount     int
	Relevance       float64
	Clarity         float64
	Depth           float64
	Confidence      float64
	Overall         float64
	Recommendation  string
	Strengths       []string
	Improvements    []string
}
