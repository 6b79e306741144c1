package llm

import "context"

// AnswerScore is one scored answer as returned by the evaluator.
type AnswerScore struct {
	QuestionIndex int     `json:"q_idx"`
	Score         float64 `json:"score"`
	Rationale     string  `json:"rationale"`
}

type ScoreResult struct {
	PerAnswer      []AnswerScore `json:"per_answer"`
	FinalScore     *float64      `json:"final_score"`
	Recommendation string        `json:"recommendation"`
}

type Provider interface {
	// GenerateQuestions turns a job description into an ordered list of
	// phone interview questions.
	GenerateQuestions(ctx context.Context, jdText string) ([]string, error)
	// Score evaluates ordered transcripts against ordered questions.
	Score(ctx context.Context, questions, transcripts []string) (*ScoreResult, error)
	Close() error
}
