package llm

import (
	"context"
	"fmt"
	"strings"
)

// Simulated is the development-mode evaluator: deterministic questions and
// scores, no external calls.
type Simulated struct{}

func (s *Simulated) GenerateQuestions(ctx context.Context, jdText string) ([]string, error) {
	role := "this role"
	if line := firstNonEmptyLine(jdText); line != "" {
		if len(line) > 60 {
			line = line[:60]
		}
		role = line
	}
	return []string{
		fmt.Sprintf("Tell me about your most relevant experience for %s.", role),
		"Walk me through a challenging technical problem you solved recently.",
		"How do you approach testing and code review in your day to day work?",
		"Describe a time you disagreed with a teammate and how you resolved it.",
		"What interests you about this position and what are your salary expectations?",
	}, nil
}

func (s *Simulated) Score(ctx context.Context, questions, transcripts []string) (*ScoreResult, error) {
	res := &ScoreResult{}
	var total float64
	for i, t := range transcripts {
		// Longer answers score a little higher, capped well below perfect.
		score := 5.0 + float64(len(t)%40)/10.0
		res.PerAnswer = append(res.PerAnswer, AnswerScore{
			QuestionIndex: i,
			Score:         score,
			Rationale:     "Simulated evaluation for local development.",
		})
		total += score
	}
	if len(transcripts) > 0 {
		avg := total / float64(len(transcripts))
		res.FinalScore = &avg
		if avg >= 6.0 {
			res.Recommendation = "hire"
		} else {
			res.Recommendation = "no_hire"
		}
	}
	return res, nil
}

func (s *Simulated) Close() error { return nil }

func firstNonEmptyLine(text string) string {
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}
