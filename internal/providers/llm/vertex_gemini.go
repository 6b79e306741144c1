package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	vertexgenai "cloud.google.com/go/vertexai/genai"
)

type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	m := c.GenerativeModel(modelName)
	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

const questionPrompt = `You are an expert technical interviewer. From this job description, generate 5-7 concise, role-relevant phone interview questions. Avoid trivia; test applied skill and communication.

JD:
---
%s
---
Return as a numbered list only.`

func (v *VertexGemini) GenerateQuestions(ctx context.Context, jdText string) ([]string, error) {
	text, err := v.generate(ctx, fmt.Sprintf(questionPrompt, jdText))
	if err != nil {
		return nil, err
	}
	qs := parseQuestionList(text)
	if len(qs) == 0 {
		return nil, errors.New("model returned no questions")
	}
	return qs, nil
}

const scoreRubric = `You are a fair interview evaluator. Score each answer from 1-5 (5=excellent) considering relevance, clarity, correctness, and depth. Return JSON:
{
  "per_answer": [{"q_idx":0,"score":4,"rationale":"..."}],
  "final_score": 4.1,
  "recommendation": "Strong yes|Yes|Leaning yes|Neutral|Leaning no|No"
}`

func (v *VertexGemini) Score(ctx context.Context, questions, transcripts []string) (*ScoreResult, error) {
	payload, err := json.Marshal(map[string]any{
		"questions": questions,
		"answers":   transcripts,
	})
	if err != nil {
		return nil, err
	}

	text, err := v.generate(ctx, scoreRubric+"\n\nEvaluate the following interview:\n"+string(payload))
	if err != nil {
		return nil, err
	}

	var result ScoreResult
	if err := extractJSON(text, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (v *VertexGemini) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return "", err
	}

	var out string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				out += string(t)
			}
		}
	}
	if out == "" {
		return "", errors.New("empty model response")
	}
	return out, nil
}
