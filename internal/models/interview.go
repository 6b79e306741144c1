package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InterviewStatus string

const (
	StatusCreated    InterviewStatus = "created"
	StatusCalling    InterviewStatus = "calling"
	StatusInProgress InterviewStatus = "in_progress"
	StatusCompleted  InterviewStatus = "completed"
	StatusFailed     InterviewStatus = "failed"
)

func (s InterviewStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether the lifecycle machine allows moving from s
// to next. Terminal states accept nothing; self-transitions are not status
// changes and are handled by the caller as no-ops.
func (s InterviewStatus) CanTransition(next InterviewStatus) bool {
	switch s {
	case StatusCreated:
		return next == StatusCalling
	case StatusCalling:
		return next == StatusInProgress || next == StatusFailed
	case StatusInProgress:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

// MapProviderStatus translates a telephony provider event status into a
// lifecycle status. Unrecognized or transient statuses return ok=false and
// must be ignored.
func MapProviderStatus(provider string) (InterviewStatus, bool) {
	switch provider {
	case "completed":
		return StatusCompleted, true
	case "failed", "timeout", "rejected":
		return StatusFailed, true
	default:
		return "", false
	}
}

// Answer is the per-question record embedded in an Interview. QuestionIndex
// is unique within one interview; a replayed callback overwrites in place.
type Answer struct {
	QuestionIndex int      `bson:"q_idx" json:"q_idx"`
	Question      string   `bson:"question" json:"question"`
	RecordingURL  string   `bson:"recording_url" json:"recording_url"`
	LocalAudio    string   `bson:"local_audio" json:"local_audio"`
	Transcript    string   `bson:"transcript" json:"transcript"`
	Score         *float64 `bson:"score,omitempty" json:"score,omitempty"`
	Rationale     string   `bson:"rationale,omitempty" json:"rationale,omitempty"`
}

// Interview is the aggregate root: one candidate's attempt at one job's
// question set, reconciled from asynchronous provider callbacks.
type Interview struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	InterviewID string             `bson:"interview_id" json:"interview_id"`
	JobID       string             `bson:"job_id" json:"job_id"`
	CandidateID string             `bson:"candidate_id" json:"candidate_id"`

	Status         InterviewStatus `bson:"status" json:"status"`
	ProviderCallID string          `bson:"provider_call_id,omitempty" json:"provider_call_id,omitempty"`

	Answers             []Answer `bson:"answers" json:"answers"`
	FinalRecommendation string   `bson:"final_recommendation,omitempty" json:"final_recommendation,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SortedAnswers returns the answers ordered by question index.
func (iv *Interview) SortedAnswers() []Answer {
	out := make([]Answer, len(iv.Answers))
	copy(out, iv.Answers)
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionIndex < out[j].QuestionIndex })
	return out
}

// UpsertAnswer merges a into the answer set keyed by question index,
// overwriting an existing entry but preserving any score already attached.
func (iv *Interview) UpsertAnswer(a Answer) {
	for i := range iv.Answers {
		if iv.Answers[i].QuestionIndex == a.QuestionIndex {
			if a.Score == nil {
				a.Score = iv.Answers[i].Score
				a.Rationale = iv.Answers[i].Rationale
			}
			iv.Answers[i] = a
			return
		}
	}
	iv.Answers = append(iv.Answers, a)
}
