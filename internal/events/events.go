package events

import "context"

// Event is one lifecycle notification for an interview, forwarded to any
// WebSocket watcher of that interview.
type Event struct {
	Type          string `json:"type"` // answer_recorded | status_changed | scored
	InterviewID   string `json:"interview_id"`
	QuestionIndex *int   `json:"q_idx,omitempty"`
	Status        string `json:"status,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Channel returns the pub/sub channel carrying one interview's events.
func Channel(interviewID string) string {
	return "interview:" + interviewID + ":events"
}
