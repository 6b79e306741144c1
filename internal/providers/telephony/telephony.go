package telephony

import (
	"context"
	"strconv"
)

// Action is one step of a call control script (Vonage NCCO shape): a spoken
// announcement or a recording instruction.
type Action struct {
	Action       string   `json:"action"`
	Text         string   `json:"text,omitempty"`
	BeepStart    bool     `json:"beepStart,omitempty"`
	EndOnSilence int      `json:"endOnSilence,omitempty"`
	Format       string   `json:"format,omitempty"`
	EventURL     []string `json:"eventUrl,omitempty"`
}

// BuildScript produces the per-question talk+record sequence with a trailing
// closing announcement. recordEventURL maps a question index to the callback
// the provider hits when that recording is ready.
func BuildScript(questions []string, recordEventURL func(qIdx int) string) []Action {
	script := make([]Action, 0, 2*len(questions)+1)
	for i, q := range questions {
		script = append(script,
			Action{
				Action: "talk",
				Text:   "Question " + strconv.Itoa(i+1) + ". " + q,
			},
			Action{
				Action:       "record",
				BeepStart:    true,
				EndOnSilence: 3,
				Format:       "mp3",
				EventURL:     []string{recordEventURL(i)},
			},
		)
	}
	script = append(script, Action{
		Action: "talk",
		Text:   "Thanks. This concludes the interview. Goodbye.",
	})
	return script
}

// Dispatcher places an outbound call that runs the given script.
type Dispatcher interface {
	DispatchCall(ctx context.Context, toE164, fromE164 string, answerURL, eventURL string) (providerCallID string, err error)
}

// RecordingFetcher downloads a finished recording from the provider.
type RecordingFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
