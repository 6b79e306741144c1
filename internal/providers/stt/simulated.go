package stt

import (
	"context"
	"fmt"
)

// Simulated returns a canned transcript for development mode.
type Simulated struct{}

func (s *Simulated) Transcribe(ctx context.Context, audio []byte, language string) (string, float64, error) {
	return fmt.Sprintf("(simulated transcript, %d audio bytes)", len(audio)), 1.0, nil
}

func (s *Simulated) Close() error { return nil }
