package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/Rushil1274/palcodeai-local-testing/internal/models"
	"github.com/Rushil1274/palcodeai-local-testing/internal/utils"
)

// SimulateAnswers fills an interview with plausible fake answers so the
// scoring flow can be exercised without placing a real call. Wired only in
// development mode.
func (s *interviewService) SimulateAnswers(ctx context.Context, interviewID string) (int, error) {
	const op = "InterviewService.SimulateAnswers"

	unlock := s.locks.Lock(interviewID)
	defer unlock()

	iv, err := s.d.Interviews.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return 0, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return 0, utils.E(utils.CodeInternal, op, "failed to load interview", err)
	}
	job, err := s.d.Jobs.GetByID(ctx, iv.JobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return 0, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return 0, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}

	for idx, q := range job.Questions {
		iv.UpsertAnswer(models.Answer{
			QuestionIndex: idx,
			Question:      q,
			RecordingURL:  fmt.Sprintf("https://fake-recording-service.example/%s_q_%d.mp3", interviewID, idx),
			LocalAudio:    "/v1/artifacts/" + audioKey(interviewID, idx),
			Transcript:    fakeAnswer(idx),
		})
	}
	if err := s.d.Interviews.ReplaceAnswers(ctx, interviewID, iv.Answers); err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to persist simulated answers", err)
	}
	if err := s.d.Interviews.SetStatusIfNotTerminal(ctx, interviewID, models.StatusCompleted); err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to complete interview", err)
	}

	s.invalidate(ctx, interviewID)
	return len(job.Questions), nil
}

func (s *interviewService) Stats(ctx context.Context) (*SystemStats, error) {
	const op = "InterviewService.Stats"

	out := &SystemStats{}
	var err error
	if out.Jobs, err = s.d.Jobs.Count(ctx); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count jobs", err)
	}
	if out.Candidates, err = s.d.Candidates.Count(ctx); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count candidates", err)
	}
	if out.Interviews, err = s.d.Interviews.Count(ctx); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count interviews", err)
	}

	if job, err := s.d.Jobs.Latest(ctx); err == nil {
		out.LatestJobID = job.ID
	}
	if cand, err := s.d.Candidates.Latest(ctx); err == nil {
		out.LatestCandidateID = cand.ID
	}
	if iv, err := s.d.Interviews.Latest(ctx); err == nil {
		out.LatestInterviewID = iv.InterviewID
	}
	return out, nil
}

var fakeTemplates = []string{
	"I have about %d years of experience with %s, mostly building backend services alongside %s.",
	"For the last %d years I've used %s heavily; I pair it with %s to build and operate APIs.",
	"I picked up %s around %d years ago in my current role and use %s for delivery and testing.",
	"Over %d years I've shipped several projects with %s; the hardest one also involved %s at scale.",
	"Roughly %d years combined across %s and %s, with a focus on reliability and clear communication.",
}

var fakeSkills = []string{"Go", "PostgreSQL", "REST APIs", "Docker", "AWS", "Redis", "Kubernetes", "testing"}

func fakeAnswer(idx int) string {
	t := fakeTemplates[idx%len(fakeTemplates)]
	years := 2 + rand.Intn(4)
	a := fakeSkills[idx%len(fakeSkills)]
	b := fakeSkills[(idx+3)%len(fakeSkills)]
	if idx%len(fakeTemplates) == 2 {
		return fmt.Sprintf(t, a, years, b)
	}
	return fmt.Sprintf(t, years, a, b)
}
