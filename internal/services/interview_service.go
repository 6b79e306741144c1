package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Rushil1274/palcodeai-local-testing/internal/cache"
	"github.com/Rushil1274/palcodeai-local-testing/internal/events"
	"github.com/Rushil1274/palcodeai-local-testing/internal/models"
	"github.com/Rushil1274/palcodeai-local-testing/internal/providers/llm"
	"github.com/Rushil1274/palcodeai-local-testing/internal/providers/stt"
	"github.com/Rushil1274/palcodeai-local-testing/internal/providers/telephony"
	mongorepo "github.com/Rushil1274/palcodeai-local-testing/internal/repositories/mongo"
	pgrepo "github.com/Rushil1274/palcodeai-local-testing/internal/repositories/postgres"
	"github.com/Rushil1274/palcodeai-local-testing/internal/storage"
	"github.com/Rushil1274/palcodeai-local-testing/internal/utils"
)

type TriggerInput struct {
	JobID       string
	CandidateID string
	Name        string
	PhoneE164   string
	FromNumber  string
}

type TriggerResult struct {
	InterviewID    string `json:"interview_id"`
	ProviderCallID string `json:"call_uuid"`
	CandidateID    string `json:"candidate_id"`
	JobID          string `json:"job_id"`
}

type JobSnapshot struct {
	JobID     string   `json:"job_id"`
	Questions []string `json:"questions"`
}

type CandidateSnapshot struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	PhoneE164   string `json:"phone_e164"`
}

// InterviewSnapshot is the full read model: interview state with nested job
// questions and candidate identity, answers ordered by question index.
type InterviewSnapshot struct {
	InterviewID         string                 `json:"interview_id"`
	Status              models.InterviewStatus `json:"status"`
	Job                 JobSnapshot            `json:"job"`
	Candidate           CandidateSnapshot      `json:"candidate"`
	Answers             []models.Answer        `json:"answers"`
	FinalRecommendation string                 `json:"final_recommendation,omitempty"`
}

type SystemStats struct {
	Jobs              int64  `json:"jobs"`
	Candidates        int64  `json:"candidates"`
	Interviews        int64  `json:"interviews"`
	LatestJobID       string `json:"latest_job_id,omitempty"`
	LatestCandidateID string `json:"latest_candidate_id,omitempty"`
	LatestInterviewID string `json:"latest_interview_id,omitempty"`
}

type InterviewService interface {
	// Trigger resolves job and candidate, creates the interview record, and
	// dispatches the outbound call.
	Trigger(ctx context.Context, in TriggerInput) (*TriggerResult, error)
	// RecordAnswer reconciles a "recording ready" callback: download, store,
	// transcribe, and upsert the answer by question index. Replays are safe.
	RecordAnswer(ctx context.Context, interviewID string, questionIndex int, recordingURL string) error
	// HandleCallEvent applies a provider call-status event; unrecognized
	// statuses are ignored and terminal statuses never regress.
	HandleCallEvent(ctx context.Context, interviewID, providerStatus string) error
	// GetResult returns the snapshot, first running reconcileAndMaybeScore.
	GetResult(ctx context.Context, interviewID string) (*InterviewSnapshot, error)
	// CallScript loads the stored call script for the answer webhook.
	CallScript(ctx context.Context, interviewID string) ([]telephony.Action, error)

	// Development-mode helpers.
	SimulateAnswers(ctx context.Context, interviewID string) (int, error)
	Stats(ctx context.Context) (*SystemStats, error)
}

type InterviewDeps struct {
	Jobs       pgrepo.JobRepository
	Candidates pgrepo.CandidateRepository
	Interviews mongorepo.InterviewRepository

	Dispatcher telephony.Dispatcher
	Recordings telephony.RecordingFetcher
	STT        stt.Provider
	LLM        llm.Provider
	Store      storage.Store

	Cache  cache.Cache      // optional snapshot cache
	Events events.Publisher // optional event feed
	Logger *logrus.Logger

	PublicBaseURL string
	Whitelist     map[string]struct{}
	SkipWhitelist bool
	STTLanguage   string
}

type interviewService struct {
	d     InterviewDeps
	locks *keyedMutex
}

func NewInterviewService(d InterviewDeps) InterviewService {
	if d.Logger == nil {
		d.Logger = logrus.New()
	}
	return &interviewService{d: d, locks: newKeyedMutex()}
}

func nccoKey(interviewID string) string { return "ncco/" + interviewID + ".json" }

func audioKey(interviewID string, qIdx int) string {
	return fmt.Sprintf("%s/q_%d.mp3", interviewID, qIdx)
}

func snapshotKey(interviewID string) string { return "interview:" + interviewID + ":snapshot" }

func (s *interviewService) Trigger(ctx context.Context, in TriggerInput) (*TriggerResult, error) {
	const op = "InterviewService.Trigger"

	if in.FromNumber == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "from_number is required", nil)
	}

	job, err := s.resolveJob(ctx, in.JobID)
	if err != nil {
		return nil, err
	}
	cand, err := s.resolveCandidate(ctx, in)
	if err != nil {
		return nil, err
	}

	iv := &models.Interview{
		InterviewID: uuid.NewString(),
		JobID:       job.ID,
		CandidateID: cand.ID,
		Status:      models.StatusCalling,
		Answers:     []models.Answer{},
	}
	if err := s.d.Interviews.Create(ctx, iv); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create interview", err)
	}

	if err := s.saveCallScript(ctx, iv.InterviewID, job.Questions); err != nil {
		s.markDispatchFailed(ctx, iv.InterviewID)
		return nil, utils.E(utils.CodeInternal, op, "failed to persist call script", err)
	}

	answerURL := s.d.PublicBaseURL + "/v1/voice/answer?n=" + iv.InterviewID
	eventURL := s.d.PublicBaseURL + "/v1/voice/event?n=" + iv.InterviewID

	callID, err := s.d.Dispatcher.DispatchCall(ctx, cand.PhoneE164, in.FromNumber, answerURL, eventURL)
	if err != nil {
		s.markDispatchFailed(ctx, iv.InterviewID)
		return nil, utils.E(utils.CodeUnavailable, op, "call dispatch failed", err)
	}

	if err := s.d.Interviews.SetDispatchResult(ctx, iv.InterviewID, callID); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to record dispatch result", err)
	}

	return &TriggerResult{
		InterviewID:    iv.InterviewID,
		ProviderCallID: callID,
		CandidateID:    cand.ID,
		JobID:          job.ID,
	}, nil
}

func (s *interviewService) resolveJob(ctx context.Context, jobID string) (*models.Job, error) {
	const op = "InterviewService.Trigger"

	var (
		job *models.Job
		err error
	)
	if jobID != "" {
		job, err = s.d.Jobs.GetByID(ctx, jobID)
	} else {
		job, err = s.d.Jobs.Latest(ctx)
	}
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "no job found; create questions first", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resolve job", err)
	}
	return job, nil
}

func (s *interviewService) resolveCandidate(ctx context.Context, in TriggerInput) (*models.Candidate, error) {
	const op = "InterviewService.Trigger"

	if in.CandidateID != "" {
		cand, err := s.d.Candidates.GetByID(ctx, in.CandidateID)
		if err != nil {
			if errors.Is(err, utils.ErrNotFound) {
				return nil, utils.E(utils.CodeNotFound, op, "candidate_id invalid", err)
			}
			return nil, utils.E(utils.CodeInternal, op, "failed to resolve candidate", err)
		}
		return cand, nil
	}

	if in.Name == "" || in.PhoneE164 == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "provide candidate_id OR name + phone_e164", nil)
	}

	phone, err := utils.NormalizeE164(in.PhoneE164)
	if err != nil {
		return nil, err
	}
	if !s.d.SkipWhitelist {
		if err := utils.EnsureWhitelisted(phone, s.d.Whitelist); err != nil {
			return nil, err
		}
	}

	cand := &models.Candidate{
		ID:        uuid.NewString(),
		Name:      in.Name,
		PhoneE164: phone,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.d.Candidates.Insert(ctx, cand); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist candidate", err)
	}
	return cand, nil
}

func (s *interviewService) saveCallScript(ctx context.Context, interviewID string, questions []string) error {
	script := telephony.BuildScript(questions, func(qIdx int) string {
		return fmt.Sprintf("%s/v1/voice/record?interview_id=%s&q_idx=%d", s.d.PublicBaseURL, interviewID, qIdx)
	})
	b, err := json.Marshal(script)
	if err != nil {
		return err
	}
	_, err = s.d.Store.Put(ctx, nccoKey(interviewID), "application/json", bytes.NewReader(b))
	return err
}

// CallScript loads the stored NCCO for the provider's answer webhook.
func (s *interviewService) CallScript(ctx context.Context, interviewID string) ([]telephony.Action, error) {
	rc, err := s.d.Store.Open(ctx, nccoKey(interviewID))
	if err != nil {
		return nil, utils.ErrNotFound
	}
	defer rc.Close()

	var script []telephony.Action
	if err := json.NewDecoder(rc).Decode(&script); err != nil {
		return nil, err
	}
	return script, nil
}

func (s *interviewService) markDispatchFailed(ctx context.Context, interviewID string) {
	if err := s.d.Interviews.SetStatusIfNotTerminal(ctx, interviewID, models.StatusFailed); err != nil {
		s.d.Logger.WithError(err).WithField("interview_id", interviewID).Error("failed to mark interview failed")
	}
	s.publish(ctx, events.Event{Type: "status_changed", InterviewID: interviewID, Status: string(models.StatusFailed)})
}

// transcription faults never drop an arrived answer; the sentinel keeps the
// transcript non-empty so completeness still counts this answer as present.
func transcriptSentinel(err error) string {
	if err == nil {
		return "(transcription_failed: empty transcript)"
	}
	return fmt.Sprintf("(transcription_failed: %v)", err)
}

func (s *interviewService) RecordAnswer(ctx context.Context, interviewID string, questionIndex int, recordingURL string) error {
	const op = "InterviewService.RecordAnswer"

	if recordingURL == "" {
		return utils.E(utils.CodeInvalidArgument, op, "recording_url is required", nil)
	}

	unlock := s.locks.Lock(interviewID)
	defer unlock()

	iv, err := s.d.Interviews.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to load interview", err)
	}
	job, err := s.d.Jobs.GetByID(ctx, iv.JobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if questionIndex < 0 || questionIndex >= len(job.Questions) {
		return utils.E(utils.CodeInvalidArgument, op, "question index out of range", nil)
	}

	audio, err := s.d.Recordings.Fetch(ctx, recordingURL)
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to download recording", err)
	}

	key := audioKey(interviewID, questionIndex)
	if _, err := s.d.Store.Put(ctx, key, "audio/mpeg", bytes.NewReader(audio)); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to store recording", err)
	}

	transcript, _, terr := s.d.STT.Transcribe(ctx, audio, s.d.STTLanguage)
	if terr != nil || transcript == "" {
		s.d.Logger.WithFields(logrus.Fields{
			"interview_id": interviewID,
			"q_idx":        questionIndex,
		}).WithError(terr).Warn("transcription failed; storing sentinel")
		transcript = transcriptSentinel(terr)
	}

	iv.UpsertAnswer(models.Answer{
		QuestionIndex: questionIndex,
		Question:      job.Questions[questionIndex],
		RecordingURL:  recordingURL,
		LocalAudio:    "/v1/artifacts/" + key,
		Transcript:    transcript,
	})
	if err := s.d.Interviews.ReplaceAnswers(ctx, interviewID, iv.Answers); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to persist answer", err)
	}

	s.invalidate(ctx, interviewID)
	s.publish(ctx, events.Event{Type: "answer_recorded", InterviewID: interviewID, QuestionIndex: &questionIndex})
	return nil
}

func (s *interviewService) HandleCallEvent(ctx context.Context, interviewID, providerStatus string) error {
	const op = "InterviewService.HandleCallEvent"

	next, ok := models.MapProviderStatus(providerStatus)
	if !ok {
		// transient or unknown provider status: ignore
		return nil
	}

	unlock := s.locks.Lock(interviewID)
	defer unlock()

	iv, err := s.d.Interviews.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to load interview", err)
	}
	if !iv.Status.CanTransition(next) {
		// terminal state, duplicate event, or a transition the lifecycle
		// machine does not define
		s.d.Logger.WithFields(logrus.Fields{
			"interview_id": interviewID,
			"status":       iv.Status,
			"event_status": next,
		}).Debug("ignoring call event")
		return nil
	}

	if err := s.d.Interviews.SetStatusIfNotTerminal(ctx, interviewID, next); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update status", err)
	}

	s.invalidate(ctx, interviewID)
	s.publish(ctx, events.Event{Type: "status_changed", InterviewID: interviewID, Status: string(next)})
	return nil
}

func (s *interviewService) GetResult(ctx context.Context, interviewID string) (*InterviewSnapshot, error) {
	const op = "InterviewService.GetResult"

	if interviewID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview_id is required", nil)
	}

	if s.d.Cache != nil {
		var snap InterviewSnapshot
		if hit, err := s.d.Cache.GetJSON(ctx, snapshotKey(interviewID), &snap); err == nil && hit {
			return &snap, nil
		}
	}

	unlock := s.locks.Lock(interviewID)
	defer unlock()

	snap, frozen, err := s.reconcileAndMaybeScore(ctx, interviewID)
	if err != nil {
		return nil, err
	}

	// Only terminal, fully scored snapshots are immutable enough to cache.
	if frozen && s.d.Cache != nil {
		if err := s.d.Cache.SetJSON(ctx, snapshotKey(interviewID), snap, 10*time.Minute); err != nil {
			s.d.Logger.WithError(err).Warn("failed to cache interview snapshot")
		}
	}
	return snap, nil
}

// reconcileAndMaybeScore builds the snapshot and, when the answer set is
// complete, every transcript non-empty, and no answer carries a score yet,
// runs the scoring pass. Score absence is the sole trigger condition; a
// scorer fault leaves the snapshot unscored and is retried on a later read.
func (s *interviewService) reconcileAndMaybeScore(ctx context.Context, interviewID string) (*InterviewSnapshot, bool, error) {
	const op = "InterviewService.GetResult"

	iv, err := s.d.Interviews.GetByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, false, utils.E(utils.CodeNotFound, op, "interview not found", err)
		}
		return nil, false, utils.E(utils.CodeInternal, op, "failed to load interview", err)
	}
	job, err := s.d.Jobs.GetByID(ctx, iv.JobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, false, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, false, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	cand, err := s.d.Candidates.GetByID(ctx, iv.CandidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, false, utils.E(utils.CodeNotFound, op, "candidate not found", err)
		}
		return nil, false, utils.E(utils.CodeInternal, op, "failed to load candidate", err)
	}

	answers := iv.SortedAnswers()
	if complete(answers, job.Questions) && !anyScored(answers) {
		s.score(ctx, iv, job, answers)
		answers = iv.SortedAnswers()
	}

	snap := &InterviewSnapshot{
		InterviewID:         iv.InterviewID,
		Status:              iv.Status,
		Job:                 JobSnapshot{JobID: job.ID, Questions: job.Questions},
		Candidate:           CandidateSnapshot{CandidateID: cand.ID, Name: cand.Name, PhoneE164: cand.PhoneE164},
		Answers:             answers,
		FinalRecommendation: iv.FinalRecommendation,
	}
	frozen := iv.Status.Terminal() && iv.FinalRecommendation != "" && anyScored(answers)
	return snap, frozen, nil
}

func complete(answers []models.Answer, questions []string) bool {
	if len(answers) != len(questions) {
		return false
	}
	for _, a := range answers {
		if a.Transcript == "" {
			return false
		}
	}
	return true
}

func anyScored(answers []models.Answer) bool {
	for _, a := range answers {
		if a.Score != nil {
			return true
		}
	}
	return false
}

// score mutates iv in place on success. Failures are absorbed: the read
// still serves the unscored snapshot.
func (s *interviewService) score(ctx context.Context, iv *models.Interview, job *models.Job, ordered []models.Answer) {
	log := s.d.Logger.WithField("interview_id", iv.InterviewID)

	transcripts := make([]string, len(ordered))
	for i, a := range ordered {
		transcripts[i] = a.Transcript
	}

	result, err := s.d.LLM.Score(ctx, job.Questions, transcripts)
	if err != nil {
		log.WithError(err).Warn("scoring failed; serving unscored snapshot")
		return
	}

	byIdx := map[int]llm.AnswerScore{}
	for _, p := range result.PerAnswer {
		byIdx[p.QuestionIndex] = p
	}
	for i := range iv.Answers {
		if p, ok := byIdx[iv.Answers[i].QuestionIndex]; ok {
			score := p.Score
			iv.Answers[i].Score = &score
			iv.Answers[i].Rationale = p.Rationale
		}
	}

	rec := ""
	if iv.FinalRecommendation == "" {
		rec = result.Recommendation
	}
	if err := s.d.Interviews.SaveScores(ctx, iv.InterviewID, iv.Answers, rec); err != nil {
		log.WithError(err).Error("failed to persist scores")
		return
	}
	if rec != "" {
		iv.FinalRecommendation = rec
	}

	if !iv.Status.Terminal() {
		if err := s.d.Interviews.SetStatusIfNotTerminal(ctx, iv.InterviewID, models.StatusCompleted); err != nil {
			log.WithError(err).Error("failed to promote interview to completed")
		} else {
			iv.Status = models.StatusCompleted
		}
	}

	s.invalidate(ctx, iv.InterviewID)
	s.publish(ctx, events.Event{Type: "scored", InterviewID: iv.InterviewID, Status: string(iv.Status)})
}

func (s *interviewService) invalidate(ctx context.Context, interviewID string) {
	if s.d.Cache != nil {
		if err := s.d.Cache.Del(ctx, snapshotKey(interviewID)); err != nil {
			s.d.Logger.WithError(err).Warn("failed to invalidate snapshot cache")
		}
	}
}

func (s *interviewService) publish(ctx context.Context, ev events.Event) {
	if s.d.Events == nil {
		return
	}
	if err := s.d.Events.Publish(ctx, ev); err != nil {
		s.d.Logger.WithError(err).WithField("interview_id", ev.InterviewID).Warn("failed to publish event")
	}
}
