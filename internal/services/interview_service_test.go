package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/Rushil1274/palcodeai-local-testing/internal/models"
	"github.com/Rushil1274/palcodeai-local-testing/internal/providers/llm"
	"github.com/Rushil1274/palcodeai-local-testing/internal/utils"
)

// --- in-memory fakes ---

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*models.Job
	last string
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[string]*models.Job{}}
}

func (r *fakeJobRepo) Insert(ctx context.Context, j *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *j
	r.jobs[j.ID] = &cp
	r.last = j.ID
	return nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *fakeJobRepo) Latest(ctx context.Context) (*models.Job, error) {
	r.mu.Lock()
	last := r.last
	r.mu.Unlock()
	if last == "" {
		return nil, utils.ErrNotFound
	}
	return r.GetByID(ctx, last)
}

func (r *fakeJobRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.jobs)), nil
}

type fakeCandidateRepo struct {
	mu    sync.Mutex
	cands map[string]*models.Candidate
	last  string
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{cands: map[string]*models.Candidate{}}
}

func (r *fakeCandidateRepo) Insert(ctx context.Context, c *models.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.cands[c.ID] = &cp
	r.last = c.ID
	return nil
}

func (r *fakeCandidateRepo) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cands[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCandidateRepo) SetResumeMeta(ctx context.Context, id string, meta datatypes.JSON) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cands[id]
	if !ok {
		return utils.ErrNotFound
	}
	c.ResumeMeta = meta
	return nil
}

func (r *fakeCandidateRepo) Latest(ctx context.Context) (*models.Candidate, error) {
	r.mu.Lock()
	last := r.last
	r.mu.Unlock()
	if last == "" {
		return nil, utils.ErrNotFound
	}
	return r.GetByID(ctx, last)
}

func (r *fakeCandidateRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.cands)), nil
}

type fakeInterviewRepo struct {
	mu   sync.Mutex
	ivs  map[string]*models.Interview
	last string
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{ivs: map[string]*models.Interview{}}
}

func copyInterview(iv *models.Interview) *models.Interview {
	cp := *iv
	cp.Answers = make([]models.Answer, len(iv.Answers))
	copy(cp.Answers, iv.Answers)
	return &cp
}

func (r *fakeInterviewRepo) Create(ctx context.Context, iv *models.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ivs[iv.InterviewID] = copyInterview(iv)
	r.last = iv.InterviewID
	return nil
}

func (r *fakeInterviewRepo) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.ivs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return copyInterview(iv), nil
}

func (r *fakeInterviewRepo) SetDispatchResult(ctx context.Context, id, callID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.ivs[id]
	if !ok {
		return utils.ErrNotFound
	}
	iv.ProviderCallID = callID
	iv.Status = models.StatusInProgress
	return nil
}

func (r *fakeInterviewRepo) SetStatusIfNotTerminal(ctx context.Context, id string, status models.InterviewStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.ivs[id]
	if !ok {
		return nil
	}
	if iv.Status.Terminal() {
		return nil
	}
	iv.Status = status
	return nil
}

func (r *fakeInterviewRepo) ReplaceAnswers(ctx context.Context, id string, answers []models.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.ivs[id]
	if !ok {
		return utils.ErrNotFound
	}
	iv.Answers = make([]models.Answer, len(answers))
	copy(iv.Answers, answers)
	return nil
}

func (r *fakeInterviewRepo) SaveScores(ctx context.Context, id string, answers []models.Answer, rec string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.ivs[id]
	if !ok {
		return utils.ErrNotFound
	}
	iv.Answers = make([]models.Answer, len(answers))
	copy(iv.Answers, answers)
	if rec != "" {
		iv.FinalRecommendation = rec
	}
	return nil
}

func (r *fakeInterviewRepo) Latest(ctx context.Context) (*models.Interview, error) {
	r.mu.Lock()
	last := r.last
	r.mu.Unlock()
	if last == "" {
		return nil, utils.ErrNotFound
	}
	return r.GetByID(ctx, last)
}

func (r *fakeInterviewRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.ivs)), nil
}

type fakeDispatcher struct {
	mu    sync.Mutex
	fail  bool
	calls int
}

func (d *fakeDispatcher) DispatchCall(ctx context.Context, to, from, answerURL, eventURL string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	if d.fail {
		return "", errors.New("provider rejected call")
	}
	return fmt.Sprintf("call_%d", d.calls), nil
}

type fakeFetcher struct {
	fail bool
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.fail {
		return nil, errors.New("download failed")
	}
	return []byte("audio:" + url), nil
}

type fakeSTT struct {
	err   error
	empty bool
}

func (s *fakeSTT) Transcribe(ctx context.Context, audio []byte, language string) (string, float64, error) {
	if s.err != nil {
		return "", 0, s.err
	}
	if s.empty {
		return "", 0, nil
	}
	return "transcript of " + string(audio), 0.9, nil
}

func (s *fakeSTT) Close() error { return nil }

type fakeLLM struct {
	mu             sync.Mutex
	scoreCalls     int
	scoreErr       error
	gotQuestions   []string
	gotTranscripts []string
}

func (l *fakeLLM) GenerateQuestions(ctx context.Context, jd string) ([]string, error) {
	return []string{"Q one?", "Q two?", "Q three?"}, nil
}

func (l *fakeLLM) Score(ctx context.Context, questions, transcripts []string) (*llm.ScoreResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scoreCalls++
	l.gotQuestions = append([]string(nil), questions...)
	l.gotTranscripts = append([]string(nil), transcripts...)
	if l.scoreErr != nil {
		return nil, l.scoreErr
	}
	res := &llm.ScoreResult{Recommendation: "hire"}
	for i := range transcripts {
		res.PerAnswer = append(res.PerAnswer, llm.AnswerScore{
			QuestionIndex: i,
			Score:         7.5,
			Rationale:     "solid answer",
		})
	}
	return res, nil
}

func (l *fakeLLM) Close() error { return nil }

func (l *fakeLLM) calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scoreCalls
}

func (l *fakeLLM) scoredWith() (questions, transcripts []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gotQuestions, l.gotTranscripts
}

type memStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemStore() *memStore { return &memStore{blobs: map[string][]byte{}} }

func (s *memStore) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = b
	return key, nil
}

func (s *memStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// --- fixture ---

type fixture struct {
	svc        InterviewService
	jobs       *fakeJobRepo
	cands      *fakeCandidateRepo
	interviews *fakeInterviewRepo
	dispatcher *fakeDispatcher
	fetcher    *fakeFetcher
	stt        *fakeSTT
	llm        *fakeLLM
	store      *memStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		jobs:       newFakeJobRepo(),
		cands:      newFakeCandidateRepo(),
		interviews: newFakeInterviewRepo(),
		dispatcher: &fakeDispatcher{},
		fetcher:    &fakeFetcher{},
		stt:        &fakeSTT{},
		llm:        &fakeLLM{},
		store:      newMemStore(),
	}
	f.svc = NewInterviewService(InterviewDeps{
		Jobs:          f.jobs,
		Candidates:    f.cands,
		Interviews:    f.interviews,
		Dispatcher:    f.dispatcher,
		Recordings:    f.fetcher,
		STT:           f.stt,
		LLM:           f.llm,
		Store:         f.store,
		PublicBaseURL: "http://screener.test",
		SkipWhitelist: true,
		STTLanguage:   "en-US",
	})
	return f
}

func (f *fixture) seedJob(t *testing.T, questions ...string) string {
	t.Helper()
	job := &models.Job{ID: "job-1", JDText: "Backend engineer", Questions: questions}
	require.NoError(t, f.jobs.Insert(context.Background(), job))
	return job.ID
}

func (f *fixture) trigger(t *testing.T) string {
	t.Helper()
	res, err := f.svc.Trigger(context.Background(), TriggerInput{
		Name:       "Ada",
		PhoneE164:  "+14155552671",
		FromNumber: "15550100000",
	})
	require.NoError(t, err)
	return res.InterviewID
}

// --- tests ---

func TestTriggerCreatesInterviewAndDispatches(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?", "Q two?")

	res, err := f.svc.Trigger(context.Background(), TriggerInput{
		Name:       "Ada",
		PhoneE164:  "+14155552671",
		FromNumber: "15550100000",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.InterviewID)
	assert.Equal(t, "call_1", res.ProviderCallID)

	iv, err := f.interviews.GetByID(context.Background(), res.InterviewID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, iv.Status)
	assert.Equal(t, "call_1", iv.ProviderCallID)

	// the call script was persisted before dispatch
	script, err := f.svc.CallScript(context.Background(), res.InterviewID)
	require.NoError(t, err)
	assert.Len(t, script, 5) // talk+record per question, closing talk
	assert.Contains(t, script[1].EventURL[0], "q_idx=0")
}

func TestTriggerWithoutJobFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Trigger(context.Background(), TriggerInput{
		Name:       "Ada",
		PhoneE164:  "+14155552671",
		FromNumber: "15550100000",
	})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestTriggerDispatchFailureMarksFailed(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?")
	f.dispatcher.fail = true

	_, err := f.svc.Trigger(context.Background(), TriggerInput{
		Name:       "Ada",
		PhoneE164:  "+14155552671",
		FromNumber: "15550100000",
	})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))

	iv, err := f.interviews.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, iv.Status)
}

func TestTriggerRequiresCandidateIdentity(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?")

	_, err := f.svc.Trigger(context.Background(), TriggerInput{FromNumber: "15550100000"})
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestRecordAnswerStoresTranscript(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?", "Q two?")
	id := f.trigger(t)

	err := f.svc.RecordAnswer(context.Background(), id, 0, "https://rec/0.mp3")
	require.NoError(t, err)

	iv, err := f.interviews.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, iv.Answers, 1)
	a := iv.Answers[0]
	assert.Equal(t, 0, a.QuestionIndex)
	assert.Equal(t, "Q one?", a.Question)
	assert.Equal(t, "https://rec/0.mp3", a.RecordingURL)
	assert.True(t, strings.HasPrefix(a.LocalAudio, "/v1/artifacts/"))
	assert.Contains(t, a.Transcript, "transcript of")
}

func TestRecordAnswerOutOfRange(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?", "Q two?")
	id := f.trigger(t)

	err := f.svc.RecordAnswer(context.Background(), id, 2, "https://rec/2.mp3")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	err = f.svc.RecordAnswer(context.Background(), id, -1, "https://rec/x.mp3")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	iv, _ := f.interviews.GetByID(context.Background(), id)
	assert.Empty(t, iv.Answers)
}

func TestRecordAnswerReplayKeepsOneAnswer(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?")
	id := f.trigger(t)

	require.NoError(t, f.svc.RecordAnswer(context.Background(), id, 0, "https://rec/0.mp3"))
	require.NoError(t, f.svc.RecordAnswer(context.Background(), id, 0, "https://rec/0-retry.mp3"))

	iv, err := f.interviews.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, iv.Answers, 1)
	assert.Equal(t, "https://rec/0-retry.mp3", iv.Answers[0].RecordingURL)
}

func TestRecordAnswerReplayPreservesScore(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?")
	id := f.trigger(t)

	require.NoError(t, f.svc.RecordAnswer(context.Background(), id, 0, "https://rec/0.mp3"))

	// complete set: a read triggers scoring
	snap, err := f.svc.GetResult(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, snap.Answers[0].Score)

	// late duplicate callback must not wipe the score
	require.NoError(t, f.svc.RecordAnswer(context.Background(), id, 0, "https://rec/0.mp3"))

	iv, err := f.interviews.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, iv.Answers, 1)
	require.NotNil(t, iv.Answers[0].Score)
	assert.Equal(t, 7.5, *iv.Answers[0].Score)
}

func TestRecordAnswerOutOfOrderArrival(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?", "Q two?", "Q three?")
	id := f.trigger(t)

	for _, idx := range []int{2, 0, 1} {
		url := fmt.Sprintf("https://rec/%d.mp3", idx)
		require.NoError(t, f.svc.RecordAnswer(context.Background(), id, idx, url))
	}

	snap, err := f.svc.GetResult(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, snap.Answers, 3)
	for i, a := range snap.Answers {
		assert.Equal(t, i, a.QuestionIndex)
	}

	// scoring must see questions in job order and transcripts re-sorted by
	// question index, not by arrival
	questions, transcripts := f.llm.scoredWith()
	assert.Equal(t, []string{"Q one?", "Q two?", "Q three?"}, questions)
	assert.Equal(t, []string{
		"transcript of audio:https://rec/0.mp3",
		"transcript of audio:https://rec/1.mp3",
		"transcript of audio:https://rec/2.mp3",
	}, transcripts)
}

func TestRecordAnswerTranscriptionFailureStoresSentinel(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?")
	id := f.trigger(t)
	f.stt.err = errors.New("speech backend down")

	require.NoError(t, f.svc.RecordAnswer(context.Background(), id, 0, "https://rec/0.mp3"))

	iv, err := f.interviews.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, iv.Answers, 1)
	assert.Contains(t, iv.Answers[0].Transcript, "transcription_failed")
	assert.Contains(t, iv.Answers[0].Transcript, "speech backend down")
}

func TestRecordAnswerEmptyTranscriptStoresSentinel(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?")
	id := f.trigger(t)
	f.stt.empty = true

	require.NoError(t, f.svc.RecordAnswer(context.Background(), id, 0, "https://rec/0.mp3"))

	iv, _ := f.interviews.GetByID(context.Background(), id)
	assert.Contains(t, iv.Answers[0].Transcript, "transcription_failed")
}

func TestRecordAnswerDownloadFailure(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?")
	id := f.trigger(t)
	f.fetcher.fail = true

	err := f.svc.RecordAnswer(context.Background(), id, 0, "https://rec/0.mp3")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))

	iv, _ := f.interviews.GetByID(context.Background(), id)
	assert.Empty(t, iv.Answers)
}

func TestHandleCallEventIgnoresUnknownStatus(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?")
	id := f.trigger(t)

	require.NoError(t, f.svc.HandleCallEvent(context.Background(), id, "ringing"))

	iv, _ := f.interviews.GetByID(context.Background(), id)
	assert.Equal(t, models.StatusInProgress, iv.Status)
}

func TestHandleCallEventTerminalNeverRegresses(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?")
	id := f.trigger(t)

	require.NoError(t, f.svc.HandleCallEvent(context.Background(), id, "completed"))
	require.NoError(t, f.svc.HandleCallEvent(context.Background(), id, "failed"))

	iv, _ := f.interviews.GetByID(context.Background(), id)
	assert.Equal(t, models.StatusCompleted, iv.Status)
}

func TestHandleCallEventUndefinedTransitionIgnored(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?")

	// an interview still awaiting its dispatch result: the machine defines
	// no calling -> completed edge, so a premature completed event is a no-op
	iv := &models.Interview{InterviewID: "iv-undispatched", JobID: "job-1", Status: models.StatusCalling}
	require.NoError(t, f.interviews.Create(context.Background(), iv))

	require.NoError(t, f.svc.HandleCallEvent(context.Background(), "iv-undispatched", "completed"))

	got, err := f.interviews.GetByID(context.Background(), "iv-undispatched")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCalling, got.Status)

	// a failure event from the same state is a defined transition
	require.NoError(t, f.svc.HandleCallEvent(context.Background(), "iv-undispatched", "failed"))
	got, err = f.interviews.GetByID(context.Background(), "iv-undispatched")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, got.Status)
}

func TestHandleCallEventUnknownInterview(t *testing.T) {
	f := newFixture(t)

	err := f.svc.HandleCallEvent(context.Background(), "nope", "completed")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestGetResultScoresOnceWhenComplete(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?", "Q two?")
	id := f.trigger(t)

	require.NoError(t, f.svc.RecordAnswer(context.Background(), id, 0, "https://rec/0.mp3"))

	// incomplete: no scoring yet
	snap, err := f.svc.GetResult(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, f.llm.calls())
	assert.Empty(t, snap.FinalRecommendation)

	require.NoError(t, f.svc.RecordAnswer(context.Background(), id, 1, "https://rec/1.mp3"))

	snap, err = f.svc.GetResult(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, f.llm.calls())
	assert.Equal(t, "hire", snap.FinalRecommendation)
	assert.Equal(t, models.StatusCompleted, snap.Status)
	for _, a := range snap.Answers {
		require.NotNil(t, a.Score)
		assert.Equal(t, 7.5, *a.Score)
		assert.NotEmpty(t, a.Rationale)
	}

	// repeated reads must not re-score
	_, err = f.svc.GetResult(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, f.llm.calls())
}

func TestGetResultScoringFailureRetriedNextRead(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?")
	id := f.trigger(t)

	require.NoError(t, f.svc.RecordAnswer(context.Background(), id, 0, "https://rec/0.mp3"))

	f.llm.scoreErr = errors.New("model overloaded")
	snap, err := f.svc.GetResult(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, snap.Answers[0].Score)
	assert.Empty(t, snap.FinalRecommendation)
	assert.Equal(t, 1, f.llm.calls())

	f.llm.scoreErr = nil
	snap, err = f.svc.GetResult(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 2, f.llm.calls())
	require.NotNil(t, snap.Answers[0].Score)
	assert.Equal(t, "hire", snap.FinalRecommendation)
}

func TestGetResultUnknownInterview(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetResult(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestConcurrentRecordCallbacksAllRetained(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?", "Q two?", "Q three?", "Q four?", "Q five?")
	id := f.trigger(t)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			url := fmt.Sprintf("https://rec/%d.mp3", idx)
			assert.NoError(t, f.svc.RecordAnswer(context.Background(), id, idx, url))
		}(i)
	}
	wg.Wait()

	iv, err := f.interviews.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, iv.Answers, 5)
}

func TestSimulateAnswersCompletesAndScores(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?", "Q two?", "Q three?")
	id := f.trigger(t)

	n, err := f.svc.SimulateAnswers(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	snap, err := f.svc.GetResult(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, snap.Status)
	require.Len(t, snap.Answers, 3)
	for _, a := range snap.Answers {
		assert.NotEmpty(t, a.Transcript)
		require.NotNil(t, a.Score)
	}
	assert.Equal(t, "hire", snap.FinalRecommendation)
}

func TestStatsCountsEntities(t *testing.T) {
	f := newFixture(t)
	f.seedJob(t, "Q one?")
	id := f.trigger(t)

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Jobs)
	assert.Equal(t, int64(1), stats.Candidates)
	assert.Equal(t, int64(1), stats.Interviews)
	assert.Equal(t, id, stats.LatestInterviewID)
}
