package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Rushil1274/palcodeai-local-testing/internal/models"
	"github.com/Rushil1274/palcodeai-local-testing/internal/providers/llm"
	pgrepo "github.com/Rushil1274/palcodeai-local-testing/internal/repositories/postgres"
	"github.com/Rushil1274/palcodeai-local-testing/internal/utils"
)

type JobService interface {
	// CreateFromDescription generates interview questions for the given job
	// description and persists the resulting Job.
	CreateFromDescription(ctx context.Context, jdText string) (*models.Job, error)
	Get(ctx context.Context, jobID string) (*models.Job, error)
	Latest(ctx context.Context) (*models.Job, error)
}

type jobService struct {
	jobs pgrepo.JobRepository
	llm  llm.Provider
}

func NewJobService(jobs pgrepo.JobRepository, provider llm.Provider) JobService {
	return &jobService{jobs: jobs, llm: provider}
}

func (s *jobService) CreateFromDescription(ctx context.Context, jdText string) (*models.Job, error) {
	const op = "JobService.CreateFromDescription"

	jdText = strings.TrimSpace(jdText)
	if jdText == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "empty job description", nil)
	}

	questions, err := s.llm.GenerateQuestions(ctx, jdText)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "question generation failed", err)
	}

	job := &models.Job{
		ID:        uuid.NewString(),
		JDText:    jdText,
		Questions: questions,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.jobs.Insert(ctx, job); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist job", err)
	}
	return job, nil
}

func (s *jobService) Get(ctx context.Context, jobID string) (*models.Job, error) {
	const op = "JobService.Get"

	if jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get job", err)
	}
	return job, nil
}

func (s *jobService) Latest(ctx context.Context) (*models.Job, error) {
	const op = "JobService.Latest"

	job, err := s.jobs.Latest(ctx)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "no job found; create questions first", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get latest job", err)
	}
	return job, nil
}
