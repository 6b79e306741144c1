package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Rushil1274/palcodeai-local-testing/internal/models"
	pgrepo "github.com/Rushil1274/palcodeai-local-testing/internal/repositories/postgres"
	"github.com/Rushil1274/palcodeai-local-testing/internal/utils"
)

type CandidateService interface {
	// Create normalizes the phone number to E.164 and enforces the outbound
	// whitelist before persisting.
	Create(ctx context.Context, name, phone string) (*models.Candidate, error)
	Get(ctx context.Context, candidateID string) (*models.Candidate, error)
	// AttachResumeMeta overwrites the candidate's resume metadata whole;
	// re-attaching is idempotent.
	AttachResumeMeta(ctx context.Context, candidateID string, meta map[string]any) error
}

type candidateService struct {
	candidates pgrepo.CandidateRepository
	whitelist  map[string]struct{}
	// development mode skips the whitelist so any number can be tested
	skipWhitelist bool
}

func NewCandidateService(candidates pgrepo.CandidateRepository, whitelist map[string]struct{}, skipWhitelist bool) CandidateService {
	return &candidateService{
		candidates:    candidates,
		whitelist:     whitelist,
		skipWhitelist: skipWhitelist,
	}
}

func (s *candidateService) Create(ctx context.Context, name, phone string) (*models.Candidate, error) {
	const op = "CandidateService.Create"

	if name == "" || phone == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name and phone_e164 are required", nil)
	}

	normalized, err := utils.NormalizeE164(phone)
	if err != nil {
		return nil, err
	}
	if !s.skipWhitelist {
		if err := utils.EnsureWhitelisted(normalized, s.whitelist); err != nil {
			return nil, err
		}
	}

	cand := &models.Candidate{
		ID:        uuid.NewString(),
		Name:      name,
		PhoneE164: normalized,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.candidates.Insert(ctx, cand); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist candidate", err)
	}
	return cand, nil
}

func (s *candidateService) Get(ctx context.Context, candidateID string) (*models.Candidate, error) {
	const op = "CandidateService.Get"

	if candidateID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}
	cand, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "candidate not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get candidate", err)
	}
	return cand, nil
}

func (s *candidateService) AttachResumeMeta(ctx context.Context, candidateID string, meta map[string]any) error {
	const op = "CandidateService.AttachResumeMeta"

	if candidateID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "candidate_id is required", nil)
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return utils.E(utils.CodeInvalidArgument, op, "invalid resume meta", err)
	}

	if err := s.candidates.SetResumeMeta(ctx, candidateID, datatypes.JSON(b)); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "candidate not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to attach resume meta", err)
	}
	return nil
}
