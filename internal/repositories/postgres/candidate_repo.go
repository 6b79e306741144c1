package postgres

import (
	"context"
	"errors"

	"github.com/Rushil1274/palcodeai-local-testing/internal/models"
	"github.com/Rushil1274/palcodeai-local-testing/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CandidateRepository interface {
	Insert(ctx context.Context, c *models.Candidate) error
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
	SetResumeMeta(ctx context.Context, id string, meta datatypes.JSON) error
	Latest(ctx context.Context) (*models.Candidate, error)
	Count(ctx context.Context) (int64, error)
}

type candidateRepo struct {
	db *gorm.DB
}

func NewCandidateRepo(db *gorm.DB) CandidateRepository {
	return &candidateRepo{db: db}
}

func (r *candidateRepo) Insert(ctx context.Context, c *models.Candidate) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	var row models.Candidate
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *candidateRepo) SetResumeMeta(ctx context.Context, id string, meta datatypes.JSON) error {
	res := r.db.WithContext(ctx).
		Model(&models.Candidate{}).
		Where("id = ?", id).
		Update("resume_meta", meta)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *candidateRepo) Latest(ctx context.Context) (*models.Candidate, error) {
	var row models.Candidate
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &row, err
}

func (r *candidateRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Candidate{}).Count(&n).Error
	return n, err
}
