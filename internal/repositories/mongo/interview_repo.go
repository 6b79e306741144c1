package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/Rushil1274/palcodeai-local-testing/internal/models"
	"github.com/Rushil1274/palcodeai-local-testing/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type InterviewRepository interface {
	Create(ctx context.Context, iv *models.Interview) error
	GetByID(ctx context.Context, interviewID string) (*models.Interview, error)
	SetDispatchResult(ctx context.Context, interviewID, providerCallID string) error
	// SetStatusIfNotTerminal writes status only when the stored status is not
	// already completed/failed; a guarded write backs the monotonicity rule.
	SetStatusIfNotTerminal(ctx context.Context, interviewID string, status models.InterviewStatus) error
	ReplaceAnswers(ctx context.Context, interviewID string, answers []models.Answer) error
	SaveScores(ctx context.Context, interviewID string, answers []models.Answer, finalRecommendation string) error
	Latest(ctx context.Context) (*models.Interview, error)
	Count(ctx context.Context) (int64, error)
}

type interviewRepo struct {
	col *mongo.Collection
}

func NewInterviewRepo(db *mongo.Database) InterviewRepository {
	return &interviewRepo{col: db.Collection("interviews")}
}

func (r *interviewRepo) Create(ctx context.Context, iv *models.Interview) error {
	now := time.Now().UTC()
	if iv.CreatedAt.IsZero() {
		iv.CreatedAt = now
	}
	iv.UpdatedAt = now
	if iv.Answers == nil {
		iv.Answers = []models.Answer{}
	}
	_, err := r.col.InsertOne(ctx, iv)
	return err
}

func (r *interviewRepo) GetByID(ctx context.Context, interviewID string) (*models.Interview, error) {
	var iv models.Interview
	err := r.col.FindOne(ctx, bson.M{"interview_id": interviewID}).Decode(&iv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &iv, err
}

func (r *interviewRepo) SetDispatchResult(ctx context.Context, interviewID, providerCallID string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"interview_id": interviewID},
		bson.M{"$set": bson.M{
			"provider_call_id": providerCallID,
			"status":           models.StatusInProgress,
			"updated_at":       time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *interviewRepo) SetStatusIfNotTerminal(ctx context.Context, interviewID string, status models.InterviewStatus) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{
			"interview_id": interviewID,
			"status":       bson.M{"$nin": bson.A{models.StatusCompleted, models.StatusFailed}},
		},
		bson.M{"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}},
	)
	return err
}

func (r *interviewRepo) ReplaceAnswers(ctx context.Context, interviewID string, answers []models.Answer) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"interview_id": interviewID},
		bson.M{"$set": bson.M{
			"answers":    answers,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *interviewRepo) SaveScores(ctx context.Context, interviewID string, answers []models.Answer, finalRecommendation string) error {
	set := bson.M{
		"answers":    answers,
		"updated_at": time.Now().UTC(),
	}
	if finalRecommendation != "" {
		set["final_recommendation"] = finalRecommendation
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"interview_id": interviewID},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *interviewRepo) Latest(ctx context.Context) (*models.Interview, error) {
	var iv models.Interview
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	err := r.col.FindOne(ctx, bson.M{}, opts).Decode(&iv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	return &iv, err
}

func (r *interviewRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
