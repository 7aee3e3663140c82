package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.RewardRepository = (*RewardRepository)(nil)

// RewardRepository handles MongoDB operations for Reward
type RewardRepository struct {
	collection *mongo.Collection
}

// NewRewardRepository creates a new RewardRepository
func NewRewardRepository(db *mongo.Database) *RewardRepository {
	return &RewardRepository{
		collection: db.Collection(collRewards),
	}
}

// Create inserts a reward declaration; (ticketId, rank) is a unique index
func (r *RewardRepository) Create(ctx context.Context, reward *models.Reward) error {
	reward.CreatedAt = time.Now().UTC()
	res, err := r.collection.InsertOne(ctx, reward)
	if err != nil {
		return translate(err)
	}
	reward.MongoID = objectID(res.InsertedID)
	return nil
}

// FindByTicketAndRank finds the declaration of a ticket at a rank
func (r *RewardRepository) FindByTicketAndRank(ctx context.Context, ticketID int64, rank int) (*models.Reward, error) {
	return findReward(ctx, r.collection, ticketID, rank)
}

// FindByDraw returns the declarations of a draw, best rank first
func (r *RewardRepository) FindByDraw(ctx context.Context, drawID int64) ([]*models.Reward, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rank", Value: 1}, {Key: "id", Value: 1}})
	return r.find(ctx, bson.M{"drawId": drawID}, opts)
}

// FindByRank returns every declaration at a rank
func (r *RewardRepository) FindByRank(ctx context.Context, rank int) ([]*models.Reward, error) {
	opts := options.Find().SetSort(bson.M{"id": 1})
	return r.find(ctx, bson.M{"rank": rank}, opts)
}

func (r *RewardRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Reward, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rewards := []*models.Reward{}
	if err = cursor.All(ctx, &rewards); err != nil {
		return nil, err
	}
	return rewards, nil
}

func findReward(ctx context.Context, coll *mongo.Collection, ticketID int64, rank int) (*models.Reward, error) {
	var reward models.Reward
	if err := coll.FindOne(ctx, bson.M{"ticketId": ticketID, "rank": rank}).Decode(&reward); err != nil {
		return nil, translate(err)
	}
	return &reward, nil
}
