package mongodb

import (
	"context"
	"fmt"

	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.SequenceGenerator = (*SequenceRepository)(nil)

// SequenceRepository keeps named counters, one document per name
type SequenceRepository struct {
	collection *mongo.Collection
}

// NewSequenceRepository creates a new SequenceRepository
func NewSequenceRepository(db *mongo.Database) *SequenceRepository {
	return &SequenceRepository{
		collection: db.Collection(collCounters),
	}
}

// Next increments the named counter, creating it on first use
func (r *SequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	return r.NextN(ctx, name, 1)
}

// NextN advances the named counter by n and returns the first reserved value
func (r *SequenceRepository) NextN(ctx context.Context, name string, n int64) (int64, error) {
	if n < 1 {
		return 0, fmt.Errorf("sequence %s: invalid reservation size %d", name, n)
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Value int64 `bson:"value"`
	}
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"value": n}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Value - n + 1, nil
}

// Reset deletes the named counters
func (r *SequenceRepository) Reset(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": names}})
	return err
}
