package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.DrawRepository = (*DrawRepository)(nil)

// DrawRepository handles MongoDB operations for Draw
type DrawRepository struct {
	collection *mongo.Collection
}

// NewDrawRepository creates a new DrawRepository
func NewDrawRepository(db *mongo.Database) *DrawRepository {
	return &DrawRepository{
		collection: db.Collection(collDraws),
	}
}

// FindByID finds a draw by ID
func (r *DrawRepository) FindByID(ctx context.Context, id int64) (*models.Draw, error) {
	return findDraw(ctx, r.collection, id)
}

// FindAll retrieves all draws, newest first
func (r *DrawRepository) FindAll(ctx context.Context) ([]*models.Draw, error) {
	opts := options.Find().SetSort(bson.M{"id": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	draws := []*models.Draw{}
	if err = cursor.All(ctx, &draws); err != nil {
		return nil, err
	}
	return draws, nil
}

// Lock stops sales on an OPEN draw
func (r *DrawRepository) Lock(ctx context.Context, id int64) (*models.Draw, error) {
	now := time.Now().UTC()
	return transitionDraw(ctx, r.collection, id,
		[]models.DrawStatus{models.DrawStatusOpen},
		bson.M{
			"status":    models.DrawStatusLocked,
			"lockedAt":  now,
			"updatedAt": now,
		})
}

func findDraw(ctx context.Context, coll *mongo.Collection, id int64) (*models.Draw, error) {
	var draw models.Draw
	if err := coll.FindOne(ctx, bson.M{"id": id}).Decode(&draw); err != nil {
		return nil, translate(err)
	}
	return &draw, nil
}

// transitionDraw sets fields when the draw is in one of the from statuses.
// A miss returns the current draw with ErrStatusConflict.
func transitionDraw(ctx context.Context, coll *mongo.Collection, id int64, from []models.DrawStatus, set bson.M) (*models.Draw, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var draw models.Draw
	err := coll.FindOneAndUpdate(ctx,
		bson.M{"id": id, "status": bson.M{"$in": from}},
		bson.M{"$set": set},
		opts,
	).Decode(&draw)
	if err == nil {
		return &draw, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	existing, err := findDraw(ctx, coll, id)
	if err != nil {
		return nil, err
	}
	return existing, repositories.ErrStatusConflict
}
