package mongodb

import (
	"context"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"github.com/ArowuTest/lotto-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.TicketRepository = (*TicketRepository)(nil)

// TicketRepository handles MongoDB operations for Ticket
type TicketRepository struct {
	collection *mongo.Collection
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *mongo.Database) *TicketRepository {
	return &TicketRepository{
		collection: db.Collection(collTickets),
	}
}

// FindByID finds a ticket by ID
func (r *TicketRepository) FindByID(ctx context.Context, id int64) (*models.Ticket, error) {
	return findTicket(ctx, r.collection, id)
}

// FindByDraw lists the tickets of a draw, optionally filtered by status
func (r *TicketRepository) FindByDraw(ctx context.Context, drawID int64, status models.TicketStatus, page, limit int) ([]*models.Ticket, int64, error) {
	filter := bson.M{"drawId": drawID}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	offset, size := utils.Paginate(page, limit)
	opts := options.Find().
		SetSort(bson.M{"id": 1}).
		SetSkip(int64(offset)).
		SetLimit(int64(size))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	tickets := []*models.Ticket{}
	if err = cursor.All(ctx, &tickets); err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// FindRandom picks a uniformly random ticket of a draw with $sample
func (r *TicketRepository) FindRandom(ctx context.Context, drawID int64) (*models.Ticket, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"drawId": drawID}}},
		{{Key: "$sample", Value: bson.M{"size": 1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, err
		}
		return nil, repositories.ErrNotFound
	}
	var ticket models.Ticket
	if err := cursor.Decode(&ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func findTicket(ctx context.Context, coll *mongo.Collection, id int64) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := coll.FindOne(ctx, bson.M{"id": id}).Decode(&ticket); err != nil {
		return nil, translate(err)
	}
	return &ticket, nil
}
