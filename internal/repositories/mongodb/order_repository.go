package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repositories.OrderRepository = (*OrderRepository)(nil)

// OrderRepository handles MongoDB reads and settlement transitions of orders
type OrderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection(collOrders),
	}
}

// FindByID finds an order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	return findOrder(ctx, r.collection, id)
}

// ActiveTickets lists the orders of an account that are not NOT_WON, with their ticket number
func (r *OrderRepository) ActiveTickets(ctx context.Context, accountID int64) ([]*models.TicketEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"accountId": accountID,
			"status":    bson.M{"$ne": models.OrderStatusNotWon},
		}}},
		{{Key: "$sort", Value: bson.M{"id": 1}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collTickets,
			"localField":   "ticketId",
			"foreignField": "id",
			"as":           "ticket",
		}}},
		{{Key: "$unwind", Value: "$ticket"}},
		{{Key: "$project", Value: bson.M{
			"_id":         0,
			"orderId":     "$id",
			"ticketId":    1,
			"drawId":      1,
			"number":      "$ticket.number",
			"price":       1,
			"status":      1,
			"matchedRank": 1,
		}}},
	}
	entries := []*models.TicketEntry{}
	if err := r.aggregate(ctx, pipeline, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Winnings joins the account's orders in statuses with the reward declared
// for the same ticket at the matched rank
func (r *OrderRepository) Winnings(ctx context.Context, accountID int64, statuses []models.OrderStatus) ([]*models.WinningEntry, error) {
	entries := []*models.WinningEntry{}
	if len(statuses) == 0 {
		return entries, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"accountId": accountID,
			"status":    bson.M{"$in": statuses},
		}}},
		{{Key: "$sort", Value: bson.M{"id": 1}}},
		{{Key: "$lookup", Value: bson.M{
			"from": collRewards,
			"let":  bson.M{"tid": "$ticketId", "rk": "$matchedRank"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$ticketId", "$$tid"}},
					bson.M{"$eq": bson.A{"$rank", "$$rk"}},
				}}}},
			},
			"as": "reward",
		}}},
		{{Key: "$unwind", Value: "$reward"}},
		{{Key: "$project", Value: bson.M{
			"_id":          0,
			"orderId":      "$id",
			"accountId":    1,
			"ticketId":     1,
			"drawId":       1,
			"status":       1,
			"rank":         "$reward.rank",
			"numberReward": "$reward.numberReward",
			"priceReward":  "$reward.priceReward",
		}}},
	}
	if err := r.aggregate(ctx, pipeline, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// PendingMatches lists PURCHASED orders whose ticket carries a declaration.
// drawID 0 covers every draw.
func (r *OrderRepository) PendingMatches(ctx context.Context, drawID int64) ([]*models.MatchCandidate, error) {
	match := bson.M{"status": models.OrderStatusPurchased}
	if drawID != 0 {
		match["drawId"] = drawID
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collRewards,
			"localField":   "ticketId",
			"foreignField": "ticketId",
			"as":           "reward",
		}}},
		{{Key: "$unwind", Value: "$reward"}},
		{{Key: "$project", Value: bson.M{
			"_id":          0,
			"orderId":      "$id",
			"accountId":    1,
			"ticketId":     1,
			"drawId":       1,
			"rank":         "$reward.rank",
			"numberReward": "$reward.numberReward",
			"priceReward":  "$reward.priceReward",
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "rank", Value: 1}, {Key: "orderId", Value: 1}}}},
	}
	candidates := []*models.MatchCandidate{}
	if err := r.aggregate(ctx, pipeline, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// MatchTicket moves every PURCHASED order of the ticket to MATCHED
func (r *OrderRepository) MatchTicket(ctx context.Context, ticketID int64, rank int) (int64, error) {
	return matchTicket(ctx, r.collection, ticketID, rank)
}

func matchTicket(ctx context.Context, coll *mongo.Collection, ticketID int64, rank int) (int64, error) {
	res, err := coll.UpdateMany(ctx,
		bson.M{"ticketId": ticketID, "status": models.OrderStatusPurchased},
		bson.M{"$set": bson.M{
			"status":      models.OrderStatusMatched,
			"matchedRank": rank,
			"updatedAt":   time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *OrderRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func findOrder(ctx context.Context, coll *mongo.Collection, id int64) (*models.Order, error) {
	var order models.Order
	if err := coll.FindOne(ctx, bson.M{"id": id}).Decode(&order); err != nil {
		return nil, translate(err)
	}
	return &order, nil
}
