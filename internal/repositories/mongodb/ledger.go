package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repositories.Ledger = (*Ledger)(nil)

// Ledger runs each multi-collection operation as one transaction, which
// needs a replica set or a sharded cluster.
type Ledger struct {
	client   *mongo.Client
	accounts *mongo.Collection
	tickets  *mongo.Collection
	rewards  *mongo.Collection
	orders   *mongo.Collection
	draws    *mongo.Collection
}

// NewLedger creates a new Ledger
func NewLedger(client *mongo.Client, db *mongo.Database) *Ledger {
	return &Ledger{
		client:   client,
		accounts: db.Collection(collAccounts),
		tickets:  db.Collection(collTickets),
		rewards:  db.Collection(collRewards),
		orders:   db.Collection(collOrders),
		draws:    db.Collection(collDraws),
	}
}

// run executes fn inside a transaction. fn may be retried on transient
// errors, so it must reset anything it accumulates.
func (l *Ledger) run(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := l.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// CreateDraw inserts the draw and its tickets in one transaction
func (l *Ledger) CreateDraw(ctx context.Context, draw *models.Draw, tickets []*models.Ticket) error {
	now := time.Now().UTC()
	draw.CreatedAt = now
	draw.UpdatedAt = now
	docs := make([]interface{}, len(tickets))
	for i, t := range tickets {
		t.CreatedAt = now
		t.UpdatedAt = now
		docs[i] = t
	}
	return l.run(ctx, func(ctx context.Context) error {
		res, err := l.draws.InsertOne(ctx, draw)
		if err != nil {
			return translate(err)
		}
		draw.MongoID = objectID(res.InsertedID)
		if len(docs) == 0 {
			return nil
		}
		many, err := l.tickets.InsertMany(ctx, docs)
		if err != nil {
			return translate(err)
		}
		for i, id := range many.InsertedIDs {
			tickets[i].MongoID = objectID(id)
		}
		return nil
	})
}

// Purchase claims a ticket copy, optionally debits the buyer and records the order
func (l *Ledger) Purchase(ctx context.Context, order *models.Order, debit bool) error {
	return l.run(ctx, func(ctx context.Context) error {
		ticket, err := findTicket(ctx, l.tickets, order.TicketID)
		if err != nil {
			return err
		}
		count, err := l.accounts.CountDocuments(ctx, bson.M{"id": order.AccountID})
		if err != nil {
			return err
		}
		if count == 0 {
			return repositories.ErrNotFound
		}

		// The draw document is written by Lock and CloseDraw too, so a
		// concurrent status change surfaces as a write conflict here.
		now := time.Now().UTC()
		sold, err := l.draws.UpdateOne(ctx,
			bson.M{"id": ticket.DrawID, "status": models.DrawStatusOpen},
			bson.M{
				"$inc": bson.M{"soldCount": 1},
				"$set": bson.M{"updatedAt": now},
			})
		if err != nil {
			return err
		}
		if sold.MatchedCount == 0 {
			return repositories.ErrSalesClosed
		}
		declared, err := l.rewards.CountDocuments(ctx, bson.M{"ticketId": ticket.ID})
		if err != nil {
			return err
		}
		if declared > 0 {
			return repositories.ErrSalesClosed
		}

		claim := mongo.Pipeline{{{Key: "$set", Value: bson.M{
			"remaining": bson.M{"$subtract": bson.A{"$remaining", 1}},
			"status": bson.M{"$cond": bson.A{
				bson.M{"$lte": bson.A{"$remaining", 1}},
				models.TicketStatusSold,
				"$status",
			}},
			"updatedAt": now,
		}}}}
		err = l.tickets.FindOneAndUpdate(ctx,
			bson.M{"id": ticket.ID, "remaining": bson.M{"$gt": 0}},
			claim,
		).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repositories.ErrSoldOut
		}
		if err != nil {
			return err
		}

		if debit {
			if _, err := adjustWallet(ctx, l.accounts, order.AccountID, ticket.Price.Neg()); err != nil {
				return err
			}
		}

		order.DrawID = ticket.DrawID
		order.Price = ticket.Price
		order.Status = models.OrderStatusPurchased
		order.MatchedRank = nil
		order.CreatedAt = now
		order.UpdatedAt = now
		res, err := l.orders.InsertOne(ctx, order)
		if err != nil {
			return translate(err)
		}
		order.MongoID = objectID(res.InsertedID)
		return nil
	})
}

// CloseDraw closes the draw, matches every declaration best rank first and
// settles the undeclared PURCHASED orders as NOT_WON in one transaction. On
// ErrStatusConflict the result carries the draw as it currently is.
func (l *Ledger) CloseDraw(ctx context.Context, drawID int64) (*models.CloseDrawResult, error) {
	var result *models.CloseDrawResult
	err := l.run(ctx, func(ctx context.Context) error {
		result = nil
		now := time.Now().UTC()
		draw, err := transitionDraw(ctx, l.draws, drawID,
			[]models.DrawStatus{models.DrawStatusOpen, models.DrawStatusLocked},
			bson.M{
				"status":    models.DrawStatusClosed,
				"closedAt":  now,
				"updatedAt": now,
			})
		if draw != nil {
			result = &models.CloseDrawResult{Draw: draw}
		}
		if err != nil {
			return err
		}

		opts := options.Find().SetSort(bson.D{{Key: "rank", Value: 1}, {Key: "id", Value: 1}})
		cursor, err := l.rewards.Find(ctx, bson.M{"drawId": drawID}, opts)
		if err != nil {
			return err
		}
		var rewards []*models.Reward
		if err := cursor.All(ctx, &rewards); err != nil {
			return err
		}
		declared := bson.A{}
		for _, r := range rewards {
			n, err := matchTicket(ctx, l.orders, r.TicketID, r.Rank)
			if err != nil {
				return err
			}
			result.Matched += n
			declared = append(declared, r.TicketID)
		}

		res, err := l.orders.UpdateMany(ctx,
			bson.M{
				"drawId":   drawID,
				"status":   models.OrderStatusPurchased,
				"ticketId": bson.M{"$nin": declared},
			},
			bson.M{"$set": bson.M{
				"status":    models.OrderStatusNotWon,
				"updatedAt": now,
			}},
		)
		if err != nil {
			return err
		}
		result.NotWon = res.ModifiedCount
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrStatusConflict) {
			return result, err
		}
		return nil, err
	}
	return result, nil
}

// Redeem moves a MATCHED order to REDEEMED and credits the declared payout
func (l *Ledger) Redeem(ctx context.Context, orderID int64) (*models.RedeemResult, error) {
	var result *models.RedeemResult
	err := l.run(ctx, func(ctx context.Context) error {
		if _, err := findOrder(ctx, l.orders, orderID); err != nil {
			return err
		}

		now := time.Now().UTC()
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		var order models.Order
		err := l.orders.FindOneAndUpdate(ctx,
			bson.M{"id": orderID, "status": models.OrderStatusMatched},
			bson.M{"$set": bson.M{
				"status":     models.OrderStatusRedeemed,
				"redeemedAt": now,
				"updatedAt":  now,
			}},
			opts,
		).Decode(&order)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repositories.ErrStatusConflict
		}
		if err != nil {
			return err
		}
		if order.MatchedRank == nil {
			return repositories.ErrStatusConflict
		}

		reward, err := findReward(ctx, l.rewards, order.TicketID, *order.MatchedRank)
		if err != nil {
			return err
		}
		account, err := adjustWallet(ctx, l.accounts, order.AccountID, reward.PriceReward)
		if err != nil {
			return err
		}
		result = &models.RedeemResult{Order: &order, Payout: reward.PriceReward, Account: account}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RedeemTicket redeems every MATCHED order of a ticket. The orders are
// stamped with a settlement batch id so exactly the rows moved by this call
// are credited.
func (l *Ledger) RedeemTicket(ctx context.Context, ticketID int64) (*models.BulkRedeemResult, error) {
	var result *models.BulkRedeemResult
	err := l.run(ctx, func(ctx context.Context) error {
		if _, err := findTicket(ctx, l.tickets, ticketID); err != nil {
			return err
		}

		batch := uuid.NewString()
		now := time.Now().UTC()
		_, err := l.orders.UpdateMany(ctx,
			bson.M{"ticketId": ticketID, "status": models.OrderStatusMatched},
			bson.M{"$set": bson.M{
				"status":          models.OrderStatusRedeemed,
				"settlementBatch": batch,
				"redeemedAt":      now,
				"updatedAt":       now,
			}},
		)
		if err != nil {
			return err
		}

		cursor, err := l.orders.Find(ctx, bson.M{"settlementBatch": batch}, options.Find().SetSort(bson.M{"id": 1}))
		if err != nil {
			return err
		}
		var redeemed []*models.Order
		if err := cursor.All(ctx, &redeemed); err != nil {
			return err
		}

		result = &models.BulkRedeemResult{TicketID: ticketID, Total: decimal.Zero, OrderIDs: []int64{}}
		payouts := map[int]decimal.Decimal{}
		for _, o := range redeemed {
			if o.MatchedRank == nil {
				return repositories.ErrStatusConflict
			}
			payout, ok := payouts[*o.MatchedRank]
			if !ok {
				reward, err := findReward(ctx, l.rewards, ticketID, *o.MatchedRank)
				if err != nil {
					return err
				}
				payout = reward.PriceReward
				payouts[*o.MatchedRank] = payout
			}
			if _, err := adjustWallet(ctx, l.accounts, o.AccountID, payout); err != nil {
				return err
			}
			result.Count++
			result.Total = result.Total.Add(payout)
			result.OrderIDs = append(result.OrderIDs, o.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reset deletes every order, reward, ticket and draw
func (l *Ledger) Reset(ctx context.Context) error {
	return l.run(ctx, func(ctx context.Context) error {
		for _, coll := range []*mongo.Collection{l.orders, l.rewards, l.tickets, l.draws} {
			if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
				return err
			}
		}
		return nil
	})
}
