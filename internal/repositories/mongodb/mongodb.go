package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArowuTest/lotto-backend/internal/repositories"
	pkgmongo "github.com/ArowuTest/lotto-backend/pkg/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	collAccounts = "accounts"
	collDraws    = "draws"
	collTickets  = "tickets"
	collRewards  = "rewards"
	collOrders   = "orders"
	collCounters = "counters"
)

// NewStore wires the document repositories on db. A nil seq uses the
// counters collection. The ledger runs multi-document transactions, so the
// server must be a replica set or a sharded cluster.
func NewStore(client *pkgmongo.Client, database string, seq repositories.SequenceGenerator) *repositories.Store {
	db := client.Database(database)
	if seq == nil {
		seq = NewSequenceRepository(db)
	}
	return &repositories.Store{
		Accounts:  NewAccountRepository(db),
		Draws:     NewDrawRepository(db),
		Tickets:   NewTicketRepository(db),
		Rewards:   NewRewardRepository(db),
		Orders:    NewOrderRepository(db),
		Ledger:    NewLedger(client.Mongo(), db),
		Sequences: seq,
		Ping:      client.Ping,
		Close:     client.Disconnect,
	}
}

// EnsureIndexes creates the unique keys the repositories rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		collAccounts: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		collDraws: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		},
		collTickets: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "drawId", Value: 1}, {Key: "status", Value: 1}}},
		},
		collRewards: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "ticketId", Value: 1}, {Key: "rank", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "drawId", Value: 1}, {Key: "rank", Value: 1}}},
		},
		collOrders: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "ticketId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "accountId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "settlementBatch", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
	}
	for coll, idx := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// translate maps driver errors onto repository sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repositories.ErrDuplicate, err)
	}
	return err
}

func objectID(v interface{}) primitive.ObjectID {
	id, _ := v.(primitive.ObjectID)
	return id
}
