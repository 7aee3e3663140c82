package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	pkgmongo "github.com/ArowuTest/lotto-backend/pkg/mongodb"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure AccountRepository implements the interface
var _ repositories.AccountRepository = (*AccountRepository)(nil)

// AccountRepository handles MongoDB operations for Account
type AccountRepository struct {
	collection *mongo.Collection
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		collection: db.Collection(collAccounts),
	}
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, account)
	if err != nil {
		return translate(err)
	}
	account.MongoID = objectID(res.InsertedID)
	return nil
}

// FindByID finds an account by ID
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// FindByEmail finds an account by email
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// AdjustWallet applies delta with $inc, guarded against negative balances
func (r *AccountRepository) AdjustWallet(ctx context.Context, id int64, delta decimal.Decimal) (*models.Account, error) {
	return adjustWallet(ctx, r.collection, id, delta)
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*models.Account, error) {
	var account models.Account
	if err := r.collection.FindOne(ctx, filter).Decode(&account); err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func adjustWallet(ctx context.Context, coll *mongo.Collection, id int64, delta decimal.Decimal) (*models.Account, error) {
	inc, err := pkgmongo.Decimal128(delta)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"id": id}
	if delta.IsNegative() {
		floor, err := pkgmongo.Decimal128(delta.Neg())
		if err != nil {
			return nil, err
		}
		filter["wallet"] = bson.M{"$gte": floor}
	}
	update := bson.M{
		"$inc": bson.M{"wallet": inc},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var account models.Account
	err = coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&account)
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	count, cerr := coll.CountDocuments(ctx, bson.M{"id": id})
	if cerr != nil {
		return nil, cerr
	}
	if count == 0 {
		return nil, repositories.ErrNotFound
	}
	return nil, repositories.ErrInsufficientFunds
}
