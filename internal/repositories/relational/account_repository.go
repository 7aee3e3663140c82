package relational

import (
	"context"
	"time"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var _ repositories.AccountRepository = (*AccountRepository)(nil)

// AccountRepository handles relational operations for Account
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	return translate(r.db.WithContext(ctx).Create(account).Error)
}

// FindByID finds an account by ID
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	return findAccount(r.db.WithContext(ctx), "id = ?", id)
}

// FindByEmail finds an account by email
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return findAccount(r.db.WithContext(ctx), "email = ?", email)
}

// AdjustWallet applies a signed delta guarded against negative balances
func (r *AccountRepository) AdjustWallet(ctx context.Context, id int64, delta decimal.Decimal) (*models.Account, error) {
	var account *models.Account
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := adjustWallet(tx, id, delta); err != nil {
			return err
		}
		var err error
		account, err = findAccount(tx, "id = ?", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func findAccount(db *gorm.DB, query string, arg interface{}) (*models.Account, error) {
	var account models.Account
	if err := db.Where(query, arg).First(&account).Error; err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

// adjustWallet is a single conditional increment. A miss is resolved into
// ErrNotFound or ErrInsufficientFunds.
func adjustWallet(tx *gorm.DB, id int64, delta decimal.Decimal) error {
	res := tx.Model(&models.Account{}).
		Where("id = ? AND wallet + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"wallet":     gorm.Expr("wallet + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Account{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return repositories.ErrNotFound
	}
	return repositories.ErrInsufficientFunds
}
