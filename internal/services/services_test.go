package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"github.com/ArowuTest/lotto-backend/internal/repositories/relational"
	"github.com/ArowuTest/lotto-backend/pkg/credentials"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db         *gorm.DB
	store      *repositories.Store
	accounts   *AccountServiceImpl
	draws      *DrawServiceImpl
	orders     *OrderServiceImpl
	settlement *SettlementServiceImpl
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := relational.Open(relational.DialectSQLite, dsn, relational.Options{LogLevel: logger.Silent})
	require.NoError(t, err)
	store := relational.NewStore(db, nil)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	return &testEnv{
		db:         db,
		store:      store,
		accounts:   NewAccountService(store, credentials.NewBcryptVerifier(bcrypt.MinCost)),
		draws:      NewDrawService(store, opts),
		orders:     NewOrderService(store, opts),
		settlement: NewSettlementService(store),
	}
}

func (e *testEnv) register(t *testing.T, email, wallet string) *models.Account {
	t.Helper()
	a, err := e.accounts.Register(context.Background(), &models.RegisterRequest{
		Email:    email,
		Name:     "Player " + email,
		Password: "secret1",
		Wallet:   decimal.RequireFromString(wallet),
	})
	require.NoError(t, err)
	return a
}

func (e *testEnv) draw(t *testing.T, price string, copies int, numbers ...string) (*models.Draw, []*models.Ticket) {
	t.Helper()
	ctx := context.Background()
	d, err := e.draws.GenerateDraw(ctx, &models.GenerateDrawRequest{
		Numbers: numbers,
		Price:   decimal.RequireFromString(price),
		Copies:  copies,
	})
	require.NoError(t, err)
	tickets, _, err := e.draws.ListTickets(ctx, d.ID, "", 1, 100)
	require.NoError(t, err)
	return d, tickets
}

func (e *testEnv) buy(t *testing.T, accountID, ticketID int64) *models.Order {
	t.Helper()
	o, err := e.orders.Purchase(context.Background(), &models.PurchaseRequest{AccountID: accountID, TicketID: ticketID})
	require.NoError(t, err)
	return o
}

// lock stops sales on the draw unless it is already locked
func (e *testEnv) lock(t *testing.T, drawID int64) {
	t.Helper()
	d, err := e.draws.GetDraw(context.Background(), drawID)
	require.NoError(t, err)
	if d.Status == models.DrawStatusOpen {
		_, err = e.draws.LockDraw(context.Background(), drawID)
		require.NoError(t, err)
	}
}

// declare locks the draw if needed and declares a reward
func (e *testEnv) declare(t *testing.T, drawID, ticketID int64, rank int, payout string) *models.Reward {
	t.Helper()
	e.lock(t, drawID)
	r, err := e.draws.DeclareReward(context.Background(), drawID, &models.DeclareRewardRequest{
		TicketID:    ticketID,
		Rank:        rank,
		PriceReward: decimal.RequireFromString(payout),
	})
	require.NoError(t, err)
	return r
}

// failOn registers an update hook that fails any Updates call setting status
// to the given value. The returned func removes it.
func (e *testEnv) failOn(t *testing.T, status interface{}) func() {
	t.Helper()
	name := "test:fail_" + uuid.NewString()
	require.NoError(t, e.db.Callback().Update().Before("gorm:update").Register(name, func(tx *gorm.DB) {
		if m, ok := tx.Statement.Dest.(map[string]interface{}); ok && m["status"] == status {
			tx.AddError(errors.New("injected failure"))
		}
	}))
	return func() { require.NoError(t, e.db.Callback().Update().Remove(name)) }
}
