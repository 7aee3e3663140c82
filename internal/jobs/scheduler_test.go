package jobs

import (
	"context"
	"testing"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories/relational"
	"github.com/ArowuTest/lotto-backend/internal/services"
	"github.com/ArowuTest/lotto-backend/pkg/credentials"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"
)

type fixture struct {
	accounts   services.AccountService
	draws      services.DrawService
	orders     services.OrderService
	settlement services.SettlementService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := relational.Open(relational.DialectSQLite, dsn, relational.Options{LogLevel: logger.Silent})
	require.NoError(t, err)
	store := relational.NewStore(db, nil)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	return &fixture{
		accounts:   services.NewAccountService(store, credentials.NewBcryptVerifier(bcrypt.MinCost)),
		draws:      services.NewDrawService(store, services.Options{}),
		orders:     services.NewOrderService(store, services.Options{}),
		settlement: services.NewSettlementService(store),
	}
}

// seed creates a locked draw with one purchased order on a declared ticket
func (f *fixture) seed(t *testing.T, number string) (*models.Draw, *models.Order) {
	t.Helper()
	ctx := context.Background()

	account, err := f.accounts.Register(ctx, &models.RegisterRequest{
		Email:    uuid.NewString() + "@example.com",
		Name:     "Player",
		Password: "secret1",
		Wallet:   decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	draw, err := f.draws.GenerateDraw(ctx, &models.GenerateDrawRequest{
		Numbers: []string{number},
		Price:   decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	tickets, _, err := f.draws.ListTickets(ctx, draw.ID, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, tickets, 1)

	order, err := f.orders.Purchase(ctx, &models.PurchaseRequest{AccountID: account.ID, TicketID: tickets[0].ID})
	require.NoError(t, err)

	_, err = f.draws.LockDraw(ctx, draw.ID)
	require.NoError(t, err)
	_, err = f.draws.DeclareReward(ctx, draw.ID, &models.DeclareRewardRequest{
		TicketID:    tickets[0].ID,
		Rank:        models.TopRank,
		PriceReward: decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	return draw, order
}

func TestRunOnceReconcilesLockedDraws(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, order := f.seed(t, "481932")

	s := NewScheduler("", f.draws, f.settlement)
	matched, err := s.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	got, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusMatched, got.Status)

	// a second run finds nothing left to match
	matched, err = s.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, matched)
}

func TestRunOnceSkipsOpenAndClosedDraws(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draw, _ := f.seed(t, "102938")

	_, err := f.draws.GenerateDraw(ctx, &models.GenerateDrawRequest{
		Numbers: []string{"555555"},
		Price:   decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = f.settlement.CloseDraw(ctx, draw.ID)
	require.NoError(t, err)

	matched, err := NewScheduler("", f.draws, f.settlement).RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, matched)
}

func TestStart(t *testing.T) {
	f := newFixture(t)

	disabled := NewScheduler("", f.draws, f.settlement)
	require.NoError(t, disabled.Start(context.Background()))

	bad := NewScheduler("not a schedule", f.draws, f.settlement)
	assert.Error(t, bad.Start(context.Background()))

	ok := NewScheduler("@every 1h", f.draws, f.settlement)
	require.NoError(t, ok.Start(context.Background()))
	ok.Stop()
}
