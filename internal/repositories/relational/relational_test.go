package relational

import (
	"context"
	"errors"
	"testing"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) (*gorm.DB, *repositories.Store) {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := Open(DialectSQLite, dsn, Options{LogLevel: logger.Silent})
	require.NoError(t, err)
	store := NewStore(db, nil)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return db, store
}

func newTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	_, store := newTestDB(t)
	return store
}

func next(t *testing.T, s *repositories.Store, name string) int64 {
	t.Helper()
	id, err := s.Sequences.Next(context.Background(), name)
	require.NoError(t, err)
	return id
}

func seedAccount(t *testing.T, s *repositories.Store, email string, wallet string) *models.Account {
	t.Helper()
	a := &models.Account{
		ID:           next(t, s, repositories.SeqAccounts),
		Email:        email,
		Name:         email,
		PasswordHash: "x",
		Wallet:       decimal.RequireFromString(wallet),
		Status:       models.AccountStatusActive,
	}
	require.NoError(t, s.Accounts.Create(context.Background(), a))
	return a
}

// seedDraw creates an OPEN draw priced at 10 with one ticket per number
func seedDraw(t *testing.T, s *repositories.Store, copies int, numbers ...string) (*models.Draw, []*models.Ticket) {
	t.Helper()
	d := &models.Draw{ID: next(t, s, repositories.SeqDraws), Status: models.DrawStatusOpen, Price: decimal.NewFromInt(10), TicketCount: len(numbers)}
	tickets := make([]*models.Ticket, len(numbers))
	for i, n := range numbers {
		tickets[i] = &models.Ticket{
			ID:        next(t, s, repositories.SeqTickets),
			DrawID:    d.ID,
			Number:    n,
			Price:     d.Price,
			Copies:    copies,
			Remaining: copies,
			Status:    models.TicketStatusAvailable,
		}
	}
	require.NoError(t, s.Ledger.CreateDraw(context.Background(), d, tickets))
	return d, tickets
}

func purchase(t *testing.T, s *repositories.Store, accountID, ticketID int64, debit bool) *models.Order {
	t.Helper()
	o := &models.Order{ID: next(t, s, repositories.SeqOrders), AccountID: accountID, TicketID: ticketID}
	require.NoError(t, s.Ledger.Purchase(context.Background(), o, debit))
	return o
}

func declare(t *testing.T, s *repositories.Store, tk *models.Ticket, rank int, payout string) *models.Reward {
	t.Helper()
	r := &models.Reward{
		ID:           next(t, s, repositories.SeqRewards),
		DrawID:       tk.DrawID,
		TicketID:     tk.ID,
		Rank:         rank,
		NumberReward: tk.Number,
		PriceReward:  decimal.RequireFromString(payout),
	}
	require.NoError(t, s.Rewards.Create(context.Background(), r))
	return r
}

func TestSequenceIsMonotonicPerName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, int64(1), next(t, s, "a"))
	assert.Equal(t, int64(2), next(t, s, "a"))
	assert.Equal(t, int64(1), next(t, s, "b"))

	require.NoError(t, s.Sequences.Reset(ctx, "a"))
	assert.Equal(t, int64(1), next(t, s, "a"))
	assert.Equal(t, int64(2), next(t, s, "b"))
}

func TestAccountRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := seedAccount(t, s, "ann@example.com", "100")

	got, err := s.Accounts.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.True(t, got.Wallet.Equal(decimal.NewFromInt(100)))

	_, err = s.Accounts.FindByID(ctx, 999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	dup := &models.Account{ID: next(t, s, repositories.SeqAccounts), Email: "ann@example.com", PasswordHash: "x", Status: models.AccountStatusActive}
	assert.ErrorIs(t, s.Accounts.Create(ctx, dup), repositories.ErrDuplicate)
}

func TestAdjustWalletGuardsNegativeBalance(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	a := seedAccount(t, s, "bob@example.com", "50")

	got, err := s.Accounts.AdjustWallet(ctx, a.ID, decimal.RequireFromString("-20.5"))
	require.NoError(t, err)
	assert.True(t, got.Wallet.Equal(decimal.RequireFromString("29.5")), got.Wallet.String())

	_, err = s.Accounts.AdjustWallet(ctx, a.ID, decimal.NewFromInt(-30))
	assert.ErrorIs(t, err, repositories.ErrInsufficientFunds)

	_, err = s.Accounts.AdjustWallet(ctx, 404, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	got, err = s.Accounts.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Wallet.Equal(decimal.RequireFromString("29.5")))
}

func TestSequenceNextN(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Sequences.NextN(ctx, "batch", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
	first, err = s.Sequences.NextN(ctx, "batch", 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), first)
	assert.Equal(t, int64(8), next(t, s, "batch"))

	_, err = s.Sequences.NextN(ctx, "batch", 0)
	assert.Error(t, err)
}

func TestCreateDrawRollsBackOnTicketFailure(t *testing.T) {
	db, s := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_tickets", func(tx *gorm.DB) {
		if tx.Statement.Table == "tickets" {
			tx.AddError(errors.New("injected failure"))
		}
	}))

	d := &models.Draw{ID: 1, Status: models.DrawStatusOpen, Price: decimal.NewFromInt(10), TicketCount: 1}
	tk := &models.Ticket{ID: 1, DrawID: 1, Number: "000001", Price: d.Price, Copies: 1, Remaining: 1, Status: models.TicketStatusAvailable}
	require.Error(t, s.Ledger.CreateDraw(ctx, d, []*models.Ticket{tk}))

	_, err := s.Draws.FindByID(ctx, 1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = s.Tickets.FindByID(ctx, 1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestDrawLock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d, _ := seedDraw(t, s, 1, "000001")

	locked, err := s.Draws.Lock(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DrawStatusLocked, locked.Status)
	assert.NotNil(t, locked.LockedAt)

	again, err := s.Draws.Lock(ctx, d.ID)
	assert.ErrorIs(t, err, repositories.ErrStatusConflict)
	require.NotNil(t, again)
	assert.Equal(t, models.DrawStatusLocked, again.Status)

	_, err = s.Draws.Lock(ctx, 77)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestTicketListingAndRandom(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d, _ := seedDraw(t, s, 1, "111111", "222222", "333333")

	page, total, err := s.Tickets.FindByDraw(ctx, d.ID, "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	page, _, err = s.Tickets.FindByDraw(ctx, d.ID, "", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "333333", page[0].Number)

	r, err := s.Tickets.FindRandom(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, r.DrawID)

	_, err = s.Tickets.FindRandom(ctx, d.ID+1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestPurchaseClaimsStockAndDebits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d, tickets := seedDraw(t, s, 2, "481932")
	a := seedAccount(t, s, "c@example.com", "25")
	tk := tickets[0]

	o := purchase(t, s, a.ID, tk.ID, true)
	assert.Equal(t, models.OrderStatusPurchased, o.Status)
	assert.Equal(t, d.ID, o.DrawID)
	assert.True(t, o.Price.Equal(decimal.NewFromInt(10)))

	purchase(t, s, a.ID, tk.ID, true)
	got, err := s.Tickets.FindByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Remaining)
	assert.Equal(t, models.TicketStatusSold, got.Status)

	err = s.Ledger.Purchase(ctx, &models.Order{ID: next(t, s, repositories.SeqOrders), AccountID: a.ID, TicketID: tk.ID}, true)
	assert.ErrorIs(t, err, repositories.ErrSoldOut)

	acc, err := s.Accounts.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, acc.Wallet.Equal(decimal.NewFromInt(5)))

	draw, err := s.Draws.FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, draw.SoldCount)
}

func TestPurchaseRollsBackOnInsufficientFunds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d, tickets := seedDraw(t, s, 1, "000001")
	a := seedAccount(t, s, "poor@example.com", "5")
	tk := tickets[0]

	err := s.Ledger.Purchase(ctx, &models.Order{ID: next(t, s, repositories.SeqOrders), AccountID: a.ID, TicketID: tk.ID}, true)
	assert.ErrorIs(t, err, repositories.ErrInsufficientFunds)

	got, err := s.Tickets.FindByID(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Remaining)
	assert.Equal(t, models.TicketStatusAvailable, got.Status)

	entries, err := s.Orders.ActiveTickets(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	draw, err := s.Draws.FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, draw.SoldCount)
}

func TestPurchaseUnknownReferences(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, tickets := seedDraw(t, s, 1, "000001")
	a := seedAccount(t, s, "d@example.com", "25")
	tk := tickets[0]

	err := s.Ledger.Purchase(ctx, &models.Order{ID: 1, AccountID: a.ID, TicketID: 999}, false)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	err = s.Ledger.Purchase(ctx, &models.Order{ID: 2, AccountID: 999, TicketID: tk.ID}, false)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestMatchRedeemAndWinnings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d, tickets := seedDraw(t, s, 1, "481932")
	a := seedAccount(t, s, "e@example.com", "0")
	tk := tickets[0]
	o := purchase(t, s, a.ID, tk.ID, false)
	declare(t, s, tk, 1, "1000")

	pending, err := s.Orders.PendingMatches(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, o.ID, pending[0].OrderID)
	assert.Equal(t, "481932", pending[0].NumberReward)

	n, err := s.Orders.MatchTicket(ctx, tk.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.Orders.MatchTicket(ctx, tk.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	wins, err := s.Orders.Winnings(ctx, a.ID, models.WinningsPending.Statuses())
	require.NoError(t, err)
	require.Len(t, wins, 1)
	assert.True(t, wins[0].PriceReward.Equal(decimal.NewFromInt(1000)))

	res, err := s.Ledger.Redeem(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusRedeemed, res.Order.Status)
	assert.True(t, res.Account.Wallet.Equal(decimal.NewFromInt(1000)))

	_, err = s.Ledger.Redeem(ctx, o.ID)
	assert.ErrorIs(t, err, repositories.ErrStatusConflict)

	acc, err := s.Accounts.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, acc.Wallet.Equal(decimal.NewFromInt(1000)))

	history, err := s.Orders.Winnings(ctx, a.ID, models.WinningsHistory.Statuses())
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRedeemRequiresMatched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, tickets := seedDraw(t, s, 1, "123456")
	a := seedAccount(t, s, "f@example.com", "0")
	tk := tickets[0]
	o := purchase(t, s, a.ID, tk.ID, false)

	_, err := s.Ledger.Redeem(ctx, o.ID)
	assert.ErrorIs(t, err, repositories.ErrStatusConflict)

	got, err := s.Orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPurchased, got.Status)

	_, err = s.Ledger.Redeem(ctx, 9999)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestRedeemTicketCreditsEveryHolder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, tickets := seedDraw(t, s, 3, "555932")
	tk := tickets[0]

	var accounts []*models.Account
	for _, email := range []string{"g1@example.com", "g2@example.com", "g3@example.com"} {
		a := seedAccount(t, s, email, "0")
		purchase(t, s, a.ID, tk.ID, false)
		accounts = append(accounts, a)
	}
	declare(t, s, tk, 5, "50")
	n, err := s.Orders.MatchTicket(ctx, tk.ID, 5)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	res, err := s.Ledger.RedeemTicket(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Count)
	assert.True(t, res.Total.Equal(decimal.NewFromInt(150)))
	assert.Len(t, res.OrderIDs, 3)

	for _, a := range accounts {
		acc, err := s.Accounts.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.True(t, acc.Wallet.Equal(decimal.NewFromInt(50)))
	}

	again, err := s.Ledger.RedeemTicket(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), again.Count)

	_, err = s.Ledger.RedeemTicket(ctx, 4242)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestPurchaseRejectedOnceSalesStop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d, tickets := seedDraw(t, s, 2, "481932", "100000")
	a := seedAccount(t, s, "late@example.com", "100")

	declare(t, s, tickets[0], 1, "1000")
	err := s.Ledger.Purchase(ctx, &models.Order{ID: next(t, s, repositories.SeqOrders), AccountID: a.ID, TicketID: tickets[0].ID}, true)
	assert.ErrorIs(t, err, repositories.ErrSalesClosed)

	_, err = s.Draws.Lock(ctx, d.ID)
	require.NoError(t, err)
	err = s.Ledger.Purchase(ctx, &models.Order{ID: next(t, s, repositories.SeqOrders), AccountID: a.ID, TicketID: tickets[1].ID}, true)
	assert.ErrorIs(t, err, repositories.ErrSalesClosed)

	acc, err := s.Accounts.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, acc.Wallet.Equal(decimal.NewFromInt(100)))
	got, err := s.Tickets.FindByID(ctx, tickets[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Remaining)
}

func TestCloseDrawMatchesAndSettles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d, tickets := seedDraw(t, s, 1, "481932", "100000", "555932")
	a := seedAccount(t, s, "h@example.com", "0")
	winner, loser, unsold := tickets[0], tickets[1], tickets[2]
	purchase(t, s, a.ID, winner.ID, false)
	purchase(t, s, a.ID, loser.ID, false)
	_, err := s.Draws.Lock(ctx, d.ID)
	require.NoError(t, err)
	declare(t, s, winner, 5, "50")
	declare(t, s, winner, 1, "1000")
	declare(t, s, unsold, 2, "500")

	res, err := s.Ledger.CloseDraw(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DrawStatusClosed, res.Draw.Status)
	assert.NotNil(t, res.Draw.ClosedAt)
	assert.Equal(t, int64(1), res.Matched)
	assert.Equal(t, int64(1), res.NotWon)

	wins, err := s.Orders.Winnings(ctx, a.ID, models.WinningsPending.Statuses())
	require.NoError(t, err)
	require.Len(t, wins, 1)
	assert.Equal(t, 1, wins[0].Rank)

	entries, err := s.Orders.ActiveTickets(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "481932", entries[0].Number)

	again, err := s.Ledger.CloseDraw(ctx, d.ID)
	assert.ErrorIs(t, err, repositories.ErrStatusConflict)
	require.NotNil(t, again)
	assert.Equal(t, models.DrawStatusClosed, again.Draw.Status)

	_, err = s.Ledger.CloseDraw(ctx, 4242)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCloseDrawRollsBackOnSettlementFailure(t *testing.T) {
	db, s := newTestDB(t)
	ctx := context.Background()
	d, tickets := seedDraw(t, s, 1, "481932", "100000")
	a := seedAccount(t, s, "k@example.com", "0")
	won := purchase(t, s, a.ID, tickets[0].ID, false)
	lost := purchase(t, s, a.ID, tickets[1].ID, false)
	declare(t, s, tickets[0], 1, "1000")

	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:fail_not_won", func(tx *gorm.DB) {
		if m, ok := tx.Statement.Dest.(map[string]interface{}); ok && m["status"] == models.OrderStatusNotWon {
			tx.AddError(errors.New("injected failure"))
		}
	}))

	_, err := s.Ledger.CloseDraw(ctx, d.ID)
	require.Error(t, err)

	draw, err := s.Draws.FindByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DrawStatusOpen, draw.Status)
	for _, id := range []int64{won.ID, lost.ID} {
		o, err := s.Orders.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPurchased, o.Status)
	}

	require.NoError(t, db.Callback().Update().Remove("test:fail_not_won"))
	res, err := s.Ledger.CloseDraw(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Matched)
	assert.Equal(t, int64(1), res.NotWon)
}

func TestRewardRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	d, tickets := seedDraw(t, s, 1, "481932", "777932")
	t1, t2 := tickets[0], tickets[1]
	declare(t, s, t2, 5, "20")
	declare(t, s, t1, 1, "1000")

	dup := &models.Reward{ID: next(t, s, repositories.SeqRewards), DrawID: d.ID, TicketID: t1.ID, Rank: 1, NumberReward: "481932", PriceReward: decimal.NewFromInt(1)}
	assert.ErrorIs(t, s.Rewards.Create(ctx, dup), repositories.ErrDuplicate)

	rewards, err := s.Rewards.FindByDraw(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, rewards, 2)
	assert.Equal(t, 1, rewards[0].Rank)
	assert.Equal(t, 5, rewards[1].Rank)

	byRank, err := s.Rewards.FindByRank(ctx, 5)
	require.NoError(t, err)
	require.Len(t, byRank, 1)
	assert.Equal(t, t2.ID, byRank[0].TicketID)

	_, err = s.Rewards.FindByTicketAndRank(ctx, t1.ID, 2)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestReset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, tickets := seedDraw(t, s, 1, "481932")
	a := seedAccount(t, s, "i@example.com", "0")
	tk := tickets[0]
	purchase(t, s, a.ID, tk.ID, false)
	declare(t, s, tk, 1, "10")

	require.NoError(t, s.Ledger.Reset(ctx))

	draws, err := s.Draws.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, draws)
	_, err = s.Tickets.FindByID(ctx, tk.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = s.Accounts.FindByID(ctx, a.ID)
	assert.NoError(t, err)
}
