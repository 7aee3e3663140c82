package repositories

import (
	"context"
	"errors"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a lookup resolves no row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is violated
	ErrDuplicate = errors.New("duplicate record")
	// ErrStatusConflict is returned when a guarded transition finds a different prior status
	ErrStatusConflict = errors.New("status conflict")
	// ErrInsufficientFunds is returned when a wallet mutation would go negative
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrSoldOut is returned when a ticket has no remaining copies
	ErrSoldOut = errors.New("ticket sold out")
	// ErrSalesClosed is returned when a purchase hits a draw that stopped selling
	// or a ticket that already carries a declaration
	ErrSalesClosed = errors.New("sales closed")
)

// Sequence names used by the stores
const (
	SeqAccounts = "accounts"
	SeqDraws    = "draws"
	SeqTickets  = "tickets"
	SeqRewards  = "rewards"
	SeqOrders   = "orders"
)

// SequenceGenerator hands out monotonically increasing ids per name
type SequenceGenerator interface {
	Next(ctx context.Context, name string) (int64, error)
	// NextN reserves n consecutive ids and returns the first one
	NextN(ctx context.Context, name string, n int64) (int64, error)
	// Reset restarts the named sequences at 1
	Reset(ctx context.Context, names ...string) error
}

// AccountRepository defines the interface for account data operations
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	// AdjustWallet applies delta atomically and returns the updated account.
	// It fails with ErrInsufficientFunds when the balance would go negative.
	AdjustWallet(ctx context.Context, id int64, delta decimal.Decimal) (*models.Account, error)
}

// DrawRepository defines the interface for draw data operations
type DrawRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Draw, error)
	FindAll(ctx context.Context) ([]*models.Draw, error)
	// Lock moves an OPEN draw to LOCKED, ErrStatusConflict otherwise
	Lock(ctx context.Context, id int64) (*models.Draw, error)
}

// TicketRepository defines the interface for ticket data operations
type TicketRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Ticket, error)
	FindByDraw(ctx context.Context, drawID int64, status models.TicketStatus, page, limit int) ([]*models.Ticket, int64, error)
	FindRandom(ctx context.Context, drawID int64) (*models.Ticket, error)
}

// RewardRepository defines the interface for reward declarations
type RewardRepository interface {
	Create(ctx context.Context, reward *models.Reward) error
	FindByTicketAndRank(ctx context.Context, ticketID int64, rank int) (*models.Reward, error)
	// FindByDraw returns the declarations of a draw ordered by rank ascending
	FindByDraw(ctx context.Context, drawID int64) ([]*models.Reward, error)
	FindByRank(ctx context.Context, rank int) ([]*models.Reward, error)
}

// OrderRepository defines the interface for order reads and settlement transitions
type OrderRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	ActiveTickets(ctx context.Context, accountID int64) ([]*models.TicketEntry, error)
	Winnings(ctx context.Context, accountID int64, statuses []models.OrderStatus) ([]*models.WinningEntry, error)
	PendingMatches(ctx context.Context, drawID int64) ([]*models.MatchCandidate, error)
	// MatchTicket moves every PURCHASED order of the ticket to MATCHED with rank
	MatchTicket(ctx context.Context, ticketID int64, rank int) (int64, error)
}

// Ledger groups the operations that touch more than one collection or table
type Ledger interface {
	// CreateDraw stores a draw together with its whole ticket batch
	CreateDraw(ctx context.Context, draw *models.Draw, tickets []*models.Ticket) error
	// Purchase claims one copy of the ticket, debits the account when debit
	// is set and records the order in PURCHASED. The draw must still be OPEN
	// and the ticket must carry no declaration, ErrSalesClosed otherwise.
	Purchase(ctx context.Context, order *models.Order, debit bool) error
	// CloseDraw moves an OPEN or LOCKED draw to CLOSED, applies every
	// declaration of the draw in rank order and settles the remaining
	// PURCHASED orders as NOT_WON, all as one unit.
	CloseDraw(ctx context.Context, drawID int64) (*models.CloseDrawResult, error)
	// Redeem moves a MATCHED order to REDEEMED and credits its payout
	Redeem(ctx context.Context, orderID int64) (*models.RedeemResult, error)
	// RedeemTicket redeems every MATCHED order of a ticket as one unit
	RedeemTicket(ctx context.Context, ticketID int64) (*models.BulkRedeemResult, error)
	// Reset deletes every draw, ticket, reward and order
	Reset(ctx context.Context) error
}

// Store bundles a persistence backend
type Store struct {
	Accounts  AccountRepository
	Draws     DrawRepository
	Tickets   TicketRepository
	Rewards   RewardRepository
	Orders    OrderRepository
	Ledger    Ledger
	Sequences SequenceGenerator
	Close     func(ctx context.Context) error
	Ping      func(ctx context.Context) error
}
