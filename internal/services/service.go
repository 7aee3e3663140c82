package services

import (
	"context"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/shopspring/decimal"
)

// AccountService defines the interface for account operations
type AccountService interface {
	// Register creates an account with a hashed credential
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, error)

	// Login verifies email and password and returns the account
	Login(ctx context.Context, req *models.LoginRequest) (*models.Account, error)

	// GetProfile retrieves an account by its ID
	GetProfile(ctx context.Context, id int64) (*models.Account, error)

	// AdjustWallet applies a signed delta to the wallet, never below zero
	AdjustWallet(ctx context.Context, id int64, delta decimal.Decimal) (*models.Account, error)
}

// DrawService defines the interface for draw generation and reward declaration
type DrawService interface {
	GenerateDraw(ctx context.Context, req *models.GenerateDrawRequest) (*models.Draw, error)
	GetDraw(ctx context.Context, id int64) (*models.Draw, error)
	ListDraws(ctx context.Context) ([]*models.Draw, error)
	ListTickets(ctx context.Context, drawID int64, status models.TicketStatus, page, limit int) ([]*models.Ticket, int64, error)
	RandomTicket(ctx context.Context, drawID int64) (*models.Ticket, error)
	// LockDraw stops sales on an OPEN draw so results can be declared
	LockDraw(ctx context.Context, id int64) (*models.Draw, error)
	DeclareReward(ctx context.Context, drawID int64, req *models.DeclareRewardRequest) (*models.Reward, error)
	ListRewards(ctx context.Context, drawID int64) ([]*models.Reward, error)
	// RewardSuffixes lists the rewards of a rank reduced to their last length digits
	RewardSuffixes(ctx context.Context, rank, length int) ([]models.RewardSuffix, error)
	// Reset deletes all draw data and restarts its sequences
	Reset(ctx context.Context) error
}

// OrderService defines the interface for purchases
type OrderService interface {
	Purchase(ctx context.Context, req *models.PurchaseRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
}

// SettlementService defines the interface for matching and redeeming orders
type SettlementService interface {
	// MatchTicket moves the PURCHASED orders of a ticket to MATCHED at a declared rank
	MatchTicket(ctx context.Context, ticketID int64, rank int) (*models.MatchResult, error)

	// Reconcile matches every declaration of a draw, best rank first
	Reconcile(ctx context.Context, drawID int64) (*models.ReconcileResult, error)

	// Collect redeems one MATCHED order and credits its payout
	Collect(ctx context.Context, orderID int64) (*models.RedeemResult, error)

	// RedeemTicket redeems every MATCHED order of a ticket atomically
	RedeemTicket(ctx context.Context, ticketID int64) (*models.BulkRedeemResult, error)

	// CloseDraw closes a draw, reconciles it and settles the rest as NOT_WON
	CloseDraw(ctx context.Context, drawID int64) (*models.CloseDrawResult, error)

	Winnings(ctx context.Context, accountID int64, filter models.WinningsFilter) ([]*models.WinningEntry, error)
	ActiveTickets(ctx context.Context, accountID int64) ([]*models.TicketEntry, error)
	PendingMatches(ctx context.Context, drawID int64) ([]*models.MatchCandidate, error)
}

// Options carries the settlement settings shared by the services
type Options struct {
	// DebitOnPurchase debits the ticket price inside the purchase
	DebitOnPurchase bool
	// SuffixLength is the default digit count for reward suffix listings
	SuffixLength int
}

// DefaultSuffixLength is used when Options.SuffixLength is not set
const DefaultSuffixLength = 3
