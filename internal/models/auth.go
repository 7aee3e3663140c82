package models

import "github.com/shopspring/decimal"

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest defines the structure for registration requests
type RegisterRequest struct {
	Email    string          `json:"email" binding:"required,email"`
	Name     string          `json:"name" binding:"required"`
	Password string          `json:"password" binding:"required,min=6"`
	Wallet   decimal.Decimal `json:"wallet"`
}

// WalletUpdateRequest carries a signed wallet delta
type WalletUpdateRequest struct {
	Delta decimal.Decimal `json:"delta"`
}

// PurchaseRequest is a ticket purchase made on behalf of an account
type PurchaseRequest struct {
	AccountID int64 `json:"accountId" binding:"required"`
	TicketID  int64 `json:"ticketId" binding:"required"`
}

// GenerateDrawRequest creates a draw. Numbers are used as-is when given,
// otherwise Count random numbers of Width digits are generated.
type GenerateDrawRequest struct {
	Numbers []string        `json:"numbers"`
	Count   int             `json:"count"`
	Width   int             `json:"width"`
	Price   decimal.Decimal `json:"price"`
	Copies  int             `json:"copies"`
}

// DeclareRewardRequest declares a prize on a ticket of a draw
type DeclareRewardRequest struct {
	TicketID     int64           `json:"ticketId" binding:"required"`
	Rank         int             `json:"rank" binding:"required"`
	NumberReward string          `json:"numberReward"`
	PriceReward  decimal.Decimal `json:"priceReward"`
}

// MatchRequest asks settlement to match the orders of a ticket at a rank
type MatchRequest struct {
	TicketID int64 `json:"ticketId" binding:"required"`
	Rank     int   `json:"rank" binding:"required"`
}

// ReconcileRequest reconciles the declarations of one draw
type ReconcileRequest struct {
	DrawID int64 `json:"drawId" binding:"required"`
}
