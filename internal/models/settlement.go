package models

import "github.com/shopspring/decimal"

// WinningsFilter selects which matched orders Winnings returns
type WinningsFilter string

const (
	WinningsPending WinningsFilter = "pending"
	WinningsHistory WinningsFilter = "history"
	WinningsAll     WinningsFilter = "all"
)

// Statuses returns the order statuses covered by the filter
func (f WinningsFilter) Statuses() []OrderStatus {
	switch f {
	case WinningsPending:
		return []OrderStatus{OrderStatusMatched}
	case WinningsHistory:
		return []OrderStatus{OrderStatusRedeemed}
	case WinningsAll:
		return []OrderStatus{OrderStatusMatched, OrderStatusRedeemed}
	}
	return nil
}

// TicketEntry is an order joined with its ticket
type TicketEntry struct {
	OrderID         int64           `json:"orderId" bson:"orderId" gorm:"column:order_id"`
	TicketID        int64           `json:"ticketId" bson:"ticketId" gorm:"column:ticket_id"`
	DrawID          int64           `json:"drawId" bson:"drawId" gorm:"column:draw_id"`
	Number          string          `json:"number" bson:"number" gorm:"column:number"`
	Price           decimal.Decimal `json:"price" bson:"price" gorm:"column:price"`
	Status          OrderStatus     `json:"status" bson:"status" gorm:"column:status"`
	MatchedRank     *int            `json:"matchedRank,omitempty" bson:"matchedRank,omitempty" gorm:"column:matched_rank"`
	LastThreeDigits string          `json:"lastThreeDigits" bson:"-" gorm:"-"`
	LastTwoDigits   string          `json:"lastTwoDigits" bson:"-" gorm:"-"`
}

// WinningEntry is a matched or redeemed order joined with the reward it won
type WinningEntry struct {
	OrderID         int64           `json:"orderId" bson:"orderId" gorm:"column:order_id"`
	AccountID       int64           `json:"accountId" bson:"accountId" gorm:"column:account_id"`
	TicketID        int64           `json:"ticketId" bson:"ticketId" gorm:"column:ticket_id"`
	DrawID          int64           `json:"drawId" bson:"drawId" gorm:"column:draw_id"`
	Status          OrderStatus     `json:"status" bson:"status" gorm:"column:status"`
	Rank            int             `json:"rank" bson:"rank" gorm:"column:prize_rank"`
	NumberReward    string          `json:"numberReward" bson:"numberReward" gorm:"column:number_reward"`
	PriceReward     decimal.Decimal `json:"priceReward" bson:"priceReward" gorm:"column:price_reward"`
	LastThreeDigits string          `json:"lastThreeDigits" bson:"-" gorm:"-"`
}

// MatchCandidate is a purchased order whose ticket carries a declared reward
type MatchCandidate struct {
	OrderID         int64           `json:"orderId" bson:"orderId" gorm:"column:order_id"`
	AccountID       int64           `json:"accountId" bson:"accountId" gorm:"column:account_id"`
	TicketID        int64           `json:"ticketId" bson:"ticketId" gorm:"column:ticket_id"`
	DrawID          int64           `json:"drawId" bson:"drawId" gorm:"column:draw_id"`
	Rank            int             `json:"rank" bson:"rank" gorm:"column:prize_rank"`
	NumberReward    string          `json:"numberReward" bson:"numberReward" gorm:"column:number_reward"`
	PriceReward     decimal.Decimal `json:"priceReward" bson:"priceReward" gorm:"column:price_reward"`
	LastThreeDigits string          `json:"lastThreeDigits" bson:"-" gorm:"-"`
	LastTwoDigits   string          `json:"lastTwoDigits" bson:"-" gorm:"-"`
}

// MatchResult reports how many orders a match moved to MATCHED
type MatchResult struct {
	TicketID int64 `json:"ticketId"`
	Rank     int   `json:"rank"`
	Count    int64 `json:"count"`
}

// ReconcileResult aggregates the matches applied for a draw
type ReconcileResult struct {
	DrawID  int64         `json:"drawId"`
	Matches []MatchResult `json:"matches"`
	Total   int64         `json:"total"`
}

// RedeemResult is the outcome of collecting a single order
type RedeemResult struct {
	Order   *Order          `json:"order"`
	Payout  decimal.Decimal `json:"payout"`
	Account *Account        `json:"account"`
}

// BulkRedeemResult is the outcome of redeeming every matched order of a ticket
type BulkRedeemResult struct {
	TicketID int64           `json:"ticketId"`
	Count    int64           `json:"count"`
	Total    decimal.Decimal `json:"total"`
	OrderIDs []int64         `json:"orderIds"`
}

// SumPayouts totals the payouts of winning entries
func SumPayouts(entries []*WinningEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.PriceReward)
	}
	return total
}
