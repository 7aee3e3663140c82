package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Prize ranks. Rank 1 is the top prize; the consolation rank is declared
// per ticket sharing the winning suffix.
const (
	TopRank         = 1
	ConsolationRank = 5
	MaxRank         = ConsolationRank
)

// Reward is a winning-number declaration for one ticket at one rank
type Reward struct {
	MongoID      primitive.ObjectID `bson:"_id,omitempty" json:"-" gorm:"-"`
	ID           int64              `bson:"id" json:"id" gorm:"primaryKey;autoIncrement:false"`
	DrawID       int64              `bson:"drawId" json:"drawId" gorm:"not null;index"`
	TicketID     int64              `bson:"ticketId" json:"ticketId" gorm:"not null;uniqueIndex:idx_rewards_ticket_rank"`
	Rank         int                `bson:"rank" json:"rank" gorm:"column:prize_rank;not null;uniqueIndex:idx_rewards_ticket_rank"`
	NumberReward string             `bson:"numberReward" json:"numberReward" gorm:"size:32;not null"`
	PriceReward  decimal.Decimal    `bson:"priceReward" json:"priceReward" gorm:"type:decimal(14,2);not null"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// RewardSuffix is a reward reduced to the trailing digits of its number
type RewardSuffix struct {
	RewardID    int64           `json:"rewardId"`
	TicketID    int64           `json:"ticketId"`
	Rank        int             `json:"rank"`
	Suffix      string          `json:"suffix"`
	PriceReward decimal.Decimal `json:"priceReward"`
}

// ValidRank reports whether rank is a known prize tier
func ValidRank(rank int) bool {
	return rank >= TopRank && rank <= MaxRank
}
