package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the settlement status of an order
type OrderStatus string

const (
	OrderStatusPurchased OrderStatus = "PURCHASED"
	OrderStatusMatched   OrderStatus = "MATCHED"
	OrderStatusRedeemed  OrderStatus = "REDEEMED"
	OrderStatusNotWon    OrderStatus = "NOT_WON"
)

// Order is a player's purchase of one ticket. Status and MatchedRank are only
// changed by settlement.
type Order struct {
	MongoID         primitive.ObjectID `bson:"_id,omitempty" json:"-" gorm:"-"`
	ID              int64              `bson:"id" json:"id" gorm:"primaryKey;autoIncrement:false"`
	AccountID       int64              `bson:"accountId" json:"accountId" gorm:"not null;index"`
	TicketID        int64              `bson:"ticketId" json:"ticketId" gorm:"not null;index"`
	DrawID          int64              `bson:"drawId" json:"drawId" gorm:"not null;index"`
	Price           decimal.Decimal    `bson:"price" json:"price" gorm:"type:decimal(14,2);not null"`
	Status          OrderStatus        `bson:"status" json:"status" gorm:"size:16;not null;index"`
	MatchedRank     *int               `bson:"matchedRank,omitempty" json:"matchedRank,omitempty"`
	SettlementBatch string             `bson:"settlementBatch,omitempty" json:"-" gorm:"-"`
	RedeemedAt      *time.Time         `bson:"redeemedAt,omitempty" json:"redeemedAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
