package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawStatus represents the status of a draw
type DrawStatus string

const (
	DrawStatusOpen DrawStatus = "OPEN"
	// DrawStatusLocked means sales stopped and results may be declared
	DrawStatusLocked DrawStatus = "LOCKED"
	DrawStatusClosed DrawStatus = "CLOSED"
)

// Draw is one generation cycle producing a batch of tickets
type Draw struct {
	MongoID     primitive.ObjectID `bson:"_id,omitempty" json:"-" gorm:"-"`
	ID          int64              `bson:"id" json:"id" gorm:"primaryKey;autoIncrement:false"`
	Status      DrawStatus         `bson:"status" json:"status" gorm:"size:16;not null"`
	Price       decimal.Decimal    `bson:"price" json:"price" gorm:"type:decimal(14,2);not null"`
	NumberWidth int                `bson:"numberWidth" json:"numberWidth"`
	TicketCount int                `bson:"ticketCount" json:"ticketCount"`
	SoldCount   int                `bson:"soldCount" json:"soldCount" gorm:"not null;default:0"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
	LockedAt    *time.Time         `bson:"lockedAt,omitempty" json:"lockedAt,omitempty"`
	ClosedAt    *time.Time         `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
}

// CloseDrawResult summarises a draw close: matches applied and orders settled as not won
type CloseDrawResult struct {
	Draw    *Draw `json:"draw"`
	Matched int64 `json:"matched"`
	NotWon  int64 `json:"notWon"`
}
