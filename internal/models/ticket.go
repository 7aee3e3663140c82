package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketStatus represents the availability of a ticket
type TicketStatus string

const (
	TicketStatusAvailable TicketStatus = "AVAILABLE"
	TicketStatusSold      TicketStatus = "SOLD"
)

// Ticket is one drawable number of a draw. Copies is the number of printed
// copies; Remaining counts the ones still for sale.
type Ticket struct {
	MongoID   primitive.ObjectID `bson:"_id,omitempty" json:"-" gorm:"-"`
	ID        int64              `bson:"id" json:"id" gorm:"primaryKey;autoIncrement:false"`
	DrawID    int64              `bson:"drawId" json:"drawId" gorm:"not null;index"`
	Number    string             `bson:"number" json:"number" gorm:"size:32;not null;index"`
	Price     decimal.Decimal    `bson:"price" json:"price" gorm:"type:decimal(14,2);not null"`
	Copies    int                `bson:"copies" json:"copies" gorm:"not null"`
	Remaining int                `bson:"remaining" json:"remaining" gorm:"not null"`
	Status    TicketStatus       `bson:"status" json:"status" gorm:"size:16;not null;index"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
