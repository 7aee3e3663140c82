package models

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountStatus is the status flag carried by an account
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

// Account represents a registered player and their wallet
type Account struct {
	MongoID      primitive.ObjectID `bson:"_id,omitempty" json:"-" gorm:"-"`
	ID           int64              `bson:"id" json:"id" gorm:"primaryKey;autoIncrement:false"`
	Email        string             `bson:"email" json:"email" gorm:"size:255;not null;uniqueIndex"`
	Name         string             `bson:"name" json:"name" gorm:"size:255"`
	PasswordHash string             `bson:"passwordHash" json:"-" gorm:"not null"`
	Wallet       decimal.Decimal    `bson:"wallet" json:"wallet" gorm:"type:decimal(14,2);not null"`
	Status       AccountStatus      `bson:"status" json:"status" gorm:"size:16;not null"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
