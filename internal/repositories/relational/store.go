package relational

import (
	"context"

	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"gorm.io/gorm"
)

// NewStore wires the relational repositories. A nil seq uses the
// sequences table.
func NewStore(db *gorm.DB, seq repositories.SequenceGenerator) *repositories.Store {
	if seq == nil {
		seq = NewSequenceRepository(db)
	}
	return &repositories.Store{
		Accounts:  NewAccountRepository(db),
		Draws:     NewDrawRepository(db),
		Tickets:   NewTicketRepository(db),
		Rewards:   NewRewardRepository(db),
		Orders:    NewOrderRepository(db),
		Ledger:    NewLedger(db),
		Sequences: seq,
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}
