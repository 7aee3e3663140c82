package relational

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ repositories.Ledger = (*Ledger)(nil)

// Ledger runs the multi-table operations inside database transactions
type Ledger struct {
	db *gorm.DB
}

// NewLedger creates a new Ledger
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// CreateDraw inserts the draw and its tickets in one transaction
func (l *Ledger) CreateDraw(ctx context.Context, draw *models.Draw, tickets []*models.Ticket) error {
	now := time.Now().UTC()
	draw.CreatedAt = now
	draw.UpdatedAt = now
	for _, t := range tickets {
		t.CreatedAt = now
		t.UpdatedAt = now
	}
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(draw).Error; err != nil {
			return translate(err)
		}
		if len(tickets) == 0 {
			return nil
		}
		return translate(tx.CreateInBatches(tickets, 500).Error)
	})
}

// Purchase claims a ticket copy, optionally debits the buyer and records the
// order. The sold counter bump on the draw row only matches an OPEN draw, so
// a purchase serialises against Lock and CloseDraw on the same row.
func (l *Ledger) Purchase(ctx context.Context, order *models.Order, debit bool) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket models.Ticket
		if err := tx.Where("id = ?", order.TicketID).First(&ticket).Error; err != nil {
			return translate(err)
		}
		if _, err := findAccount(tx, "id = ?", order.AccountID); err != nil {
			return err
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Draw{}).
			Where("id = ? AND status = ?", ticket.DrawID, models.DrawStatusOpen).
			Updates(map[string]interface{}{
				"sold_count": gorm.Expr("sold_count + 1"),
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repositories.ErrSalesClosed
		}

		var declared int64
		if err := tx.Model(&models.Reward{}).Where("ticket_id = ?", ticket.ID).Count(&declared).Error; err != nil {
			return err
		}
		if declared > 0 {
			return repositories.ErrSalesClosed
		}

		res = tx.Model(&models.Ticket{}).
			Where("id = ? AND remaining > 0", ticket.ID).
			Updates(map[string]interface{}{
				"remaining":  gorm.Expr("remaining - 1"),
				"status":     gorm.Expr("CASE WHEN remaining - 1 <= 0 THEN ? ELSE status END", models.TicketStatusSold),
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repositories.ErrSoldOut
		}

		if debit {
			if err := adjustWallet(tx, order.AccountID, ticket.Price.Neg()); err != nil {
				return err
			}
		}

		order.DrawID = ticket.DrawID
		order.Price = ticket.Price
		order.Status = models.OrderStatusPurchased
		order.MatchedRank = nil
		order.CreatedAt = now
		order.UpdatedAt = now
		return translate(tx.Create(order).Error)
	})
}

// CloseDraw closes the draw, matches every declaration best rank first and
// settles the undeclared PURCHASED orders as NOT_WON in one transaction. On
// ErrStatusConflict the result carries the draw as it currently is.
func (l *Ledger) CloseDraw(ctx context.Context, drawID int64) (*models.CloseDrawResult, error) {
	var result *models.CloseDrawResult
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		draw, err := transitionDraw(tx, drawID,
			[]models.DrawStatus{models.DrawStatusOpen, models.DrawStatusLocked},
			map[string]interface{}{
				"status":     models.DrawStatusClosed,
				"closed_at":  now,
				"updated_at": now,
			})
		if draw != nil {
			result = &models.CloseDrawResult{Draw: draw}
		}
		if err != nil {
			return err
		}

		var rewards []*models.Reward
		if err := tx.Where("draw_id = ?", drawID).Order("prize_rank, id").Find(&rewards).Error; err != nil {
			return err
		}
		for _, r := range rewards {
			n, err := matchTicket(tx, r.TicketID, r.Rank)
			if err != nil {
				return err
			}
			result.Matched += n
		}

		res := tx.Model(&models.Order{}).
			Where("draw_id = ? AND status = ?", drawID, models.OrderStatusPurchased).
			Where("NOT EXISTS (SELECT 1 FROM rewards r WHERE r.ticket_id = orders.ticket_id)").
			Updates(map[string]interface{}{
				"status":     models.OrderStatusNotWon,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		result.NotWon = res.RowsAffected
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrStatusConflict) {
			return result, err
		}
		return nil, err
	}
	return result, nil
}

// Redeem moves a MATCHED order to REDEEMED and credits the declared payout
func (l *Ledger) Redeem(ctx context.Context, orderID int64) (*models.RedeemResult, error) {
	var result *models.RedeemResult
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := findOrder(tx, orderID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, models.OrderStatusMatched).
			Updates(map[string]interface{}{
				"status":      models.OrderStatusRedeemed,
				"redeemed_at": now,
				"updated_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 || order.MatchedRank == nil {
			return repositories.ErrStatusConflict
		}

		reward, err := findReward(tx, order.TicketID, *order.MatchedRank)
		if err != nil {
			return err
		}
		if err := adjustWallet(tx, order.AccountID, reward.PriceReward); err != nil {
			return err
		}

		if order, err = findOrder(tx, orderID); err != nil {
			return err
		}
		account, err := findAccount(tx, "id = ?", order.AccountID)
		if err != nil {
			return err
		}
		result = &models.RedeemResult{Order: order, Payout: reward.PriceReward, Account: account}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RedeemTicket redeems every MATCHED order of a ticket. The status change
// and all wallet credits commit or roll back together.
func (l *Ledger) RedeemTicket(ctx context.Context, ticketID int64) (*models.BulkRedeemResult, error) {
	var result *models.BulkRedeemResult
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Ticket{}).Where("id = ?", ticketID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return repositories.ErrNotFound
		}

		now := time.Now().UTC()
		var redeemed []models.Order
		res := tx.Model(&redeemed).
			Clauses(clause.Returning{}).
			Where("ticket_id = ? AND status = ?", ticketID, models.OrderStatusMatched).
			Updates(map[string]interface{}{
				"status":      models.OrderStatusRedeemed,
				"redeemed_at": now,
				"updated_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}

		result = &models.BulkRedeemResult{TicketID: ticketID, Total: decimal.Zero, OrderIDs: []int64{}}
		payouts := map[int]decimal.Decimal{}
		for _, o := range redeemed {
			if o.MatchedRank == nil {
				return repositories.ErrStatusConflict
			}
			payout, ok := payouts[*o.MatchedRank]
			if !ok {
				reward, err := findReward(tx, ticketID, *o.MatchedRank)
				if err != nil {
					return err
				}
				payout = reward.PriceReward
				payouts[*o.MatchedRank] = payout
			}
			if err := adjustWallet(tx, o.AccountID, payout); err != nil {
				return err
			}
			result.Count++
			result.Total = result.Total.Add(payout)
			result.OrderIDs = append(result.OrderIDs, o.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reset deletes every order, reward, ticket and draw
func (l *Ledger) Reset(ctx context.Context) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []interface{}{&models.Order{}, &models.Reward{}, &models.Ticket{}, &models.Draw{}} {
			if err := all.Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
