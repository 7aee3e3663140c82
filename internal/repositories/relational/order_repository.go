package relational

import (
	"context"
	"time"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"gorm.io/gorm"
)

var _ repositories.OrderRepository = (*OrderRepository)(nil)

// OrderRepository handles relational reads and settlement transitions of orders
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindByID finds an order by ID
func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	return findOrder(r.db.WithContext(ctx), id)
}

// ActiveTickets lists the orders of an account that are not NOT_WON, with their ticket number
func (r *OrderRepository) ActiveTickets(ctx context.Context, accountID int64) ([]*models.TicketEntry, error) {
	entries := []*models.TicketEntry{}
	err := r.db.WithContext(ctx).
		Table("orders AS o").
		Select("o.id AS order_id, o.ticket_id, o.draw_id, t.number, o.price, o.status, o.matched_rank").
		Joins("JOIN tickets t ON t.id = o.ticket_id").
		Where("o.account_id = ? AND o.status <> ?", accountID, models.OrderStatusNotWon).
		Order("o.id").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Winnings joins the account's orders in statuses with the reward of the
// same ticket and rank
func (r *OrderRepository) Winnings(ctx context.Context, accountID int64, statuses []models.OrderStatus) ([]*models.WinningEntry, error) {
	entries := []*models.WinningEntry{}
	if len(statuses) == 0 {
		return entries, nil
	}
	err := r.db.WithContext(ctx).
		Table("orders AS o").
		Select("o.id AS order_id, o.account_id, o.ticket_id, o.draw_id, o.status, r.prize_rank, r.number_reward, r.price_reward").
		Joins("JOIN rewards r ON r.ticket_id = o.ticket_id AND r.prize_rank = o.matched_rank").
		Where("o.account_id = ? AND o.status IN ?", accountID, statuses).
		Order("o.id").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// PendingMatches lists PURCHASED orders whose ticket carries a declaration.
// drawID 0 covers every draw.
func (r *OrderRepository) PendingMatches(ctx context.Context, drawID int64) ([]*models.MatchCandidate, error) {
	q := r.db.WithContext(ctx).
		Table("orders AS o").
		Select("o.id AS order_id, o.account_id, o.ticket_id, o.draw_id, r.prize_rank, r.number_reward, r.price_reward").
		Joins("JOIN rewards r ON r.ticket_id = o.ticket_id").
		Where("o.status = ?", models.OrderStatusPurchased)
	if drawID != 0 {
		q = q.Where("o.draw_id = ?", drawID)
	}

	candidates := []*models.MatchCandidate{}
	if err := q.Order("r.prize_rank, o.id").Scan(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

// MatchTicket moves every PURCHASED order of the ticket to MATCHED
func (r *OrderRepository) MatchTicket(ctx context.Context, ticketID int64, rank int) (int64, error) {
	return matchTicket(r.db.WithContext(ctx), ticketID, rank)
}

func matchTicket(db *gorm.DB, ticketID int64, rank int) (int64, error) {
	res := db.Model(&models.Order{}).
		Where("ticket_id = ? AND status = ?", ticketID, models.OrderStatusPurchased).
		Updates(map[string]interface{}{
			"status":       models.OrderStatusMatched,
			"matched_rank": rank,
			"updated_at":   time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func findOrder(db *gorm.DB, id int64) (*models.Order, error) {
	var order models.Order
	if err := db.Where("id = ?", id).First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}
