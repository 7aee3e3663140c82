package services

import (
	"context"
	"errors"

	"github.com/ArowuTest/lotto-backend/internal/apperror"
	"github.com/ArowuTest/lotto-backend/internal/metrics"
	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	log "github.com/sirupsen/logrus"
)

// Compile-time check to ensure OrderServiceImpl implements OrderService
var _ OrderService = (*OrderServiceImpl)(nil)

// OrderServiceImpl handles ticket purchases
type OrderServiceImpl struct {
	store *repositories.Store
	debit bool
}

// NewOrderService creates a new OrderServiceImpl
func NewOrderService(store *repositories.Store, opts Options) *OrderServiceImpl {
	return &OrderServiceImpl{
		store: store,
		debit: opts.DebitOnPurchase,
	}
}

// Purchase buys one copy of a ticket of an open draw for an account. When
// debiting is disabled the caller settles the price with a wallet update.
func (s *OrderServiceImpl) Purchase(ctx context.Context, req *models.PurchaseRequest) (*models.Order, error) {
	if req.AccountID <= 0 || req.TicketID <= 0 {
		return nil, apperror.Validation("accountId and ticketId are required")
	}

	if _, err := s.store.Accounts.FindByID(ctx, req.AccountID); err != nil {
		return nil, lookupError("find account", err, "account %d not found", req.AccountID)
	}
	ticket, err := s.store.Tickets.FindByID(ctx, req.TicketID)
	if err != nil {
		return nil, lookupError("find ticket", err, "ticket %d not found", req.TicketID)
	}
	draw, err := s.store.Draws.FindByID(ctx, ticket.DrawID)
	if err != nil {
		return nil, lookupError("find draw", err, "draw %d not found", ticket.DrawID)
	}
	if draw.Status != models.DrawStatusOpen {
		return nil, apperror.Conflict("draw %d is %s", draw.ID, draw.Status)
	}

	id, err := s.store.Sequences.Next(ctx, repositories.SeqOrders)
	if err != nil {
		return nil, storeError("next order id", err)
	}
	order := &models.Order{ID: id, AccountID: req.AccountID, TicketID: req.TicketID}

	err = s.store.Ledger.Purchase(ctx, order, s.debit)
	switch {
	case errors.Is(err, repositories.ErrSoldOut):
		return nil, apperror.Conflict("ticket %d is sold out", req.TicketID)
	case errors.Is(err, repositories.ErrInsufficientFunds):
		return nil, apperror.Conflict("insufficient funds in account %d for ticket %d", req.AccountID, req.TicketID)
	case errors.Is(err, repositories.ErrSalesClosed):
		return nil, apperror.Conflict("ticket %d is no longer on sale", req.TicketID)
	case err != nil:
		return nil, lookupError("purchase", err, "account %d or ticket %d not found", req.AccountID, req.TicketID)
	}

	metrics.RecordTransition(string(models.OrderStatusPurchased), 1)
	log.WithFields(log.Fields{
		"orderId":   order.ID,
		"accountId": order.AccountID,
		"ticketId":  order.TicketID,
		"price":     order.Price.String(),
		"debited":   s.debit,
	}).Info("ticket purchased")
	return order, nil
}

// GetOrder retrieves an order by ID
func (s *OrderServiceImpl) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.store.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("find order", err, "order %d not found", id)
	}
	return order, nil
}
