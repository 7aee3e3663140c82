package services

import (
	"context"
	"errors"

	"github.com/ArowuTest/lotto-backend/internal/apperror"
	"github.com/ArowuTest/lotto-backend/internal/metrics"
	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"github.com/ArowuTest/lotto-backend/internal/utils"
	log "github.com/sirupsen/logrus"
)

// Compile-time check to ensure SettlementServiceImpl implements SettlementService
var _ SettlementService = (*SettlementServiceImpl)(nil)

// SettlementServiceImpl drives orders through PURCHASED, MATCHED and REDEEMED
type SettlementServiceImpl struct {
	store *repositories.Store
}

// NewSettlementService creates a new SettlementServiceImpl
func NewSettlementService(store *repositories.Store) *SettlementServiceImpl {
	return &SettlementServiceImpl{store: store}
}

// MatchTicket matches the PURCHASED orders of a ticket against the reward
// declared at rank. No orders to match is not an error.
func (s *SettlementServiceImpl) MatchTicket(ctx context.Context, ticketID int64, rank int) (*models.MatchResult, error) {
	if !models.ValidRank(rank) {
		return nil, apperror.Validation("rank must be between %d and %d", models.TopRank, models.MaxRank)
	}
	if _, err := s.store.Tickets.FindByID(ctx, ticketID); err != nil {
		return nil, lookupError("find ticket", err, "ticket %d not found", ticketID)
	}
	if _, err := s.store.Rewards.FindByTicketAndRank(ctx, ticketID, rank); err != nil {
		return nil, lookupError("find reward", err, "no rank %d reward declared for ticket %d", rank, ticketID)
	}

	n, err := s.store.Orders.MatchTicket(ctx, ticketID, rank)
	if err != nil {
		return nil, storeError("match ticket", err)
	}

	metrics.RecordTransition(string(models.OrderStatusMatched), n)
	log.WithFields(log.Fields{"ticketId": ticketID, "rank": rank, "matched": n}).Info("ticket matched")
	return &models.MatchResult{TicketID: ticketID, Rank: rank, Count: n}, nil
}

// Reconcile applies every declaration of a draw in ascending rank order so an
// order whose ticket carries several ranks is matched at the best one.
func (s *SettlementServiceImpl) Reconcile(ctx context.Context, drawID int64) (*models.ReconcileResult, error) {
	if _, err := s.store.Draws.FindByID(ctx, drawID); err != nil {
		return nil, lookupError("find draw", err, "draw %d not found", drawID)
	}
	rewards, err := s.store.Rewards.FindByDraw(ctx, drawID)
	if err != nil {
		return nil, storeError("list rewards", err)
	}

	result := &models.ReconcileResult{DrawID: drawID, Matches: []models.MatchResult{}}
	for _, r := range rewards {
		n, err := s.store.Orders.MatchTicket(ctx, r.TicketID, r.Rank)
		if err != nil {
			return nil, storeError("match ticket", err)
		}
		if n == 0 {
			continue
		}
		metrics.RecordTransition(string(models.OrderStatusMatched), n)
		result.Matches = append(result.Matches, models.MatchResult{TicketID: r.TicketID, Rank: r.Rank, Count: n})
		result.Total += n
	}

	log.WithFields(log.Fields{"drawId": drawID, "declarations": len(rewards), "matched": result.Total}).Info("draw reconciled")
	return result, nil
}

// Collect redeems a MATCHED order. A second call for the same order is a
// conflict and credits nothing.
func (s *SettlementServiceImpl) Collect(ctx context.Context, orderID int64) (*models.RedeemResult, error) {
	order, err := s.store.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, lookupError("find order", err, "order %d not found", orderID)
	}
	if order.Status != models.OrderStatusMatched {
		return nil, apperror.Conflict("order %d is %s, expected %s", orderID, order.Status, models.OrderStatusMatched)
	}

	result, err := s.store.Ledger.Redeem(ctx, orderID)
	switch {
	case errors.Is(err, repositories.ErrStatusConflict):
		return nil, apperror.Conflict("order %d is no longer %s", orderID, models.OrderStatusMatched)
	case err != nil:
		return nil, lookupError("redeem order", err, "reward for order %d is not declared", orderID)
	}

	metrics.RecordTransition(string(models.OrderStatusRedeemed), 1)
	metrics.RecordPayout(result.Payout)
	log.WithFields(log.Fields{
		"orderId":   orderID,
		"accountId": result.Order.AccountID,
		"payout":    result.Payout.String(),
	}).Info("winnings collected")
	return result, nil
}

// RedeemTicket redeems every MATCHED order of a ticket in one store operation
func (s *SettlementServiceImpl) RedeemTicket(ctx context.Context, ticketID int64) (*models.BulkRedeemResult, error) {
	result, err := s.store.Ledger.RedeemTicket(ctx, ticketID)
	switch {
	case errors.Is(err, repositories.ErrStatusConflict):
		return nil, apperror.Conflict("orders of ticket %d changed during redemption", ticketID)
	case err != nil:
		return nil, lookupError("redeem ticket", err, "ticket %d or its reward not found", ticketID)
	}

	metrics.RecordTransition(string(models.OrderStatusRedeemed), result.Count)
	metrics.RecordPayout(result.Total)
	log.WithFields(log.Fields{"ticketId": ticketID, "redeemed": result.Count, "total": result.Total.String()}).Info("ticket redeemed")
	return result, nil
}

// CloseDraw closes an OPEN or LOCKED draw, applies its declarations and
// moves the remaining PURCHASED orders without a declaration to NOT_WON.
// The store runs all three steps as one unit.
func (s *SettlementServiceImpl) CloseDraw(ctx context.Context, drawID int64) (*models.CloseDrawResult, error) {
	result, err := s.store.Ledger.CloseDraw(ctx, drawID)
	switch {
	case errors.Is(err, repositories.ErrStatusConflict):
		status := models.DrawStatusClosed
		if result != nil && result.Draw != nil {
			status = result.Draw.Status
		}
		return nil, apperror.Conflict("draw %d is already %s", drawID, status)
	case err != nil:
		return nil, lookupError("close draw", err, "draw %d not found", drawID)
	}

	metrics.RecordTransition(string(models.OrderStatusMatched), result.Matched)
	metrics.RecordTransition(string(models.OrderStatusNotWon), result.NotWon)
	log.WithFields(log.Fields{"drawId": drawID, "matched": result.Matched, "notWon": result.NotWon}).Info("draw closed")
	return result, nil
}

// Winnings lists the matched and/or redeemed orders of an account with the
// reward each one won
func (s *SettlementServiceImpl) Winnings(ctx context.Context, accountID int64, filter models.WinningsFilter) ([]*models.WinningEntry, error) {
	if filter == "" {
		filter = models.WinningsAll
	}
	statuses := filter.Statuses()
	if statuses == nil {
		return nil, apperror.Validation("state must be one of pending, history or all")
	}
	if _, err := s.store.Accounts.FindByID(ctx, accountID); err != nil {
		return nil, lookupError("find account", err, "account %d not found", accountID)
	}

	entries, err := s.store.Orders.Winnings(ctx, accountID, statuses)
	if err != nil {
		return nil, storeError("list winnings", err)
	}
	for _, e := range entries {
		e.LastThreeDigits = utils.Suffix(e.NumberReward, 3)
	}
	return entries, nil
}

// ActiveTickets lists the orders of an account that have not been settled as NOT_WON
func (s *SettlementServiceImpl) ActiveTickets(ctx context.Context, accountID int64) ([]*models.TicketEntry, error) {
	if _, err := s.store.Accounts.FindByID(ctx, accountID); err != nil {
		return nil, lookupError("find account", err, "account %d not found", accountID)
	}
	entries, err := s.store.Orders.ActiveTickets(ctx, accountID)
	if err != nil {
		return nil, storeError("list active tickets", err)
	}
	for _, e := range entries {
		e.LastThreeDigits = utils.Suffix(e.Number, 3)
		e.LastTwoDigits = utils.Suffix(e.Number, 2)
	}
	return entries, nil
}

// PendingMatches lists PURCHASED orders whose ticket already carries a
// declaration. drawID 0 covers every draw.
func (s *SettlementServiceImpl) PendingMatches(ctx context.Context, drawID int64) ([]*models.MatchCandidate, error) {
	if drawID != 0 {
		if _, err := s.store.Draws.FindByID(ctx, drawID); err != nil {
			return nil, lookupError("find draw", err, "draw %d not found", drawID)
		}
	}
	candidates, err := s.store.Orders.PendingMatches(ctx, drawID)
	if err != nil {
		return nil, storeError("list pending matches", err)
	}
	for _, c := range candidates {
		c.LastThreeDigits = utils.Suffix(c.NumberReward, 3)
		c.LastTwoDigits = utils.Suffix(c.NumberReward, 2)
	}
	return candidates, nil
}

