package services

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/ArowuTest/lotto-backend/internal/apperror"
	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"github.com/ArowuTest/lotto-backend/internal/utils"
	log "github.com/sirupsen/logrus"
)

// Compile-time check to ensure DrawServiceImpl implements DrawService
var _ DrawService = (*DrawServiceImpl)(nil)

// DrawServiceImpl handles draw generation and reward declarations
type DrawServiceImpl struct {
	store        *repositories.Store
	suffixLength int
}

// NewDrawService creates a new DrawServiceImpl
func NewDrawService(store *repositories.Store, opts Options) *DrawServiceImpl {
	if opts.SuffixLength <= 0 {
		opts.SuffixLength = DefaultSuffixLength
	}
	return &DrawServiceImpl{
		store:        store,
		suffixLength: opts.SuffixLength,
	}
}

// MaxDrawTickets caps the tickets one draw can hold
const MaxDrawTickets = 100000

// GenerateDraw creates a draw and one ticket per number. Supplied numbers
// are taken as-is, duplicates included; otherwise Count random numbers of
// Width digits are generated. The draw and its tickets are stored together.
func (s *DrawServiceImpl) GenerateDraw(ctx context.Context, req *models.GenerateDrawRequest) (*models.Draw, error) {
	// 1. Validate the request
	if req.Price.IsNegative() {
		return nil, apperror.Validation("price must not be negative")
	}
	if err := validateAmount("price", req.Price); err != nil {
		return nil, err
	}
	copies := req.Copies
	if copies == 0 {
		copies = 1
	}
	if copies < 0 {
		return nil, apperror.Validation("copies must be positive")
	}

	if len(req.Numbers) > MaxDrawTickets || req.Count > MaxDrawTickets {
		return nil, apperror.Validation("a draw holds at most %d tickets", MaxDrawTickets)
	}
	numbers := req.Numbers
	if len(numbers) == 0 {
		if req.Count <= 0 || req.Width <= 0 {
			return nil, apperror.Validation("either numbers or a positive count and width are required")
		}
		generated, err := utils.RandomNumbers(req.Count, req.Width)
		if err != nil {
			return nil, apperror.Validation("cannot generate numbers: %v", err)
		}
		numbers = generated
	}
	width, err := numberWidth(numbers)
	if err != nil {
		return nil, err
	}

	// 2. Reserve ids
	drawID, err := s.store.Sequences.Next(ctx, repositories.SeqDraws)
	if err != nil {
		return nil, storeError("next draw id", err)
	}
	firstTicket, err := s.store.Sequences.NextN(ctx, repositories.SeqTickets, int64(len(numbers)))
	if err != nil {
		return nil, storeError("reserve ticket ids", err)
	}

	// 3. Store the draw with its tickets
	draw := &models.Draw{
		ID:          drawID,
		Status:      models.DrawStatusOpen,
		Price:       req.Price,
		NumberWidth: width,
		TicketCount: len(numbers),
	}
	tickets := make([]*models.Ticket, 0, len(numbers))
	for i, n := range numbers {
		tickets = append(tickets, &models.Ticket{
			ID:        firstTicket + int64(i),
			DrawID:    drawID,
			Number:    n,
			Price:     req.Price,
			Copies:    copies,
			Remaining: copies,
			Status:    models.TicketStatusAvailable,
		})
	}
	if err := s.store.Ledger.CreateDraw(ctx, draw, tickets); err != nil {
		return nil, storeError("create draw", err)
	}

	log.WithFields(log.Fields{"drawId": drawID, "tickets": len(tickets), "price": req.Price.String()}).Info("draw generated")
	return draw, nil
}

// numberWidth checks every number is digits only and of one common width
func numberWidth(numbers []string) (int, error) {
	width := 0
	for i, n := range numbers {
		if !utils.IsDigits(n) {
			return 0, apperror.Validation("number %q at position %d is not a digit string", n, i)
		}
		w := utf8.RuneCountInString(n)
		if i == 0 {
			width = w
		} else if w != width {
			return 0, apperror.Validation("number %q at position %d has %d digits, expected %d", n, i, w, width)
		}
	}
	return width, nil
}

// GetDraw retrieves a draw by ID
func (s *DrawServiceImpl) GetDraw(ctx context.Context, id int64) (*models.Draw, error) {
	draw, err := s.store.Draws.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("find draw", err, "draw %d not found", id)
	}
	return draw, nil
}

// ListDraws lists all draws
func (s *DrawServiceImpl) ListDraws(ctx context.Context) ([]*models.Draw, error) {
	draws, err := s.store.Draws.FindAll(ctx)
	if err != nil {
		return nil, storeError("list draws", err)
	}
	return draws, nil
}

// ListTickets lists a page of the tickets of a draw
func (s *DrawServiceImpl) ListTickets(ctx context.Context, drawID int64, status models.TicketStatus, page, limit int) ([]*models.Ticket, int64, error) {
	switch status {
	case "", models.TicketStatusAvailable, models.TicketStatusSold:
	default:
		return nil, 0, apperror.Validation("unknown ticket status %q", status)
	}
	if _, err := s.GetDraw(ctx, drawID); err != nil {
		return nil, 0, err
	}
	tickets, total, err := s.store.Tickets.FindByDraw(ctx, drawID, status, page, limit)
	if err != nil {
		return nil, 0, storeError("list tickets", err)
	}
	return tickets, total, nil
}

// RandomTicket picks a random ticket of a draw
func (s *DrawServiceImpl) RandomTicket(ctx context.Context, drawID int64) (*models.Ticket, error) {
	if _, err := s.GetDraw(ctx, drawID); err != nil {
		return nil, err
	}
	ticket, err := s.store.Tickets.FindRandom(ctx, drawID)
	if err != nil {
		return nil, lookupError("random ticket", err, "draw %d has no tickets", drawID)
	}
	return ticket, nil
}

// LockDraw stops sales on an OPEN draw. Declarations are only accepted once
// a draw is locked.
func (s *DrawServiceImpl) LockDraw(ctx context.Context, id int64) (*models.Draw, error) {
	draw, err := s.store.Draws.Lock(ctx, id)
	switch {
	case errors.Is(err, repositories.ErrStatusConflict):
		return nil, apperror.Conflict("draw %d is %s", id, draw.Status)
	case err != nil:
		return nil, lookupError("lock draw", err, "draw %d not found", id)
	}
	log.WithFields(log.Fields{"drawId": id, "sold": draw.SoldCount}).Info("draw locked")
	return draw, nil
}

// DeclareReward records a winning declaration for a ticket of a locked draw
func (s *DrawServiceImpl) DeclareReward(ctx context.Context, drawID int64, req *models.DeclareRewardRequest) (*models.Reward, error) {
	if !models.ValidRank(req.Rank) {
		return nil, apperror.Validation("rank must be between %d and %d", models.TopRank, models.MaxRank)
	}
	if !req.PriceReward.IsPositive() {
		return nil, apperror.Validation("priceReward must be positive")
	}
	if err := validateAmount("priceReward", req.PriceReward); err != nil {
		return nil, err
	}

	draw, err := s.GetDraw(ctx, drawID)
	if err != nil {
		return nil, err
	}
	if draw.Status != models.DrawStatusLocked {
		return nil, apperror.Conflict("draw %d is %s, lock it before declaring results", drawID, draw.Status)
	}

	ticket, err := s.store.Tickets.FindByID(ctx, req.TicketID)
	if err != nil {
		return nil, lookupError("find ticket", err, "ticket %d not found", req.TicketID)
	}
	if ticket.DrawID != drawID {
		return nil, apperror.Validation("ticket %d does not belong to draw %d", ticket.ID, drawID)
	}

	number := req.NumberReward
	if number == "" {
		number = ticket.Number
	}
	if !utils.IsDigits(number) {
		return nil, apperror.Validation("numberReward %q is not a digit string", number)
	}

	id, err := s.store.Sequences.Next(ctx, repositories.SeqRewards)
	if err != nil {
		return nil, storeError("next reward id", err)
	}
	reward := &models.Reward{
		ID:           id,
		DrawID:       drawID,
		TicketID:     ticket.ID,
		Rank:         req.Rank,
		NumberReward: number,
		PriceReward:  req.PriceReward,
	}
	if err := s.store.Rewards.Create(ctx, reward); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("rank %d is already declared for ticket %d", req.Rank, ticket.ID)
		}
		return nil, storeError("create reward", err)
	}

	log.WithFields(log.Fields{
		"drawId":   drawID,
		"ticketId": ticket.ID,
		"rank":     req.Rank,
		"payout":   req.PriceReward.String(),
	}).Info("reward declared")
	return reward, nil
}

// ListRewards lists the declarations of a draw
func (s *DrawServiceImpl) ListRewards(ctx context.Context, drawID int64) ([]*models.Reward, error) {
	if _, err := s.GetDraw(ctx, drawID); err != nil {
		return nil, err
	}
	rewards, err := s.store.Rewards.FindByDraw(ctx, drawID)
	if err != nil {
		return nil, storeError("list rewards", err)
	}
	return rewards, nil
}

// RewardSuffixes lists the rewards of a rank with the last length digits
// of their number. A zero length uses the configured default.
func (s *DrawServiceImpl) RewardSuffixes(ctx context.Context, rank, length int) ([]models.RewardSuffix, error) {
	if !models.ValidRank(rank) {
		return nil, apperror.Validation("rank must be between %d and %d", models.TopRank, models.MaxRank)
	}
	if length == 0 {
		length = s.suffixLength
	}
	if length < 0 {
		return nil, apperror.Validation("length must be positive")
	}

	rewards, err := s.store.Rewards.FindByRank(ctx, rank)
	if err != nil {
		return nil, storeError("list rewards by rank", err)
	}
	out := make([]models.RewardSuffix, 0, len(rewards))
	for _, r := range rewards {
		out = append(out, models.RewardSuffix{
			RewardID:    r.ID,
			TicketID:    r.TicketID,
			Rank:        r.Rank,
			Suffix:      utils.Suffix(r.NumberReward, length),
			PriceReward: r.PriceReward,
		})
	}
	return out, nil
}

// Reset deletes draws, tickets, rewards and orders and restarts their sequences
func (s *DrawServiceImpl) Reset(ctx context.Context) error {
	if err := s.store.Ledger.Reset(ctx); err != nil {
		return storeError("reset", err)
	}
	err := s.store.Sequences.Reset(ctx,
		repositories.SeqDraws, repositories.SeqTickets, repositories.SeqRewards, repositories.SeqOrders)
	if err != nil {
		return storeError("reset sequences", err)
	}
	log.Warn("draw data reset")
	return nil
}
