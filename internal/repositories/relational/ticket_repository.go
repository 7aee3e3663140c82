package relational

import (
	"context"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"github.com/ArowuTest/lotto-backend/internal/utils"
	"gorm.io/gorm"
)

var _ repositories.TicketRepository = (*TicketRepository)(nil)

// TicketRepository handles relational operations for Ticket
type TicketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// FindByID finds a ticket by ID
func (r *TicketRepository) FindByID(ctx context.Context, id int64) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error; err != nil {
		return nil, translate(err)
	}
	return &ticket, nil
}

// FindByDraw lists the tickets of a draw, optionally filtered by status
func (r *TicketRepository) FindByDraw(ctx context.Context, drawID int64, status models.TicketStatus, page, limit int) ([]*models.Ticket, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Ticket{}).Where("draw_id = ?", drawID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, size := utils.Paginate(page, limit)
	tickets := []*models.Ticket{}
	if err := q.Order("id").Offset(offset).Limit(size).Find(&tickets).Error; err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// FindRandom picks a uniformly random ticket of a draw
func (r *TicketRepository) FindRandom(ctx context.Context, drawID int64) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.db.WithContext(ctx).
		Where("draw_id = ?", drawID).
		Order("RANDOM()").
		First(&ticket).Error
	if err != nil {
		return nil, translate(err)
	}
	return &ticket, nil
}
