package relational

import (
	"context"
	"time"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"gorm.io/gorm"
)

var _ repositories.RewardRepository = (*RewardRepository)(nil)

// RewardRepository handles relational operations for Reward
type RewardRepository struct {
	db *gorm.DB
}

// NewRewardRepository creates a new RewardRepository
func NewRewardRepository(db *gorm.DB) *RewardRepository {
	return &RewardRepository{db: db}
}

// Create inserts a reward declaration; (ticket, rank) is unique
func (r *RewardRepository) Create(ctx context.Context, reward *models.Reward) error {
	reward.CreatedAt = time.Now().UTC()
	return translate(r.db.WithContext(ctx).Create(reward).Error)
}

// FindByTicketAndRank finds the declaration of a ticket at a rank
func (r *RewardRepository) FindByTicketAndRank(ctx context.Context, ticketID int64, rank int) (*models.Reward, error) {
	return findReward(r.db.WithContext(ctx), ticketID, rank)
}

// FindByDraw returns the declarations of a draw, best rank first
func (r *RewardRepository) FindByDraw(ctx context.Context, drawID int64) ([]*models.Reward, error) {
	rewards := []*models.Reward{}
	err := r.db.WithContext(ctx).
		Where("draw_id = ?", drawID).
		Order("prize_rank, id").
		Find(&rewards).Error
	if err != nil {
		return nil, err
	}
	return rewards, nil
}

// FindByRank returns every declaration at a rank
func (r *RewardRepository) FindByRank(ctx context.Context, rank int) ([]*models.Reward, error) {
	rewards := []*models.Reward{}
	if err := r.db.WithContext(ctx).Where("prize_rank = ?", rank).Order("id").Find(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}

func findReward(db *gorm.DB, ticketID int64, rank int) (*models.Reward, error) {
	var reward models.Reward
	if err := db.Where("ticket_id = ? AND prize_rank = ?", ticketID, rank).First(&reward).Error; err != nil {
		return nil, translate(err)
	}
	return &reward, nil
}
