package relational

import (
	"context"
	"time"

	"github.com/ArowuTest/lotto-backend/internal/models"
	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"gorm.io/gorm"
)

var _ repositories.DrawRepository = (*DrawRepository)(nil)

// DrawRepository handles relational operations for Draw
type DrawRepository struct {
	db *gorm.DB
}

// NewDrawRepository creates a new DrawRepository
func NewDrawRepository(db *gorm.DB) *DrawRepository {
	return &DrawRepository{db: db}
}

// FindByID finds a draw by ID
func (r *DrawRepository) FindByID(ctx context.Context, id int64) (*models.Draw, error) {
	return findDraw(r.db.WithContext(ctx), id)
}

// FindAll retrieves all draws, newest first
func (r *DrawRepository) FindAll(ctx context.Context) ([]*models.Draw, error) {
	draws := []*models.Draw{}
	if err := r.db.WithContext(ctx).Order("id desc").Find(&draws).Error; err != nil {
		return nil, err
	}
	return draws, nil
}

// Lock stops sales on an OPEN draw
func (r *DrawRepository) Lock(ctx context.Context, id int64) (*models.Draw, error) {
	now := time.Now().UTC()
	return transitionDraw(r.db.WithContext(ctx), id,
		[]models.DrawStatus{models.DrawStatusOpen},
		map[string]interface{}{
			"status":     models.DrawStatusLocked,
			"locked_at":  now,
			"updated_at": now,
		})
}

func findDraw(db *gorm.DB, id int64) (*models.Draw, error) {
	var draw models.Draw
	if err := db.Where("id = ?", id).First(&draw).Error; err != nil {
		return nil, translate(err)
	}
	return &draw, nil
}

// transitionDraw applies updates when the draw is in one of the from
// statuses. A miss returns the current draw with ErrStatusConflict.
func transitionDraw(db *gorm.DB, id int64, from []models.DrawStatus, updates map[string]interface{}) (*models.Draw, error) {
	res := db.Model(&models.Draw{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	draw, err := findDraw(db, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return draw, repositories.ErrStatusConflict
	}
	return draw, nil
}
