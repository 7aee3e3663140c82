package relational

import (
	"context"
	"fmt"

	"github.com/ArowuTest/lotto-backend/internal/repositories"
	"gorm.io/gorm"
)

type sequence struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value int64  `gorm:"not null"`
}

func (sequence) TableName() string {
	return "sequences"
}

var _ repositories.SequenceGenerator = (*SequenceRepository)(nil)

// SequenceRepository keeps named counters in the sequences table
type SequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository creates a new SequenceRepository
func NewSequenceRepository(db *gorm.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Next increments and returns the named counter in one statement
func (r *SequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	return r.NextN(ctx, name, 1)
}

// NextN advances the named counter by n and returns the first reserved value
func (r *SequenceRepository) NextN(ctx context.Context, name string, n int64) (int64, error) {
	if n < 1 {
		return 0, fmt.Errorf("sequence %s: invalid reservation size %d", name, n)
	}
	var value int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO sequences (name, value) VALUES (?, ?)
		 ON CONFLICT (name) DO UPDATE SET value = sequences.value + ?
		 RETURNING value`, name, n, n).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value - n + 1, nil
}

// Reset deletes the named counters
func (r *SequenceRepository) Reset(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("name IN ?", names).Delete(&sequence{}).Error
}
