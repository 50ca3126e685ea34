package stock

import (
	"context"
	"time"

	"github.com/angelmondragon/tvshop-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists stock entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByTelevision(ctx context.Context, tvID int64) (*models.StockEntry, error)
	DecrementIfAvailable(ctx context.Context, tvID int64, count int) (bool, error)
	Increment(ctx context.Context, tvID int64, count int) error
	Upsert(ctx context.Context, tvID int64, quantity int) (*models.StockEntry, error)
	TelevisionExists(ctx context.Context, tvID int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a stock repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByTelevision(ctx context.Context, tvID int64) (*models.StockEntry, error) {
	var entry models.StockEntry
	if err := r.db.WithContext(ctx).Where("television_id = ?", tvID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// DecrementIfAvailable subtracts count in a single guarded statement. It reports
// false when the row is missing or holds fewer than count units.
func (r *repository) DecrementIfAvailable(ctx context.Context, tvID int64, count int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.StockEntry{}).
		Where("television_id = ? AND quantity >= ?", tvID, count).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", count),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Increment adds count units, creating the entry when the television has
// none. One upsert statement so concurrent releases cannot race the insert.
func (r *repository) Increment(ctx context.Context, tvID int64, count int) error {
	entry := models.StockEntry{TelevisionID: tvID, Quantity: count}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "television_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("stock_entries.quantity + excluded.quantity"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).
		Create(&entry).Error
}

func (r *repository) Upsert(ctx context.Context, tvID int64, quantity int) (*models.StockEntry, error) {
	entry := models.StockEntry{TelevisionID: tvID, Quantity: quantity}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "television_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return nil, err
	}
	return r.FindByTelevision(ctx, tvID)
}

func (r *repository) TelevisionExists(ctx context.Context, tvID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Television{}).Where("id = ?", tvID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
