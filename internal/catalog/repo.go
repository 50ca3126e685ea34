package catalog

import (
	"context"

	"github.com/angelmondragon/tvshop-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads catalog rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindTelevision(ctx context.Context, id int64) (*models.Television, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindTelevision(ctx context.Context, id int64) (*models.Television, error) {
	var tv models.Television
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Where("id = ?", id).
		First(&tv).Error
	if err != nil {
		return nil, err
	}
	return &tv, nil
}
