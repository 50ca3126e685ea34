package users

import (
	"context"

	"github.com/angelmondragon/tvshop-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes profile persistence operations. Profiles are owned by the
// identity provider; this service reads them and keeps a write path for seeding.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profiles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindProfileByUserID loads the stored profile for the user.
func (r *Repository) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertProfile writes the profile keyed by user id.
func (r *Repository) UpsertProfile(ctx context.Context, dto ProfileDTO) (*models.Profile, error) {
	profile := dto.ToModel()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "phone_number", "address", "city", "zipcode", "updated_at"}),
		}).
		Create(profile).Error
	if err != nil {
		return nil, err
	}
	return r.FindProfileByUserID(ctx, dto.UserID)
}
