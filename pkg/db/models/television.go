package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Brand is a television manufacturer.
type Brand struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Television is a catalog entry. Catalog writes happen outside this service.
type Television struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	BrandID      int64           `gorm:"column:brand_id;not null;index"`
	Brand        Brand           `gorm:"foreignKey:BrandID"`
	Model        string          `gorm:"column:model;type:text;not null"`
	ReleasedYear int             `gorm:"column:released_year;not null"`
	ScreenSize   int             `gorm:"column:screen_size;not null"`
	RefreshRate  int             `gorm:"column:refresh_rate;not null"`
	Smart        bool            `gorm:"column:smart;not null;default:false"`
	Description  string          `gorm:"column:description;type:text"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
