package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the shipping identity data kept for a registered user.
type Profile struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	FirstName   string    `gorm:"column:first_name;type:text;not null"`
	LastName    string    `gorm:"column:last_name;type:text;not null"`
	PhoneNumber string    `gorm:"column:phone_number;type:text;not null"`
	Address     string    `gorm:"column:address;type:text;not null"`
	City        string    `gorm:"column:city;type:text;not null"`
	Zipcode     string    `gorm:"column:zipcode;type:text;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// All lists every model in dependency order for AutoMigrate.
func All() []any {
	return []any{&Brand{}, &Television{}, &StockEntry{}, &Profile{}, &Order{}, &OrderItem{}}
}
