package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/tvshop-backend/pkg/enums"
)

// Order is the durable record produced by a successful checkout.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID     uuid.UUID         `gorm:"column:owner_id;type:uuid;not null;index"`
	PlacedAt    time.Time         `gorm:"column:placed_at;not null"`
	TotalPrice  decimal.Decimal   `gorm:"column:total_price;type:numeric(12,2);not null"`
	FirstName   string            `gorm:"column:first_name;type:text;not null"`
	LastName    string            `gorm:"column:last_name;type:text;not null"`
	Address     string            `gorm:"column:address;type:text;not null"`
	City        string            `gorm:"column:city;type:text;not null"`
	Zipcode     string            `gorm:"column:zipcode;type:text;not null"`
	PhoneNumber string            `gorm:"column:phone_number;type:text;not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:text;not null;default:'submitted'"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the random identifier and placement time.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.PlacedAt.IsZero() {
		o.PlacedAt = time.Now().UTC()
	}
	if o.Status == "" {
		o.Status = enums.OrderStatusSubmitted
	}
	return nil
}

// OrderItem is one purchased line with the catalog snapshot taken at checkout.
type OrderItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index;uniqueIndex:uq_order_items_order_position,priority:1"`
	TelevisionID int64           `gorm:"column:television_id;not null"`
	Position     int             `gorm:"column:position;not null;uniqueIndex:uq_order_items_order_position,priority:2"`
	Quantity     int             `gorm:"column:quantity;not null;check:chk_order_items_quantity,quantity >= 1"`
	Name         string          `gorm:"column:name;type:text;not null"`
	Model        string          `gorm:"column:model;type:text;not null"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns the random identifier.
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// LineTotal returns quantity × unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
