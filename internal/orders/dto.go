package orders

import (
	"time"

	"github.com/angelmondragon/tvshop-backend/pkg/db/models"
	"github.com/angelmondragon/tvshop-backend/pkg/enums"
	"github.com/angelmondragon/tvshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemDTO is one purchased line.
type OrderItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	TelevisionID int64           `json:"television_id"`
	Name         string          `json:"name"`
	Model        string          `json:"model"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// ShippingDTO is the delivery contact stored on the order.
type ShippingDTO struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Zipcode     string `json:"zipcode"`
	PhoneNumber string `json:"phone_number"`
}

// OrderDTO is the transport shape of a placed order.
type OrderDTO struct {
	ID         uuid.UUID         `json:"id"`
	OwnerID    uuid.UUID         `json:"owner_id"`
	PlacedAt   time.Time         `json:"placed_at"`
	Status     enums.OrderStatus `json:"status"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	ItemCount  int               `json:"item_count"`
	Shipping   ShippingDTO       `json:"shipping"`
	Items      []OrderItemDTO    `json:"items"`
}

// OrderList is one page of orders.
type OrderList = pagination.Page[OrderDTO]

// FromModel maps a persisted order with its items.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:         o.ID,
		OwnerID:    o.OwnerID,
		PlacedAt:   o.PlacedAt,
		Status:     o.Status,
		TotalPrice: o.TotalPrice,
		Shipping: ShippingDTO{
			FirstName:   o.FirstName,
			LastName:    o.LastName,
			Address:     o.Address,
			City:        o.City,
			Zipcode:     o.Zipcode,
			PhoneNumber: o.PhoneNumber,
		},
		Items: make([]OrderItemDTO, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		dto.ItemCount += item.Quantity
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:           item.ID,
			TelevisionID: item.TelevisionID,
			Name:         item.Name,
			Model:        item.Model,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			LineTotal:    item.LineTotal(),
		})
	}
	return dto
}
