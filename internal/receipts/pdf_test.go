package receipts

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/tvshop-backend/internal/orders"
	"github.com/angelmondragon/tvshop-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() *orders.OrderDTO {
	unit := decimal.RequireFromString("499.99")
	return &orders.OrderDTO{
		ID:         uuid.MustParse("6f1c2d0e-8b7a-4c55-9d11-2a3b4c5d6e7f"),
		OwnerID:    uuid.New(),
		PlacedAt:   time.Date(2026, time.April, 2, 9, 30, 0, 0, time.UTC),
		Status:     enums.OrderStatusSubmitted,
		TotalPrice: decimal.RequireFromString("999.98"),
		ItemCount:  2,
		Shipping: orders.ShippingDTO{
			FirstName:   "José",
			LastName:    "Núñez",
			Address:     "Calle Mayor 1",
			City:        "Málaga",
			Zipcode:     "29001",
			PhoneNumber: "+34600111222",
		},
		Items: []orders.OrderItemDTO{{
			ID:           uuid.New(),
			TelevisionID: 7,
			Name:         "Samsung",
			Model:        "QE55Q80C",
			Quantity:     2,
			UnitPrice:    unit,
			LineTotal:    unit.Mul(decimal.NewFromInt(2)),
		}},
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer("")
	var buf bytes.Buffer

	require.NoError(t, r.Render(&buf, sampleOrder()))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"), "unexpected header %q", buf.String()[:8])
	assert.Greater(t, buf.Len(), 500)
	assert.Equal(t, "application/pdf", r.ContentType())
	assert.Equal(t, "order-6f1c2d0e-8b7a-4c55-9d11-2a3b4c5d6e7f.pdf", r.Filename(sampleOrder()))
}

func TestRenderRejectsNilOrder(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, NewRenderer("Shop").Render(&buf, nil))
	assert.Zero(t, buf.Len())
}
