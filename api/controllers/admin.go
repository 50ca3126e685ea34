package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/tvshop-backend/api/middleware"
	"github.com/angelmondragon/tvshop-backend/api/responses"
	"github.com/angelmondragon/tvshop-backend/api/validators"
	"github.com/angelmondragon/tvshop-backend/internal/orders"
	"github.com/angelmondragon/tvshop-backend/pkg/db/models"
	"github.com/angelmondragon/tvshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"
	"github.com/angelmondragon/tvshop-backend/pkg/logger"
)

type stockWriter interface {
	Set(ctx context.Context, tvID int64, quantity int) (*models.StockEntry, error)
}

type setStockRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type stockResponse struct {
	TelevisionID int64     `json:"television_id"`
	Quantity     int       `json:"quantity"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminSetStock writes the on-hand quantity of a television.
func AdminSetStock(stock stockWriter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if stock == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock ledger unavailable"))
			return
		}
		tvID, err := parseTelevisionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setStockRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entry, err := stock.Set(r.Context(), tvID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"television_id": tvID,
				"quantity":      entry.Quantity,
			})
			logg.Info(ctx, "stock.updated")
		}
		responses.WriteSuccess(w, stockResponse{
			TelevisionID: entry.TelevisionID,
			Quantity:     entry.Quantity,
			UpdatedAt:    entry.UpdatedAt,
		})
	}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminUpdateOrderStatus assigns any valid status to an order.
func AdminUpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orderID, err := parseOrderID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStatusRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status").WithDetails(map[string]any{
				"allowed": enums.OrderStatuses(),
			}))
			return
		}

		order, err := svc.UpdateStatus(r.Context(), orderID, status, middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
