package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/tvshop-backend/api/responses"
	"github.com/angelmondragon/tvshop-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"
	"github.com/angelmondragon/tvshop-backend/pkg/logger"
)

type stockReader interface {
	GetQuantity(ctx context.Context, tvID int64) (int, bool, error)
}

type televisionResponse struct {
	*catalog.Television
	Stock   int  `json:"stock"`
	InStock bool `json:"in_stock"`
}

// TelevisionDetail returns a catalog entry with the quantity currently on hand.
func TelevisionDetail(reader catalog.Reader, stock stockReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reader == nil || stock == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		tvID, err := parseTelevisionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tv, err := reader.GetTelevision(r.Context(), tvID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		qty, _, err := stock.GetQuantity(r.Context(), tvID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, televisionResponse{Television: tv, Stock: qty, InStock: qty > 0})
	}
}
