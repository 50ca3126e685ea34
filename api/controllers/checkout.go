package controllers

import (
	"net/http"

	"github.com/angelmondragon/tvshop-backend/api/middleware"
	"github.com/angelmondragon/tvshop-backend/api/responses"
	"github.com/angelmondragon/tvshop-backend/api/validators"
	checkoutsvc "github.com/angelmondragon/tvshop-backend/internal/checkout"
	pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"
	"github.com/angelmondragon/tvshop-backend/pkg/logger"
	"github.com/angelmondragon/tvshop-backend/pkg/shipping"
)

// Checkout places the caller's session cart as an order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Submit(r.Context(), middleware.ActorFromContext(r.Context()), payload.input())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type checkoutRequest struct {
	UseProfileData bool   `json:"use_profile_data"`
	FirstName      string `json:"first_name" validate:"omitempty,max=50"`
	LastName       string `json:"last_name" validate:"omitempty,max=50"`
	Address        string `json:"address" validate:"omitempty,max=100"`
	City           string `json:"city" validate:"omitempty,max=25"`
	Zipcode        string `json:"zipcode" validate:"omitempty,max=10"`
	PhoneNumber    string `json:"phone_number" validate:"omitempty,max=14"`
}

func (c checkoutRequest) input() checkoutsvc.Input {
	if c.UseProfileData {
		return checkoutsvc.Input{UseProfileData: true}
	}
	return checkoutsvc.Input{Shipping: &shipping.Details{
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Address:     c.Address,
		City:        c.City,
		Zipcode:     c.Zipcode,
		PhoneNumber: c.PhoneNumber,
	}}
}
