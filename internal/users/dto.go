package users

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/tvshop-backend/pkg/db/models"
	"github.com/angelmondragon/tvshop-backend/pkg/shipping"
)

// ProfileDTO is the transport shape of a stored profile.
type ProfileDTO struct {
	UserID      uuid.UUID `json:"user_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Zipcode     string    `json:"zipcode"`
}

func (d ProfileDTO) ToModel() *models.Profile {
	return &models.Profile{
		UserID:      d.UserID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		PhoneNumber: d.PhoneNumber,
		Address:     d.Address,
		City:        d.City,
		Zipcode:     d.Zipcode,
	}
}

func FromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		UserID:      p.UserID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		PhoneNumber: p.PhoneNumber,
		Address:     p.Address,
		City:        p.City,
		Zipcode:     p.Zipcode,
	}
}

// ShippingDetails copies the profile into order shipping fields.
func (d ProfileDTO) ShippingDetails() shipping.Details {
	return shipping.Details{
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Address:     d.Address,
		City:        d.City,
		Zipcode:     d.Zipcode,
		PhoneNumber: d.PhoneNumber,
	}.Normalize()
}
