package addresses

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ecoelite/booking-backend/pkg/db/models"
)

const maxTextLength = 1000

// AddressDTO is the client-facing address shape.
type AddressDTO struct {
	ID        uuid.UUID `json:"id"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateAddressRequest is the payload of POST /profile.
type CreateAddressRequest struct {
	Address   string `json:"address" validate:"required,max=1000"`
	Notes     string `json:"notes" validate:"max=1000"`
	IsPrimary bool   `json:"is_primary"`
}

// Normalize trims free-text fields.
func (r CreateAddressRequest) Normalize() CreateAddressRequest {
	r.Address = strings.TrimSpace(r.Address)
	r.Notes = strings.TrimSpace(r.Notes)
	return r
}

// Validate returns one message per invalid field; nil means valid.
func (r CreateAddressRequest) Validate() map[string]string {
	problems := map[string]string{}
	if r.Address == "" {
		problems["address"] = "this field is required"
	} else if utf8.RuneCountInString(r.Address) > maxTextLength {
		problems["address"] = "ensure this field has no more than 1000 characters"
	}
	if utf8.RuneCountInString(r.Notes) > maxTextLength {
		problems["notes"] = "ensure this field has no more than 1000 characters"
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

func FromModel(m models.ServiceAddress) AddressDTO {
	return AddressDTO{
		ID:        m.ID,
		Address:   m.Address,
		Notes:     m.Notes,
		IsPrimary: m.IsPrimary,
		CreatedAt: m.CreatedAt,
	}
}

func FromModels(rows []models.ServiceAddress) []AddressDTO {
	out := make([]AddressDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out
}
