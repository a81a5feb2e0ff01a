package clients

import (
	"time"

	"github.com/google/uuid"

	"github.com/ecoelite/booking-backend/internal/addresses"
	"github.com/ecoelite/booking-backend/pkg/db/models"
)

// ProfileDTO merges the account and client profile fields shown to the owner.
type ProfileDTO struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Phone      string    `json:"phone"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProfileView is the GET /profile payload.
type ProfileView struct {
	Profile   ProfileDTO               `json:"profile"`
	Addresses []addresses.AddressDTO `json:"addresses"`
}

func FromModel(p *models.ClientProfile) ProfileDTO {
	dto := ProfileDTO{
		ID:         p.ID,
		UserID:     p.UserID,
		Phone:      p.Phone,
		IsVerified: p.IsVerified,
		CreatedAt:  p.CreatedAt,
	}
	if p.User != nil {
		dto.Email = p.User.Email
		dto.FirstName = p.User.FirstName
		dto.LastName = p.User.LastName
	}
	return dto
}
