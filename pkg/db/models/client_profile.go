package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientProfile is the customer record attached one-to-one to a User.
type ClientProfile struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Phone      string    `gorm:"column:phone;type:varchar(20);not null"`
	IsVerified bool      `gorm:"column:is_verified;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
