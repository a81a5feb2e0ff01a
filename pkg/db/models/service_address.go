package models

import (
	"time"

	"github.com/google/uuid"
)

type ServiceAddress struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID  uuid.UUID `gorm:"column:client_id;type:uuid;not null;index"`
	Address   string    `gorm:"column:address;type:text;not null"`
	Notes     string    `gorm:"column:notes;type:text;not null;default:''"`
	IsPrimary bool      `gorm:"column:is_primary;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
