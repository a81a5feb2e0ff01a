package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ecoelite/booking-backend/pkg/enums"
)

// ServiceOrder is a booked visit. OrderNumber is written once at insert.
type ServiceOrder struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber string            `gorm:"<-:create;column:order_number;type:varchar(20);not null;uniqueIndex"`
	ClientID    uuid.UUID         `gorm:"column:client_id;type:uuid;not null;index"`
	AddressID   uuid.UUID         `gorm:"column:address_id;type:uuid;not null"`
	ServiceDate time.Time         `gorm:"column:service_date;type:date;not null"`
	ServiceTime string            `gorm:"column:service_time;type:time;not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:text;not null;default:'new'"`
	Notes       string            `gorm:"column:notes;type:text;not null;default:''"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Address     *ServiceAddress   `gorm:"foreignKey:AddressID;constraint:OnDelete:CASCADE"`
	Invoice     *Invoice          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
