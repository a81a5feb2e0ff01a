package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is the billing record created together with its order.
type Invoice struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	InvoiceNumber string          `gorm:"<-:create;column:invoice_number;type:varchar(20);not null;uniqueIndex"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	IsPaid        bool            `gorm:"column:is_paid;not null;default:false"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	PaidAt        *time.Time      `gorm:"column:paid_at"`
}
