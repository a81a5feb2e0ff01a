package invoices

import (
	"time"

	"github.com/google/uuid"

	"github.com/ecoelite/booking-backend/pkg/db/models"
)

type InvoiceDTO struct {
	ID            uuid.UUID  `json:"id"`
	InvoiceNumber string     `json:"invoice_number"`
	Amount        string     `json:"amount"`
	IsPaid        bool       `json:"is_paid"`
	CreatedAt     time.Time  `json:"created_at"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

func FromModel(m *models.Invoice) *InvoiceDTO {
	if m == nil {
		return nil
	}
	return &InvoiceDTO{
		ID:            m.ID,
		InvoiceNumber: m.InvoiceNumber,
		Amount:        m.Amount.StringFixed(2),
		IsPaid:        m.IsPaid,
		CreatedAt:     m.CreatedAt,
		PaidAt:        m.PaidAt,
	}
}
