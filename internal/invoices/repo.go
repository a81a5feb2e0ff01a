package invoices

import (
	"context"

	"github.com/ecoelite/booking-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists invoices. Invoices are written only as part of order placement.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts invoice; the invoice number must already be assigned.
func (r *Repository) Create(ctx context.Context, invoice *models.Invoice) error {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *Repository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CountByOrderID backs the one-invoice-per-order check.
func (r *Repository) CountByOrderID(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).Where("order_id = ?", orderID).Count(&count).Error
	return count, err
}
