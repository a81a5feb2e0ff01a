package addresses

import (
	"context"

	"github.com/ecoelite/booking-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists service addresses. Every read is scoped by client id.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, address *models.ServiceAddress) error {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(address).Error
}

// ListByClient returns the client's addresses, newest first.
func (r *Repository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.ServiceAddress, error) {
	var rows []models.ServiceAddress
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// FindForClient loads addressID only when it belongs to clientID.
func (r *Repository) FindForClient(ctx context.Context, clientID, addressID uuid.UUID) (*models.ServiceAddress, error) {
	var address models.ServiceAddress
	if err := r.db.WithContext(ctx).
		Where("id = ? AND client_id = ?", addressID, clientID).
		First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// ClearPrimary unsets the primary flag on every address of clientID.
func (r *Repository) ClearPrimary(ctx context.Context, clientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ServiceAddress{}).
		Where("client_id = ? AND is_primary = ?", clientID, true).
		UpdateColumn("is_primary", false).Error
}
