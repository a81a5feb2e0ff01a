package orders

import (
	"context"

	"github.com/ecoelite/booking-backend/pkg/db/models"
	"github.com/ecoelite/booking-backend/pkg/enums"
	"github.com/ecoelite/booking-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for service orders. Reads made on
// behalf of a client always take the client id as an explicit filter.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.ServiceOrder) error
	ListByClient(ctx context.Context, clientID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.ServiceOrder, error)
	FindByNumberForClient(ctx context.Context, clientID uuid.UUID, orderNumber string) (*models.ServiceOrder, error)
	FindByNumber(ctx context.Context, orderNumber string) (*models.ServiceOrder, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus) (bool, error)
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts order; its order number must already be assigned.
func (r *repository) Create(ctx context.Context, order *models.ServiceOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Address", "Invoice").Create(order).Error
}

// ListByClient returns up to limit orders of clientID, newest first, starting
// after cursor when given.
func (r *repository) ListByClient(ctx context.Context, clientID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.ServiceOrder, error) {
	q := r.db.WithContext(ctx).
		Model(&models.ServiceOrder{}).
		Where("client_id = ?", clientID)
	if cursor != nil {
		at := cursor.CreatedAt.UTC()
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", at, at, cursor.ID)
	}

	var rows []models.ServiceOrder
	err := q.Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByNumberForClient(ctx context.Context, clientID uuid.UUID, orderNumber string) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	if err := r.db.WithContext(ctx).
		Preload("Address").
		Preload("Invoice").
		Where("order_number = ? AND client_id = ?", orderNumber, clientID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByNumber is the unscoped lookup used by operator tooling.
func (r *repository) FindByNumber(ctx context.Context, orderNumber string) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	if err := r.db.WithContext(ctx).
		Preload("Address").
		Preload("Invoice").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves orderID from one status to another and reports whether
// the row was still in the expected status.
func (r *repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ServiceOrder{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(map[string]any{"status": to, "updated_at": r.db.NowFunc()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ServiceOrder{}).Where("client_id = ?", clientID).Count(&count).Error
	return count, err
}
