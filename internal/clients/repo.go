package clients

import (
	"context"

	"github.com/ecoelite/booking-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists client profiles.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the profile for userID. Verification always starts false.
func (r *Repository) Create(ctx context.Context, userID uuid.UUID, phone string) (*models.ClientProfile, error) {
	profile := &models.ClientProfile{
		ID:     uuid.New(),
		UserID: userID,
		Phone:  phone,
	}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByUserID loads the profile owned by userID.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.ClientProfile, error) {
	var profile models.ClientProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindWithUser loads a profile and its user in one call.
func (r *Repository) FindWithUser(ctx context.Context, clientID uuid.UUID) (*models.ClientProfile, error) {
	var profile models.ClientProfile
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&profile, "id = ?", clientID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// CountByUserID is used to assert the one-profile-per-user invariant.
func (r *Repository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClientProfile{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
