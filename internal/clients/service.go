package clients

import (
	"context"
	"fmt"

	"github.com/ecoelite/booking-backend/internal/addresses"
	"github.com/ecoelite/booking-backend/pkg/db"
	pkgerrors "github.com/ecoelite/booking-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service assembles the client's profile page.
type Service interface {
	Profile(ctx context.Context, clientID uuid.UUID) (*ProfileView, error)
}

type service struct {
	profiles  *Repository
	addresses addresses.Service
}

func NewService(conn *gorm.DB, addressSvc addresses.Service) (Service, error) {
	if conn == nil {
		return nil, fmt.Errorf("database is required")
	}
	if addressSvc == nil {
		return nil, fmt.Errorf("address service is required")
	}
	return &service{profiles: NewRepository(conn), addresses: addressSvc}, nil
}

func (s *service) Profile(ctx context.Context, clientID uuid.UUID) (*ProfileView, error) {
	profile, err := s.profiles.FindWithUser(ctx, clientID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load client profile")
	}

	list, err := s.addresses.List(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{Profile: FromModel(profile), Addresses: list}, nil
}
