package addresses

import (
	"context"
	"fmt"

	"github.com/ecoelite/booking-backend/pkg/db"
	"github.com/ecoelite/booking-backend/pkg/db/models"
	pkgerrors "github.com/ecoelite/booking-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const addressNotFoundMessage = "address not found"

// Service manages a client's address book.
type Service interface {
	List(ctx context.Context, clientID uuid.UUID) ([]AddressDTO, error)
	Add(ctx context.Context, clientID uuid.UUID, req CreateAddressRequest) (*AddressDTO, error)
	Get(ctx context.Context, clientID, addressID uuid.UUID) (*AddressDTO, error)
}

type service struct {
	tx   db.TxRunner
	repo *Repository
}

// NewService builds the address service; conn backs reads and tx scopes writes.
func NewService(tx db.TxRunner, conn *gorm.DB) (Service, error) {
	if tx == nil || conn == nil {
		return nil, fmt.Errorf("database is required")
	}
	return &service{tx: tx, repo: NewRepository(conn)}, nil
}

func (s *service) List(ctx context.Context, clientID uuid.UUID) ([]AddressDTO, error) {
	rows, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list addresses")
	}
	return FromModels(rows), nil
}

func (s *service) Get(ctx context.Context, clientID, addressID uuid.UUID) (*AddressDTO, error) {
	row, err := s.repo.FindForClient(ctx, clientID, addressID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, addressNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load address")
	}
	dto := FromModel(*row)
	return &dto, nil
}

// Add stores a new address bound to clientID. Marking it primary demotes the
// previous primary in the same transaction.
func (s *service) Add(ctx context.Context, clientID uuid.UUID, req CreateAddressRequest) (*AddressDTO, error) {
	req = req.Normalize()
	if problems := req.Validate(); problems != nil {
		return nil, pkgerrors.FieldErrors(problems)
	}

	row := &models.ServiceAddress{
		ClientID:  clientID,
		Address:   req.Address,
		Notes:     req.Notes,
		IsPrimary: req.IsPrimary,
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if row.IsPrimary {
			if err := repo.ClearPrimary(ctx, clientID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear primary address")
			}
		}
		if err := repo.Create(ctx, row); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "primary address changed concurrently")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := FromModel(*row)
	return &dto, nil
}
