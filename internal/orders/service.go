package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ecoelite/booking-backend/internal/addresses"
	"github.com/ecoelite/booking-backend/internal/invoices"
	"github.com/ecoelite/booking-backend/internal/scheduling"
	"github.com/ecoelite/booking-backend/pkg/db"
	"github.com/ecoelite/booking-backend/pkg/db/models"
	"github.com/ecoelite/booking-backend/pkg/enums"
	pkgerrors "github.com/ecoelite/booking-backend/pkg/errors"
	"github.com/ecoelite/booking-backend/pkg/logger"
	"github.com/ecoelite/booking-backend/pkg/metrics"
	"github.com/ecoelite/booking-backend/pkg/pagination"
	"github.com/ecoelite/booking-backend/pkg/refnum"
)

const (
	orderNotFoundMessage = "order not found"

	collisionOrder   = "order"
	collisionInvoice = "invoice"
)

// Service places and reads a client's service orders.
type Service interface {
	CreateForm(ctx context.Context, clientID uuid.UUID) (*CreateFormDTO, error)
	Place(ctx context.Context, clientID uuid.UUID, req CreateOrderRequest) (*PlacedOrderDTO, error)
	List(ctx context.Context, clientID uuid.UUID, params pagination.Params) (*pagination.Page[OrderSummaryDTO], error)
	Detail(ctx context.Context, clientID uuid.UUID, orderNumber string) (*OrderDetailDTO, error)
	TransitionStatus(ctx context.Context, orderNumber string, to enums.OrderStatus) (*OrderDetailDTO, error)
}

type ServiceParams struct {
	Tx        db.TxRunner
	DB        *gorm.DB
	Addresses addresses.Service
	Price     decimal.Decimal
	// Attempts bounds how many fresh number pairs Place tries.
	Attempts int
	Location *time.Location
	Clock    func() time.Time
	Numbers  refnum.Generator
	Metrics  *metrics.BookingMetrics
	Logger   *logger.Logger
}

type service struct {
	tx        db.TxRunner
	repo      Repository
	addresses addresses.Service
	price     decimal.Decimal
	attempts  int
	loc       *time.Location
	now       func() time.Time
	numbers   refnum.Generator
	metrics   *metrics.BookingMetrics
	logg      *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil || params.DB == nil {
		return nil, fmt.Errorf("database is required")
	}
	if params.Addresses == nil {
		return nil, fmt.Errorf("address service is required")
	}
	if !params.Price.IsPositive() {
		return nil, fmt.Errorf("order price must be positive")
	}
	if params.Attempts <= 0 {
		params.Attempts = 1
	}
	if params.Location == nil {
		params.Location = time.UTC
	}
	if params.Clock == nil {
		params.Clock = time.Now
	}
	if params.Numbers == nil {
		params.Numbers = refnum.New
	}

	return &service{
		tx:        params.Tx,
		repo:      NewRepository(params.DB),
		addresses: params.Addresses,
		price:     params.Price.Round(2),
		attempts:  params.Attempts,
		loc:       params.Location,
		now:       params.Clock,
		numbers:   params.Numbers,
		metrics:   params.Metrics,
		logg:      params.Logger,
	}, nil
}

func (s *service) CreateForm(ctx context.Context, clientID uuid.UUID) (*CreateFormDTO, error) {
	list, err := s.addresses.List(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &CreateFormDTO{Addresses: list, TimeSlots: scheduling.DefaultSlots()}, nil
}

// Place books a visit for clientID. The order and its invoice are written in
// one transaction; a number collision discards both and retries with a fresh
// pair.
func (s *service) Place(ctx context.Context, clientID uuid.UUID, req CreateOrderRequest) (*PlacedOrderDTO, error) {
	started := s.now()

	input, problems := req.Parse(scheduling.Today(started, s.loc))
	if problems != nil {
		return nil, pkgerrors.FieldErrors(problems)
	}

	address, err := s.addresses.Get(ctx, clientID, input.AddressID)
	if err != nil {
		return nil, err
	}

	var order *models.ServiceOrder
	for attempt := 1; attempt <= s.attempts; attempt++ {
		var kind string
		order, kind, err = s.insert(ctx, clientID, input)
		if err == nil {
			break
		}
		if kind == "" {
			return nil, err
		}
		s.metrics.IncNumberCollision(kind)
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{"attempt": attempt, "kind": kind})
			s.logg.Warn(logCtx, "orders.place.number_collision")
		}
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "could not allocate a unique order number")
	}

	s.metrics.IncOrderCreated()
	s.metrics.ObservePlacement(s.now().Sub(started))

	detail := DetailFromModel(*order)
	detail.Address = address
	return &PlacedOrderDTO{Order: detail, Message: PlacedMessage(order.OrderNumber)}, nil
}

// insert runs one placement attempt. kind is non-empty only when the attempt
// failed on a reference number collision and can be retried.
func (s *service) insert(ctx context.Context, clientID uuid.UUID, in *OrderInput) (*models.ServiceOrder, string, error) {
	order := &models.ServiceOrder{
		OrderNumber: s.numbers(refnum.OrderPrefix),
		ClientID:    clientID,
		AddressID:   in.AddressID,
		ServiceDate: in.ServiceDate,
		ServiceTime: in.ServiceTime,
		Status:      enums.OrderStatusNew,
		Notes:       in.Notes,
		TotalAmount: s.price,
	}
	invoice := &models.Invoice{
		InvoiceNumber: s.numbers(refnum.InvoicePrefix),
		Amount:        order.TotalAmount,
		IsPaid:        false,
	}

	var kind string
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			if db.IsUniqueViolation(err) {
				kind = collisionOrder
			}
			return err
		}
		invoice.OrderID = order.ID
		if err := invoices.NewRepository(tx).Create(ctx, invoice); err != nil {
			if db.IsUniqueViolation(err) {
				kind = collisionInvoice
			}
			return err
		}
		return nil
	})
	if err != nil {
		if kind != "" {
			return nil, kind, err
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}

	order.Invoice = invoice
	return order, "", nil
}

func (s *service) List(ctx context.Context, clientID uuid.UUID, params pagination.Params) (*pagination.Page[OrderSummaryDTO], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.FieldErrors(map[string]string{"cursor": "invalid cursor"})
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListByClient(ctx, clientID, pagination.LimitWithBuffer(limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	page := pagination.Build(SummariesFromModels(rows), limit, func(o OrderSummaryDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	return &page, nil
}

// Detail returns the order only when clientID owns it. Malformed numbers and
// foreign orders are reported exactly like missing ones.
func (s *service) Detail(ctx context.Context, clientID uuid.UUID, orderNumber string) (*OrderDetailDTO, error) {
	if !refnum.Valid(refnum.OrderPrefix, orderNumber) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, orderNotFoundMessage)
	}

	order, err := s.repo.FindByNumberForClient(ctx, clientID, orderNumber)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, orderNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	detail := DetailFromModel(*order)
	return &detail, nil
}

// TransitionStatus is the operator path for moving an order through its
// lifecycle. It is not scoped to a client.
func (s *service) TransitionStatus(ctx context.Context, orderNumber string, to enums.OrderStatus) (*OrderDetailDTO, error) {
	if !to.IsValid() {
		return nil, pkgerrors.FieldErrors(map[string]string{"status": fmt.Sprintf("unknown status %q", to)})
	}

	var updated *models.ServiceOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByNumber(ctx, orderNumber)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, orderNotFoundMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}

		if !order.Status.CanTransitionTo(to) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status cannot change").
				WithDetails(map[string]any{"from": order.Status, "to": to})
		}

		ok, err := repo.UpdateStatus(ctx, order.ID, order.Status, to)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "order status changed concurrently")
		}

		updated, err = repo.FindByNumber(ctx, orderNumber)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload order")
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "transition order status")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{"order_number": orderNumber, "status": to})
		s.logg.Info(logCtx, "orders.status.transitioned")
	}

	detail := DetailFromModel(*updated)
	return &detail, nil
}
