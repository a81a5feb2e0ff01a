package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ecoelite/booking-backend/internal/addresses"
	"github.com/ecoelite/booking-backend/pkg/db"
	"github.com/ecoelite/booking-backend/pkg/db/dbtest"
	"github.com/ecoelite/booking-backend/pkg/db/models"
	"github.com/ecoelite/booking-backend/pkg/enums"
	pkgerrors "github.com/ecoelite/booking-backend/pkg/errors"
	"github.com/ecoelite/booking-backend/pkg/metrics"
	"github.com/ecoelite/booking-backend/pkg/pagination"
	"github.com/ecoelite/booking-backend/pkg/refnum"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type harness struct {
	conn    *gorm.DB
	svc     Service
	reg     *prometheus.Registry
}

func newHarness(t *testing.T, numbers refnum.Generator, mutate ...func(*ServiceParams)) *harness {
	t.Helper()
	conn := dbtest.Open(t)
	client := db.FromGorm(conn)

	addressSvc, err := addresses.NewService(client, conn)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.NewBookingMetrics(reg)

	params := ServiceParams{
		Tx:        client,
		DB:        conn,
		Addresses: addressSvc,
		Price:     decimal.RequireFromString("15000.00"),
		Attempts:  3,
		Location:  time.UTC,
		Clock:     func() time.Time { return fixedNow },
		Numbers:   numbers,
		Metrics:   m,
	}
	for _, fn := range mutate {
		fn(&params)
	}
	svc, err := NewService(params)
	require.NoError(t, err)
	return &harness{conn: conn, svc: svc, reg: reg}
}

func (h *harness) seedClient(t *testing.T, email string) (uuid.UUID, uuid.UUID) {
	t.Helper()
	_, profile := dbtest.SeedClient(t, h.conn, email)
	address := dbtest.SeedAddress(t, h.conn, profile.ID, "Barrio Escalante, San José")
	return profile.ID, address.ID
}

func (h *harness) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, h.conn.Model(model).Count(&n).Error)
	return n
}

func validRequest(addressID uuid.UUID) CreateOrderRequest {
	return CreateOrderRequest{
		AddressID:   addressID.String(),
		ServiceDate: "2025-03-12",
		ServiceTime: "09:00",
		Notes:       "two bathrooms",
	}
}

func TestPlaceCreatesOrderAndUnpaidInvoice(t *testing.T) {
	h := newHarness(t, nil)
	clientID, addressID := h.seedClient(t, "ana@example.com")

	placed, err := h.svc.Place(context.Background(), clientID, validRequest(addressID))
	require.NoError(t, err)

	order := placed.Order
	assert.True(t, refnum.Valid(refnum.OrderPrefix, order.OrderNumber))
	assert.Equal(t, "order #"+order.OrderNumber+" created", placed.Message)
	assert.Equal(t, enums.OrderStatusNew, order.Status)
	assert.Equal(t, "15000.00", order.TotalAmount)
	assert.Equal(t, "2025-03-12", order.ServiceDate)
	assert.Equal(t, "09:00", order.ServiceTime)
	require.NotNil(t, order.Address)
	assert.Equal(t, addressID, order.Address.ID)

	require.NotNil(t, order.Invoice)
	assert.True(t, refnum.Valid(refnum.InvoicePrefix, order.Invoice.InvoiceNumber))
	assert.Equal(t, order.TotalAmount, order.Invoice.Amount)
	assert.False(t, order.Invoice.IsPaid)

	var invoices []models.Invoice
	require.NoError(t, h.conn.Where("order_id = ?", order.ID).Find(&invoices).Error)
	require.Len(t, invoices, 1)
	assert.True(t, invoices[0].Amount.Equal(decimal.RequireFromString("15000")))
	assert.False(t, invoices[0].IsPaid)

	assert.Equal(t, 1.0, counterValue(t, h.reg, "ecoelite_orders_created_total", ""))
}

func TestPlaceRejectsPastDate(t *testing.T) {
	h := newHarness(t, nil)
	clientID, addressID := h.seedClient(t, "ana@example.com")

	req := validRequest(addressID)
	req.ServiceDate = "2025-03-09"
	_, err := h.svc.Place(context.Background(), clientID, req)
	require.Error(t, err)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, MessagePastDate, details["service_date"])
	assert.Zero(t, h.count(t, &models.ServiceOrder{}))
	assert.Zero(t, h.count(t, &models.Invoice{}))
}

func TestPlaceAcceptsToday(t *testing.T) {
	h := newHarness(t, nil)
	clientID, addressID := h.seedClient(t, "ana@example.com")

	req := validRequest(addressID)
	req.ServiceDate = "2025-03-10"
	_, err := h.svc.Place(context.Background(), clientID, req)
	require.NoError(t, err)
}

func TestPlaceUsesBusinessTimeZoneForToday(t *testing.T) {
	// 03:00 UTC on the 10th is still the 9th six hours west.
	h := newHarness(t, nil, func(p *ServiceParams) {
		p.Location = time.FixedZone("UTC-6", -6*60*60)
		p.Clock = func() time.Time { return time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC) }
	})
	clientID, addressID := h.seedClient(t, "ana@example.com")

	req := validRequest(addressID)
	req.ServiceDate = "2025-03-09"
	_, err := h.svc.Place(context.Background(), clientID, req)
	require.NoError(t, err)
}

func TestPlaceReportsEveryInvalidField(t *testing.T) {
	h := newHarness(t, nil)
	clientID, _ := h.seedClient(t, "ana@example.com")

	_, err := h.svc.Place(context.Background(), clientID, CreateOrderRequest{
		AddressID:   "not-a-uuid",
		ServiceDate: "12/03/2025",
		ServiceTime: "9am",
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	details := pkgerrors.As(err).Details().(map[string]string)
	assert.Equal(t, MessageBadID, details["address_id"])
	assert.Equal(t, MessageBadDate, details["service_date"])
	assert.Equal(t, MessageBadTime, details["service_time"])
}

func TestPlaceRejectsForeignAddress(t *testing.T) {
	h := newHarness(t, nil)
	clientID, _ := h.seedClient(t, "ana@example.com")
	_, otherAddress := h.seedClient(t, "bruno@example.com")

	_, err := h.svc.Place(context.Background(), clientID, validRequest(otherAddress))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Zero(t, h.count(t, &models.ServiceOrder{}))
}

func TestPlaceRetriesOrderNumberCollision(t *testing.T) {
	h := newHarness(t, refnum.Sequence("EE0000000A", "INV0000000A", "EE0000000A", "INV0000000B", "EE0000000C", "INV0000000C"))
	clientID, addressID := h.seedClient(t, "ana@example.com")
	ctx := context.Background()

	first, err := h.svc.Place(ctx, clientID, validRequest(addressID))
	require.NoError(t, err)
	assert.Equal(t, "EE0000000A", first.Order.OrderNumber)

	second, err := h.svc.Place(ctx, clientID, validRequest(addressID))
	require.NoError(t, err)
	assert.Equal(t, "EE0000000C", second.Order.OrderNumber)
	assert.Equal(t, "INV0000000C", second.Order.Invoice.InvoiceNumber)

	assert.Equal(t, int64(2), h.count(t, &models.ServiceOrder{}))
	assert.Equal(t, int64(2), h.count(t, &models.Invoice{}))
	assert.Equal(t, 1.0, counterValue(t, h.reg, "ecoelite_reference_number_collisions_total", collisionOrder))
}

func TestPlaceInvoiceCollisionRollsBackOrder(t *testing.T) {
	h := newHarness(t, refnum.Sequence("EE0000000A", "INV0000000A", "EE0000000B", "INV0000000A"), func(p *ServiceParams) {
		p.Attempts = 1
	})
	clientID, addressID := h.seedClient(t, "ana@example.com")
	ctx := context.Background()

	_, err := h.svc.Place(ctx, clientID, validRequest(addressID))
	require.NoError(t, err)

	_, err = h.svc.Place(ctx, clientID, validRequest(addressID))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	var orders []models.ServiceOrder
	require.NoError(t, h.conn.Find(&orders).Error)
	require.Len(t, orders, 1)
	assert.Equal(t, "EE0000000A", orders[0].OrderNumber)
	assert.Equal(t, int64(1), h.count(t, &models.Invoice{}))
	assert.Equal(t, 1.0, counterValue(t, h.reg, "ecoelite_reference_number_collisions_total", collisionInvoice))
}

func TestPlaceGivesUpAfterAttempts(t *testing.T) {
	h := newHarness(t, refnum.Sequence(
		"EE0000000A", "INV0000000A",
		"EE0000000A", "INV00000001",
		"EE0000000A", "INV00000002",
		"EE0000000A", "INV00000003",
	))
	clientID, addressID := h.seedClient(t, "ana@example.com")
	ctx := context.Background()

	_, err := h.svc.Place(ctx, clientID, validRequest(addressID))
	require.NoError(t, err)

	_, err = h.svc.Place(ctx, clientID, validRequest(addressID))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Equal(t, int64(1), h.count(t, &models.ServiceOrder{}))
	assert.Equal(t, 3.0, counterValue(t, h.reg, "ecoelite_reference_number_collisions_total", collisionOrder))
}

func TestDetailIsScopedToOwner(t *testing.T) {
	h := newHarness(t, nil)
	ana, anaAddress := h.seedClient(t, "ana@example.com")
	bruno, _ := h.seedClient(t, "bruno@example.com")
	ctx := context.Background()

	placed, err := h.svc.Place(ctx, ana, validRequest(anaAddress))
	require.NoError(t, err)
	number := placed.Order.OrderNumber

	detail, err := h.svc.Detail(ctx, ana, number)
	require.NoError(t, err)
	assert.Equal(t, "two bathrooms", detail.Notes)
	require.NotNil(t, detail.Invoice)
	require.NotNil(t, detail.Address)

	_, err = h.svc.Detail(ctx, bruno, number)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = h.svc.Detail(ctx, ana, "EE0000000Z")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	page, err := h.svc.List(ctx, bruno, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestListPagesNewestFirst(t *testing.T) {
	h := newHarness(t, nil)
	clientID, addressID := h.seedClient(t, "ana@example.com")
	repo := NewRepository(h.conn)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &models.ServiceOrder{
			OrderNumber: refnum.New(refnum.OrderPrefix),
			ClientID:    clientID,
			AddressID:   addressID,
			ServiceDate: base.AddDate(0, 0, 30),
			ServiceTime: "11:00",
			Status:      enums.OrderStatusNew,
			TotalAmount: decimal.RequireFromString("15000"),
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}))
	}

	first, err := h.svc.List(ctx, clientID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.NextCursor)
	assert.Equal(t, base.Add(4*time.Hour), first.Items[0].CreatedAt.UTC())
	assert.Equal(t, base.Add(3*time.Hour), first.Items[1].CreatedAt.UTC())

	second, err := h.svc.List(ctx, clientID, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.Equal(t, base.Add(2*time.Hour), second.Items[0].CreatedAt.UTC())

	third, err := h.svc.List(ctx, clientID, pagination.Params{Limit: 2, Cursor: second.NextCursor})
	require.NoError(t, err)
	require.Len(t, third.Items, 1)
	assert.Empty(t, third.NextCursor)
}

func TestListRejectsBadCursor(t *testing.T) {
	h := newHarness(t, nil)
	clientID, _ := h.seedClient(t, "ana@example.com")

	_, err := h.svc.List(context.Background(), clientID, pagination.Params{Cursor: "%%%"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCreateFormListsAddressesAndSlots(t *testing.T) {
	h := newHarness(t, nil)
	clientID, addressID := h.seedClient(t, "ana@example.com")

	form, err := h.svc.CreateForm(context.Background(), clientID)
	require.NoError(t, err)
	require.Len(t, form.Addresses, 1)
	assert.Equal(t, addressID, form.Addresses[0].ID)
	assert.Equal(t, []string{"09:00", "11:00", "13:00", "15:00", "17:00"}, form.TimeSlots)
}

func TestTransitionStatusFollowsLifecycle(t *testing.T) {
	h := newHarness(t, nil)
	clientID, addressID := h.seedClient(t, "ana@example.com")
	ctx := context.Background()

	placed, err := h.svc.Place(ctx, clientID, validRequest(addressID))
	require.NoError(t, err)
	number := placed.Order.OrderNumber

	for _, next := range []enums.OrderStatus{enums.OrderStatusConfirmed, enums.OrderStatusInProgress, enums.OrderStatusCompleted} {
		updated, err := h.svc.TransitionStatus(ctx, number, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
		assert.Equal(t, number, updated.OrderNumber)
	}

	_, err = h.svc.TransitionStatus(ctx, number, enums.OrderStatusCancelled)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = h.svc.TransitionStatus(ctx, "EE00000000", enums.OrderStatusConfirmed)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = h.svc.TransitionStatus(ctx, number, enums.OrderStatus("archived"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.Error(t, err)

	conn := dbtest.Open(t)
	addressSvc, err := addresses.NewService(db.FromGorm(conn), conn)
	require.NoError(t, err)
	_, err = NewService(ServiceParams{Tx: db.FromGorm(conn), DB: conn, Addresses: addressSvc, Price: decimal.Zero})
	assert.Error(t, err)
}

// counterValue reads a counter from reg; label filters a single-label vector.
func counterValue(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if label == "" {
				return metric.GetCounter().GetValue()
			}
			for _, pair := range metric.GetLabel() {
				if pair.GetValue() == label {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
