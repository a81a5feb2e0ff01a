package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ecoelite/booking-backend/pkg/db"
	"github.com/ecoelite/booking-backend/pkg/db/dbtest"
	"github.com/ecoelite/booking-backend/pkg/db/models"
	"github.com/ecoelite/booking-backend/pkg/enums"
)

func newOrder(clientID, addressID uuid.UUID, number string) *models.ServiceOrder {
	return &models.ServiceOrder{
		OrderNumber: number,
		ClientID:    clientID,
		AddressID:   addressID,
		ServiceDate: time.Date(2030, 5, 4, 0, 0, 0, 0, time.UTC),
		ServiceTime: "13:00",
		Status:      enums.OrderStatusNew,
		TotalAmount: decimal.RequireFromString("15000.00"),
	}
}

func seedOwner(t *testing.T, conn *gorm.DB, email string) (uuid.UUID, uuid.UUID) {
	t.Helper()
	_, profile := dbtest.SeedClient(t, conn, email)
	address := dbtest.SeedAddress(t, conn, profile.ID, "Rohrmoser, Pavas")
	return profile.ID, address.ID
}

func TestRepositoryRejectsDuplicateOrderNumber(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	clientID, addressID := seedOwner(t, conn, "ana@example.com")

	require.NoError(t, repo.Create(ctx, newOrder(clientID, addressID, "EE0000000A")))
	err := repo.Create(ctx, newOrder(clientID, addressID, "EE0000000A"))
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))
}

func TestOrderNumberSurvivesResave(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	clientID, addressID := seedOwner(t, conn, "ana@example.com")

	order := newOrder(clientID, addressID, "EE0000000B")
	require.NoError(t, repo.Create(ctx, order))

	order.OrderNumber = "EE0000000C"
	order.Notes = "ring twice"
	require.NoError(t, conn.Save(order).Error)
	require.NoError(t, conn.Save(order).Error)

	stored, err := repo.FindByNumber(ctx, "EE0000000B")
	require.NoError(t, err)
	assert.Equal(t, "ring twice", stored.Notes)

	_, err = repo.FindByNumber(ctx, "EE0000000C")
	assert.True(t, db.IsNotFound(err))

	err = conn.Exec("UPDATE service_orders SET order_number = ? WHERE id = ?", "EE0000000D", order.ID).Error
	assert.Error(t, err)
}

func TestUpdateStatusIsConditional(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	clientID, addressID := seedOwner(t, conn, "ana@example.com")

	order := newOrder(clientID, addressID, "EE0000000E")
	require.NoError(t, repo.Create(ctx, order))

	ok, err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusNew, enums.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateStatus(ctx, order.ID, enums.OrderStatusNew, enums.OrderStatusCancelled)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.FindByNumber(ctx, "EE0000000E")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, stored.Status)
	assert.Equal(t, "EE0000000E", stored.OrderNumber)
}

func TestFindByNumberForClientScopesOwner(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	ana, anaAddress := seedOwner(t, conn, "ana@example.com")
	bruno, _ := seedOwner(t, conn, "bruno@example.com")

	require.NoError(t, repo.Create(ctx, newOrder(ana, anaAddress, "EE0000000F")))

	found, err := repo.FindByNumberForClient(ctx, ana, "EE0000000F")
	require.NoError(t, err)
	require.NotNil(t, found.Address)
	assert.Equal(t, anaAddress, found.Address.ID)
	assert.Nil(t, found.Invoice)

	_, err = repo.FindByNumberForClient(ctx, bruno, "EE0000000F")
	assert.True(t, db.IsNotFound(err))

	count, err := repo.CountByClient(ctx, bruno)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestWithTxSharesTransaction(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	clientID, addressID := seedOwner(t, conn, "ana@example.com")

	err := db.FromGorm(conn).WithTx(ctx, func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Create(ctx, newOrder(clientID, addressID, "EE00000010")); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	count, err := repo.CountByClient(ctx, clientID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
