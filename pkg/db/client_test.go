package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newMockClient(t *testing.T) (*Client, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	client, err := Open(postgres.New(postgres.Config{Conn: sqlDB}))
	require.NoError(t, err)
	return client, mock
}

const (
	cancelOrderSQL      = "UPDATE service_orders SET status = ? WHERE id = ?"
	cancelOrderBoundSQL = "UPDATE service_orders SET status = $1 WHERE id = $2"
)

func TestWithTxCommitsOnSuccess(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(cancelOrderBoundSQL)).
		WithArgs("cancelled", "order-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Exec(cancelOrderSQL, "cancelled", "order-1").Error
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client, mock := newMockClient(t)
	boom := errors.New("invoice insert failed")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(cancelOrderBoundSQL)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Exec(cancelOrderSQL, "cancelled", "order-1").Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			panic("boom")
		})
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxReturnsBeginError(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectBegin().WillReturnError(errors.New("connection reset"))

	called := false
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}

type uniqueRow struct {
	ID   int
	Code string `gorm:"uniqueIndex"`
}

func TestIsUniqueViolation(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:unique_violation?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&uniqueRow{}))
	require.NoError(t, conn.Create(&uniqueRow{Code: "EE00000001"}).Error)
	sqliteErr := conn.Create(&uniqueRow{Code: "EE00000001"}).Error
	require.Error(t, sqliteErr)

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "pgx unique", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "pgx fk", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "pq unique", err: &pq.Error{Code: "23505"}, want: true},
		{name: "gorm sentinel", err: gorm.ErrDuplicatedKey, want: true},
		{name: "sqlite", err: sqliteErr, want: true},
		{name: "plain", err: errors.New("timeout"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("load: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsNotFound(errors.New("other")))
}
