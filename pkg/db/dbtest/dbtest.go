// Package dbtest opens an in-memory SQLite database carrying the booking
// schema, for repository and service tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var schema = []string{
	`CREATE TABLE users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE client_profiles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
  phone TEXT NOT NULL,
  is_verified INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
	`CREATE TABLE service_addresses (
  id TEXT PRIMARY KEY,
  client_id TEXT NOT NULL REFERENCES client_profiles(id) ON DELETE CASCADE,
  address TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  is_primary INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
	`CREATE UNIQUE INDEX idx_service_addresses_one_primary ON service_addresses (client_id) WHERE is_primary = 1;`,
	`CREATE TABLE service_orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  client_id TEXT NOT NULL REFERENCES client_profiles(id) ON DELETE CASCADE,
  address_id TEXT NOT NULL REFERENCES service_addresses(id) ON DELETE CASCADE,
  service_date DATE NOT NULL,
  service_time TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'new' CHECK (status IN ('new', 'confirmed', 'in_progress', 'completed', 'cancelled')),
  notes TEXT NOT NULL DEFAULT '',
  total_amount NUMERIC NOT NULL CHECK (total_amount > 0),
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE invoices (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE REFERENCES service_orders(id) ON DELETE CASCADE,
  invoice_number TEXT NOT NULL UNIQUE,
  amount NUMERIC NOT NULL CHECK (amount > 0),
  is_paid INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  paid_at DATETIME
);`,
	`CREATE TRIGGER service_orders_order_number_immutable
BEFORE UPDATE OF order_number ON service_orders
WHEN NEW.order_number <> OLD.order_number
BEGIN SELECT RAISE(ABORT, 'order_number is immutable'); END;`,
	`CREATE TRIGGER invoices_invoice_number_immutable
BEFORE UPDATE OF invoice_number ON invoices
WHEN NEW.invoice_number <> OLD.invoice_number
BEGIN SELECT RAISE(ABORT, 'invoice_number is immutable'); END;`,
}

// Open returns a fresh database private to the calling test.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}
