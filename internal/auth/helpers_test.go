package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ecoelite/booking-backend/internal/clients"
	"github.com/ecoelite/booking-backend/internal/users"
	"github.com/ecoelite/booking-backend/pkg/auth/session"
	"github.com/ecoelite/booking-backend/pkg/config"
	"github.com/ecoelite/booking-backend/pkg/db"
	"github.com/ecoelite/booking-backend/pkg/db/dbtest"
	"github.com/ecoelite/booking-backend/pkg/metrics"
	"github.com/ecoelite/booking-backend/pkg/security"
)

var testJWT = config.JWTConfig{
	Secret:            "test-secret",
	Issuer:            "ecoelite",
	ExpirationMinutes: 60,
}

var fastArgon = config.PasswordConfig{
	ArgonMemoryKB:    1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type fakeSessions struct {
	mu   sync.Mutex
	open map[string]uuid.UUID
}

var _ session.Store = (*fakeSessions)(nil)

func newFakeSessions() *fakeSessions {
	return &fakeSessions{open: map[string]uuid.UUID{}}
}

func (f *fakeSessions) Open(_ context.Context, userID uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := session.NewSessionID()
	f.open[id] = userID
	return id, nil
}

func (f *fakeSessions) Lookup(_ context.Context, id string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.open[id]
	if !ok {
		return uuid.Nil, session.ErrSessionNotFound
	}
	return userID, nil
}

func (f *fakeSessions) Revoke(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.open[id]
	delete(f.open, id)
	return ok, nil
}

type authHarness struct {
	conn     *gorm.DB
	register RegisterService
	login    Service
	sessions *fakeSessions
	reg      *prometheus.Registry
}

func newAuthHarness(t *testing.T) *authHarness {
	t.Helper()
	conn := dbtest.Open(t)
	reg := prometheus.NewRegistry()
	m := metrics.NewBookingMetrics(reg)

	registerSvc, err := NewRegisterService(RegisterServiceParams{
		Tx:      db.FromGorm(conn),
		Hasher:  security.NewHasher(fastArgon),
		Metrics: m,
	})
	require.NoError(t, err)

	sessions := newFakeSessions()
	loginSvc, err := NewService(ServiceParams{
		UserRepo:    users.NewRepository(conn),
		ProfileRepo: clients.NewRepository(conn),
		Sessions:    sessions,
		JWTConfig:   testJWT,
		Metrics:     m,
	})
	require.NoError(t, err)

	return &authHarness{conn: conn, register: registerSvc, login: loginSvc, sessions: sessions, reg: reg}
}

func validRegistration(email string) RegisterRequest {
	return RegisterRequest{
		Email:           email,
		Phone:           "+506 8888 1234",
		FirstName:       "María",
		LastName:        "Rojas",
		Password:        "Tr0pical-Breeze",
		PasswordConfirm: "Tr0pical-Breeze",
	}
}

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
