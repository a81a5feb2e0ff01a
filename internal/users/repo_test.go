package users

import (
	"context"
	"testing"
	"time"

	"github.com/ecoelite/booking-backend/pkg/db"
	"github.com/ecoelite/booking-backend/pkg/db/dbtest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryCreateNormalizesIdentity(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{
		Email:        "  Ana.Garcia@Example.COM ",
		PasswordHash: "hash",
		FirstName:    " Ana ",
		LastName:     "Garcia",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "ana.garcia@example.com", user.Username)
	assert.Equal(t, "ana.garcia@example.com", user.Email)
	assert.Equal(t, "Ana", user.FirstName)

	byName, err := repo.FindByUsername(ctx, "ana.garcia@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.FindByEmail(ctx, "ana.garcia@example.com")
	require.NoError(t, err)
	assert.True(t, byEmail.IsActive)

	exists, err := repo.EmailExists(ctx, "ana.garcia@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRepositoryRejectsDuplicateEmail(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateUserDTO{Email: "dup@example.com", PasswordHash: "h", FirstName: "A", LastName: "B"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateUserDTO{Email: "DUP@example.com", PasswordHash: "h", FirstName: "C", LastName: "D"})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))
}

func TestRepositoryFindMissing(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.True(t, db.IsNotFound(err))

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.True(t, db.IsNotFound(err))
}

func TestRepositoryUpdateLastLogin(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Email: "login@example.com", PasswordHash: "h", FirstName: "A", LastName: "B"})
	require.NoError(t, err)

	at := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.True(t, at.Equal(*reloaded.LastLoginAt))
}
