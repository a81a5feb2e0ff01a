package dbtest

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ecoelite/booking-backend/pkg/db/models"
)

// SeedClient inserts a user and its client profile and returns both.
func SeedClient(t *testing.T, conn *gorm.DB, email string) (*models.User, *models.ClientProfile) {
	t.Helper()

	email = strings.ToLower(email)
	user := &models.User{
		ID:           uuid.New(),
		Username:     email,
		Email:        email,
		PasswordHash: "unused",
		FirstName:    "Test",
		LastName:     "Client",
		IsActive:     true,
	}
	require.NoError(t, conn.Create(user).Error)

	profile := &models.ClientProfile{ID: uuid.New(), UserID: user.ID, Phone: "+50688887777"}
	require.NoError(t, conn.Create(profile).Error)
	return user, profile
}

// SeedAddress inserts a non-primary address for clientID.
func SeedAddress(t *testing.T, conn *gorm.DB, clientID uuid.UUID, text string) *models.ServiceAddress {
	t.Helper()

	address := &models.ServiceAddress{ID: uuid.New(), ClientID: clientID, Address: text}
	require.NoError(t, conn.Create(address).Error)
	return address
}
