package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoelite/booking-backend/pkg/db/models"
	pkgerrors "github.com/ecoelite/booking-backend/pkg/errors"
)

func fieldDetails(t *testing.T, err error) map[string]string {
	t.Helper()
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	return details
}

func TestRegisterUsesNormalizedEmailAsUsername(t *testing.T) {
	h := newAuthHarness(t)

	resp, err := h.register.Register(context.Background(), validRegistration("  Maria.Rojas@Example.COM "))
	require.NoError(t, err)

	assert.Equal(t, "maria.rojas@example.com", resp.User.Email)
	assert.Equal(t, "maria.rojas@example.com", resp.User.Username)
	assert.Equal(t, "/login", resp.RedirectTo)
	assert.Equal(t, "+506 8888 1234", resp.Profile.Phone)
	assert.False(t, resp.Profile.IsVerified)
	assert.Equal(t, resp.User.ID, resp.Profile.UserID)

	var profiles int64
	require.NoError(t, h.conn.Model(&models.ClientProfile{}).Where("user_id = ?", resp.User.ID).Count(&profiles).Error)
	assert.EqualValues(t, 1, profiles)

	var stored models.User
	require.NoError(t, h.conn.First(&stored, "id = ?", resp.User.ID).Error)
	assert.NotEqual(t, "Tr0pical-Breeze", stored.PasswordHash)
	assert.Contains(t, stored.PasswordHash, "$argon2id$")

	assert.Equal(t, 1.0, counterValue(t, h.reg, "ecoelite_registrations_total", ""))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	h := newAuthHarness(t)
	ctx := context.Background()

	_, err := h.register.Register(ctx, validRegistration("ana@example.com"))
	require.NoError(t, err)

	_, err = h.register.Register(ctx, validRegistration("ANA@example.com"))
	details := fieldDetails(t, err)
	assert.Equal(t, msgEmailTaken, details["email"])

	var usersCount, profilesCount int64
	require.NoError(t, h.conn.Model(&models.User{}).Count(&usersCount).Error)
	require.NoError(t, h.conn.Model(&models.ClientProfile{}).Count(&profilesCount).Error)
	assert.EqualValues(t, 1, usersCount)
	assert.EqualValues(t, 1, profilesCount)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*RegisterRequest)
		field string
		want  string
	}{
		{
			name:  "mismatched confirmation",
			edit:  func(r *RegisterRequest) { r.PasswordConfirm = "Tr0pical-Breeze!" },
			field: "password_confirm",
			want:  msgPasswordsDiffer,
		},
		{
			name:  "blank phone",
			edit:  func(r *RegisterRequest) { r.Phone = "   " },
			field: "phone",
			want:  msgRequired,
		},
		{
			name:  "bad email",
			edit:  func(r *RegisterRequest) { r.Email = "not-an-email" },
			field: "email",
			want:  msgInvalidEmail,
		},
		{
			name: "numeric password",
			edit: func(r *RegisterRequest) {
				r.Password = "40417752"
				r.PasswordConfirm = "40417752"
			},
			field: "password",
			want:  "this password is entirely numeric",
		},
		{
			name: "short password",
			edit: func(r *RegisterRequest) {
				r.Password = "Ab1!"
				r.PasswordConfirm = "Ab1!"
			},
			field: "password",
			want:  "this password is too short; it must contain at least 8 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAuthHarness(t)
			req := validRegistration("ana@example.com")
			tt.edit(&req)

			_, err := h.register.Register(context.Background(), req)
			details := fieldDetails(t, err)
			assert.Contains(t, details[tt.field], tt.want)

			var count int64
			require.NoError(t, h.conn.Model(&models.User{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestNewRegisterServiceRequiresDependencies(t *testing.T) {
	_, err := NewRegisterService(RegisterServiceParams{})
	assert.Error(t, err)
}
