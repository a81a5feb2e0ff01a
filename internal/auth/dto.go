package auth

import (
	"time"

	"github.com/ecoelite/booking-backend/internal/clients"
	"github.com/ecoelite/booking-backend/internal/users"
	"github.com/ecoelite/booking-backend/pkg/types"
)

const (
	RedirectAfterRegister = "/login"
	RedirectAfterLogin    = "/profile"
	RedirectAfterLogout   = "/"

	LogoutMessage = "you have been logged out"
)

// LoginRequest carries the login form. Username may be an email address.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse holds the session token and the signed-in account.
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *users.UserDTO `json:"user"`
	types.Navigation
}

// LogoutResponse always redirects home; Message is set only when a live
// session was closed.
type LogoutResponse struct {
	types.Navigation
}

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,max=20"`
	FirstName       string `json:"first_name" validate:"required,max=150"`
	LastName        string `json:"last_name" validate:"required,max=150"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

// RegisterResponse is returned with 201; the client is sent to the login page.
type RegisterResponse struct {
	User    *users.UserDTO     `json:"user"`
	Profile clients.ProfileDTO `json:"profile"`
	types.Navigation
}

// WelcomeMessage is the greeting shown after login.
func WelcomeMessage(email string) string {
	return "welcome, " + email
}
