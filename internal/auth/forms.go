package auth

import "github.com/ecoelite/booking-backend/pkg/security"

// FormField describes one input of a form a client renders.
type FormField struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Required  bool   `json:"required"`
	MaxLength int    `json:"max_length,omitempty"`
}

// FormDTO answers the GET side of the register and login endpoints.
type FormDTO struct {
	Fields []FormField `json:"fields"`
	Hints  []string    `json:"hints,omitempty"`
}

func RegisterForm() FormDTO {
	return FormDTO{
		Fields: []FormField{
			{Name: "email", Type: "email", Required: true},
			{Name: "phone", Type: "tel", Required: true, MaxLength: 20},
			{Name: "first_name", Type: "text", Required: true, MaxLength: 150},
			{Name: "last_name", Type: "text", Required: true, MaxLength: 150},
			{Name: "password", Type: "password", Required: true},
			{Name: "password_confirm", Type: "password", Required: true},
		},
		Hints: security.PasswordHints(),
	}
}

// LoginForm accepts the email or the account's login name in username.
func LoginForm() FormDTO {
	return FormDTO{
		Fields: []FormField{
			{Name: "username", Type: "text", Required: true},
			{Name: "password", Type: "password", Required: true},
		},
	}
}
