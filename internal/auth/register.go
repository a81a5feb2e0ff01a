package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/ecoelite/booking-backend/internal/clients"
	"github.com/ecoelite/booking-backend/internal/users"
	"github.com/ecoelite/booking-backend/pkg/db"
	pkgerrors "github.com/ecoelite/booking-backend/pkg/errors"
	"github.com/ecoelite/booking-backend/pkg/metrics"
	"github.com/ecoelite/booking-backend/pkg/security"
	"github.com/ecoelite/booking-backend/pkg/types"
)

const (
	msgRequired        = "this field is required"
	msgInvalidEmail    = "enter a valid email address"
	msgEmailTaken      = "a user with that email already exists"
	msgPasswordsDiffer = "the two password fields didn't match"
	msgPhoneTooLong    = "ensure this field has no more than 20 characters"
)

var emailCheck = validator.New()

// RegisterService handles account sign-up.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	Tx      db.TxRunner
	Hasher  *security.Hasher
	Metrics *metrics.BookingMetrics
}

type registerService struct {
	tx      db.TxRunner
	hasher  *security.Hasher
	metrics *metrics.BookingMetrics
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher required")
	}
	return &registerService{tx: params.Tx, hasher: params.Hasher, metrics: params.Metrics}, nil
}

// Register creates the account and its client profile together. The login
// name is the normalized email.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	req = normalizeRegister(req)
	if problems := validateRegister(req); problems != nil {
		return nil, pkgerrors.FieldErrors(problems)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var resp *RegisterResponse
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		profileRepo := clients.NewRepository(tx)

		exists, err := userRepo.EmailExists(ctx, req.Email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}
		if exists {
			return emailTaken()
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        req.Email,
			PasswordHash: hash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				return emailTaken()
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		profile, err := profileRepo.Create(ctx, user.ID, req.Phone)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return emailTaken()
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create client profile")
		}
		profile.User = user

		resp = &RegisterResponse{
			User:       users.FromModel(user),
			Profile:    clients.FromModel(profile),
			Navigation: types.Navigation{RedirectTo: RedirectAfterRegister},
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "register")
	}

	s.metrics.IncRegistration()
	return resp, nil
}

func emailTaken() error {
	return pkgerrors.FieldErrors(map[string]string{"email": msgEmailTaken})
}

func normalizeRegister(req RegisterRequest) RegisterRequest {
	req.Email = users.NormalizeEmail(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	return req
}

func validateRegister(req RegisterRequest) map[string]string {
	problems := map[string]string{}
	required := map[string]string{
		"email":            req.Email,
		"phone":            req.Phone,
		"first_name":       req.FirstName,
		"last_name":        req.LastName,
		"password":         req.Password,
		"password_confirm": req.PasswordConfirm,
	}
	for field, value := range required {
		if value == "" {
			problems[field] = msgRequired
		}
	}

	if _, blank := problems["email"]; !blank && emailCheck.Var(req.Email, "email") != nil {
		problems["email"] = msgInvalidEmail
	}
	if _, blank := problems["phone"]; !blank && len([]rune(req.Phone)) > 20 {
		problems["phone"] = msgPhoneTooLong
	}
	if req.Password != "" && req.PasswordConfirm != "" && req.Password != req.PasswordConfirm {
		problems["password_confirm"] = msgPasswordsDiffer
	}
	if req.Password != "" {
		issues := security.CheckPassword(req.Password, security.PasswordAttributes{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if len(issues) > 0 {
			problems["password"] = strings.Join(issues, "; ")
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}
