package auth

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/carewell/carebook-backend/internal/customers"
	"github.com/carewell/carebook-backend/pkg/config"
	"github.com/carewell/carebook-backend/pkg/db"
	pkgerrors "github.com/carewell/carebook-backend/pkg/errors"
	"github.com/carewell/carebook-backend/pkg/security"
)

// RegisterRequest contains the payload required to create a member account.
type RegisterRequest struct {
	Phone    string `json:"phone" validate:"required,min=5"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterService handles member self-registration.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*customers.CustomerDTO, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*customers.CustomerDTO, error) {
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *customers.CustomerDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := customers.NewRepository(tx)

		if _, err := repo.FindByPhone(ctx, phone); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
		} else if !db.IsRecordNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check phone")
		}

		customer, err := repo.Create(ctx, customers.CreateCustomerDTO{
			Phone:        phone,
			Name:         name,
			PasswordHash: passwordHash,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create customer")
		}
		created = customers.FromModel(customer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
