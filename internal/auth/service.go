package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carewell/carebook-backend/internal/customers"
	"github.com/carewell/carebook-backend/internal/operators"
	pkgAuth "github.com/carewell/carebook-backend/pkg/auth"
	"github.com/carewell/carebook-backend/pkg/auth/session"
	"github.com/carewell/carebook-backend/pkg/config"
	"github.com/carewell/carebook-backend/pkg/db"
	"github.com/carewell/carebook-backend/pkg/db/models"
	"github.com/carewell/carebook-backend/pkg/enums"
	pkgerrors "github.com/carewell/carebook-backend/pkg/errors"
	"github.com/carewell/carebook-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controllers.
type Service interface {
	MemberLogin(ctx context.Context, req MemberLoginRequest) (*MemberLoginResponse, error)
	AdminLogin(ctx context.Context, req AdminLoginRequest) (*AdminLoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	Logout(ctx context.Context, accessID string) error
}

type customerRepository interface {
	FindByPhone(ctx context.Context, phone string) (*models.Customer, error)
}

type operatorRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Operator, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	customers customerRepository
	operators operatorRepository
	session   sessionManager
	jwtCfg    config.JWTConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	CustomerRepo   customerRepository
	OperatorRepo   operatorRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CustomerRepo == nil {
		return nil, fmt.Errorf("customer repository is required")
	}
	if params.OperatorRepo == nil {
		return nil, fmt.Errorf("operator repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		customers: params.CustomerRepo,
		operators: params.OperatorRepo,
		session:   params.SessionManager,
		jwtCfg:    params.JWTConfig,
	}, nil
}

func (s *service) MemberLogin(ctx context.Context, req MemberLoginRequest) (*MemberLoginResponse, error) {
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	customer, err := s.customers.FindByPhone(ctx, phone)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup customer")
	}

	if err := s.verify(req.Password, customer.PasswordHash, customer.IsActive); err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, customer.ID, enums.ActorRoleMember)
	if err != nil {
		return nil, err
	}

	return &MemberLoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Customer:     customers.FromModel(customer),
	}, nil
}

func (s *service) AdminLogin(ctx context.Context, req AdminLoginRequest) (*AdminLoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	operator, err := s.operators.FindByEmail(ctx, email)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup operator")
	}

	if err := s.verify(req.Password, operator.PasswordHash, operator.IsActive); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.operators.UpdateLastLogin(ctx, operator.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	operator.LastLoginAt = &now

	accessToken, refreshToken, err := s.issueTokens(ctx, operator.ID, enums.ActorRoleAdmin)
	if err != nil {
		return nil, err
	}

	return &AdminLoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Operator:     operators.FromModel(operator),
	}, nil
}

// Refresh rotates the refresh session tied to the presented (possibly
// expired) access token and mints a fresh token pair for the same subject.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "refresh rejected")
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		SubjectID: claims.SubjectID,
		Role:      claims.Role,
		JTI:       newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout revokes the server-side session for the presented access ID,
// invalidating its refresh token immediately.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}

func (s *service) verify(password, hash string, active bool) error {
	valid, err := security.VerifyPassword(password, hash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !active {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return nil
}

func (s *service) issueTokens(ctx context.Context, subjectID uuid.UUID, role enums.ActorRole) (string, string, error) {
	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		SubjectID: subjectID,
		Role:      role,
		JTI:       accessID,
	})
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}
	return accessToken, refreshToken, nil
}
