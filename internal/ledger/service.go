package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carewell/carebook-backend/pkg/db/models"
	"github.com/carewell/carebook-backend/pkg/enums"
	pkgerrors "github.com/carewell/carebook-backend/pkg/errors"
)

// DefaultOperator labels entries recorded without an explicit operator.
const DefaultOperator = "admin"

// Service defines operations that record and read ledger entries.
type Service interface {
	Record(ctx context.Context, input RecordEntryInput) (*models.LedgerEntry, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, params ListParams) ([]models.LedgerEntry, int64, error)
	List(ctx context.Context, params ListParams) ([]models.LedgerEntry, int64, error)
}

type service struct {
	repo Repository
}

// RecordEntryInput captures the immutable data a ledger entry requires.
type RecordEntryInput struct {
	CustomerID uuid.UUID
	Type       enums.LedgerEntryType
	Amount     decimal.Decimal
	Note       string
	Operator   string
	LegacyID   string
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, input RecordEntryInput) (*models.LedgerEntry, error) {
	entry, err := buildEntry(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording ledger entry")
	}
	return entry, nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, params ListParams) ([]models.LedgerEntry, int64, error) {
	if customerID == uuid.Nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	entries, total, err := s.repo.ListByCustomerID(ctx, customerID, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing ledger entries")
	}
	return entries, total, nil
}

func (s *service) List(ctx context.Context, params ListParams) ([]models.LedgerEntry, int64, error) {
	entries, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing ledger entries")
	}
	return entries, total, nil
}

// buildEntry validates the input and produces an unsaved model. Shared with
// the reconciliation path, which persists entries inside its own transaction.
func buildEntry(input RecordEntryInput) (*models.LedgerEntry, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid ledger entry type %q", input.Type))
	}
	if input.Amount.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be non-zero")
	}
	operator := input.Operator
	if operator == "" {
		operator = DefaultOperator
	}
	return &models.LedgerEntry{
		CustomerID: input.CustomerID,
		Type:       input.Type,
		Amount:     input.Amount,
		Note:       input.Note,
		Operator:   operator,
		LegacyID:   input.LegacyID,
	}, nil
}

// BuildEntry exposes entry construction for callers that manage persistence
// themselves, such as the transactional reconciliation path.
func BuildEntry(input RecordEntryInput) (*models.LedgerEntry, error) {
	return buildEntry(input)
}
