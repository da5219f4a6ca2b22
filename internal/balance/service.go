package balance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carewell/carebook-backend/internal/customers"
	"github.com/carewell/carebook-backend/internal/ledger"
	"github.com/carewell/carebook-backend/pkg/db"
	"github.com/carewell/carebook-backend/pkg/db/models"
	"github.com/carewell/carebook-backend/pkg/enums"
	pkgerrors "github.com/carewell/carebook-backend/pkg/errors"
)

// TxRunner executes a function inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service reconciles a customer's cached balance and points against
// admin-entered target values, appending the matching ledger entries.
type Service interface {
	Reconcile(ctx context.Context, input ReconcileInput) (*models.Customer, error)
}

// ReconcileInput carries the target state an operator keyed in. NewBalance
// and NewPoints are absolute values, not deltas.
type ReconcileInput struct {
	CustomerID uuid.UUID
	NewBalance decimal.Decimal
	NewPoints  int64
	Note       string
	Operator   string
}

type service struct {
	tx        TxRunner
	customers customers.Repository
	entries   ledger.Repository
}

// NewService wires the reconciliation service.
func NewService(tx TxRunner, customerRepo customers.Repository, ledgerRepo ledger.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if customerRepo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if ledgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{tx: tx, customers: customerRepo, entries: ledgerRepo}, nil
}

// Reconcile loads the customer, computes the balance and points deltas
// against the stored values, and persists the new cached values together
// with the delta-matching ledger entries in a single transaction. When both
// deltas are zero the customer row is still written and no entries appear.
func (s *service) Reconcile(ctx context.Context, input ReconcileInput) (*models.Customer, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	customer, err := s.customers.FindByID(ctx, input.CustomerID)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading customer")
	}

	balanceDelta := input.NewBalance.Sub(customer.Balance)
	pointsDelta := input.NewPoints - customer.Points

	newEntries, err := s.buildEntries(input, balanceDelta, pointsDelta)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.customers.WithTx(tx).UpdateBalancePoints(ctx, input.CustomerID, input.NewBalance, input.NewPoints); err != nil {
			return fmt.Errorf("updating customer: %w", err)
		}
		entryRepo := s.entries.WithTx(tx)
		for _, entry := range newEntries {
			if err := entryRepo.Create(ctx, entry); err != nil {
				return fmt.Errorf("appending ledger entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reconciling balance")
	}

	customer.Balance = input.NewBalance
	customer.Points = input.NewPoints
	return customer, nil
}

// buildEntries produces at most two entries: one for the balance delta, one
// for the points delta. The sum of entry amounts per dimension equals the
// dimension's delta exactly.
func (s *service) buildEntries(input ReconcileInput, balanceDelta decimal.Decimal, pointsDelta int64) ([]*models.LedgerEntry, error) {
	var result []*models.LedgerEntry

	if !balanceDelta.IsZero() {
		entryType := enums.LedgerEntryTypeTopUp
		if balanceDelta.IsNegative() {
			entryType = enums.LedgerEntryTypeAdjustment
		}
		note := input.Note
		if note == "" {
			note = fmt.Sprintf("balance %s", signedDecimal(balanceDelta))
		}
		entry, err := ledger.BuildEntry(ledger.RecordEntryInput{
			CustomerID: input.CustomerID,
			Type:       entryType,
			Amount:     balanceDelta,
			Note:       note,
			Operator:   input.Operator,
		})
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}

	if pointsDelta != 0 {
		note := input.Note
		if note == "" {
			note = fmt.Sprintf("points %+d", pointsDelta)
		}
		entry, err := ledger.BuildEntry(ledger.RecordEntryInput{
			CustomerID: input.CustomerID,
			Type:       enums.LedgerEntryTypeAdjustment,
			Amount:     decimal.NewFromInt(pointsDelta),
			Note:       note,
			Operator:   input.Operator,
		})
		if err != nil {
			return nil, err
		}
		result = append(result, entry)
	}

	return result, nil
}

func signedDecimal(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2)
	}
	return "+" + d.StringFixed(2)
}
