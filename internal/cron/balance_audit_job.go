package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/carewell/carebook-backend/internal/customers"
	"github.com/carewell/carebook-backend/pkg/db/models"
	"github.com/carewell/carebook-backend/pkg/logger"
	"github.com/carewell/carebook-backend/pkg/metrics"
)

// BalanceAuditJobName identifies the ledger drift audit.
const BalanceAuditJobName = "balance_audit"

type customerSource interface {
	List(ctx context.Context, params customers.ListParams) ([]models.Customer, int64, error)
}

type entrySource interface {
	ListAll(ctx context.Context) ([]models.LedgerEntry, error)
}

// BalanceAuditJob cross-checks each customer's cached balance and points
// against their ledger history. Every balance and points change appends an
// entry carrying its delta, so per customer the entry amounts must sum to
// cached balance + cached points. The job only detects and reports drift
// (out-of-band edits, botched imports); it never mutates.
type BalanceAuditJob struct {
	customers customerSource
	entries   entrySource
	logg      *logger.Logger
	metrics   *metrics.JobMetrics
}

// NewBalanceAuditJob wires the audit job.
func NewBalanceAuditJob(customerSource customerSource, entrySource entrySource, logg *logger.Logger, jobMetrics *metrics.JobMetrics) (*BalanceAuditJob, error) {
	if customerSource == nil {
		return nil, fmt.Errorf("customer source required")
	}
	if entrySource == nil {
		return nil, fmt.Errorf("entry source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &BalanceAuditJob{
		customers: customerSource,
		entries:   entrySource,
		logg:      logg,
		metrics:   jobMetrics,
	}, nil
}

// Name implements Job.
func (j *BalanceAuditJob) Name() string { return BalanceAuditJobName }

// Run implements Job.
func (j *BalanceAuditJob) Run(ctx context.Context) error {
	allCustomers, _, err := j.customers.List(ctx, customers.ListParams{})
	if err != nil {
		return fmt.Errorf("listing customers: %w", err)
	}

	allEntries, err := j.entries.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("scanning ledger: %w", err)
	}

	sums := make(map[uuid.UUID]decimal.Decimal, len(allCustomers))
	for _, entry := range allEntries {
		sums[entry.CustomerID] = sums[entry.CustomerID].Add(entry.Amount)
	}

	var drift error
	driftCount := 0
	for _, customer := range allCustomers {
		expected := customer.Balance.Add(decimal.NewFromInt(customer.Points))
		actual := sums[customer.ID]
		if expected.Equal(actual) {
			continue
		}
		driftCount++
		drift = multierr.Append(drift, fmt.Errorf(
			"customer %s: cached balance+points %s, ledger sum %s",
			customer.ID, expected, actual,
		))
	}

	j.metrics.SetBalanceDrift("ledger", driftCount)

	if drift != nil {
		fields := map[string]any{"drift_accounts": driftCount, "audited": len(allCustomers)}
		j.logg.Error(j.logg.WithFields(ctx, fields), "balance audit found drift", drift)
		return nil
	}

	j.logg.Info(j.logg.WithField(ctx, "audited", len(allCustomers)), "balance audit clean")
	return nil
}
