package cron

import (
	"context"
	"fmt"

	"github.com/carewell/carebook-backend/internal/legacy"
	"github.com/carewell/carebook-backend/pkg/logger"
)

// SheetSyncJobName identifies the legacy sheet import.
const SheetSyncJobName = "legacy_sheet_sync"

type sheetImporter interface {
	ImportAll(ctx context.Context) (*legacy.Report, error)
}

// SheetSyncJob pulls members, bookings, and transactions from the legacy
// sheet store into the database. The importer is idempotent, so each run
// only picks up rows it has not seen before.
type SheetSyncJob struct {
	importer sheetImporter
	logg     *logger.Logger
}

// NewSheetSyncJob wires the sync job.
func NewSheetSyncJob(importer sheetImporter, logg *logger.Logger) (*SheetSyncJob, error) {
	if importer == nil {
		return nil, fmt.Errorf("importer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &SheetSyncJob{importer: importer, logg: logg}, nil
}

// Name implements Job.
func (j *SheetSyncJob) Name() string { return SheetSyncJobName }

// Run implements Job.
func (j *SheetSyncJob) Run(ctx context.Context) error {
	report, err := j.importer.ImportAll(ctx)
	if err != nil {
		return fmt.Errorf("legacy import: %w", err)
	}

	fields := map[string]any{
		"members_imported":      report.MembersImported,
		"bookings_imported":     report.BookingsImported,
		"transactions_imported": report.TransactionsImported,
		"rows_skipped":          report.MembersSkipped + report.BookingsSkipped + report.TransactionsSkipped,
		"row_errors":            report.RowErrors,
	}
	j.logg.Info(j.logg.WithFields(ctx, fields), "legacy sheet sync completed")
	return nil
}
