package legacy

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/carewell/carebook-backend/internal/bookings"
	"github.com/carewell/carebook-backend/internal/customers"
	"github.com/carewell/carebook-backend/internal/ledger"
	"github.com/carewell/carebook-backend/pkg/db"
	"github.com/carewell/carebook-backend/pkg/db/models"
	"github.com/carewell/carebook-backend/pkg/enums"
	"github.com/carewell/carebook-backend/pkg/logger"
	"github.com/carewell/carebook-backend/pkg/sheetstore"
)

const dateLayout = "2006-01-02"

// RowSource pages through a legacy sheet table. Satisfied by the
// sheetstore client.
type RowSource interface {
	ListRows(ctx context.Context, table string, cursor string) ([]sheetstore.Row, string, error)
}

// Report summarizes one import run.
type Report struct {
	MembersImported      int
	MembersSkipped       int
	BookingsImported     int
	BookingsSkipped      int
	TransactionsImported int
	TransactionsSkipped  int
	RowErrors            int
}

// Importer copies members, bookings, and transactions out of the legacy
// sheet store. Runs are idempotent: rows already present (matched by their
// legacy id) are skipped, so partial failures can simply be rerun.
type Importer struct {
	source    RowSource
	customers customers.Repository
	bookings  bookings.Repository
	entries   ledger.Repository
	logg      *logger.Logger
}

// NewImporter wires the legacy importer.
func NewImporter(source RowSource, customerRepo customers.Repository, bookingRepo bookings.Repository, ledgerRepo ledger.Repository, logg *logger.Logger) (*Importer, error) {
	if source == nil {
		return nil, fmt.Errorf("row source required")
	}
	if customerRepo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if bookingRepo == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	if ledgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Importer{
		source:    source,
		customers: customerRepo,
		bookings:  bookingRepo,
		entries:   ledgerRepo,
		logg:      logg,
	}, nil
}

// ImportAll runs the member, booking, and transaction imports in dependency
// order. Row-level failures are collected and do not abort the run; a
// failure to read a table does.
func (i *Importer) ImportAll(ctx context.Context) (*Report, error) {
	report := &Report{}

	if err := i.forEachRow(ctx, sheetstore.TableMembers, func(row sheetstore.Row) error {
		return i.importMember(ctx, row, report)
	}, report); err != nil {
		return report, err
	}

	if err := i.forEachRow(ctx, sheetstore.TableBookings, func(row sheetstore.Row) error {
		return i.importBooking(ctx, row, report)
	}, report); err != nil {
		return report, err
	}

	if err := i.forEachRow(ctx, sheetstore.TableTransactions, func(row sheetstore.Row) error {
		return i.importTransaction(ctx, row, report)
	}, report); err != nil {
		return report, err
	}

	return report, nil
}

func (i *Importer) forEachRow(ctx context.Context, table string, handle func(row sheetstore.Row) error, report *Report) error {
	var rowErrs error
	cursor := ""
	for {
		rows, next, err := i.source.ListRows(ctx, table, cursor)
		if err != nil {
			return fmt.Errorf("reading %s: %w", table, err)
		}
		for _, row := range rows {
			if err := handle(row); err != nil {
				report.RowErrors++
				rowErrs = multierr.Append(rowErrs, fmt.Errorf("%s row %s: %w", table, row.ID, err))
			}
		}
		if next == "" {
			break
		}
		cursor = next
	}
	if rowErrs != nil {
		fields := map[string]any{"table": table, "failed_rows": len(multierr.Errors(rowErrs))}
		i.logg.Error(i.logg.WithFields(ctx, fields), "legacy import rows failed", rowErrs)
	}
	return nil
}

func (i *Importer) importMember(ctx context.Context, row sheetstore.Row, report *Report) error {
	if _, err := i.customers.FindByLegacyID(ctx, row.ID); err == nil {
		report.MembersSkipped++
		return nil
	} else if !db.IsRecordNotFound(err) {
		return err
	}

	phone := row.Fields["phone"]
	name := row.Fields["name"]
	if phone == "" || name == "" {
		return fmt.Errorf("member row missing phone or name")
	}

	balance := decimal.Zero
	if raw := row.Fields["balance"]; raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid balance %q: %w", raw, err)
		}
		balance = parsed
	}

	var points int64
	if raw := row.Fields["points"]; raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid points %q: %w", raw, err)
		}
		points = parsed
	}

	if _, err := i.customers.Create(ctx, customers.CreateCustomerDTO{
		Phone:    phone,
		Name:     name,
		Note:     row.Fields["note"],
		LegacyID: row.ID,
		Balance:  balance,
		Points:   points,
	}); err != nil {
		return err
	}
	report.MembersImported++
	return nil
}

func (i *Importer) importBooking(ctx context.Context, row sheetstore.Row, report *Report) error {
	if _, err := i.bookings.FindByLegacyID(ctx, row.ID); err == nil {
		report.BookingsSkipped++
		return nil
	} else if !db.IsRecordNotFound(err) {
		return err
	}

	memberID := row.Fields["member_id"]
	if memberID == "" {
		return fmt.Errorf("booking row missing member_id")
	}
	customer, err := i.customers.FindByLegacyID(ctx, memberID)
	if err != nil {
		return fmt.Errorf("resolving member %q: %w", memberID, err)
	}

	status, err := enums.ParseBookingStatus(row.Fields["status"])
	if err != nil {
		return err
	}

	date, err := time.Parse(dateLayout, row.Fields["date"])
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", row.Fields["date"], err)
	}

	if err := i.bookings.Create(ctx, &models.Booking{
		CustomerID:  customer.ID,
		ServiceType: row.Fields["service_type"],
		Date:        date,
		TimeSlot:    row.Fields["time_slot"],
		Notes:       row.Fields["notes"],
		Status:      status,
		LegacyID:    row.ID,
	}); err != nil {
		return err
	}
	report.BookingsImported++
	return nil
}

func (i *Importer) importTransaction(ctx context.Context, row sheetstore.Row, report *Report) error {
	if _, err := i.entries.FindByLegacyID(ctx, row.ID); err == nil {
		report.TransactionsSkipped++
		return nil
	} else if !db.IsRecordNotFound(err) {
		return err
	}

	memberID := row.Fields["member_id"]
	if memberID == "" {
		return fmt.Errorf("transaction row missing member_id")
	}
	customer, err := i.customers.FindByLegacyID(ctx, memberID)
	if err != nil {
		return fmt.Errorf("resolving member %q: %w", memberID, err)
	}

	entryType, err := enums.ParseLedgerEntryType(row.Fields["type"])
	if err != nil {
		return err
	}

	amount, err := decimal.NewFromString(row.Fields["amount"])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", row.Fields["amount"], err)
	}

	entry, err := ledger.BuildEntry(ledger.RecordEntryInput{
		CustomerID: customer.ID,
		Type:       entryType,
		Amount:     amount,
		Note:       row.Fields["note"],
		Operator:   row.Fields["operator"],
		LegacyID:   row.ID,
	})
	if err != nil {
		return err
	}
	if err := i.entries.Create(ctx, entry); err != nil {
		return err
	}
	report.TransactionsImported++
	return nil
}
