package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/carewell/carebook-backend/pkg/db/models"
	"github.com/carewell/carebook-backend/pkg/enums"
	pkgerrors "github.com/carewell/carebook-backend/pkg/errors"
)

type fakeCustomerCounter struct {
	count int64
	err   error
}

func (f *fakeCustomerCounter) Count(ctx context.Context) (int64, error) {
	return f.count, f.err
}

type fakeBookingCounter struct {
	total   int64
	pending int64
	err     error
}

func (f *fakeBookingCounter) Count(ctx context.Context) (int64, error) {
	return f.total, f.err
}

func (f *fakeBookingCounter) CountByStatus(ctx context.Context, status enums.BookingStatus) (int64, error) {
	if status != enums.BookingStatusPending {
		return 0, nil
	}
	return f.pending, f.err
}

type fakeLedgerScanner struct {
	entries []models.LedgerEntry
	err     error
}

func (f *fakeLedgerScanner) ListAll(ctx context.Context) ([]models.LedgerEntry, error) {
	return f.entries, f.err
}

func entry(t enums.LedgerEntryType, amount int64) models.LedgerEntry {
	return models.LedgerEntry{Type: t, Amount: decimal.NewFromInt(amount)}
}

func TestCompute(t *testing.T) {
	svc, err := NewService(
		&fakeCustomerCounter{count: 3},
		&fakeBookingCounter{total: 5, pending: 2},
		&fakeLedgerScanner{entries: []models.LedgerEntry{
			entry(enums.LedgerEntryTypeConsumption, -200),
			entry(enums.LedgerEntryTypeBooking, -150),
			entry(enums.LedgerEntryTypeTopUp, 300),
		}},
	)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	summary, err := svc.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if summary.TotalMembers != 3 {
		t.Fatalf("expected 3 members, got %d", summary.TotalMembers)
	}
	if summary.TotalBookings != 5 {
		t.Fatalf("expected 5 bookings, got %d", summary.TotalBookings)
	}
	if summary.PendingBookings != 2 {
		t.Fatalf("expected 2 pending, got %d", summary.PendingBookings)
	}
	if !summary.TotalRevenue.Equal(decimal.NewFromInt(350)) {
		t.Fatalf("expected revenue 350, got %s", summary.TotalRevenue)
	}
}

func TestComputeEmptyStore(t *testing.T) {
	svc, _ := NewService(&fakeCustomerCounter{}, &fakeBookingCounter{}, &fakeLedgerScanner{})

	summary, err := svc.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if summary.TotalMembers != 0 || summary.TotalBookings != 0 || summary.PendingBookings != 0 {
		t.Fatalf("expected zero counts, got %+v", summary)
	}
	if !summary.TotalRevenue.IsZero() {
		t.Fatalf("expected zero revenue, got %s", summary.TotalRevenue)
	}
}

func TestComputeIgnoresAdjustments(t *testing.T) {
	svc, _ := NewService(&fakeCustomerCounter{}, &fakeBookingCounter{}, &fakeLedgerScanner{
		entries: []models.LedgerEntry{
			entry(enums.LedgerEntryTypeAdjustment, -50),
			entry(enums.LedgerEntryTypeTopUp, 500),
			entry(enums.LedgerEntryTypeConsumption, -75),
		},
	})

	summary, err := svc.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if !summary.TotalRevenue.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("expected revenue 75, got %s", summary.TotalRevenue)
	}
}

func TestComputeStoreError(t *testing.T) {
	expectedErr := errors.New("timeout")
	svc, _ := NewService(&fakeCustomerCounter{err: expectedErr}, &fakeBookingCounter{}, &fakeLedgerScanner{})

	_, err := svc.Compute(context.Background())
	if !errors.Is(err, expectedErr) {
		t.Fatalf("expected store error to bubble up, got %v", err)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
}
