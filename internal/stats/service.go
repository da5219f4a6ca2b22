package stats

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/carewell/carebook-backend/pkg/db/models"
	"github.com/carewell/carebook-backend/pkg/enums"
	pkgerrors "github.com/carewell/carebook-backend/pkg/errors"
)

// CustomerCounter is satisfied by the customers repository.
type CustomerCounter interface {
	Count(ctx context.Context) (int64, error)
}

// BookingCounter is satisfied by the bookings repository.
type BookingCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status enums.BookingStatus) (int64, error)
}

// LedgerScanner is satisfied by the ledger repository.
type LedgerScanner interface {
	ListAll(ctx context.Context) ([]models.LedgerEntry, error)
}

// Summary aggregates the admin dashboard numbers. Revenue is the sum of
// absolute amounts over consumption and booking entries; top-ups and
// adjustments never count.
type Summary struct {
	TotalMembers    int64           `json:"total_members"`
	TotalBookings   int64           `json:"total_bookings"`
	PendingBookings int64           `json:"pending_bookings"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
}

// Service computes aggregate statistics by scanning the stores.
type Service interface {
	Compute(ctx context.Context) (*Summary, error)
}

type service struct {
	customers CustomerCounter
	bookings  BookingCounter
	entries   LedgerScanner
}

// NewService wires a stats service over the store interfaces.
func NewService(customers CustomerCounter, bookings BookingCounter, entries LedgerScanner) (Service, error) {
	if customers == nil {
		return nil, fmt.Errorf("customer counter required")
	}
	if bookings == nil {
		return nil, fmt.Errorf("booking counter required")
	}
	if entries == nil {
		return nil, fmt.Errorf("ledger scanner required")
	}
	return &service{customers: customers, bookings: bookings, entries: entries}, nil
}

func (s *service) Compute(ctx context.Context) (*Summary, error) {
	totalMembers, err := s.customers.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting customers")
	}

	totalBookings, err := s.bookings.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting bookings")
	}

	pendingBookings, err := s.bookings.CountByStatus(ctx, enums.BookingStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting pending bookings")
	}

	entries, err := s.entries.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scanning ledger")
	}

	revenue := decimal.Zero
	for _, entry := range entries {
		if entry.Type.CountsAsRevenue() {
			revenue = revenue.Add(entry.Amount.Abs())
		}
	}

	return &Summary{
		TotalMembers:    totalMembers,
		TotalBookings:   totalBookings,
		PendingBookings: pendingBookings,
		TotalRevenue:    revenue,
	}, nil
}
