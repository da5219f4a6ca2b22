package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carewell/carebook-backend/pkg/db"
	"github.com/carewell/carebook-backend/pkg/db/models"
	"github.com/carewell/carebook-backend/pkg/enums"
	pkgerrors "github.com/carewell/carebook-backend/pkg/errors"
)

// Service defines booking operations for the member and admin surfaces.
type Service interface {
	Create(ctx context.Context, input CreateBookingInput) (*models.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	AdvanceStatus(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, params ListParams) ([]models.Booking, int64, error)
	List(ctx context.Context, params ListParams) ([]models.Booking, int64, error)
}

// CreateBookingInput captures a member's care-service request.
type CreateBookingInput struct {
	CustomerID  uuid.UUID
	ServiceType string
	Date        time.Time
	TimeSlot    string
	Notes       string
}

type service struct {
	repo Repository
}

// NewService wires a booking service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if input.ServiceType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service type is required")
	}
	if input.Date.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date is required")
	}
	if input.TimeSlot == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "time slot is required")
	}

	booking := &models.Booking{
		CustomerID:  input.CustomerID,
		ServiceType: input.ServiceType,
		Date:        input.Date,
		TimeSlot:    input.TimeSlot,
		Notes:       input.Notes,
		Status:      enums.BookingStatusPending,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating booking")
	}
	return booking, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id is required")
	}
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	return booking, nil
}

// AdvanceStatus moves a booking one step along
// pending -> confirmed -> completed. Advancing a completed booking is an
// idempotent no-op; no other transitions exist.
func (s *service) AdvanceStatus(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id is required")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}

	if booking.Status.IsTerminal() {
		return booking, nil
	}

	next, err := nextStatus(booking.Status)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating booking status")
	}
	booking.Status = next
	return booking, nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, params ListParams) ([]models.Booking, int64, error) {
	if customerID == uuid.Nil {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	result, total, err := s.repo.ListByCustomerID(ctx, customerID, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing bookings")
	}
	return result, total, nil
}

func (s *service) List(ctx context.Context, params ListParams) ([]models.Booking, int64, error) {
	result, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing bookings")
	}
	return result, total, nil
}

// nextStatus is only consulted for non-terminal statuses; terminal bookings
// short-circuit in AdvanceStatus via IsTerminal.
func nextStatus(current enums.BookingStatus) (enums.BookingStatus, error) {
	switch current {
	case enums.BookingStatusPending, "":
		return enums.BookingStatusConfirmed, nil
	case enums.BookingStatusConfirmed:
		return enums.BookingStatusCompleted, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("no transition from status %q", current))
	}
}

func mapLookupError(err error) error {
	if db.IsRecordNotFound(err) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "booking not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading booking")
}
