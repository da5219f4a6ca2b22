package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carewell/carebook-backend/pkg/db/models"
	"github.com/carewell/carebook-backend/pkg/enums"
	pkgerrors "github.com/carewell/carebook-backend/pkg/errors"
)

type fakeRepository struct {
	createFn       func(ctx context.Context, booking *models.Booking) error
	findByIDFn     func(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, status enums.BookingStatus) error
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, booking *models.Booking) error {
	if f.createFn != nil {
		return f.createFn(ctx, booking)
	}
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByLegacyID(ctx context.Context, legacyID string) (*models.Booking, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListByCustomerID(ctx context.Context, customerID uuid.UUID, params ListParams) ([]models.Booking, int64, error) {
	return nil, 0, nil
}

func (f *fakeRepository) List(ctx context.Context, params ListParams) ([]models.Booking, int64, error) {
	return nil, 0, nil
}

func (f *fakeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (f *fakeRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

func (f *fakeRepository) CountByStatus(ctx context.Context, status enums.BookingStatus) (int64, error) {
	return 0, nil
}

func TestService_CreateDefaultsToPending(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var created *models.Booking
	repo.createFn = func(ctx context.Context, booking *models.Booking) error {
		created = booking
		return nil
	}

	input := CreateBookingInput{
		CustomerID:  uuid.New(),
		ServiceType: "home_visit",
		Date:        time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "09:00-11:00",
		Notes:       "second floor, no elevator",
	}
	got, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created == nil || got != created {
		t.Fatal("expected booking to be created and returned")
	}
	if created.Status != enums.BookingStatusPending {
		t.Fatalf("expected pending status, got %q", created.Status)
	}
	if created.ServiceType != input.ServiceType || created.TimeSlot != input.TimeSlot {
		t.Fatalf("unexpected booking data: %+v", created)
	}
}

func TestService_CreateValidation(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo)

	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		input CreateBookingInput
	}{
		{"missing customer", CreateBookingInput{ServiceType: "home_visit", Date: date, TimeSlot: "09:00"}},
		{"missing service type", CreateBookingInput{CustomerID: uuid.New(), Date: date, TimeSlot: "09:00"}},
		{"missing date", CreateBookingInput{CustomerID: uuid.New(), ServiceType: "home_visit", TimeSlot: "09:00"}},
		{"missing time slot", CreateBookingInput{CustomerID: uuid.New(), ServiceType: "home_visit", Date: date}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestService_AdvanceStatusChain(t *testing.T) {
	id := uuid.New()
	stored := &models.Booking{ID: id, Status: enums.BookingStatusPending}

	repo := &fakeRepository{}
	repo.findByIDFn = func(ctx context.Context, gotID uuid.UUID) (*models.Booking, error) {
		snapshot := *stored
		return &snapshot, nil
	}
	repo.updateStatusFn = func(ctx context.Context, gotID uuid.UUID, status enums.BookingStatus) error {
		stored.Status = status
		return nil
	}
	svc, _ := NewService(repo)

	want := []enums.BookingStatus{
		enums.BookingStatusConfirmed,
		enums.BookingStatusCompleted,
		enums.BookingStatusCompleted, // idempotent once terminal
	}
	for i, expected := range want {
		got, err := svc.AdvanceStatus(context.Background(), id)
		if err != nil {
			t.Fatalf("step %d: AdvanceStatus error: %v", i, err)
		}
		if got.Status != expected {
			t.Fatalf("step %d: expected %q, got %q", i, expected, got.Status)
		}
	}
	if stored.Status != enums.BookingStatusCompleted {
		t.Fatalf("expected stored status completed, got %q", stored.Status)
	}
}

func TestService_AdvanceStatusTreatsEmptyAsPending(t *testing.T) {
	id := uuid.New()
	repo := &fakeRepository{}
	repo.findByIDFn = func(ctx context.Context, gotID uuid.UUID) (*models.Booking, error) {
		return &models.Booking{ID: id, Status: ""}, nil
	}
	var updated enums.BookingStatus
	repo.updateStatusFn = func(ctx context.Context, gotID uuid.UUID, status enums.BookingStatus) error {
		updated = status
		return nil
	}
	svc, _ := NewService(repo)

	got, err := svc.AdvanceStatus(context.Background(), id)
	if err != nil {
		t.Fatalf("AdvanceStatus error: %v", err)
	}
	if got.Status != enums.BookingStatusConfirmed || updated != enums.BookingStatusConfirmed {
		t.Fatalf("expected confirmed, got %q (stored %q)", got.Status, updated)
	}
}

func TestService_AdvanceStatusCompletedSkipsWrite(t *testing.T) {
	id := uuid.New()
	repo := &fakeRepository{}
	repo.findByIDFn = func(ctx context.Context, gotID uuid.UUID) (*models.Booking, error) {
		return &models.Booking{ID: id, Status: enums.BookingStatusCompleted}, nil
	}
	repo.updateStatusFn = func(ctx context.Context, gotID uuid.UUID, status enums.BookingStatus) error {
		t.Fatal("terminal booking must not be written")
		return nil
	}
	svc, _ := NewService(repo)

	got, err := svc.AdvanceStatus(context.Background(), id)
	if err != nil {
		t.Fatalf("AdvanceStatus error: %v", err)
	}
	if got.Status != enums.BookingStatusCompleted {
		t.Fatalf("expected completed, got %q", got.Status)
	}
}

func TestService_AdvanceStatusUnknownStatus(t *testing.T) {
	id := uuid.New()
	repo := &fakeRepository{}
	repo.findByIDFn = func(ctx context.Context, gotID uuid.UUID) (*models.Booking, error) {
		return &models.Booking{ID: id, Status: enums.BookingStatus("cancelled")}, nil
	}
	svc, _ := NewService(repo)

	_, err := svc.AdvanceStatus(context.Background(), id)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestService_AdvanceStatusNotFound(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo)

	_, err := svc.AdvanceStatus(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_AdvanceStatusRepoError(t *testing.T) {
	id := uuid.New()
	expectedErr := errors.New("connection reset")
	repo := &fakeRepository{}
	repo.findByIDFn = func(ctx context.Context, gotID uuid.UUID) (*models.Booking, error) {
		return &models.Booking{ID: id, Status: enums.BookingStatusPending}, nil
	}
	repo.updateStatusFn = func(ctx context.Context, gotID uuid.UUID, status enums.BookingStatus) error {
		return expectedErr
	}
	svc, _ := NewService(repo)

	_, err := svc.AdvanceStatus(context.Background(), id)
	if !errors.Is(err, expectedErr) {
		t.Fatalf("expected repo error to bubble up, got %v", err)
	}
}
