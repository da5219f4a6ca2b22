package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/carewell/carebook-backend/internal/bookings"
	"github.com/carewell/carebook-backend/pkg/db/models"
	"github.com/carewell/carebook-backend/pkg/enums"
	pkgerrors "github.com/carewell/carebook-backend/pkg/errors"
)

type stubBookingService struct {
	booking *models.Booking
	list    []models.Booking
	err     error
}

func (s *stubBookingService) Create(ctx context.Context, input bookings.CreateBookingInput) (*models.Booking, error) {
	return s.booking, s.err
}

func (s *stubBookingService) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.booking, s.err
}

func (s *stubBookingService) AdvanceStatus(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return s.booking, s.err
}

func (s *stubBookingService) ListForCustomer(ctx context.Context, customerID uuid.UUID, params bookings.ListParams) ([]models.Booking, int64, error) {
	return s.list, int64(len(s.list)), s.err
}

func (s *stubBookingService) List(ctx context.Context, params bookings.ListParams) ([]models.Booking, int64, error) {
	return s.list, int64(len(s.list)), s.err
}

func newBookingRouter(svc bookings.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/admin/v1/bookings", AdminBookingList(svc, nil))
	r.Post("/api/admin/v1/bookings/{bookingId}/advance", AdminBookingAdvance(svc, nil))
	return r
}

func TestAdminBookingAdvance(t *testing.T) {
	booking := &models.Booking{
		ID:          uuid.New(),
		CustomerID:  uuid.New(),
		ServiceType: "home_visit",
		Date:        time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "09:00-10:00",
		Status:      enums.BookingStatusConfirmed,
	}
	router := newBookingRouter(&stubBookingService{booking: booking})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/bookings/"+booking.ID.String()+"/advance", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data bookings.BookingDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != enums.BookingStatusConfirmed {
		t.Fatalf("unexpected status %q", envelope.Data.Status)
	}
	if envelope.Data.Date != "2026-03-14" {
		t.Fatalf("unexpected date %q", envelope.Data.Date)
	}
}

func TestAdminBookingAdvanceRejectsBadID(t *testing.T) {
	router := newBookingRouter(&stubBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/bookings/not-a-uuid/advance", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminBookingAdvancePropagatesStateConflict(t *testing.T) {
	svc := &stubBookingService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "no transition")}
	router := newBookingRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/bookings/"+uuid.NewString()+"/advance", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestAdminBookingListRejectsUnknownStatusFilter(t *testing.T) {
	router := newBookingRouter(&stubBookingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/bookings?status=cancelled", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminBookingListFiltersByStatus(t *testing.T) {
	booking := models.Booking{
		ID:         uuid.New(),
		CustomerID: uuid.New(),
		Date:       time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Status:     enums.BookingStatusPending,
	}
	router := newBookingRouter(&stubBookingService{list: []models.Booking{booking}})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/bookings?status=pending&limit=10", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Items []bookings.BookingDTO `json:"items"`
			Total int64                 `json:"total"`
			Limit int                   `json:"limit"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != 1 || len(envelope.Data.Items) != 1 {
		t.Fatalf("unexpected listing %+v", envelope.Data)
	}
	if envelope.Data.Limit != 10 {
		t.Fatalf("expected limit 10 got %d", envelope.Data.Limit)
	}
}
