package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carewell/carebook-backend/api/responses"
	"github.com/carewell/carebook-backend/internal/bookings"
	"github.com/carewell/carebook-backend/pkg/logger"
	"github.com/carewell/carebook-backend/pkg/pagination"
)

// AdminBookingList lists bookings across all customers, optionally filtered
// by status.
func AdminBookingList(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pagination.FromQuery(r.URL.Query())
		params, err := bookingListParams(r, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, total, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newListResponse(bookings.FromModels(result), total, page))
	}
}

// AdminBookingDetail returns one booking.
func AdminBookingDetail(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := pathUUID(chi.URLParam(r, "bookingId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Get(r.Context(), bookingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, bookings.FromModel(booking))
	}
}

// AdminBookingAdvance moves a booking one step along the workflow. Advancing
// a completed booking returns it unchanged.
func AdminBookingAdvance(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := pathUUID(chi.URLParam(r, "bookingId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.AdvanceStatus(r.Context(), bookingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, bookings.FromModel(booking))
	}
}
