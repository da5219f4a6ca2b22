package controllers

import (
	"net/http"
	"time"

	"github.com/carewell/carebook-backend/api/responses"
	"github.com/carewell/carebook-backend/api/validators"
	"github.com/carewell/carebook-backend/internal/bookings"
	"github.com/carewell/carebook-backend/internal/customers"
	"github.com/carewell/carebook-backend/internal/ledger"
	"github.com/carewell/carebook-backend/pkg/db"
	pkgerrors "github.com/carewell/carebook-backend/pkg/errors"
	"github.com/carewell/carebook-backend/pkg/logger"
	"github.com/carewell/carebook-backend/pkg/pagination"
)

// MyProfile returns the authenticated member's account.
func MyProfile(repo customers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := subjectUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := repo.FindByID(r.Context(), customerID)
		if err != nil {
			if db.IsRecordNotFound(err) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "account not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading account"))
			return
		}

		responses.WriteSuccess(w, customers.FromModel(customer))
	}
}

// MyTransactions lists the member's ledger history, newest first.
func MyTransactions(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := subjectUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page := pagination.FromQuery(r.URL.Query())
		entries, total, err := svc.ListForCustomer(r.Context(), customerID, ledger.ListParams{
			Limit:  page.Limit,
			Offset: page.Offset,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newListResponse(ledger.FromModels(entries), total, page))
	}
}

// MyBookings lists the member's own bookings.
func MyBookings(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := subjectUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page := pagination.FromQuery(r.URL.Query())
		params, err := bookingListParams(r, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, total, err := svc.ListForCustomer(r.Context(), customerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newListResponse(bookings.FromModels(result), total, page))
	}
}

// CreateBookingRequest is the member-facing booking payload.
type CreateBookingRequest struct {
	ServiceType string `json:"service_type" validate:"required"`
	Date        string `json:"date" validate:"required"`
	TimeSlot    string `json:"time_slot" validate:"required"`
	Notes       string `json:"notes" validate:"max=500"`
}

// CreateBooking records a new care-service request for the member.
func CreateBooking(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := subjectUUID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body CreateBookingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		date, err := time.Parse(bookings.DateLayout, body.Date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "date must be YYYY-MM-DD"))
			return
		}

		booking, err := svc.Create(r.Context(), bookings.CreateBookingInput{
			CustomerID:  customerID,
			ServiceType: body.ServiceType,
			Date:        date,
			TimeSlot:    body.TimeSlot,
			Notes:       body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, bookings.FromModel(booking))
	}
}
