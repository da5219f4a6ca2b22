package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carewell/carebook-backend/api/middleware"
	"github.com/carewell/carebook-backend/api/responses"
	"github.com/carewell/carebook-backend/api/validators"
	"github.com/carewell/carebook-backend/internal/balance"
	"github.com/carewell/carebook-backend/internal/customers"
	"github.com/carewell/carebook-backend/internal/ledger"
	"github.com/carewell/carebook-backend/pkg/db"
	"github.com/carewell/carebook-backend/pkg/db/models"
	pkgerrors "github.com/carewell/carebook-backend/pkg/errors"
	"github.com/carewell/carebook-backend/pkg/logger"
	"github.com/carewell/carebook-backend/pkg/pagination"
)

// AdminCustomerList searches customer accounts by name or phone.
func AdminCustomerList(repo customers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pagination.FromQuery(r.URL.Query())
		result, total, err := repo.List(r.Context(), customers.ListParams{
			Search: r.URL.Query().Get("search"),
			Limit:  page.Limit,
			Offset: page.Offset,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing customers"))
			return
		}

		responses.WriteSuccess(w, newListResponse(customers.FromModels(result), total, page))
	}
}

// AdminCustomerDetail returns one customer account.
func AdminCustomerDetail(repo customers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := pathUUID(chi.URLParam(r, "customerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := repo.FindByID(r.Context(), customerID)
		if err != nil {
			if db.IsRecordNotFound(err) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "customer not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading customer"))
			return
		}

		responses.WriteSuccess(w, customers.FromModel(customer))
	}
}

// AdminCustomerUpdateRequest carries optional profile fields. Absent fields
// stay unchanged.
type AdminCustomerUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Note     *string `json:"note" validate:"omitempty,max=500"`
	IsActive *bool   `json:"is_active"`
}

// AdminCustomerUpdate patches a customer's profile fields.
func AdminCustomerUpdate(repo customers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := pathUUID(chi.URLParam(r, "customerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body AdminCustomerUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := repo.FindByID(r.Context(), customerID); err != nil {
			if db.IsRecordNotFound(err) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "customer not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading customer"))
			return
		}

		if err := repo.UpdateProfile(r.Context(), customerID, customers.UpdateProfileDTO{
			Name:     body.Name,
			Note:     body.Note,
			IsActive: body.IsActive,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating customer"))
			return
		}

		customer, err := repo.FindByID(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reloading customer"))
			return
		}

		responses.WriteSuccess(w, customers.FromModel(customer))
	}
}

// AdminBalanceRequest carries the absolute target values an operator keyed
// in, not deltas. The last submitted write wins.
type AdminBalanceRequest struct {
	Balance decimal.Decimal `json:"balance"`
	Points  int64           `json:"points"`
	Note    string          `json:"note" validate:"max=500"`
}

// AdminCustomerBalance reconciles the cached balance and points against the
// submitted values, appending matching ledger entries in one transaction.
func AdminCustomerBalance(svc balance.Service, operators operatorDirectory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := pathUUID(chi.URLParam(r, "customerId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body AdminBalanceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.Reconcile(r.Context(), balance.ReconcileInput{
			CustomerID: customerID,
			NewBalance: body.Balance,
			NewPoints:  body.Points,
			Note:       body.Note,
			Operator:   operatorName(r, operators),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customers.FromModel(customer))
	}
}

// AdminCustomerLedger lists one customer's ledger entries, newest first.
func AdminCustomerLedger(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := pathUUID(chi.URLParam(r, "customerId"))
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

// operatorDirectory is satisfied by the operators repository.
type operatorDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Operator, error)
}

// operatorName looks up the acting operator's display name for ledger
// attribution. Lookup failures fall back to the ledger default label.
func operatorName(r *http.Request, operators operatorDirectory) string {
	if operators == nil {
		return ""
	}
	subjectID, err := uuid.Parse(middleware.SubjectIDFromContext(r.Context()))
	if err != nil {
		return ""
	}
	operator, err := operators.FindByID(r.Context(), subjectID)
	if err != nil {
		return ""
	}
	return operator.DisplayName
}
