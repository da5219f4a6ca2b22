package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/carewell/carebook-backend/api/middleware"
	"github.com/carewell/carebook-backend/internal/bookings"
	"github.com/carewell/carebook-backend/pkg/enums"
	pkgerrors "github.com/carewell/carebook-backend/pkg/errors"
	"github.com/carewell/carebook-backend/pkg/pagination"
)

// listResponse is the common shape for paged collections.
type listResponse struct {
	Items  any   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

func newListResponse(items any, total int64, page pagination.Params) listResponse {
	return listResponse{
		Items:  items,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
}

// subjectUUID resolves the authenticated subject id seeded by the auth
// middleware.
func subjectUUID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(middleware.SubjectIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "missing subject")
	}
	return id, nil
}

// pathUUID parses a UUID route parameter.
func pathUUID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id")
	}
	return id, nil
}

// bookingListParams combines paging with the optional status filter.
func bookingListParams(r *http.Request, page pagination.Params) (bookings.ListParams, error) {
	params := bookings.ListParams{
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := enums.ParseBookingStatus(raw)
		if err != nil {
			return bookings.ListParams{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		params.Status = status
	}
	return params, nil
}
