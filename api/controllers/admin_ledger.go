package controllers

import (
	"net/http"

	"github.com/carewell/carebook-backend/api/responses"
	"github.com/carewell/carebook-backend/internal/ledger"
	"github.com/carewell/carebook-backend/pkg/logger"
	"github.com/carewell/carebook-backend/pkg/pagination"
)

// AdminLedgerList pages through the full transaction ledger, newest first.
func AdminLedgerList(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pagination.FromQuery(r.URL.Query())
		entries, total, err := svc.List(r.Context(), ledger.ListParams{
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
