package controllers

import (
	"net/http"

	"github.com/carewell/carebook-backend/api/responses"
	"github.com/carewell/carebook-backend/internal/stats"
	pkgerrors "github.com/carewell/carebook-backend/pkg/errors"
	"github.com/carewell/carebook-backend/pkg/logger"
)

// AdminStats serves the dashboard summary numbers.
func AdminStats(svc stats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Compute(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
