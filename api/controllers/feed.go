package controllers

import (
	"net/http"

	"github.com/homio-app/homio-backend/api/responses"
	"github.com/homio-app/homio-backend/api/validators"
	"github.com/homio-app/homio-backend/internal/feed"
	pkgerrors "github.com/homio-app/homio-backend/pkg/errors"
	"github.com/homio-app/homio-backend/pkg/logger"
	"github.com/homio-app/homio-backend/pkg/pagination"
)

// Feed pages through users the caller has never interacted with. Bad page or
// limit values fall back to defaults inside the generator.
func Feed(gen feed.Generator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gen == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "feed unavailable"))
			return
		}
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := gen.Feed(r.Context(), userID, pagination.Params{
			Page:     validators.QueryInt(r, "page", pagination.DefaultPage),
			PageSize: validators.QueryInt(r, "limit", 0),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
