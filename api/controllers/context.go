package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/homio-app/homio-backend/api/middleware"
	pkgerrors "github.com/homio-app/homio-backend/pkg/errors"
)

// callerID returns the authenticated user set by middleware.Auth.
func callerID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user context")
	}
	return id, nil
}
