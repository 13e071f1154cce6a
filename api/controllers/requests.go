package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homio-app/homio-backend/api/responses"
	"github.com/homio-app/homio-backend/internal/connections"
	pkgerrors "github.com/homio-app/homio-backend/pkg/errors"
	"github.com/homio-app/homio-backend/pkg/logger"
)

// RequestSend records the caller's decision about another user. Path
// parameters are passed through raw; the service validates them in order.
func RequestSend(svc connections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "connection service unavailable"))
			return
		}
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.SendRequest(r.Context(), connections.SendRequestInput{
			FromUserID: userID,
			ToUserID:   chi.URLParam(r, "toUserId"),
			Status:     chi.URLParam(r, "status"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, request)
	}
}

func RequestReview(svc connections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "connection service unavailable"))
			return
		}
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		request, err := svc.ReviewRequest(r.Context(), connections.ReviewRequestInput{
			ReviewerID: userID,
			RequestID:  chi.URLParam(r, "requestId"),
			Decision:   chi.URLParam(r, "decision"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, request)
	}
}

// RequestsReceived lists pending requests addressed to the caller, newest first.
func RequestsReceived(svc connections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "connection service unavailable"))
			return
		}
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		received, err := svc.ReceivedPending(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, received)
	}
}

func ConnectionsList(svc connections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "connection service unavailable"))
			return
		}
		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Connections(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
