package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homio-app/homio-backend/api/middleware"
	"github.com/homio-app/homio-backend/internal/connections"
	"github.com/homio-app/homio-backend/internal/users"
	"github.com/homio-app/homio-backend/pkg/enums"
	pkgerrors "github.com/homio-app/homio-backend/pkg/errors"
)

type stubConnectionService struct {
	sent     connections.SendRequestInput
	reviewed connections.ReviewRequestInput
	listedBy uuid.UUID
	err      error
	request  *connections.RequestDTO
	list     []users.UserSummary
	received []connections.ReceivedRequestDTO
}

func (s *stubConnectionService) SendRequest(ctx context.Context, input connections.SendRequestInput) (*connections.RequestDTO, error) {
	s.sent = input
	if s.err != nil {
		return nil, s.err
	}
	return s.request, nil
}

func (s *stubConnectionService) ReviewRequest(ctx context.Context, input connections.ReviewRequestInput) (*connections.RequestDTO, error) {
	s.reviewed = input
	if s.err != nil {
		return nil, s.err
	}
	return s.request, nil
}

func (s *stubConnectionService) Connections(ctx context.Context, userID uuid.UUID) ([]users.UserSummary, error) {
	s.listedBy = userID
	return s.list, s.err
}

func (s *stubConnectionService) ReceivedPending(ctx context.Context, userID uuid.UUID) ([]connections.ReceivedRequestDTO, error) {
	s.listedBy = userID
	return s.received, s.err
}

// authedRequest builds a request carrying the caller id and chi path params.
func authedRequest(method, target string, userID uuid.UUID, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != uuid.Nil {
		ctx = middleware.WithUserID(ctx, userID.String())
	}
	return req.WithContext(ctx)
}

func TestRequestSendPassesPathParams(t *testing.T) {
	caller := uuid.New()
	target := uuid.New()
	svc := &stubConnectionService{request: &connections.RequestDTO{
		ID: uuid.New(), FromUserID: caller, ToUserID: target, Status: enums.ConnectionStatusInterested,
	}}

	req := authedRequest(http.MethodPost, "/", caller, map[string]string{"status": "interested", "toUserId": target.String()})
	resp := httptest.NewRecorder()
	RequestSend(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, caller, svc.sent.FromUserID)
	assert.Equal(t, target.String(), svc.sent.ToUserID)
	assert.Equal(t, "interested", svc.sent.Status)
	assert.Contains(t, resp.Body.String(), `"status":"interested"`)
}

func TestRequestSendMapsDomainErrors(t *testing.T) {
	cases := []struct {
		code   pkgerrors.Code
		status int
	}{
		{pkgerrors.CodeInvalidStatus, http.StatusBadRequest},
		{pkgerrors.CodeSelfRequestNotAllowed, http.StatusBadRequest},
		{pkgerrors.CodeTargetNotFound, http.StatusNotFound},
		{pkgerrors.CodeDuplicateRequest, http.StatusConflict},
		{pkgerrors.CodeStoreUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			svc := &stubConnectionService{err: pkgerrors.New(tc.code, "x")}
			req := authedRequest(http.MethodPost, "/", uuid.New(), map[string]string{"status": "liked", "toUserId": "abc"})
			resp := httptest.NewRecorder()
			RequestSend(svc, nil).ServeHTTP(resp, req)

			require.Equal(t, tc.status, resp.Code)
			assert.Contains(t, resp.Body.String(), string(tc.code))
		})
	}
}

func TestRequestSendRequiresCaller(t *testing.T) {
	svc := &stubConnectionService{}
	req := authedRequest(http.MethodPost, "/", uuid.Nil, nil)
	resp := httptest.NewRecorder()
	RequestSend(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, uuid.Nil, svc.sent.FromUserID)
}

func TestRequestReviewPassesDecision(t *testing.T) {
	caller := uuid.New()
	requestID := uuid.New()
	svc := &stubConnectionService{request: &connections.RequestDTO{ID: requestID, ToUserID: caller, Status: enums.ConnectionStatusAccepted}}

	req := authedRequest(http.MethodPost, "/", caller, map[string]string{"decision": "accepted", "requestId": requestID.String()})
	resp := httptest.NewRecorder()
	RequestReview(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, caller, svc.reviewed.ReviewerID)
	assert.Equal(t, requestID.String(), svc.reviewed.RequestID)
	assert.Equal(t, "accepted", svc.reviewed.Decision)
}

func TestRequestReviewNotReviewable(t *testing.T) {
	svc := &stubConnectionService{err: pkgerrors.New(pkgerrors.CodeRequestNotReviewable, "gone")}
	req := authedRequest(http.MethodPost, "/", uuid.New(), map[string]string{"decision": "rejected", "requestId": uuid.NewString()})
	resp := httptest.NewRecorder()
	RequestReview(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "REQUEST_NOT_REVIEWABLE")
}

func TestRequestsReceivedReturnsInbox(t *testing.T) {
	caller := uuid.New()
	svc := &stubConnectionService{received: []connections.ReceivedRequestDTO{
		{Sender: users.UserSummary{ID: uuid.New(), FirstName: "Grace"}},
	}}

	req := authedRequest(http.MethodGet, "/", caller, nil)
	resp := httptest.NewRecorder()
	RequestsReceived(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, caller, svc.listedBy)
	assert.Contains(t, resp.Body.String(), `"first_name":"Grace"`)
}

func TestConnectionsListReturnsCounterparts(t *testing.T) {
	caller := uuid.New()
	svc := &stubConnectionService{list: []users.UserSummary{{ID: uuid.New(), FirstName: "Linus"}}}

	req := authedRequest(http.MethodGet, "/", caller, nil)
	resp := httptest.NewRecorder()
	ConnectionsList(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, caller, svc.listedBy)
	assert.Contains(t, resp.Body.String(), `"first_name":"Linus"`)
}
