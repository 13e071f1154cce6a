package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homio-app/homio-backend/internal/feed"
	"github.com/homio-app/homio-backend/pkg/pagination"
)

type stubFeed struct {
	userID uuid.UUID
	params pagination.Params
	err    error
}

func (s *stubFeed) Feed(ctx context.Context, userID uuid.UUID, params pagination.Params) (*feed.Page, error) {
	s.userID = userID
	s.params = params
	if s.err != nil {
		return nil, s.err
	}
	return &feed.Page{Page: params.Page, PageSize: params.PageSize}, nil
}

func TestFeedReadsPaginationQuery(t *testing.T) {
	caller := uuid.New()
	gen := &stubFeed{}

	resp := httptest.NewRecorder()
	Feed(gen, nil).ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/feed?page=3&limit=20", caller, nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, caller, gen.userID)
	assert.Equal(t, pagination.Params{Page: 3, PageSize: 20}, gen.params)
}

func TestFeedLenientOnBadQuery(t *testing.T) {
	gen := &stubFeed{}

	resp := httptest.NewRecorder()
	Feed(gen, nil).ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/feed?page=abc&limit=", uuid.New(), nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, pagination.DefaultPage, gen.params.Page)
	assert.Equal(t, 0, gen.params.PageSize)
}

func TestFeedHidesStoreErrors(t *testing.T) {
	gen := &stubFeed{err: errors.New("pq: connection refused")}

	resp := httptest.NewRecorder()
	Feed(gen, nil).ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/feed", uuid.New(), nil))

	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.NotContains(t, resp.Body.String(), "connection refused")
}
