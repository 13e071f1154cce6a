// Package feed computes the candidate users shown to someone browsing homio.
package feed

import (
	"context"

	"github.com/google/uuid"

	"github.com/homio-app/homio-backend/internal/users"
	"github.com/homio-app/homio-backend/pkg/db/models"
	pkgerrors "github.com/homio-app/homio-backend/pkg/errors"
	"github.com/homio-app/homio-backend/pkg/pagination"
)

// Page is one slice of the feed. Total counts every eligible candidate, not just Items.
type Page struct {
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Total    int64               `json:"total"`
	Items    []users.UserSummary `json:"items"`
}

// Generator builds feeds. Anyone the viewer has a request with, in any
// status and either direction, is excluded for good.
type Generator interface {
	Feed(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error)
}

type requestSource interface {
	ListByParticipant(ctx context.Context, userID uuid.UUID) ([]models.ConnectionRequest, error)
}

type candidateDirectory interface {
	FindMany(ctx context.Context, excludeIDs []uuid.UUID, skip, limit int) ([]models.User, int64, error)
}

// GeneratorParams bundles the dependencies required to build a feed generator.
type GeneratorParams struct {
	Requests  requestSource
	Directory candidateDirectory
	Limits    pagination.Limits
}

type generator struct {
	requests  requestSource
	directory candidateDirectory
	limits    pagination.Limits
}

func NewGenerator(params GeneratorParams) (Generator, error) {
	if params.Requests == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "connection request store required")
	}
	if params.Directory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user directory required")
	}
	limits := params.Limits
	if limits.MaxPageSize <= 0 {
		limits = pagination.DefaultLimits()
	}
	return &generator{requests: params.Requests, directory: params.Directory, limits: limits}, nil
}

func (g *generator) Feed(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error) {
	p := g.limits.Normalize(params)

	linked, err := g.requests.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "list requests for feed")
	}

	rows, total, err := g.directory.FindMany(ctx, exclusionSet(userID, linked), p.Offset(), p.PageSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "load feed candidates")
	}

	items := make([]users.UserSummary, 0, len(rows))
	for i := range rows {
		items = append(items, users.SummaryFromModel(&rows[i]))
	}
	return &Page{Page: p.Page, PageSize: p.PageSize, Total: total, Items: items}, nil
}

// exclusionSet is the viewer plus the other party of every request they are in.
func exclusionSet(userID uuid.UUID, linked []models.ConnectionRequest) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{userID: {}}
	out := []uuid.UUID{userID}
	for _, rec := range linked {
		other := rec.CounterpartOf(userID)
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		out = append(out, other)
	}
	return out
}
