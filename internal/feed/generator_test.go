package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/homio-app/homio-backend/pkg/db/models"
	pkgerrors "github.com/homio-app/homio-backend/pkg/errors"
	"github.com/homio-app/homio-backend/pkg/pagination"
)

type fakeRequests struct {
	fn func(ctx context.Context, userID uuid.UUID) ([]models.ConnectionRequest, error)
}

func (f fakeRequests) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]models.ConnectionRequest, error) {
	return f.fn(ctx, userID)
}

type fakeDirectory struct {
	fn func(ctx context.Context, exclude []uuid.UUID, skip, limit int) ([]models.User, int64, error)
}

func (f fakeDirectory) FindMany(ctx context.Context, exclude []uuid.UUID, skip, limit int) ([]models.User, int64, error) {
	return f.fn(ctx, exclude, skip, limit)
}

func TestNewGeneratorRequiresDependencies(t *testing.T) {
	_, err := NewGenerator(GeneratorParams{Directory: fakeDirectory{}})
	require.Error(t, err)
	_, err = NewGenerator(GeneratorParams{Requests: fakeRequests{}})
	require.Error(t, err)
}

func TestFeedBuildsExclusionSetAndClampsPaging(t *testing.T) {
	me, a, b := uuid.New(), uuid.New(), uuid.New()
	var (
		gotExclude     []uuid.UUID
		gotSkip, gotLn int
	)
	gen, err := NewGenerator(GeneratorParams{
		Requests: fakeRequests{fn: func(context.Context, uuid.UUID) ([]models.ConnectionRequest, error) {
			return []models.ConnectionRequest{
				{FromUserID: me, ToUserID: a},
				{FromUserID: b, ToUserID: me},
				{FromUserID: a, ToUserID: me},
			}, nil
		}},
		Directory: fakeDirectory{fn: func(_ context.Context, exclude []uuid.UUID, skip, limit int) ([]models.User, int64, error) {
			gotExclude, gotSkip, gotLn = exclude, skip, limit
			return []models.User{{ID: uuid.New(), FirstName: "Cand"}}, 101, nil
		}},
	})
	require.NoError(t, err)

	page, err := gen.Feed(context.Background(), me, pagination.Params{Page: 3, PageSize: 500})
	require.NoError(t, err)
	require.ElementsMatch(t, []uuid.UUID{me, a, b}, gotExclude)
	require.Equal(t, 100, gotSkip)
	require.Equal(t, 50, gotLn)
	require.Equal(t, 3, page.Page)
	require.Equal(t, 50, page.PageSize)
	require.EqualValues(t, 101, page.Total)
	require.Len(t, page.Items, 1)

	page, err = gen.Feed(context.Background(), me, pagination.Params{Page: 0, PageSize: 0})
	require.NoError(t, err)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 10, page.PageSize)
	require.Equal(t, 0, gotSkip)
}

func TestFeedStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	gen, _ := NewGenerator(GeneratorParams{
		Requests:  fakeRequests{fn: func(context.Context, uuid.UUID) ([]models.ConnectionRequest, error) { return nil, boom }},
		Directory: fakeDirectory{},
	})
	_, err := gen.Feed(context.Background(), uuid.New(), pagination.Params{})
	require.Equal(t, pkgerrors.CodeStoreUnavailable, pkgerrors.As(err).Code())

	gen, _ = NewGenerator(GeneratorParams{
		Requests: fakeRequests{fn: func(context.Context, uuid.UUID) ([]models.ConnectionRequest, error) { return nil, nil }},
		Directory: fakeDirectory{fn: func(context.Context, []uuid.UUID, int, int) ([]models.User, int64, error) {
			return nil, 0, boom
		}},
	})
	_, err = gen.Feed(context.Background(), uuid.New(), pagination.Params{})
	require.Equal(t, pkgerrors.CodeStoreUnavailable, pkgerrors.As(err).Code())
}

func TestFeedEmptyIsNotAnError(t *testing.T) {
	gen, _ := NewGenerator(GeneratorParams{
		Requests: fakeRequests{fn: func(context.Context, uuid.UUID) ([]models.ConnectionRequest, error) { return nil, nil }},
		Directory: fakeDirectory{fn: func(context.Context, []uuid.UUID, int, int) ([]models.User, int64, error) {
			return []models.User{}, 0, nil
		}},
	})
	page, err := gen.Feed(context.Background(), uuid.New(), pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 0, page.Total)
	require.NotNil(t, page.Items)
	require.Empty(t, page.Items)
}
