package users

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/homio-app/homio-backend/pkg/db/models"
	dbtypes "github.com/homio-app/homio-backend/pkg/db/types"
	pkgerrors "github.com/homio-app/homio-backend/pkg/errors"
	"github.com/homio-app/homio-backend/pkg/storage"
	"github.com/homio-app/homio-backend/pkg/types"
)

type fakeProfileRepo struct {
	findFn   func(ctx context.Context, id uuid.UUID) (*models.User, error)
	updateFn func(ctx context.Context, id uuid.UUID, columns map[string]any) (*models.User, error)
}

func (f fakeProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.findFn(ctx, id)
}

func (f fakeProfileRepo) UpdateProfile(ctx context.Context, id uuid.UUID, columns map[string]any) (*models.User, error) {
	return f.updateFn(ctx, id, columns)
}

type fakePresigner struct {
	key, contentType string
	err              error
}

func (f *fakePresigner) PresignPut(_ context.Context, key, contentType string) (*storage.PresignedUpload, error) {
	f.key, f.contentType = key, contentType
	if f.err != nil {
		return nil, f.err
	}
	return &storage.PresignedUpload{
		URL:       "https://signed/" + key,
		Key:       key,
		PublicURL: "https://cdn/" + key,
		ExpiresAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

func strPtr(s string) *string { return &s }

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestGetProfileNotFound(t *testing.T) {
	svc, err := NewService(ServiceParams{Repo: fakeProfileRepo{
		findFn: func(context.Context, uuid.UUID) (*models.User, error) { return nil, gorm.ErrRecordNotFound },
	}})
	require.NoError(t, err)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestGetProfileHidesPasswordHash(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "a@b.co", PasswordHash: "secret", FirstName: "A", Skills: dbtypes.StringArray{"go"}}
	svc, _ := NewService(ServiceParams{Repo: fakeProfileRepo{
		findFn: func(context.Context, uuid.UUID) (*models.User, error) { return user, nil },
	}})

	got, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "a@b.co", got.Email)
	require.Equal(t, []string{"go"}, got.Skills)
}

func TestUpdateProfileBuildsColumns(t *testing.T) {
	user := &models.User{
		ID:     uuid.New(),
		Social: types.Social{GitHub: strPtr("https://github.com/a")},
	}
	var captured map[string]any
	svc, _ := NewService(ServiceParams{Repo: fakeProfileRepo{
		findFn: func(context.Context, uuid.UUID) (*models.User, error) { return user, nil },
		updateFn: func(_ context.Context, _ uuid.UUID, columns map[string]any) (*models.User, error) {
			captured = columns
			return user, nil
		},
	}})

	age := 30
	_, err := svc.UpdateProfile(context.Background(), user.ID, EditProfileRequest{
		FirstName: strPtr("  Grace "),
		Age:       &age,
		Skills:    []string{"Go", " go ", "", "SQL"},
		Social:    &types.Social{Portfolio: strPtr("https://grace.dev")},
	})
	require.NoError(t, err)

	require.Equal(t, "Grace", captured["first_name"])
	require.Equal(t, 30, captured["age"])
	require.Equal(t, dbtypes.StringArray{"Go", "SQL"}, captured["skills"])
	social := captured["social"].(types.Social)
	require.Equal(t, "https://github.com/a", *social.GitHub)
	require.Equal(t, "https://grace.dev", *social.Portfolio)
	require.NotContains(t, captured, "last_name")
	require.NotContains(t, captured, "interests")
}

func TestUpdateProfileRepoFailure(t *testing.T) {
	svc, _ := NewService(ServiceParams{Repo: fakeProfileRepo{
		findFn: func(context.Context, uuid.UUID) (*models.User, error) { return &models.User{}, nil },
		updateFn: func(context.Context, uuid.UUID, map[string]any) (*models.User, error) {
			return nil, errors.New("db down")
		},
	}})
	_, err := svc.UpdateProfile(context.Background(), uuid.New(), EditProfileRequest{About: strPtr("x")})
	require.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestPublicProfile(t *testing.T) {
	id := uuid.New()
	svc, _ := NewService(ServiceParams{Repo: fakeProfileRepo{
		findFn: func(_ context.Context, got uuid.UUID) (*models.User, error) {
			if got != id {
				return nil, gorm.ErrRecordNotFound
			}
			return &models.User{ID: id, FirstName: "Lin", Email: "lin@x.io"}, nil
		},
	}})

	summary, err := svc.PublicProfile(context.Background(), id.String())
	require.NoError(t, err)
	require.Equal(t, "Lin", summary.FirstName)

	_, err = svc.PublicProfile(context.Background(), "not-a-uuid")
	require.Equal(t, pkgerrors.CodeInvalidIdentifier, pkgerrors.As(err).Code())

	_, err = svc.PublicProfile(context.Background(), uuid.NewString())
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestPhotoUploadURL(t *testing.T) {
	presigner := &fakePresigner{}
	svc, _ := NewService(ServiceParams{Repo: fakeProfileRepo{}, Presigner: presigner})
	userID := uuid.New()

	out, err := svc.PhotoUploadURL(context.Background(), userID, "image/png")
	require.NoError(t, err)
	require.Contains(t, presigner.key, "users/"+userID.String()+"/photos/")
	require.Contains(t, presigner.key, ".png")
	require.Equal(t, "https://cdn/"+presigner.key, out.PhotoURL)

	_, err = svc.PhotoUploadURL(context.Background(), userID, "image/gif")
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	noUploads, _ := NewService(ServiceParams{Repo: fakeProfileRepo{}})
	_, err = noUploads.PhotoUploadURL(context.Background(), userID, "image/png")
	require.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestSummaryFromModelCarriesPublicFields(t *testing.T) {
	u := &models.User{
		ID:           uuid.New(),
		Email:        "kay@example.com",
		PasswordHash: "secret-hash",
		FirstName:    "Kay",
		Interests:    dbtypes.StringArray{"climbing", "chess"},
		Company:      strPtr("Acme"),
		Education:    strPtr("MIT"),
		Social:       types.Social{GitHub: strPtr("https://github.com/kay")},
	}

	summary := SummaryFromModel(u)
	require.Equal(t, []string{"climbing", "chess"}, summary.Interests)
	require.Equal(t, "Acme", *summary.Company)
	require.Equal(t, "MIT", *summary.Education)
	require.Equal(t, "https://github.com/kay", *summary.Social.GitHub)

	raw, err := json.Marshal(summary)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "kay@example.com")
	require.NotContains(t, string(raw), "secret-hash")
}
