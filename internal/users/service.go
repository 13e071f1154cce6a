package users

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homio-app/homio-backend/pkg/db/models"
	dbtypes "github.com/homio-app/homio-backend/pkg/db/types"
	pkgerrors "github.com/homio-app/homio-backend/pkg/errors"
	"github.com/homio-app/homio-backend/pkg/storage"
)

// Service covers the profile surface: the owner's view/edit, public lookup and photo uploads.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req EditProfileRequest) (*ProfileDTO, error)
	PublicProfile(ctx context.Context, rawID string) (*UserSummary, error)
	PhotoUploadURL(ctx context.Context, userID uuid.UUID, contentType string) (*PhotoUpload, error)
}

type profileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, columns map[string]any) (*models.User, error)
}

type photoPresigner interface {
	PresignPut(ctx context.Context, key, contentType string) (*storage.PresignedUpload, error)
}

// ServiceParams bundles the dependencies required to build the profile service.
type ServiceParams struct {
	Repo      profileRepository
	Presigner photoPresigner
}

type service struct {
	repo      profileRepository
	presigner photoPresigner
}

// NewService constructs the profile service. Presigner may be nil when uploads are disabled.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	return &service{repo: params.Repo, presigner: params.Presigner}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ProfileFromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req EditProfileRequest) (*ProfileDTO, error) {
	current, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	columns := profileColumns(current, req)
	updated, err := s.repo.UpdateProfile(ctx, userID, columns)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return ProfileFromModel(updated), nil
}

func (s *service) PublicProfile(ctx context.Context, rawID string) (*UserSummary, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidIdentifier, err, "invalid user id").
			WithDetails(map[string]any{"field": "userId"})
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := SummaryFromModel(user)
	return &summary, nil
}

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func (s *service) PhotoUploadURL(ctx context.Context, userID uuid.UUID, contentType string) (*PhotoUpload, error) {
	if s.presigner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "photo uploads are not configured")
	}
	ext, ok := photoExtensions[contentType]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported content type").
			WithDetails(map[string]any{"content_type": contentType})
	}

	key := path.Join("users", userID.String(), "photos", uuid.NewString()+ext)
	signed, err := s.presigner.PresignPut(ctx, key, contentType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "presign photo upload")
	}
	return &PhotoUpload{
		UploadURL: signed.URL,
		PhotoURL:  signed.PublicURL,
		ObjectKey: signed.Key,
		ExpiresAt: signed.ExpiresAt,
	}, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("load user %s", id))
	}
	return user, nil
}

// profileColumns maps the present fields of req onto column updates. Social
// links merge into the stored value rather than replacing it.
func profileColumns(current *models.User, req EditProfileRequest) map[string]any {
	cols := map[string]any{}
	setTrimmed := func(col string, v *string) {
		if v != nil {
			cols[col] = strings.TrimSpace(*v)
		}
	}

	setTrimmed("first_name", req.FirstName)
	setTrimmed("last_name", req.LastName)
	setTrimmed("photo_url", req.PhotoURL)
	setTrimmed("about", req.About)
	setTrimmed("location", req.Location)
	setTrimmed("occupation", req.Occupation)
	setTrimmed("company", req.Company)
	setTrimmed("education", req.Education)

	if req.Age != nil {
		cols["age"] = *req.Age
	}
	if req.Gender != nil {
		cols["gender"] = *req.Gender
	}
	if req.Skills != nil {
		cols["skills"] = cleanList(req.Skills)
	}
	if req.Interests != nil {
		cols["interests"] = cleanList(req.Interests)
	}
	if req.Social != nil {
		cols["social"] = current.Social.Merge(*req.Social)
	}
	return cols
}

func cleanList(in []string) dbtypes.StringArray {
	out := make(dbtypes.StringArray, 0, len(in))
	seen := map[string]struct{}{}
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[strings.ToLower(v)]; dup {
			continue
		}
		seen[strings.ToLower(v)] = struct{}{}
		out = append(out, v)
	}
	return out
}
