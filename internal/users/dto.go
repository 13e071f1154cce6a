package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/homio-app/homio-backend/pkg/db/models"
	dbtypes "github.com/homio-app/homio-backend/pkg/db/types"
	"github.com/homio-app/homio-backend/pkg/enums"
	"github.com/homio-app/homio-backend/pkg/types"
)

// UserSummary is the public projection of a user shown in feeds, connection
// lists and request inboxes. It never carries credentials or contact details.
type UserSummary struct {
	ID         uuid.UUID     `json:"id"`
	FirstName  string        `json:"first_name"`
	LastName   string        `json:"last_name"`
	Age        *int          `json:"age,omitempty"`
	Gender     *enums.Gender `json:"gender,omitempty"`
	PhotoURL   string        `json:"photo_url"`
	About      string        `json:"about"`
	Skills     []string      `json:"skills"`
	Interests  []string      `json:"interests"`
	Location   *string       `json:"location,omitempty"`
	Occupation *string       `json:"occupation,omitempty"`
	Company    *string       `json:"company,omitempty"`
	Education  *string       `json:"education,omitempty"`
	Social     types.Social  `json:"social"`
}

// ProfileDTO is the owner's view of their own profile.
type ProfileDTO struct {
	UserSummary
	Email       string     `json:"email"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Age          *int
	Gender       *enums.Gender
}

// EditProfileRequest is the PATCH body for the profile. Absent fields are left
// untouched; unknown fields are rejected by the JSON decoder.
type EditProfileRequest struct {
	FirstName  *string       `json:"first_name" validate:"omitempty,min=2,max=50"`
	LastName   *string       `json:"last_name" validate:"omitempty,min=1,max=50"`
	Age        *int          `json:"age" validate:"omitempty,gte=18,lte=120"`
	Gender     *string       `json:"gender" validate:"omitempty,oneof=male female other"`
	PhotoURL   *string       `json:"photo_url" validate:"omitempty,url"`
	About      *string       `json:"about" validate:"omitempty,max=500"`
	Skills     []string      `json:"skills" validate:"omitempty,max=10,dive,min=1,max=40"`
	Interests  []string      `json:"interests" validate:"omitempty,max=20,dive,min=1,max=40"`
	Location   *string       `json:"location" validate:"omitempty,max=100"`
	Occupation *string       `json:"occupation" validate:"omitempty,max=100"`
	Company    *string       `json:"company" validate:"omitempty,max=100"`
	Education  *string       `json:"education" validate:"omitempty,max=100"`
	Social     *types.Social `json:"social"`
}

// PhotoUploadRequest asks for a presigned URL to upload a profile photo.
type PhotoUploadRequest struct {
	ContentType string `json:"content_type" validate:"required,oneof=image/jpeg image/png image/webp"`
}

// PhotoUpload is returned to the client, which PUTs the image to UploadURL and
// then saves PhotoURL through the profile edit endpoint.
type PhotoUpload struct {
	UploadURL string    `json:"upload_url"`
	PhotoURL  string    `json:"photo_url"`
	ObjectKey string    `json:"object_key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NormalizeEmail lower-cases and trims an email for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func SummaryFromModel(u *models.User) UserSummary {
	return UserSummary{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Age:        u.Age,
		Gender:     u.Gender,
		PhotoURL:   u.PhotoURL,
		About:      u.About,
		Skills:     copyStrings(u.Skills),
		Interests:  copyStrings(u.Interests),
		Location:   u.Location,
		Occupation: u.Occupation,
		Company:    u.Company,
		Education:  u.Education,
		Social:     u.Social,
	}
}

func ProfileFromModel(u *models.User) *ProfileDTO {
	if u == nil {
		return nil
	}
	return &ProfileDTO{
		UserSummary: SummaryFromModel(u),
		Email:       u.Email,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:        NormalizeEmail(c.Email),
		PasswordHash: c.PasswordHash,
		FirstName:    strings.TrimSpace(c.FirstName),
		LastName:     strings.TrimSpace(c.LastName),
		Age:          c.Age,
		Gender:       c.Gender,
		About:        defaultAbout,
		Skills:       dbtypes.StringArray{},
		Interests:    dbtypes.StringArray{},
	}
}

const defaultAbout = "Hey there! I'm new to homio."

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
