package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbtypes "github.com/homio-app/homio-backend/pkg/db/types"
	"github.com/homio-app/homio-backend/pkg/enums"
	"github.com/homio-app/homio-backend/pkg/types"
)

// DefaultPhotoURL is shown until a user uploads a photo.
const DefaultPhotoURL = "https://cdn.homio.app/assets/avatar-default.png"

// User is the identity and public profile row behind the user directory.
type User struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Email        string              `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash string              `gorm:"column:password_hash;not null"`
	FirstName    string              `gorm:"column:first_name;not null"`
	LastName     string              `gorm:"column:last_name;not null"`
	Age          *int                `gorm:"column:age"`
	Gender       *enums.Gender       `gorm:"column:gender;type:text"`
	PhotoURL     string              `gorm:"column:photo_url;not null"`
	About        string              `gorm:"column:about;not null"`
	Skills       dbtypes.StringArray `gorm:"column:skills;not null"`
	Interests    dbtypes.StringArray `gorm:"column:interests;not null"`
	Location     *string             `gorm:"column:location"`
	Occupation   *string             `gorm:"column:occupation"`
	Company      *string             `gorm:"column:company"`
	Education    *string             `gorm:"column:education"`
	Social       types.Social        `gorm:"column:social;type:jsonb;not null"`
	LastLoginAt  *time.Time          `gorm:"column:last_login_at"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.PhotoURL == "" {
		u.PhotoURL = DefaultPhotoURL
	}
	if u.Skills == nil {
		u.Skills = dbtypes.StringArray{}
	}
	if u.Interests == nil {
		u.Interests = dbtypes.StringArray{}
	}
	return nil
}
