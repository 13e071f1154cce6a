package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homio-app/homio-backend/internal/repo"
	"github.com/homio-app/homio-backend/pkg/db/models"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided (normalized) email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether a user with id is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.Base.Exists(ctx, &models.User{}, "id = ?", id)
}

// FindByIDs loads every user in ids; missing ids are skipped.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var rows []models.User
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindMany returns one window of users whose id is not in excludeIDs, ordered
// by (created_at, id), together with the total number of matching users.
func (r *Repository) FindMany(ctx context.Context, excludeIDs []uuid.UUID, skip, limit int) ([]models.User, int64, error) {
	scope := func() *gorm.DB {
		q := r.DB(ctx).Model(&models.User{})
		if len(excludeIDs) > 0 {
			q = q.Where("id NOT IN ?", excludeIDs)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []models.User{}
	if total == 0 || skip < 0 || int64(skip) >= total {
		return rows, total, nil
	}
	err := scope().
		Order("created_at ASC").
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// UpdateProfile writes the given columns and returns the refreshed row.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, columns map[string]any) (*models.User, error) {
	if len(columns) > 0 {
		res := r.DB(ctx).Model(&models.User{}).Where("id = ?", id).Updates(columns)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}
