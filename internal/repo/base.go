package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// WithTx returns a copy of b that runs its queries on tx.
func (b Base) WithTx(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// Exists reports whether at least one row of model matches the condition.
func (b Base) Exists(ctx context.Context, model any, query string, args ...any) (bool, error) {
	var found int
	err := b.DB(ctx).Model(model).Select("1").Where(query, args...).Limit(1).Scan(&found).Error
	if err != nil {
		return false, err
	}
	return found == 1, nil
}
