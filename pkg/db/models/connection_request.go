package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/homio-app/homio-backend/pkg/enums"
)

// ConnectionRequest is a directed request from one user to another. PairKey
// holds the unordered pair so the unique index covers both directions.
type ConnectionRequest struct {
	ID         uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	FromUserID uuid.UUID              `gorm:"column:from_user_id;type:uuid;not null;index"`
	ToUserID   uuid.UUID              `gorm:"column:to_user_id;type:uuid;not null;index:idx_connection_requests_to_status,priority:1"`
	Status     enums.ConnectionStatus `gorm:"column:status;type:connection_status;not null;index:idx_connection_requests_to_status,priority:2"`
	PairKey    string                 `gorm:"column:pair_key;type:text;not null;uniqueIndex:ux_connection_requests_pair_key"`
	CreatedAt  time.Time              `gorm:"column:created_at;not null;index"`
	UpdatedAt  time.Time              `gorm:"column:updated_at;not null"`
}

// PairKey returns the canonical key for the unordered pair {a, b}.
func PairKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if y < x {
		x, y = y, x
	}
	return x + ":" + y
}

// CounterpartOf returns the participant that is not userID.
func (r ConnectionRequest) CounterpartOf(userID uuid.UUID) uuid.UUID {
	if r.FromUserID == userID {
		return r.ToUserID
	}
	return r.FromUserID
}
