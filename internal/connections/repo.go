package connections

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/homio-app/homio-backend/internal/repo"
	"github.com/homio-app/homio-backend/pkg/db/models"
	"github.com/homio-app/homio-backend/pkg/enums"
)

// Repository is the request store. Every write is a single conditional
// statement so concurrent callers race on the database, not in Go.
type Repository struct {
	repo.Base
	now func() time.Time
}

// NewRepository constructs a connection request repo bound to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db), now: time.Now}
}

// InsertIfAbsent stores a new request unless any request already exists for
// the unordered pair. inserted is false when the pair was taken.
func (r *Repository) InsertIfAbsent(ctx context.Context, fromUserID, toUserID uuid.UUID, status enums.ConnectionStatus) (*models.ConnectionRequest, bool, error) {
	now := r.now().UTC()
	rec := &models.ConnectionRequest{
		ID:         uuid.New(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     status,
		PairKey:    models.PairKey(fromUserID, toUserID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	res := r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pair_key"}},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}
	return rec, true, nil
}

// ReviewIfPending moves a request addressed to reviewerID out of a reviewable
// status into decision. updated is false when no row matched, which covers a
// missing id, a different recipient and an already resolved request alike.
func (r *Repository) ReviewIfPending(ctx context.Context, requestID, reviewerID uuid.UUID, decision enums.ConnectionStatus) (*models.ConnectionRequest, bool, error) {
	res := r.DB(ctx).
		Model(&models.ConnectionRequest{}).
		Where("id = ? AND to_user_id = ? AND status IN ?", requestID, reviewerID, enums.ReviewableConnectionStatuses()).
		Updates(map[string]any{
			"status":     decision,
			"updated_at": r.now().UTC(),
		})
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}

	rec, err := r.FindByID(ctx, requestID)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// FindByID loads a single request.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ConnectionRequest, error) {
	var rec models.ConnectionRequest
	if err := r.DB(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByParticipant returns every request userID sent or received, in any status.
func (r *Repository) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]models.ConnectionRequest, error) {
	var rows []models.ConnectionRequest
	err := r.DB(ctx).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAccepted returns the accepted requests userID takes part in.
func (r *Repository) ListAccepted(ctx context.Context, userID uuid.UUID) ([]models.ConnectionRequest, error) {
	var rows []models.ConnectionRequest
	err := r.DB(ctx).
		Where("status = ?", enums.ConnectionStatusAccepted).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListReceivedPending returns requests addressed to userID that still await review, newest first.
func (r *Repository) ListReceivedPending(ctx context.Context, userID uuid.UUID) ([]models.ConnectionRequest, error) {
	var rows []models.ConnectionRequest
	err := r.DB(ctx).
		Where("to_user_id = ? AND status IN ?", userID, enums.ReviewableConnectionStatuses()).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPendingCreatedBetween returns reviewable requests created in [start, end).
func (r *Repository) ListPendingCreatedBetween(ctx context.Context, start, end time.Time) ([]models.ConnectionRequest, error) {
	var rows []models.ConnectionRequest
	err := r.DB(ctx).
		Where("status IN ?", enums.ReviewableConnectionStatuses()).
		Where("created_at >= ? AND created_at < ?", start.UTC(), end.UTC()).
		Order("to_user_id ASC").
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
