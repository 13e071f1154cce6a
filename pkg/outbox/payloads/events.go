package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/homio-app/homio-backend/pkg/enums"
)

// ConnectionRequestSentEvent is emitted once per created request, whatever its status.
type ConnectionRequestSentEvent struct {
	RequestID   uuid.UUID              `json:"request_id"`
	SenderID    uuid.UUID              `json:"sender_id"`
	RecipientID uuid.UUID              `json:"recipient_id"`
	Status      enums.ConnectionStatus `json:"status"`
	SentAt      time.Time              `json:"sent_at"`
}

// WantsEmail reports whether the recipient should hear about this request.
func (e ConnectionRequestSentEvent) WantsEmail() bool {
	return e.Status.IsReviewable()
}

// ConnectionRequestReviewedEvent is emitted when the recipient accepts or rejects.
type ConnectionRequestReviewedEvent struct {
	RequestID  uuid.UUID              `json:"request_id"`
	SenderID   uuid.UUID              `json:"sender_id"`
	ReviewerID uuid.UUID              `json:"reviewer_id"`
	Decision   enums.ConnectionStatus `json:"decision"`
	ReviewedAt time.Time              `json:"reviewed_at"`
}

// WantsEmail is true only for acceptances; rejections stay silent.
func (e ConnectionRequestReviewedEvent) WantsEmail() bool {
	return e.Decision == enums.ConnectionStatusAccepted
}
