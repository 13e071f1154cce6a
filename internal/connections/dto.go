package connections

import (
	"time"

	"github.com/google/uuid"

	"github.com/homio-app/homio-backend/internal/users"
	"github.com/homio-app/homio-backend/pkg/db/models"
	"github.com/homio-app/homio-backend/pkg/enums"
)

// SendRequestInput carries the raw target id and status so validation can run
// in a fixed order inside the service.
type SendRequestInput struct {
	FromUserID uuid.UUID
	ToUserID   string
	Status     string
}

type ReviewRequestInput struct {
	ReviewerID uuid.UUID
	RequestID  string
	Decision   string
}

type RequestDTO struct {
	ID         uuid.UUID              `json:"id"`
	FromUserID uuid.UUID              `json:"from_user_id"`
	ToUserID   uuid.UUID              `json:"to_user_id"`
	Status     enums.ConnectionStatus `json:"status"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// ReceivedRequestDTO is a pending request shown in the recipient's inbox.
type ReceivedRequestDTO struct {
	RequestDTO
	Sender users.UserSummary `json:"sender"`
}

func FromModel(m *models.ConnectionRequest) *RequestDTO {
	if m == nil {
		return nil
	}
	return &RequestDTO{
		ID:         m.ID,
		FromUserID: m.FromUserID,
		ToUserID:   m.ToUserID,
		Status:     m.Status,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
