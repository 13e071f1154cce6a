package connections

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/homio-app/homio-backend/pkg/enums"
)

// Event describes a request transition that a notification channel may act on.
// SenderID and RecipientID always refer to the original request direction.
type Event struct {
	Type        enums.OutboxEventType
	RequestID   uuid.UUID
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Status      enums.ConnectionStatus
	OccurredAt  time.Time
}

// Notifier receives request events. Delivery is best effort: the service logs
// a returned error and carries on.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// NoopNotifier drops every event.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Event) error { return nil }
