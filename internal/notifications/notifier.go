// Package notifications turns connection request events into outbox rows and
// later into emails.
package notifications

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/homio-app/homio-backend/internal/connections"
	"github.com/homio-app/homio-backend/pkg/enums"
	"github.com/homio-app/homio-backend/pkg/outbox"
	"github.com/homio-app/homio-backend/pkg/outbox/payloads"
)

type emitter interface {
	EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) (bool, error)
}

// OutboxNotifier queues each connection event in outbox_events for the publisher.
type OutboxNotifier struct {
	outbox emitter
}

func NewOutboxNotifier(outbox emitter) (*OutboxNotifier, error) {
	if outbox == nil {
		return nil, errors.New("outbox service required")
	}
	return &OutboxNotifier{outbox: outbox}, nil
}

func (n *OutboxNotifier) Notify(ctx context.Context, event connections.Event) error {
	domainEvent, err := toDomainEvent(event)
	if err != nil {
		return err
	}
	_, err = n.outbox.EmitIfNotExists(ctx, nil, domainEvent)
	return err
}

func toDomainEvent(event connections.Event) (outbox.DomainEvent, error) {
	out := outbox.DomainEvent{
		EventType:     event.Type,
		AggregateType: enums.AggregateConnectionRequest,
		AggregateID:   event.RequestID,
		OccurredAt:    event.OccurredAt,
	}
	switch event.Type {
	case enums.EventConnectionRequestSent:
		out.Actor = &outbox.ActorRef{UserID: event.SenderID}
		out.Data = payloads.ConnectionRequestSentEvent{
			RequestID:   event.RequestID,
			SenderID:    event.SenderID,
			RecipientID: event.RecipientID,
			Status:      event.Status,
			SentAt:      event.OccurredAt,
		}
	case enums.EventConnectionRequestReviewed:
		out.Actor = &outbox.ActorRef{UserID: event.RecipientID}
		out.Data = payloads.ConnectionRequestReviewedEvent{
			RequestID:  event.RequestID,
			SenderID:   event.SenderID,
			ReviewerID: event.RecipientID,
			Decision:   event.Status,
			ReviewedAt: event.OccurredAt,
		}
	default:
		return outbox.DomainEvent{}, fmt.Errorf("unsupported connection event %q", event.Type)
	}
	return out, nil
}
