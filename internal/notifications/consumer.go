package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/homio-app/homio-backend/pkg/db"
	"github.com/homio-app/homio-backend/pkg/db/models"
	"github.com/homio-app/homio-backend/pkg/email"
	"github.com/homio-app/homio-backend/pkg/enums"
	"github.com/homio-app/homio-backend/pkg/logger"
	"github.com/homio-app/homio-backend/pkg/outbox"
	"github.com/homio-app/homio-backend/pkg/outbox/idempotency"
	"github.com/homio-app/homio-backend/pkg/outbox/payloads"
)

const emailConsumerName = "connection-emails"

type subscription interface {
	Receive(ctx context.Context, f func(context.Context, *pubsub.Message)) error
}

type payloadDecoder interface {
	Decode(eventType enums.OutboxEventType, version int, payload json.RawMessage) (interface{}, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ConsumerParams bundles the dependencies of the email consumer.
type ConsumerParams struct {
	Subscription subscription
	Decoders     payloadDecoder
	Idempotency  *idempotency.Manager
	Users        userLookup
	Sender       email.Sender
	AppURL       string
	Logger       *logger.Logger
}

// Consumer emails users about connection events delivered through Pub/Sub.
type Consumer struct {
	subscription subscription
	decoders     payloadDecoder
	idempotency  *idempotency.Manager
	users        userLookup
	sender       email.Sender
	appURL       string
	logg         *logger.Logger
}

func NewConsumer(params ConsumerParams) (*Consumer, error) {
	if params.Subscription == nil {
		return nil, fmt.Errorf("connection subscription required")
	}
	if params.Decoders == nil {
		return nil, fmt.Errorf("payload decoders required")
	}
	if params.Idempotency == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user lookup required")
	}
	if params.Sender == nil {
		return nil, fmt.Errorf("email sender required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		subscription: params.Subscription,
		decoders:     params.Decoders,
		idempotency:  params.Idempotency,
		users:        params.Users,
		sender:       params.Sender,
		appURL:       params.AppURL,
		logg:         params.Logger,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		if c.process(ctx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id":   msg.ID,
		"event_type":   string(eventType),
		"aggregate_id": msg.Attributes["aggregate_id"],
	})

	if !eventType.IsValid() {
		c.logg.Info(logCtx, "skipping unsupported event")
		return processResult{ack: true}
	}

	envelope, err := outbox.DecodeEnvelope(msg.Data)
	if err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}
	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}
	logCtx = c.logg.WithEventID(logCtx, eventID.String())

	payload, err := c.decoders.Decode(eventType, envelope.Version, envelope.Data)
	if err != nil {
		c.logg.Error(logCtx, "failed to parse payload", err)
		return processResult{ack: true}
	}

	ran, err := c.idempotency.Run(ctx, emailConsumerName, eventID, func(context.Context) error {
		return c.handle(logCtx, payload)
	})
	if err != nil {
		c.logg.Error(logCtx, "connection email failed", err)
		return processResult{nack: true}
	}
	if !ran {
		c.logg.Info(logCtx, "event already processed")
	}
	return processResult{ack: true}
}

func (c *Consumer) handle(ctx context.Context, payload interface{}) error {
	switch p := payload.(type) {
	case *payloads.ConnectionRequestSentEvent:
		if !p.WantsEmail() {
			return nil
		}
		return c.notifyRecipient(ctx, p)
	case *payloads.ConnectionRequestReviewedEvent:
		if !p.WantsEmail() {
			return nil
		}
		return c.notifySender(ctx, p)
	default:
		return fmt.Errorf("unexpected payload %T", payload)
	}
}

func (c *Consumer) notifyRecipient(ctx context.Context, p *payloads.ConnectionRequestSentEvent) error {
	recipient, sender, err := c.pair(ctx, p.RecipientID, p.SenderID)
	if err != nil || recipient == nil {
		return err
	}
	msg := email.RequestReceived(recipient.Email, displayName(sender), p.Status == enums.ConnectionStatusSuperliked, c.appURL)
	return c.send(ctx, msg)
}

func (c *Consumer) notifySender(ctx context.Context, p *payloads.ConnectionRequestReviewedEvent) error {
	sender, reviewer, err := c.pair(ctx, p.SenderID, p.ReviewerID)
	if err != nil || sender == nil {
		return err
	}
	return c.send(ctx, email.RequestAccepted(sender.Email, displayName(reviewer), c.appURL))
}

// pair loads the email recipient and the other party. A nil recipient means
// one of them no longer exists and there is nothing to send.
func (c *Consumer) pair(ctx context.Context, toID, otherID uuid.UUID) (*models.User, *models.User, error) {
	to, err := c.lookup(ctx, toID)
	if err != nil || to == nil {
		return nil, nil, err
	}
	other, err := c.lookup(ctx, otherID)
	if err != nil || other == nil {
		return nil, nil, err
	}
	return to, other, nil
}

func (c *Consumer) lookup(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := c.users.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			c.logg.Warn(c.logg.WithUserID(ctx, id.String()), "notification user missing")
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (c *Consumer) send(ctx context.Context, msg email.Message) error {
	id, err := c.sender.Send(ctx, msg)
	if err != nil {
		return err
	}
	c.logg.Info(c.logg.WithField(ctx, "provider_message_id", id), "connection email sent")
	return nil
}

func displayName(u *models.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return "Someone"
	}
	return name
}
