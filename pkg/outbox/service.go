package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/homio-app/homio-backend/pkg/db"
	"github.com/homio-app/homio-backend/pkg/db/models"
	"github.com/homio-app/homio-backend/pkg/enums"
	"github.com/homio-app/homio-backend/pkg/logger"
)

const uniqueEventAggregateIndex = "ux_outbox_events_event_aggregate"

type DomainEvent struct {
	EventType     enums.OutboxEventType
	AggregateType enums.OutboxAggregateType
	AggregateID   uuid.UUID
	Actor         *ActorRef
	Data          interface{}
	Version       int
	OccurredAt    time.Time
}

type Service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) *Service {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{repo: repo, logg: logg}
}

// Emit queues the event. When tx is nil the row is written through the
// repository's own connection.
func (s *Service) Emit(ctx context.Context, tx *gorm.DB, event DomainEvent) (uuid.UUID, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return uuid.Nil, err
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if event.Version <= 0 {
		event.Version = CurrentVersion
	}
	eventID := uuid.New()
	envelope := PayloadEnvelope{
		Version:    event.Version,
		EventID:    eventID.String(),
		OccurredAt: event.OccurredAt.UTC(),
		Actor:      event.Actor,
		Data:       payload,
	}
	payloadJSON, err := json.Marshal(envelope)
	if err != nil {
		return uuid.Nil, err
	}
	row := models.OutboxEvent{
		ID:            eventID,
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       json.RawMessage(payloadJSON),
	}
	if err := s.repo.Insert(s.handle(ctx, tx), row); err != nil {
		return uuid.Nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"event_id":       envelope.EventID,
		"event_type":     event.EventType,
		"aggregate_id":   event.AggregateID.String(),
		"aggregate_type": event.AggregateType,
	})
	s.logg.Info(logCtx, "outbox event queued")
	return eventID, nil
}

// EmitIfNotExists queues the event unless one of the same type already exists
// for the aggregate. It reports whether a row was written.
func (s *Service) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event DomainEvent) (bool, error) {
	handle := s.handle(ctx, tx)
	exists, err := s.repo.ExistsTx(handle, event.EventType, event.AggregateType, event.AggregateID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if _, err := s.Emit(ctx, handle, event); err != nil {
		if dbpkg.IsUniqueViolation(err, uniqueEventAggregateIndex) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Service) handle(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.repo.db.WithContext(ctx)
}
