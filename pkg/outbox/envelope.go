package outbox

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// CurrentVersion is the payload schema version written by Emit.
const CurrentVersion = 1

// ActorRef identifies the user whose action produced the event.
type ActorRef struct {
	UserID uuid.UUID `json:"userId"`
}

// PayloadEnvelope is the stable payload structure stored in outbox_events and
// published verbatim as the Pub/Sub message body.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}

// DecodeEnvelope parses a stored or published envelope and checks its identity fields.
func DecodeEnvelope(raw []byte) (PayloadEnvelope, error) {
	var env PayloadEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return PayloadEnvelope{}, err
	}
	if env.EventID == "" {
		return PayloadEnvelope{}, errors.New("envelope missing event id")
	}
	if env.Version <= 0 {
		env.Version = CurrentVersion
	}
	return env, nil
}
