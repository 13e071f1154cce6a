package registry

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/homio-app/homio-backend/pkg/enums"
	"github.com/homio-app/homio-backend/pkg/outbox/payloads"
)

type decoderFunc func(payload json.RawMessage) (interface{}, error)

type registryKey struct {
	eventType enums.OutboxEventType
	version   int
}

// DecoderRegistry stores versioned payload decoders for consumers.
type DecoderRegistry struct {
	mtx      sync.RWMutex
	registry map[registryKey]decoderFunc
}

// NewDecoderRegistry builds an empty decoder registry.
func NewDecoderRegistry() *DecoderRegistry {
	return &DecoderRegistry{registry: make(map[registryKey]decoderFunc)}
}

// NewConnectionDecoders returns a registry with the v1 connection event decoders.
func NewConnectionDecoders() *DecoderRegistry {
	reg := NewDecoderRegistry()
	reg.Register(enums.EventConnectionRequestSent, 1, decodeInto(func() interface{} { return &payloads.ConnectionRequestSentEvent{} }))
	reg.Register(enums.EventConnectionRequestReviewed, 1, decodeInto(func() interface{} { return &payloads.ConnectionRequestReviewedEvent{} }))
	return reg
}

// Register stores a decoder for the given event type and version.
func (r *DecoderRegistry) Register(eventType enums.OutboxEventType, version int, decoder decoderFunc) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.registry[registryKey{eventType: eventType, version: version}] = decoder
}

// Decode runs the decoder registered for the event type and version.
func (r *DecoderRegistry) Decode(eventType enums.OutboxEventType, version int, payload json.RawMessage) (interface{}, error) {
	r.mtx.RLock()
	decoder, ok := r.registry[registryKey{eventType: eventType, version: version}]
	r.mtx.RUnlock()
	if !ok {
		return nil, fmt.Errorf("decoder not registered for %s@v%d", eventType, version)
	}
	return decoder(payload)
}

func decodeInto(factory func() interface{}) decoderFunc {
	return func(payload json.RawMessage) (interface{}, error) {
		target := factory()
		if err := json.Unmarshal(payload, target); err != nil {
			return nil, err
		}
		return target, nil
	}
}
