package enums

// OutboxDLQErrorReason explains why an outbox row was parked in outbox_dlq.
type OutboxDLQErrorReason string

const (
	OutboxDLQReasonMaxAttempts  OutboxDLQErrorReason = "max_attempts"
	OutboxDLQReasonNonRetryable OutboxDLQErrorReason = "non_retryable"
	OutboxDLQReasonUnknownEvent OutboxDLQErrorReason = "unknown_event"
)

func (r OutboxDLQErrorReason) IsValid() bool {
	switch r {
	case OutboxDLQReasonMaxAttempts, OutboxDLQReasonNonRetryable, OutboxDLQReasonUnknownEvent:
		return true
	}
	return false
}
