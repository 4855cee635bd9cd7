package event

import "time"

// EventSchemaVersion is the current event schema version
const EventSchemaVersion = "1.0"

// Retry configuration
const (
	// RetryQueueBufferSize is the buffer size for the retry queue
	RetryQueueBufferSize = 256

	// RetryInitialDelay is the delay before the first retry
	RetryInitialDelay = 2 * time.Second

	// RetryMaxAttempts is the default maximum number of retry attempts
	RetryMaxAttempts = 5
)

// DeadLetterFilePermissions is the file mode for dead-letter files
const DeadLetterFilePermissions = 0644

// MaxDeadLetterLine bounds one dead-letter entry when reading the file back
const MaxDeadLetterLine = 1 << 20

// DeadLetterFileName is the dead-letter file created in the log directory
const DeadLetterFileName = "events_deadletter.jsonl"

// Log messages
const (
	LogMsgEventPublishFailed  = "Event publish failed, queuing for retry"
	LogMsgRetryQueueFull      = "Retry queue full, event dropped to dead-letter"
	LogMsgDeadLetterFailed    = "Failed to write to dead letter"
	LogMsgEventDeadLettered   = "Event dead-lettered"
	LogMsgEventRetryFailed    = "Event retry failed, scheduling next attempt"
	LogMsgEventRetrySucceeded = "Event retry succeeded"
	LogMsgQueueDrained        = "Drained retry queue during shutdown"
)

// Error messages
const (
	ErrMsgHandlerErrorsFormat = "encountered %d errors while handling event %s: %w"
)

// CalculateRetryDelay returns the exponential backoff delay for attempt
// (1-based): base, 2*base, 4*base, ...
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return baseDelay * time.Duration(1<<(attempt-1))
}
