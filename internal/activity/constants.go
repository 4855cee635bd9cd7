package activity

import "time"

// Redis key layout
const (
	KeyPrefixActivity = "activity:"
	KeyPrefixOwner    = "activity:owner:"
)

// DefaultRecordTTL bounds how long a suspended activity is kept
const DefaultRecordTTL = 30 * 24 * time.Hour

// Log messages
const (
	LogMsgActivityScheduled = "Activity scheduled"
	LogMsgActivityResumed   = "Activity rescheduled, progress kept"
	LogMsgActivityCompleted = "Activity completed"
	LogMsgActivityCancelled = "Activity cancelled"
	LogMsgActivitySaved     = "Activity saved"
	LogMsgActivitySaveError = "Failed to save activity"
)

// Error messages
const (
	ErrMsgNegativeMoves = "activity moves must not be negative"
	ErrMsgNilActivityID = "activity id is required"
)
