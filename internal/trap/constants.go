package trap

// ConfigFileName is the name of the trap definitions file inside the data dir
const ConfigFileName = "traps.json"

// ActionNone is the handler every unknown action resolves to
const ActionNone = "none"

// Log messages
const (
	LogMsgUnknownAction = "Unknown trap action, using none"
	LogMsgTrapsLoaded   = "Traps loaded"
	LogMsgTrapTriggered = "Trap triggered"
	LogMsgPublishFailed = "Failed to publish trap event"
)

// Error messages
const (
	ErrMsgReadConfigFileFailed = "failed to read traps config file: %w"
	ErrMsgParseConfigFailed    = "failed to parse traps config: %w"
	ErrMsgSchemaFailed         = "schema validation failed for %s: %w"
	ErrFmtTrapAtIndexInvalid   = "%w: trap at index %d: %v"
)
