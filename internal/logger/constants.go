package logger

const (
	formatJSON = "json"
	formatText = "text"

	// levelWarningAlias is accepted in addition to slog's own level names
	levelWarningAlias = "warning"
)

// Defaults applied by DefaultConfig
const (
	DefaultServiceName = "ashfall"
	DefaultVersion     = "dev"
	DefaultEnvironment = "dev"
	DefaultLevel       = "info"
)

// Attribute keys attached to log records
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
	AttrKeyCraftID     = "craft_id"
)

// Session log files are named session_<timestamp>.log and the newest
// DefaultRetain of them survive each startup.
const (
	sessionPrefix = "session_"
	sessionSuffix = ".log"
	sessionStamp  = "2006-01-02_15-04-05"
	DefaultRetain = 9
)
