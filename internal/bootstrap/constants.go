package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755
)

// =============================================================================
// Database Pool Configuration
// =============================================================================

const (
	// DBMaxIdleTime is how long an idle pooled connection is kept
	DBMaxIdleTime = 5 * time.Minute

	// DBMaxLifetime caps the age of a pooled connection
	DBMaxLifetime = time.Hour

	// StartupTimeout bounds connecting to the database and redis at startup
	StartupTimeout = 15 * time.Second
)

// =============================================================================
// Logger Messages
// =============================================================================

const (
	LogMsgStartingAshfall     = "Starting ashfall"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgConfigWarning       = "Configuration warning"
)

// =============================================================================
// Data Loading Messages
// =============================================================================

const (
	LogMsgLoadingItems   = "Loading item definitions..."
	LogMsgLoadingRecipes = "Loading recipe definitions..."
	LogMsgLoadingTraps   = "Loading trap definitions..."
	LogMsgDataLoaded     = "Game data loaded"
	LogMsgTrapsSkipped   = "No trap definitions found, skipping"

	ErrMsgFailedLoadItems   = "failed to load items config"
	ErrMsgInvalidItems      = "invalid items config"
	ErrMsgFailedLoadRecipes = "failed to load recipe config"
	ErrMsgInconsistentDict  = "recipe dictionary is inconsistent"
	ErrMsgFailedLoadTraps   = "failed to load trap config"
	ErrMsgInvalidTraps      = "invalid trap config"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultMaxRetries is the default number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the default base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is the default file path for dead-letter event logging
	EventDefaultDeadLetterPath = "logs/event_deadletter.jsonl"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// Log messages for event handler registration
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
)

// =============================================================================
// Store Messages
// =============================================================================

const (
	CheckPostgres = "postgres"
	CheckRedis    = "redis"

	LogMsgUsingPostgres     = "Known recipes stored in PostgreSQL"
	LogMsgUsingMemoryKnown  = "Known recipes kept in memory"
	LogMsgUsingRedis        = "Suspended crafts stored in Redis"
	LogMsgUsingMemoryStore  = "Suspended crafts kept in memory"
	ErrMsgFailedConnectDB   = "failed to connect to database"
	ErrMsgFailedMigrate     = "failed to migrate database"
	ErrMsgFailedRedisClient = "failed to create redis client"
	ErrMsgFailedPingRedis   = "failed to ping redis"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgClosingEventStreams        = "Closing event streams..."
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgRedisCloseFailed           = "Redis client close failed"
)
