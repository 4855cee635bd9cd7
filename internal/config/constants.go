package config

// EnvPrefix is prepended to every configuration key read from the environment
const EnvPrefix = "ASHFALL"

// Configuration keys
const (
	KeyEnvironment      = "environment"
	KeyDataDir          = "data_dir"
	KeyDatabaseURL      = "database_url"
	KeyDBMaxConns       = "db_max_conns"
	KeyRedisURL         = "redis_url"
	KeyActivityTTL      = "activity_ttl"
	KeyPort             = "port"
	KeyLogLevel         = "log_level"
	KeyLogFormat        = "log_format"
	KeyLogDir           = "log_dir"
	KeyPromptDefault    = "prompt_default"
	KeySuggestCacheSize = "suggest_cache_size"
	KeyEventMaxRetries  = "event_max_retries"
	KeyEventRetryDelay  = "event_retry_delay"
	KeyDeadLetterPath   = "dead_letter_path"
	KeyAPIKey           = "api_key"
)

// Defaults
const (
	DefaultEnvironment      = "dev"
	DefaultDataDir          = "data"
	DefaultDBMaxConns       = 10
	DefaultActivityTTL      = "168h"
	DefaultPort             = 8080
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultLogDir           = "logs"
	DefaultPromptDefault    = true
	DefaultSuggestCacheSize = 256
	DefaultEventMaxRetries  = 3
	DefaultEventRetryDelay  = "2s"
	DefaultDeadLetterPath   = "logs/deadletter.jsonl"
)

// Error messages
const (
	ErrMsgReadConfigFile  = "failed to read config file"
	ErrMsgUnmarshalConfig = "failed to unmarshal config"
	ErrMsgInvalidConfig   = "invalid configuration"
)

// Warnings
const (
	WarnNoDatabase = "DATABASE_URL is not set; known recipes are kept in memory and lost on restart"
	WarnNoRedis    = "REDIS_URL is not set; suspended crafts are kept in memory and lost on restart"
	WarnNoLogDir   = "LOG_DIR is empty; logs go to stdout only"
	WarnNoAPIKey   = "API_KEY is not set; the HTTP API is unauthenticated"
)
