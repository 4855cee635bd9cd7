package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/osse101/ashfall/internal/logger"
	"github.com/osse101/ashfall/internal/validation"
)

// Config holds the application configuration
type Config struct {
	Environment      string        `mapstructure:"environment" validate:"oneof=dev prod test"`
	DataDir          string        `mapstructure:"data_dir" validate:"required"`
	DatabaseURL      string        `mapstructure:"database_url"`
	DBMaxConns       int           `mapstructure:"db_max_conns" validate:"min=1"`
	RedisURL         string        `mapstructure:"redis_url"`
	ActivityTTL      time.Duration `mapstructure:"activity_ttl"`
	Port             int           `mapstructure:"port" validate:"min=1,max=65535"`
	LogLevel         string        `mapstructure:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat        string        `mapstructure:"log_format" validate:"oneof=text json"`
	LogDir           string        `mapstructure:"log_dir"`
	PromptDefault    bool          `mapstructure:"prompt_default"`
	SuggestCacheSize int           `mapstructure:"suggest_cache_size" validate:"min=0"`
	EventMaxRetries  int           `mapstructure:"event_max_retries" validate:"min=0"`
	EventRetryDelay  time.Duration `mapstructure:"event_retry_delay"`
	DeadLetterPath   string        `mapstructure:"dead_letter_path" validate:"required"`
	APIKey           string        `mapstructure:"api_key"`
}

// Load reads configuration with priority environment > config file > defaults.
// A .env file and a config.yaml are both optional. configPath may be empty.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%s: %w", ErrMsgReadConfigFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUnmarshalConfig, err)
	}

	// DATABASE_URL and REDIS_URL are also honoured without the prefix
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it on Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyEnvironment, DefaultEnvironment)
	v.SetDefault(KeyDataDir, DefaultDataDir)
	v.SetDefault(KeyDatabaseURL, "")
	v.SetDefault(KeyDBMaxConns, DefaultDBMaxConns)
	v.SetDefault(KeyRedisURL, "")
	v.SetDefault(KeyActivityTTL, DefaultActivityTTL)
	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	v.SetDefault(KeyLogDir, DefaultLogDir)
	v.SetDefault(KeyPromptDefault, DefaultPromptDefault)
	v.SetDefault(KeySuggestCacheSize, DefaultSuggestCacheSize)
	v.SetDefault(KeyEventMaxRetries, DefaultEventMaxRetries)
	v.SetDefault(KeyEventRetryDelay, DefaultEventRetryDelay)
	v.SetDefault(KeyDeadLetterPath, DefaultDeadLetterPath)
	v.SetDefault(KeyAPIKey, "")
}

// Validate checks the struct tags
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgInvalidConfig, err)
	}
	return nil
}

// Logger returns the logger configuration
func (c *Config) Logger() logger.Config {
	lc := logger.DefaultConfig()
	lc.Level = c.LogLevel
	lc.Format = c.LogFormat
	lc.Environment = c.Environment
	lc.Dir = c.LogDir
	return lc
}
