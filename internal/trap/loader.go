package trap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/osse101/ashfall/internal/logger"
	"github.com/osse101/ashfall/internal/validation"
)

// Sentinel errors for the trap loader
var (
	ErrDuplicateID   = errors.New("duplicate trap id")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config represents the JSON configuration for traps
type Config struct {
	Version string `json:"version"`
	Traps   []Def  `json:"traps"`
}

// Set is the loaded traps keyed by id
type Set struct {
	traps   map[string]*Trap
	order   []string
	Unknown []string
}

// Get returns the trap with id
func (s *Set) Get(id string) (*Trap, bool) {
	t, ok := s.traps[id]
	return t, ok
}

// IDs returns the trap ids in file order
func (s *Set) IDs() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of traps
func (s *Set) Len() int {
	return len(s.order)
}

// Loader reads trap definitions and binds them to handlers
type Loader interface {
	Load(path string) (*Config, error)
	Parse(data []byte, source string) (*Config, error)
	Bind(ctx context.Context, config *Config) (*Set, error)
}

type trapLoader struct {
	schemaValidator validation.SchemaValidator
	registry        *Registry
}

// NewLoader creates a Loader resolving actions through registry
func NewLoader(registry *Registry) Loader {
	return &trapLoader{
		schemaValidator: validation.NewSchemaValidator(),
		registry:        registry,
	}
}

// Load reads and parses a traps JSON file
func (l *trapLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadConfigFileFailed, err)
	}
	return l.Parse(data, path)
}

// Parse validates data against the traps schema and decodes it
func (l *trapLoader) Parse(data []byte, source string) (*Config, error) {
	if err := l.schemaValidator.ValidateBytes(data, validation.TrapsSchema); err != nil {
		return nil, fmt.Errorf(ErrMsgSchemaFailed, source, err)
	}
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(ErrMsgParseConfigFailed, err)
	}
	return &config, nil
}

// Bind resolves every trap's action. Unknown actions fall back to none; each
// distinct unknown name is logged once and listed in Set.Unknown.
func (l *trapLoader) Bind(ctx context.Context, config *Config) (*Set, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	log := logger.FromContext(ctx)

	set := &Set{traps: make(map[string]*Trap, len(config.Traps))}
	reported := make(map[string]bool)
	for i, def := range config.Traps {
		if err := validation.Struct(def); err != nil {
			return nil, fmt.Errorf(ErrFmtTrapAtIndexInvalid, ErrInvalidConfig, i, err)
		}
		if _, ok := set.traps[def.ID]; ok {
			return nil, fmt.Errorf("%w: '%s'", ErrDuplicateID, def.ID)
		}

		h, ok := l.registry.Lookup(def.Action)
		if !ok {
			if !reported[def.Action] {
				reported[def.Action] = true
				set.Unknown = append(set.Unknown, def.Action)
				log.Warn(LogMsgUnknownAction, "trap", def.ID, "action", def.Action)
			}
			h = l.registry.Resolve(ActionNone)
		}
		set.traps[def.ID] = &Trap{Def: def, handler: h}
		set.order = append(set.order, def.ID)
	}
	log.Info(LogMsgTrapsLoaded, "traps", set.Len(), "unknown_actions", len(set.Unknown))
	return set, nil
}
