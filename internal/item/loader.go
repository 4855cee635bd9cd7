package item

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/logger"
	"github.com/osse101/ashfall/internal/validation"
)

var (
	ErrDuplicateID   = errors.New("duplicate item id")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config is the decoded items.json
type Config struct {
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Items       []domain.ItemType `json:"items"`
}

// Loader turns items.json into a Catalog: Load or Parse checks the schema,
// Validate checks what the schema cannot express, Catalog indexes the result.
type Loader interface {
	Load(path string) (*Config, error)
	Parse(data []byte, source string) (*Config, error)
	Validate(config *Config) error
	Catalog(ctx context.Context, config *Config) (*Catalog, error)
}

type itemLoader struct {
	schemas validation.SchemaValidator
}

func NewLoader() Loader {
	return &itemLoader{schemas: validation.NewSchemaValidator()}
}

func (l *itemLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadConfigFileFailed, err)
	}
	return l.Parse(data, path)
}

func (l *itemLoader) Parse(data []byte, source string) (*Config, error) {
	if err := l.schemas.ValidateBytes(data, validation.ItemsSchema); err != nil {
		return nil, fmt.Errorf(ErrMsgSchemaFailed, source, err)
	}
	cfg := new(Config)
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf(ErrMsgParseConfigFailed, err)
	}
	return cfg, nil
}

// Validate reports every invalid item at once rather than stopping at the
// first, so a data author can fix the file in one pass.
func (l *itemLoader) Validate(config *Config) error {
	switch {
	case config == nil:
		return fmt.Errorf("%w: %s", ErrInvalidConfig, ErrMsgConfigNil)
	case len(config.Items) == 0:
		return fmt.Errorf("%w: %s", ErrInvalidConfig, ErrMsgNoItemsDefined)
	}

	var problems []error
	firstAt := make(map[string]int, len(config.Items))
	for i, t := range config.Items {
		if err := checkItem(t); err != nil {
			problems = append(problems, fmt.Errorf(ErrFmtItemAtIndexInvalid, ErrInvalidConfig, i, err))
			continue
		}
		if prev, dup := firstAt[t.ID]; dup {
			problems = append(problems, fmt.Errorf(ErrFmtDuplicateItem, ErrDuplicateID, t.ID, prev, i))
			continue
		}
		firstAt[t.ID] = i
	}
	for _, t := range config.Items {
		if t.Container == "" {
			continue
		}
		at, ok := firstAt[t.Container]
		if !ok || config.Items[at].Capacity == 0 {
			problems = append(problems, fmt.Errorf(ErrFmtContainerInvalid, ErrInvalidConfig, t.ID, t.Container))
		}
	}
	return errors.Join(problems...)
}

func checkItem(t domain.ItemType) error {
	if err := validation.Struct(&t); err != nil {
		return err
	}
	if t.MaxCharges > 0 && t.DefaultCharges > t.MaxCharges {
		return fmt.Errorf(ErrFmtItemChargesExceeded, t.ID, t.DefaultCharges, t.MaxCharges)
	}
	return nil
}

func (l *itemLoader) Catalog(ctx context.Context, config *Config) (*Catalog, error) {
	if err := l.Validate(config); err != nil {
		return nil, err
	}
	c := NewCatalog(config.Items...)
	logger.FromContext(ctx).Info(LogMsgCatalogLoaded, "items", c.Len())
	return c, nil
}
