package validation

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Embedded definition schemas
const (
	RecipesSchema = "recipes.schema.json"
	ItemsSchema   = "items.schema.json"
	TrapsSchema   = "traps.schema.json"
)

//go:embed schemas/*.schema.json
var embeddedSchemas embed.FS

// SchemaValidator checks data files against named JSON schemas
type SchemaValidator interface {
	ValidateFile(dataPath, schemaName string) error
	ValidateBytes(data []byte, schemaName string) error
}

type schemaValidator struct {
	fsys    fs.FS
	printer *message.Printer

	mu       sync.Mutex
	compiler *jsonschema.Compiler
	compiled map[string]*jsonschema.Schema
}

// NewSchemaValidator validates against the schemas compiled into the binary
func NewSchemaValidator() SchemaValidator {
	sub, err := fs.Sub(embeddedSchemas, "schemas")
	if err != nil {
		panic(err)
	}
	return NewSchemaValidatorFS(sub)
}

// NewSchemaValidatorFS reads schemas from fsys on first use
func NewSchemaValidatorFS(fsys fs.FS) SchemaValidator {
	return &schemaValidator{
		fsys:     fsys,
		printer:  message.NewPrinter(language.English),
		compiler: jsonschema.NewCompiler(),
		compiled: make(map[string]*jsonschema.Schema),
	}
}

func (v *schemaValidator) ValidateFile(dataPath, schemaName string) error {
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("failed to read data file %s: %w", dataPath, err)
	}
	return v.ValidateBytes(data, schemaName)
}

func (v *schemaValidator) ValidateBytes(data []byte, schemaName string) error {
	schema, err := v.schema(schemaName)
	if err != nil {
		return fmt.Errorf("failed to load schema %s: %w", schemaName, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse JSON data: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return v.describe(err)
	}
	return nil
}

// schema compiles name on first use
func (v *schemaValidator) schema(name string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.compiled[name]; ok {
		return s, nil
	}
	f, err := v.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := jsonschema.UnmarshalJSON(f)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if err := v.compiler.AddResource(name, doc); err != nil {
		return nil, err
	}
	s, err := v.compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	v.compiled[name] = s
	return s, nil
}

// describe flattens a validation error tree to one line per failing leaf:
// where it failed, which keyword, and the library's English message.
func (v *schemaValidator) describe(err error) error {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("validation error: %w", err)
	}
	var lines []string
	v.leaves(verr, &lines)
	return fmt.Errorf("schema validation failed:\n%s", strings.Join(lines, "\n"))
}

func (v *schemaValidator) leaves(e *jsonschema.ValidationError, lines *[]string) {
	for _, c := range e.Causes {
		v.leaves(c, lines)
	}
	if len(e.Causes) > 0 {
		return
	}

	at := "(root)"
	if len(e.InstanceLocation) > 0 {
		at = "/" + strings.Join(e.InstanceLocation, "/")
	}
	if e.ErrorKind == nil {
		*lines = append(*lines, fmt.Sprintf("  - at %s: validation failed", at))
		return
	}
	keyword := strings.Join(e.ErrorKind.KeywordPath(), ".")
	*lines = append(*lines, fmt.Sprintf("  - at %s: %s: %s", at, keyword, e.ErrorKind.LocalizedString(v.printer)))
}
