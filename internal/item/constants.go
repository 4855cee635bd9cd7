package item

// ConfigFileName is the name of the item definitions file inside the data dir
const ConfigFileName = "items.json"

// File operation error messages
const (
	ErrMsgReadConfigFileFailed = "failed to read items config file: %w"
	ErrMsgParseConfigFailed    = "failed to parse items config: %w"
	ErrMsgSchemaFailed         = "schema validation failed for %s: %w"
)

// Validation error messages
const (
	ErrMsgConfigNil      = "config is nil"
	ErrMsgNoItemsDefined = "no items defined"
)

// Format strings for error construction
const (
	ErrFmtItemAtIndexInvalid  = "%w: item at index %d: %v"
	ErrFmtItemChargesExceeded = "item '%s' default_charges %d exceeds max_charges %d"
	ErrFmtDuplicateItem       = "%w: '%s' at index %d and %d"
	ErrFmtContainerInvalid    = "%w: item '%s' container '%s' is not a defined item with a capacity"
)

// Log messages
const (
	LogMsgCatalogLoaded = "Item catalog loaded"
)
