package handler

// Health statuses and messages
const (
	StatusOK                 = "ok"
	StatusUnavailable        = "unavailable"
	MsgDependencyUnavailable = "a dependency is unavailable"
	MsgNoExternalStores      = "no external stores configured"
)

// Version reporting
const (
	EnvVersion     = "VERSION"
	DefaultVersion = "dev"
)

// Query parameters
const (
	QueryCategory    = "category"
	QuerySubcategory = "subcategory"
	QueryComponent   = "component"
	QueryResult      = "result"
	QueryQ           = "q"
	QueryLimit       = "limit"
)

// Suggestion limits
const (
	DefaultSuggestLimit = 5
	MaxSuggestLimit     = 25
)

// Log messages
const (
	LogMsgReadinessFailed  = "Readiness check failed"
	LogMsgEncodeFailed     = "Failed to encode JSON response"
	LogMsgWriteFailed      = "Failed to write response"
	LogMsgRecipesListed    = "Recipes listed"
	LogMsgRecipeLookup     = "Recipe lookup"
	LogMsgKnownRecipesFail = "Failed to list known recipes"
)
