package recipedict

const (
	// DefaultSuggestCacheSize bounds the fuzzy lookup memo
	DefaultSuggestCacheSize = 256

	// MinSuggestDistance is the smallest edit distance Suggest tolerates
	MinSuggestDistance = 2
)

// Error and panic messages
const (
	PanicMsgIndexDesync = "recipe dictionary: %s index has no entry for '%s'"

	ErrMsgListDuplicate = "recipe '%s' appears more than once in the primary list"
	ErrMsgIndexSize     = "index sizes diverged: list=%d name=%d index=%d"
	ErrMsgDanglingEntry = "%s index refers to '%s' which is not in the primary list"
	ErrMsgMissingEntry  = "%s index has no entry for '%s'"
)

// Log messages
const (
	LogMsgRecipeRefused    = "Recipe refused by dictionary"
	LogMsgDictionaryLoaded = "Recipe dictionary loaded"
)
