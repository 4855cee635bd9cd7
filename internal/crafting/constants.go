package crafting

// Sources recorded when a recipe becomes known
const (
	LearnSourceCraft       = "craft"
	LearnSourceDisassembly = "disassembly"
	LearnSourceManual      = "manual"
	LearnSourceBook        = "book"
)

// Event metadata keys
const (
	MetadataKeyRecipe  = "recipe"
	MetadataKeyCrafter = "crafter"
	MetadataKeySource  = "source"
)

// Log messages
const (
	LogMsgCraftStarted       = "Craft started"
	LogMsgCraftCompleted     = "Craft completed"
	LogMsgCraftBlocked       = "Craft blocked"
	LogMsgCraftCancelled     = "Craft cancelled"
	LogMsgCraftSuspended     = "Craft suspended"
	LogMsgCraftResumed       = "Craft resumed"
	LogMsgItemDisassembled   = "Item disassembled"
	LogMsgRecipeLearned      = "Recipe learned"
	LogMsgPublishFailed      = "Failed to publish event"
	LogMsgCompleteFailed     = "Failed to complete craft"
	LogMsgUntrackedActivity  = "Completed activity has no craft attached"
	LogMsgKnownRecipesFailed = "Failed to read known recipes"
	LogMsgNoContainer        = "Not enough containers for the result"
	LogMsgContainersLost     = "Failed to take containers for the result"
	LogMsgBatchSizes         = "Batch sizes listed"
)

// Error messages
const (
	ErrMsgDidYouMeanFmt   = "%s (did you mean: %s)"
	ErrMsgNoRecipeForItem = "no recipe produces item"
	ErrMsgCrafterMismatch = "activity belongs to another crafter"
	ErrMsgNotRunning      = "is not running"
	ErrMsgBookNotHeld     = "crafter does not have the book"
	ErrMsgContainersFmt   = "%s needs %d %s, have %d"
)

// SuggestLimit caps the names offered for an unknown recipe
const SuggestLimit = 3

// BatchSizeLimit is the largest batch size AvailableBatchSizes considers
const BatchSizeLimit = 50
