package craft

// Log messages
const (
	LogMsgSelectionCached   = "Component selection cached"
	LogMsgSelectionReused   = "Reusing cached component selection"
	LogMsgCraftBlocked      = "Craft blocked on missing components"
	LogMsgCraftScheduled    = "Craft scheduled"
	LogMsgComponentsMissing = "Selected components no longer available"
	LogMsgCraftCancelled    = "Craft cancelled"
	LogMsgComponentsUsed    = "Components consumed"
)

// Panic messages for misuse of a command
const (
	PanicMsgConsumeBeforeExecute = "craft: ConsumeComponents called before Execute"
	PanicMsgConsumeTwice         = "craft: ConsumeComponents called on a consumed command"
)

// Error messages
const (
	ErrMsgRecipeChanged = "recipe handle no longer matches"
	ErrMsgNotResumable  = "command cannot be resumed from state"
)
