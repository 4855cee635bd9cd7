package recipe

// ConfigFileName is the name of the recipe definitions file inside the data dir
const ConfigFileName = "recipes.json"

// ============================================================================
// Recipe Constants
// ============================================================================

const (
	// NoSkillsRequired is returned by RequiredSkillsString for recipes without secondary skills
	NoSkillsRequired = "none"

	// MinDiscountedUnitTime is the floor for the cost of a batch-discounted unit
	MinDiscountedUnitTime = 1.0

	// DefaultResultMult is used when a definition omits result_mult
	DefaultResultMult = 1
)

// ============================================================================
// Loader Messages
// ============================================================================

const (
	ErrMsgReadDefinitionsFailed  = "failed to read recipe definitions: %w"
	ErrMsgParseDefinitionsFailed = "failed to parse recipe definitions: %w"
	ErrMsgSchemaValidationFailed = "schema validation failed for %s: %w"

	LogMsgRecipeRejected = "Recipe definition rejected"
	LogMsgRecipesLoaded  = "Recipe definitions loaded"
)
