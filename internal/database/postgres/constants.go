package postgres

// Error Messages - Known recipe operations
const (
	ErrMsgFailedToListKnownRecipes = "failed to list known recipes"
	ErrMsgFailedToCheckKnownRecipe = "failed to check known recipe"
	ErrMsgFailedToLearnRecipe      = "failed to learn recipe"
	ErrMsgFailedToForgetRecipe     = "failed to forget recipe"
)
