package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Item errors
	ErrMsgUnknownItem          = "unknown item type"
	ErrMsgInsufficientQuantity = "insufficient quantity"
	ErrMsgInsufficientCharges  = "insufficient charges"

	// Recipe errors
	ErrMsgRecipeNotFound      = "recipe not found"
	ErrMsgInvalidRecipe       = "invalid recipe"
	ErrMsgDuplicateRecipe     = "duplicate recipe"
	ErrMsgRecipeNotReversible = "recipe is not reversible"
	ErrMsgRecipeUnknown       = "recipe is not known"

	// Crafting errors
	ErrMsgMissingComponents = "missing components"
	ErrMsgCraftNotFound     = "craft not found"
	ErrMsgCraftFinished     = "craft already finished"
	ErrMsgInvalidBatch      = "batch size must be positive"
	ErrMsgNoContainer       = "not enough containers for the result"

	// Activity errors
	ErrMsgActivityNotFound = "activity not found"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrUnknownItem          = errors.New(ErrMsgUnknownItem)
	ErrInsufficientQuantity = errors.New(ErrMsgInsufficientQuantity)
	ErrInsufficientCharges  = errors.New(ErrMsgInsufficientCharges)

	ErrRecipeNotFound      = errors.New(ErrMsgRecipeNotFound)
	ErrInvalidRecipe       = errors.New(ErrMsgInvalidRecipe)
	ErrDuplicateRecipe     = errors.New(ErrMsgDuplicateRecipe)
	ErrRecipeNotReversible = errors.New(ErrMsgRecipeNotReversible)
	ErrRecipeUnknown       = errors.New(ErrMsgRecipeUnknown)

	ErrMissingComponents = errors.New(ErrMsgMissingComponents)
	ErrCraftNotFound     = errors.New(ErrMsgCraftNotFound)
	ErrCraftFinished     = errors.New(ErrMsgCraftFinished)
	ErrInvalidBatch      = errors.New(ErrMsgInvalidBatch)
	ErrNoContainer       = errors.New(ErrMsgNoContainer)

	ErrActivityNotFound = errors.New(ErrMsgActivityNotFound)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
