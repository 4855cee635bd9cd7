package craft

import (
	"context"

	"github.com/osse101/ashfall/internal/selection"
)

// Prompter asks whether to continue a craft whose selected components went
// missing. It receives the full missing list before the decision.
type Prompter interface {
	ConfirmContinue(ctx context.Context, missing selection.Missing) bool
}

// PromptFunc adapts a function to Prompter
type PromptFunc func(ctx context.Context, missing selection.Missing) bool

// ConfirmContinue calls f
func (f PromptFunc) ConfirmContinue(ctx context.Context, missing selection.Missing) bool {
	return f(ctx, missing)
}

// Headless answers every prompt with a fixed value, for batch and server callers
type Headless struct {
	Answer bool
}

// ConfirmContinue returns h.Answer
func (h Headless) ConfirmContinue(context.Context, selection.Missing) bool {
	return h.Answer
}
