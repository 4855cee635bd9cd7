package activity

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Kind names what an activity does when it completes
type Kind string

const (
	KindCraft       Kind = "craft"
	KindDisassemble Kind = "disassemble"
)

// Activity is a multi-turn action measured in movement points
type Activity struct {
	ID      uuid.UUID `json:"id"`
	Kind    Kind      `json:"kind"`
	Owner   string    `json:"owner"`
	Moves   int       `json:"moves"`
	Elapsed int       `json:"elapsed"`
	Long    bool      `json:"long"`
}

// Remaining returns the moves still to spend
func (a Activity) Remaining() int {
	return max(a.Moves-a.Elapsed, 0)
}

// Done reports whether every move has been spent
func (a Activity) Done() bool {
	return a.Elapsed >= a.Moves
}

// Record is what a Store keeps for a suspended activity: the activity plus
// the owner-specific state needed to resume it.
type Record struct {
	Activity Activity        `json:"activity"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}
