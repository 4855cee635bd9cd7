package craft

import "fmt"

// State is the position of a command in its crafting attempt
type State int

const (
	StateInit State = iota
	StateSelecting
	StateReady
	StateBlocked
	StateValidating
	StateConsumed
	StateCancelled
)

var stateNames = [...]string{
	StateInit:       "init",
	StateSelecting:  "selecting",
	StateReady:      "ready",
	StateBlocked:    "blocked",
	StateValidating: "validating",
	StateConsumed:   "consumed",
	StateCancelled:  "cancelled",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Finished reports whether no further transition is possible
func (s State) Finished() bool {
	return s == StateConsumed || s == StateCancelled
}

// MarshalText implements encoding.TextMarshaler
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown craft state %q", string(b))
}
