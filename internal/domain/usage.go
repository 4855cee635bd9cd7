package domain

import "strings"

// Usage tags where a selected component comes from. Values are bit flags so that
// UseBoth == UseFromMap|UseFromPlayer.
type Usage int

const (
	UseFromMap    Usage = 1
	UseFromPlayer Usage = 2
	UseBoth       Usage = UseFromMap | UseFromPlayer
	UseNone       Usage = 4
	UseCancel     Usage = 8
)

var usageNames = map[Usage]string{
	UseFromMap:    "map",
	UseFromPlayer: "player",
	UseBoth:       "both",
	UseNone:       "none",
	UseCancel:     "cancel",
}

// String returns the lowercase tag name
func (u Usage) String() string {
	if name, ok := usageNames[u]; ok {
		return name
	}
	return "unknown"
}

// ParseUsage is the inverse of String; unknown names map to UseNone
func ParseUsage(s string) Usage {
	for u, name := range usageNames {
		if strings.EqualFold(name, s) {
			return u
		}
	}
	return UseNone
}

// MarshalText implements encoding.TextMarshaler
func (u Usage) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (u *Usage) UnmarshalText(b []byte) error {
	*u = ParseUsage(string(b))
	return nil
}

// Includes reports whether the location bit is set
func (u Usage) Includes(loc Usage) bool {
	return u&loc != 0 && u&(UseNone|UseCancel) == 0
}
