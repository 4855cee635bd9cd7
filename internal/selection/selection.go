package selection

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/requirement"
)

// Pick is one concrete component of a chosen alternative and where it comes from
type Pick struct {
	Component requirement.Component `json:"component"`
	Use       domain.Usage          `json:"use"`
}

// Selection is the resolved choice for one requirement slot
type Selection struct {
	Slot        int    `json:"slot"`
	Alternative int    `json:"alternative"`
	Picks       []Pick `json:"picks"`
}

// Use returns the combined location tag of the picks
func (s Selection) Use() domain.Usage {
	var u domain.Usage
	for _, p := range s.Picks {
		u |= p.Use
	}
	return u
}

// MissingSlot describes a slot that could not be satisfied
type MissingSlot struct {
	Kind         requirement.Kind `json:"kind"`
	Slot         int              `json:"slot"`
	Alternatives requirement.Slot `json:"alternatives"`
}

// Missing is the complete list of unsatisfied slots of one resolution
type Missing struct {
	Components []MissingSlot `json:"components,omitempty"`
	Tools      []MissingSlot `json:"tools,omitempty"`
}

// Empty reports whether nothing is missing
func (m Missing) Empty() bool {
	return len(m.Components) == 0 && len(m.Tools) == 0
}

// All returns component slots followed by tool slots
func (m Missing) All() []MissingSlot {
	out := make([]MissingSlot, 0, len(m.Components)+len(m.Tools))
	out = append(out, m.Components...)
	return append(out, m.Tools...)
}

// Describe renders one line per missing slot, e.g. "2 Nails OR 1 Wire".
// name maps item ids to display names; nil uses the ids.
func (m Missing) Describe(name func(typeID string) string, batch int) []string {
	title := cases.Title(language.English)
	if name == nil {
		name = func(id string) string { return id }
	}

	lines := make([]string, 0, len(m.Components)+len(m.Tools))
	for _, ms := range m.All() {
		alts := make([]string, 0, len(ms.Alternatives))
		for _, alt := range ms.Alternatives {
			parts := make([]string, 0, len(alt))
			for _, c := range alt {
				label := title.String(name(c.TypeID))
				switch {
				case ms.Kind == requirement.KindTool && c.IsPresenceOnly():
					parts = append(parts, label)
				case ms.Kind == requirement.KindTool:
					parts = append(parts, fmt.Sprintf("%s (%d charges)", label, c.Scaled(batch)))
				default:
					parts = append(parts, fmt.Sprintf("%d %s", c.Scaled(batch), label))
				}
			}
			alts = append(alts, strings.Join(parts, " + "))
		}
		lines = append(lines, strings.Join(alts, " OR "))
	}
	return lines
}

// Error makes a Missing usable as a structured error value
type Error struct {
	Missing Missing
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrMsgMissingComponents, strings.Join(e.Missing.Describe(nil, 1), "; "))
}

// Unwrap lets errors.Is match domain.ErrMissingComponents
func (e *Error) Unwrap() error {
	return domain.ErrMissingComponents
}

// Result is the outcome of one selection run
type Result struct {
	Items   []Selection `json:"items"`
	Tools   []Selection `json:"tools"`
	Missing Missing     `json:"missing"`
}

// Complete reports whether every slot was resolved
func (r Result) Complete() bool {
	return r.Missing.Empty()
}
