package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/requirement"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describeSlots renders each slot on its own line, alternatives joined by OR
func describeSlots(slots []requirement.Slot, name func(string) string) []string {
	lines := make([]string, 0, len(slots))
	for _, slot := range slots {
		alts := make([]string, 0, len(slot))
		for _, alt := range slot {
			parts := make([]string, 0, len(alt))
			for _, c := range alt {
				if c.IsPresenceOnly() {
					parts = append(parts, name(c.TypeID))
					continue
				}
				parts = append(parts, fmt.Sprintf("%d %s", c.Quantity, name(c.TypeID)))
			}
			alts = append(alts, strings.Join(parts, " + "))
		}
		lines = append(lines, strings.Join(alts, " OR "))
	}
	return lines
}

// parseCounted parses "type", "type=count" or "type=count@charges" into
// items. Count is the number of units, or of charges for items counted by
// charges. @charges loads every unit with that many charges.
func parseCounted(args []string, catalog domain.Catalog) ([]domain.Item, error) {
	var items []domain.Item
	for _, arg := range args {
		arg, rawCharges, loaded := strings.Cut(arg, "@")
		typeID, count, err := splitCount(arg)
		if err != nil {
			return nil, err
		}
		t, ok := catalog.ItemType(typeID)
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", domain.ErrUnknownItem, typeID)
		}
		if t.CountByCharges() {
			items = append(items, domain.Item{TypeID: typeID, Charges: count})
			continue
		}
		charges := t.DefaultCharges
		if loaded {
			charges, err = strconv.Atoi(rawCharges)
			if err != nil || charges < 0 {
				return nil, fmt.Errorf("%w: bad charges in '%s@%s'", domain.ErrInvalidInput, arg, rawCharges)
			}
		}
		for range count {
			items = append(items, domain.Item{TypeID: typeID, Charges: charges})
		}
	}
	return items, nil
}

// parseSkills parses "skill=level" pairs
func parseSkills(args []string) (map[string]int, error) {
	skills := make(map[string]int, len(args))
	for _, arg := range args {
		name, level, err := splitCount(arg)
		if err != nil {
			return nil, err
		}
		skills[name] = level
	}
	return skills, nil
}

func splitCount(arg string) (string, int, error) {
	name, raw, found := strings.Cut(arg, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, fmt.Errorf("%w: empty name in '%s'", domain.ErrInvalidInput, arg)
	}
	if !found {
		return name, 1, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return "", 0, fmt.Errorf("%w: bad count in '%s'", domain.ErrInvalidInput, arg)
	}
	return name, n, nil
}
