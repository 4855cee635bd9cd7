package trap

import (
	"context"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/logger"
)

// BodyPart names a part that can take damage
type BodyPart string

const (
	Torso BodyPart = "torso"
	Head  BodyPart = "head"
	ArmL  BodyPart = "arm_l"
	ArmR  BodyPart = "arm_r"
	LegL  BodyPart = "leg_l"
	LegR  BodyPart = "leg_r"
	FootL BodyPart = "foot_l"
	FootR BodyPart = "foot_r"
)

// AllBodyParts lists every body part in a stable order
var AllBodyParts = []BodyPart{Torso, Head, ArmL, ArmR, LegL, LegR, FootL, FootR}

// Size is a creature size class
type Size int

const (
	SizeTiny Size = iota
	SizeSmall
	SizeMedium
	SizeLarge
	SizeHuge
)

// VictimKind tells characters and monsters apart
type VictimKind int

const (
	KindPlayer VictimKind = iota
	KindNPC
	KindMonster
)

// Victim is what stepped on a trap. A nil *Victim means the trap went off
// on its own.
type Victim struct {
	Name  string
	Kind  VictimKind
	Size  Size
	Dodge int
	Dex   int
}

// IsMonster reports whether the victim is a monster
func (v *Victim) IsMonster() bool { return v.Kind == KindMonster }

// Outcome is everything a triggered trap does. The caller applies it.
type Outcome struct {
	Skipped   bool             `json:"skipped,omitempty"`
	Sound     string           `json:"sound,omitempty"`
	Volume    int              `json:"volume,omitempty"`
	Messages  []string         `json:"messages,omitempty"`
	Damage    map[BodyPart]int `json:"damage,omitempty"`
	Effects   []string         `json:"effects,omitempty"`
	Moves     int              `json:"moves,omitempty"`
	Explosion int              `json:"explosion,omitempty"`
	Removed   bool             `json:"removed,omitempty"`
	Spawned   []domain.Item    `json:"spawned,omitempty"`
}

func (o *Outcome) say(msg string) {
	if msg != "" {
		o.Messages = append(o.Messages, msg)
	}
}

func (o *Outcome) hurt(part BodyPart, n int) {
	if n <= 0 {
		return
	}
	if o.Damage == nil {
		o.Damage = make(map[BodyPart]int)
	}
	o.Damage[part] += n
}

func (o *Outcome) spawn(typeID string, charges int) {
	o.Spawned = append(o.Spawned, domain.Item{TypeID: typeID, Charges: charges})
}

// TotalDamage sums damage over every body part
func (o Outcome) TotalDamage() int {
	total := 0
	for _, n := range o.Damage {
		total += n
	}
	return total
}

// Def is a trap as written in traps.json
type Def struct {
	ID         string `json:"id" validate:"required"`
	Name       string `json:"name"`
	Action     string `json:"action" validate:"required"`
	Visibility int    `json:"visibility"`
	Avoidance  int    `json:"avoidance"`
	Difficulty int    `json:"difficulty"`
}

// Trap is a definition bound to its handler
type Trap struct {
	Def
	handler Handler
}

// Trigger runs the trap's handler against v
func (t *Trap) Trigger(ctx context.Context, v *Victim, rnd Rand) Outcome {
	out := t.handler.Trigger(v, rnd)
	if !out.Skipped {
		victim := ""
		if v != nil {
			victim = v.Name
		}
		logger.FromContext(ctx).Debug(LogMsgTrapTriggered, "trap", t.ID, "action", t.Action,
			"victim", victim, "damage", out.TotalDamage(), "removed", out.Removed)
	}
	return out
}
