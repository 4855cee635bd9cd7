package trap

import (
	"fmt"
	"strings"
)

var builtin = map[string]Handler{
	ActionNone:      HandlerFunc(none),
	"bubble":        HandlerFunc(bubble),
	"cot":           HandlerFunc(cot),
	"beartrap":      HandlerFunc(beartrap),
	"board":         HandlerFunc(board),
	"caltrops":      HandlerFunc(caltrops),
	"tripwire":      HandlerFunc(tripwire),
	"crossbow":      HandlerFunc(crossbow),
	"landmine":      HandlerFunc(landmine),
	"pit":           HandlerFunc(pit),
	"pit_spikes":    HandlerFunc(pitSpikes),
	"glow":          HandlerFunc(glow),
	"hum":           HandlerFunc(hum),
	"shotgun":       flavor("You trigger a shotgun trap!", "%s triggers a shotgun trap!"),
	"blade":         flavor("A blade swings out and hacks your torso!", "A blade swings out and hacks %s's torso!"),
	"snare_light":   flavor("A snare closes on your leg.", "A snare closes on %s's leg."),
	"snare_heavy":   flavor("A snare closes on your leg.", "A snare closes on %s's leg."),
	"boobytrap":     flavor("You trigger a booby trap!", "%s triggers a booby trap!"),
	"telepad":       flavor("The air shimmers around you...", "The air shimmers around %s..."),
	"goo":           flavor("You step in a puddle of thick goo.", "%s steps in a puddle of thick goo."),
	"dissector":     flavor("Electrical beams emit from the floor and slice your flesh!", "Electrical beams emit from the floor and slice %s's flesh!"),
	"pit_glass":     flavor("You fall in a pit filled with glass shards!", "%s falls in pit filled with glass shards!"),
	"lava":          flavor("The lava burns you horribly!", "The lava burns %s horribly!"),
	"portal":        flavor("The portal hums.", "The portal hums."),
	"sinkhole":      flavor("You step into a sinkhole!", "%s steps into a sinkhole!"),
	"ledge":         flavor("You fall down a level!", "%s falls down a level!"),
	"temple_flood":  flavor("You step on a loose tile, and water starts to flood the room!", "%s steps on a loose tile."),
	"temple_toggle": flavor("You hear the grinding of shifting rock.", "You hear the grinding of shifting rock."),
	"shadow":        flavor("A shadow forms nearby.", "A shadow forms nearby."),
	"drain":         flavor("You feel your life force sapping away.", "%s looks pale."),
	"snake":         flavor("A shadowy snake forms nearby.", "A shadowy snake forms nearby."),
	"chunkblower":   flavor("You are hit by a spray of chunks!", "%s is hit by a spray of chunks!"),
}

// tell picks the message form for the victim: second person for the player,
// third person with the name otherwise
func tell(v *Victim, you, other string) string {
	if v.Kind == KindPlayer {
		return you
	}
	if !strings.Contains(other, "%s") {
		return other
	}
	return fmt.Sprintf(other, v.Name)
}

func tiny(v *Victim) bool { return v != nil && v.Size == SizeTiny }

// flavor builds a handler that only reports what happened
func flavor(you, other string) Handler {
	return HandlerFunc(func(v *Victim, _ Rand) Outcome {
		var out Outcome
		if v != nil {
			out.say(tell(v, you, other))
		}
		return out
	})
}

func none(*Victim, Rand) Outcome { return Outcome{} }

func bubble(v *Victim, _ Rand) Outcome {
	if tiny(v) {
		return Outcome{Skipped: true}
	}
	out := Outcome{Sound: "Pop!", Volume: 18, Removed: true}
	if v != nil {
		out.say(tell(v, "You step on some bubble wrap!", "%s steps on some bubble wrap!"))
	}
	return out
}

func cot(v *Victim, _ Rand) Outcome {
	var out Outcome
	if v != nil && v.IsMonster() {
		out.say(fmt.Sprintf("The %s stumbles over the cot", v.Name))
		out.Moves = 100
	}
	return out
}

func beartrap(v *Victim, rnd Rand) Outcome {
	if tiny(v) {
		return Outcome{Skipped: true}
	}
	out := Outcome{Sound: "SNAP!", Volume: 8, Removed: true}
	if v == nil {
		out.spawn("beartrap", 0)
		return out
	}
	hit := LegR
	if rnd.oneIn(2) {
		hit = LegL
	}
	out.say(tell(v, "A bear trap closes on your foot!", "A bear trap closes on %s's foot!"))
	out.Effects = append(out.Effects, "beartrap")
	out.hurt(hit, 30)
	return out
}

func board(v *Victim, rnd Rand) Outcome {
	if tiny(v) {
		return Outcome{Skipped: true}
	}
	var out Outcome
	if v == nil {
		return out
	}
	out.say(tell(v, "You step on a spiked board!", "%s steps on a spiked board!"))
	if v.IsMonster() {
		out.Moves = 80
		out.hurt(FootL, rnd.between(3, 5))
		out.hurt(FootR, rnd.between(3, 5))
		return out
	}
	out.hurt(FootL, rnd.between(6, 10))
	out.hurt(FootR, rnd.between(6, 10))
	return out
}

func caltrops(v *Victim, rnd Rand) Outcome {
	if tiny(v) {
		return Outcome{Skipped: true}
	}
	var out Outcome
	if v == nil {
		return out
	}
	out.say(tell(v, "You step on a sharp metal caltrop!", "%s steps on a sharp metal caltrop!"))
	if v.IsMonster() {
		out.Moves = 80
		out.hurt(FootL, rnd.between(9, 15))
		out.hurt(FootR, rnd.between(9, 15))
		return out
	}
	out.hurt(FootL, rnd.between(9, 30))
	out.hurt(FootR, rnd.between(9, 30))
	return out
}

func tripwire(v *Victim, rnd Rand) Outcome {
	if tiny(v) {
		return Outcome{Skipped: true}
	}
	var out Outcome
	if v == nil {
		return out
	}
	out.say(tell(v, "You trip over a tripwire!", "%s trips over a tripwire!"))
	if v.IsMonster() {
		out.Effects = append(out.Effects, "stumble")
		if rnd.between(0, 10) > v.Dodge {
			out.hurt(Torso, rnd.between(1, 4))
		}
		return out
	}
	out.Effects = append(out.Effects, "displaced")
	out.Moves = 150
	if rnd.between(5, 20) > v.Dex {
		n := rnd.between(1, 4)
		for _, part := range AllBodyParts {
			out.hurt(part, n)
		}
	}
	return out
}

// crossbowHit maps a d10 roll to the part a bolt strikes
func crossbowHit(rnd Rand) BodyPart {
	switch roll := rnd.between(1, 10); {
	case roll == 1:
		if rnd.oneIn(2) {
			return FootL
		}
		return FootR
	case roll <= 4:
		if rnd.oneIn(2) {
			return LegL
		}
		return LegR
	case roll <= 9:
		return Torso
	default:
		return Head
	}
}

var crossbowOdds = map[Size]int{SizeTiny: 50, SizeSmall: 8, SizeMedium: 6, SizeLarge: 4, SizeHuge: 1}

func crossbow(v *Victim, rnd Rand) Outcome {
	out := Outcome{Removed: true}
	addBolt := true
	if v != nil {
		out.say(tell(v, "You trigger a crossbow trap!", "%s triggers a crossbow trap!"))
		switch {
		case v.IsMonster():
			if rnd.oneIn(crossbowOdds[v.Size]) {
				out.say(fmt.Sprintf("A bolt shoots out and hits the %s!", v.Name))
				out.hurt(Torso, rnd.between(20, 30))
				addBolt = !rnd.oneIn(10)
			} else {
				out.say(fmt.Sprintf("A bolt shoots out, but misses the %s.", v.Name))
			}
		case !rnd.oneIn(4) && rnd.between(8, 20) > v.Dodge:
			hit := crossbowHit(rnd)
			out.say(fmt.Sprintf("%s %s is hit!", possessive(v), hit))
			out.hurt(hit, rnd.between(20, 30))
			addBolt = !rnd.oneIn(10)
		default:
			out.say(tell(v, "You dodge the shot!", "%s dodges the shot!"))
		}
	}
	out.spawn("crossbow", 0)
	out.spawn("string_6", 0)
	if addBolt {
		out.spawn("bolt_steel", 1)
	}
	return out
}

func possessive(v *Victim) string {
	if v.Kind == KindPlayer {
		return "Your"
	}
	return v.Name + "'s"
}

func landmine(v *Victim, _ Rand) Outcome {
	if tiny(v) {
		return Outcome{Skipped: true}
	}
	out := Outcome{Explosion: 10, Removed: true}
	if v != nil {
		out.say(tell(v, "You trigger a land mine!", "%s triggers a land mine!"))
	}
	return out
}

func pit(v *Victim, rnd Rand) Outcome {
	if tiny(v) {
		return Outcome{Skipped: true}
	}
	var out Outcome
	if v == nil {
		return out
	}
	out.say(tell(v, "You fall in a pit!", "%s falls in a pit!"))
	out.Effects = append(out.Effects, "in_pit")
	if v.IsMonster() {
		out.hurt(Torso, rnd.between(10, 20))
		return out
	}
	damage := rnd.between(10, 20) - rnd.between(v.Dodge, v.Dodge*5)
	if damage > 0 {
		out.say(tell(v, "You hurt yourself!", "%s is hurt by the fall!"))
		out.hurt(LegL, damage)
		out.hurt(LegR, damage)
	} else {
		out.say(tell(v, "You land nimbly.", "%s lands nimbly."))
	}
	return out
}

// spikeHit maps a d10 roll to the part the spikes strike
func spikeHit(rnd Rand) BodyPart {
	switch rnd.between(1, 10) {
	case 1:
		return LegL
	case 2:
		return LegR
	case 3:
		return ArmL
	case 4:
		return ArmR
	default:
		return Torso
	}
}

func pitSpikes(v *Victim, rnd Rand) Outcome {
	if tiny(v) {
		return Outcome{Skipped: true}
	}
	var out Outcome
	if v != nil {
		out.say(tell(v, "You fall in a spiked pit!", "%s falls in a spiked pit!"))
		out.Effects = append(out.Effects, "in_pit")
		switch damage := rnd.between(20, 50); {
		case v.IsMonster():
			out.hurt(Torso, damage)
		case rnd.between(5, 30) < v.Dodge:
			out.say(tell(v, "You avoid the spikes within.", "%s avoids the spikes within."))
		default:
			hit := spikeHit(rnd)
			out.say(fmt.Sprintf("The spikes impale %s %s!", lowerPossessive(v), hit))
			out.hurt(hit, damage)
		}
	}
	if rnd.oneIn(4) {
		out.say("The spears break!")
		for i := 0; i < 4; i++ {
			if rnd.oneIn(3) {
				out.spawn("pointy_stick", 0)
			}
		}
	}
	return out
}

func lowerPossessive(v *Victim) string {
	if v.Kind == KindPlayer {
		return "your"
	}
	return v.Name + "'s"
}

func glow(v *Victim, rnd Rand) Outcome {
	var out Outcome
	if v == nil {
		return out
	}
	if v.IsMonster() {
		if rnd.oneIn(3) {
			out.hurt(Torso, rnd.between(5, 10))
			out.Effects = append(out.Effects, "slowed")
		}
		return out
	}
	switch {
	case rnd.oneIn(3):
		out.say(tell(v, "You're bathed in radiation!", "%s is bathed in radiation!"))
		out.Effects = append(out.Effects, fmt.Sprintf("radiation:%d", rnd.between(10, 30)))
	case rnd.oneIn(4):
		out.say(tell(v, "A blinding flash strikes you!", "A blinding flash strikes %s!"))
		out.Effects = append(out.Effects, "flashbang")
	default:
		out.say(tell(v, "Small flashes surround you.", ""))
	}
	return out
}

func hum(_ *Victim, rnd Rand) Outcome {
	volume := rnd.between(1, 200)
	out := Outcome{Volume: volume}
	switch {
	case volume <= 10:
		out.Sound = "hrm"
	case volume <= 50:
		out.Sound = "hrmmm"
	case volume <= 100:
		out.Sound = "HRMMM"
	default:
		out.Sound = "VRMMMMMM"
	}
	return out
}
