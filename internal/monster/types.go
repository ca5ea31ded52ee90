package monster

import (
	"fmt"
	"strings"
)

// Type is an elemental type.
type Type int

const (
	Normal Type = iota + 1
	Fire
	Water
	Electric
	Grass
	Ice
	Fighting
	Poison
	Ground
	Flying
	Psychic
	Bug
	Rock
	Ghost
	Dragon
	Dark
	Steel
	Fairy
)

var typeNames = [...]string{
	Normal:   "Normal",
	Fire:     "Fire",
	Water:    "Water",
	Electric: "Electric",
	Grass:    "Grass",
	Ice:      "Ice",
	Fighting: "Fighting",
	Poison:   "Poison",
	Ground:   "Ground",
	Flying:   "Flying",
	Psychic:  "Psychic",
	Bug:      "Bug",
	Rock:     "Rock",
	Ghost:    "Ghost",
	Dragon:   "Dragon",
	Dark:     "Dark",
	Steel:    "Steel",
	Fairy:    "Fairy",
}

// AllTypes returns every type in declaration order.
func AllTypes() []Type {
	out := make([]Type, 0, len(typeNames)-1)
	for t := Normal; t <= Fairy; t++ {
		out = append(out, t)
	}
	return out
}

func (t Type) String() string {
	if t < Normal || t > Fairy {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType resolves a type by name, case-insensitively.
func ParseType(name string) (Type, error) {
	for t := Normal; t <= Fairy; t++ {
		if strings.EqualFold(typeNames[t], name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Effectiveness is how well an attacking type hits a defending type.
type Effectiveness int

const (
	NoEffect Effectiveness = iota
	NotVeryEffective
	Regular
	SuperEffective
)

func (e Effectiveness) String() string {
	switch e {
	case NoEffect:
		return "no effect"
	case NotVeryEffective:
		return "not very effective"
	case Regular:
		return "regular"
	case SuperEffective:
		return "super effective"
	default:
		return "unknown"
	}
}

// Scale returns the damage multiplier as a fraction.
func (e Effectiveness) Scale() (num, den int) {
	switch e {
	case NoEffect:
		return 0, 1
	case NotVeryEffective:
		return 1, 2
	case SuperEffective:
		return 2, 1
	default:
		return 1, 1
	}
}

// effectivenessTable lists, per attacking type, the defenders that deviate
// from Regular. Anything not listed is Regular.
var effectivenessTable = map[Type]map[Type]Effectiveness{
	Normal: {
		Ghost: NoEffect,
		Rock:  NotVeryEffective, Steel: NotVeryEffective,
	},
	Fire: {
		Fire: NotVeryEffective, Water: NotVeryEffective, Rock: NotVeryEffective, Dragon: NotVeryEffective,
		Grass: SuperEffective, Ice: SuperEffective, Bug: SuperEffective, Steel: SuperEffective,
	},
	Water: {
		Water: NotVeryEffective, Grass: NotVeryEffective, Dragon: NotVeryEffective,
		Fire: SuperEffective, Ground: SuperEffective, Rock: SuperEffective,
	},
	Electric: {
		Ground:   NoEffect,
		Electric: NotVeryEffective, Grass: NotVeryEffective, Dragon: NotVeryEffective,
		Water: SuperEffective, Flying: SuperEffective,
	},
	Grass: {
		Fire: NotVeryEffective, Grass: NotVeryEffective, Poison: NotVeryEffective, Flying: NotVeryEffective,
		Bug: NotVeryEffective, Dragon: NotVeryEffective, Steel: NotVeryEffective,
		Water: SuperEffective, Ground: SuperEffective, Rock: SuperEffective,
	},
	Ice: {
		Fire: NotVeryEffective, Water: NotVeryEffective, Ice: NotVeryEffective, Steel: NotVeryEffective,
		Grass: SuperEffective, Ground: SuperEffective, Flying: SuperEffective, Dragon: SuperEffective,
	},
	Fighting: {
		Poison: NotVeryEffective, Flying: NotVeryEffective, Psychic: NotVeryEffective, Bug: NotVeryEffective,
		Fairy:  NotVeryEffective,
		Normal: SuperEffective, Ice: SuperEffective, Rock: SuperEffective, Dark: SuperEffective, Steel: SuperEffective,
		Ghost: NoEffect,
	},
	Poison: {
		Steel:  NoEffect,
		Poison: NotVeryEffective, Ground: NotVeryEffective, Rock: NotVeryEffective, Ghost: NotVeryEffective,
		Grass: SuperEffective, Fairy: SuperEffective,
	},
	Ground: {
		Flying: NoEffect,
		Grass:  NotVeryEffective, Bug: NotVeryEffective,
		Fire: SuperEffective, Electric: SuperEffective, Poison: SuperEffective, Rock: SuperEffective, Steel: SuperEffective,
	},
	Flying: {
		Electric: NotVeryEffective, Rock: NotVeryEffective, Steel: NotVeryEffective,
		Grass: SuperEffective, Fighting: SuperEffective, Bug: SuperEffective,
	},
	Psychic: {
		Dark:    NoEffect,
		Psychic: NotVeryEffective, Steel: NotVeryEffective,
		Fighting: SuperEffective, Poison: SuperEffective,
	},
	Bug: {
		Fire: NotVeryEffective, Fighting: NotVeryEffective, Poison: NotVeryEffective, Flying: NotVeryEffective,
		Ghost: NotVeryEffective, Steel: NotVeryEffective, Fairy: NotVeryEffective,
		Grass: SuperEffective, Psychic: SuperEffective, Dark: SuperEffective,
	},
	Rock: {
		Fighting: NotVeryEffective, Ground: NotVeryEffective, Steel: NotVeryEffective,
		Fire: SuperEffective, Ice: SuperEffective, Flying: SuperEffective, Bug: SuperEffective,
	},
	Ghost: {
		Normal: NoEffect,
		Dark:   NotVeryEffective,
		Psychic: SuperEffective, Ghost: SuperEffective,
	},
	Dragon: {
		Fairy:  NoEffect,
		Steel:  NotVeryEffective,
		Dragon: SuperEffective,
	},
	Dark: {
		Fighting: NotVeryEffective, Dragon: NotVeryEffective, Fairy: NotVeryEffective,
		Psychic: SuperEffective, Ghost: SuperEffective,
	},
	Steel: {
		Fire: NotVeryEffective, Water: NotVeryEffective, Electric: NotVeryEffective, Steel: NotVeryEffective,
		Ice: SuperEffective, Rock: SuperEffective, Fairy: SuperEffective,
	},
	Fairy: {
		Fire: NotVeryEffective, Poison: NotVeryEffective, Steel: NotVeryEffective,
		Fighting: SuperEffective, Dragon: SuperEffective, Dark: SuperEffective,
	},
}

// EffectivenessOn returns how well t hits defender.
func (t Type) EffectivenessOn(defender Type) Effectiveness {
	if e, ok := effectivenessTable[t][defender]; ok {
		return e
	}
	return Regular
}

// Multiplier returns the combined multiplier of attacking type t against
// every type of the defender, as a fraction.
func (t Type) Multiplier(defender []Type) (num, den int) {
	num, den = 1, 1
	for _, d := range defender {
		n, m := t.EffectivenessOn(d).Scale()
		num *= n
		den *= m
	}
	return num, den
}
