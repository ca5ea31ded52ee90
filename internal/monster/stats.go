package monster

import "fmt"

// Level is the fixed level all battles are played at.
const Level = 50

const (
	MaxIV      = 31
	MaxEV      = 252
	MaxEVTotal = 510
)

// StatKind names one of the six stats.
type StatKind int

const (
	HP StatKind = iota
	Attack
	Defense
	SpecialAttack
	SpecialDefense
	Speed
)

func (k StatKind) String() string {
	switch k {
	case HP:
		return "hp"
	case Attack:
		return "atk"
	case Defense:
		return "def"
	case SpecialAttack:
		return "spa"
	case SpecialDefense:
		return "spd"
	case Speed:
		return "spe"
	default:
		return fmt.Sprintf("stat(%d)", int(k))
	}
}

// Stats is a full stat block. It is used for base stats, EVs and IVs alike.
type Stats struct {
	HP             int `json:"hp"`
	Attack         int `json:"atk"`
	Defense        int `json:"def"`
	SpecialAttack  int `json:"spa"`
	SpecialDefense int `json:"spd"`
	Speed          int `json:"spe"`
}

// Get returns the value of one stat.
func (s Stats) Get(k StatKind) int {
	switch k {
	case HP:
		return s.HP
	case Attack:
		return s.Attack
	case Defense:
		return s.Defense
	case SpecialAttack:
		return s.SpecialAttack
	case SpecialDefense:
		return s.SpecialDefense
	case Speed:
		return s.Speed
	default:
		return 0
	}
}

// Total sums all six stats.
func (s Stats) Total() int {
	return s.HP + s.Attack + s.Defense + s.SpecialAttack + s.SpecialDefense + s.Speed
}

func (s Stats) each(fn func(StatKind, int) error) error {
	for k := HP; k <= Speed; k++ {
		if err := fn(k, s.Get(k)); err != nil {
			return err
		}
	}
	return nil
}

func validateIV(iv Stats) error {
	return iv.each(func(k StatKind, v int) error {
		if v < 0 || v > MaxIV {
			return fmt.Errorf("%w: iv %s=%d (want 0..%d)", ErrInvalidStat, k, v, MaxIV)
		}
		return nil
	})
}

func validateEV(ev Stats) error {
	err := ev.each(func(k StatKind, v int) error {
		if v < 0 || v > MaxEV {
			return fmt.Errorf("%w: ev %s=%d (want 0..%d)", ErrInvalidStat, k, v, MaxEV)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if total := ev.Total(); total > MaxEVTotal {
		return fmt.Errorf("%w: ev total %d exceeds %d", ErrInvalidStat, total, MaxEVTotal)
	}
	return nil
}
