package monster

import "fmt"

const (
	MaxMoves    = 4
	MaxTeamSize = 6
)

// Pokemon is one trained individual: a form plus its moves, spreads,
// ability and held item. Ability and Item are handler names resolved by
// the battle package.
type Pokemon struct {
	Form     *Form
	Nickname string
	Gender   Gender
	Moves    []Move
	EV       Stats
	IV       Stats
	Ability  string
	Item     string
}

func (p *Pokemon) String() string {
	if p.Nickname != "" {
		return fmt.Sprintf("%s (%s)", p.Nickname, p.Form)
	}
	return p.Form.String()
}

// Stat computes stat k at Level.
func (p *Pokemon) Stat(k StatKind) int {
	base := p.Form.BaseStats.Get(k)
	v := (2*base + p.IV.Get(k) + p.EV.Get(k)/4) * Level / 100
	if k == HP {
		return v + Level + 10
	}
	return v + 5
}

// MaxHP is shorthand for Stat(HP).
func (p *Pokemon) MaxHP() int { return p.Stat(HP) }

// Validate checks move count, spreads and gender.
func (p *Pokemon) Validate() error {
	if p.Form == nil {
		return fmt.Errorf("monster %q has no form", p.Nickname)
	}
	if n := len(p.Moves); n == 0 || n > MaxMoves {
		return fmt.Errorf("%s: %w (got %d)", p, ErrMoveCount, n)
	}
	if err := validateIV(p.IV); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	if err := validateEV(p.EV); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	if !p.Form.Genders.Allows(p.Gender) {
		return fmt.Errorf("%s: %w: %s", p, ErrInvalidGender, p.Gender)
	}
	return nil
}

// Team is an ordered roster of up to six monsters.
type Team []*Pokemon

// NewTeam validates members and returns them as a team.
func NewTeam(members ...*Pokemon) (Team, error) {
	if n := len(members); n == 0 || n > MaxTeamSize {
		return nil, fmt.Errorf("%w (got %d)", ErrTeamSize, n)
	}
	for i, m := range members {
		if m == nil {
			return nil, fmt.Errorf("member %d: %w", i, ErrNilMember)
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
	}
	return Team(members), nil
}
