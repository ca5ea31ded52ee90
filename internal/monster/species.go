package monster

import "fmt"

// Gender of an individual monster.
type Gender int

const (
	Genderless Gender = iota
	Male
	Female
)

func (g Gender) String() string {
	switch g {
	case Male:
		return "male"
	case Female:
		return "female"
	default:
		return "none"
	}
}

// ParseGender accepts "male", "female" and "none" (or the empty string).
func ParseGender(s string) (Gender, error) {
	switch s {
	case "male":
		return Male, nil
	case "female":
		return Female, nil
	case "none", "":
		return Genderless, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidGender, s)
	}
}

// AllowedGenders is the gender policy of a form.
type AllowedGenders int

const (
	MaleOrFemale AllowedGenders = iota
	MaleOnly
	FemaleOnly
	NoGender
)

// Genders lists the genders the policy permits.
func (a AllowedGenders) Genders() []Gender {
	switch a {
	case MaleOnly:
		return []Gender{Male}
	case FemaleOnly:
		return []Gender{Female}
	case NoGender:
		return []Gender{Genderless}
	default:
		return []Gender{Male, Female}
	}
}

// Allows reports whether g is permitted.
func (a AllowedGenders) Allows(g Gender) bool {
	for _, allowed := range a.Genders() {
		if allowed == g {
			return true
		}
	}
	return false
}

// ParseAllowedGenders accepts the dex spelling of a gender policy.
func ParseAllowedGenders(s string) (AllowedGenders, error) {
	switch s {
	case "male_or_female", "":
		return MaleOrFemale, nil
	case "male_only":
		return MaleOnly, nil
	case "female_only":
		return FemaleOnly, nil
	case "none":
		return NoGender, nil
	default:
		return 0, fmt.Errorf("%w: policy %q", ErrInvalidGender, s)
	}
}

// Species groups the forms that share a national dex number.
type Species struct {
	DexNo int
	Name  string
	Forms []*Form
}

func (s *Species) String() string { return s.Name }

// AddForm attaches a new form to the species and returns it.
// An empty name is the species' base form.
func (s *Species) AddForm(name string, types []Type, genders AllowedGenders, base Stats) *Form {
	f := &Form{
		Species:   s,
		Name:      name,
		Types:     types,
		Genders:   genders,
		BaseStats: base,
	}
	s.Forms = append(s.Forms, f)
	return f
}

// Form is one battle-relevant variant of a species.
type Form struct {
	Species   *Species
	Name      string
	Types     []Type
	Genders   AllowedGenders
	BaseStats Stats
}

func (f *Form) String() string {
	if f.Name != "" {
		return f.Species.Name + " - " + f.Name
	}
	return f.Species.Name
}

// HasType reports whether t is one of the form's types.
func (f *Form) HasType(t Type) bool {
	for _, own := range f.Types {
		if own == t {
			return true
		}
	}
	return false
}
