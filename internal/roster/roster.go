package roster

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/branchsim/internal/monster"
)

var (
	//go:embed schema.cue
	schemaCUE []byte

	//go:embed dex.cue
	dexCUE []byte

	//go:embed teams.cue
	teamsCUE []byte
)

// LoadMode controls how errors are handled during loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Roster is a set of named teams and the dex they were resolved against.
type Roster struct {
	Dex   *Dex
	Teams map[string]monster.Team
}

// Team returns the team registered under name.
func (r *Roster) Team(name string) (monster.Team, error) {
	t, ok := r.Teams[name]
	if !ok {
		return nil, &LoadError{
			Code:    ErrCodeUnknownTeam,
			Message: fmt.Sprintf("no team %q (have %v)", name, r.TeamNames()),
		}
	}
	return t, nil
}

// TeamNames lists team names in sorted order.
func (r *Roster) TeamNames() []string {
	names := make([]string, 0, len(r.Teams))
	for n := range r.Teams {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Default loads the embedded demo teams.
func Default() (*Roster, error) {
	return LoadBytes("teams.cue", teamsCUE)
}

// LoadFile loads a team file from disk.
func LoadFile(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading %s: %v", path, err), Err: err}
	}
	return LoadBytes(path, data)
}

// LoadBytes loads a team file from memory. name is used in positions.
// Returns the first error encountered.
func LoadBytes(name string, data []byte) (*Roster, error) {
	r, errs := Load(name, data, LoadModeFailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return r, nil
}

// Validate loads a team file and reports every error found.
func Validate(path string) []error {
	data, err := os.ReadFile(path)
	if err != nil {
		return []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading %s: %v", path, err), Err: err}}
	}
	_, errs := Load(path, data, LoadModeCollectAll)
	return errs
}

// Load unifies data with the embedded schema and dex, then builds every
// team. In LoadModeFailFast the first error is returned alone.
func Load(name string, data []byte, mode LoadMode) (*Roster, []error) {
	ctx := cuecontext.New()

	base := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	base = base.Unify(ctx.CompileBytes(dexCUE, cue.Filename("dex.cue")))
	if err := base.Err(); err != nil {
		return nil, cueErrors(ErrCodeBuildFailed, err)
	}

	user := ctx.CompileBytes(data, cue.Filename(name))
	if err := user.Err(); err != nil {
		return nil, failFast(mode, cueErrors(ErrCodeLoadFailed, err))
	}

	v := base.Unify(user)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, failFast(mode, cueErrors(ErrCodeSchema, err))
	}

	dex, errs := buildDex(v)
	if len(errs) > 0 {
		return nil, failFast(mode, errs)
	}

	teamsV := v.LookupPath(cue.ParsePath("teams"))
	if !teamsV.Exists() {
		return nil, []error{&LoadError{Code: ErrCodeNoTeams, Message: fmt.Sprintf("%s defines no teams", name)}}
	}

	r := &Roster{Dex: dex, Teams: make(map[string]monster.Team)}
	iter, err := teamsV.Fields()
	if err != nil {
		return nil, cueErrors(ErrCodeSchema, err)
	}
	for iter.Next() {
		teamName := iter.Label()
		team, teamErrs := buildTeam(dex, user, teamName, iter.Value(), mode)
		errs = append(errs, teamErrs...)
		if mode == LoadModeFailFast && len(errs) > 0 {
			return nil, errs[:1]
		}
		if len(teamErrs) == 0 {
			r.Teams[teamName] = team
		}
	}
	if len(r.Teams) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeNoTeams, Message: fmt.Sprintf("%s defines no teams", name)})
	}
	return r, errs
}

func failFast(mode LoadMode, errs []error) []error {
	if mode == LoadModeFailFast && len(errs) > 1 {
		return errs[:1]
	}
	return errs
}

type memberDoc struct {
	Species  string   `json:"species"`
	Form     string   `json:"form"`
	Nickname string   `json:"nickname"`
	Gender   string   `json:"gender"`
	Ability  string   `json:"ability"`
	Item     string   `json:"item"`
	Moves    []string `json:"moves"`
	EV       statsDoc `json:"ev"`
	IV       statsDoc `json:"iv"`
}

// buildTeam resolves one team list. Positions are taken from the user's own
// file so that errors point at the member that caused them.
func buildTeam(dex *Dex, user cue.Value, name string, v cue.Value, mode LoadMode) (monster.Team, []error) {
	list, err := v.List()
	if err != nil {
		return nil, cueErrors(ErrCodeSchema, err)
	}

	var (
		members []*monster.Pokemon
		errs    []error
	)
	for i := 0; list.Next(); i++ {
		pos := user.LookupPath(cue.MakePath(cue.Str("teams"), cue.Str(name), cue.Index(i))).Pos()

		var doc memberDoc
		if err := list.Value().Decode(&doc); err != nil {
			errs = append(errs, cueErrors(ErrCodeSchema, err)...)
		} else if p, err := doc.resolve(dex); err != nil {
			err.Pos = pos
			errs = append(errs, err)
		} else {
			members = append(members, p)
		}
		if mode == LoadModeFailFast && len(errs) > 0 {
			return nil, errs
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	team, err := monster.NewTeam(members...)
	if err != nil {
		return nil, []error{&LoadError{
			Code:    ErrCodeInvalidMember,
			Message: fmt.Sprintf("team %s: %v", name, err),
			Pos:     user.LookupPath(cue.MakePath(cue.Str("teams"), cue.Str(name))).Pos(),
			Err:     err,
		}}
	}
	return team, nil
}

func (doc memberDoc) resolve(dex *Dex) (*monster.Pokemon, *LoadError) {
	if _, ok := dex.Species(doc.Species); !ok {
		return nil, &LoadError{Code: ErrCodeUnknownSpecies, Message: fmt.Sprintf("unknown species %q", doc.Species)}
	}
	form, err := dex.Form(doc.Species, doc.Form)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeUnknownForm, Message: err.Error(), Err: err}
	}

	gender := form.Genders.Genders()[0]
	if doc.Gender != "" {
		if gender, err = monster.ParseGender(doc.Gender); err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidMember, Message: err.Error(), Err: err}
		}
	}

	p := &monster.Pokemon{
		Form:     form,
		Nickname: doc.Nickname,
		Gender:   gender,
		EV:       doc.EV.stats(),
		IV:       doc.IV.stats(),
		Ability:  doc.Ability,
		Item:     doc.Item,
	}
	for _, name := range doc.Moves {
		m, ok := dex.Move(name)
		if !ok {
			return nil, &LoadError{Code: ErrCodeUnknownMove, Message: fmt.Sprintf("%s: unknown move %q", p, name)}
		}
		p.Moves = append(p.Moves, m)
	}
	if err := p.Validate(); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidMember, Message: err.Error(), Err: err}
	}
	return p, nil
}
