package roster

import (
	"fmt"
	"sort"

	"cuelang.org/go/cue"

	"github.com/roach88/branchsim/internal/monster"
)

// Dex is the species and move catalogue teams are resolved against.
type Dex struct {
	species map[string]*monster.Species
	moves   map[string]monster.Move
}

type statsDoc struct {
	HP  int `json:"hp"`
	Atk int `json:"atk"`
	Def int `json:"def"`
	SpA int `json:"spa"`
	SpD int `json:"spd"`
	Spe int `json:"spe"`
}

func (s statsDoc) stats() monster.Stats {
	return monster.Stats{
		HP:             s.HP,
		Attack:         s.Atk,
		Defense:        s.Def,
		SpecialAttack:  s.SpA,
		SpecialDefense: s.SpD,
		Speed:          s.Spe,
	}
}

type formDoc struct {
	Types []string `json:"types"`
	Base  statsDoc `json:"base"`
}

type speciesDoc struct {
	Name    string             `json:"name"`
	Dex     int                `json:"dex"`
	Types   []string           `json:"types"`
	Genders string             `json:"genders"`
	Base    statsDoc           `json:"base"`
	Forms   map[string]formDoc `json:"forms"`
}

type moveDoc struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Power    int    `json:"power"`
	Accuracy int    `json:"accuracy"`
}

// buildDex decodes the species and moves structs of a validated value.
func buildDex(v cue.Value) (*Dex, []error) {
	d := &Dex{
		species: make(map[string]*monster.Species),
		moves:   make(map[string]monster.Move),
	}
	var errs []error

	each(v.LookupPath(cue.ParsePath("species")), func(sv cue.Value) {
		var doc speciesDoc
		if err := sv.Decode(&doc); err != nil {
			errs = append(errs, cueErrors(ErrCodeSchema, err)...)
			return
		}
		sp, err := doc.build()
		if err != nil {
			errs = append(errs, &LoadError{Code: ErrCodeSchema, Message: err.Error(), Pos: sv.Pos(), Err: err})
			return
		}
		d.species[sp.Name] = sp
	})

	each(v.LookupPath(cue.ParsePath("moves")), func(mv cue.Value) {
		var doc moveDoc
		if err := mv.Decode(&doc); err != nil {
			errs = append(errs, cueErrors(ErrCodeSchema, err)...)
			return
		}
		m, err := doc.build()
		if err != nil {
			errs = append(errs, &LoadError{Code: ErrCodeSchema, Message: err.Error(), Pos: mv.Pos(), Err: err})
			return
		}
		d.moves[m.Name] = m
	})

	return d, errs
}

func each(v cue.Value, fn func(cue.Value)) {
	if !v.Exists() {
		return
	}
	iter, err := v.Fields()
	if err != nil {
		return
	}
	for iter.Next() {
		fn(iter.Value())
	}
}

func parseTypes(names []string) ([]monster.Type, error) {
	types := make([]monster.Type, len(names))
	for i, n := range names {
		t, err := monster.ParseType(n)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

func (doc speciesDoc) build() (*monster.Species, error) {
	genders, err := monster.ParseAllowedGenders(doc.Genders)
	if err != nil {
		return nil, fmt.Errorf("species %s: %w", doc.Name, err)
	}
	types, err := parseTypes(doc.Types)
	if err != nil {
		return nil, fmt.Errorf("species %s: %w", doc.Name, err)
	}

	sp := &monster.Species{DexNo: doc.Dex, Name: doc.Name}
	sp.AddForm("", types, genders, doc.Base.stats())

	names := make([]string, 0, len(doc.Forms))
	for n := range doc.Forms {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		f := doc.Forms[n]
		ft, err := parseTypes(f.Types)
		if err != nil {
			return nil, fmt.Errorf("species %s form %s: %w", doc.Name, n, err)
		}
		sp.AddForm(n, ft, genders, f.Base.stats())
	}
	return sp, nil
}

func (doc moveDoc) build() (monster.Move, error) {
	t, err := monster.ParseType(doc.Type)
	if err != nil {
		return monster.Move{}, fmt.Errorf("move %s: %w", doc.Name, err)
	}
	c, err := monster.ParseCategory(doc.Category)
	if err != nil {
		return monster.Move{}, fmt.Errorf("move %s: %w", doc.Name, err)
	}
	return monster.Move{Name: doc.Name, Type: t, Category: c, Power: doc.Power, Accuracy: doc.Accuracy}, nil
}

// Species looks a species up by name.
func (d *Dex) Species(name string) (*monster.Species, bool) {
	sp, ok := d.species[name]
	return sp, ok
}

// SpeciesNames lists species in dex-number order.
func (d *Dex) SpeciesNames() []string {
	all := make([]*monster.Species, 0, len(d.species))
	for _, sp := range d.species {
		all = append(all, sp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].DexNo < all[j].DexNo })
	names := make([]string, len(all))
	for i, sp := range all {
		names[i] = sp.Name
	}
	return names
}

// Form returns the named form of a species; "" is the base form.
func (d *Dex) Form(species, form string) (*monster.Form, error) {
	sp, ok := d.species[species]
	if !ok {
		return nil, fmt.Errorf("unknown species %q", species)
	}
	for _, f := range sp.Forms {
		if f.Name == form {
			return f, nil
		}
	}
	return nil, fmt.Errorf("species %s has no form %q", species, form)
}

// Move looks a move up by name.
func (d *Dex) Move(name string) (monster.Move, bool) {
	m, ok := d.moves[name]
	return m, ok
}
