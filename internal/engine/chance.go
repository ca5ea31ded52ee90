package engine

import (
	"fmt"
	"math"
)

// Weighted pairs a label and a non-negative weight with a payload.
type Weighted[T any] struct {
	Label  string
	Weight float64
	Value  T
}

// ChanceBuilder accumulates labeled, weighted payloads for a chance event.
//
// Weights need not sum to 1. The builder never normalizes them; whether
// they are probabilities or relative scores is up to the domain.
type ChanceBuilder[S any, P Player, T any] struct {
	name          string
	possibilities []Weighted[T]
}

// NewChance starts an empty chance event.
func NewChance[S any, P Player, T any](name string) *ChanceBuilder[S, P, T] {
	return &ChanceBuilder[S, P, T]{name: name}
}

// NamedPossibility appends one labeled, weighted payload.
func (b *ChanceBuilder[S, P, T]) NamedPossibility(label string, weight float64, value T) *ChanceBuilder[S, P, T] {
	b.possibilities = append(b.possibilities, Weighted[T]{Label: label, Weight: weight, Value: value})
	return b
}

// NamedPossibilities appends labeled, weighted payloads in order.
func (b *ChanceBuilder[S, P, T]) NamedPossibilities(possibilities ...Weighted[T]) *ChanceBuilder[S, P, T] {
	b.possibilities = append(b.possibilities, possibilities...)
	return b
}

// Possibility appends a weighted payload labeled with its textual rendering.
func (b *ChanceBuilder[S, P, T]) Possibility(weight float64, value T) *ChanceBuilder[S, P, T] {
	return b.NamedPossibility(fmt.Sprint(value), weight, value)
}

// Possibilities appends weighted payloads labeled with their textual
// rendering. The label field of each entry is ignored.
func (b *ChanceBuilder[S, P, T]) Possibilities(possibilities ...Weighted[T]) *ChanceBuilder[S, P, T] {
	for _, p := range possibilities {
		b.Possibility(p.Weight, p.Value)
	}
	return b
}

// Len returns the number of accumulated possibilities.
func (b *ChanceBuilder[S, P, T]) Len() int { return len(b.possibilities) }

// TotalWeight returns the sum of all weights.
func (b *ChanceBuilder[S, P, T]) TotalWeight() float64 {
	total := 0.0
	for _, p := range b.possibilities {
		total += p.Weight
	}
	return total
}

// Build materializes the chance. Resolving possibility i calls f(state, payload_i).
//
// Panics with a *ContractError if no possibility was added (ErrCodeEmptyChance)
// or if any weight is negative, NaN or infinite (ErrCodeInvalidWeight).
func (b *ChanceBuilder[S, P, T]) Build(state S, f func(S, T) Node[S, P]) Node[S, P] {
	if len(b.possibilities) == 0 {
		panic(newEmptyChanceError(b.name))
	}

	possibilities := make([]Possibility[S, P], len(b.possibilities))
	for i, p := range b.possibilities {
		if p.Weight < 0 || math.IsNaN(p.Weight) || math.IsInf(p.Weight, 0) {
			panic(newInvalidWeightError(b.name, p.Label, p.Weight))
		}
		value := p.Value
		possibilities[i] = Possibility[S, P]{
			Label:  p.Label,
			Weight: p.Weight,
			Continuation: newContinuation(func(s S) Node[S, P] {
				return f(s, value)
			}),
		}
	}

	return Node[S, P]{
		state: state,
		kind:  KindChance,
		chance: &Chance[S, P]{
			Name:          b.name,
			Possibilities: possibilities,
		},
	}
}

// Odds is shorthand for a Weighted entry used with Possibilities.
func Odds[T any](weight float64, value T) Weighted[T] {
	return Weighted[T]{Weight: weight, Value: value}
}
