package engine

import "fmt"

// Labeled pairs a display label with a payload.
type Labeled[T any] struct {
	Label string
	Value T
}

// DecisionBuilder accumulates labeled payloads for one player's decision.
//
// Example:
//
//	NewDecision[*Battle, Side, string]("Pick a side", Red).
//		Choices("left", "right").
//		Build(state, func(s *Battle, side string) Node[*Battle, Side] { ... })
type DecisionBuilder[S any, P Player, T any] struct {
	name    string
	player  P
	choices []Labeled[T]
}

// NewDecision starts an empty decision for player.
func NewDecision[S any, P Player, T any](name string, player P) *DecisionBuilder[S, P, T] {
	return &DecisionBuilder[S, P, T]{name: name, player: player}
}

// NamedChoice appends one labeled payload.
func (b *DecisionBuilder[S, P, T]) NamedChoice(label string, value T) *DecisionBuilder[S, P, T] {
	b.choices = append(b.choices, Labeled[T]{Label: label, Value: value})
	return b
}

// NamedChoices appends labeled payloads in order.
func (b *DecisionBuilder[S, P, T]) NamedChoices(choices ...Labeled[T]) *DecisionBuilder[S, P, T] {
	b.choices = append(b.choices, choices...)
	return b
}

// Choice appends a payload labeled with its textual rendering.
func (b *DecisionBuilder[S, P, T]) Choice(value T) *DecisionBuilder[S, P, T] {
	return b.NamedChoice(fmt.Sprint(value), value)
}

// Choices appends payloads labeled with their textual rendering.
func (b *DecisionBuilder[S, P, T]) Choices(values ...T) *DecisionBuilder[S, P, T] {
	for _, v := range values {
		b.Choice(v)
	}
	return b
}

// Len returns the number of accumulated choices.
func (b *DecisionBuilder[S, P, T]) Len() int { return len(b.choices) }

// Build materializes the decision. Resolving choice i calls f(state, payload_i).
//
// Panics with a *ContractError (ErrCodeEmptyDecision) if no choice was added.
func (b *DecisionBuilder[S, P, T]) Build(state S, f func(S, T) Node[S, P]) Node[S, P] {
	if len(b.choices) == 0 {
		panic(newEmptyDecisionError(b.name, fmt.Sprint(b.player)))
	}

	choices := make([]Choice[S, P], len(b.choices))
	for i, c := range b.choices {
		value := c.Value
		choices[i] = Choice[S, P]{
			Label: c.Label,
			Continuation: newContinuation(func(s S) Node[S, P] {
				return f(s, value)
			}),
		}
	}

	return Node[S, P]{
		state: state,
		kind:  KindDecision,
		decision: &Decision[S, P]{
			Name:    b.name,
			Player:  b.player,
			Choices: choices,
		},
	}
}

// IndexedChoices appends one choice per item: the payload is the item's
// 0-based position and the label its textual rendering.
// Used for "pick one of your roster" menus.
func IndexedChoices[S any, P Player, E any](b *DecisionBuilder[S, P, int], items []E) *DecisionBuilder[S, P, int] {
	for i, item := range items {
		b.NamedChoice(fmt.Sprint(item), i)
	}
	return b
}
