package engine

// Then appends step f after the computation represented by n.
//
//   - Pending: the result is f(state), composed eagerly.
//   - End: the result is n unchanged and f is never invoked. End absorbs
//     all further composition; this is the short-circuit rule.
//   - Decision / Chance: a fresh node whose every continuation c is replaced
//     by s -> c(s).Then(f). Labels, weights, names and the deciding player
//     are preserved.
//
// Then consumes n. The old node must not be resumed afterwards.
//
// a.Then(f).Then(g) behaves exactly like a.Then(s -> f(s).Then(g)).
func (n Node[S, P]) Then(f Step[S, P]) Node[S, P] {
	switch n.kind {
	case KindPending:
		return f(n.state)

	case KindEnd:
		return n

	case KindDecision:
		d := n.decision
		choices := make([]Choice[S, P], len(d.Choices))
		for i, c := range d.Choices {
			choices[i] = Choice[S, P]{
				Label:        c.Label,
				Continuation: c.Continuation.then(f),
			}
		}
		return Node[S, P]{
			state: n.state,
			kind:  KindDecision,
			decision: &Decision[S, P]{
				Name:    d.Name,
				Player:  d.Player,
				Choices: choices,
			},
		}

	case KindChance:
		c := n.chance
		possibilities := make([]Possibility[S, P], len(c.Possibilities))
		for i, p := range c.Possibilities {
			possibilities[i] = Possibility[S, P]{
				Label:        p.Label,
				Weight:       p.Weight,
				Continuation: p.Continuation.then(f),
			}
		}
		return Node[S, P]{
			state: n.state,
			kind:  KindChance,
			chance: &Chance[S, P]{
				Name:          c.Name,
				Possibilities: possibilities,
			},
		}

	default:
		panic(&ContractError{
			Code:    ErrCodeInvalidNode,
			Message: "Then called on a zero Node; build nodes with End, Pending or a builder",
		})
	}
}

// Fold composes one step per item, in item order, starting from
// Pending(state).
//
// The branching introduced for item k is nested inside every leaf of the
// branching introduced for items before it. An empty items slice yields
// Pending(state).
func Fold[S any, P Player, T any](state S, items []T, f func(S, T) Node[S, P]) Node[S, P] {
	acc := Pending[S, P](state)
	for _, item := range items {
		item := item
		acc = acc.Then(func(s S) Node[S, P] {
			return f(s, item)
		})
	}
	return acc
}

// FoldPlayers folds f over state.Players() in declaration order.
func FoldPlayers[S interface{ Players() []P }, P Player](state S, f func(S, P) Node[S, P]) Node[S, P] {
	return Fold(state, state.Players(), f)
}

// Flow is the explicit short-circuit signal of a chain step: either keep
// composing (Continue) or return this node as the chain's result (Stop).
type Flow[S any, P Player] struct {
	node Node[S, P]
	stop bool
}

// Continue signals that the rest of the chain should be composed after n.
func Continue[S any, P Player](n Node[S, P]) Flow[S, P] {
	return Flow[S, P]{node: n}
}

// Stop signals that n is the final result of the chain.
func Stop[S any, P Player](n Node[S, P]) Flow[S, P] {
	return Flow[S, P]{node: n, stop: true}
}

// Node returns the node carried by the signal.
func (f Flow[S, P]) Node() Node[S, P] { return f.node }

// Stopped reports whether the signal ends the chain.
// An End node always ends the chain, whatever signal carries it.
func (f Flow[S, P]) Stopped() bool { return f.stop || f.node.IsEnd() }

// FlowStep is a chain step that reports whether the chain should go on.
type FlowStep[S any, P Player] func(state S) Flow[S, P]

// Chain runs steps in order as one suspended computation.
//
// A Pending result flows straight into the next step. A Decision or Chance
// result gets the remaining steps composed into every one of its branches.
// As soon as a step stops (Stop, or any End node) no later step runs on
// that path.
func Chain[S any, P Player](state S, steps ...FlowStep[S, P]) Node[S, P] {
	if len(steps) == 0 {
		return Pending[S, P](state)
	}

	flow := steps[0](state)
	if flow.Stopped() || len(steps) == 1 {
		return flow.node
	}

	rest := steps[1:]
	return flow.node.Then(func(s S) Node[S, P] {
		return Chain(s, rest...)
	})
}

// Steps lifts plain steps into chain steps that always continue.
func Steps[S any, P Player](steps ...Step[S, P]) []FlowStep[S, P] {
	out := make([]FlowStep[S, P], len(steps))
	for i, step := range steps {
		step := step
		out[i] = func(s S) Flow[S, P] {
			return Continue(step(s))
		}
	}
	return out
}
