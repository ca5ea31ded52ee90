package engine

import "fmt"

// Kind tags which branch a Node carries.
type Kind int

const (
	// KindPending marks a node ready for automatic continuation.
	KindPending Kind = iota + 1
	// KindDecision marks a node resolved by one player's choice.
	KindDecision
	// KindChance marks a node resolved by a weighted outcome.
	KindChance
	// KindEnd marks a terminal node.
	KindEnd
)

// String returns the lowercase kind name used in journals and logs.
func (k Kind) String() string {
	switch k {
	case KindPending:
		return "pending"
	case KindDecision:
		return "decision"
	case KindChance:
		return "chance"
	case KindEnd:
		return "end"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "pending":
		return KindPending, nil
	case "decision":
		return KindDecision, nil
	case "chance":
		return KindChance, nil
	case "end":
		return KindEnd, nil
	default:
		return 0, fmt.Errorf("unknown node kind %q", s)
	}
}

// Node pairs a state snapshot with the branch that follows it.
//
// INVARIANT: the state inside a Node is the state as of entering the node,
// before its own branch is resolved.
//
// A Node is a value, but the continuations it carries are one-shot. Passing a
// Node to Then (or resuming any of its continuations) consumes it.
type Node[S any, P Player] struct {
	state    S
	kind     Kind
	decision *Decision[S, P]
	chance   *Chance[S, P]
}

// Decision is a branch point resolved by Player picking one of Choices.
type Decision[S any, P Player] struct {
	Name    string
	Player  P
	Choices []Choice[S, P]
}

// Choice is one labeled option of a Decision.
// Labels are not unique; drivers resolve by position.
type Choice[S any, P Player] struct {
	Label        string
	Continuation *Continuation[S, P]
}

// Chance is a branch point resolved by sampling Possibilities in
// proportion to their weights. Weights are not normalized.
type Chance[S any, P Player] struct {
	Name          string
	Possibilities []Possibility[S, P]
}

// Possibility is one labeled, weighted outcome of a Chance.
type Possibility[S any, P Player] struct {
	Label        string
	Weight       float64
	Continuation *Continuation[S, P]
}

// End builds a terminal node.
func End[S any, P Player](state S) Node[S, P] {
	return Node[S, P]{state: state, kind: KindEnd}
}

// Pending builds a node ready for automatic continuation.
func Pending[S any, P Player](state S) Node[S, P] {
	return Node[S, P]{state: state, kind: KindPending}
}

// Kind returns the branch kind. The zero Node reports 0 ("unknown").
func (n Node[S, P]) Kind() Kind { return n.kind }

// State returns the state as of entering the node.
func (n Node[S, P]) State() S { return n.state }

// IsEnd reports whether the node is terminal.
func (n Node[S, P]) IsEnd() bool { return n.kind == KindEnd }

// IsPending reports whether the node needs no resolution.
func (n Node[S, P]) IsPending() bool { return n.kind == KindPending }

// Decision returns the decision branch, or nil for any other kind.
func (n Node[S, P]) Decision() *Decision[S, P] { return n.decision }

// Chance returns the chance branch, or nil for any other kind.
func (n Node[S, P]) Chance() *Chance[S, P] { return n.chance }

// Name returns the decision or chance name; empty for Pending and End.
func (n Node[S, P]) Name() string {
	switch n.kind {
	case KindDecision:
		return n.decision.Name
	case KindChance:
		return n.chance.Name
	default:
		return ""
	}
}

// Len returns the number of options of a Decision or Chance, 0 otherwise.
func (n Node[S, P]) Len() int {
	switch n.kind {
	case KindDecision:
		return len(n.decision.Choices)
	case KindChance:
		return len(n.chance.Possibilities)
	default:
		return 0
	}
}

// Labels returns the option labels in position order.
func (n Node[S, P]) Labels() []string {
	labels := make([]string, 0, n.Len())
	switch n.kind {
	case KindDecision:
		for _, c := range n.decision.Choices {
			labels = append(labels, c.Label)
		}
	case KindChance:
		for _, p := range n.chance.Possibilities {
			labels = append(labels, p.Label)
		}
	}
	return labels
}

// Discard drops every continuation of the node without invoking it.
// Drivers call it when they stop walking a tree.
func (n Node[S, P]) Discard() {
	switch n.kind {
	case KindDecision:
		for _, c := range n.decision.Choices {
			c.Continuation.Discard()
		}
	case KindChance:
		for _, p := range n.chance.Possibilities {
			p.Continuation.Discard()
		}
	}
}

// String renders the node for logs, e.g. `decision "Choose" for Player 1 (3 choices)`.
func (n Node[S, P]) String() string {
	switch n.kind {
	case KindDecision:
		return fmt.Sprintf("decision %q for %s (%d choices)", n.decision.Name, n.decision.Player, len(n.decision.Choices))
	case KindChance:
		return fmt.Sprintf("chance %q (%d possibilities)", n.chance.Name, len(n.chance.Possibilities))
	default:
		return n.kind.String()
	}
}
