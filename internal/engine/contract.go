package engine

import "fmt"

// Player identifies an agent. Values are small, copyable tags.
type Player interface {
	comparable
	fmt.Stringer
}

// PlayerStateBase is the per-player record owned by a state.
// The engine never inspects its fields.
type PlayerStateBase[PS any] interface {
	Clone() PS
}

// StateBase is the contract a simulation state satisfies.
//
// Players must return every player value, always in the same order. That
// order is the canonical decision order used by FoldPlayers.
//
// Player returns a copy of the player's sub-state for reading; PlayerMut
// returns a pointer for continuations that mutate it during resolution.
type StateBase[S any, P Player, PS any] interface {
	Clone() S
	Players() []P
	Player(id P) PS
	PlayerMut(id P) *PS
}

// Step is one unit of simulation: it consumes a state and produces the
// next node.
type Step[S any, P Player] func(state S) Node[S, P]
