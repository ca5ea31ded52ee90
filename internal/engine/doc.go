// Package engine implements the branching simulation core.
//
// A simulation is a tree of suspended computations. Every point of the tree
// is a Node that pairs the state as of entering it with exactly one of:
//
//   - Decision: one agent must pick among named choices
//   - Chance: the environment resolves one of several named, weighted outcomes
//   - Pending: nothing to resolve, the state is ready for the next step
//   - End: the simulation is over
//
// The tree is never enumerated eagerly. Each Decision or Chance carries one
// one-shot Continuation per option; resolving an option is a call to that
// continuation, which produces the next Node.
//
// ARCHITECTURE:
//
// Composition:
// Domain code writes small steps (state -> Node) and strings them together
// with Then, Fold and Chain. Then distributes the follow-up step into every
// open branch of a node, so whichever option is eventually resolved the
// follow-up runs on that branch's result. End absorbs further composition,
// which gives step code its early-return idiom.
//
// Builders:
// DecisionBuilder and ChanceBuilder accumulate labeled payloads and bind each
// one to the domain callback. Building an empty Decision or Chance is a
// contract violation and panics with a *ContractError.
//
// Event hooks:
// EventHandler is the seam through which domain effects (abilities, items)
// inject branching at named points of a turn. NopHandler supplies the
// defaults.
//
// CONCURRENCY:
//
// The engine is single-threaded and synchronous. Suspension is a value, not
// a scheduler primitive. Exactly one state is live per branch; a driver that
// wants to explore several options of the same node must clone the state
// before resuming more than one continuation.
//
// Drivers that walk a Node to completion live in package driver.
package engine
