// Package battle implements a two-player single battle on top of the
// branching engine.
//
// Start returns the root node of a battle. Every player choice (starting
// monster, action, forced replacement) is an engine Decision and every
// random roll (speed ties, accuracy, held-item triggers) is an engine
// Chance, so the whole battle is a lazily built tree that a driver walks.
//
// Turn structure:
//
//	turn-start hooks -> each player chooses an action -> resolution
//	-> turn-end hooks -> next turn
//
// Abilities and items are engine.EventHandler values resolved by name from
// a Registry. Unknown names resolve to a handler that does nothing.
package battle
