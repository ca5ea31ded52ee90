// Package monster holds the game data model for monster battles: elemental
// types and their effectiveness table, species and forms, stats, moves,
// individual monsters and teams.
//
// The package is pure data. Battle flow lives in package battle, which plugs
// this model into the branching engine.
package monster
