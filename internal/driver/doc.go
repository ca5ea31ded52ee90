// Package driver walks battle trees built with package engine.
//
// A Driver repeatedly asks a Resolver to pick an option at every Decision
// and Chance node until it reaches End. Each resolution is stamped with a
// logical clock, recorded as a journal.Entry and handed to the configured
// recorders.
//
// Resolvers:
//   - Random: seeded, uniform over choices and weight-proportional over
//     possibilities
//   - Scripted: a queue of picks by index or label, for tests and scenarios
//   - Replay: the entries of a stored journal; stops with REPLAY_DIVERGED
//     as soon as the tree no longer matches
//
// A Driver runs one playout at a time. Playouts are independent of each
// other, so running many in parallel only needs one Driver (and one
// resolver) per goroutine.
package driver
