// Package journal defines the resolution records a driver emits while
// walking a tree, and their content-addressed identity.
//
// A journal is the ordered list of Entry values of one playout. It is
// enough to re-drive the playout: the tree itself is never persisted.
//
// Key constraints:
//   - No floats in canonical form; chance weights are carried as their
//     shortest decimal string
//   - Logical sequence numbers only, never wall-clock timestamps
//   - All JSON tags use snake_case
package journal
