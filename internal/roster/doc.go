// Package roster loads the dex and team definitions from CUE.
//
// The dex (species, forms, moves) and the schema are embedded. A team file
// only needs a top-level teams struct:
//
//	teams: red: [
//		{species: "Garchomp", moves: ["Earthquake"], ev: {atk: 252}},
//	]
//
// Team files are unified with the schema and the dex, so they may also add
// species or moves of their own. Every error carries the CUE position of
// the offending value when one is known.
package roster
