// Package harness runs scripted battle scenarios and checks their traces.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: kanto_forfeit
//	description: "Player1 gives up on the first turn"
//	teams: teams.cue          # optional, relative to the scenario
//	red: kanto
//	blue: kanto
//	playout_id: test-playout-forfeit
//	max_turns: 10
//	picks: [Charizard, 2, Forfeit, 0]
//	expect:
//	  status: won
//	  winner: Player2
//	  turns: 1
//	assertions:
//	  - type: trace_contains
//	    player: Player1
//	    label: Forfeit
//	  - type: final_state
//	    table: playouts
//	    where: { id: test-playout-forfeit }
//	    expect: { status: won }
//
// Picks resolve every decision and chance in order: an integer picks by
// position, a string by label (first match).
//
// # Assertion Types
//
//   - trace_contains: an entry matches kind/name/player/label
//   - trace_order: labels appear in order
//   - trace_count: exactly N entries match kind/name/player/label
//   - final_state: a playouts or entries row has the expected columns
//   - battle_state: the final battle (or one player's side) has the expected values
//   - log_contains: the battle log has a line
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite store, with
// testutil.DeterministicClock and testutil.FixedPlayoutGenerator, so two runs
// produce byte-identical traces for golden comparison.
package harness
