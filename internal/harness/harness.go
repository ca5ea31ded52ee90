package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/branchsim/internal/battle"
	"github.com/roach88/branchsim/internal/driver"
	"github.com/roach88/branchsim/internal/journal"
	"github.com/roach88/branchsim/internal/sim"
	"github.com/roach88/branchsim/internal/store"
	"github.com/roach88/branchsim/internal/testutil"
)

// Harness is the scenario execution environment.
// It runs scenarios with a deterministic clock and a fixed playout id.
type Harness struct {
	store   *store.Store
	clock   *testutil.DeterministicClock
	idGen   *testutil.FixedPlayoutGenerator
	journal *journal.Memory
	logger  *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Write the playout header
// 3. Drive the battle with the scenario's picks, journaling every step
// 4. Store the outcome and check the expect clause
// 5. Evaluate assertions against the trace, the store and the battle
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:   st,
		clock:   testutil.NewDeterministicClock(),
		idGen:   testutil.NewFixedPlayoutGenerator(scenario.PlayoutID),
		journal: journal.NewMemory(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	ctx := context.Background()
	result := NewResult()

	setup := sim.Setup{Roster: scenario.Teams, Red: scenario.Red, Blue: scenario.Blue, MaxTurns: scenario.MaxTurns}
	playout := setup.Playout(h.idGen.Generate(), 0, journal.SourceScripted)
	if err := st.WritePlayout(ctx, playout); err != nil {
		return nil, fmt.Errorf("failed to write playout: %w", err)
	}

	picks := make([]driver.Pick, len(scenario.Picks))
	for i, p := range scenario.Picks {
		picks[i] = p.Pick
	}
	script := driver.NewScripted[battle.Player](picks...)

	res, playErr := sim.Play(ctx, playout, script,
		sim.WithLogger(h.logger),
		sim.WithDriverOptions(
			driver.WithClock(h.clock),
			driver.WithRecorder(st),
			driver.WithRecorder(h.journal),
			driver.WithSource(journal.SourceScripted),
		),
	)
	if err := st.FinishPlayout(ctx, res.Playout); err != nil {
		return nil, fmt.Errorf("failed to finish playout: %w", err)
	}

	result.Playout = res.Playout
	result.Trace = h.journal.Entries()
	if res.Battle != nil {
		result.Log = append(result.Log, res.Battle.Log()...)
		result.State = snapshotState(res.Battle)
	}

	h.logger.Info("scenario played",
		"scenario", scenario.Name,
		"playout", res.Playout.ID,
		"status", res.Playout.Status,
		"steps", res.Playout.Steps,
	)

	checkExpect(result, scenario.Expect, playErr)
	if playErr == nil && script.Remaining() > 0 {
		result.AddError(fmt.Sprintf("%d picks left unused after the battle ended", script.Remaining()))
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// checkExpect compares the playout outcome with the expect clause. Without
// one, any playout error fails the scenario.
func checkExpect(result *Result, expect *ExpectClause, playErr error) {
	if expect == nil {
		if playErr != nil {
			result.AddError(fmt.Sprintf("playout stopped: %v", playErr))
		}
		return
	}

	switch {
	case expect.Error != "" && playErr == nil:
		result.AddError(fmt.Sprintf("expected playout error containing %q, playout ended %s", expect.Error, result.Playout.Status))
	case expect.Error != "" && !strings.Contains(playErr.Error(), expect.Error):
		result.AddError(fmt.Sprintf("expected playout error containing %q, got %v", expect.Error, playErr))
	case expect.Error == "" && playErr != nil:
		result.AddError(fmt.Sprintf("playout stopped: %v", playErr))
	}

	p := result.Playout
	if expect.Status != "" && p.Status != expect.Status {
		result.AddError(fmt.Sprintf("expected status %s, got %s", expect.Status, p.Status))
	}
	if expect.Winner != "" && p.Winner != expect.Winner {
		result.AddError(fmt.Sprintf("expected winner %s, got %q", expect.Winner, p.Winner))
	}
	if expect.Turns != 0 && p.Turns != expect.Turns {
		result.AddError(fmt.Sprintf("expected %d turns, got %d", expect.Turns, p.Turns))
	}
}

// snapshotState flattens the final battle into plain values.
func snapshotState(b *battle.SingleBattle) map[string]map[string]any {
	state := map[string]map[string]any{
		"battle": {
			"turn":   b.Turn(),
			"status": b.Result().String(),
		},
	}
	if w, ok := b.Winner(); ok {
		state["battle"]["winner"] = w.String()
	}

	for _, p := range b.Players() {
		ps := b.Player(p)
		healthy := 0
		for i := range ps.Team {
			if ps.Healthy(i) {
				healthy++
			}
		}
		side := map[string]any{
			"healthy":      healthy,
			"attack_stage": ps.AttackStage,
		}
		if ps.Active != nil {
			side["active"] = ps.Team[*ps.Active].String()
			side["hp"] = ps.HP[*ps.Active]
		}
		state[p.String()] = side
	}
	return state
}
