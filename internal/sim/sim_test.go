package sim

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/branchsim/internal/battle"
	"github.com/roach88/branchsim/internal/driver"
	"github.com/roach88/branchsim/internal/journal"
	"github.com/roach88/branchsim/internal/roster"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSetup_Teams(t *testing.T) {
	red, blue, err := Setup{Red: "red", Blue: "blue"}.Teams()
	require.NoError(t, err)
	assert.Len(t, red, 3)
	assert.Len(t, blue, 3)
	assert.Equal(t, "Chompy", red[0].Nickname)

	_, _, err = Setup{Red: "red", Blue: "green"}.Teams()
	var le *roster.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, roster.ErrCodeUnknownTeam, le.Code)
}

func TestSetup_Playout(t *testing.T) {
	p := Setup{Red: "red", Blue: "blue"}.Playout("p1", 9, journal.SourceRandom)
	assert.Equal(t, battle.DefaultMaxTurns, p.MaxTurns)
	assert.Equal(t, journal.StatusRunning, p.Status)
	assert.Equal(t, int64(9), p.Seed)
}

func TestPlay_ScriptedForfeit(t *testing.T) {
	p := Setup{Red: "kanto", Blue: "kanto", MaxTurns: 10}.Playout("p1", 0, journal.SourceScripted)
	mem := journal.NewMemory()
	r := driver.NewScripted[battle.Player](
		driver.ByIndex(0),
		driver.ByIndex(0),
		driver.ByLabel(battle.ForfeitLabel),
		driver.ByIndex(0),
	)

	res, err := Play(context.Background(), p, r, quiet(), WithDriverOptions(driver.WithRecorder(mem)))
	require.NoError(t, err)

	assert.Equal(t, journal.StatusWon, res.Playout.Status)
	assert.Equal(t, "Player2", res.Playout.Winner)
	assert.Equal(t, 1, res.Playout.Turns)
	assert.Equal(t, int64(4), res.Playout.Steps)
	assert.Equal(t, 4, res.Decisions)
	assert.Equal(t, 0, res.Chances)
	assert.Len(t, mem.Entries(), 4)
	assert.Contains(t, res.Battle.Log(), "Player1 forfeited")
}

func TestPlay_RandomIsDeterministic(t *testing.T) {
	setup := Setup{Red: "red", Blue: "blue"}
	run := func() (Result, []journal.Entry) {
		mem := journal.NewMemory()
		res, err := Play(context.Background(), setup.Playout("p1", 42, journal.SourceRandom),
			driver.NewRandom[battle.Player](42), quiet(), WithDriverOptions(driver.WithRecorder(mem)))
		require.NoError(t, err)
		return res, mem.Entries()
	}

	a, ea := run()
	b, eb := run()
	assert.Equal(t, a.Playout, b.Playout)
	assert.Equal(t, ea, eb)
	assert.True(t, a.Playout.Finished())
	assert.Contains(t, []string{journal.StatusWon, journal.StatusDraw}, a.Playout.Status)
	assert.Equal(t, int64(len(ea)), a.Playout.Steps)
}

func TestPlay_WithTeamsSkipsRoster(t *testing.T) {
	red, blue, err := Setup{Red: "kanto", Blue: "steel"}.Teams()
	require.NoError(t, err)

	// Team keys that do not exist prove the roster is never consulted.
	p := Setup{Red: "nope", Blue: "nope"}.Playout("p1", 3, journal.SourceRandom)
	res, err := Play(context.Background(), p, driver.NewRandom[battle.Player](3), quiet(), WithTeams(red, blue))
	require.NoError(t, err)
	assert.True(t, res.Playout.Finished())
}

func TestPlay_UnknownTeamFails(t *testing.T) {
	p := Setup{Red: "red", Blue: "ghost"}.Playout("p1", 0, journal.SourceRandom)

	res, err := Play(context.Background(), p, driver.NewRandom[battle.Player](0), quiet())
	require.Error(t, err)
	assert.Equal(t, journal.StatusFailed, res.Playout.Status)
	assert.Nil(t, res.Battle)
}

func TestPlay_CancelledIsAborted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Setup{Red: "red", Blue: "blue"}.Playout("p1", 0, journal.SourceRandom)
	res, err := Play(ctx, p, driver.NewRandom[battle.Player](0), quiet())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, journal.StatusAborted, res.Playout.Status)
	assert.Equal(t, int64(0), res.Playout.Steps)
}

func TestPlay_QuotaIsAborted(t *testing.T) {
	p := Setup{Red: "red", Blue: "blue"}.Playout("p1", 0, journal.SourceRandom)
	res, err := Play(context.Background(), p, driver.NewRandom[battle.Player](0), quiet(),
		WithDriverOptions(driver.WithMaxSteps(3)))
	require.True(t, driver.IsQuotaError(err))
	assert.Equal(t, journal.StatusAborted, res.Playout.Status)
	assert.Equal(t, int64(3), res.Playout.Steps)
}

func TestPlay_ScriptExhaustedFails(t *testing.T) {
	p := Setup{Red: "kanto", Blue: "kanto"}.Playout("p1", 0, journal.SourceScripted)
	res, err := Play(context.Background(), p, driver.NewScripted[battle.Player](driver.ByIndex(0)), quiet())
	require.ErrorIs(t, err, driver.ErrScriptExhausted)
	assert.Equal(t, journal.StatusFailed, res.Playout.Status)
	require.NotNil(t, res.Battle)
	assert.Equal(t, 0, res.Battle.Turn())
}

func recorded(t *testing.T, seed int64) (journal.Playout, []journal.Entry) {
	t.Helper()
	mem := journal.NewMemory()
	p := Setup{Red: "red", Blue: "blue"}.Playout("p1", seed, journal.SourceRandom)
	res, err := Play(context.Background(), p, driver.NewRandom[battle.Player](seed), quiet(),
		WithDriverOptions(driver.WithRecorder(mem)))
	require.NoError(t, err)
	return res.Playout, mem.Entries()
}

func TestReplay_Reproduces(t *testing.T) {
	p, entries := recorded(t, 11)

	res, err := Replay(context.Background(), p, entries, quiet())
	require.NoError(t, err)
	assert.Equal(t, p, res.Playout)
}

func TestReplay_DetectsTampering(t *testing.T) {
	p, entries := recorded(t, 11)
	tampered := append([]journal.Entry(nil), entries...)
	first := tampered[0]
	first.Index = (first.Index + 1) % first.Options
	tampered[0] = first

	_, err := Replay(context.Background(), p, tampered, quiet())
	require.Error(t, err)
	assert.True(t, driver.IsReplayDivergence(err), "got %v", err)
}

func TestReplay_DetectsOutcomeMismatch(t *testing.T) {
	p, entries := recorded(t, 5)
	p.Turns += 1

	_, err := Replay(context.Background(), p, entries, quiet())
	assert.True(t, driver.IsReplayDivergence(err), "got %v", err)
}

func TestReplay_DetectsLeftoverEntries(t *testing.T) {
	p, entries := recorded(t, 5)
	extra := entries[len(entries)-1]
	extra.Seq++
	entries = append(entries, extra)

	_, err := Replay(context.Background(), p, entries, quiet())
	assert.True(t, driver.IsReplayDivergence(err), "got %v", err)
}
