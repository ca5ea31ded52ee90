package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/branchsim/internal/journal"
	"github.com/roach88/branchsim/internal/store"
)

type playResponse struct {
	Status string     `json:"status"`
	Data   PlayResult `json:"data"`
}

func playJSON(t *testing.T, args ...string) PlayResult {
	t.Helper()
	out, err := execute(t, append([]string{"play", "--format", "json"}, args...)...)
	require.NoError(t, err)

	var resp playResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	assert.Equal(t, "ok", resp.Status)
	return resp.Data
}

// playIntoDB plays n random kanto mirrors into a fresh database.
func playIntoDB(t *testing.T, n int) (string, []journal.Playout) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	result := playJSON(t, "--red", "kanto", "--blue", "kanto", "-n", strconv.Itoa(n), "--workers", "2", "--db", dbPath)
	require.Len(t, result.Playouts, n)
	return dbPath, result.Playouts
}

func TestPlaySingle(t *testing.T) {
	result := playJSON(t, "--red", "kanto", "--blue", "kanto", "--seed", "7")

	require.Len(t, result.Playouts, 1)
	p := result.Playouts[0]
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, int64(7), p.Seed)
	assert.Equal(t, journal.SourceRandom, p.Source)
	assert.Contains(t, []string{journal.StatusWon, journal.StatusDraw}, p.Status)
	assert.GreaterOrEqual(t, p.Steps, int64(2), "both starters are always chosen")
	assert.Equal(t, 1, result.Summary.Total)
}

func TestPlayIsReproducible(t *testing.T) {
	a := playJSON(t, "--red", "kanto", "--blue", "steel", "--seed", "11", "-n", "3", "--workers", "3")
	b := playJSON(t, "--red", "kanto", "--blue", "steel", "--seed", "11", "-n", "3", "--workers", "1")

	require.Len(t, a.Playouts, 3)
	require.Len(t, b.Playouts, 3)
	for i := range a.Playouts {
		assert.NotEqual(t, a.Playouts[i].ID, b.Playouts[i].ID)
		assert.Equal(t, int64(11+i), a.Playouts[i].Seed)
		assert.Equal(t, a.Playouts[i].Status, b.Playouts[i].Status)
		assert.Equal(t, a.Playouts[i].Winner, b.Playouts[i].Winner)
		assert.Equal(t, a.Playouts[i].Turns, b.Playouts[i].Turns)
		assert.Equal(t, a.Playouts[i].Steps, b.Playouts[i].Steps)
	}
	assert.Equal(t, a.Summary, b.Summary)
}

func TestPlayQuotaAborts(t *testing.T) {
	result := playJSON(t, "--red", "kanto", "--blue", "kanto", "--max-steps", "1")

	require.Len(t, result.Playouts, 1)
	assert.Equal(t, journal.StatusAborted, result.Playouts[0].Status)
	assert.Equal(t, int64(1), result.Playouts[0].Steps)
	assert.Equal(t, 1, result.Summary.Aborted)
}

func TestPlayPersistsJournal(t *testing.T) {
	dbPath, playouts := playIntoDB(t, 3)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	stored, err := st.ListPlayouts(ctx, "")
	require.NoError(t, err)
	require.Len(t, stored, 3)

	for _, p := range playouts {
		got, err := st.ReadPlayout(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p, got)
		assert.True(t, got.Finished())

		entries, err := st.ReadEntries(ctx, p.ID)
		require.NoError(t, err)
		assert.Len(t, entries, int(p.Steps))
		for i, e := range entries {
			assert.Equal(t, int64(i+1), e.Seq)
		}
	}
}

func TestPlayWritesMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "play.prom")
	playJSON(t, "--red", "kanto", "--blue", "kanto", "-n", "2", "--metrics-file", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "branchsim_driver_playouts_total")
	assert.Contains(t, string(data), "branchsim_driver_resolutions_total")
}

func TestPlayTextOutput(t *testing.T) {
	out, err := execute(t, "play", "--red", "kanto", "--blue", "kanto", "-n", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "seed=1 ")
	assert.Contains(t, out, "seed=2 ")
	assert.Contains(t, out, "2 playout(s):")
}

func TestPlayCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown team", []string{"--red", "nope"}, "unknown red team"},
		{"zero runs", []string{"-n", "0"}, "--runs must be positive"},
		{"zero workers", []string{"--workers", "0"}, "--workers must be positive"},
		{"zero quota", []string{"--max-steps", "0"}, "--max-steps must be positive"},
		{"missing team file", []string{"--teams", "/nonexistent/teams.cue"}, "failed to load teams"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"play"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
