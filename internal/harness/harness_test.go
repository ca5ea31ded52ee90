package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/branchsim/internal/journal"
	"github.com/roach88/branchsim/internal/testutil"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
	require.NoError(t, err)
	return s
}

func TestRun_Testdata(t *testing.T) {
	for _, name := range []string{"kanto_forfeit", "kanto_speed_tie"} {
		t.Run(name, func(t *testing.T) {
			result, err := Run(loadTestScenario(t, name))
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRun_Deterministic(t *testing.T) {
	s := loadTestScenario(t, "kanto_speed_tie")

	r1, err := Run(s)
	require.NoError(t, err)
	r2, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, r1.Trace, r2.Trace)
	assert.Equal(t, r1.Log, r2.Log)
	for i, e := range r1.Trace {
		assert.Equal(t, int64(i+1), e.Seq, "seq starts at 1 and has no gaps")
		assert.Equal(t, "test-playout-speed-tie", e.PlayoutID)
		assert.NotEmpty(t, e.ID)
	}
}

func TestRun_DefaultPlayoutID(t *testing.T) {
	s := loadTestScenario(t, "kanto_forfeit")
	s.PlayoutID = ""
	s.Assertions = nil

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, testutil.DefaultPlayoutID, result.Playout.ID)
}

func TestRun_WrongExpectation(t *testing.T) {
	s := loadTestScenario(t, "kanto_forfeit")
	s.Expect = &ExpectClause{Status: journal.StatusDraw, Winner: "Player1", Turns: 3}
	s.Assertions = nil

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{
		"expected status draw, got won",
		`expected winner Player1, got "Player2"`,
		"expected 3 turns, got 1",
	}, result.Errors)
}

func TestRun_UnexpectedPlayoutError(t *testing.T) {
	s := loadTestScenario(t, "kanto_speed_tie")
	s.Expect = nil
	s.Assertions = []Assertion{{Type: AssertTraceCount, Kind: journal.KindChance, Count: 2}}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "playout stopped")
	assert.Contains(t, result.Errors[0], "script exhausted")
}

func TestRun_ExpectedErrorMissing(t *testing.T) {
	s := loadTestScenario(t, "kanto_forfeit")
	s.Expect = &ExpectClause{Error: "script exhausted"}
	s.Assertions = nil

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], `expected playout error containing "script exhausted"`)
}

func TestRun_UnusedPicks(t *testing.T) {
	s := loadTestScenario(t, "kanto_forfeit")
	s.Picks = append(s.Picks, s.Picks[0], s.Picks[0])
	s.Assertions = nil

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors, "2 picks left unused after the battle ended")
}

func TestRun_UnknownTeam(t *testing.T) {
	s := loadTestScenario(t, "kanto_forfeit")
	s.Blue = "ghost"
	s.Assertions = nil
	s.Expect = &ExpectClause{Status: journal.StatusFailed, Error: "ghost"}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Trace)
	assert.Empty(t, result.Log)
}
