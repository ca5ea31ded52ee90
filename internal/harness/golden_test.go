package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/branchsim/internal/journal"
)

func TestRunWithGolden_KantoForfeit(t *testing.T) {
	result, err := RunWithGolden(t, loadTestScenario(t, "kanto_forfeit"))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestTraceSnapshot_Marshal(t *testing.T) {
	snap := TraceSnapshot{
		ScenarioName: "tiny",
		Playout:      journal.Playout{ID: "p", Status: journal.StatusDraw, Turns: 2, Steps: 1},
		Trace: []journal.Entry{
			{ID: "ignored", Seq: 1, Kind: journal.KindChance, Name: "Accuracy", Index: 0, Label: "Hit", Options: 2, Weight: "95"},
		},
		Log: []string{"draw: turn limit reached"},
	}

	data, err := snap.Marshal()
	require.NoError(t, err)
	assert.Equal(t,
		`{"log":["draw: turn limit reached"],"outcome":{"status":"draw","steps":1,"turns":2},"playout_id":"p","scenario_name":"tiny",`+
			`"trace":[{"index":0,"kind":"chance","label":"Hit","name":"Accuracy","options":2,"seq":1,"weight":"95"}]}`+"\n",
		string(data))
	assert.False(t, strings.Contains(string(data), "ignored"), "entry ids stay out of snapshots")
}
