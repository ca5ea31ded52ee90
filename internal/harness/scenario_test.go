package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/branchsim/internal/driver"
)

const minimalScenario = `
name: minimal
description: "smallest valid scenario"
red: kanto
blue: steel
picks: [0]
expect:
  status: won
`

func TestParseScenario_Minimal(t *testing.T) {
	s, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
	assert.Equal(t, "kanto", s.Red)
	assert.Equal(t, "steel", s.Blue)
	assert.Empty(t, s.Teams)
	require.NotNil(t, s.Expect)
	assert.Equal(t, "won", s.Expect.Status)
}

func TestParseScenario_Picks(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: picks
description: "mixed picks"
red: kanto
blue: kanto
picks: [3, Forfeit, "7", "Air Slash"]
expect: {status: won}
`))
	require.NoError(t, err)
	require.Len(t, s.Picks, 4)

	assert.Equal(t, driver.ByIndex(3), s.Picks[0].Pick)
	assert.Equal(t, driver.ByLabel("Forfeit"), s.Picks[1].Pick)
	assert.Equal(t, driver.ByLabel("7"), s.Picks[2].Pick, "quoted numbers are labels")
	assert.Equal(t, driver.ByLabel("Air Slash"), s.Picks[3].Pick)
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown field",
			yaml: minimalScenario + "assertion: []\n",
			want: "field assertion not found",
		},
		{
			name: "missing name",
			yaml: "description: d\nred: a\nblue: b\npicks: [0]\nexpect: {status: won}\n",
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: "name: n\nred: a\nblue: b\npicks: [0]\nexpect: {status: won}\n",
			want: "description is required",
		},
		{
			name: "missing team",
			yaml: "name: n\ndescription: d\nred: a\npicks: [0]\nexpect: {status: won}\n",
			want: "red and blue teams are required",
		},
		{
			name: "no picks",
			yaml: "name: n\ndescription: d\nred: a\nblue: b\nexpect: {status: won}\n",
			want: "picks list is required",
		},
		{
			name: "nothing to check",
			yaml: "name: n\ndescription: d\nred: a\nblue: b\npicks: [0]\n",
			want: "expect or assertions is required",
		},
		{
			name: "negative pick",
			yaml: "name: n\ndescription: d\nred: a\nblue: b\npicks: [-1]\nexpect: {status: won}\n",
			want: "negative",
		},
		{
			name: "list pick",
			yaml: "name: n\ndescription: d\nred: a\nblue: b\npicks: [[1]]\nexpect: {status: won}\n",
			want: "index or a label",
		},
		{
			name: "bad status",
			yaml: "name: n\ndescription: d\nred: a\nblue: b\npicks: [0]\nexpect: {status: lost}\n",
			want: `unknown status "lost"`,
		},
		{
			name: "unknown assertion",
			yaml: "name: n\ndescription: d\nred: a\nblue: b\npicks: [0]\nassertions: [{type: magic}]\n",
			want: `unknown assertion type "magic"`,
		},
		{
			name: "empty trace_contains",
			yaml: "name: n\ndescription: d\nred: a\nblue: b\npicks: [0]\nassertions: [{type: trace_contains}]\n",
			want: "needs at least one of",
		},
		{
			name: "trace_order without labels",
			yaml: "name: n\ndescription: d\nred: a\nblue: b\npicks: [0]\nassertions: [{type: trace_order}]\n",
			want: "labels list is required",
		},
		{
			name: "final_state without table",
			yaml: "name: n\ndescription: d\nred: a\nblue: b\npicks: [0]\nassertions: [{type: final_state, expect: {a: 1}}]\n",
			want: "table is required",
		},
		{
			name: "log_contains without line",
			yaml: "name: n\ndescription: d\nred: a\nblue: b\npicks: [0]\nassertions: [{type: log_contains}]\n",
			want: "line is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_ResolvesTeamsPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "teams.cue"), []byte("teams: {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s.yaml"), []byte(minimalScenario+"teams: teams.cue\n"), 0o644))

	s, err := LoadScenario(filepath.Join(dir, "s.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "teams.cue"), s.Teams)
}

func TestLoadScenario_MissingTeamsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s.yaml"), []byte(minimalScenario+"teams: nowhere.cue\n"), 0o644))

	_, err := LoadScenario(filepath.Join(dir, "s.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teams file not found")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenarios_Testdata(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "kanto_forfeit", scenarios[0].Name)
	assert.Equal(t, "kanto_speed_tie", scenarios[1].Name)
}
