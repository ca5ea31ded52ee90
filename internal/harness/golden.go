package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/branchsim/internal/journal"
)

// TraceSnapshot captures the trace of a scenario run for golden comparison.
// Entry ids are left out: they are hashes of the other fields and only add
// noise to diffs.
type TraceSnapshot struct {
	ScenarioName string          `json:"scenario_name"`
	Playout      journal.Playout `json:"playout"`
	Trace        []journal.Entry `json:"trace"`
	Log          []string        `json:"log"`
}

// NewTraceSnapshot captures result under the given scenario name.
func NewTraceSnapshot(scenarioName string, result *Result) *TraceSnapshot {
	return &TraceSnapshot{
		ScenarioName: scenarioName,
		Playout:      result.Playout,
		Trace:        result.Trace,
		Log:          result.Log,
	}
}

// toCanonicalMap converts a TraceSnapshot to plain values for
// journal.MarshalCanonical.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, e := range s.Trace {
		m := map[string]any{
			"seq":     e.Seq,
			"kind":    e.Kind,
			"name":    e.Name,
			"index":   e.Index,
			"label":   e.Label,
			"options": e.Options,
		}
		if e.Player != "" {
			m["player"] = e.Player
		}
		if e.Weight != "" {
			m["weight"] = e.Weight
		}
		traceList[i] = m
	}

	logList := make([]any, len(s.Log))
	for i, line := range s.Log {
		logList[i] = line
	}

	outcome := map[string]any{
		"status": s.Playout.Status,
		"turns":  s.Playout.Turns,
		"steps":  s.Playout.Steps,
	}
	if s.Playout.Winner != "" {
		outcome["winner"] = s.Playout.Winner
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"playout_id":    s.Playout.ID,
		"outcome":       outcome,
		"trace":         traceList,
		"log":           logList,
	}
}

// Marshal renders the snapshot as canonical JSON followed by a newline.
func (s *TraceSnapshot) Marshal() ([]byte, error) {
	data, err := journal.MarshalCanonical(s.toCanonicalMap())
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if trace doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := NewTraceSnapshot(scenarioName, result)
	data, err := snapshot.Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
