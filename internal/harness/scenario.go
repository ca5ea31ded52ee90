package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/branchsim/internal/driver"
	"github.com/roach88/branchsim/internal/journal"
)

// Scenario defines a scripted battle and what must hold once it ends.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Teams is a CUE team file, relative to the scenario file.
	// Empty selects the embedded roster.
	Teams string `yaml:"teams,omitempty"`

	// Red and Blue are team keys; Red plays Player1.
	Red  string `yaml:"red"`
	Blue string `yaml:"blue"`

	// PlayoutID is an optional fixed playout id.
	// If empty, defaults to "test-playout-default".
	PlayoutID string `yaml:"playout_id,omitempty"`

	// MaxTurns caps the battle. Zero selects the battle default.
	MaxTurns int `yaml:"max_turns,omitempty"`

	// Picks resolve every decision and chance in order.
	// An integer picks by position, a string by label.
	Picks []Pick `yaml:"picks"`

	// Expect checks the playout outcome.
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions"`
}

// Pick is one scripted resolution.
type Pick struct {
	driver.Pick
}

// UnmarshalYAML accepts an integer index or a string label.
func (p *Pick) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: pick must be an index or a label", node.Line)
	}
	if node.ShortTag() == "!!int" {
		var i int
		if err := node.Decode(&i); err != nil {
			return err
		}
		if i < 0 {
			return fmt.Errorf("line %d: pick index %d is negative", node.Line, i)
		}
		p.Pick = driver.ByIndex(i)
		return nil
	}
	p.Pick = driver.ByLabel(node.Value)
	return nil
}

// ExpectClause specifies the expected playout outcome.
// Empty fields are not checked.
type ExpectClause struct {
	// Status is one of won, draw, aborted, failed.
	Status string `yaml:"status"`

	Winner string `yaml:"winner,omitempty"`
	Turns  int    `yaml:"turns,omitempty"`

	// Error is a substring of the expected playout error. When set the
	// playout must fail.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an entry matching kind/name/player/label exists
	// - "trace_order": labels appear in order (not necessarily adjacent)
	// - "trace_count": exactly Count entries match kind/name/player/label
	// - "final_state": query a store table and verify expected values
	// - "battle_state": verify the final battle state
	// - "log_contains": the battle log has Line
	Type string `yaml:"type"`

	// Entry filters (trace_contains, trace_count). Empty fields match anything.
	Kind   string `yaml:"kind,omitempty"`
	Name   string `yaml:"name,omitempty"`
	Player string `yaml:"player,omitempty"`
	Label  string `yaml:"label,omitempty"`

	// Count is the expected number of matches (trace_count).
	Count int `yaml:"count,omitempty"`

	// Labels is the expected label order (trace_order).
	Labels []string `yaml:"labels,omitempty"`

	// Table is "playouts" or "entries" (final_state).
	Table string `yaml:"table,omitempty"`

	// Where specifies query filters (final_state).
	Where map[string]interface{} `yaml:"where,omitempty"`

	// Expect contains expected field values (final_state, battle_state).
	// Subset match - only specified fields are validated.
	Expect map[string]interface{} `yaml:"expect,omitempty"`

	// Line is the expected battle log line (log_contains).
	Line string `yaml:"line,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
	AssertBattleState   = "battle_state"
	AssertLogContains   = "log_contains"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative teams path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Teams != "" && !filepath.IsAbs(scenario.Teams) {
		scenario.Teams = filepath.Join(filepath.Dir(path), scenario.Teams)
	}
	if scenario.Teams != "" {
		if _, err := os.Stat(scenario.Teams); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: teams file not found: %s", scenario.Teams)
		}
	}

	return scenario, nil
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Red == "" || s.Blue == "" {
		return fmt.Errorf("red and blue teams are required")
	}

	if s.MaxTurns < 0 {
		return fmt.Errorf("max_turns must be non-negative")
	}

	if len(s.Picks) == 0 {
		return fmt.Errorf("picks list is required and must be non-empty")
	}

	if s.Expect == nil && len(s.Assertions) == 0 {
		return fmt.Errorf("expect or assertions is required")
	}

	if s.Expect != nil {
		switch s.Expect.Status {
		case "", journal.StatusWon, journal.StatusDraw, journal.StatusAborted, journal.StatusFailed:
		default:
			return fmt.Errorf("expect: unknown status %q", s.Expect.Status)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Kind == "" && a.Name == "" && a.Player == "" && a.Label == "" {
			return fmt.Errorf("assertions[%d]: trace_contains needs at least one of kind, name, player, label", index)
		}
	case AssertTraceOrder:
		if len(a.Labels) == 0 {
			return fmt.Errorf("assertions[%d]: labels list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	case AssertBattleState:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for battle_state", index)
		}
	case AssertLogContains:
		if a.Line == "" {
			return fmt.Errorf("assertions[%d]: line is required for log_contains", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
