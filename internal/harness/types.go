package harness

import "github.com/roach88/branchsim/internal/journal"

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if the expect clause and every assertion match.
	Pass bool `json:"pass"`

	// Playout is the finished playout header as stored.
	Playout journal.Playout `json:"playout"`

	// Trace contains every resolved decision and chance in seq order.
	Trace []journal.Entry `json:"trace"`

	// Log is the battle log.
	Log []string `json:"log"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the final battle state for battle_state assertions.
	// "battle" holds turn/status/winner; each player name holds its side.
	State map[string]map[string]any `json:"state,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []journal.Entry{},
		Log:    []string{},
		Errors: []string{},
		State:  make(map[string]map[string]any),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
