package journal

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// Entry kinds.
const (
	KindDecision = "decision"
	KindChance   = "chance"
)

// Entry records one resolved Decision or Chance.
type Entry struct {
	ID        string `json:"id"`
	PlayoutID string `json:"playout_id"`
	Seq       int64  `json:"seq"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`

	// Player is the deciding player; empty for chance entries.
	Player string `json:"player,omitempty"`

	Index   int    `json:"index"`
	Label   string `json:"label"`
	Options int    `json:"options"`

	// Weight is the chosen possibility's weight; empty for decisions.
	Weight string `json:"weight,omitempty"`
}

// String renders the entry as one trace line.
func (e Entry) String() string {
	switch e.Kind {
	case KindDecision:
		return fmt.Sprintf("#%d decision %q %s -> [%d/%d] %s", e.Seq, e.Name, e.Player, e.Index, e.Options, e.Label)
	case KindChance:
		return fmt.Sprintf("#%d chance %q -> [%d/%d] %s (w=%s)", e.Seq, e.Name, e.Index, e.Options, e.Label, e.Weight)
	default:
		return fmt.Sprintf("#%d %s %q -> [%d/%d] %s", e.Seq, e.Kind, e.Name, e.Index, e.Options, e.Label)
	}
}

// FormatWeight renders a weight as its shortest round-tripping decimal.
func FormatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// Playout statuses.
const (
	StatusRunning = "running"
	StatusWon     = "won"
	StatusDraw    = "draw"
	StatusAborted = "aborted"
	StatusFailed  = "failed"
)

// Playout sources.
const (
	SourceRandom   = "random"
	SourceScripted = "scripted"
	SourceReplay   = "replay"
)

// Playout describes one walk of a battle tree from the root to an End
// node (or to the point where it was aborted).
type Playout struct {
	ID     string `json:"id"`
	Seed   int64  `json:"seed"`
	Source string `json:"source"`

	// Roster is the team file the teams came from; empty is the embedded default.
	Roster   string `json:"roster,omitempty"`
	Red      string `json:"red"`
	Blue     string `json:"blue"`
	MaxTurns int    `json:"max_turns"`

	Status string `json:"status"`
	Winner string `json:"winner,omitempty"`
	Turns  int    `json:"turns"`
	Steps  int64  `json:"steps"`
}

// Finished reports whether the playout reached a terminal status.
func (p Playout) Finished() bool {
	return p.Status != StatusRunning && p.Status != ""
}

// Memory is an in-memory journal. It is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemory returns an empty in-memory journal.
func NewMemory() *Memory { return &Memory{} }

// Append adds an entry.
func (m *Memory) Append(e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
}

// Record appends e. It implements driver.Recorder.
func (m *Memory) Record(_ context.Context, e Entry) error {
	m.Append(e)
	return nil
}

// Entries returns a copy of every entry appended so far.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}

// Lines renders every entry with Entry.String.
func Lines(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}
