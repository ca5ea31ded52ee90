package driver

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/roach88/branchsim/internal/engine"
	"github.com/roach88/branchsim/internal/journal"
)

// DecisionView is what a resolver sees of a Decision node.
type DecisionView[P engine.Player] struct {
	Name   string
	Player P
	Labels []string
}

// ChanceView is what a resolver sees of a Chance node. Weights are the
// raw, unnormalised weights in position order.
type ChanceView struct {
	Name    string
	Labels  []string
	Weights []float64
}

// Resolver picks an option at every Decision and Chance node.
// The returned value is a 0-based position into Labels.
type Resolver[P engine.Player] interface {
	Decide(ctx context.Context, d DecisionView[P]) (int, error)
	Sample(ctx context.Context, c ChanceView) (int, error)
}

// Random picks uniformly among choices and weight-proportionally among
// possibilities. The same seed always produces the same playout.
//
// Random is not safe for concurrent use; give each goroutine its own.
type Random[P engine.Player] struct {
	rng *rand.Rand
}

// NewRandom returns a Random resolver seeded with seed.
func NewRandom[P engine.Player](seed int64) *Random[P] {
	return &Random[P]{rng: rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))}
}

// Decide picks a choice uniformly.
func (r *Random[P]) Decide(_ context.Context, d DecisionView[P]) (int, error) {
	return r.rng.IntN(len(d.Labels)), nil
}

// Sample picks a possibility with probability weight/total. When every
// weight is zero the pick is uniform.
func (r *Random[P]) Sample(_ context.Context, c ChanceView) (int, error) {
	var total float64
	for _, w := range c.Weights {
		total += w
	}
	if total <= 0 {
		return r.rng.IntN(len(c.Weights)), nil
	}

	x := r.rng.Float64() * total
	for i, w := range c.Weights {
		if x < w {
			return i, nil
		}
		x -= w
	}
	// Rounding can leave x just above the last bucket.
	for i := len(c.Weights) - 1; i >= 0; i-- {
		if c.Weights[i] > 0 {
			return i, nil
		}
	}
	return len(c.Weights) - 1, nil
}

// Pick is one scripted resolution: by position, or by label (first match).
type Pick struct {
	Index   int
	Label   string
	byLabel bool
}

// ByIndex picks the option at position i.
func ByIndex(i int) Pick { return Pick{Index: i} }

// ByLabel picks the first option labeled label.
func ByLabel(label string) Pick { return Pick{Label: label, byLabel: true} }

// IsLabel reports whether the pick resolves by label.
func (p Pick) IsLabel() bool { return p.byLabel }

func (p Pick) String() string {
	if p.byLabel {
		return fmt.Sprintf("%q", p.Label)
	}
	return fmt.Sprintf("#%d", p.Index)
}

func (p Pick) resolve(name string, labels []string) (int, error) {
	if !p.byLabel {
		return p.Index, nil
	}
	for i, l := range labels {
		if l == p.Label {
			return i, nil
		}
	}
	return 0, &RuntimeError{
		Code:    ErrCodeLabelNotFound,
		Message: fmt.Sprintf("no option %q at %q (have %v)", p.Label, name, labels),
		Details: map[string]string{"node": name, "label": p.Label},
	}
}

// Scripted resolves decisions and chances alike from a queue of picks.
// Safe for concurrent use, though a script only makes sense for one playout.
type Scripted[P engine.Player] struct {
	mu    sync.Mutex
	picks []Pick
	next  int
}

// NewScripted returns a resolver that consumes picks in order.
func NewScripted[P engine.Player](picks ...Pick) *Scripted[P] {
	return &Scripted[P]{picks: picks}
}

// Remaining reports how many picks are left.
func (s *Scripted[P]) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.picks) - s.next
}

func (s *Scripted[P]) pop(name string, labels []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.picks) {
		return 0, fmt.Errorf("%w at %q after %d picks", ErrScriptExhausted, name, len(s.picks))
	}
	p := s.picks[s.next]
	s.next++
	return p.resolve(name, labels)
}

// Decide consumes the next pick.
func (s *Scripted[P]) Decide(_ context.Context, d DecisionView[P]) (int, error) {
	return s.pop(d.Name, d.Labels)
}

// Sample consumes the next pick.
func (s *Scripted[P]) Sample(_ context.Context, c ChanceView) (int, error) {
	return s.pop(c.Name, c.Labels)
}

// Replay re-drives a stored journal. Every node must match the next entry
// by kind, name, player and option count; any mismatch is REPLAY_DIVERGED.
type Replay[P engine.Player] struct {
	mu      sync.Mutex
	entries []journal.Entry
	next    int
}

// NewReplay returns a resolver over entries in seq order.
func NewReplay[P engine.Player](entries []journal.Entry) *Replay[P] {
	return &Replay[P]{entries: entries}
}

// Done reports whether every entry has been consumed.
func (r *Replay[P]) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next >= len(r.entries)
}

func (r *Replay[P]) take(kind, name, player string, options int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.next >= len(r.entries) {
		return 0, newDivergedError("journal exhausted at %s %q", kind, name)
	}
	e := r.entries[r.next]
	switch {
	case e.Kind != kind:
		return 0, newDivergedError("entry %d is a %s, tree has a %s %q", e.Seq, e.Kind, kind, name)
	case e.Name != name:
		return 0, newDivergedError("entry %d is %q, tree has %q", e.Seq, e.Name, name)
	case e.Player != player:
		return 0, newDivergedError("entry %d was decided by %s, tree asks %s", e.Seq, e.Player, player)
	case e.Options != options:
		return 0, newDivergedError("entry %d had %d options, tree has %d at %q", e.Seq, e.Options, options, name)
	}
	r.next++
	return e.Index, nil
}

// Decide returns the recorded choice.
func (r *Replay[P]) Decide(_ context.Context, d DecisionView[P]) (int, error) {
	return r.take(journal.KindDecision, d.Name, d.Player.String(), len(d.Labels))
}

// Sample returns the recorded possibility.
func (r *Replay[P]) Sample(_ context.Context, c ChanceView) (int, error) {
	return r.take(journal.KindChance, c.Name, "", len(c.Labels))
}
