package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/branchsim/internal/engine"
	"github.com/roach88/branchsim/internal/journal"
)

// Recorder receives every journal entry a driver produces, in seq order.
// Implemented by journal.Memory and store.Store.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Outcome is the result of one playout.
type Outcome[S any] struct {
	// State is the state at the End node, or at the node where the
	// playout stopped on error.
	State S

	Steps     int64
	Decisions int
	Chances   int
}

type options struct {
	clock     SeqClock
	recorders []Recorder
	maxSteps  int
	logger    *slog.Logger
	metrics   *Metrics
	source    string
}

// Option configures a Driver.
type Option func(*options)

// WithClock sets the logical clock. Default: a fresh Clock per driver.
func WithClock(c SeqClock) Option {
	return func(o *options) { o.clock = c }
}

// WithRecorder adds a recorder. Recorders are called in the order added.
func WithRecorder(r Recorder) Option {
	return func(o *options) { o.recorders = append(o.recorders, r) }
}

// WithMaxSteps sets the resolution quota per playout.
//
// Default: 5000 steps (DefaultMaxSteps).
func WithMaxSteps(n int) Option {
	return func(o *options) { o.maxSteps = n }
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics reports resolutions and playouts to m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithSource labels metrics with the resolver kind (see journal.Source*).
func WithSource(source string) Option {
	return func(o *options) { o.source = source }
}

// Driver walks trees of one state type with one resolver.
type Driver[S any, P engine.Player] struct {
	resolver Resolver[P]
	opts     options
}

// New creates a Driver.
func New[S any, P engine.Player](r Resolver[P], opts ...Option) *Driver[S, P] {
	o := options{
		clock:    NewClock(),
		maxSteps: DefaultMaxSteps,
		logger:   slog.Default(),
		source:   journal.SourceRandom,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Driver[S, P]{resolver: r, opts: o}
}

// Clock returns the driver's logical clock.
func (d *Driver[S, P]) Clock() SeqClock { return d.opts.clock }

// Run drives root to an End node.
//
// Every resolution is checked against the step quota, bounds-checked,
// stamped, recorded, and then the chosen continuation is resumed. The
// continuations that were not chosen are discarded. On any error, or when
// ctx is cancelled, the current node's continuations are discarded and
// the error is returned together with the state reached so far.
func (d *Driver[S, P]) Run(ctx context.Context, playoutID string, root engine.Node[S, P]) (Outcome[S], error) {
	var out Outcome[S]
	quota := NewQuotaEnforcer(d.opts.maxSteps)
	log := d.opts.logger.With("playout", playoutID)

	fail := func(n engine.Node[S, P], err error) (Outcome[S], error) {
		n.Discard()
		out.State = n.State()
		var re *RuntimeError
		if errors.As(err, &re) {
			if re.PlayoutID == "" {
				re.PlayoutID = playoutID
				re.Seq = d.opts.clock.Current()
			}
			d.opts.metrics.RecordError(string(re.Code))
		} else {
			d.opts.metrics.RecordError("resolver")
		}
		log.Warn("playout stopped", "error", err, "steps", out.Steps)
		return out, err
	}

	n := root
	for {
		if err := ctx.Err(); err != nil {
			return fail(n, fmt.Errorf("playout %s: %w", playoutID, err))
		}

		switch n.Kind() {
		case engine.KindEnd:
			out.State = n.State()
			log.Debug("playout finished", "steps", out.Steps)
			return out, nil

		case engine.KindPending:
			return fail(n, &RuntimeError{
				Code:    ErrCodePendingObserved,
				Message: "driver observed a Pending node",
			})

		case engine.KindDecision, engine.KindChance:
			if err := quota.Check(playoutID); err != nil {
				return fail(n, err)
			}
			idx, entry, err := d.resolve(ctx, n)
			if err != nil {
				return fail(n, err)
			}
			if idx < 0 || idx >= n.Len() {
				return fail(n, newIndexError(n.Name(), idx, n.Len()))
			}

			entry.PlayoutID = playoutID
			entry.Seq = d.opts.clock.Next()
			entry.Index = idx
			entry.Label = n.Labels()[idx]
			entry.Options = n.Len()
			if n.Kind() == engine.KindChance {
				entry.Weight = journal.FormatWeight(n.Chance().Possibilities[idx].Weight)
			}
			if entry, err = journal.Stamp(entry); err != nil {
				return fail(n, err)
			}
			for _, r := range d.opts.recorders {
				if err := r.Record(ctx, entry); err != nil {
					return fail(n, fmt.Errorf("recording seq %d: %w", entry.Seq, err))
				}
			}

			out.Steps++
			if entry.Kind == journal.KindDecision {
				out.Decisions++
			} else {
				out.Chances++
			}
			d.opts.metrics.RecordResolution(entry.Kind, d.opts.source)
			log.Debug("resolved", "seq", entry.Seq, "kind", entry.Kind, "name", entry.Name, "label", entry.Label)

			n = d.advance(n, idx)

		default:
			return fail(n, &RuntimeError{
				Code:    ErrCodeInvalidNode,
				Message: "driver observed a zero-value node",
			})
		}
	}
}

// resolve asks the resolver and returns the pick with a partly filled entry.
func (d *Driver[S, P]) resolve(ctx context.Context, n engine.Node[S, P]) (int, journal.Entry, error) {
	if dec := n.Decision(); dec != nil {
		idx, err := d.resolver.Decide(ctx, DecisionView[P]{Name: dec.Name, Player: dec.Player, Labels: n.Labels()})
		return idx, journal.Entry{Kind: journal.KindDecision, Name: dec.Name, Player: dec.Player.String()}, err
	}

	ch := n.Chance()
	weights := make([]float64, len(ch.Possibilities))
	for i, p := range ch.Possibilities {
		weights[i] = p.Weight
	}
	idx, err := d.resolver.Sample(ctx, ChanceView{Name: ch.Name, Labels: n.Labels(), Weights: weights})
	return idx, journal.Entry{Kind: journal.KindChance, Name: ch.Name}, err
}

// advance resumes option idx and discards the others.
func (d *Driver[S, P]) advance(n engine.Node[S, P], idx int) engine.Node[S, P] {
	state := n.State()
	if dec := n.Decision(); dec != nil {
		for i, c := range dec.Choices {
			if i != idx {
				c.Continuation.Discard()
			}
		}
		return dec.Choices[idx].Continuation.Resume(state)
	}
	ch := n.Chance()
	for i, p := range ch.Possibilities {
		if i != idx {
			p.Continuation.Discard()
		}
	}
	return ch.Possibilities[idx].Continuation.Resume(state)
}
