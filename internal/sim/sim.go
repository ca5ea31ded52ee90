// Package sim runs one battle playout end to end: it loads the teams a
// playout names, builds the battle tree, drives it and reports the outcome
// as a journal.Playout.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/branchsim/internal/battle"
	"github.com/roach88/branchsim/internal/driver"
	"github.com/roach88/branchsim/internal/journal"
	"github.com/roach88/branchsim/internal/monster"
	"github.com/roach88/branchsim/internal/roster"
)

// Setup names a battle.
type Setup struct {
	// Roster is a CUE team file; empty selects the embedded default.
	Roster   string
	Red      string
	Blue     string
	MaxTurns int
}

// LoadRoster returns the roster at path, or the embedded one when path is empty.
func LoadRoster(path string) (*roster.Roster, error) {
	if path == "" {
		return roster.Default()
	}
	return roster.LoadFile(path)
}

// Teams loads both teams.
func (s Setup) Teams() (red, blue monster.Team, err error) {
	r, err := LoadRoster(s.Roster)
	if err != nil {
		return nil, nil, err
	}
	if red, err = r.Team(s.Red); err != nil {
		return nil, nil, err
	}
	if blue, err = r.Team(s.Blue); err != nil {
		return nil, nil, err
	}
	return red, blue, nil
}

// Playout returns a running playout header for the setup.
func (s Setup) Playout(id string, seed int64, source string) journal.Playout {
	maxTurns := s.MaxTurns
	if maxTurns <= 0 {
		maxTurns = battle.DefaultMaxTurns
	}
	return journal.Playout{
		ID:       id,
		Seed:     seed,
		Source:   source,
		Roster:   s.Roster,
		Red:      s.Red,
		Blue:     s.Blue,
		MaxTurns: maxTurns,
		Status:   journal.StatusRunning,
	}
}

// Result is a finished (or stopped) playout.
type Result struct {
	Playout journal.Playout

	// Battle is the final state; nil when the teams could not be loaded.
	Battle *battle.SingleBattle

	Decisions int
	Chances   int
}

type config struct {
	driver []driver.Option
	battle []battle.BattleOption
	logger *slog.Logger
	red    monster.Team
	blue   monster.Team
}

// Option configures Play and Replay.
type Option func(*config)

// WithDriverOptions passes options to the driver.
func WithDriverOptions(opts ...driver.Option) Option {
	return func(c *config) { c.driver = append(c.driver, opts...) }
}

// WithBattleOptions passes options to the battle.
func WithBattleOptions(opts ...battle.BattleOption) Option {
	return func(c *config) { c.battle = append(c.battle, opts...) }
}

// WithLogger sets the logger of both the battle and the driver.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithTeams skips roster loading and uses red and blue as given. Batch
// runs load the roster once and pass the teams to every playout.
func WithTeams(red, blue monster.Team) Option {
	return func(c *config) { c.red, c.blue = red, blue }
}

// Play drives the battle described by p with r and returns p updated with
// the outcome. On error the playout status is aborted (cancellation or
// quota) or failed, and the result carries the state reached so far.
func Play(ctx context.Context, p journal.Playout, r driver.Resolver[battle.Player], opts ...Option) (Result, error) {
	cfg := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	red, blue := cfg.red, cfg.blue
	if red == nil || blue == nil {
		var err error
		red, blue, err = Setup{Roster: p.Roster, Red: p.Red, Blue: p.Blue}.Teams()
		if err != nil {
			p.Status = journal.StatusFailed
			return Result{Playout: p}, fmt.Errorf("playout %s: %w", p.ID, err)
		}
	}

	bopts := append([]battle.BattleOption{
		battle.WithMaxTurns(p.MaxTurns),
		battle.WithLogger(cfg.logger),
	}, cfg.battle...)
	dopts := append([]driver.Option{driver.WithLogger(cfg.logger)}, cfg.driver...)

	d := driver.New[*battle.SingleBattle, battle.Player](r, dopts...)
	out, err := d.Run(ctx, p.ID, battle.Start(red, blue, bopts...))

	res := Result{Battle: out.State, Decisions: out.Decisions, Chances: out.Chances}
	p.Steps = out.Steps
	if out.State != nil {
		p.Turns = out.State.Turn()
	}

	if err != nil {
		p.Status = errorStatus(err)
		res.Playout = p
		return res, err
	}

	switch out.State.Result() {
	case battle.StatusWon:
		w, _ := out.State.Winner()
		p.Status = journal.StatusWon
		p.Winner = w.String()
	case battle.StatusDraw:
		p.Status = journal.StatusDraw
	default:
		p.Status = journal.StatusFailed
		res.Playout = p
		return res, fmt.Errorf("playout %s ended while the battle was %s", p.ID, out.State.Result())
	}
	res.Playout = p
	return res, nil
}

func errorStatus(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || driver.IsQuotaError(err) {
		return journal.StatusAborted
	}
	return journal.StatusFailed
}

// Replay re-drives a stored playout from its journal and checks that the
// same entries and the same outcome come out. Any difference is reported as
// a REPLAY_DIVERGED runtime error.
func Replay(ctx context.Context, p journal.Playout, entries []journal.Entry, opts ...Option) (Result, error) {
	rep := driver.NewReplay[battle.Player](entries)
	mem := journal.NewMemory()
	opts = append(opts, WithDriverOptions(driver.WithRecorder(mem), driver.WithSource(journal.SourceReplay)))

	header := p
	header.Status = journal.StatusRunning
	header.Winner = ""
	header.Turns = 0
	header.Steps = 0

	res, err := Play(ctx, header, rep, opts...)
	if err != nil {
		return res, err
	}

	if !rep.Done() {
		return res, diverged(p.ID, "battle ended with %d of %d journal entries consumed", len(mem.Entries()), len(entries))
	}
	for i, e := range mem.Entries() {
		if e.ID != entries[i].ID {
			return res, diverged(p.ID, "entry %d id %s, journal has %s", e.Seq, e.ID, entries[i].ID)
		}
	}
	if p.Status == journal.StatusWon || p.Status == journal.StatusDraw {
		got := res.Playout
		if got.Status != p.Status || got.Winner != p.Winner || got.Turns != p.Turns {
			return res, diverged(p.ID, "outcome %s/%s after %d turns, journal says %s/%s after %d turns",
				got.Status, got.Winner, got.Turns, p.Status, p.Winner, p.Turns)
		}
	}
	return res, nil
}

func diverged(playoutID, format string, args ...any) *driver.RuntimeError {
	return &driver.RuntimeError{
		Code:      driver.ErrCodeReplayDiverged,
		Message:   fmt.Sprintf(format, args...),
		PlayoutID: playoutID,
	}
}
