package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/branchsim/internal/battle"
	"github.com/roach88/branchsim/internal/driver"
	"github.com/roach88/branchsim/internal/journal"
	"github.com/roach88/branchsim/internal/monster"
	"github.com/roach88/branchsim/internal/sim"
	"github.com/roach88/branchsim/internal/store"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Teams       string
	Red         string
	Blue        string
	Seed        int64
	Runs        int
	Workers     int
	Database    string
	MaxTurns    int
	MaxSteps    int
	MetricsFile string

	// ids generates playout ids; UUIDv7 unless a test replaces it.
	ids driver.PlayoutIDGenerator
}

// PlaySummary counts playout outcomes.
type PlaySummary struct {
	Total   int `json:"total"`
	Player1 int `json:"player1_wins"`
	Player2 int `json:"player2_wins"`
	Draws   int `json:"draws"`
	Aborted int `json:"aborted"`
	Failed  int `json:"failed"`
}

// PlayResult is the JSON payload of the play command.
type PlayResult struct {
	Playouts []journal.Playout `json:"playouts"`
	Summary  PlaySummary       `json:"summary"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts, ids: driver.UUIDv7Generator{}}
	cfg := rootOpts.Config

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play random battles",
		Long: `Play battles with uniformly random decisions and weighted chance.

Playout i of a batch is seeded with seed+i, so a batch is reproducible.
With --db every playout header and journal entry is stored for replay.

Exit codes:
  0 - Every playout finished, was drawn or hit the step quota
  1 - One or more playouts failed
  2 - Command error (bad flags, unknown team, database error)

Examples:
  branchsim play --red kanto --blue steel
  branchsim play -n 100 --workers 8 --db ./journal.db
  branchsim play --teams ./teams.cue --red mine --blue yours --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Teams, "teams", "", "CUE team file (default: embedded teams)")
	cmd.Flags().StringVar(&opts.Red, "red", "red", "team of Player1")
	cmd.Flags().StringVar(&opts.Blue, "blue", "blue", "team of Player2")
	cmd.Flags().Int64Var(&opts.Seed, "seed", cfg.Seed, "seed of the first playout")
	cmd.Flags().IntVarP(&opts.Runs, "runs", "n", 1, "number of playouts")
	cmd.Flags().IntVar(&opts.Workers, "workers", cfg.Workers, "concurrent playouts")
	cmd.Flags().StringVar(&opts.Database, "db", cfg.DB, "path to SQLite journal database")
	cmd.Flags().IntVar(&opts.MaxTurns, "max-turns", cfg.MaxTurns, "battle turn limit")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", cfg.MaxSteps, "resolution quota per playout")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file")

	return cmd
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	log := opts.logger()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.Runs < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--runs must be positive, got %d", opts.Runs))
	}
	if opts.Workers < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--workers must be positive, got %d", opts.Workers))
	}
	if opts.MaxSteps < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--max-steps must be positive, got %d", opts.MaxSteps))
	}

	roster, err := sim.LoadRoster(opts.Teams)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load teams", err)
	}
	red, err := roster.Team(opts.Red)
	if err != nil {
		return WrapExitError(ExitCommandError, "unknown red team", err)
	}
	blue, err := roster.Team(opts.Blue)
	if err != nil {
		return WrapExitError(ExitCommandError, "unknown blue team", err)
	}

	var st *store.Store
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
	}

	reg := prometheus.NewRegistry()
	metrics := driver.NewMetrics(reg)

	setup := sim.Setup{Roster: opts.Teams, Red: opts.Red, Blue: opts.Blue, MaxTurns: opts.MaxTurns}
	playouts := make([]journal.Playout, opts.Runs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range opts.Runs {
		header := setup.Playout(opts.ids.Generate(), opts.Seed+int64(i), journal.SourceRandom)
		g.Go(func() error {
			p, err := playOne(gctx, header, red, blue, st, metrics, opts.MaxSteps, log)
			playouts[i] = p
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return WrapExitError(ExitCommandError, "failed to store playout", err)
	}

	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, reg); err != nil {
			return WrapExitError(ExitCommandError, "failed to write metrics", err)
		}
	}

	result := PlayResult{Playouts: playouts, Summary: summarize(playouts)}
	if formatter.JSON() {
		status := "ok"
		if result.Summary.Failed > 0 {
			status = "error"
		}
		if err := formatter.Encode(CLIResponse{Status: status, Data: result}); err != nil {
			return err
		}
	} else {
		outputPlayText(formatter, result)
	}

	if result.Summary.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d playout(s) failed", result.Summary.Failed))
	}
	return nil
}

// playOne runs one playout. Battle errors are part of the outcome; only
// storage errors are returned, and they stop the batch.
func playOne(ctx context.Context, p journal.Playout, red, blue monster.Team, st *store.Store, metrics *driver.Metrics, maxSteps int, log *slog.Logger) (journal.Playout, error) {
	dopts := []driver.Option{
		driver.WithMaxSteps(maxSteps),
		driver.WithMetrics(metrics),
		driver.WithSource(journal.SourceRandom),
	}
	if st != nil {
		if err := st.WritePlayout(ctx, p); err != nil {
			return p, err
		}
		dopts = append(dopts, driver.WithRecorder(st))
	}

	res, err := sim.Play(ctx, p, driver.NewRandom[battle.Player](p.Seed),
		sim.WithTeams(red, blue),
		sim.WithLogger(log),
		sim.WithDriverOptions(dopts...),
	)
	if err != nil {
		log.Warn("playout did not finish", "playout", p.ID, "status", res.Playout.Status, "error", err)
	}
	metrics.RecordPlayout(res.Playout.Status, res.Playout.Steps)

	if st != nil {
		if err := st.FinishPlayout(ctx, res.Playout); err != nil {
			return res.Playout, err
		}
	}
	log.Info("playout finished",
		"playout", p.ID,
		"seed", p.Seed,
		"status", res.Playout.Status,
		"winner", res.Playout.Winner,
		"turns", res.Playout.Turns,
		"steps", res.Playout.Steps,
	)
	return res.Playout, nil
}

func summarize(playouts []journal.Playout) PlaySummary {
	s := PlaySummary{Total: len(playouts)}
	for _, p := range playouts {
		switch p.Status {
		case journal.StatusWon:
			if p.Winner == battle.Player1.String() {
				s.Player1++
			} else {
				s.Player2++
			}
		case journal.StatusDraw:
			s.Draws++
		case journal.StatusAborted:
			s.Aborted++
		default:
			s.Failed++
		}
	}
	return s
}

func outputPlayText(f *OutputFormatter, result PlayResult) {
	for _, p := range result.Playouts {
		outcome := p.Status
		if p.Status == journal.StatusWon {
			outcome = p.Winner + " won"
		}
		f.Textf("%s seed=%d %s after %d turn(s), %d step(s)", p.ID, p.Seed, outcome, p.Turns, p.Steps)
	}
	s := result.Summary
	f.Textf("")
	f.Textf("%d playout(s): Player1 %d, Player2 %d, draws %d, aborted %d, failed %d",
		s.Total, s.Player1, s.Player2, s.Draws, s.Aborted, s.Failed)
}
