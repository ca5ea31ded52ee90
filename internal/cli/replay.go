package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/branchsim/internal/driver"
	"github.com/roach88/branchsim/internal/journal"
	"github.com/roach88/branchsim/internal/sim"
	"github.com/roach88/branchsim/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database  string
	PlayoutID string // optional - specific playout only
}

// ReplayPlayoutResult holds the replay result for a single playout.
type ReplayPlayoutResult struct {
	PlayoutID     string `json:"playout_id"`
	Status        string `json:"status"`
	Entries       int    `json:"entries"`
	Deterministic bool   `json:"deterministic"`
	Skipped       bool   `json:"skipped,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Playouts         []ReplayPlayoutResult `json:"playouts"`
	TotalPlayouts    int                   `json:"total_playouts"`
	AllDeterministic bool                  `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay stored journals and verify determinism",
		Long: `Re-drive stored playouts from their journals.

Each won or drawn playout is replayed with its journal as the resolver.
The replay must produce the same entries, entry for entry, and the same
outcome. Playouts that did not finish normally are skipped.

Exit codes:
  0 - Every replayed playout is deterministic
  1 - A replay diverged from its journal
  2 - Command error (database not found, unknown playout, etc.)

Examples:
  branchsim replay --db ./journal.db
  branchsim replay --db ./journal.db --playout 0192f0c4-...
  branchsim replay --db ./journal.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.PlayoutID, "playout", "", "replay specific playout only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var playouts []journal.Playout
	if opts.PlayoutID != "" {
		p, err := st.ReadPlayout(ctx, opts.PlayoutID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read playout", err)
		}
		playouts = []journal.Playout{p}
	} else {
		playouts, err = st.ListPlayouts(ctx, "")
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list playouts", err)
		}
	}

	result := ReplayResult{
		Playouts:         make([]ReplayPlayoutResult, 0, len(playouts)),
		TotalPlayouts:    len(playouts),
		AllDeterministic: true,
	}
	for _, p := range playouts {
		r, err := replayPlayout(ctx, st, p, opts)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay playout %s", p.ID), err)
		}
		result.Playouts = append(result.Playouts, r)
		if !r.Deterministic && !r.Skipped {
			result.AllDeterministic = false
		}
	}

	if formatter.JSON() {
		return outputReplayJSON(formatter, result)
	}
	return outputReplayText(formatter, result)
}

// replayPlayout replays one playout. A divergence is a result, not an error;
// the error return is reserved for storage and setup problems.
func replayPlayout(ctx context.Context, st *store.Store, p journal.Playout, opts *ReplayOptions) (ReplayPlayoutResult, error) {
	r := ReplayPlayoutResult{PlayoutID: p.ID, Status: p.Status}
	if p.Status != journal.StatusWon && p.Status != journal.StatusDraw {
		r.Skipped = true
		return r, nil
	}

	entries, err := st.ReadEntries(ctx, p.ID)
	if err != nil {
		return r, err
	}
	r.Entries = len(entries)

	_, err = sim.Replay(ctx, p, entries,
		sim.WithLogger(opts.logger()),
		sim.WithDriverOptions(driver.WithMaxSteps(max(int(p.Steps), 1))),
	)
	var re *driver.RuntimeError
	switch {
	case err == nil:
		r.Deterministic = true
	case errors.As(err, &re):
		r.Error = err.Error()
	default:
		return r, err
	}
	return r, nil
}

func outputReplayJSON(f *OutputFormatter, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}
	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    string(driver.ErrCodeReplayDiverged),
			Message: "determinism verification failed",
		}
	}
	if err := f.Encode(response); err != nil {
		return err
	}
	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

func outputReplayText(f *OutputFormatter, result ReplayResult) error {
	if result.TotalPlayouts == 0 {
		f.Textf("No playouts found in database.")
		return nil
	}

	f.Textf("Replay Summary: %d playout(s)", result.TotalPlayouts)
	f.Textf("")
	for _, r := range result.Playouts {
		switch {
		case r.Skipped:
			f.Textf("- %s (%s, skipped)", r.PlayoutID, r.Status)
		case r.Deterministic:
			f.Textf("✓ %s (%s, %d entries)", r.PlayoutID, r.Status, r.Entries)
		default:
			f.Textf("✗ %s (%s, %d entries)", r.PlayoutID, r.Status, r.Entries)
			f.Textf("  %s", r.Error)
		}
	}
	f.Textf("")

	if result.AllDeterministic {
		f.Textf("✓ All playouts verified deterministic")
		return nil
	}
	f.Textf("✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}
