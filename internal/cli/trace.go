package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/branchsim/internal/journal"
	"github.com/roach88/branchsim/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database  string
	PlayoutID string
	Kind      string // optional - decision or chance
}

// TraceResult holds the trace output.
type TraceResult struct {
	Playout journal.Playout `json:"playout"`
	Entries []journal.Entry `json:"entries"`
	Stats   TraceStats      `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	TotalEntries int `json:"total_entries"`
	Decisions    int `json:"decisions"`
	Chances      int `json:"chances"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print the journal of a playout",
		Long: `Print the stored journal of one playout in seq order.

Each line shows the seq, the node name, the chosen index out of the
number of options and the chosen label.

Examples:
  branchsim trace --db ./journal.db --playout 0192f0c4-...
  branchsim trace --db ./journal.db --playout 0192f0c4-... --kind chance
  branchsim trace --db ./journal.db --playout 0192f0c4-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.PlayoutID, "playout", "", "playout id to trace (required)")
	_ = cmd.MarkFlagRequired("playout")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only show entries of this kind (decision|chance)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.Kind != "" && opts.Kind != journal.KindDecision && opts.Kind != journal.KindChance {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid kind %q: must be %s or %s", opts.Kind, journal.KindDecision, journal.KindChance))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	p, err := st.ReadPlayout(ctx, opts.PlayoutID)
	if errors.Is(err, store.ErrNotFound) {
		return NewExitError(ExitCommandError, fmt.Sprintf("no playout %s", opts.PlayoutID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read playout", err)
	}

	entries, err := st.ReadEntries(ctx, opts.PlayoutID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read entries", err)
	}

	result := TraceResult{Playout: p, Entries: filterKind(entries, opts.Kind)}
	for _, e := range entries {
		result.Stats.TotalEntries++
		if e.Kind == journal.KindDecision {
			result.Stats.Decisions++
		} else {
			result.Stats.Chances++
		}
	}

	if formatter.JSON() {
		return formatter.Encode(CLIResponse{Status: "ok", Data: result, PlayoutID: p.ID})
	}

	outcome := p.Status
	if p.Status == journal.StatusWon {
		outcome = p.Winner + " won"
	}
	formatter.Textf("Playout %s: %s vs %s, %s after %d turn(s)", p.ID, p.Red, p.Blue, outcome, p.Turns)
	formatter.Textf("")
	for _, line := range journal.Lines(result.Entries) {
		formatter.Textf("%s", line)
	}
	if formatter.Verbose {
		formatter.Textf("")
		formatter.Textf("%d entries: %d decisions, %d chances",
			result.Stats.TotalEntries, result.Stats.Decisions, result.Stats.Chances)
	}
	return nil
}

func filterKind(entries []journal.Entry, kind string) []journal.Entry {
	if kind == "" {
		return entries
	}
	out := make([]journal.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
