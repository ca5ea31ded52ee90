package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/branchsim/internal/roster"
)

// ValidationError is one problem found in a team file.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Teams  []string          `json:"teams,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <teams.cue>",
		Short: "Validate a team file",
		Long: `Validate a CUE team file against the schema and the dex.

Reports every problem found: schema violations, unknown species, forms
and moves, and invalid members.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	formatter.VerboseLog("validating %s", path)

	errs := roster.Validate(path)
	if len(errs) == 0 {
		r, err := roster.LoadFile(path)
		if err != nil {
			errs = []error{err}
		} else {
			return outputValidateSuccess(formatter, path, r.TeamNames())
		}
	}

	result := ValidationResult{Valid: false}
	for _, err := range errs {
		result.Errors = append(result.Errors, toValidationError(err))
	}
	if result.Errors[0].Code == roster.ErrCodeNotFound {
		_ = formatter.Error(roster.ErrCodeNotFound, result.Errors[0].Message, nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("team file not found: %s", path))
	}

	if formatter.JSON() {
		if err := formatter.Encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    result.Errors[0].Code,
				Message: fmt.Sprintf("%d validation error(s)", len(result.Errors)),
			},
		}); err != nil {
			return err
		}
	} else {
		formatter.Textf("✗ %s", path)
		for _, e := range result.Errors {
			if e.Line > 0 {
				formatter.Textf("  line %d: [%s] %s", e.Line, e.Code, e.Message)
			} else {
				formatter.Textf("  [%s] %s", e.Code, e.Message)
			}
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(result.Errors)))
}

func toValidationError(err error) ValidationError {
	var le *roster.LoadError
	if errors.As(err, &le) {
		v := ValidationError{Code: le.Code, Message: le.Message}
		if le.Pos.IsValid() {
			v.Line = le.Pos.Line()
		}
		return v
	}
	return ValidationError{Code: roster.ErrCodeGeneric, Message: err.Error()}
}

func outputValidateSuccess(f *OutputFormatter, path string, teams []string) error {
	if f.JSON() {
		return f.Success(ValidationResult{Valid: true, Teams: teams})
	}
	f.Textf("✓ %s: %d team(s) %v", path, len(teams), teams)
	return nil
}
