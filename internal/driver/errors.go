package driver

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while driving a playout.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// PlayoutID identifies the affected playout.
	PlayoutID string

	// Seq is the logical clock position at which the error occurred.
	Seq int64

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeIndexOutOfRange indicates a resolver picked a non-existent option.
	ErrCodeIndexOutOfRange RuntimeErrorCode = "INDEX_OUT_OF_RANGE"

	// ErrCodePendingObserved indicates the driver was handed a Pending node.
	// Composition always resolves Pending, so this means a step returned
	// Pending where a tree root was expected.
	ErrCodePendingObserved RuntimeErrorCode = "PENDING_OBSERVED"

	// ErrCodeQuotaExceeded indicates the playout exceeded max steps.
	ErrCodeQuotaExceeded RuntimeErrorCode = "QUOTA_EXCEEDED"

	// ErrCodeReplayDiverged indicates the tree no longer matches a journal.
	ErrCodeReplayDiverged RuntimeErrorCode = "REPLAY_DIVERGED"

	// ErrCodeLabelNotFound indicates a scripted pick named a missing label.
	ErrCodeLabelNotFound RuntimeErrorCode = "LABEL_NOT_FOUND"

	// ErrCodeInvalidNode indicates a zero-value node.
	ErrCodeInvalidNode RuntimeErrorCode = "INVALID_NODE"
)

// ErrScriptExhausted is returned by a Scripted resolver that ran out of picks.
var ErrScriptExhausted = errors.New("script exhausted")

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.PlayoutID != "" {
		return fmt.Sprintf("%s: %s (playout=%s, seq=%d)", e.Code, e.Message, e.PlayoutID, e.Seq)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsQuotaError returns true if err is a quota exceeded error.
func IsQuotaError(err error) bool { return hasCode(err, ErrCodeQuotaExceeded) }

// IsReplayDivergence returns true if err reports a replay mismatch.
func IsReplayDivergence(err error) bool { return hasCode(err, ErrCodeReplayDiverged) }

// IsIndexError returns true if err reports an out-of-range pick.
func IsIndexError(err error) bool { return hasCode(err, ErrCodeIndexOutOfRange) }

// NewQuotaError creates a RuntimeError for quota exceeded.
func NewQuotaError(playoutID string, steps, maxSteps int) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeQuotaExceeded,
		Message:   fmt.Sprintf("playout exceeded max steps (%d > %d)", steps, maxSteps),
		PlayoutID: playoutID,
		Details: map[string]string{
			"steps":     fmt.Sprintf("%d", steps),
			"max_steps": fmt.Sprintf("%d", maxSteps),
		},
	}
}

func newIndexError(name string, idx, n int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeIndexOutOfRange,
		Message: fmt.Sprintf("resolver picked %d of %d options at %q", idx, n, name),
		Details: map[string]string{
			"node":    name,
			"index":   fmt.Sprintf("%d", idx),
			"options": fmt.Sprintf("%d", n),
		},
	}
}

func newDivergedError(format string, args ...any) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeReplayDiverged,
		Message: fmt.Sprintf(format, args...),
	}
}
