package engine

import (
	"errors"
	"fmt"
)

// ContractError reports a programming error in code that builds nodes.
//
// Contract errors are raised with panic, never returned from composition:
// a Decision with no options has no valid resolution for any driver.
// TryResume is the one place a ContractError is returned as a value.
type ContractError struct {
	// Code identifies the violated contract.
	Code ContractErrorCode

	// Message is a human-readable description.
	Message string

	// Name is the decision or chance name, when known.
	Name string

	// Details contains additional context.
	Details map[string]string
}

// ContractErrorCode categorizes contract violations.
type ContractErrorCode string

const (
	// ErrCodeEmptyDecision indicates a Decision was built with no choices.
	ErrCodeEmptyDecision ContractErrorCode = "EMPTY_DECISION"

	// ErrCodeEmptyChance indicates a Chance was built with no possibilities.
	ErrCodeEmptyChance ContractErrorCode = "EMPTY_CHANCE"

	// ErrCodeInvalidWeight indicates a negative, NaN or infinite weight.
	ErrCodeInvalidWeight ContractErrorCode = "INVALID_WEIGHT"

	// ErrCodeContinuationConsumed indicates a continuation was resumed twice.
	ErrCodeContinuationConsumed ContractErrorCode = "CONTINUATION_CONSUMED"

	// ErrCodeInvalidNode indicates composition on a zero-value Node.
	ErrCodeInvalidNode ContractErrorCode = "INVALID_NODE"
)

// Error implements the error interface.
func (e *ContractError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (node=%q)", e.Code, e.Message, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsContractError returns true if err is (or wraps) a *ContractError.
func IsContractError(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}

// IsConsumedError returns true if err reports a continuation resumed twice.
func IsConsumedError(err error) bool {
	var ce *ContractError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeContinuationConsumed
	}
	return false
}

func newEmptyDecisionError(name, player string) *ContractError {
	return &ContractError{
		Code:    ErrCodeEmptyDecision,
		Message: "decision built with zero choices",
		Name:    name,
		Details: map[string]string{"player": player},
	}
}

func newEmptyChanceError(name string) *ContractError {
	return &ContractError{
		Code:    ErrCodeEmptyChance,
		Message: "chance built with zero possibilities",
		Name:    name,
	}
}

func newInvalidWeightError(name, label string, weight float64) *ContractError {
	return &ContractError{
		Code:    ErrCodeInvalidWeight,
		Message: fmt.Sprintf("possibility %q has invalid weight %v", label, weight),
		Name:    name,
		Details: map[string]string{"label": label, "weight": fmt.Sprintf("%v", weight)},
	}
}

func newConsumedError() *ContractError {
	return &ContractError{
		Code:    ErrCodeContinuationConsumed,
		Message: "continuation already resumed or discarded",
	}
}
