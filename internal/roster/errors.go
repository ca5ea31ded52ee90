package roster

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes for roster loading.
const (
	ErrCodeGeneric        = "E001"
	ErrCodeLoadFailed     = "E004"
	ErrCodeNotFound       = "E005"
	ErrCodeBuildFailed    = "E006"
	ErrCodeSchema         = "E020"
	ErrCodeNoTeams        = "E021"
	ErrCodeUnknownSpecies = "E022"
	ErrCodeUnknownForm    = "E023"
	ErrCodeUnknownMove    = "E024"
	ErrCodeInvalidMember  = "E025"
	ErrCodeUnknownTeam    = "E026"
)

// LoadError is a roster loading error with an optional CUE position.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

// cueErrors splits a CUE error into one LoadError per underlying error,
// each positioned at its first reported position.
func cueErrors(code string, err error) []error {
	var out []error
	for _, e := range errors.Errors(err) {
		le := &LoadError{Code: code, Message: e.Error()}
		if pos := errors.Positions(e); len(pos) > 0 {
			le.Pos = pos[0]
		}
		out = append(out, le)
	}
	if len(out) == 0 {
		out = append(out, &LoadError{Code: code, Message: err.Error(), Err: err})
	}
	return out
}
