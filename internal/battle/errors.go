package battle

import (
	"errors"
	"fmt"
)

// MissingStateError reports battle code that read a player field before it
// was set, such as asking for the active monster before one was chosen.
// It is raised with panic.
type MissingStateError struct {
	Player Player
	Field  string
}

func (e *MissingStateError) Error() string {
	return fmt.Sprintf("battle: %s has no %s", e.Player, e.Field)
}

// IsMissingState returns true if err is (or wraps) a *MissingStateError.
func IsMissingState(err error) bool {
	var mse *MissingStateError
	return errors.As(err, &mse)
}
