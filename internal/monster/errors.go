package monster

import "errors"

var (
	// ErrTeamSize is returned when a team has no members or more than MaxTeamSize.
	ErrTeamSize = errors.New("team must have between 1 and 6 members")

	// ErrMoveCount is returned when a monster knows no moves or more than MaxMoves.
	ErrMoveCount = errors.New("monster must know between 1 and 4 moves")

	// ErrInvalidStat is returned for EV/IV spreads outside the legal caps.
	ErrInvalidStat = errors.New("invalid stat spread")

	// ErrInvalidGender is returned when a monster's gender is not allowed by its form.
	ErrInvalidGender = errors.New("gender not allowed for form")

	// ErrNilMember is returned when a team slot holds no monster.
	ErrNilMember = errors.New("team member is nil")

	ErrUnknownType = errors.New("unknown type")
)
