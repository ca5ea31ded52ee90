package battle

import (
	"fmt"

	"github.com/roach88/branchsim/internal/monster"
)

// Player identifies one side of a single battle.
type Player int

const (
	// Player1 decides first in every FoldPlayers step.
	Player1 Player = iota + 1
	// Player2 is the opponent of Player1.
	Player2
)

var allPlayers = []Player{Player1, Player2}

// String returns "Player1" or "Player2", the names stored in journals.
func (p Player) String() string {
	switch p {
	case Player1:
		return "Player1"
	case Player2:
		return "Player2"
	default:
		return fmt.Sprintf("Player(%d)", int(p))
	}
}

// ParsePlayer is the inverse of String.
func ParsePlayer(s string) (Player, error) {
	for _, p := range allPlayers {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown player %q", s)
}

// Opponent returns the other side.
func (p Player) Opponent() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// ActionKind is what a player does with their turn.
type ActionKind int

const (
	// ActionMove uses the active monster's move at Action.Index.
	ActionMove ActionKind = iota
	// ActionSwitch brings in the bench monster at team slot Action.Index.
	ActionSwitch
	// ActionForfeit concedes the battle.
	ActionForfeit
)

// Action is a chosen action. Index is a move slot for ActionMove and a team
// slot for ActionSwitch.
type Action struct {
	Kind  ActionKind
	Index int
}

func (a Action) String() string {
	switch a.Kind {
	case ActionMove:
		return fmt.Sprintf("move %d", a.Index)
	case ActionSwitch:
		return fmt.Sprintf("switch %d", a.Index)
	case ActionForfeit:
		return "forfeit"
	default:
		return "unknown"
	}
}

// PlayerState is one side's battle state. Team is shared between clones;
// everything a battle mutates is copied.
type PlayerState struct {
	Team monster.Team
	HP   []int

	// Active is the team slot on the field, nil until chosen.
	Active *int

	// Pending is this turn's chosen action, nil outside action resolution.
	Pending *Action

	// AttackStage is the stat stage applied to Attack, in -6..6.
	AttackStage int

	// Priority moves this side first regardless of speed for one turn.
	Priority bool
}

func newPlayerState(team monster.Team) PlayerState {
	hp := make([]int, len(team))
	for i, m := range team {
		hp[i] = m.MaxHP()
	}
	return PlayerState{Team: team, HP: hp}
}

// Clone returns a deep copy of the mutable parts.
func (ps PlayerState) Clone() PlayerState {
	out := ps
	out.HP = append([]int(nil), ps.HP...)
	if ps.Active != nil {
		a := *ps.Active
		out.Active = &a
	}
	if ps.Pending != nil {
		a := *ps.Pending
		out.Pending = &a
	}
	return out
}

// Healthy reports whether team slot i can still battle.
func (ps PlayerState) Healthy(i int) bool { return ps.HP[i] > 0 }

// Bench lists healthy team slots other than the active one.
func (ps PlayerState) Bench() []int {
	var out []int
	for i := range ps.Team {
		if ps.Active != nil && *ps.Active == i {
			continue
		}
		if ps.Healthy(i) {
			out = append(out, i)
		}
	}
	return out
}

// Wiped reports whether every member has fainted.
func (ps PlayerState) Wiped() bool {
	for i := range ps.Team {
		if ps.Healthy(i) {
			return false
		}
	}
	return true
}
