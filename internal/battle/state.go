package battle

import (
	"fmt"
	"log/slog"

	"github.com/roach88/branchsim/internal/engine"
	"github.com/roach88/branchsim/internal/monster"
)

// Node is the engine node type of a single battle.
type Node = engine.Node[*SingleBattle, Player]

// Status is the result of a battle so far.
type Status int

const (
	// StatusOngoing means neither side has won and no draw was reached.
	StatusOngoing Status = iota
	// StatusWon means one side won; see SingleBattle.Winner.
	StatusWon
	// StatusDraw means the battle ended without a winner.
	StatusDraw
)

// String returns the lowercase status name used in logs and journals.
func (s Status) String() string {
	switch s {
	case StatusWon:
		return "won"
	case StatusDraw:
		return "draw"
	default:
		return "ongoing"
	}
}

// SingleBattle is the state of a one-on-one battle. Step code mutates it in
// place; drivers that explore more than one branch must Clone it first.
type SingleBattle struct {
	players [2]PlayerState

	turn     int
	maxTurns int
	status   Status
	winner   Player
	log      []string

	registry *Registry
	logger   *slog.Logger
}

var (
	_ engine.StateBase[*SingleBattle, Player, PlayerState] = (*SingleBattle)(nil)
	_ engine.PlayerStateBase[PlayerState]                  = PlayerState{}
)

// Clone implements engine.StateBase.
func (b *SingleBattle) Clone() *SingleBattle {
	out := *b
	for i := range b.players {
		out.players[i] = b.players[i].Clone()
	}
	out.log = append([]string(nil), b.log...)
	return &out
}

// Players implements engine.StateBase.
func (b *SingleBattle) Players() []Player { return allPlayers }

// Player implements engine.StateBase.
func (b *SingleBattle) Player(id Player) PlayerState { return b.players[slot(id)] }

// PlayerMut implements engine.StateBase.
func (b *SingleBattle) PlayerMut(id Player) *PlayerState { return &b.players[slot(id)] }

func slot(id Player) int {
	if id != Player1 && id != Player2 {
		panic(fmt.Sprintf("battle: invalid player %d", int(id)))
	}
	return int(id) - 1
}

// Turn is the number of the turn in progress, 0 before the first turn.
func (b *SingleBattle) Turn() int { return b.turn }

// MaxTurns is the turn limit after which the battle is a draw.
func (b *SingleBattle) MaxTurns() int { return b.maxTurns }

// Result reports the battle status.
func (b *SingleBattle) Result() Status { return b.status }

// Winner returns the winning player, if any.
func (b *SingleBattle) Winner() (Player, bool) {
	return b.winner, b.status == StatusWon
}

// Log returns the event lines written so far.
func (b *SingleBattle) Log() []string { return b.log }

// ActiveSlot returns p's active team slot. It panics with a
// *MissingStateError when p has not sent anything out yet.
func (b *SingleBattle) ActiveSlot(p Player) int {
	ps := b.PlayerMut(p)
	if ps.Active == nil {
		panic(&MissingStateError{Player: p, Field: "active pokemon"})
	}
	return *ps.Active
}

// Active returns p's active monster. Same panics as ActiveSlot.
func (b *SingleBattle) Active(p Player) *monster.Pokemon {
	return b.PlayerMut(p).Team[b.ActiveSlot(p)]
}

// ActiveHP returns the current HP of p's active monster.
func (b *SingleBattle) ActiveHP(p Player) int {
	return b.PlayerMut(p).HP[b.ActiveSlot(p)]
}

func (b *SingleBattle) logf(format string, args ...any) {
	b.log = append(b.log, fmt.Sprintf(format, args...))
}

func (b *SingleBattle) win(p Player) Node {
	b.status = StatusWon
	b.winner = p
	b.logf("%s wins", p)
	b.logger.Debug("battle finished", "winner", p.String(), "turn", b.turn)
	return engine.End[*SingleBattle, Player](b)
}

func (b *SingleBattle) draw(reason string) Node {
	b.status = StatusDraw
	b.logf("draw: %s", reason)
	b.logger.Debug("battle finished", "result", "draw", "reason", reason, "turn", b.turn)
	return engine.End[*SingleBattle, Player](b)
}

// handlers resolves the abilities and items of both active monsters, in
// player order. Sides without an active monster contribute nothing.
func (b *SingleBattle) handlers() []Handler {
	var out []Handler
	for _, p := range allPlayers {
		out = append(out, b.sideHandlers(p)...)
	}
	return out
}

// sideHandlers resolves the ability and item of p's active monster. Each
// handler is bound to that team slot: it does nothing once the slot has
// fainted or left the field, even if a hook chain built earlier still holds it.
func (b *SingleBattle) sideHandlers(p Player) []Handler {
	ps := b.PlayerMut(p)
	if ps.Active == nil {
		return nil
	}
	slot := *ps.Active
	m := ps.Team[slot]

	var out []Handler
	for _, name := range []string{m.Ability, m.Item} {
		if name == "" {
			continue
		}
		out = append(out, slotHandler{inner: b.registry.Resolve(name, p), owner: p, slot: slot})
	}
	return out
}
