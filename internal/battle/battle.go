package battle

import (
	"log/slog"

	"github.com/roach88/branchsim/internal/engine"
	"github.com/roach88/branchsim/internal/monster"
)

// DefaultMaxTurns is the turn limit when WithMaxTurns is not given.
const DefaultMaxTurns = 100

// Decision and chance names used by the battle tree.
const (
	DecisionChooseStarter = "Choose your active pokemon"
	DecisionChooseAction  = "Choose your action"
	DecisionReplace       = "Choose your next pokemon"
	ChanceSpeedTie        = "Speed tie"
	ChanceAccuracy        = "Accuracy"
)

// ForfeitLabel is the label of the forfeit choice.
const ForfeitLabel = "Forfeit"

// BattleOption configures a battle.
type BattleOption func(*SingleBattle)

// WithMaxTurns sets the turn limit. Values below 1 are ignored.
func WithMaxTurns(n int) BattleOption {
	return func(b *SingleBattle) {
		if n > 0 {
			b.maxTurns = n
		}
	}
}

// WithHandlers sets the registry abilities and items are resolved from.
func WithHandlers(r *Registry) BattleOption {
	return func(b *SingleBattle) {
		if r != nil {
			b.registry = r
		}
	}
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) BattleOption {
	return func(b *SingleBattle) {
		if l != nil {
			b.logger = l
		}
	}
}

// New returns the initial state of a battle between two teams.
func New(team1, team2 monster.Team, opts ...BattleOption) *SingleBattle {
	b := &SingleBattle{
		players:  [2]PlayerState{newPlayerState(team1), newPlayerState(team2)},
		maxTurns: DefaultMaxTurns,
		registry: DefaultRegistry(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start returns the root node of a battle between two teams.
//
// Each player first picks a starting monster, then enter-battle hooks run,
// then turns repeat until one side is wiped, forfeits, or the turn limit
// is reached.
func Start(team1, team2 monster.Team, opts ...BattleOption) Node {
	return Resume(New(team1, team2, opts...))
}

// Resume builds the tree from a fresh battle state.
func Resume(b *SingleBattle) Node {
	return engine.Chain(b, engine.Steps[*SingleBattle, Player](
		chooseStarters,
		enterBattle,
		playTurn,
	)...)
}

func chooseStarters(b *SingleBattle) Node {
	return engine.FoldPlayers(b, func(b *SingleBattle, p Player) Node {
		d := engine.NewDecision[*SingleBattle, Player, int](DecisionChooseStarter, p)
		return engine.IndexedChoices(d, b.PlayerMut(p).Team).
			Build(b, func(b *SingleBattle, i int) Node {
				b.PlayerMut(p).Active = &i
				b.logf("%s sent out %s", p, b.Active(p))
				return engine.Pending[*SingleBattle, Player](b)
			})
	})
}

func enterBattle(b *SingleBattle) Node {
	return engine.RunHooks(b, engine.HookEnterBattle, b.handlers()...)
}

// playTurn runs one turn. It is always the last step of a chain so that the
// next turn is built only when the previous one has been fully resolved.
func playTurn(b *SingleBattle) Node {
	if b.turn >= b.maxTurns {
		return b.draw("turn limit reached")
	}
	b.turn++
	b.logf("turn %d", b.turn)

	return engine.Chain(b,
		hookStep(engine.HookTurnStart),
		continueWith(chooseActions),
		resolveTurn,
		hookStep(engine.HookTurnEnd),
		continueWith(playTurn),
	)
}

func hookStep(hook engine.Hook) engine.FlowStep[*SingleBattle, Player] {
	return func(b *SingleBattle) engine.Flow[*SingleBattle, Player] {
		return engine.Continue(engine.RunHooks(b, hook, b.handlers()...))
	}
}

func continueWith(step engine.Step[*SingleBattle, Player]) engine.FlowStep[*SingleBattle, Player] {
	return engine.Steps[*SingleBattle, Player](step)[0]
}

func chooseActions(b *SingleBattle) Node {
	return engine.FoldPlayers(b, func(b *SingleBattle, p Player) Node {
		ps := b.PlayerMut(p)
		active := b.Active(p)

		d := engine.NewDecision[*SingleBattle, Player, Action](DecisionChooseAction, p)
		for i, mv := range active.Moves {
			d.NamedChoice(mv.Name, Action{Kind: ActionMove, Index: i})
		}
		for _, i := range ps.Bench() {
			d.NamedChoice("Switch to "+ps.Team[i].String(), Action{Kind: ActionSwitch, Index: i})
		}
		d.NamedChoice(ForfeitLabel, Action{Kind: ActionForfeit})

		return d.Build(b, func(b *SingleBattle, a Action) Node {
			b.PlayerMut(p).Pending = &a
			return engine.Pending[*SingleBattle, Player](b)
		})
	})
}

// faint handles p's active monster dropping to 0 HP: p loses when nothing
// is left, otherwise p must pick a replacement, which then enters the field.
func (b *SingleBattle) faint(p Player) Node {
	ps := b.PlayerMut(p)
	b.logf("%s fainted", b.Active(p))
	ps.Pending = nil
	ps.AttackStage = 0
	if ps.Wiped() {
		return b.win(p.Opponent())
	}

	d := engine.NewDecision[*SingleBattle, Player, int](DecisionReplace, p)
	for _, i := range ps.Bench() {
		d.NamedChoice(ps.Team[i].String(), i)
	}
	return d.Build(b, func(b *SingleBattle, i int) Node {
		b.PlayerMut(p).Active = &i
		b.logf("%s sent out %s", p, b.Active(p))
		return enterField(b, p)
	})
}
