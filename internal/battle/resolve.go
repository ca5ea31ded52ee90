package battle

import (
	"github.com/roach88/branchsim/internal/engine"
	"github.com/roach88/branchsim/internal/monster"
)

type flow = engine.Flow[*SingleBattle, Player]

// resolveTurn applies both pending actions: forfeits end the battle at
// once, switches happen before moves, and moves go in speed order. A
// monster switched in triggers its enter-battle hooks before any move.
func resolveTurn(b *SingleBattle) flow {
	if n, done := b.resolveForfeits(); done {
		return engine.Stop(n)
	}

	var entered []Player
	for _, p := range allPlayers {
		ps := b.PlayerMut(p)
		if ps.Pending != nil && ps.Pending.Kind == ActionSwitch {
			from := b.Active(p)
			i := ps.Pending.Index
			ps.Active = &i
			ps.Pending = nil
			b.logf("%s withdrew %s and sent out %s", p, from, b.Active(p))
			entered = append(entered, p)
		}
	}

	n := engine.Fold(b, entered, enterField).Then(resolveMoves)
	return engine.Continue(n.Then(clearTurnFlags))
}

// enterField runs the enter-battle hooks of p's newly active monster.
func enterField(b *SingleBattle, p Player) Node {
	return engine.RunHooks(b, engine.HookEnterBattle, b.sideHandlers(p)...)
}

func resolveMoves(b *SingleBattle) Node {
	var movers []Player
	for _, p := range allPlayers {
		if a := b.PlayerMut(p).Pending; a != nil && a.Kind == ActionMove {
			movers = append(movers, p)
		}
	}

	switch len(movers) {
	case 0:
		return engine.Pending[*SingleBattle, Player](b)
	case 1:
		return useMoves(b, movers)
	default:
		return orderMovers(b)
	}
}

func (b *SingleBattle) resolveForfeits() (Node, bool) {
	var quitters []Player
	for _, p := range allPlayers {
		if a := b.PlayerMut(p).Pending; a != nil && a.Kind == ActionForfeit {
			quitters = append(quitters, p)
		}
	}
	switch len(quitters) {
	case 0:
		return Node{}, false
	case 1:
		b.logf("%s forfeited", quitters[0])
		return b.win(quitters[0].Opponent()), true
	default:
		b.logf("both players forfeited")
		return b.draw("both players forfeited"), true
	}
}

// orderMovers decides who moves first when both sides attack. Quick Claw
// priority beats speed; equal standing is settled by a coin flip.
func orderMovers(b *SingleBattle) Node {
	p1, p2 := b.PlayerMut(Player1), b.PlayerMut(Player2)
	if p1.Priority != p2.Priority {
		if p1.Priority {
			return useMoves(b, []Player{Player1, Player2})
		}
		return useMoves(b, []Player{Player2, Player1})
	}

	s1 := b.Active(Player1).Stat(monster.Speed)
	s2 := b.Active(Player2).Stat(monster.Speed)
	switch {
	case s1 > s2:
		return useMoves(b, []Player{Player1, Player2})
	case s2 > s1:
		return useMoves(b, []Player{Player2, Player1})
	}

	return engine.NewChance[*SingleBattle, Player, Player](ChanceSpeedTie).
		NamedPossibility(Player1.String()+" first", 1, Player1).
		NamedPossibility(Player2.String()+" first", 1, Player2).
		Build(b, func(b *SingleBattle, first Player) Node {
			return useMoves(b, []Player{first, first.Opponent()})
		})
}

func useMoves(b *SingleBattle, order []Player) Node {
	return engine.Fold(b, order, useMove)
}

// useMove executes p's pending move. A side whose monster fainted or was
// replaced earlier in the turn has no pending action and does nothing.
func useMove(b *SingleBattle, p Player) Node {
	ps := b.PlayerMut(p)
	if ps.Pending == nil || ps.Pending.Kind != ActionMove {
		return engine.Pending[*SingleBattle, Player](b)
	}
	attacker := b.Active(p)
	mv := attacker.Moves[ps.Pending.Index]
	ps.Pending = nil
	b.logf("%s used %s", attacker, mv.Name)

	if mv.AlwaysHits() {
		return hit(b, p, mv)
	}
	return engine.NewChance[*SingleBattle, Player, bool](ChanceAccuracy).
		NamedPossibility("Hit", float64(mv.Accuracy), true).
		NamedPossibility("Miss", float64(100-mv.Accuracy), false).
		Build(b, func(b *SingleBattle, landed bool) Node {
			if !landed {
				b.logf("%s missed", attacker)
				return engine.Pending[*SingleBattle, Player](b)
			}
			return hit(b, p, mv)
		})
}

func hit(b *SingleBattle, p Player, mv monster.Move) Node {
	if mv.Category == monster.Status || mv.Power == 0 {
		return engine.Pending[*SingleBattle, Player](b)
	}
	opp := p.Opponent()
	target := b.Active(opp)
	dmg := Damage(b.Active(p), target, mv, b.PlayerMut(p).AttackStage)
	if dmg == 0 {
		b.logf("it doesn't affect %s", target)
		return engine.Pending[*SingleBattle, Player](b)
	}

	ps := b.PlayerMut(opp)
	i := b.ActiveSlot(opp)
	ps.HP[i] = max(0, ps.HP[i]-dmg)
	b.logf("%s took %d damage", target, dmg)
	if ps.HP[i] == 0 {
		return b.faint(opp)
	}
	return engine.Pending[*SingleBattle, Player](b)
}

func clearTurnFlags(b *SingleBattle) Node {
	for _, p := range allPlayers {
		ps := b.PlayerMut(p)
		ps.Pending = nil
		ps.Priority = false
	}
	return engine.Pending[*SingleBattle, Player](b)
}

// Damage computes the deterministic damage of mv at the battle level:
// the standard formula with STAB, type effectiveness and the attacker's
// attack stage for physical moves. Moves that can affect the target always
// deal at least 1.
func Damage(attacker, defender *monster.Pokemon, mv monster.Move, attackStage int) int {
	if mv.Category == monster.Status || mv.Power == 0 {
		return 0
	}
	num, den := mv.Type.Multiplier(defender.Form.Types)
	if num == 0 {
		return 0
	}

	atkKind, defKind := monster.Attack, monster.Defense
	if mv.Category == monster.Special {
		atkKind, defKind = monster.SpecialAttack, monster.SpecialDefense
	}
	atk := attacker.Stat(atkKind)
	if mv.Category == monster.Physical {
		atk = applyStage(atk, attackStage)
	}
	def := max(1, defender.Stat(defKind))

	dmg := (2*monster.Level/5+2)*mv.Power*atk/def/50 + 2
	if attacker.Form.HasType(mv.Type) {
		dmg = dmg * 3 / 2
	}
	dmg = dmg * num / den
	return atLeastOne(dmg)
}

func applyStage(v, stage int) int {
	if stage >= 0 {
		return v * (2 + stage) / 2
	}
	return v * 2 / (2 - stage)
}
