package battle

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/branchsim/internal/engine"
	"github.com/roach88/branchsim/internal/monster"
)

type monSpec struct {
	name    string
	types   []monster.Type
	base    monster.Stats
	moves   []monster.Move
	ability string
	item    string
}

var (
	crush = monster.Move{Name: "Crush", Type: monster.Normal, Category: monster.Physical, Power: 100, Accuracy: 100}
	jab   = monster.Move{Name: "Jab", Type: monster.Normal, Category: monster.Physical, Power: 40, Accuracy: 100}
	rest  = monster.Move{Name: "Rest", Type: monster.Normal, Category: monster.Status, Accuracy: 100}
	wild  = monster.Move{Name: "Wild Swing", Type: monster.Normal, Category: monster.Physical, Power: 40, Accuracy: 70}
)

func mon(t *testing.T, s monSpec) *monster.Pokemon {
	t.Helper()
	sp := &monster.Species{Name: s.name}
	form := sp.AddForm("", s.types, monster.NoGender, s.base)
	return &monster.Pokemon{Form: form, Moves: s.moves, Ability: s.ability, Item: s.item}
}

func team(t *testing.T, specs ...monSpec) monster.Team {
	t.Helper()
	members := make([]*monster.Pokemon, len(specs))
	for i, s := range specs {
		members[i] = mon(t, s)
	}
	tm, err := monster.NewTeam(members...)
	require.NoError(t, err)
	return tm
}

func even(hp, atk, def, spe int) monster.Stats {
	return monster.Stats{HP: hp, Attack: atk, Defense: def, SpecialAttack: atk, SpecialDefense: def, Speed: spe}
}

func strong() monSpec {
	return monSpec{name: "Strong", types: []monster.Type{monster.Normal}, base: even(100, 250, 100, 100), moves: []monster.Move{crush, rest}}
}

func weak(name string) monSpec {
	return monSpec{name: name, types: []monster.Type{monster.Normal}, base: even(1, 5, 5, 1), moves: []monster.Move{rest}}
}

func quiet() []BattleOption {
	return []BattleOption{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}
}

// walk resolves nodes by label until the picks run out or the battle ends.
func walk(t *testing.T, n Node, picks ...string) Node {
	t.Helper()
	for _, label := range picks {
		require.False(t, n.IsEnd(), "battle ended before pick %q", label)
		require.False(t, n.IsPending(), "driver observed Pending")

		idx := -1
		for i, l := range n.Labels() {
			if l == label {
				idx = i
				break
			}
		}
		require.GreaterOrEqual(t, idx, 0, "no option %q at %s (have %v)", label, n, n.Labels())

		state := n.State()
		switch n.Kind() {
		case engine.KindDecision:
			n = n.Decision().Choices[idx].Continuation.Resume(state)
		case engine.KindChance:
			n = n.Chance().Possibilities[idx].Continuation.Resume(state)
		}
	}
	return n
}

func TestStart_AsksEachPlayerForAStarter(t *testing.T) {
	n := Start(team(t, strong(), weak("Spare")), team(t, weak("Weak")), quiet()...)

	require.Equal(t, engine.KindDecision, n.Kind())
	assert.Equal(t, DecisionChooseStarter, n.Name())
	assert.Equal(t, Player1, n.Decision().Player)
	assert.Equal(t, []string{"Strong", "Spare"}, n.Labels())

	n = walk(t, n, "Spare")
	require.Equal(t, engine.KindDecision, n.Kind())
	assert.Equal(t, Player2, n.Decision().Player)
	assert.Equal(t, []string{"Weak"}, n.Labels())

	n = walk(t, n, "Weak")
	assert.Equal(t, DecisionChooseAction, n.Name())
	assert.Equal(t, Player1, n.Decision().Player)
	assert.Equal(t, []string{"Rest", "Switch to Strong", ForfeitLabel}, n.Labels())
	assert.Equal(t, 1, n.State().Turn())
}

func TestBattle_ForfeitEndsImmediately(t *testing.T) {
	n := Start(team(t, strong()), team(t, weak("Weak")), quiet()...)
	n = walk(t, n, "Strong", "Weak", ForfeitLabel, "Rest")

	require.True(t, n.IsEnd())
	b := n.State()
	winner, ok := b.Winner()
	assert.True(t, ok)
	assert.Equal(t, Player2, winner)
	assert.Equal(t, StatusWon, b.Result())
	assert.Contains(t, b.Log(), "Player1 forfeited")
	assert.NotContains(t, b.Log(), "Weak used Rest")
}

func TestBattle_BothForfeitIsDraw(t *testing.T) {
	n := Start(team(t, strong()), team(t, weak("Weak")), quiet()...)
	n = walk(t, n, "Strong", "Weak", ForfeitLabel, ForfeitLabel)

	require.True(t, n.IsEnd())
	assert.Equal(t, StatusDraw, n.State().Result())
}

func TestBattle_KnockoutWipesTeam(t *testing.T) {
	n := Start(team(t, strong()), team(t, weak("Weak")), quiet()...)
	n = walk(t, n, "Strong", "Weak", "Crush", "Rest")

	require.True(t, n.IsEnd())
	b := n.State()
	winner, ok := b.Winner()
	require.True(t, ok)
	assert.Equal(t, Player1, winner)
	assert.Contains(t, b.Log(), "Weak fainted")
	assert.NotContains(t, b.Log(), "Weak used Rest", "fainted side must not act")
}

func TestBattle_FaintForcesReplacement(t *testing.T) {
	n := Start(team(t, strong()), team(t, weak("Weak"), weak("Backup")), quiet()...)
	n = walk(t, n, "Strong", "Weak", "Crush", "Rest")

	require.Equal(t, engine.KindDecision, n.Kind())
	assert.Equal(t, DecisionReplace, n.Name())
	assert.Equal(t, Player2, n.Decision().Player)
	assert.Equal(t, []string{"Backup"}, n.Labels())

	n = walk(t, n, "Backup")
	assert.Equal(t, DecisionChooseAction, n.Name())
	assert.Equal(t, 2, n.State().Turn())
	assert.Equal(t, 1, n.State().ActiveSlot(Player2))
}

func TestBattle_SwitchResolvesBeforeMoves(t *testing.T) {
	n := Start(team(t, strong()), team(t, weak("Weak"), weak("Backup")), quiet()...)
	n = walk(t, n, "Strong", "Weak", "Crush", "Switch to Backup")

	require.Equal(t, DecisionReplace, n.Name())
	log := n.State().Log()
	assert.Contains(t, log, "Player2 withdrew Weak and sent out Backup")
	assert.Contains(t, log, "Backup fainted")
	assert.Equal(t, []string{"Weak"}, n.Labels())
}

func TestBattle_SpeedTieIsChance(t *testing.T) {
	a := monSpec{name: "Left", types: []monster.Type{monster.Fire}, base: even(100, 50, 100, 80), moves: []monster.Move{rest}}
	b := monSpec{name: "Right", types: []monster.Type{monster.Water}, base: even(100, 50, 100, 80), moves: []monster.Move{rest}}

	n := Start(team(t, a), team(t, b), quiet()...)
	n = walk(t, n, "Left", "Right", "Rest", "Rest")

	require.Equal(t, engine.KindChance, n.Kind())
	assert.Equal(t, ChanceSpeedTie, n.Name())
	assert.Equal(t, []string{"Player1 first", "Player2 first"}, n.Labels())
	assert.Equal(t, n.Chance().Possibilities[0].Weight, n.Chance().Possibilities[1].Weight)

	n = walk(t, n, "Player2 first")
	log := n.State().Log()
	assert.Less(t, indexOf(log, "Right used Rest"), indexOf(log, "Left used Rest"))
}

func TestBattle_AccuracyRoll(t *testing.T) {
	swinger := monSpec{name: "Swinger", types: []monster.Type{monster.Fighting}, base: even(100, 50, 100, 100), moves: []monster.Move{wild}}
	n := Start(team(t, swinger), team(t, weak("Weak")), quiet()...)
	n = walk(t, n, "Swinger", "Weak", "Wild Swing", "Rest")

	require.Equal(t, engine.KindChance, n.Kind())
	assert.Equal(t, ChanceAccuracy, n.Name())
	ps := n.Chance().Possibilities
	require.Len(t, ps, 2)
	assert.Equal(t, "Hit", ps[0].Label)
	assert.Equal(t, 70.0, ps[0].Weight)
	assert.Equal(t, "Miss", ps[1].Label)
	assert.Equal(t, 30.0, ps[1].Weight)

	n = walk(t, n, "Miss")
	assert.Contains(t, n.State().Log(), "Swinger missed")
	assert.Equal(t, DecisionChooseAction, n.Name())
}

func TestBattle_TurnLimitIsDraw(t *testing.T) {
	opts := append(quiet(), WithMaxTurns(1))
	n := Start(team(t, strong()), team(t, weak("Weak")), opts...)
	n = walk(t, n, "Strong", "Weak", "Rest", "Rest")

	require.True(t, n.IsEnd())
	assert.Equal(t, StatusDraw, n.State().Result())
	assert.Equal(t, 1, n.State().Turn())
}

func TestBattle_MissingActivePanics(t *testing.T) {
	b := New(team(t, strong()), team(t, weak("Weak")), quiet()...)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*MissingStateError)
		require.True(t, ok, "got %T", r)
		assert.Equal(t, Player1, err.Player)
		assert.Equal(t, "active pokemon", err.Field)
		assert.True(t, IsMissingState(err))
	}()
	b.Active(Player1)
}

func TestSingleBattle_CloneIsIndependent(t *testing.T) {
	n := Start(team(t, strong()), team(t, weak("Weak")), quiet()...)
	n = walk(t, n, "Strong", "Weak")
	b := n.State()

	c := b.Clone()
	c.PlayerMut(Player2).HP[0] = 0
	*c.PlayerMut(Player1).Active = 5
	c.logf("only in clone")

	assert.NotZero(t, b.Player(Player2).HP[0])
	assert.Equal(t, 0, b.ActiveSlot(Player1))
	assert.NotContains(t, b.Log(), "only in clone")
	assert.Same(t, b.Player(Player1).Team[0], c.Player(Player1).Team[0])
}

func TestDamage(t *testing.T) {
	attacker := mon(t, strong())
	defender := mon(t, weak("Weak"))

	// (22*100*255/10)/50 + 2 = 1124, STAB x1.5
	assert.Equal(t, 1686, Damage(attacker, defender, crush, 0))
	assert.Equal(t, 0, Damage(attacker, defender, rest, 0))

	ghost := mon(t, monSpec{name: "Ghost", types: []monster.Type{monster.Ghost}, base: even(50, 50, 50, 50)})
	assert.Equal(t, 0, Damage(attacker, ghost, crush, 0))

	// 255 * 2 / 3 = 170 attack after one drop
	assert.Equal(t, (22*100*170/10/50+2)*3/2, Damage(attacker, defender, crush, -1))
}

func indexOf(lines []string, s string) int {
	for i, l := range lines {
		if l == s {
			return i
		}
	}
	return -1
}
