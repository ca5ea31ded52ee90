package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hookState struct {
	marks []string
}

type hnode = Node[*hookState, side]

// markHandler appends its name on turn end and returns the configured kind.
type markHandler struct {
	NopHandler[*hookState, side]
	name    string
	end     bool
	invoked *int
}

func (h markHandler) OnTurnEnd(s *hookState) hnode {
	if h.invoked != nil {
		*h.invoked++
	}
	s.marks = append(s.marks, h.name)
	if h.end {
		return End[*hookState, side](s)
	}
	return Pending[*hookState, side](s)
}

func TestNopHandler_DefaultsArePending(t *testing.T) {
	var h EventHandler[*hookState, side] = NopHandler[*hookState, side]{}
	s := &hookState{}

	for _, hook := range []Hook{HookTurnStart, HookTurnEnd, HookEnterBattle} {
		n := Dispatch(h, hook, s)
		assert.True(t, n.IsPending(), hook.String())
		assert.Same(t, s, n.State())
	}
}

func TestRunHooks_PendingThenEndStopsChain(t *testing.T) {
	thirdCalls := 0
	s := &hookState{}

	n := RunHooks[*hookState, side](s, HookTurnEnd,
		markHandler{name: "first"},
		markHandler{name: "second", end: true},
		markHandler{name: "third", invoked: &thirdCalls},
	)

	require.True(t, n.IsEnd())
	assert.Equal(t, []string{"first", "second"}, n.State().marks)
	assert.Equal(t, 0, thirdCalls, "hooks after End never run")
}

func TestRunHooks_OverriddenHookOnly(t *testing.T) {
	s := &hookState{}
	h := markHandler{name: "only-turn-end"}

	n := RunHooks[*hookState, side](s, HookTurnStart, h)
	assert.True(t, n.IsPending())
	assert.Empty(t, s.marks, "turn start falls back to the no-op default")
}

// coinHandler branches on turn start.
type coinHandler struct {
	NopHandler[*hookState, side]
}

func (coinHandler) OnTurnStart(s *hookState) hnode {
	return NewChance[*hookState, side, string]("Coin").
		Possibilities(Odds(0.5, "heads"), Odds(0.5, "tails")).
		Build(s, func(s *hookState, v string) hnode {
			s.marks = append(s.marks, v)
			return Pending[*hookState, side](s)
		})
}

type startMark struct {
	NopHandler[*hookState, side]
}

func (startMark) OnTurnStart(s *hookState) hnode {
	s.marks = append(s.marks, "after-coin")
	return Pending[*hookState, side](s)
}

func TestRunHooks_BranchingCarriesIntoLaterHandlers(t *testing.T) {
	s := &hookState{}
	n := RunHooks[*hookState, side](s, HookTurnStart, coinHandler{}, startMark{})

	require.Equal(t, KindChance, n.Kind())
	assert.Empty(t, s.marks, "later hooks wait for the chance to resolve")

	out := n.Chance().Possibilities[1].Continuation.Resume(n.State())
	assert.True(t, out.IsPending())
	assert.Equal(t, []string{"tails", "after-coin"}, out.State().marks)
}

func TestHook_String(t *testing.T) {
	assert.Equal(t, "turn_start", HookTurnStart.String())
	assert.Equal(t, "turn_end", HookTurnEnd.String())
	assert.Equal(t, "enter_battle", HookEnterBattle.String())
	assert.Equal(t, "hook(9)", Hook(9).String())
}
