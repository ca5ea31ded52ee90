package engine

import "fmt"

// EventHandler is implemented by domain effects (abilities, items, field
// effects) that inject behavior at named points of a turn.
//
// Every hook returns a Node; returning Pending(state) means "no branching,
// just continue". Embed NopHandler to override only the hooks you need.
type EventHandler[S any, P Player] interface {
	OnTurnStart(state S) Node[S, P]
	OnTurnEnd(state S) Node[S, P]
	OnEnterBattle(state S) Node[S, P]
}

// NopHandler implements every hook as a no-op.
type NopHandler[S any, P Player] struct{}

// OnTurnStart returns Pending(state).
func (NopHandler[S, P]) OnTurnStart(state S) Node[S, P] { return Pending[S, P](state) }

// OnTurnEnd returns Pending(state).
func (NopHandler[S, P]) OnTurnEnd(state S) Node[S, P] { return Pending[S, P](state) }

// OnEnterBattle returns Pending(state).
func (NopHandler[S, P]) OnEnterBattle(state S) Node[S, P] { return Pending[S, P](state) }

// Hook names an EventHandler extension point.
type Hook int

const (
	// HookTurnStart runs before players choose their actions.
	HookTurnStart Hook = iota + 1
	// HookTurnEnd runs after a turn resolved.
	HookTurnEnd
	// HookEnterBattle runs when a combatant enters the field.
	HookEnterBattle
)

// String returns the hook name.
func (h Hook) String() string {
	switch h {
	case HookTurnStart:
		return "turn_start"
	case HookTurnEnd:
		return "turn_end"
	case HookEnterBattle:
		return "enter_battle"
	default:
		return fmt.Sprintf("hook(%d)", int(h))
	}
}

// Dispatch invokes hook on h.
func Dispatch[S any, P Player](h EventHandler[S, P], hook Hook, state S) Node[S, P] {
	switch hook {
	case HookTurnStart:
		return h.OnTurnStart(state)
	case HookTurnEnd:
		return h.OnTurnEnd(state)
	case HookEnterBattle:
		return h.OnEnterBattle(state)
	default:
		panic(fmt.Sprintf("engine: unknown hook %d", int(hook)))
	}
}

// RunHooks chains hook across handlers in order. Branching introduced by one
// handler is carried into the next; an End from any handler stops the chain.
func RunHooks[S any, P Player](state S, hook Hook, handlers ...EventHandler[S, P]) Node[S, P] {
	steps := make([]FlowStep[S, P], len(handlers))
	for i, h := range handlers {
		h := h
		steps[i] = func(s S) Flow[S, P] {
			return Continue(Dispatch(h, hook, s))
		}
	}
	return Chain(state, steps...)
}
