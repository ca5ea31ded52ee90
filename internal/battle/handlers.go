package battle

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/roach88/branchsim/internal/engine"
)

// Handler is an ability, item or effect hooked into the turn structure.
type Handler = engine.EventHandler[*SingleBattle, Player]

// HandlerFactory builds the handler for a monster owned by owner.
type HandlerFactory func(owner Player) Handler

// Registry maps ability and item names to handler factories.
// It is safe for concurrent use; battles running in parallel share one.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]HandlerFactory
	logger    *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]HandlerFactory), logger: slog.Default()}
}

// DefaultRegistry returns a registry with every built-in handler.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("Leftovers", func(owner Player) Handler { return leftovers{owner: owner} })
	r.Register("Quick Claw", func(owner Player) Handler { return quickClaw{owner: owner} })
	r.Register("Intimidate", func(owner Player) Handler { return intimidate{owner: owner} })
	r.Register("Bad Dreams", func(owner Player) Handler { return badDreams{owner: owner} })
	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, f HandlerFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Names lists the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve builds the handler registered under name for owner.
// Unknown names yield a handler that does nothing.
func (r *Registry) Resolve(name string, owner Player) Handler {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		r.logger.Debug("no handler registered", "name", name, "owner", owner.String())
		return engine.NopHandler[*SingleBattle, Player]{}
	}
	return f(owner)
}

// slotHandler runs inner only while the monster in slot is on the field
// and able to battle.
type slotHandler struct {
	inner Handler
	owner Player
	slot  int
}

func (h slotHandler) onField(b *SingleBattle) bool {
	ps := b.PlayerMut(h.owner)
	return ps.Active != nil && *ps.Active == h.slot && ps.HP[h.slot] > 0
}

func (h slotHandler) OnTurnStart(b *SingleBattle) Node {
	if !h.onField(b) {
		return engine.Pending[*SingleBattle, Player](b)
	}
	return h.inner.OnTurnStart(b)
}

func (h slotHandler) OnTurnEnd(b *SingleBattle) Node {
	if !h.onField(b) {
		return engine.Pending[*SingleBattle, Player](b)
	}
	return h.inner.OnTurnEnd(b)
}

func (h slotHandler) OnEnterBattle(b *SingleBattle) Node {
	if !h.onField(b) {
		return engine.Pending[*SingleBattle, Player](b)
	}
	return h.inner.OnEnterBattle(b)
}

// leftovers restores 1/16 of max HP at the end of every turn.
type leftovers struct {
	engine.NopHandler[*SingleBattle, Player]
	owner Player
}

func (h leftovers) OnTurnEnd(b *SingleBattle) Node {
	ps := b.PlayerMut(h.owner)
	i := b.ActiveSlot(h.owner)
	m := ps.Team[i]
	full := m.MaxHP()
	if ps.HP[i] > 0 && ps.HP[i] < full {
		ps.HP[i] = min(full, ps.HP[i]+atLeastOne(full/16))
		b.logf("%s restored a little HP using its Leftovers", m)
	}
	return engine.Pending[*SingleBattle, Player](b)
}

// quickClaw gives its holder a 1 in 5 chance to move first this turn.
type quickClaw struct {
	engine.NopHandler[*SingleBattle, Player]
	owner Player
}

func (h quickClaw) OnTurnStart(b *SingleBattle) Node {
	return engine.NewChance[*SingleBattle, Player, bool]("Quick Claw").
		NamedPossibility("Activate", 20, true).
		NamedPossibility("Idle", 80, false).
		Build(b, func(b *SingleBattle, fired bool) Node {
			if fired {
				b.PlayerMut(h.owner).Priority = true
				b.logf("%s's Quick Claw let it move first", b.Active(h.owner))
			}
			return engine.Pending[*SingleBattle, Player](b)
		})
}

// intimidate lowers the opposing Attack by one stage on entry.
type intimidate struct {
	engine.NopHandler[*SingleBattle, Player]
	owner Player
}

func (h intimidate) OnEnterBattle(b *SingleBattle) Node {
	opp := h.owner.Opponent()
	ps := b.PlayerMut(opp)
	if ps.AttackStage > -6 {
		ps.AttackStage--
	}
	b.logf("%s's Intimidate cuts %s's attack", b.Active(h.owner), b.Active(opp))
	return engine.Pending[*SingleBattle, Player](b)
}

// badDreams damages the opposing monster by 1/8 of its max HP at turn end.
// The damage can knock it out, which forces a replacement or ends the battle.
type badDreams struct {
	engine.NopHandler[*SingleBattle, Player]
	owner Player
}

func (h badDreams) OnTurnEnd(b *SingleBattle) Node {
	opp := h.owner.Opponent()
	ps := b.PlayerMut(opp)
	i := b.ActiveSlot(opp)
	if ps.HP[i] == 0 {
		return engine.Pending[*SingleBattle, Player](b)
	}
	m := ps.Team[i]
	dmg := atLeastOne(m.MaxHP() / 8)
	ps.HP[i] = max(0, ps.HP[i]-dmg)
	b.logf("%s is tormented by Bad Dreams (%d)", m, dmg)
	if ps.HP[i] == 0 {
		return b.faint(opp)
	}
	return engine.Pending[*SingleBattle, Player](b)
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
