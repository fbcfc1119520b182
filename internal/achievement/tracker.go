package achievement

import (
	"sync"

	"lootvault/internal/clock"
	"lootvault/internal/economy"
	"lootvault/internal/events"
)

// Tracker applies progress reports against achievement definitions and
// fires a one-time unlock when a player's value crosses the target.
// State is keyed per player.
type Tracker struct {
	mu       sync.Mutex
	defs     map[string]*Def
	ordered  []*Def
	states   map[string]map[string]State
	currency economy.CurrencyLedger
	bus      *events.Bus
	clock    clock.Clock
}

type TrackerOptions struct {
	Defs     []Def
	Currency economy.CurrencyLedger
	Bus      *events.Bus
	Clock    clock.Clock
}

func NewTracker(opts TrackerOptions) *Tracker {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	t := &Tracker{
		defs:     make(map[string]*Def, len(opts.Defs)),
		ordered:  make([]*Def, 0, len(opts.Defs)),
		states:   map[string]map[string]State{},
		currency: opts.Currency,
		bus:      opts.Bus,
		clock:    opts.Clock,
	}
	for i := range opts.Defs {
		def := opts.Defs[i]
		if def.ID == "" || def.Target <= 0 {
			continue
		}
		if _, dup := t.defs[def.ID]; dup {
			continue
		}
		t.defs[def.ID] = &def
		t.ordered = append(t.ordered, &def)
	}
	return t
}

// ReportProgress adds delta to the player's value for an achievement,
// clamped at the target. Unknown ids and already-unlocked achievements
// are no-ops. Crossing the target unlocks exactly once: the unlock time
// is stamped, payouts are credited, and an event fires.
func (t *Tracker) ReportProgress(playerID, achievementID string, delta int) {
	def, ok := t.defs[achievementID]
	if !ok {
		return
	}

	t.mu.Lock()
	playerStates := t.states[playerID]
	if playerStates == nil {
		playerStates = map[string]State{}
		t.states[playerID] = playerStates
	}

	st := playerStates[achievementID]
	if st.Unlocked {
		t.mu.Unlock()
		return
	}

	st.Current += delta
	if st.Current > def.Target {
		st.Current = def.Target
	}
	if st.Current < 0 {
		st.Current = 0
	}

	unlocked := st.Current >= def.Target
	if unlocked {
		now := t.clock.Now()
		st.Unlocked = true
		st.UnlockedAt = &now
	}
	playerStates[achievementID] = st
	t.mu.Unlock()

	if !unlocked {
		return
	}

	for _, p := range def.Payouts {
		t.currency.Credit(playerID, p.CurrencyID, p.Amount, def.ID)
	}
	t.bus.Publish(events.EventAchievementUnlocked, playerID, events.Metadata{
		"achievement_id": def.ID,
		"category":       def.Category,
	})
}

// Get returns the player's state for one achievement.
func (t *Tracker) Get(playerID, achievementID string) (State, bool) {
	if _, ok := t.defs[achievementID]; !ok {
		return State{}, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[playerID][achievementID], true
}

// ListForPlayer returns every definition with the player's state, in
// definition load order.
func (t *Tracker) ListForPlayer(playerID string) []Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Status, 0, len(t.ordered))
	for _, def := range t.ordered {
		out = append(out, Status{Def: *def, State: t.states[playerID][def.ID]})
	}
	return out
}

// States snapshots all per-player achievement state for persistence.
func (t *Tracker) States() map[string]map[string]State {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]map[string]State, len(t.states))
	for playerID, m := range t.states {
		cp := make(map[string]State, len(m))
		for id, st := range m {
			if st.UnlockedAt != nil {
				ts := *st.UnlockedAt
				st.UnlockedAt = &ts
			}
			cp[id] = st
		}
		out[playerID] = cp
	}
	return out
}

// Restore replaces all per-player state from a loaded snapshot.
func (t *Tracker) Restore(states map[string]map[string]State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.states = map[string]map[string]State{}
	for playerID, m := range states {
		cp := make(map[string]State, len(m))
		for id, st := range m {
			cp[id] = st
		}
		t.states[playerID] = cp
	}
}
