package progress

import "sync"

// Repo stores player progress records. The in-memory map is the single
// source of truth; persistence snapshots it wholesale.
type Repo struct {
	mu             sync.RWMutex
	players        map[string]Progress
	baseMultiplier float64
}

func NewRepo(baseMultiplier float64) *Repo {
	if baseMultiplier <= 0 {
		baseMultiplier = 1.0
	}
	return &Repo{
		players:        map[string]Progress{},
		baseMultiplier: baseMultiplier,
	}
}

// Get returns the player's progress, creating a fresh record on first use.
func (r *Repo) Get(playerID string) Progress {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		p = defaultProgress(playerID, r.baseMultiplier)
		r.players[playerID] = p
	}
	return clone(normalize(p))
}

func (r *Repo) Save(p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[p.PlayerID] = clone(normalize(p))
}

// Mutate applies fn to the player's record under the lock.
func (r *Repo) Mutate(playerID string, fn func(p *Progress)) Progress {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[playerID]
	if !ok {
		p = defaultProgress(playerID, r.baseMultiplier)
	}
	p = normalize(p)
	fn(&p)
	p = normalize(p)
	r.players[playerID] = p
	return clone(p)
}

// All returns a copy of every progress record keyed by player id.
func (r *Repo) All() map[string]Progress {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Progress, len(r.players))
	for id, p := range r.players {
		out[id] = clone(normalize(p))
	}
	return out
}

// Replace swaps in a full set of records, typically from a loaded snapshot.
func (r *Repo) Replace(players map[string]Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players = make(map[string]Progress, len(players))
	for id, p := range players {
		p.PlayerID = id
		r.players[id] = clone(normalize(p))
	}
}
