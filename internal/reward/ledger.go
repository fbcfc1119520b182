package reward

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"lootvault/internal/clock"
	"lootvault/internal/config"
	"lootvault/internal/economy"
	"lootvault/internal/events"
	"lootvault/internal/progress"
)

// Ledger issues reward instances, transitions them to claimed, and
// garbage-collects expired ones. Unknown ids and failed eligibility are
// silent nil/false returns, indistinguishable at the call site; callers
// that need the distinction check CanEarn explicitly first.
type Ledger struct {
	mu        sync.Mutex
	catalog   *Catalog
	players   *progress.Repo
	currency  economy.CurrencyLedger
	bus       *events.Bus
	clock     clock.Clock
	rng       *rand.Rand
	cfg       config.Balance
	logger    *log.Logger
	instances map[string]*Instance
}

type LedgerOptions struct {
	Catalog  *Catalog
	Players  *progress.Repo
	Currency economy.CurrencyLedger
	Bus      *events.Bus
	Clock    clock.Clock
	RNG      *rand.Rand
	Balance  config.Balance
	Logger   *log.Logger
}

func NewLedger(opts LedgerOptions) *Ledger {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.RNG == nil {
		opts.RNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Ledger{
		catalog:   opts.Catalog,
		players:   opts.Players,
		currency:  opts.Currency,
		bus:       opts.Bus,
		clock:     opts.Clock,
		rng:       opts.RNG,
		cfg:       opts.Balance,
		logger:    opts.Logger,
		instances: map[string]*Instance{},
	}
}

// Earn issues a reward instance for a player, or nil if the template is
// unknown or the player is ineligible.
func (l *Ledger) Earn(playerID, templateID, source, reason string) *Instance {
	tpl := l.catalog.Get(templateID)
	if tpl == nil {
		return nil
	}

	p := l.players.Get(playerID)
	if !CanEarn(tpl, p) {
		return nil
	}

	l.mu.Lock()
	multiplier := MultiplierFor(l.cfg, p)
	payouts := Resolve(tpl, multiplier, l.rng)
	now := l.clock.Now()

	inst := &Instance{
		ID:         uuid.NewString(),
		TemplateID: tpl.ID,
		PlayerID:   playerID,
		Payouts:    payouts,
		CreatedAt:  now,
		Multiplier: multiplier,
		Source:     source,
		Reason:     reason,
		tpl:        tpl,
	}
	l.instances[inst.ID] = inst
	l.mu.Unlock()

	var multiplierChanged float64
	updated := l.players.Mutate(playerID, func(p *progress.Progress) {
		p.TotalEarned++
		t := now
		p.LastRewardAt = &t

		switch tpl.Type {
		case TypeLevelComplete:
			p.CurrentStreak++
			if p.CurrentStreak > p.MaxStreak {
				p.MaxStreak = p.CurrentStreak
			}
		case TypeStreak:
			// streak-type rewards observe the streak without touching it
		default:
			p.CurrentStreak = 0
		}

		next := p.CurrentMultiplier + l.cfg.MultiplierGrowthRate
		if next > l.cfg.MaxMultiplier {
			next = l.cfg.MaxMultiplier
		}
		if next != p.CurrentMultiplier {
			p.CurrentMultiplier = next
			multiplierChanged = next
		}
	})

	l.bus.Publish(events.EventRewardEarned, playerID, events.Metadata{
		"instance_id": inst.ID,
		"template_id": tpl.ID,
		"multiplier":  multiplier,
		"source":      source,
	})
	if multiplierChanged > 0 {
		l.bus.Publish(events.EventMultiplierChanged, playerID, events.Metadata{
			"multiplier": updated.CurrentMultiplier,
		})
	}

	return cloneInstance(inst)
}

// EarnRandom issues a weighted-random reward from the catalog.
func (l *Ledger) EarnRandom(playerID, source, reason string) *Instance {
	l.mu.Lock()
	tpl := l.catalog.PickRandom(l.rng)
	l.mu.Unlock()
	if tpl == nil {
		return nil
	}
	return l.Earn(playerID, tpl.ID, source, reason)
}

// Claim credits an instance's payouts and marks it claimed. Returns
// false for unknown ids and repeat claims; currency is credited exactly
// once per instance. Collaborator credit results are not checked.
func (l *Ledger) Claim(instanceID string) bool {
	l.mu.Lock()
	inst, ok := l.instances[instanceID]
	if !ok || inst.Claimed {
		l.mu.Unlock()
		return false
	}

	now := l.clock.Now()
	inst.Claimed = true
	inst.ClaimedAt = &now
	payouts := append([]Payout{}, inst.Payouts...)
	playerID := inst.PlayerID
	templateID := inst.TemplateID
	l.mu.Unlock()

	for _, p := range payouts {
		l.currency.Credit(playerID, p.CurrencyID, p.Amount, templateID)
	}

	l.players.Mutate(playerID, func(p *progress.Progress) {
		p.TotalClaimed++
		p.RewardCounts[templateID]++
		p.ClaimedInstanceIDs[instanceID] = true
	})

	l.bus.Publish(events.EventRewardClaimed, playerID, events.Metadata{
		"instance_id": instanceID,
		"template_id": templateID,
	})

	return true
}

// Get returns a copy of one instance, or nil if unknown.
func (l *Ledger) Get(instanceID string) *Instance {
	l.mu.Lock()
	defer l.mu.Unlock()

	inst, ok := l.instances[instanceID]
	if !ok {
		return nil
	}
	return cloneInstance(inst)
}

// ListForPlayer returns the player's instances. Order is not part of
// the contract.
func (l *Ledger) ListForPlayer(playerID string, unclaimedOnly bool) []*Instance {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*Instance, 0)
	for _, inst := range l.instances {
		if inst.PlayerID != playerID {
			continue
		}
		if unclaimedOnly && inst.Claimed {
			continue
		}
		out = append(out, cloneInstance(inst))
	}
	return out
}

// Cleanup removes instances older than the retention window, claimed or
// not. Unclaimed rewards past the window are silently discarded.
func (l *Ledger) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.clock.Now().AddDate(0, 0, -l.cfg.RetentionDays)
	removed := 0
	for id, inst := range l.instances {
		if inst.CreatedAt.Before(cutoff) {
			delete(l.instances, id)
			removed++
		}
	}
	if removed > 0 {
		l.logger.Printf("[ledger] cleanup removed %d expired reward instances", removed)
	}
	return removed
}

// Instances snapshots all instances for persistence.
func (l *Ledger) Instances() map[string]Instance {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]Instance, len(l.instances))
	for id, inst := range l.instances {
		out[id] = *cloneInstance(inst)
	}
	return out
}

// Restore replaces all instances from a loaded snapshot, reattaching
// template references where the catalog still knows the template.
func (l *Ledger) Restore(instances map[string]Instance) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.instances = make(map[string]*Instance, len(instances))
	for id, inst := range instances {
		in := inst
		in.ID = id
		in.tpl = l.catalog.Get(in.TemplateID)
		l.instances[id] = &in
	}
}
