package daily

import (
	"sync"

	"lootvault/internal/clock"
	"lootvault/internal/config"
	"lootvault/internal/economy"
	"lootvault/internal/events"
	"lootvault/internal/progress"
)

// Cycle gates daily login rewards behind a wall-clock cooldown. The
// gate is elapsed-time based, not calendar based: a claim at 23:59 and
// another at 00:01 is rejected; one full cooldown later is accepted.
type Cycle struct {
	mu       sync.Mutex
	entries  []Entry
	players  *progress.Repo
	currency economy.CurrencyLedger
	bus      *events.Bus
	clock    clock.Clock
	cfg      config.Balance
}

type CycleOptions struct {
	Entries  []Entry
	Players  *progress.Repo
	Currency economy.CurrencyLedger
	Bus      *events.Bus
	Clock    clock.Clock
	Balance  config.Balance
}

func NewCycle(opts CycleOptions) *Cycle {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if len(opts.Entries) == 0 {
		opts.Entries = DefaultTable(opts.Balance.DailyCycleLength)
	}
	return &Cycle{
		entries:  opts.Entries,
		players:  opts.Players,
		currency: opts.Currency,
		bus:      opts.Bus,
		clock:    opts.Clock,
		cfg:      opts.Balance,
	}
}

// Length returns the cycle length in days.
func (c *Cycle) Length() int { return len(c.entries) }

// Next returns the entry the player would receive on their next claim.
func (c *Cycle) Next(playerID string) Entry {
	p := c.players.Get(playerID)
	return c.entries[p.DailyRewardDay%len(c.entries)]
}

// CanClaim reports whether the player's cooldown has elapsed. A claim
// exactly at cooldown expiry is accepted.
func (c *Cycle) CanClaim(playerID string) bool {
	p := c.players.Get(playerID)
	if p.LastDailyClaimAt == nil {
		return true
	}
	return c.clock.Now().Sub(*p.LastDailyClaimAt) >= c.cfg.DailyCooldown
}

// Claim credits the current cycle-day entry and advances the day
// counter, wrapping modulo the cycle length. Returns false while the
// cooldown is active.
//
// ResetDailyOnMiss is accepted in config but a missed day does not
// currently reset the counter.
func (c *Cycle) Claim(playerID string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.CanClaim(playerID) {
		return Entry{}, false
	}

	p := c.players.Get(playerID)
	entry := c.entries[p.DailyRewardDay%len(c.entries)]

	for _, payout := range entry.Payouts {
		c.currency.Credit(playerID, payout.CurrencyID, payout.Amount, "daily_reward")
	}

	now := c.clock.Now()
	c.players.Mutate(playerID, func(p *progress.Progress) {
		p.DailyRewardDay++
		t := now
		p.LastDailyClaimAt = &t
	})

	c.bus.Publish(events.EventDailyClaimed, playerID, events.Metadata{
		"day":     entry.Day,
		"special": entry.Special,
	})

	return entry, true
}
