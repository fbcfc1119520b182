package engine

import (
	"log"
	"math/rand"
	"time"

	"lootvault/internal/achievement"
	"lootvault/internal/clock"
	"lootvault/internal/config"
	"lootvault/internal/daily"
	"lootvault/internal/economy"
	"lootvault/internal/events"
	"lootvault/internal/progress"
	"lootvault/internal/reward"
	"lootvault/internal/shop"
	"lootvault/internal/store"
)

// Engine is the economy service object: constructed once at process
// start and passed by reference to callers. No ambient globals.
//
// Mutating operations snapshot the full state to disk; the in-memory
// maps stay authoritative when a write fails.
type Engine struct {
	Bus          *events.Bus
	EventLog     *events.Log
	Wallet       *economy.FileWallet
	Players      *progress.Repo
	Catalog      *reward.Catalog
	Rewards      *reward.Ledger
	Daily        *daily.Cycle
	Achievements *achievement.Tracker
	Shop         *shop.Service

	cfg       config.Balance
	clock     clock.Clock
	logger    *log.Logger
	store     *store.Store
	sweeps    *sweeper
	detachLog func()
}

type Options struct {
	DataDir         string
	Balance         config.Balance
	Catalog         *reward.Catalog
	DailyTable      []daily.Entry
	AchievementDefs []achievement.Def
	ShopCatalog     *shop.Catalog
	Clock           clock.Clock
	RNG             *rand.Rand
	Logger          *log.Logger
}

func New(opts Options) (*Engine, error) {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.RNG == nil {
		opts.RNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Catalog == nil {
		opts.Catalog = reward.NewCatalog(nil)
	}
	if opts.ShopCatalog == nil {
		opts.ShopCatalog = shop.NewCatalog(nil)
	}

	st, err := store.New(opts.DataDir, opts.Logger)
	if err != nil {
		return nil, err
	}
	wallet, err := economy.NewFileWallet(opts.DataDir)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus(opts.Clock)
	eventLog := events.NewLog(0)
	detach := eventLog.Attach(bus)

	players := progress.NewRepo(opts.Balance.BaseMultiplier)

	rewards := reward.NewLedger(reward.LedgerOptions{
		Catalog:  opts.Catalog,
		Players:  players,
		Currency: wallet,
		Bus:      bus,
		Clock:    opts.Clock,
		RNG:      opts.RNG,
		Balance:  opts.Balance,
		Logger:   opts.Logger,
	})

	dailyCycle := daily.NewCycle(daily.CycleOptions{
		Entries:  opts.DailyTable,
		Players:  players,
		Currency: wallet,
		Bus:      bus,
		Clock:    opts.Clock,
		Balance:  opts.Balance,
	})

	achievements := achievement.NewTracker(achievement.TrackerOptions{
		Defs:     opts.AchievementDefs,
		Currency: wallet,
		Bus:      bus,
		Clock:    opts.Clock,
	})

	// rand.Rand is not goroutine-safe and the ledger and shop serialize
	// their draws behind separate mutexes, so the shop gets its own
	// source seeded from the primary one.
	shopRNG := rand.New(rand.NewSource(opts.RNG.Int63()))
	shopSvc := shop.NewService(opts.ShopCatalog, wallet, bus, shopRNG)

	e := &Engine{
		Bus:          bus,
		EventLog:     eventLog,
		Wallet:       wallet,
		Players:      players,
		Catalog:      opts.Catalog,
		Rewards:      rewards,
		Daily:        dailyCycle,
		Achievements: achievements,
		Shop:         shopSvc,
		cfg:          opts.Balance,
		clock:        opts.Clock,
		logger:       opts.Logger,
		store:        st,
		detachLog:    detach,
	}

	snap := st.Load()
	players.Replace(snap.Progress)
	rewards.Restore(snap.Instances)
	achievements.Restore(snap.Achievements)

	return e, nil
}

// EarnReward issues a reward and persists state when issuance succeeds.
func (e *Engine) EarnReward(playerID, templateID, source, reason string) *reward.Instance {
	inst := e.Rewards.Earn(playerID, templateID, source, reason)
	if inst != nil {
		e.save()
	}
	return inst
}

// EarnRandomReward issues a weighted-random reward from the catalog.
func (e *Engine) EarnRandomReward(playerID, source, reason string) *reward.Instance {
	inst := e.Rewards.EarnRandom(playerID, source, reason)
	if inst != nil {
		e.save()
	}
	return inst
}

// ClaimReward credits and marks an instance claimed.
func (e *Engine) ClaimReward(instanceID string) bool {
	ok := e.Rewards.Claim(instanceID)
	if ok {
		e.save()
	}
	return ok
}

// CanClaimDaily reports whether the daily cooldown has elapsed.
func (e *Engine) CanClaimDaily(playerID string) bool {
	return e.Daily.CanClaim(playerID)
}

// ClaimDaily claims the player's current cycle-day reward.
func (e *Engine) ClaimDaily(playerID string) (daily.Entry, bool) {
	entry, ok := e.Daily.Claim(playerID)
	if ok {
		e.save()
	}
	return entry, ok
}

// ReportAchievement forwards a progress delta and persists state.
func (e *Engine) ReportAchievement(playerID, achievementID string, delta int) {
	e.Achievements.ReportProgress(playerID, achievementID, delta)
	e.save()
}

// Purchase buys a shop item for the player. The wallet persists itself.
func (e *Engine) Purchase(playerID, itemID string) bool {
	return e.Shop.Purchase(playerID, itemID)
}

// DecayTick steps every player's multiplier toward baseline by the
// configured rate, floored at baseline.
func (e *Engine) DecayTick() {
	base := e.cfg.BaseMultiplier
	changed := 0
	for playerID, p := range e.Players.All() {
		if p.CurrentMultiplier <= base {
			continue
		}
		updated := e.Players.Mutate(playerID, func(p *progress.Progress) {
			p.CurrentMultiplier -= e.cfg.MultiplierDecayRate
			if p.CurrentMultiplier < base {
				p.CurrentMultiplier = base
			}
		})
		changed++
		e.Bus.Publish(events.EventMultiplierChanged, playerID, events.Metadata{
			"multiplier": updated.CurrentMultiplier,
		})
	}
	if changed > 0 {
		e.save()
	}
}

// CleanupTick drops reward instances past the retention window.
func (e *Engine) CleanupTick() {
	if e.Rewards.Cleanup() > 0 {
		e.save()
	}
}

func (e *Engine) save() {
	_ = e.store.Save(store.Snapshot{
		Instances:    e.Rewards.Instances(),
		Progress:     e.Players.All(),
		Achievements: e.Achievements.States(),
	})
}

// Save persists the full state, typically at shutdown.
func (e *Engine) Save() {
	e.save()
}

// StartSweeps launches the periodic decay and cleanup jobs. They run
// for the lifetime of the process until Close.
func (e *Engine) StartSweeps() error {
	sw, err := newSweeper(e)
	if err != nil {
		return err
	}
	e.sweeps = sw
	return nil
}

// Close stops the sweeps, detaches the event log, and saves state.
func (e *Engine) Close() {
	if e.sweeps != nil {
		e.sweeps.stop()
	}
	if e.detachLog != nil {
		e.detachLog()
	}
	e.save()
}
