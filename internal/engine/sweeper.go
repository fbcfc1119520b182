package engine

import (
	"github.com/go-co-op/gocron/v2"
)

// sweeper owns the periodic decay and cleanup jobs.
type sweeper struct {
	sched gocron.Scheduler
}

func newSweeper(e *Engine) (*sweeper, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(e.cfg.DecayInterval),
		gocron.NewTask(func() {
			e.DecayTick()
		}),
	)
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(e.cfg.CleanupInterval),
		gocron.NewTask(func() {
			e.CleanupTick()
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	e.logger.Printf("[sweeper] decay every %s, cleanup every %s", e.cfg.DecayInterval, e.cfg.CleanupInterval)
	return &sweeper{sched: sched}, nil
}

func (s *sweeper) stop() {
	_ = s.sched.Shutdown()
}
