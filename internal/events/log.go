package events

import (
	"sync"
	"time"
)

// Log stores a bounded in-memory history of events for balancing stats.
type Log struct {
	mu     sync.RWMutex
	events []Event
	max    int
	nextID int
}

func NewLog(maxEvents int) *Log {
	if maxEvents <= 0 {
		maxEvents = 10000
	}
	return &Log{
		events: make([]Event, 0),
		max:    maxEvents,
		nextID: 1,
	}
}

// Attach subscribes the log to every event on the bus.
func (l *Log) Attach(b *Bus) (detach func()) {
	return b.SubscribeAll(l.Record)
}

func (l *Log) Record(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ev.ID = l.nextID
	l.nextID++
	l.events = append(l.events, ev)
	if len(l.events) > l.max {
		l.events = l.events[len(l.events)-l.max:]
	}
}

// Since returns events at or after the given time, optionally filtered by type.
func (l *Log) Since(since time.Time, types []Type) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	want := map[Type]bool{}
	for _, t := range types {
		want[t] = true
	}

	out := make([]Event, 0)
	for _, ev := range l.events {
		if ev.Timestamp.Before(since) {
			continue
		}
		if len(want) > 0 && !want[ev.Type] {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Stats aggregates event counts for balancing review
type Stats struct {
	Period      string         `json:"period"`
	EventCounts map[Type]int   `json:"event_counts"`
	Earned      int            `json:"earned"`
	Claimed     int            `json:"claimed"`
	Unlocks     int            `json:"unlocks"`
	DailyClaims int            `json:"daily_claims"`
	Purchases   int            `json:"purchases"`
	ClaimRate   float64        `json:"claim_rate"`
	ByTemplate  map[string]int `json:"by_template"`
}

// CalculateStats computes economy stats from events
func (l *Log) CalculateStats(since time.Time) Stats {
	stats := Stats{
		Period:      since.Format("2006-01-02"),
		EventCounts: make(map[Type]int),
		ByTemplate:  make(map[string]int),
	}

	for _, ev := range l.Since(since, nil) {
		stats.EventCounts[ev.Type]++

		switch ev.Type {
		case EventRewardEarned:
			stats.Earned++
			if tpl, ok := ev.Metadata["template_id"].(string); ok {
				stats.ByTemplate[tpl]++
			}
		case EventRewardClaimed:
			stats.Claimed++
		case EventAchievementUnlocked:
			stats.Unlocks++
		case EventDailyClaimed:
			stats.DailyClaims++
		case EventPurchaseCompleted:
			stats.Purchases++
		}
	}

	if stats.Earned > 0 {
		stats.ClaimRate = float64(stats.Claimed) / float64(stats.Earned)
	}

	return stats
}
