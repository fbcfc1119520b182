package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lootvault/internal/clock"
)

func TestSubscribePublish(t *testing.T) {
	bus := NewBus(nil)

	var got []Event
	bus.Subscribe(EventRewardEarned, func(e Event) {
		got = append(got, e)
	})

	bus.Publish(EventRewardEarned, "p1", Metadata{"template_id": "level_win"})
	bus.Publish(EventRewardClaimed, "p1", nil)

	require.Len(t, got, 1, "handler receives only its type")
	assert.Equal(t, "p1", got[0].PlayerID)
	assert.Equal(t, "level_win", got[0].Metadata["template_id"])
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus(nil)

	calls := 0
	unsub := bus.Subscribe(EventRewardEarned, func(Event) { calls++ })

	bus.Publish(EventRewardEarned, "p1", nil)
	unsub()
	bus.Publish(EventRewardEarned, "p1", nil)

	assert.Equal(t, 1, calls)
}

func TestSubscribeAll(t *testing.T) {
	bus := NewBus(nil)

	var types []Type
	unsub := bus.SubscribeAll(func(e Event) {
		types = append(types, e.Type)
	})

	bus.Publish(EventRewardEarned, "p1", nil)
	bus.Publish(EventDailyClaimed, "p1", nil)
	unsub()
	bus.Publish(EventRewardClaimed, "p1", nil)

	assert.Equal(t, []Type{EventRewardEarned, EventDailyClaimed}, types)
}

func TestPublish_StampsFromInjectedClock(t *testing.T) {
	start := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	fake := clock.NewFakeClock(start)
	bus := NewBus(fake)
	l := NewLog(10)
	l.Attach(bus)

	bus.Publish(EventRewardEarned, "p1", nil)
	fake.Advance(2 * time.Hour)
	bus.Publish(EventRewardClaimed, "p1", nil)

	all := l.Since(time.Time{}, nil)
	require.Len(t, all, 2)
	assert.Equal(t, start, all[0].Timestamp)
	assert.Equal(t, start.Add(2*time.Hour), all[1].Timestamp)

	// a pinned clock makes the stats window deterministic
	later := l.Since(start.Add(1*time.Hour), nil)
	require.Len(t, later, 1)
	assert.Equal(t, EventRewardClaimed, later[0].Type)
}

func TestMultipleSubscribersSameType(t *testing.T) {
	bus := NewBus(nil)

	a, b := 0, 0
	bus.Subscribe(EventRewardEarned, func(Event) { a++ })
	bus.Subscribe(EventRewardEarned, func(Event) { b++ })

	bus.Publish(EventRewardEarned, "p1", nil)

	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestLogRecordAndSince(t *testing.T) {
	bus := NewBus(nil)
	l := NewLog(100)
	detach := l.Attach(bus)
	defer detach()

	bus.Publish(EventRewardEarned, "p1", Metadata{"template_id": "level_win"})
	bus.Publish(EventRewardClaimed, "p1", nil)
	bus.Publish(EventRewardEarned, "p2", Metadata{"template_id": "event_drop"})

	all := l.Since(time.Time{}, nil)
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, 3, all[2].ID, "ids are assigned in record order")

	earned := l.Since(time.Time{}, []Type{EventRewardEarned})
	assert.Len(t, earned, 2)
}

func TestLogBounded(t *testing.T) {
	l := NewLog(3)

	for i := 0; i < 5; i++ {
		l.Record(Event{Type: EventRewardEarned, Timestamp: time.Now()})
	}

	got := l.Since(time.Time{}, nil)
	require.Len(t, got, 3)
	assert.Equal(t, 3, got[0].ID, "oldest events are dropped first")
	assert.Equal(t, 5, got[2].ID)
}

func TestCalculateStats(t *testing.T) {
	bus := NewBus(nil)
	l := NewLog(100)
	l.Attach(bus)

	bus.Publish(EventRewardEarned, "p1", Metadata{"template_id": "level_win"})
	bus.Publish(EventRewardEarned, "p1", Metadata{"template_id": "level_win"})
	bus.Publish(EventRewardEarned, "p2", Metadata{"template_id": "event_drop"})
	bus.Publish(EventRewardClaimed, "p1", nil)
	bus.Publish(EventAchievementUnlocked, "p1", nil)
	bus.Publish(EventDailyClaimed, "p2", nil)
	bus.Publish(EventPurchaseCompleted, "p1", nil)

	stats := l.CalculateStats(time.Time{})

	assert.Equal(t, 3, stats.Earned)
	assert.Equal(t, 1, stats.Claimed)
	assert.Equal(t, 1, stats.Unlocks)
	assert.Equal(t, 1, stats.DailyClaims)
	assert.Equal(t, 1, stats.Purchases)
	assert.InDelta(t, 1.0/3.0, stats.ClaimRate, 1e-9)
	assert.Equal(t, 2, stats.ByTemplate["level_win"])
	assert.Equal(t, 1, stats.ByTemplate["event_drop"])
}

func TestCalculateStats_Empty(t *testing.T) {
	l := NewLog(10)
	stats := l.CalculateStats(time.Time{})
	assert.Zero(t, stats.Earned)
	assert.Zero(t, stats.ClaimRate)
}
