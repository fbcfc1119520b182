package progress

import "time"

// Progress is the per-player mutable progression record. One record per
// player, created lazily on first interaction, never deleted.
type Progress struct {
	PlayerID          string     `json:"player_id"`
	Level             int        `json:"level"`
	CurrentStreak     int        `json:"current_streak"`
	MaxStreak         int        `json:"max_streak"`
	TotalEarned       int        `json:"total_earned"`
	TotalClaimed      int        `json:"total_claimed"`
	CurrentMultiplier float64    `json:"current_multiplier"`
	LastRewardAt      *time.Time `json:"last_reward_at,omitempty"`
	LastDailyClaimAt  *time.Time `json:"last_daily_claim_at,omitempty"`
	DailyRewardDay    int        `json:"daily_reward_day"`

	// ClaimedInstanceIDs holds ids of claimed reward instances.
	ClaimedInstanceIDs map[string]bool `json:"claimed_instance_ids"`
	// RewardCounts tracks per-template claim counts for max-claims gating.
	RewardCounts map[string]int `json:"reward_counts"`
}

func defaultProgress(playerID string, baseMultiplier float64) Progress {
	return Progress{
		PlayerID:           playerID,
		CurrentMultiplier:  baseMultiplier,
		ClaimedInstanceIDs: map[string]bool{},
		RewardCounts:       map[string]int{},
	}
}

func normalize(p Progress) Progress {
	if p.ClaimedInstanceIDs == nil {
		p.ClaimedInstanceIDs = map[string]bool{}
	}
	if p.RewardCounts == nil {
		p.RewardCounts = map[string]int{}
	}
	if p.CurrentMultiplier <= 0 {
		p.CurrentMultiplier = 1.0
	}
	return p
}

func clone(p Progress) Progress {
	out := p
	out.ClaimedInstanceIDs = make(map[string]bool, len(p.ClaimedInstanceIDs))
	for k, v := range p.ClaimedInstanceIDs {
		out.ClaimedInstanceIDs[k] = v
	}
	out.RewardCounts = make(map[string]int, len(p.RewardCounts))
	for k, v := range p.RewardCounts {
		out.RewardCounts[k] = v
	}
	if p.LastRewardAt != nil {
		t := *p.LastRewardAt
		out.LastRewardAt = &t
	}
	if p.LastDailyClaimAt != nil {
		t := *p.LastDailyClaimAt
		out.LastDailyClaimAt = &t
	}
	return out
}
