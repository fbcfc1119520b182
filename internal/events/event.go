package events

import "time"

type Type string

const (
	EventRewardEarned        Type = "reward_earned"
	EventRewardClaimed       Type = "reward_claimed"
	EventAchievementUnlocked Type = "achievement_unlocked"
	EventDailyClaimed        Type = "daily_reward_claimed"
	EventMultiplierChanged   Type = "multiplier_changed"
	EventPurchaseCompleted   Type = "purchase_completed"
)

type Event struct {
	ID        int       `json:"id"`
	Type      Type      `json:"type"`
	PlayerID  string    `json:"player_id"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  Metadata  `json:"metadata,omitempty"`
}

type Metadata map[string]interface{}
