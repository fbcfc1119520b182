package config

import "time"

// Balance holds economy tuning configuration
type Balance struct {
	// Multiplier behaviour
	BaseMultiplier       float64 `json:"base_multiplier"`
	MaxMultiplier        float64 `json:"max_multiplier"`
	StreakMultiplierRate float64 `json:"streak_multiplier_rate"`
	EnableStreakBonus    bool    `json:"enable_streak_bonus"`

	// Earned rewards nudge the player multiplier up; the decay sweep
	// pulls it back toward BaseMultiplier.
	MultiplierGrowthRate float64       `json:"multiplier_growth_rate"`
	MultiplierDecayRate  float64       `json:"multiplier_decay_rate"`
	DecayInterval        time.Duration `json:"decay_interval"`

	// Reward instance retention
	RetentionDays   int           `json:"retention_days"`
	CleanupInterval time.Duration `json:"cleanup_interval"`

	// Daily login rewards
	DailyCooldown    time.Duration `json:"daily_cooldown"`
	DailyCycleLength int           `json:"daily_cycle_length"`
	// ResetDailyOnMiss is declared for forward compatibility but the day
	// counter is currently never reset on a missed day.
	ResetDailyOnMiss bool `json:"reset_daily_on_miss"`
}

// Default returns the default balance configuration
func Default() Balance {
	return Balance{
		BaseMultiplier:       1.0,
		MaxMultiplier:        3.0,
		StreakMultiplierRate: 0.1,
		EnableStreakBonus:    true,
		MultiplierGrowthRate: 0.05,
		MultiplierDecayRate:  0.1,
		DecayInterval:        5 * time.Minute,
		RetentionDays:        30,
		CleanupInterval:      1 * time.Hour,
		DailyCooldown:        24 * time.Hour,
		DailyCycleLength:     7,
		ResetDailyOnMiss:     false,
	}
}

// Generous returns a softer economy for casual play
func Generous() Balance {
	cfg := Default()
	cfg.MaxMultiplier = 5.0
	cfg.StreakMultiplierRate = 0.15
	cfg.MultiplierGrowthRate = 0.1
	cfg.MultiplierDecayRate = 0.05
	cfg.RetentionDays = 60
	return cfg
}

// Strict returns a tighter economy for competitive play
func Strict() Balance {
	cfg := Default()
	cfg.MaxMultiplier = 2.0
	cfg.StreakMultiplierRate = 0.05
	cfg.MultiplierGrowthRate = 0.02
	cfg.MultiplierDecayRate = 0.2
	cfg.RetentionDays = 14
	return cfg
}
