package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server holds process configuration parsed from environment variables.
type Server struct {
	Port             int    `env:"PORT" envDefault:"8080"`
	DataDir          string `env:"DATA_DIR" envDefault:"data"`
	CatalogPath      string `env:"REWARD_CATALOG" envDefault:"rewards.yml"`
	DailyTablePath   string `env:"DAILY_TABLE" envDefault:"daily_rewards.yml"`
	ShopPath         string `env:"SHOP_CATALOG" envDefault:"shop.yml"`
	AchievementsPath string `env:"ACHIEVEMENT_DEFS" envDefault:"achievements.yml"`
	BalancePreset    string `env:"BALANCE_PRESET"`
}

// LoadServer parses environment variables into a Server config.
func LoadServer() (*Server, error) {
	cfg := &Server{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse server config: %w", err)
	}
	return cfg, nil
}

// FromEnv loads balance configuration from environment variables
// Falls back to defaults if variables are not set
func FromEnv() Balance {
	cfg := Default()

	// Support preset modes
	switch os.Getenv("BALANCE_PRESET") {
	case "generous":
		cfg = Generous()
	case "strict":
		cfg = Strict()
	}

	if val := getEnvFloat("BASE_MULTIPLIER"); val > 0 {
		cfg.BaseMultiplier = val
	}
	if val := getEnvFloat("MAX_MULTIPLIER"); val > 0 {
		cfg.MaxMultiplier = val
	}
	if val := getEnvFloat("STREAK_MULTIPLIER_RATE"); val > 0 {
		cfg.StreakMultiplierRate = val
	}
	if val := getEnvFloat("MULTIPLIER_GROWTH_RATE"); val > 0 {
		cfg.MultiplierGrowthRate = val
	}
	if val := getEnvFloat("MULTIPLIER_DECAY_RATE"); val > 0 {
		cfg.MultiplierDecayRate = val
	}
	if val := getEnvDuration("DECAY_INTERVAL"); val > 0 {
		cfg.DecayInterval = val
	}
	if val := getEnvInt("RETENTION_DAYS"); val > 0 {
		cfg.RetentionDays = val
	}
	if val := getEnvDuration("CLEANUP_INTERVAL"); val > 0 {
		cfg.CleanupInterval = val
	}
	if val := getEnvDuration("DAILY_COOLDOWN"); val > 0 {
		cfg.DailyCooldown = val
	}
	if val := getEnvInt("DAILY_CYCLE_LENGTH"); val > 0 {
		cfg.DailyCycleLength = val
	}

	return cfg
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

func getEnvFloat(key string) float64 {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0
	}
	return num
}

func getEnvDuration(key string) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0
	}
	return d
}
