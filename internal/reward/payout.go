package reward

import (
	"math"
	"math/rand"

	"lootvault/internal/config"
	"lootvault/internal/progress"
)

// MultiplierFor composes the payout multiplier for a player:
// clamp(base + streak bonus, 1, max) scaled by the player's current
// decaying multiplier.
func MultiplierFor(cfg config.Balance, p progress.Progress) float64 {
	m := cfg.BaseMultiplier
	if cfg.EnableStreakBonus {
		m += float64(p.CurrentStreak) * cfg.StreakMultiplierRate
	}
	if m < 1.0 {
		m = 1.0
	}
	if m > cfg.MaxMultiplier {
		m = cfg.MaxMultiplier
	}
	return m * p.CurrentMultiplier
}

// Resolve rolls a template's payout specs into concrete payouts.
// Pure given its random source; tests inject a seeded rng.
func Resolve(tpl *Template, multiplier float64, rng *rand.Rand) []Payout {
	payouts := make([]Payout, 0, len(tpl.Payouts))
	for _, spec := range tpl.Payouts {
		chance := 1.0
		if spec.Chance != nil {
			chance = *spec.Chance
		}
		if chance <= 0 || rng.Float64() > chance {
			continue
		}

		amount := spec.Amount
		if spec.IsRandom && spec.Max >= spec.Min {
			amount = spec.Min + rng.Intn(spec.Max-spec.Min+1)
		}

		amount = int(math.Round(float64(amount) * multiplier))
		if amount <= 0 {
			continue
		}

		payouts = append(payouts, Payout{
			CurrencyID: spec.CurrencyID,
			Amount:     amount,
		})
	}
	return payouts
}
