package reward

import "lootvault/internal/progress"

// CanEarn reports whether the player's progress satisfies a template's
// conditions. Ineligibility is a normal outcome, not an error.
//
// Checks run in order and stop at the first failure: level bounds,
// streak bounds, max-claims, first-time-only. Score bounds and the
// perfect-score/no-hints/no-boosts flags are carried in the data model
// but intentionally not enforced here; the host game applies those at
// the call site.
func CanEarn(tpl *Template, p progress.Progress) bool {
	if tpl == nil {
		return false
	}
	cond := tpl.Conditions

	if cond.MinLevel > 0 && p.Level < cond.MinLevel {
		return false
	}
	if cond.MaxLevel > 0 && p.Level > cond.MaxLevel {
		return false
	}

	if cond.MinStreak > 0 && p.CurrentStreak < cond.MinStreak {
		return false
	}
	if cond.MaxStreak > 0 && p.CurrentStreak > cond.MaxStreak {
		return false
	}

	if tpl.MaxClaims > 0 && p.RewardCounts[tpl.ID] >= tpl.MaxClaims {
		return false
	}

	if cond.FirstTimeOnly && p.TotalEarned > 0 {
		return false
	}

	return true
}
