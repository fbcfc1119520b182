package reward

import "time"

// Type categorizes reward templates
type Type string

const (
	TypeLevelComplete Type = "level_complete"
	TypeAchievement   Type = "achievement"
	TypeDaily         Type = "daily"
	TypeEvent         Type = "event"
	TypeStreak        Type = "streak"
	TypeFirstTime     Type = "first_time"
	TypePerfectScore  Type = "perfect_score"
	TypeNoHints       Type = "no_hints"
	TypeNoBoosts      Type = "no_boosts"
	TypeSpecial       Type = "special"
	TypeRandom        Type = "random"
)

// Rarity tiers a template for display and weighting
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// PayoutSpec describes one potential currency grant on a template.
// Chance is the inclusion probability in [0,1]: an omitted chance means
// always, an explicit zero means never.
type PayoutSpec struct {
	CurrencyID string   `json:"currency_id" yaml:"currency_id"`
	Amount     int      `json:"amount" yaml:"amount"`
	Min        int      `json:"min,omitempty" yaml:"min"`
	Max        int      `json:"max,omitempty" yaml:"max"`
	IsRandom   bool     `json:"is_random,omitempty" yaml:"is_random"`
	Chance     *float64 `json:"chance,omitempty" yaml:"chance"`
}

// Conditions gate who can earn a template.
//
// Score bounds and the perfect/no-hints/no-boosts flags are part of the
// data model but are not enforced by the evaluator; see CanEarn.
type Conditions struct {
	MinLevel  int `json:"min_level,omitempty" yaml:"min_level"`
	MaxLevel  int `json:"max_level,omitempty" yaml:"max_level"`
	MinScore  int `json:"min_score,omitempty" yaml:"min_score"`
	MaxScore  int `json:"max_score,omitempty" yaml:"max_score"`
	MinStreak int `json:"min_streak,omitempty" yaml:"min_streak"`
	MaxStreak int `json:"max_streak,omitempty" yaml:"max_streak"`

	RequiredAchievements []string       `json:"required_achievements,omitempty" yaml:"required_achievements"`
	RequiredCurrency     map[string]int `json:"required_currency,omitempty" yaml:"required_currency"`

	FirstTimeOnly    bool `json:"first_time_only,omitempty" yaml:"first_time_only"`
	PerfectScoreOnly bool `json:"perfect_score_only,omitempty" yaml:"perfect_score_only"`
	NoHintsOnly      bool `json:"no_hints_only,omitempty" yaml:"no_hints_only"`
	NoBoostsOnly     bool `json:"no_boosts_only,omitempty" yaml:"no_boosts_only"`
}

// Template is an immutable reward definition shared by reference across
// all issued instances.
type Template struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description"`
	Type        Type         `json:"type" yaml:"type"`
	Rarity      Rarity       `json:"rarity,omitempty" yaml:"rarity"`
	Payouts     []PayoutSpec `json:"payouts" yaml:"payouts"`
	Conditions  Conditions   `json:"conditions,omitempty" yaml:"conditions"`
	Repeatable  bool         `json:"repeatable,omitempty" yaml:"repeatable"`
	// MaxClaims caps per-player claims; -1 means unbounded.
	MaxClaims int `json:"max_claims" yaml:"max_claims"`
	Weight    int `json:"weight,omitempty" yaml:"weight"`
}

// Payout is one resolved (currency, amount) pair on an issued instance.
type Payout struct {
	CurrencyID string `json:"currency_id" yaml:"currency_id"`
	Amount     int    `json:"amount" yaml:"amount"`
}

// Instance is an issued, possibly unclaimed reward. Created by Earn,
// mutated only by Claim, garbage-collected by Cleanup after the
// retention window regardless of claim state.
type Instance struct {
	ID         string     `json:"id"`
	TemplateID string     `json:"template_id"`
	PlayerID   string     `json:"player_id"`
	Payouts    []Payout   `json:"payouts"`
	CreatedAt  time.Time  `json:"created_at"`
	ClaimedAt  *time.Time `json:"claimed_at,omitempty"`
	Claimed    bool       `json:"claimed"`
	Multiplier float64    `json:"multiplier"`
	Source     string     `json:"source,omitempty"`
	Reason     string     `json:"reason,omitempty"`

	tpl *Template
}

// Template returns the cached template reference, if attached.
func (i *Instance) Template() *Template { return i.tpl }

func cloneInstance(i *Instance) *Instance {
	out := *i
	out.Payouts = append([]Payout{}, i.Payouts...)
	if i.ClaimedAt != nil {
		t := *i.ClaimedAt
		out.ClaimedAt = &t
	}
	return &out
}
