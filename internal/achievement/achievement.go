package achievement

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"lootvault/internal/reward"
)

// Type categorizes what an achievement measures
type Type string

const (
	TypeLevelComplete Type = "level_complete"
	TypeScore         Type = "score"
	TypeStreak        Type = "streak"
	TypeCurrency      Type = "currency"
	TypeTime          Type = "time"
	TypeSpecial       Type = "special"
)

// Def is an immutable achievement definition.
type Def struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description"`
	Type        Type            `json:"type" yaml:"type"`
	Target      int             `json:"target" yaml:"target"`
	Payouts     []reward.Payout `json:"payouts" yaml:"payouts"`
	Category    string          `json:"category,omitempty" yaml:"category"`
}

// State is one player's progress against a definition. Unlocked
// transitions false to true exactly once and is never reversed.
type State struct {
	Current    int        `json:"current"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// Status pairs a definition with a player's state for listings.
type Status struct {
	Def   Def   `json:"def"`
	State State `json:"state"`
}

type defsFile struct {
	Achievements []Def `yaml:"achievements"`
}

// LoadDefs reads achievement definitions from a YAML file.
func LoadDefs(path string) ([]Def, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read achievement defs: %w", err)
	}
	var file defsFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("parse achievement defs: %w", err)
	}
	return file.Achievements, nil
}
