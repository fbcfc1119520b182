package daily

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"lootvault/internal/reward"
)

// Entry is one day in the login reward cycle.
type Entry struct {
	Day     int             `json:"day" yaml:"day"`
	Payouts []reward.Payout `json:"payouts" yaml:"payouts"`
	Special bool            `json:"special,omitempty" yaml:"special"`
}

// DefaultTable builds an escalating coin table with a special final day.
func DefaultTable(cycleLength int) []Entry {
	if cycleLength <= 0 {
		cycleLength = 7
	}
	entries := make([]Entry, 0, cycleLength)
	for day := 1; day <= cycleLength; day++ {
		e := Entry{
			Day:     day,
			Payouts: []reward.Payout{{CurrencyID: "coins", Amount: 50 * day}},
		}
		if day == cycleLength {
			e.Special = true
			e.Payouts = append(e.Payouts, reward.Payout{CurrencyID: "gems", Amount: 10})
		}
		entries = append(entries, e)
	}
	return entries
}

type tableFile struct {
	Days []Entry `yaml:"days"`
}

// LoadTable reads a daily reward table from a YAML file and returns the
// entries ordered by day index.
func LoadTable(path string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read daily table: %w", err)
	}
	var file tableFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("parse daily table: %w", err)
	}

	entries := file.Days
	sort.Slice(entries, func(i, j int) bool { return entries[i].Day < entries[j].Day })
	for i := range entries {
		entries[i].Day = i + 1
	}
	return entries, nil
}
