package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Summary describes the persisted economy state for operational review.
type Summary struct {
	Players            int `json:"players"`
	Instances          int `json:"instances"`
	UnclaimedInstances int `json:"unclaimed_instances"`
	AchievementPlayers int `json:"achievement_players"`
	Wallets            int `json:"wallets"`
}

type economyDoc struct {
	Instances map[string]struct {
		Claimed bool `json:"claimed"`
	} `json:"instances"`
	Progress     map[string]json.RawMessage            `json:"progress"`
	Achievements map[string]map[string]json.RawMessage `json:"achievements"`
}

type walletDoc struct {
	Players map[string]json.RawMessage `json:"players"`
}

// InspectDataDir summarizes the state files in a data directory without
// loading the full engine.
func InspectDataDir(dataDir string) (Summary, error) {
	var sum Summary

	b, err := os.ReadFile(filepath.Join(dataDir, "economy.json"))
	if err != nil && !os.IsNotExist(err) {
		return sum, err
	}
	if err == nil {
		var doc economyDoc
		if err := json.Unmarshal(b, &doc); err != nil {
			return sum, fmt.Errorf("parse economy.json: %w", err)
		}
		sum.Players = len(doc.Progress)
		sum.Instances = len(doc.Instances)
		sum.AchievementPlayers = len(doc.Achievements)
		for _, inst := range doc.Instances {
			if !inst.Claimed {
				sum.UnclaimedInstances++
			}
		}
	}

	wb, err := os.ReadFile(filepath.Join(dataDir, "wallets.json"))
	if err != nil && !os.IsNotExist(err) {
		return sum, err
	}
	if err == nil {
		var doc walletDoc
		if err := json.Unmarshal(wb, &doc); err != nil {
			return sum, fmt.Errorf("parse wallets.json: %w", err)
		}
		sum.Wallets = len(doc.Players)
	}

	return sum, nil
}
