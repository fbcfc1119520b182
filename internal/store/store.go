package store

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"lootvault/internal/achievement"
	"lootvault/internal/progress"
	"lootvault/internal/reward"
)

// Snapshot is the single persisted document: three top-level maps,
// overwritten wholesale on every save. There is no schema version;
// a malformed file is logged and replaced with empty state.
type Snapshot struct {
	Instances    map[string]reward.Instance              `json:"instances"`
	Progress     map[string]progress.Progress            `json:"progress"`
	Achievements map[string]map[string]achievement.State `json:"achievements"`
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Instances:    map[string]reward.Instance{},
		Progress:     map[string]progress.Progress{},
		Achievements: map[string]map[string]achievement.State{},
	}
}

func normalizeSnapshot(s Snapshot) Snapshot {
	if s.Instances == nil {
		s.Instances = map[string]reward.Instance{}
	}
	if s.Progress == nil {
		s.Progress = map[string]progress.Progress{}
	}
	if s.Achievements == nil {
		s.Achievements = map[string]map[string]achievement.State{}
	}
	return s
}

// Store persists snapshots to one JSON file in the data directory.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *log.Logger
}

func New(dataDir string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		path:   filepath.Join(dataDir, "economy.json"),
		logger: logger,
	}, nil
}

// Save overwrites the document. A failed write is logged and dropped;
// in-memory state stays authoritative and the next save retries.
func (s *Store) Save(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.MarshalIndent(normalizeSnapshot(snap), "", "  ")
	if err != nil {
		s.logger.Printf("[store] marshal state: %v", err)
		return err
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		s.logger.Printf("[store] write state: %v", err)
		return err
	}
	return nil
}

// Load reads the document. A missing, malformed, or partially written
// file yields empty state rather than an error.
func (s *Store) Load() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Printf("[store] read state: %v", err)
		}
		return emptySnapshot()
	}

	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		s.logger.Printf("[store] corrupt state file, starting empty: %v", err)
		return emptySnapshot()
	}
	return normalizeSnapshot(snap)
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }
