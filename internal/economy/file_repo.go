package economy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const maxHistoryPerPlayer = 200

// FileWallet persists all player wallets in one JSON document,
// overwritten wholesale on every mutation.
type FileWallet struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

func NewFileWallet(dataDir string) (*FileWallet, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	w := &FileWallet{
		path: filepath.Join(dataDir, "wallets.json"),
		s:    fileState{Players: map[string]WalletState{}},
	}
	if err := w.load(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *FileWallet) load() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, err := os.ReadFile(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			w.s = fileState{Players: map[string]WalletState{}}
			return nil
		}
		return err
	}

	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Players == nil {
		loaded.Players = map[string]WalletState{}
	}
	for id, st := range loaded.Players {
		loaded.Players[id] = normalizeWalletState(st)
	}
	w.s = loaded
	return nil
}

func (w *FileWallet) saveLocked() error {
	b, err := json.MarshalIndent(w.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(w.path, b, 0o644)
}

func (w *FileWallet) stateLocked(playerID string) WalletState {
	st, ok := w.s.Players[playerID]
	if !ok {
		st = defaultWalletState()
		w.s.Players[playerID] = st
		return st
	}
	st = normalizeWalletState(st)
	w.s.Players[playerID] = st
	return st
}

func (w *FileWallet) recordLocked(playerID string, st WalletState, txn Txn) WalletState {
	st.History = append(st.History, txn)
	if len(st.History) > maxHistoryPerPlayer {
		st.History = st.History[len(st.History)-maxHistoryPerPlayer:]
	}
	w.s.Players[playerID] = st
	return st
}

// State returns a copy of the player's wallet.
func (w *FileWallet) State(playerID string) WalletState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return cloneWalletState(w.stateLocked(playerID))
}

// Credit adds currency to the player's balance. Amounts <= 0 are ignored.
func (w *FileWallet) Credit(playerID, currencyID string, amount int, tag string) bool {
	if amount <= 0 {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	st := w.stateLocked(playerID)
	st.Balances[currencyID] += amount
	st = w.recordLocked(playerID, st, Txn{
		CurrencyID: currencyID,
		Amount:     amount,
		Tag:        tag,
		At:         time.Now(),
	})
	if err := w.saveLocked(); err != nil {
		// In-memory state stays authoritative; the write retries on the
		// next mutation.
		return true
	}
	return true
}

// Debit removes currency if the balance covers it.
func (w *FileWallet) Debit(playerID, currencyID string, amount int, tag string) bool {
	if amount <= 0 {
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	st := w.stateLocked(playerID)
	if st.Balances[currencyID] < amount {
		return false
	}
	st.Balances[currencyID] -= amount
	st = w.recordLocked(playerID, st, Txn{
		CurrencyID: currencyID,
		Amount:     -amount,
		Tag:        tag,
		At:         time.Now(),
	})
	_ = w.saveLocked()
	return true
}

// Balance returns the player's balance for one currency.
func (w *FileWallet) Balance(playerID, currencyID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked(playerID).Balances[currencyID]
}

// AddItem grants inventory items to the player.
func (w *FileWallet) AddItem(playerID, itemID string, count int) {
	if count <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	st := w.stateLocked(playerID)
	st.Items[itemID] += count
	w.s.Players[playerID] = st
	_ = w.saveLocked()
}

// RemoveItem removes inventory items if the player holds enough.
func (w *FileWallet) RemoveItem(playerID, itemID string, count int) bool {
	if count <= 0 {
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	st := w.stateLocked(playerID)
	if st.Items[itemID] < count {
		return false
	}
	st.Items[itemID] -= count
	if st.Items[itemID] == 0 {
		delete(st.Items, itemID)
	}
	w.s.Players[playerID] = st
	_ = w.saveLocked()
	return true
}

// ItemCount returns how many of an item the player holds.
func (w *FileWallet) ItemCount(playerID, itemID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked(playerID).Items[itemID]
}
