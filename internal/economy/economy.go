package economy

import "time"

const (
	CurrencyCoins  = "coins"
	CurrencyGems   = "gems"
	CurrencyEnergy = "energy"
)

// CurrencyLedger is the narrow collaborator the reward core uses to
// realize payouts. It does not own eligibility or payout resolution.
type CurrencyLedger interface {
	Credit(playerID, currencyID string, amount int, tag string) bool
}

// Txn is one credit or debit applied to a wallet.
type Txn struct {
	CurrencyID string    `json:"currency_id"`
	Amount     int       `json:"amount"`
	Tag        string    `json:"tag,omitempty"`
	At         time.Time `json:"at"`
}

// WalletState is a snapshot of one player's balances and inventory.
type WalletState struct {
	Balances map[string]int `json:"balances"`
	Items    map[string]int `json:"items"`
	History  []Txn          `json:"history,omitempty"`
}

type fileState struct {
	Players map[string]WalletState `json:"players"`
}

func defaultWalletState() WalletState {
	return WalletState{
		Balances: map[string]int{
			CurrencyCoins:  0,
			CurrencyGems:   0,
			CurrencyEnergy: 0,
		},
		Items:   map[string]int{},
		History: []Txn{},
	}
}

func normalizeWalletState(s WalletState) WalletState {
	out := defaultWalletState()
	for k, v := range s.Balances {
		out.Balances[k] = v
	}
	for k, v := range s.Items {
		out.Items[k] = v
	}
	out.History = append(out.History, s.History...)
	return out
}

func cloneWalletState(s WalletState) WalletState {
	out := WalletState{
		Balances: make(map[string]int, len(s.Balances)),
		Items:    make(map[string]int, len(s.Items)),
		History:  append([]Txn{}, s.History...),
	}
	for k, v := range s.Balances {
		out.Balances[k] = v
	}
	for k, v := range s.Items {
		out.Items[k] = v
	}
	return out
}
