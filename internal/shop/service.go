package shop

import (
	"math/rand"
	"sync"

	"lootvault/internal/events"
)

// Wallet is the slice of the economy the shop needs: spend, refund,
// and inventory grants.
type Wallet interface {
	Debit(playerID, currencyID string, amount int, tag string) bool
	Credit(playerID, currencyID string, amount int, tag string) bool
	AddItem(playerID, itemID string, count int)
}

// Service sells catalog items against the wallet.
type Service struct {
	mu      sync.Mutex
	catalog *Catalog
	wallet  Wallet
	bus     *events.Bus
	rng     *rand.Rand
}

func NewService(catalog *Catalog, wallet Wallet, bus *events.Bus, rng *rand.Rand) *Service {
	return &Service{
		catalog: catalog,
		wallet:  wallet,
		bus:     bus,
		rng:     rng,
	}
}

// Catalog returns the shop's item catalog.
func (s *Service) Catalog() *Catalog { return s.catalog }

// Purchase debits the item's cost and delivers its grants. Returns
// false for unknown items and insufficient funds.
func (s *Service) Purchase(playerID, itemID string) bool {
	item := s.catalog.Get(itemID)
	if item == nil {
		return false
	}

	if item.CostAmount > 0 {
		if !s.wallet.Debit(playerID, item.CostCurrency, item.CostAmount, "shop:"+item.ID) {
			return false
		}
	}

	for _, g := range item.Grants {
		if g.ItemID != "" && g.Count > 0 {
			s.wallet.AddItem(playerID, g.ItemID, g.Count)
		}
		if g.CurrencyID != "" && g.Amount > 0 {
			s.wallet.Credit(playerID, g.CurrencyID, g.Amount, "shop:"+item.ID)
		}
	}

	s.bus.Publish(events.EventPurchaseCompleted, playerID, events.Metadata{
		"item_id": item.ID,
		"cost":    item.CostAmount,
	})
	return true
}

// Featured rolls a weighted selection of up to count distinct items for
// the storefront rotation.
func (s *Service) Featured(count int) []*Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.catalog.List()
	totalWeight := 0
	for _, item := range items {
		totalWeight += item.Weight
	}
	if totalWeight == 0 || count <= 0 {
		return []*Item{}
	}

	picked := make([]*Item, 0, count)
	seen := map[string]bool{}
	// Bounded attempts so a tiny catalog cannot spin forever.
	for attempts := 0; len(picked) < count && attempts < count*4; attempts++ {
		roll := s.rng.Intn(totalWeight)
		current := 0
		for _, item := range items {
			current += item.Weight
			if roll < current {
				if !seen[item.ID] {
					seen[item.ID] = true
					picked = append(picked, item)
				}
				break
			}
		}
	}
	return picked
}
