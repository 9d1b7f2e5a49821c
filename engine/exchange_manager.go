// Package engine wires the core collaborators — BalanceManager, the
// per-market order book store, the exchange client registry, and order
// reconciliation — into a single running process per spec.md §6.
package engine

import (
	"errors"
	"strings"
	"sync"

	"github.com/axiomlane/tradecore/exchange"
	"github.com/axiomlane/tradecore/exchangeapi"
)

var (
	// ErrNoExchangesLoaded is returned by operations that require at least
	// one registered exchange client when the registry is empty.
	ErrNoExchangesLoaded = errors.New("engine: no exchanges loaded")
	// ErrExchangeNotFound is returned when a lookup or removal names an
	// account that was never registered.
	ErrExchangeNotFound = errors.New("engine: exchange not found")
	// ErrExchangeAlreadyLoaded is returned by Add when the account is
	// already registered.
	ErrExchangeAlreadyLoaded = errors.New("engine: exchange already loaded")
)

// ExchangeManager is the registry of live exchangeapi.Client connections,
// one per exchange.AccountId. It is the core's only handle onto concrete
// exchange adapters — nothing outside this package ever imports an adapter
// directly.
type ExchangeManager struct {
	mu        sync.RWMutex
	exchanges map[exchange.AccountId]exchangeapi.Client
}

// NewExchangeManager returns an empty registry.
func NewExchangeManager() *ExchangeManager {
	return &ExchangeManager{exchanges: make(map[exchange.AccountId]exchangeapi.Client)}
}

// Add registers client under accountID. It is an error to register the
// same account twice — callers must RemoveExchange first to replace one.
func (m *ExchangeManager) Add(accountID exchange.AccountId, client exchangeapi.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exchanges[accountID]; ok {
		return ErrExchangeAlreadyLoaded
	}
	m.exchanges[accountID] = client
	return nil
}

// GetExchanges returns every registered client. Order is unspecified.
func (m *ExchangeManager) GetExchanges() ([]exchangeapi.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.exchanges) == 0 {
		return nil, ErrNoExchangesLoaded
	}
	out := make([]exchangeapi.Client, 0, len(m.exchanges))
	for _, c := range m.exchanges {
		out = append(out, c)
	}
	return out, nil
}

// GetExchangeByName returns the client registered for name, matched
// case-insensitively against accountID.Name. If more than one account on
// that exchange is registered, the first match found is returned — callers
// that care about a specific sub-account should track exchange.AccountId
// directly instead.
func (m *ExchangeManager) GetExchangeByName(name string) (exchangeapi.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.exchanges) == 0 {
		return nil, ErrNoExchangesLoaded
	}
	for accountID, c := range m.exchanges {
		if strings.EqualFold(accountID.Name, name) {
			return c, nil
		}
	}
	return nil, ErrExchangeNotFound
}

// RemoveExchange unregisters accountID.
func (m *ExchangeManager) RemoveExchange(accountID exchange.AccountId) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.exchanges) == 0 {
		return ErrNoExchangesLoaded
	}
	if _, ok := m.exchanges[accountID]; !ok {
		return ErrExchangeNotFound
	}
	delete(m.exchanges, accountID)
	return nil
}

// Len reports how many exchange clients are currently registered.
func (m *ExchangeManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.exchanges)
}
