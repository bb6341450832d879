package memory

import (
	"context"
	"sort"
	"sync"

	"solana-copytrade-lab/internal/domain"
	"solana-copytrade-lab/internal/storage"
)

// MatchedTradeStore is an in-memory implementation of storage.MatchedTradeStore.
type MatchedTradeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.MatchedTrade // keyed by trade_id
}

// NewMatchedTradeStore creates a new in-memory matched trade store.
func NewMatchedTradeStore() *MatchedTradeStore {
	return &MatchedTradeStore{
		data: make(map[string]*domain.MatchedTrade),
	}
}

// Compile-time interface check.
var _ storage.MatchedTradeStore = (*MatchedTradeStore)(nil)

// Insert adds a new trade. Returns ErrDuplicateKey if trade_id exists.
func (s *MatchedTradeStore) Insert(_ context.Context, t *domain.MatchedTrade) error {
	if t == nil || t.TradeID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TradeID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *t
	s.data[t.TradeID] = &copy
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *MatchedTradeStore) InsertBulk(_ context.Context, trades []*domain.MatchedTrade) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: detect existing and intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(trades))
	for _, t := range trades {
		if t == nil || t.TradeID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[t.TradeID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[t.TradeID] = struct{}{}
	}

	// Second pass: insert all
	for _, t := range trades {
		copy := *t
		s.data[t.TradeID] = &copy
	}
	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if not exists.
func (s *MatchedTradeStore) GetByID(_ context.Context, tradeID string) (*domain.MatchedTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[tradeID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *t
	return &copy, nil
}

// GetByWallet retrieves all trades for a wallet, ordered by sell_time ASC, trade_id ASC.
func (s *MatchedTradeStore) GetByWallet(_ context.Context, wallet string) ([]*domain.MatchedTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.MatchedTrade
	for _, t := range s.data {
		if t.Wallet == wallet {
			copy := *t
			result = append(result, &copy)
		}
	}

	sortTrades(result)
	return result, nil
}

// GetByWalletMint retrieves a wallet's trades in one token, same ordering.
func (s *MatchedTradeStore) GetByWalletMint(_ context.Context, wallet, mint string) ([]*domain.MatchedTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.MatchedTrade
	for _, t := range s.data {
		if t.Wallet == wallet && t.Mint == mint {
			copy := *t
			result = append(result, &copy)
		}
	}

	sortTrades(result)
	return result, nil
}

func sortTrades(trades []*domain.MatchedTrade) {
	sort.Slice(trades, func(i, j int) bool {
		if trades[i].SellTime != trades[j].SellTime {
			return trades[i].SellTime < trades[j].SellTime
		}
		return trades[i].TradeID < trades[j].TradeID
	})
}
