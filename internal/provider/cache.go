package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrCacheMiss is returned when no cached history exists for the wallet.
var ErrCacheMiss = errors.New("no cached transactions for wallet")

// FileCache persists raw transaction history as <wallet>.json files, one
// JSON array per wallet. Raw payloads are cached rather than parsed events
// so a normalizer change never requires refetching.
type FileCache struct {
	dir string
}

// NewFileCache creates a cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

// FetchTransactions loads the wallet's cached history. A missing file is
// ErrCacheMiss; a corrupt file is a hard error, not silently refetched.
func (c *FileCache) FetchTransactions(_ context.Context, wallet string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(c.path(wallet))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCacheMiss, wallet)
		}
		return nil, fmt.Errorf("read cache: %w", err)
	}

	var payloads []json.RawMessage
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("decode cache for %s: %w", wallet, err)
	}
	return payloads, nil
}

// Store writes the wallet's history atomically (temp file + rename).
func (c *FileCache) Store(wallet string, payloads []json.RawMessage) error {
	data, err := json.MarshalIndent(payloads, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, wallet+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.path(wallet)); err != nil {
		return fmt.Errorf("publish cache file: %w", err)
	}
	return nil
}

func (c *FileCache) path(wallet string) string {
	return filepath.Join(c.dir, wallet+".json")
}

// CachingSource reads through the cache: hits are served from disk, misses
// hit the upstream source and populate the cache on the way back.
type CachingSource struct {
	Cache    *FileCache
	Upstream TransactionSource
}

// FetchTransactions implements TransactionSource.
func (s *CachingSource) FetchTransactions(ctx context.Context, wallet string) ([]json.RawMessage, error) {
	payloads, err := s.Cache.FetchTransactions(ctx, wallet)
	if err == nil {
		return payloads, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return nil, err
	}

	payloads, err = s.Upstream.FetchTransactions(ctx, wallet)
	if err != nil {
		return nil, err
	}
	if err := s.Cache.Store(wallet, payloads); err != nil {
		return nil, fmt.Errorf("cache fetched history: %w", err)
	}
	return payloads, nil
}
