/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package persist

import (
	"context"
	"sync"
)

// memStore is the default store for Automatic mode: an unbounded map from
// sha256 hash to query text.  Entries are never evicted; a deployment that
// needs bounds should use NewRistrettoStore or its own QueryStore instead.
type memStore struct {
	mu      sync.RWMutex
	queries map[string]string
}

// NewMemStore returns an empty in-memory read/write store.
func NewMemStore() QueryStore {
	return &memStore{queries: make(map[string]string)}
}

func (s *memStore) Lookup(ctx context.Context, hash string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query, ok := s.queries[hash]
	return query, ok, nil
}

func (s *memStore) Save(ctx context.Context, hash, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Overwrites are idempotent: the hash is a content address, so any racing
	// writer is storing the same text.
	s.queries[hash] = query
	return nil
}
