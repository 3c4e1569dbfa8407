/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package persist

import (
	"context"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"
)

// RistrettoStore is a bounded in-memory store for Automatic mode.  Unlike
// the default map store it evicts under memory pressure, so a cold hash can
// come back as a miss; the automatic protocol recovers via its normal
// PersistedQueryNotFound retry round-trip.
type RistrettoStore struct {
	cache *ristretto.Cache[string, string]
}

// NewRistrettoStore returns a store that holds at most maxBytes of query
// text (cost-accounted by text length).
func NewRistrettoStore(maxBytes int64) (*RistrettoStore, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		// Use 5% of cache memory for storing counters.
		NumCounters: maxBytes / 20,
		MaxCost:     maxBytes,
		BufferItems: 64,
		Cost: func(val string) int64 {
			return int64(len(val))
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "while creating ristretto cache")
	}
	return &RistrettoStore{cache: cache}, nil
}

func (s *RistrettoStore) Lookup(ctx context.Context, hash string) (string, bool, error) {
	query, ok := s.cache.Get(hash)
	return query, ok, nil
}

func (s *RistrettoStore) Save(ctx context.Context, hash, query string) error {
	s.cache.Set(hash, query, 0)
	// Sets are applied asynchronously; Wait makes the entry visible to the
	// hash-only retry that follows a write-through.
	s.cache.Wait()
	return nil
}

// Close releases the cache's internal goroutines.
func (s *RistrettoStore) Close() {
	s.cache.Close()
}
