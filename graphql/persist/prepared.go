/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package persist

import (
	"context"
)

// preparedStore serves a fixed set of operations seeded at construction time.
// Prepared and PreparedOnly modes share this store; the difference between
// those modes lives entirely in the engine's admission policy.
type preparedStore struct {
	queries map[string]string
}

// NewPreparedStore returns a read-only store seeded with the given key to
// query text mapping.  The mapping is copied, so later changes to seed don't
// leak into the store.
func NewPreparedStore(seed map[string]string) QueryStore {
	queries := make(map[string]string, len(seed))
	for hash, query := range seed {
		queries[hash] = query
	}
	return &preparedStore{queries: queries}
}

func (s *preparedStore) Lookup(ctx context.Context, hash string) (string, bool, error) {
	query, ok := s.queries[hash]
	return query, ok, nil
}

func (s *preparedStore) Save(ctx context.Context, hash, query string) error {
	return ErrReadOnlyStore
}
