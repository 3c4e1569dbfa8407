/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package persist

import (
	"context"

	"github.com/pkg/errors"
)

// A QueryStore maps persisted query hashes to stored query text.  The engine
// only ever needs these two operations, so a deployment can swap the default
// in-memory map for a bounded cache, an embedded KV store, or a networked
// registry without touching resolution.
//
// Lookup must be idempotent and side-effect-free, and safe for concurrent
// callers.  found is false when the hash has no stored text; err is reserved
// for infrastructure failures, which the engine reports differently from a
// plain miss.
//
// Save is best-effort.  Concurrent saves for the same hash always carry the
// same canonical text (the key is a content hash), so last-writer-wins is
// fine.
type QueryStore interface {
	Lookup(ctx context.Context, hash string) (query string, found bool, err error)
	Save(ctx context.Context, hash, query string) error
}

// ErrReadOnlyStore is returned by Save on stores that are seeded once and
// never written at request time.
var ErrReadOnlyStore = errors.New("persisted query store is read-only")

type noSaveStore struct {
	QueryStore
}

func (s *noSaveStore) Save(ctx context.Context, hash, query string) error {
	return nil
}

// WithoutSave returns a store that resolves lookups through store but never
// persists anything.  It lets a deployment keep hash-only resolution while
// explicitly disabling the write half of the automatic protocol.
func WithoutSave(store QueryStore) QueryStore {
	return &noSaveStore{QueryStore: store}
}
