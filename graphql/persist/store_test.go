/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package persist

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemStoreSaveThenLookup(t *testing.T) {
	store := NewMemStore()
	hash := Sha256Hash(testQuery)

	_, found, err := store.Lookup(context.Background(), hash)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.Save(context.Background(), hash, testQuery))

	query, found, err := store.Lookup(context.Background(), hash)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, testQuery, query)

	// Saving again under the same hash is an idempotent overwrite.
	require.NoError(t, store.Save(context.Background(), hash, testQuery))
}

func TestMemStoreConcurrentAccess(t *testing.T) {
	store := NewMemStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			query := fmt.Sprintf("{ q%d }", i)
			hash := Sha256Hash(query)
			require.NoError(t, store.Save(context.Background(), hash, query))
			got, found, err := store.Lookup(context.Background(), hash)
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, query, got)
		}(i)
	}
	wg.Wait()
}

func TestPreparedStoreIsReadOnly(t *testing.T) {
	seed := map[string]string{"H1": testQuery}
	store := NewPreparedStore(seed)

	query, found, err := store.Lookup(context.Background(), "H1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, testQuery, query)

	require.Equal(t, ErrReadOnlyStore, store.Save(context.Background(), "H2", "{ nope }"))

	// The seed was copied at construction; mutating it later changes nothing.
	seed["H2"] = "{ sneaky }"
	_, found, err = store.Lookup(context.Background(), "H2")
	require.NoError(t, err)
	require.False(t, found)
}

func TestWithoutSaveKeepsLookup(t *testing.T) {
	backing := NewMemStore()
	require.NoError(t, backing.Save(context.Background(), "H1", testQuery))

	store := WithoutSave(backing)

	query, found, err := store.Lookup(context.Background(), "H1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, testQuery, query)

	require.NoError(t, store.Save(context.Background(), "H2", "{ dropped }"))
	_, found, err = backing.Lookup(context.Background(), "H2")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRistrettoStoreSaveThenLookup(t *testing.T) {
	store, err := NewRistrettoStore(1 << 20)
	require.NoError(t, err)
	defer store.Close()

	hash := Sha256Hash(testQuery)
	require.NoError(t, store.Save(context.Background(), hash, testQuery))

	query, found, err := store.Lookup(context.Background(), hash)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, testQuery, query)

	_, found, err = store.Lookup(context.Background(), "shaWithoutAnyPersistedQuery")
	require.NoError(t, err)
	require.False(t, found)
}

func TestBadgerStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	hash := Sha256Hash(testQuery)

	store, err := OpenBadgerStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), hash, testQuery))
	require.NoError(t, store.Close())

	store, err = OpenBadgerStore(dir)
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	query, found, err := store.Lookup(context.Background(), hash)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, testQuery, query)

	_, found, err = store.Lookup(context.Background(), "shaWithoutAnyPersistedQuery")
	require.NoError(t, err)
	require.False(t, found)
}
