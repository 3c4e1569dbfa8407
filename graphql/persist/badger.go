/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package persist

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// BadgerStore keeps persisted queries in an embedded badger database, so the
// hash to query mapping survives process restarts.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (creating if needed) a badger-backed store in dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opt := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opt)
	if err != nil {
		return nil, errors.Wrapf(err, "while opening badger store at %q", dir)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Lookup(ctx context.Context, hash string) (string, bool, error) {
	var query string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(hash))
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		query = string(val)
		return nil
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return "", false, nil
	case err != nil:
		return "", false, errors.Wrapf(err, "while reading query sha %s", hash)
	}
	return query, true, nil
}

func (s *BadgerStore) Save(ctx context.Context, hash, query string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(hash), []byte(query))
	})
	return errors.Wrapf(err, "while writing query sha %s", hash)
}

// Close flushes and closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
