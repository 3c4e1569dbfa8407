/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package persist resolves the actual text of a GraphQL operation from a
// request that may carry the text itself, a sha256 content hash, or both.
//
// The protocol is Apollo's Automatic Persisted Queries: a client first sends
// only a hash; on a PersistedQueryNotFound error it resends the hash together
// with the full query so the server can store it for future hash-only
// requests.  Prepared and PreparedOnly modes run the same lookup against a
// store seeded at startup, with PreparedOnly additionally refusing to execute
// anything that isn't stored.
//
// The engine treats query text as opaque: parsing, validation and execution
// belong to whatever sits behind it.
package persist

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/hypergraph-io/apq/graphql/schema"
)

// persistedQueryVersion is the only version of the persistedQuery extension
// we speak.  A request claiming any other version is rejected as
// PersistedQueryNotSupported.
const persistedQueryVersion = 1

// saveTimeout bounds the detached write-through of a newly seen query.  The
// response never waits on it.
const saveTimeout = 30 * time.Second

// Resolved is a successful resolution: the query text to hand to execution,
// and the store key it resolved through, if any.
type Resolved struct {
	Query      string
	Sha256Hash string
}

// An Engine applies one mode's persisted-query policy over a QueryStore.
// Engines are cheap, stateless and safe for concurrent use; all per-request
// state lives in the arguments to Resolve.
type Engine struct {
	settings *Settings
}

// NewEngine returns an engine enforcing the policy selected by settings.
func NewEngine(settings *Settings) *Engine {
	return &Engine{settings: settings}
}

// Resolve classifies req and returns the query text that should execute.
//
// The error, if any, is one of:
//   - ErrQueryNotFound, ErrPersistedQueryNotSupported,
//     ErrPersistedQueryNotFound, ErrShaMismatch: protocol errors, rendered as
//     a standard GraphQL error body with null data;
//   - *UnknownPersistedQueryError: PreparedOnly policy rejection, rendered as
//     a transport-level 400;
//   - *StoreError: the store failed, distinct from a miss.
func (e *Engine) Resolve(ctx context.Context, req *schema.Request) (*Resolved, error) {
	if req == nil {
		return nil, ErrQueryNotFound
	}

	mode := Disabled
	if e != nil && e.settings != nil {
		mode = e.settings.Mode
	}
	if mode == Disabled {
		return &Resolved{Query: req.Query}, nil
	}

	// Shorthand lookup: the query field carries a store key, marked by the
	// persisted flag.  The key is caller-supplied and trusted by construction
	// in the prepared modes (nothing client-originated is ever stored), so
	// there's no hash to verify.
	if req.Persisted && (mode == Prepared || mode == PreparedOnly) {
		return e.lookup(ctx, req.Query)
	}

	pq := req.PersistedQueryExtension()
	switch {
	case pq != nil:
		if pq.Version != nil && *pq.Version != persistedQueryVersion {
			return nil, ErrPersistedQueryNotSupported
		}
		if pq.Sha256Hash == "" {
			return nil, ErrPersistedQueryNotSupported
		}

		if req.Query == "" {
			return e.lookup(ctx, pq.Sha256Hash)
		}

		// Query and hash both present.  PreparedOnly never executes
		// client-supplied text, hash or not.
		if mode == PreparedOnly {
			return nil, &UnknownPersistedQueryError{Query: req.Query}
		}
		if !Matches(req.Query, pq.Sha256Hash) {
			return nil, ErrShaMismatch
		}
		if mode == Automatic {
			e.save(pq.Sha256Hash, req.Query)
		}
		return &Resolved{Query: req.Query, Sha256Hash: pq.Sha256Hash}, nil

	case req.Query != "":
		if mode == PreparedOnly {
			return nil, &UnknownPersistedQueryError{Query: req.Query}
		}
		return &Resolved{Query: req.Query}, nil

	default:
		return nil, ErrQueryNotFound
	}
}

func (e *Engine) lookup(ctx context.Context, hash string) (*Resolved, error) {
	query, found, err := e.settings.Store.Lookup(ctx, hash)
	if err != nil {
		return nil, &StoreError{Hash: hash, cause: err}
	}
	if !found {
		return nil, ErrPersistedQueryNotFound
	}
	return &Resolved{Query: query, Sha256Hash: hash}, nil
}

// save writes the hash to query mapping through to the store on a detached
// goroutine.  The client supplied the text in this same request, so a failed
// or slow save can never turn a resolvable request into an error: failures
// are logged and dropped, and the response path never waits.
func (e *Engine) save(hash, query string) {
	store := e.settings.Store
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		if err := store.Save(ctx, hash, query); err != nil {
			glog.Errorf("while persisting query sha %s: %v", hash, err)
		}
	}()
}
