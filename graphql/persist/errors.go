/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package persist

import (
	"fmt"

	"github.com/hypergraph-io/apq/x"
)

// The persisted query protocol's error vocabulary.  Conforming clients match
// on these literals (an Apollo client retries with the full query text when
// it sees PersistedQueryNotFound), so the messages must not be reworded.
var (
	// ErrQueryNotFound: the request carried neither query text nor a
	// persistedQuery extension.
	ErrQueryNotFound = x.GqlErrorf("QueryNotFound")

	// ErrPersistedQueryNotSupported: the persistedQuery extension was
	// malformed - an unsupported version, or no sha256Hash field.
	ErrPersistedQueryNotSupported = x.GqlErrorf("PersistedQueryNotSupported")

	// ErrPersistedQueryNotFound: a hash was supplied but the store has no
	// text for it.  This is the recoverable half of the automatic protocol,
	// not a client bug.
	ErrPersistedQueryNotFound = x.GqlErrorf("PersistedQueryNotFound")

	// ErrShaMismatch: the supplied query text doesn't hash to the sha the
	// client claimed for it.
	ErrShaMismatch = x.GqlErrorf("provided sha does not match query")
)

// An UnknownPersistedQueryError reports that PreparedOnly mode received
// literal query text instead of a reference to a stored operation.  This is
// a policy rejection rather than a GraphQL execution error, so transports
// map it to a request-rejection status (HTTP 400), never to a GraphQL error
// body.
type UnknownPersistedQueryError struct {
	Query string
}

func (e *UnknownPersistedQueryError) Error() string {
	return fmt.Sprintf("unknown persisted query: %q is not a stored operation", e.Query)
}

// A StoreError reports that the store itself failed during lookup, as opposed
// to reporting a miss.  The engine can't tell whether the query exists, so
// this must never be conflated with PersistedQueryNotFound.
type StoreError struct {
	Hash  string
	cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("while looking up query sha %s: %v", e.Hash, e.cause)
}

func (e *StoreError) Unwrap() error {
	return e.cause
}
