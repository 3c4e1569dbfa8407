/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package schema

import (
	"net/http"
)

// A Request represents a GraphQL request.  It makes no guarantees that the
// request is valid.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
	Extensions    *RequestExtensions     `json:"extensions"`

	// Persisted marks a shorthand persisted-lookup request: Query carries a
	// store key rather than GraphQL text, and the stored operation is
	// executed in its place.
	Persisted bool `json:"persisted"`

	Header http.Header `json:"-"` // no need to marshal headers into any hash or body
}

// RequestExtensions represents extensions received in requests.
type RequestExtensions struct {
	PersistedQuery *PersistedQuery `json:"persistedQuery"`
}

// PersistedQuery represents the query struct received from clients like Apollo.
type PersistedQuery struct {
	Version    *int64 `json:"version"`
	Sha256Hash string `json:"sha256Hash"`
}

// PersistedQueryExtension returns the persistedQuery extension of the request,
// or nil if the request carries none.
func (r *Request) PersistedQueryExtension() *PersistedQuery {
	if r == nil || r.Extensions == nil {
		return nil
	}
	return r.Extensions.PersistedQuery
}

// WithQuery returns a shallow copy of the request with its query text
// replaced.  Used once persisted-query resolution has produced the text that
// should actually execute.
func (r *Request) WithQuery(query string) *Request {
	req := *r
	req.Query = query
	return &req
}
