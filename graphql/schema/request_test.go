/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestUnmarshalPersistedQueryExtension(t *testing.T) {
	body := `{
		"query": "{ add(x:1,y:1) }",
		"extensions": {
			"persistedQuery": {
				"version": 1,
				"sha256Hash": "bbc0af44f82ce5c38e775f7f14c71e5eba1936b12b3e66c452ee262ef147f1ed"
			}
		}
	}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	pq := req.PersistedQueryExtension()
	require.NotNil(t, pq)
	require.NotNil(t, pq.Version)
	require.Equal(t, int64(1), *pq.Version)
	require.Equal(t,
		"bbc0af44f82ce5c38e775f7f14c71e5eba1936b12b3e66c452ee262ef147f1ed", pq.Sha256Hash)
}

func TestRequestUnmarshalExtensionWithoutVersion(t *testing.T) {
	body := `{"extensions": {"persistedQuery": {"sha256Hash": "abc"}}}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	pq := req.PersistedQueryExtension()
	require.NotNil(t, pq)
	require.Nil(t, pq.Version)
	require.Equal(t, "abc", pq.Sha256Hash)
}

func TestPersistedQueryExtensionAbsent(t *testing.T) {
	require.Nil(t, (&Request{}).PersistedQueryExtension())
	require.Nil(t, (&Request{Extensions: &RequestExtensions{}}).PersistedQueryExtension())

	var nilReq *Request
	require.Nil(t, nilReq.PersistedQueryExtension())
}

func TestRequestUnmarshalShorthand(t *testing.T) {
	body := `{"query": "H1", "persisted": true}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	require.True(t, req.Persisted)
	require.Equal(t, "H1", req.Query)
}

func TestWithQueryLeavesOriginalAlone(t *testing.T) {
	req := &Request{Query: "H1", OperationName: "add", Persisted: true}
	resolved := req.WithQuery("{ add(x:1,y:1) }")

	require.Equal(t, "{ add(x:1,y:1) }", resolved.Query)
	require.Equal(t, "add", resolved.OperationName)
	require.Equal(t, "H1", req.Query)
}
