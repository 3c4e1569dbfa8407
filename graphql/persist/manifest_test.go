/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testManifest = `{
	"format": "apollo-persisted-query-manifest",
	"version": 1,
	"operations": [
		{
			"id": "bbc0af44f82ce5c38e775f7f14c71e5eba1936b12b3e66c452ee262ef147f1ed",
			"body": "query { queryCountry { name } }",
			"name": "queryCountry",
			"type": "query"
		},
		{
			"id": "H1",
			"body": "{ add(x:1,y:1) }",
			"name": "add",
			"type": "query"
		}
	]
}`

func TestParseManifest(t *testing.T) {
	seed, err := ParseManifest([]byte(testManifest))
	require.NoError(t, err)
	require.Len(t, seed, 2)
	require.Equal(t, "{ add(x:1,y:1) }", seed["H1"])
	require.Equal(t, "query { queryCountry { name } }",
		seed["bbc0af44f82ce5c38e775f7f14c71e5eba1936b12b3e66c452ee262ef147f1ed"])
}

func TestParseManifestRejectsIncompleteOperations(t *testing.T) {
	_, err := ParseManifest([]byte(
		`{"operations": [{"id": "", "body": "{ q }", "name": "q"}]}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "needs both an id and a body")

	_, err = ParseManifest([]byte(
		`{"operations": [{"id": "H1", "body": "", "name": "q"}]}`))
	require.Error(t, err)
}

func TestParseManifestRejectsBadJSON(t *testing.T) {
	_, err := ParseManifest([]byte(`not json`))
	require.Error(t, err)
}

func TestReadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(testManifest), 0600))

	seed, err := ReadManifest(path)
	require.NoError(t, err)
	require.Len(t, seed, 2)

	_, err = ReadManifest(filepath.Join(t.TempDir(), "no-such-file.json"))
	require.Error(t, err)
}

func TestValidateQueries(t *testing.T) {
	require.NoError(t, ValidateQueries(map[string]string{
		"H1": "{ add(x:1,y:1) }",
		"H2": "query q($x: Int) { add(x: $x, y: 1) }",
	}))

	err := ValidateQueries(map[string]string{"H3": "{ add(x:1,"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "H3")
}
