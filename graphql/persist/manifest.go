/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package persist

import (
	"encoding/json"
	"os"

	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/dgraph-io/gqlparser/v2/parser"
	"github.com/pkg/errors"
)

// The Apollo persisted query manifest format, as generated by
// generate-persisted-query-manifest and friends:
//
//	{
//	  "format": "apollo-persisted-query-manifest",
//	  "version": 1,
//	  "operations": [ { "id": "<sha>", "body": "query { ... }", ... } ]
//	}
type manifest struct {
	Format     string              `json:"format"`
	Version    int                 `json:"version"`
	Operations []manifestOperation `json:"operations"`
}

type manifestOperation struct {
	ID   string `json:"id"`
	Body string `json:"body"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// ReadManifest reads an Apollo persisted query manifest file into a store
// seed mapping from operation id to query text.
func ReadManifest(path string) (map[string]string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "while reading persisted query manifest %q", path)
	}

	seed, err := ParseManifest(contents)
	return seed, errors.Wrapf(err, "while parsing persisted query manifest %q", path)
}

// ParseManifest parses manifest JSON into a store seed mapping.
func ParseManifest(contents []byte) (map[string]string, error) {
	var m manifest
	if err := json.Unmarshal(contents, &m); err != nil {
		return nil, err
	}

	seed := make(map[string]string, len(m.Operations))
	for _, op := range m.Operations {
		if op.ID == "" || op.Body == "" {
			return nil, errors.Errorf("manifest operation %q needs both an id and a body", op.Name)
		}
		seed[op.ID] = op.Body
	}
	return seed, nil
}

// ValidateQueries checks that every seeded operation at least parses as
// GraphQL.  This runs once at construction time - the engine itself never
// parses query text - so a typo in a hand-maintained manifest fails the
// process at startup rather than every request that references it.
func ValidateQueries(seed map[string]string) error {
	for id, query := range seed {
		if _, gqlErr := parser.ParseQuery(&ast.Source{Input: query}); gqlErr != nil {
			return errors.Wrapf(gqlErr, "seeded operation %s isn't valid GraphQL", id)
		}
	}
	return nil
}
