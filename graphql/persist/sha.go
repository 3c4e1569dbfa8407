/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package persist

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sha256Hash returns the sha256 of the exact query text as lowercase hex.
// This is the content address clients send in the persistedQuery extension.
func Sha256Hash(query string) string {
	digest := sha256.Sum256([]byte(query))
	return hex.EncodeToString(digest[:])
}

// Matches reports whether claimed is the sha256 hex of query.
func Matches(query, claimed string) bool {
	return Sha256Hash(query) == claimed
}
