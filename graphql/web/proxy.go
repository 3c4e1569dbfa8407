/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/hypergraph-io/apq/graphql/schema"
	"github.com/hypergraph-io/apq/x"
)

// proxyExecutor forwards resolved requests to an upstream GraphQL endpoint.
// Only the resolved query text, operation name and variables travel upstream;
// persisted-query extensions were consumed by the engine and the upstream
// never sees them.
type proxyExecutor struct {
	upstream string
	client   *http.Client
}

// NewProxyExecutor returns a QueryExecutor that executes against the GraphQL
// server at upstream.
func NewProxyExecutor(upstream string) QueryExecutor {
	return &proxyExecutor{
		upstream: upstream,
		client:   &http.Client{Timeout: time.Minute},
	}
}

func (p *proxyExecutor) Execute(ctx context.Context, req *schema.Request) *schema.Response {
	body, err := json.Marshal(struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName,omitempty"`
		Variables     map[string]interface{} `json:"variables,omitempty"`
	}{
		Query:         req.Query,
		OperationName: req.OperationName,
		Variables:     req.Variables,
	})
	if err != nil {
		return schema.ErrorResponse(schema.GQLWrapf(err, "couldn't marshal request for upstream"))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.upstream, bytes.NewReader(body))
	if err != nil {
		return schema.ErrorResponse(schema.GQLWrapf(err, "couldn't build upstream request"))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpRes, err := p.client.Do(httpReq)
	if err != nil {
		return schema.ErrorResponse(schema.GQLWrapf(err, "couldn't reach upstream GraphQL server"))
	}
	defer httpRes.Body.Close()

	resBody, err := io.ReadAll(httpRes.Body)
	if err != nil {
		return schema.ErrorResponse(schema.GQLWrapf(err, "couldn't read upstream response"))
	}

	var upstream struct {
		Data   json.RawMessage `json:"data"`
		Errors x.GqlErrorList  `json:"errors"`
	}
	if err := json.Unmarshal(resBody, &upstream); err != nil {
		return schema.ErrorResponse(schema.GQLWrapf(
			errors.Errorf("status %d: %v", httpRes.StatusCode, err),
			"upstream returned an invalid GraphQL response"))
	}

	res := &schema.Response{Errors: upstream.Errors}
	if len(upstream.Data) > 0 && string(upstream.Data) != "null" {
		res.SetDataRaw(upstream.Data)
	}
	return res
}
