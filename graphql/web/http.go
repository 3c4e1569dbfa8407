/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package web

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.opencensus.io/trace"

	"github.com/hypergraph-io/apq/graphql/api"
	"github.com/hypergraph-io/apq/graphql/persist"
	"github.com/hypergraph-io/apq/graphql/schema"
)

// A QueryExecutor runs a GraphQL request whose query text has already been
// resolved, producing a GraphQL response.  Parsing, validation and execution
// all live behind this boundary.
type QueryExecutor interface {
	Execute(ctx context.Context, req *schema.Request) *schema.Response
}

// An IServeGraphQL can serve a persisted-query GraphQL endpoint over http.
type IServeGraphQL interface {

	// After ServeGQL is called, this IServeGraphQL serves the new executor.
	ServeGQL(executor QueryExecutor)

	// HTTPHandler returns a http.Handler that serves GraphQL.
	HTTPHandler() http.Handler

	// Resolve processes a GQL Request through the persisted-query engine and
	// the executor, and returns a GQL Response.
	Resolve(ctx context.Context, gqlReq *schema.Request) *schema.Response
}

type graphqlHandler struct {
	engine   *persist.Engine
	executor QueryExecutor
	handler  http.Handler
}

// NewServer returns a new IServeGraphQL that resolves persisted queries with
// engine and hands the resolved text to executor.
func NewServer(engine *persist.Engine, executor QueryExecutor) IServeGraphQL {
	gh := &graphqlHandler{engine: engine, executor: executor}
	gh.handler = recoveryHandler(commonHeaders(gh))
	return gh
}

func (gh *graphqlHandler) HTTPHandler() http.Handler {
	return gh.handler
}

func (gh *graphqlHandler) ServeGQL(executor QueryExecutor) {
	gh.executor = executor
}

func (gh *graphqlHandler) Resolve(ctx context.Context, gqlReq *schema.Request) *schema.Response {
	resolved, err := gh.engine.Resolve(ctx, gqlReq)
	if err != nil {
		return schema.ErrorResponse(err)
	}
	return gh.executor.Execute(ctx, gqlReq.WithQuery(resolved.Query))
}

// write chooses between the http response writer and gzip writer
// and sends the response using that.
func write(w http.ResponseWriter, rr *schema.Response, acceptGzip bool) {
	var out io.Writer = w

	// If the receiver accepts gzip, then we would update the writer
	// and send gzipped content instead.
	if acceptGzip {
		w.Header().Set("Content-Encoding", "gzip")
		gzw := gzip.NewWriter(w)
		defer gzw.Close()
		out = gzw
	}

	if _, err := rr.WriteTo(out); err != nil {
		glog.Error(err)
	}
}

// ServeHTTP handles GraphQL queries and mutations, resolving any persisted
// query reference before execution.  Protocol failures become a valid
// GraphQL JSON error response with a 200 status; policy rejections from
// PreparedOnly mode become a 400 with no GraphQL body; store failures become
// a 500.
func (gh *graphqlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := trace.StartSpan(r.Context(), "handler")
	defer span.End()

	if !gh.isValid() {
		panic("graphqlHandler not initialised")
	}

	acceptGzip := strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
	requestID := uuid.New().String()

	gqlReq, err := getRequest(r)
	if err != nil {
		write(w, schema.ErrorResponse(err), acceptGzip)
		return
	}

	resolved, err := gh.engine.Resolve(ctx, gqlReq)

	// The request id is a logging concern only: protocol error bodies must
	// stay exactly the shape conforming clients match on.
	var unknown *persist.UnknownPersistedQueryError
	var storeErr *persist.StoreError
	var res *schema.Response
	switch {
	case errors.As(err, &unknown):
		glog.V(2).Infof("request %s rejected: %v", requestID, unknown)
		http.Error(w, unknown.Error(), http.StatusBadRequest)
		return
	case errors.As(err, &storeErr):
		glog.Errorf("request %s: %v", requestID, storeErr)
		w.WriteHeader(http.StatusInternalServerError)
		res = schema.ErrorResponsef("Internal error resolving persisted query")
	case err != nil:
		glog.V(2).Infof("request %s: %v", requestID, err)
		res = schema.ErrorResponse(err)
	default:
		res = gh.executor.Execute(ctx, gqlReq.WithQuery(resolved.Query))
	}

	write(w, res, acceptGzip)
}

func (gh *graphqlHandler) isValid() bool {
	return !(gh == nil || gh.engine == nil || gh.executor == nil)
}

type gzreadCloser struct {
	*gzip.Reader
	io.Closer
}

func (gz gzreadCloser) Close() error {
	if err := gz.Reader.Close(); err != nil {
		return err
	}
	return gz.Closer.Close()
}

func getRequest(r *http.Request) (*schema.Request, error) {
	gqlReq := &schema.Request{}

	if r.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			return nil, errors.Wrap(err, "Unable to parse gzip")
		}
		r.Body = gzreadCloser{zr, r.Body}
	}

	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query()
		gqlReq.Query = query.Get("query")
		gqlReq.OperationName = query.Get("operationName")
		gqlReq.Persisted = cast.ToBool(query.Get("persisted"))

		if variables, ok := query["variables"]; ok {
			d := json.NewDecoder(strings.NewReader(variables[0]))
			d.UseNumber()

			if err := d.Decode(&gqlReq.Variables); err != nil {
				return nil, errors.Wrap(err, "Not a valid GraphQL request body")
			}
		}
		if extensions, ok := query["extensions"]; ok {
			if err := json.Unmarshal([]byte(extensions[0]), &gqlReq.Extensions); err != nil {
				return nil, errors.Wrap(err, "Not a valid GraphQL request body")
			}
		}
	case http.MethodPost:
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil {
			return nil, errors.Wrap(err, "unable to parse media type")
		}

		switch mediaType {
		case "application/json":
			d := json.NewDecoder(r.Body)
			d.UseNumber()
			if err = d.Decode(&gqlReq); err != nil {
				return nil, errors.Wrap(err, "Not a valid GraphQL request body")
			}
		default:
			// https://graphql.org/learn/serving-over-http/#post-request says:
			// "A standard GraphQL POST request should use the application/json
			// content type ..."
			return nil, errors.New(
				"Unrecognised Content-Type.  Please use application/json for GraphQL requests")
		}
	default:
		return nil,
			errors.New("Unrecognised request method.  Please use GET or POST for GraphQL requests")
	}

	gqlReq.Header = r.Header
	return gqlReq, nil
}

func commonHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		next.ServeHTTP(w, r)
	})
}

func recoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer api.PanicHandler(
			func(err error) {
				rr := schema.ErrorResponse(err)
				write(w, rr, strings.Contains(r.Header.Get("Accept-Encoding"), "gzip"))
			}, r.URL.RawQuery)

		next.ServeHTTP(w, r)
	})
}
