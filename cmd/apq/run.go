/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

// Command apq is a persisted-query front end for GraphQL servers.  It
// resolves incoming requests through a persisted-query store - automatic
// Apollo-style caching, or a prepared allow-list - and proxies the resolved
// operation to an upstream GraphQL endpoint.
package main

import (
	goflag "flag"
	"fmt"
	"net/http"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.opencensus.io/trace"

	"github.com/hypergraph-io/apq/graphql/persist"
	"github.com/hypergraph-io/apq/graphql/web"
	"github.com/hypergraph-io/apq/x"
)

var Apq x.SubCommand

func init() {
	Apq.Cmd = &cobra.Command{
		Use:   "apq",
		Short: "Persisted-query front end for GraphQL servers",
		Run: func(cmd *cobra.Command, args []string) {
			if err := run(); err != nil {
				if glog.V(2) {
					fmt.Printf("Error : %+v\n", err)
				} else {
					fmt.Printf("Error : %s\n", err)
				}
				os.Exit(1)
			}
		},
	}
	Apq.EnvPrefix = "APQ"

	flags := Apq.Cmd.Flags()
	flags.IntP("port", "p", 9000, "Port on which to run the HTTP service")
	flags.Bool("bindall", true,
		"Use 0.0.0.0 instead of localhost to bind to all addresses on local machine.")
	flags.StringP("upstream", "u", "http://127.0.0.1:8080/graphql",
		"GraphQL endpoint that executes resolved operations")
	flags.StringP("mode", "m", "automatic",
		"Persisted query mode: disabled, automatic, prepared or preparedonly")
	flags.String("persisted-queries", "",
		"Apollo persisted query manifest used to seed the store (prepared modes)")
	flags.Bool("validate-queries", false,
		"Check at startup that every seeded operation parses as GraphQL")
	flags.String("store", "memory",
		"Store backing automatic mode: memory, ristretto or badger")
	flags.Int64("cache-size-mb", 64,
		"Upper bound on stored query text for the ristretto store")
	flags.String("badger-dir", "",
		"Directory for the badger store")
	flags.Bool("disable-save", false,
		"Serve hash-only lookups but never persist newly seen queries")

	// Removed along with the inline-map design; rejected at startup by
	// SettingsFromConfig with a migration message.
	flags.String("persisted-query-map", "",
		"Removed. Use --persisted-queries and --mode instead.")

	// OpenCensus flags.
	flags.Float64("trace", 1.0, "The ratio of requests to trace.")

	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	Apq.Conf = viper.New()
	x.Check(Apq.Conf.BindPFlags(flags))
	Apq.Conf.AutomaticEnv()
	Apq.Conf.SetEnvPrefix(Apq.EnvPrefix)
}

func run() error {
	settings, err := persist.SettingsFromConfig(Apq.Conf)
	if err != nil {
		return err
	}

	engine := persist.NewEngine(settings)
	executor := web.NewProxyExecutor(
		Apq.GetStringP("upstream", "u", "http://127.0.0.1:8080/graphql"))
	server := web.NewServer(engine, executor)

	http.Handle("/graphql", server.HTTPHandler())

	trace.ApplyConfig(trace.Config{
		DefaultSampler:             trace.ProbabilitySampler(Apq.Conf.GetFloat64("trace")),
		MaxAnnotationEventsPerSpan: 256,
	})

	bind := "localhost"
	if Apq.Conf.GetBool("bindall") {
		bind = "0.0.0.0"
	}
	addr := fmt.Sprintf("%s:%d", bind, Apq.GetIntP("port", "p", 9000))

	glog.Infof("Persisted query mode: %s", settings.Mode)
	glog.Infof("Bringing up GraphQL HTTP API at %s/graphql", addr)
	return errors.Wrap(http.ListenAndServe(addr, nil), "GraphQL server failed")
}
