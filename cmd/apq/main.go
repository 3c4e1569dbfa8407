/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/hypergraph-io/apq/x"
)

func main() {
	// glog complains about logging before flag.Parse; the real flags (glog's
	// included) are parsed by cobra via the pflag bridge set up in init.
	x.Checkf(goflag.CommandLine.Parse(nil), "while parsing glog flags")

	if err := Apq.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
