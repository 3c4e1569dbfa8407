/*
 * SPDX-FileCopyrightText: © Hypergraph Authors <hello@hypergraph.io>
 * SPDX-License-Identifier: Apache-2.0
 */

package api

import (
	"runtime/debug"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// PanicHandler catches panics to make sure that we recover from panics while
// serving a request and return an appropriate error.
//
// If PanicHandler recovers from a panic, it logs a stack trace, creates an
// error and applies fn to the error.
func PanicHandler(fn func(error), query string) {
	if err := recover(); err != nil {
		// Log the panic along with the query that caused it.
		glog.Errorf("panic: %s.\n query: %s\n trace: %s", err, query, string(debug.Stack()))

		fn(errors.Errorf("Internal Server Error - a panic was trapped.  " +
			"This indicates a bug in the server.  A stack trace was logged.  " +
			"Please let us know by filing an issue with the stack trace."))
	}
}
