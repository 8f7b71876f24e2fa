// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package index

import "fmt"

// IndexError wraps a failure opening, writing to, or querying a watcher's
// bleve index (spec §7).
type IndexError struct {
	WatcherName string
	Op          string
	Err         error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %s: %s: %v", e.WatcherName, e.Op, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }
