// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"compress/bzip2"
	"compress/gzip"
	"io"
	"strings"
)

// wrapDecompressor wraps r with a decompressing reader based on path's
// suffix. Spec §4.4 requires transparent `.gz` decompression; the teacher's
// DecompressCommand suffix table (internal/logs/source.go) recognizes a
// wider set, which costs nothing extra to carry here since Go's standard
// library and golang.org/x/ already cover gzip and bzip2 natively.
func wrapDecompressor(path string, r io.Reader) (io.Reader, error) {
	switch {
	case hasAnySuffix(path, ".gz", ".gzip"):
		return gzip.NewReader(r)
	case hasAnySuffix(path, ".bz2", ".bzip2"):
		return bzip2.NewReader(r), nil
	default:
		return r, nil
	}
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
