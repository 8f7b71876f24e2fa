// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseError indicates a log line's timestamp prefix could not be parsed
// under the watcher's timezone. The event carrying it is skipped (spec §7).
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing timestamp %q: %v", e.Raw, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseTimestamp splits the 23-character prefix on any of \t, space, '.',
// ':', '-', '/' into [Y, M, D, h, m, s, ms] components and interprets them
// in the named IANA zone, returning the absolute instant in epoch
// milliseconds (spec §4.4).
func ParseTimestamp(prefix, javaTimeZoneID string) (int64, error) {
	fields := strings.FieldsFunc(prefix, func(r rune) bool {
		switch r {
		case '\t', ' ', '.', ':', '-', '/':
			return true
		}
		return false
	})
	if len(fields) != 7 {
		return 0, &ParseError{Raw: prefix, Err: fmt.Errorf("expected 7 components, got %d", len(fields))}
	}

	ints := make([]int, 7)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return 0, &ParseError{Raw: prefix, Err: fmt.Errorf("component %d (%q) not numeric: %w", i, f, err)}
		}
		ints[i] = v
	}

	loc, err := time.LoadLocation(javaTimeZoneID)
	if err != nil {
		return 0, &ParseError{Raw: prefix, Err: fmt.Errorf("loading zone %s: %w", javaTimeZoneID, err)}
	}

	year, month, day, hour, minute, second, ms := ints[0], ints[1], ints[2], ints[3], ints[4], ints[5], ints[6]
	t := time.Date(year, time.Month(month), day, hour, minute, second, ms*int(time.Millisecond), loc)
	return t.UnixMilli(), nil
}
