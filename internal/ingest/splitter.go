// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package ingest implements the per-watcher ingestion pipeline: streaming a
// remote file, splitting it into timestamped events with multi-line
// continuation grouping, parsing timestamps, and upserting documents into
// the per-watcher index (spec §4.4).
package ingest

import (
	"bufio"
	"io"
	"regexp"
)

// timestampPrefix matches a line that opens a new log event:
// YYYY-MM-DD HH:MM:SS.mmm (with '-' or '/' date separators).
var timestampPrefix = regexp.MustCompile(`^\d{4}[-/]\d{2}[-/]\d{2}\s\d{2}:\d{2}:\d{2}\.\d{3}.*`)

// RawEvent is one timestamp-grouped log event before timestamp parsing.
type RawEvent struct {
	Timestamp string // first 23 characters of the opening line, or "" if the file began mid-event
	Content   string
}

// Split reads lines from r and groups them into RawEvents using the
// multi-line grouping algorithm of spec §4.4: a line matching
// timestampPrefix starts a new event; any other line is a continuation of
// the current event (or, if none is open yet, the start of a standalone
// event with no timestamp).
func Split(r io.Reader) ([]RawEvent, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var events []RawEvent
	var currentEvent, currentTimestamp string

	flush := func() {
		if currentEvent != "" {
			events = append(events, RawEvent{Timestamp: currentTimestamp, Content: currentEvent})
		}
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case timestampPrefix.MatchString(line):
			flush()
			currentEvent = line
			currentTimestamp = firstN(line, 23)
		case currentEvent != "":
			currentEvent += "\n" + line
		default:
			// File started with a non-timestamp line: standalone event
			// with an empty timestamp.
			currentEvent = line
			currentTimestamp = ""
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return events, err
	}
	return events, nil
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
