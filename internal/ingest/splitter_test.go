// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSingleLineEvents(t *testing.T) {
	input := "2026-01-01 00:00:00.000 [main] INFO first\n2026-01-01 00:00:01.000 [main] INFO second\n"
	events, err := Split(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "2026-01-01 00:00:00.000", events[0].Timestamp)
	assert.Equal(t, "2026-01-01 00:00:00.000 [main] INFO first", events[0].Content)
}

func TestSplitMultiLineGrouping(t *testing.T) {
	input := "2026-01-01 00:00:00.000 L1\ncont1\n2026-01-01 00:00:01.000 L2\n"
	events, err := Split(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, events, 2, "exactly two events for a ts1/L1/cont1/ts2/L2 file")
	assert.Contains(t, events[0].Content, "L1")
	assert.Contains(t, events[0].Content, "cont1")
}

func TestSplitScenarioC(t *testing.T) {
	input := strings.Join([]string{
		"2025-07-30 12:49:20.168 [main] WARN starting",
		"2025-07-30 12:49:20.543 [main] DEBUG report:",
		"============================",
		"CONDITIONS EVALUATION REPORT",
		"============================",
		"2025-07-30 12:49:20.557 [sched] INFO done",
		"",
	}, "\n")

	events, err := Split(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Contains(t, events[1].Content, "CONDITIONS EVALUATION REPORT")
	assert.Contains(t, events[1].Content, "============================")
	assert.Equal(t, "2025-07-30 12:49:20.543", events[1].Timestamp)
}

func TestSplitLeadingNonTimestampLine(t *testing.T) {
	input := "garbage startup banner\n2026-01-01 00:00:00.000 first real event\n"
	events, err := Split(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "", events[0].Timestamp)
	assert.Equal(t, "garbage startup banner", events[0].Content)
}

func TestSplitEmptyInput(t *testing.T) {
	events, err := Split(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSplitSlashDateSeparator(t *testing.T) {
	input := "2026/01/01 00:00:00.000 slash-separated date\n"
	events, err := Split(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, events, 1)
}
