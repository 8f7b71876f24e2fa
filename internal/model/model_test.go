// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherGlobPattern(t *testing.T) {
	cases := []struct {
		name     string
		w        Watcher
		expected string
	}{
		{"all set", Watcher{FilePrefix: "app-", FileContains: "log", FilePostfix: ".txt"}, "app-*log*.txt"},
		{"empty contains", Watcher{FilePrefix: "app-", FilePostfix: ".txt"}, "app-***.txt"},
		{"all empty", Watcher{}, "*****"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.w.GlobPattern())
		})
	}
}

func TestFileHashDeterministic(t *testing.T) {
	ct := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h1 := FileHash("w1", "app-log1.txt", 20, ct)
	h2 := FileHash("w1", "app-log1.txt", 20, ct)
	require.Equal(t, h1, h2)

	h3 := FileHash("w1", "app-log1.txt", 25, ct)
	require.NotEqual(t, h1, h3)

	h4 := FileHash("w1", "app-log2.txt", 20, ct)
	require.NotEqual(t, h1, h4)
}

func TestEventIDIdempotent(t *testing.T) {
	id1 := EventID("host1", "cfg1", "app.log", "some content", "2026-01-01 00:00:00.000")
	id2 := EventID("host1", "cfg1", "app.log", "some content", "2026-01-01 00:00:00.000")
	require.Equal(t, id1, id2)

	id3 := EventID("host1", "cfg1", "app.log", "other content", "2026-01-01 00:00:00.000")
	require.NotEqual(t, id1, id3)
}

func TestEntityPrimaryKeys(t *testing.T) {
	sc := SshConfig{Name: "s1"}
	col, val := sc.PrimaryKey()
	assert.Equal(t, "name", col)
	assert.Equal(t, "s1", val)

	w := Watcher{Name: "w1"}
	col, val = w.PrimaryKey()
	assert.Equal(t, "name", col)
	assert.Equal(t, "w1", val)

	r := DiscoveryRecord{ID: 7}
	col, val = r.PrimaryKey()
	assert.Equal(t, "id", col)
	assert.Equal(t, int64(7), val)
}
