// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wingedpig/logharvester/internal/index"
	"github.com/wingedpig/logharvester/internal/model"
)

func seedWatcher(t *testing.T, idx *index.Store, watcher string, events []model.IndexedEvent) {
	t.Helper()
	w, err := idx.Writer(watcher)
	require.NoError(t, err)
	b := index.NewBatch(w)
	for _, ev := range events {
		require.NoError(t, b.Upsert(ev))
	}
	require.NoError(t, b.Commit())
}

func TestSearchMissingWatcherReturnsEmpty(t *testing.T) {
	idx := index.New(t.TempDir())
	defer idx.Close()
	s := New(idx)

	total, results, err := s.Search(Request{WatcherName: "ghost", ContentQ: "anything", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, results)
}

func TestSearchNoClausesReturnsEmpty(t *testing.T) {
	idx := index.New(t.TempDir())
	defer idx.Close()
	seedWatcher(t, idx, "app", []model.IndexedEvent{{Md5Id: "a", Content: "hello", LogPath: "/x"}})

	s := New(idx)
	total, results, err := s.Search(Request{WatcherName: "app", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, results)
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	idx := index.New(t.TempDir())
	defer idx.Close()
	seedWatcher(t, idx, "app", []model.IndexedEvent{
		{Md5Id: "a", Content: "Connection RESET by peer", LogPath: "/var/log/app.log", LogStrTimestamp: "2026-01-01 00:00:00.000"},
		{Md5Id: "b", Content: "all quiet", LogPath: "/var/log/app.log", LogStrTimestamp: "2026-01-01 00:00:01.000"},
	})

	s := New(idx)
	total, results, err := s.Search(Request{WatcherName: "app", ContentQ: "reset", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, results, 1)
	require.Contains(t, results[0].Content, "RESET")
}

func TestSearchOperatorOrWidensMatch(t *testing.T) {
	idx := index.New(t.TempDir())
	defer idx.Close()
	seedWatcher(t, idx, "app", []model.IndexedEvent{
		{Md5Id: "a", Content: "alpha event", LogPath: "/var/log/a.log"},
		{Md5Id: "b", Content: "beta event", LogPath: "/var/log/b.log"},
		{Md5Id: "c", Content: "gamma event", LogPath: "/var/log/c.log"},
	})

	s := New(idx)
	total, _, err := s.Search(Request{
		WatcherName: "app",
		ContentQ:    "alpha",
		LogPathQ:    "b.log",
		Operator:    OperatorOr,
		Page:        1,
		PageSize:    10,
	})
	require.NoError(t, err)
	require.Equal(t, 2, total, "OR should match either the content or the path clause")
}

func TestSearchOperatorAndNarrowsMatch(t *testing.T) {
	idx := index.New(t.TempDir())
	defer idx.Close()
	seedWatcher(t, idx, "app", []model.IndexedEvent{
		{Md5Id: "a", Content: "alpha event", LogPath: "/var/log/a.log"},
		{Md5Id: "b", Content: "alpha event", LogPath: "/var/log/b.log"},
	})

	s := New(idx)
	total, results, err := s.Search(Request{
		WatcherName: "app",
		ContentQ:    "alpha",
		LogPathQ:    "b.log",
		Operator:    OperatorAnd,
		Page:        1,
		PageSize:    10,
	})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Contains(t, results[0].FilePath, "b.log")
}

func TestSearchFilePathIsExactFilterRegardlessOfOperator(t *testing.T) {
	idx := index.New(t.TempDir())
	defer idx.Close()
	seedWatcher(t, idx, "app", []model.IndexedEvent{
		{Md5Id: "a", Content: "alpha event", LogPath: "/var/log/a.log"},
		{Md5Id: "b", Content: "alpha event", LogPath: "/var/log/b.log"},
	})

	s := New(idx)
	total, _, err := s.Search(Request{
		WatcherName: "app",
		ContentQ:    "alpha",
		FilePath:    "/var/log/a.log",
		Operator:    OperatorOr,
		Page:        1,
		PageSize:    10,
	})
	require.NoError(t, err)
	require.Equal(t, 1, total, "filePath must filter as MUST even under an OR operator")
}

func TestSearchTimestampRangeFilter(t *testing.T) {
	idx := index.New(t.TempDir())
	defer idx.Close()
	seedWatcher(t, idx, "app", []model.IndexedEvent{
		{Md5Id: "a", Content: "early", LogPath: "/x", LogLongTimestamp: 1000},
		{Md5Id: "b", Content: "late", LogPath: "/x", LogLongTimestamp: 9000000},
	})

	s := New(idx)
	total, results, err := s.Search(Request{
		WatcherName: "app",
		LogPathQ:    "x",
		StartDate:   "1970-01-01 00:00:00",
		EndDate:     "1970-01-01 00:00:05",
		TimeZone:    "UTC",
		Page:        1,
		PageSize:    10,
	})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Contains(t, results[0].Content, "early")
}

func TestSearchPaginationTotality(t *testing.T) {
	idx := index.New(t.TempDir())
	defer idx.Close()
	events := make([]model.IndexedEvent, 0, 5)
	for i := 0; i < 5; i++ {
		events = append(events, model.IndexedEvent{
			Md5Id:   string(rune('a' + i)),
			Content: "paged event",
			LogPath: "/var/log/app.log",
		})
	}
	seedWatcher(t, idx, "app", events)

	s := New(idx)
	seen := map[string]bool{}
	for page := 1; page <= 5; page++ {
		total, results, err := s.Search(Request{WatcherName: "app", ContentQ: "paged", Page: page, PageSize: 1})
		require.NoError(t, err)
		require.Equal(t, 5, total)
		require.Len(t, results, 1)
		seen[results[0].Content+results[0].Timestamp+string(rune(page))] = true
	}

	total, results, err := s.Search(Request{WatcherName: "app", ContentQ: "paged", Page: 6, PageSize: 1})
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Empty(t, results, "requesting past the last page must return no results but the same total")
}
