// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package index owns the per-watcher on-disk inverted index (spec §4.5):
// opening/creating writers on demand, the field contracts for IndexedEvent,
// and upsert-by-md5Id semantics. Built on bleve/v2, the one library in the
// retrieved corpus purpose-built for a Lucene-style stored/indexed/
// tokenized document store with wildcard and range queries.
package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/wingedpig/logharvester/internal/model"
)

const (
	fieldMd5ID            = "md5Id"
	fieldLogStrTimestamp  = "logStrTimestamp"
	fieldLogLongTimestamp = "logLongTimestamp"
	fieldLogPath          = "logPath"
	fieldContent          = "content"

	caseInsensitiveAnalyzer = "logtext"
	pathAnalyzer            = "logpath"
)

// Store owns the process-wide map of per-watcher bleve indexes. Writers are
// created lazily on first use and closed by the ingestion pipeline at the
// end of a run and by application shutdown (spec §4.5, §9).
type Store struct {
	rootDir string

	mu      sync.Mutex
	writers map[string]bleve.Index
}

// New creates a Store rooted at rootDir (spec's configurable `indexDir`,
// default "lucene-indexes").
func New(rootDir string) *Store {
	return &Store{rootDir: rootDir, writers: make(map[string]bleve.Index)}
}

// WatcherDir returns the on-disk path for a watcher's index.
func (s *Store) WatcherDir(watcherName string) string {
	return filepath.Join(s.rootDir, watcherName)
}

// Writer returns the (lazily opened or created) index writer for a
// watcher, compare-and-set so concurrent first uses never race to create
// two handles for the same directory.
func (s *Store) Writer(watcherName string) (bleve.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.writers[watcherName]; ok {
		return idx, nil
	}

	dir := s.WatcherDir(watcherName)
	idx, err := openOrCreate(dir)
	if err != nil {
		return nil, &IndexError{WatcherName: watcherName, Op: "open", Err: err}
	}
	s.writers[watcherName] = idx
	return idx, nil
}

// Exists reports whether watcherName already has an open writer or an
// on-disk index, without opening or creating one. Used by search to short-
// circuit to an empty result for a watcher that was never ingested,
// rather than creating a stray empty index directory (spec §4.6 step 1).
func (s *Store) Exists(watcherName string) bool {
	s.mu.Lock()
	if _, ok := s.writers[watcherName]; ok {
		s.mu.Unlock()
		return true
	}
	s.mu.Unlock()

	_, err := os.Stat(s.WatcherDir(watcherName))
	return err == nil
}

func openOrCreate(dir string) (bleve.Index, error) {
	idx, err := bleve.Open(dir)
	if err == nil {
		return idx, nil
	}
	if err != bleve.ErrorIndexPathDoesNotExist {
		// A crashed prior process can leave the store directory present
		// but unreadable (e.g. a torn write); removing it and rebuilding
		// is safe because reingestion is idempotent via md5Id.
		_ = os.RemoveAll(dir)
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return nil, fmt.Errorf("creating index root: %w", err)
	}
	return bleve.New(dir, buildMapping())
}

// Close closes every opened writer. Called by ingestRecords() at the end of
// a run (spec §4.4 step 4).
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, idx := range s.writers {
		idx.Close()
		delete(s.writers, name)
	}
}

// CloseWatcher closes and forgets a single watcher's writer, if open.
func (s *Store) CloseWatcher(watcherName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.writers[watcherName]; ok {
		idx.Close()
		delete(s.writers, watcherName)
	}
}

// buildMapping declares the IndexedEvent field contract from spec §4.5: a
// standard tokenizer with an empty stop-word set, so every log token
// (including short words like "the" and numeric strings) stays queryable.
func buildMapping() *mapping.IndexMappingImpl {
	m := bleve.NewIndexMapping()

	// Unicode tokenizer + lowercase filter, no stop-word filter: this is
	// what makes content/logPath case-insensitive (spec §4.5/§4.6) without
	// dropping common tokens like "the" or bare numbers.
	_ = m.AddCustomAnalyzer(caseInsensitiveAnalyzer, map[string]interface{}{
		"type":          "custom",
		"tokenizer":     "unicode",
		"token_filters": []string{"to_lower"},
	})

	// Single tokenizer + lowercase filter: the whole path is indexed as one
	// lowercased term, so an exact TermQuery on the lowercased path matches
	// and a "*sub*" WildcardQuery still matches as a substring of that one
	// term. Unlike caseInsensitiveAnalyzer, this never splits on "/" or ".".
	_ = m.AddCustomAnalyzer(pathAnalyzer, map[string]interface{}{
		"type":          "custom",
		"tokenizer":     "single",
		"token_filters": []string{"to_lower"},
	})

	docMapping := bleve.NewDocumentMapping()

	keyword := bleve.NewTextFieldMapping()
	keyword.Analyzer = "keyword"
	keyword.Store = true
	keyword.Index = true
	docMapping.AddFieldMappingsAt(fieldMd5ID, keyword)

	timestampField := bleve.NewTextFieldMapping()
	timestampField.Analyzer = "keyword"
	timestampField.Store = true
	timestampField.Index = true
	docMapping.AddFieldMappingsAt(fieldLogStrTimestamp, timestampField)

	longTimestamp := bleve.NewNumericFieldMapping()
	longTimestamp.Store = true
	longTimestamp.Index = true
	docMapping.AddFieldMappingsAt(fieldLogLongTimestamp, longTimestamp)

	pathField := bleve.NewTextFieldMapping()
	pathField.Analyzer = pathAnalyzer
	pathField.Store = true
	pathField.Index = true
	docMapping.AddFieldMappingsAt(fieldLogPath, pathField)

	contentField := bleve.NewTextFieldMapping()
	contentField.Analyzer = caseInsensitiveAnalyzer
	contentField.Store = true
	contentField.Index = true
	docMapping.AddFieldMappingsAt(fieldContent, contentField)

	m.DefaultMapping = docMapping
	m.DefaultAnalyzer = caseInsensitiveAnalyzer
	return m
}

