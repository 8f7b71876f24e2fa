// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package index

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"

	"github.com/wingedpig/logharvester/internal/model"
)

// indexedDoc is the bleve document shape for an IndexedEvent.
type indexedDoc struct {
	Md5Id            string `json:"md5Id"`
	LogStrTimestamp  string `json:"logStrTimestamp"`
	LogLongTimestamp int64  `json:"logLongTimestamp"`
	LogPath          string `json:"logPath"`
	Content          string `json:"content"`
}

// RecordBatch accumulates the events produced while ingesting a single
// DiscoveryRecord. Spec §4.4 requires a commit per record (not per event),
// so a worker builds one RecordBatch per file and commits it once at the
// end.
type RecordBatch struct {
	idx   bleve.Index
	batch *bleve.Batch
	count int
}

// NewBatch starts a batch against the given writer.
func NewBatch(idx bleve.Index) *RecordBatch {
	return &RecordBatch{idx: idx, batch: idx.NewBatch()}
}

// Upsert stages an event for indexing. Using the event's md5Id as the
// bleve document ID means re-indexing the same id in a later run replaces
// the prior document in place — this is the "upsertByTerm" semantics spec
// §4.5 asks for, realized without an explicit delete-then-insert step.
func (b *RecordBatch) Upsert(ev model.IndexedEvent) error {
	doc := indexedDoc{
		Md5Id:            ev.Md5Id,
		LogStrTimestamp:  ev.LogStrTimestamp,
		LogLongTimestamp: ev.LogLongTimestamp,
		LogPath:          ev.LogPath,
		Content:          ev.Content,
	}
	if err := b.batch.Index(ev.Md5Id, doc); err != nil {
		return fmt.Errorf("staging %s: %w", ev.Md5Id, err)
	}
	b.count++
	return nil
}

// Count returns the number of events staged so far.
func (b *RecordBatch) Count() int { return b.count }

// Commit executes the staged batch atomically against the index.
func (b *RecordBatch) Commit() error {
	if b.count == 0 {
		return nil
	}
	if err := b.idx.Batch(b.batch); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}
