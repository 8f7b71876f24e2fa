// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"

	"github.com/wingedpig/logharvester/internal/index"
	"github.com/wingedpig/logharvester/internal/model"
	"github.com/wingedpig/logharvester/internal/store"
)

// ingestOneFile streams, splits, and indexes a single DiscoveryRecord,
// committing one batch for the whole file (spec §4.4's "commit after
// each record, not each event"). Events whose timestamp fails to parse are
// skipped; the record fails only when no event's timestamp parsed.
func (p *Pipeline) ingestOneFile(ctx context.Context, writer bleve.Index, watcher model.Watcher, cfg model.SshConfig, rec model.DiscoveryRecord) (int, error) {
	session, err := p.transport.OpenSession(cfg)
	if err != nil {
		return 0, err
	}
	defer session.Close()

	stream, err := p.transport.OpenFileStream(session, rec.FullFilePath)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	reader, err := wrapDecompressor(rec.FullFilePath, stream)
	if err != nil {
		return 0, fmt.Errorf("decompressing %s: %w", rec.FullFilePath, err)
	}

	events, err := Split(reader)
	if err != nil {
		return 0, err
	}

	batch := index.NewBatch(writer)
	var parseErr error
	parsed := 0
	for _, raw := range events {
		longTimestamp, err := ParseTimestamp(raw.Timestamp, watcher.JavaTimeZoneId)
		if err != nil {
			// A standalone (no-leading-timestamp) event legitimately has
			// no timestamp to parse; index it with a zero long timestamp
			// rather than failing the whole record. Any other event whose
			// timestamp fails to parse is skipped.
			if raw.Timestamp != "" {
				parseErr = err
				continue
			}
			longTimestamp = 0
		} else {
			parsed++
		}

		ev := model.IndexedEvent{
			Md5Id:            model.EventID(cfg.ServerHost, watcher.SshConfigName, rec.FileName, raw.Content, raw.Timestamp),
			LogStrTimestamp:  raw.Timestamp,
			LogLongTimestamp: longTimestamp,
			LogPath:          rec.FullFilePath,
			Content:          raw.Content,
		}
		if err := batch.Upsert(ev); err != nil {
			return batch.Count(), err
		}
	}

	if parseErr != nil && parsed == 0 {
		return 0, parseErr
	}

	if err := batch.Commit(); err != nil {
		return batch.Count(), err
	}
	return batch.Count(), nil
}

func (p *Pipeline) loadWatcher(ctx context.Context, name string) (model.Watcher, bool, error) {
	e, err := p.store.FindByPrimaryKey(ctx, store.KindWatcher, name)
	if err != nil {
		return model.Watcher{}, false, err
	}
	if e == nil {
		return model.Watcher{}, false, nil
	}
	return e.(model.Watcher), true, nil
}

func (p *Pipeline) loadSshConfig(ctx context.Context, name string) (model.SshConfig, bool, error) {
	e, err := p.store.FindByPrimaryKey(ctx, store.KindSshConfig, name)
	if err != nil {
		return model.SshConfig{}, false, err
	}
	if e == nil {
		return model.SshConfig{}, false, nil
	}
	return e.(model.SshConfig), true, nil
}

func (p *Pipeline) markIndexed(ctx context.Context, rec model.DiscoveryRecord, count int) {
	rec.ConsumptionStatus = model.StatusIndexed
	rec.NoOfIndexedDocuments = &count
	if err := p.store.Update(ctx, store.KindDiscoveryRecord, []model.Entity{rec}); err != nil {
		p.logger.Printf("ingest: updating record %d to INDEXED: %v", rec.ID, err)
	}
}

func (p *Pipeline) markError(ctx context.Context, rec model.DiscoveryRecord) {
	zero := 0
	rec.ConsumptionStatus = model.StatusError
	rec.NoOfIndexedDocuments = &zero
	if err := p.store.Update(ctx, store.KindDiscoveryRecord, []model.Entity{rec}); err != nil {
		p.logger.Printf("ingest: updating record %d to ERROR: %v", rec.ID, err)
	}
}

func (p *Pipeline) markAllError(ctx context.Context, records []model.DiscoveryRecord) {
	for _, rec := range records {
		p.markError(ctx, rec)
	}
}
