// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package ingest turns NEW DiscoveryRecords into indexed log events: it
// streams remote file bytes over SSH, splits them into timestamped
// events (grouping multi-line continuations), and upserts the result
// into the per-watcher index (spec §4.4).
package ingest

import (
	"context"
	"log"
	"runtime"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wingedpig/logharvester/internal/index"
	"github.com/wingedpig/logharvester/internal/model"
	"github.com/wingedpig/logharvester/internal/sshtransport"
	"github.com/wingedpig/logharvester/internal/store"
)

// Pipeline wires the metadata store, SSH transport, and index store
// together to run ingestRecords().
type Pipeline struct {
	store                store.Store
	transport            *sshtransport.Transport
	index                *index.Store
	logger               *log.Logger
	maxWorkerParallelism int
}

// New builds a Pipeline. A nil logger falls back to log.Default(),
// matching the teacher's convention of never requiring callers to wire a
// logger just to exercise the core logic. maxWorkerParallelism caps the
// per-watcher worker pool (spec §6); a value <= 0 means unbounded (capped
// only by NumCPU and the record count).
func New(st store.Store, transport *sshtransport.Transport, idx *index.Store, logger *log.Logger, maxWorkerParallelism int) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{store: st, transport: transport, index: idx, logger: logger, maxWorkerParallelism: maxWorkerParallelism}
}

// IngestRecords runs one full ingestion pass: load NEW records, group by
// watcher, process each group in isolation, then close every index
// writer opened during the run.
func (p *Pipeline) IngestRecords(ctx context.Context) error {
	defer p.index.Close()

	rows, err := p.store.FindByColumnValues(ctx, store.KindDiscoveryRecord, map[string]any{
		"consumptionStatus": string(model.StatusNew),
	})
	if err != nil {
		return err
	}

	groups := make(map[string][]model.DiscoveryRecord)
	for _, e := range rows {
		rec := e.(model.DiscoveryRecord)
		groups[rec.SshLogWatcherName] = append(groups[rec.SshLogWatcherName], rec)
	}

	// Plain goroutines joined by a WaitGroup, not errgroup.WithContext:
	// one watcher's failure must never cancel its siblings' in-flight
	// work (spec §4.4 step 2, §9 isolation property).
	var wg sync.WaitGroup
	for watcherName, records := range groups {
		wg.Add(1)
		go func(watcherName string, records []model.DiscoveryRecord) {
			defer wg.Done()
			if err := p.processWatcherGroup(ctx, watcherName, records); err != nil {
				p.logger.Printf("ingest: watcher %s: %v", watcherName, err)
			}
		}(watcherName, records)
	}
	wg.Wait()

	return nil
}

func (p *Pipeline) processWatcherGroup(ctx context.Context, watcherName string, records []model.DiscoveryRecord) error {
	watcher, ok, err := p.loadWatcher(ctx, watcherName)
	if err != nil {
		return err
	}
	if !ok {
		p.markAllError(ctx, records)
		return nil
	}

	cfg, ok, err := p.loadSshConfig(ctx, watcher.SshConfigName)
	if err != nil {
		return err
	}
	if !ok {
		p.markAllError(ctx, records)
		return nil
	}

	writer, err := p.index.Writer(watcherName)
	if err != nil {
		p.markAllError(ctx, records)
		return err
	}

	workers := runtime.NumCPU()
	if workers > len(records) {
		workers = len(records)
	}
	if p.maxWorkerParallelism > 0 && workers > p.maxWorkerParallelism {
		workers = p.maxWorkerParallelism
	}
	if workers < 1 {
		workers = 1
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)

	for _, rec := range records {
		rec := rec
		g.Go(func() error {
			p.processRecord(ctx, writer, watcher, cfg, rec)
			return nil
		})
	}
	return g.Wait()
}

func (p *Pipeline) processRecord(ctx context.Context, writer bleve.Index, watcher model.Watcher, cfg model.SshConfig, rec model.DiscoveryRecord) {
	count, err := p.ingestOneFile(ctx, writer, watcher, cfg, rec)
	if err != nil {
		p.logger.Printf("ingest: record %d (%s): %v", rec.ID, rec.FullFilePath, err)
		p.markError(ctx, rec)
		return
	}
	p.markIndexed(ctx, rec, count)
}
