// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package scheduler runs the discovery and ingestion entrypoints on a
// fixed cadence (spec §4.7). Each entrypoint is its own cron job guarded
// by an atomic "in progress" flag so overlapping ticks skip rather than
// stack up; the two entrypoints are independent and may run concurrently
// with each other.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/robfig/cron/v3"
)

// Phase is a named, independently-scheduled unit of work.
type Phase struct {
	name    string
	cadence int // minutes
	run     func(ctx context.Context) error
	running atomic.Bool
}

// Scheduler owns the cron runtime and the discovery/ingestion phases.
type Scheduler struct {
	cron   *cron.Cron
	logger *log.Logger
	phases []*Phase
}

// New builds a Scheduler with discoveryFn run every discoveryCadence
// minutes and ingestionFn run every ingestionCadence minutes.
func New(discoveryFn, ingestionFn func(ctx context.Context) error, discoveryCadence, ingestionCadence int, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
		phases: []*Phase{
			{name: "discovery", cadence: discoveryCadence, run: discoveryFn},
			{name: "ingestion", cadence: ingestionCadence, run: ingestionFn},
		},
	}
}

// Start registers each phase's cron entry and begins the scheduler's
// background goroutine. Call Stop to shut down cleanly.
func (s *Scheduler) Start(ctx context.Context) error {
	for _, p := range s.phases {
		p := p
		spec := fmt.Sprintf("@every %dm", p.cadence)
		if _, err := s.cron.AddFunc(spec, func() { s.tick(ctx, p) }); err != nil {
			return fmt.Errorf("scheduling phase %s: %w", p.name, err)
		}
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron runtime and waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// tick runs a phase's entrypoint unless a previous tick is still running.
func (s *Scheduler) tick(ctx context.Context, p *Phase) {
	if !p.running.CompareAndSwap(false, true) {
		s.logger.Printf("scheduler: %s tick skipped, previous run still in progress", p.name)
		return
	}
	defer p.running.Store(false)

	if err := p.run(ctx); err != nil {
		s.logger.Printf("scheduler: %s failed: %v", p.name, err)
	}
}

// RunDiscoveryNow and RunIngestionNow expose idempotent, on-demand
// entrypoints (e.g. for a CLI trigger or an admin endpoint) that honor
// the same single-flight guard as the cron-driven ticks.
func (s *Scheduler) RunDiscoveryNow(ctx context.Context) {
	s.tick(ctx, s.phases[0])
}

func (s *Scheduler) RunIngestionNow(ctx context.Context) {
	s.tick(ctx, s.phases[1])
}
