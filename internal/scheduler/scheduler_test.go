// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunDiscoveryNowInvokesDiscoveryFn(t *testing.T) {
	var discoveryCalls, ingestionCalls int32
	s := New(
		func(ctx context.Context) error { atomic.AddInt32(&discoveryCalls, 1); return nil },
		func(ctx context.Context) error { atomic.AddInt32(&ingestionCalls, 1); return nil },
		15, 15, nil,
	)

	s.RunDiscoveryNow(context.Background())

	assert.EqualValues(t, 1, atomic.LoadInt32(&discoveryCalls))
	assert.EqualValues(t, 0, atomic.LoadInt32(&ingestionCalls))
}

func TestTickSkipsWhileInProgress(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls int32

	s := New(
		func(ctx context.Context) error {
			atomic.AddInt32(&calls, 1)
			close(started)
			<-release
			return nil
		},
		func(ctx context.Context) error { return nil },
		15, 15, nil,
	)

	go s.RunDiscoveryNow(context.Background())
	<-started

	// A second tick while the first is still blocked on release must be
	// skipped, not queued or run concurrently.
	s.RunDiscoveryNow(context.Background())
	close(release)

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestPhasesAreIndependent(t *testing.T) {
	block := make(chan struct{})
	var ingestionCalls int32

	s := New(
		func(ctx context.Context) error { <-block; return nil },
		func(ctx context.Context) error { atomic.AddInt32(&ingestionCalls, 1); return nil },
		15, 15, nil,
	)

	go s.RunDiscoveryNow(context.Background())
	s.RunIngestionNow(context.Background())
	close(block)

	assert.EqualValues(t, 1, atomic.LoadInt32(&ingestionCalls))
}
