// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingedpig/logharvester/internal/model"
)

func TestMemStoreInsertAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	cfg := model.SshConfig{Name: "s1", ServerHost: "localhost", Port: 22}
	require.NoError(t, s.Insert(ctx, KindSshConfig, []model.Entity{cfg}))

	found, err := s.FindByPrimaryKey(ctx, KindSshConfig, "s1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "localhost", found.(model.SshConfig).ServerHost)

	missing, err := s.FindByPrimaryKey(ctx, KindSshConfig, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemStoreInsertDuplicateKeyFails(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	w := model.Watcher{Name: "w1"}
	require.NoError(t, s.Insert(ctx, KindWatcher, []model.Entity{w}))

	err := s.Insert(ctx, KindWatcher, []model.Entity{w})
	require.Error(t, err)
	var dup *ErrDuplicateKey
	assert.ErrorAs(t, err, &dup)
}

func TestMemStoreUpdateMissingFails(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	err := s.Update(ctx, KindWatcher, []model.Entity{model.Watcher{Name: "ghost"}})
	require.Error(t, err)
	var notFound *ErrNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestMemStoreFindByColumnValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	now := time.Now()
	records := []model.Entity{
		model.DiscoveryRecord{SshLogWatcherName: "w1", FullFilePath: "/logs/a.txt", ConsumptionStatus: model.StatusNew, CreatedTime: now},
		model.DiscoveryRecord{SshLogWatcherName: "w1", FullFilePath: "/logs/b.txt", ConsumptionStatus: model.StatusIndexed, CreatedTime: now},
		model.DiscoveryRecord{SshLogWatcherName: "w2", FullFilePath: "/logs/c.txt", ConsumptionStatus: model.StatusNew, CreatedTime: now},
	}
	require.NoError(t, s.Insert(ctx, KindDiscoveryRecord, records))

	found, err := s.FindByColumnValues(ctx, KindDiscoveryRecord, map[string]any{
		"sshLogWatcherName": "w1",
		"consumptionStatus": string(model.StatusNew),
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "/logs/a.txt", found[0].(model.DiscoveryRecord).FullFilePath)
}

func TestMemStoreAutoIDAssignment(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	r1 := model.DiscoveryRecord{SshLogWatcherName: "w1", FullFilePath: "/logs/a.txt"}
	r2 := model.DiscoveryRecord{SshLogWatcherName: "w1", FullFilePath: "/logs/b.txt"}
	require.NoError(t, s.Insert(ctx, KindDiscoveryRecord, []model.Entity{r1, r2}))

	all, err := s.FindAll(ctx, KindDiscoveryRecord)
	require.NoError(t, err)
	require.Len(t, all, 2)

	ids := map[int64]bool{}
	for _, e := range all {
		ids[e.(model.DiscoveryRecord).ID] = true
	}
	assert.True(t, ids[1])
	assert.True(t, ids[2])
}

func TestMemStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	cfg := model.SshConfig{Name: "s1"}
	require.NoError(t, s.Insert(ctx, KindSshConfig, []model.Entity{cfg}))
	require.NoError(t, s.Delete(ctx, KindSshConfig, []model.Entity{cfg}))

	found, err := s.FindByPrimaryKey(ctx, KindSshConfig, "s1")
	require.NoError(t, err)
	assert.Nil(t, found)
}
