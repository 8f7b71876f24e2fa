// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package store defines the generic metadata store contract (spec §4.2) that
// the discovery and ingestion engines use to persist SshConfig, Watcher, and
// DiscoveryRecord rows. Any relational backend satisfying Store works; this
// package ships an in-memory implementation for tests and a SQLite-backed
// implementation, which is the one the application opens.
package store

import (
	"context"
	"fmt"

	"github.com/wingedpig/logharvester/internal/model"
)

// Store is the generic repository over tagged entities. Implementations
// must be safe for concurrent use from any worker goroutine.
type Store interface {
	// FindAll returns every row of the given entity kind.
	FindAll(ctx context.Context, kind string) ([]model.Entity, error)

	// FindByPrimaryKey looks up a single row by its primary key value.
	// Returns (nil, nil) if no row matches.
	FindByPrimaryKey(ctx context.Context, kind string, key any) (model.Entity, error)

	// FindByColumnValues returns rows matching every column=value pair
	// (an equality AND conjunction).
	FindByColumnValues(ctx context.Context, kind string, cols map[string]any) ([]model.Entity, error)

	// Insert batch-inserts rows, failing on a primary key collision.
	Insert(ctx context.Context, kind string, rows []model.Entity) error

	// Update batch-updates rows by primary key.
	Update(ctx context.Context, kind string, rows []model.Entity) error

	// Delete batch-deletes rows by primary key.
	Delete(ctx context.Context, kind string, rows []model.Entity) error
}

// Entity kind constants, matching model.Entity.TableName() values.
const (
	KindSshConfig       = "sshConfig"
	KindWatcher         = "SSHLogWatcher"
	KindDiscoveryRecord = "SSHLogWatcherRecord"
)

// ErrDuplicateKey is returned by Insert when a row's primary key already
// exists in the store.
type ErrDuplicateKey struct {
	Kind string
	Key  any
}

func (e *ErrDuplicateKey) Error() string {
	return fmt.Sprintf("duplicate primary key %v in %s", e.Key, e.Kind)
}

// ErrNotFound is returned by Update when a row's primary key does not exist
// in the store. Delete of an absent key is not an error.
type ErrNotFound struct {
	Kind string
	Key  any
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("no row with primary key %v in %s", e.Key, e.Kind)
}
