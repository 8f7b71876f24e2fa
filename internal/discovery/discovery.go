// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package discovery implements the watcher-driven file discovery and
// change-detection state machine (spec §4.3): for every enabled watcher it
// lists matching remote files over SSH and reconciles them against stored
// DiscoveryRecord rows into NEW / DUPLICATED / unchanged transitions.
package discovery

import (
	"context"
	"fmt"
	"log"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/wingedpig/logharvester/internal/model"
	"github.com/wingedpig/logharvester/internal/sshtransport"
	"github.com/wingedpig/logharvester/internal/store"
)

// RemoteFile is a single (path, size, ctime) tuple returned by a directory
// listing.
type RemoteFile struct {
	Path  string
	Size  int64
	CTime time.Time
}

// Engine runs processWatchers over a metadata store and an SSH transport.
type Engine struct {
	store     store.Store
	transport *sshtransport.Transport
	logger    *log.Logger
}

// New creates a discovery Engine. A nil logger falls back to the standard
// library's default logger, matching the teacher's constructor-injected
// logging convention.
func New(st store.Store, transport *sshtransport.Transport, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{store: st, transport: transport, logger: logger}
}

// ProcessWatchers is the discovery engine's single entrypoint, invoked by
// the scheduler. Per-watcher errors are caught and logged; one watcher's
// failure never affects another's (spec §4.3 step 3).
func (e *Engine) ProcessWatchers(ctx context.Context) error {
	entities, err := e.store.FindAll(ctx, store.KindWatcher)
	if err != nil {
		return fmt.Errorf("loading watchers: %w", err)
	}

	for _, entity := range entities {
		w := entity.(model.Watcher)
		if !w.Enabled {
			continue
		}
		if err := e.processWatcher(ctx, w); err != nil {
			e.logger.Printf("discovery: watcher %s failed: %v", w.Name, err)
		}
	}
	return nil
}

func (e *Engine) processWatcher(ctx context.Context, w model.Watcher) error {
	cfgEntity, err := e.store.FindByPrimaryKey(ctx, store.KindSshConfig, w.SshConfigName)
	if err != nil {
		return fmt.Errorf("loading ssh config %s: %w", w.SshConfigName, err)
	}
	if cfgEntity == nil {
		e.logger.Printf("discovery: watcher %s references unknown ssh config %s, skipping", w.Name, w.SshConfigName)
		return nil
	}
	cfg := cfgEntity.(model.SshConfig)

	session, err := e.transport.OpenSession(cfg)
	if err != nil {
		return fmt.Errorf("opening session for %s: %w", w.Name, err)
	}
	defer session.Close()

	pattern := w.GlobPattern()
	files, err := ListFiles(session, w.WatchDir, pattern, w.RecurDepth)
	if err != nil {
		return fmt.Errorf("listing %s on %s: %w", w.WatchDir, w.Name, err)
	}

	for _, f := range files {
		if err := e.reconcile(ctx, w, f); err != nil {
			e.logger.Printf("discovery: reconciling %s for watcher %s failed: %v", f.Path, w.Name, err)
		}
	}
	return nil
}

// reconcile applies spec §4.3 step 2.d to a single discovered file.
func (e *Engine) reconcile(ctx context.Context, w model.Watcher, f RemoteFile) error {
	fileName := path.Base(f.Path)
	hash := model.FileHash(w.Name, fileName, f.Size, f.CTime)

	existing, err := e.store.FindByColumnValues(ctx, store.KindDiscoveryRecord, map[string]any{
		"sshLogWatcherName": w.Name,
		"fileHash":          hash,
	})
	if err != nil {
		return fmt.Errorf("querying existing records: %w", err)
	}

	now := time.Now()

	for _, entity := range existing {
		rec := entity.(model.DiscoveryRecord)
		if rec.FullFilePath == f.Path {
			// Exact (hash, path) match: bump updatedTime, no new row.
			rec.UpdatedTime = now
			return e.store.Update(ctx, store.KindDiscoveryRecord, []model.Entity{rec})
		}
	}

	if len(existing) > 0 {
		// Hash seen under a different path: duplicate.
		first := existing[0].(model.DiscoveryRecord)
		rec := model.DiscoveryRecord{
			SshLogWatcherName: w.Name,
			FullFilePath:      f.Path,
			FileSize:          f.Size,
			CTime:             f.CTime,
			FileHash:          hash,
			CreatedTime:       now,
			UpdatedTime:       now,
			ConsumptionStatus: model.StatusDuplicated,
			DuplicatedFile:    first.FullFilePath,
			FileName:          fileName,
		}
		return e.store.Insert(ctx, store.KindDiscoveryRecord, []model.Entity{rec})
	}

	rec := model.DiscoveryRecord{
		SshLogWatcherName: w.Name,
		FullFilePath:      f.Path,
		FileSize:          f.Size,
		CTime:             f.CTime,
		FileHash:          hash,
		CreatedTime:       now,
		UpdatedTime:       now,
		ConsumptionStatus: model.StatusNew,
		FileName:          fileName,
	}
	return e.store.Insert(ctx, store.KindDiscoveryRecord, []model.Entity{rec})
}

// ListFiles runs a find-style remote listing bounded by maxDepth, returning
// (path, size, ctime) tuples for files matching pattern.
func ListFiles(session *sshtransport.Session, dir, pattern string, maxDepth int) ([]RemoteFile, error) {
	remoteCmd := buildFindCommand(dir, pattern, maxDepth)
	stdout, stderr, _, err := sshtransport.ExecCapture(session, remoteCmd)
	if err != nil {
		if cmdErr, ok := err.(*sshtransport.CommandError); ok {
			return nil, fmt.Errorf("find failed: %s", cmdErr.Stderr)
		}
		return nil, err
	}
	if len(stderr) > 0 {
		// find commonly warns about permission-denied subdirectories;
		// treat stderr as advisory rather than fatal.
	}
	return parseFindOutput(string(stdout))
}

// buildFindCommand constructs `find dir -maxdepth N -type f -name pattern
// -printf '%s|%C@|%p\n'`, bounding recursion by maxDepth (1 = no recursion,
// per spec).
func buildFindCommand(dir, pattern string, maxDepth int) string {
	if maxDepth < 1 {
		maxDepth = 1
	}
	return fmt.Sprintf(
		"find %s -maxdepth %d -type f -name %s -printf '%%s|%%C@|%%p\\n' 2>/dev/null",
		shellQuote(dir), maxDepth, shellQuote(pattern),
	)
}

// parseFindOutput parses lines of "size|ctime-epoch-seconds|path" into
// RemoteFile tuples.
func parseFindOutput(output string) ([]RemoteFile, error) {
	var files []RemoteFile
	for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 3)
		if len(parts) != 3 {
			continue
		}
		size, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			continue
		}
		ctimeSecs, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			continue
		}
		ctime := time.Unix(int64(ctimeSecs), int64((ctimeSecs-float64(int64(ctimeSecs)))*1e9)).UTC()
		files = append(files, RemoteFile{Path: parts[2], Size: size, CTime: ctime})
	}
	return files, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
