// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"time"

	"github.com/wingedpig/logharvester/internal/model"
)

// columnAccessor reads a single column's value off an entity. Declaring
// these explicitly (instead of walking struct tags via reflection) is what
// lets FindByColumnValues and the SQL backend share one source of truth for
// "attribute name -> column value" without runtime introspection.
type columnAccessor func(model.Entity) any

// columnSpec describes a column: its SQL type (for sqlitestore's CREATE
// TABLE) and its accessor (for both backends' equality filtering).
type columnSpec struct {
	sqlType string
	get     columnAccessor
}

var sshConfigColumns = map[string]columnSpec{
	"name":       {"TEXT PRIMARY KEY", func(e model.Entity) any { return e.(model.SshConfig).Name }},
	"serverHost": {"TEXT", func(e model.Entity) any { return e.(model.SshConfig).ServerHost }},
	"port":       {"INTEGER", func(e model.Entity) any { return e.(model.SshConfig).Port }},
	"username":   {"TEXT", func(e model.Entity) any { return e.(model.SshConfig).Username }},
	"password":   {"TEXT", func(e model.Entity) any { return e.(model.SshConfig).Password }},
	"createdAt":  {"TIMESTAMP", func(e model.Entity) any { return e.(model.SshConfig).CreatedAt }},
	"updatedAt":  {"TIMESTAMP", func(e model.Entity) any { return e.(model.SshConfig).UpdatedAt }},
}

var watcherColumns = map[string]columnSpec{
	"name":           {"TEXT PRIMARY KEY", func(e model.Entity) any { return e.(model.Watcher).Name }},
	"sshConfigName":  {"TEXT", func(e model.Entity) any { return e.(model.Watcher).SshConfigName }},
	"watchDir":       {"TEXT", func(e model.Entity) any { return e.(model.Watcher).WatchDir }},
	"recurDepth":     {"INTEGER", func(e model.Entity) any { return e.(model.Watcher).RecurDepth }},
	"filePrefix":     {"TEXT", func(e model.Entity) any { return e.(model.Watcher).FilePrefix }},
	"fileContains":   {"TEXT", func(e model.Entity) any { return e.(model.Watcher).FileContains }},
	"filePostfix":    {"TEXT", func(e model.Entity) any { return e.(model.Watcher).FilePostfix }},
	"archivedLogs":   {"BOOLEAN", func(e model.Entity) any { return e.(model.Watcher).ArchivedLogs }},
	"enabled":        {"BOOLEAN", func(e model.Entity) any { return e.(model.Watcher).Enabled }},
	"javaTimeZoneId": {"TEXT", func(e model.Entity) any { return e.(model.Watcher).JavaTimeZoneId }},
	"createdAt":      {"TIMESTAMP", func(e model.Entity) any { return e.(model.Watcher).CreatedAt }},
	"updatedAt":      {"TIMESTAMP", func(e model.Entity) any { return e.(model.Watcher).UpdatedAt }},
}

var discoveryRecordColumns = map[string]columnSpec{
	"id":                   {"INTEGER PRIMARY KEY AUTOINCREMENT", func(e model.Entity) any { return e.(model.DiscoveryRecord).ID }},
	"sshLogWatcherName":    {"TEXT", func(e model.Entity) any { return e.(model.DiscoveryRecord).SshLogWatcherName }},
	"fullFilePath":         {"TEXT", func(e model.Entity) any { return e.(model.DiscoveryRecord).FullFilePath }},
	"fileSize":             {"INTEGER", func(e model.Entity) any { return e.(model.DiscoveryRecord).FileSize }},
	"cTime":                {"TIMESTAMP", func(e model.Entity) any { return e.(model.DiscoveryRecord).CTime }},
	"fileHash":             {"TEXT", func(e model.Entity) any { return e.(model.DiscoveryRecord).FileHash }},
	"createdTime":          {"TIMESTAMP", func(e model.Entity) any { return e.(model.DiscoveryRecord).CreatedTime }},
	"updatedTime":          {"TIMESTAMP", func(e model.Entity) any { return e.(model.DiscoveryRecord).UpdatedTime }},
	"consumptionStatus":    {"TEXT", func(e model.Entity) any { return string(e.(model.DiscoveryRecord).ConsumptionStatus) }},
	"duplicatedFile":       {"TEXT", func(e model.Entity) any { return e.(model.DiscoveryRecord).DuplicatedFile }},
	"fileName":             {"TEXT", func(e model.Entity) any { return e.(model.DiscoveryRecord).FileName }},
	"noOfIndexedDocuments": {"INTEGER", func(e model.Entity) any {
		r := e.(model.DiscoveryRecord)
		if r.NoOfIndexedDocuments == nil {
			return nil
		}
		return *r.NoOfIndexedDocuments
	}},
}

var schemaByKind = map[string]map[string]columnSpec{
	KindSshConfig:       sshConfigColumns,
	KindWatcher:         watcherColumns,
	KindDiscoveryRecord: discoveryRecordColumns,
}

// columnValue extracts a named column's value from an entity of the given
// kind, returning false if the kind or column is unknown.
func columnValue(kind, column string, e model.Entity) (any, bool) {
	spec, ok := schemaByKind[kind]
	if !ok {
		return nil, false
	}
	col, ok := spec[column]
	if !ok {
		return nil, false
	}
	return col.get(e), true
}

// equalColumnValue compares a stored column value against a filter value.
// Two time.Time values are compared with Equal; everything else is compared
// with ==, so a filter value only matches when it has the same Go type as
// the column accessor's result (no string/bool/int conversion is done).
func equalColumnValue(a, b any) bool {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Equal(bt)
		}
	}
	return a == b
}
