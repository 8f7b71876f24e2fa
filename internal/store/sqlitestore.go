// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wingedpig/logharvester/internal/model"
)

// SQLiteStore is a database/sql-backed Store implementation. Any SQL
// database reachable through a database/sql driver satisfies the same
// contract; SQLite is used here as the reference backend (spec §4.2 calls
// out that "an implementer MAY use any relational backend").
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if absent) a SQLite database at path and
// ensures the three entity tables from spec §6 exist.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}
	// A single connection avoids SQLite's "database is locked" errors under
	// concurrent ingestion workers; reads and writes are serialized on it.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	for kind, cols := range schemaByKind {
		var names []string
		for name := range cols {
			names = append(names, name)
		}
		sort.Strings(names)

		var defs []string
		for _, name := range names {
			defs = append(defs, fmt.Sprintf("%q %s", name, cols[name].sqlType))
		}

		stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s)", kind, strings.Join(defs, ", "))
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating table %s: %w", kind, err)
		}
	}
	return nil
}

func (s *SQLiteStore) FindAll(ctx context.Context, kind string) ([]model.Entity, error) {
	return s.query(ctx, kind, "", nil)
}

func (s *SQLiteStore) FindByPrimaryKey(ctx context.Context, kind string, key any) (model.Entity, error) {
	spec, ok := schemaByKind[kind]
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	pkCol := primaryKeyColumn(spec)
	rows, err := s.query(ctx, kind, fmt.Sprintf("%q = ?", pkCol), []any{key})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (s *SQLiteStore) FindByColumnValues(ctx context.Context, kind string, cols map[string]any) ([]model.Entity, error) {
	var names []string
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)

	var clauses []string
	var args []any
	for _, name := range names {
		clauses = append(clauses, fmt.Sprintf("%q = ?", name))
		args = append(args, cols[name])
	}
	return s.query(ctx, kind, strings.Join(clauses, " AND "), args)
}

func (s *SQLiteStore) query(ctx context.Context, kind, where string, args []any) ([]model.Entity, error) {
	spec, ok := schemaByKind[kind]
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}

	var names []string
	for name := range spec {
		names = append(names, name)
	}
	sort.Strings(names)

	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}

	stmt := fmt.Sprintf("SELECT %s FROM %q", strings.Join(quoted, ", "), kind)
	if where != "" {
		stmt += " WHERE " + where
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", kind, err)
	}
	defer rows.Close()

	var out []model.Entity
	for rows.Next() {
		dest := make([]any, len(names))
		scratch := make([]any, len(names))
		for i := range scratch {
			dest[i] = &scratch[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}
		values := make(map[string]any, len(names))
		for i, n := range names {
			values[n] = scratch[i]
		}
		out = append(out, decodeEntity(kind, values))
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Insert(ctx context.Context, kind string, entities []model.Entity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entities {
		if err := insertRow(ctx, tx, kind, e); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertRow(ctx context.Context, tx *sql.Tx, kind string, e model.Entity) error {
	spec := schemaByKind[kind]
	var names []string
	for name := range spec {
		names = append(names, name)
	}
	sort.Strings(names)

	pkCol := primaryKeyColumn(spec)
	_, pkVal := e.PrimaryKey()

	// AUTOINCREMENT primary keys (DiscoveryRecord.id == 0) are left out of
	// the column list so SQLite assigns one; everything else is inserted
	// with an explicit PK and relies on the UNIQUE constraint for
	// duplicate detection.
	autoAssign := pkCol == "id" && pkVal == int64(0)

	var cols []string
	var placeholders []string
	var args []any
	for _, n := range names {
		if autoAssign && n == pkCol {
			continue
		}
		v, _ := columnValue(kind, n, e)
		cols = append(cols, fmt.Sprintf("%q", n))
		placeholders = append(placeholders, "?")
		args = append(args, v)
	}

	stmt := fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)", kind, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return &ErrDuplicateKey{Kind: kind, Key: pkVal}
		}
		return fmt.Errorf("inserting into %s: %w", kind, err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint") || strings.Contains(err.Error(), "PRIMARY KEY")
}

func (s *SQLiteStore) Update(ctx context.Context, kind string, entities []model.Entity) error {
	spec := schemaByKind[kind]
	pkCol := primaryKeyColumn(spec)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var names []string
	for name := range spec {
		if name != pkCol {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, e := range entities {
		_, pkVal := e.PrimaryKey()

		var assigns []string
		var args []any
		for _, n := range names {
			v, _ := columnValue(kind, n, e)
			assigns = append(assigns, fmt.Sprintf("%q = ?", n))
			args = append(args, v)
		}
		args = append(args, pkVal)

		stmt := fmt.Sprintf("UPDATE %q SET %s WHERE %q = ?", kind, strings.Join(assigns, ", "), pkCol)
		res, err := tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			return fmt.Errorf("updating %s: %w", kind, err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return &ErrNotFound{Kind: kind, Key: pkVal}
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Delete(ctx context.Context, kind string, entities []model.Entity) error {
	spec := schemaByKind[kind]
	pkCol := primaryKeyColumn(spec)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt := fmt.Sprintf("DELETE FROM %q WHERE %q = ?", kind, pkCol)
	for _, e := range entities {
		_, pkVal := e.PrimaryKey()
		if _, err := tx.ExecContext(ctx, stmt, pkVal); err != nil {
			return fmt.Errorf("deleting from %s: %w", kind, err)
		}
	}
	return tx.Commit()
}

func primaryKeyColumn(spec map[string]columnSpec) string {
	for name, col := range spec {
		if strings.Contains(col.sqlType, "PRIMARY KEY") {
			return name
		}
	}
	return ""
}

// decodeEntity converts a raw column-name->value map back into the typed
// model.Entity for the given kind. This is the inverse of columnValue,
// kept as explicit per-kind code rather than reflection.
func decodeEntity(kind string, v map[string]any) model.Entity {
	switch kind {
	case KindSshConfig:
		return model.SshConfig{
			Name:       asString(v["name"]),
			ServerHost: asString(v["serverHost"]),
			Port:       int(asInt64(v["port"])),
			Username:   asString(v["username"]),
			Password:   asString(v["password"]),
			CreatedAt:  asTime(v["createdAt"]),
			UpdatedAt:  asTime(v["updatedAt"]),
		}
	case KindWatcher:
		return model.Watcher{
			Name:           asString(v["name"]),
			SshConfigName:  asString(v["sshConfigName"]),
			WatchDir:       asString(v["watchDir"]),
			RecurDepth:     int(asInt64(v["recurDepth"])),
			FilePrefix:     asString(v["filePrefix"]),
			FileContains:   asString(v["fileContains"]),
			FilePostfix:    asString(v["filePostfix"]),
			ArchivedLogs:   asBool(v["archivedLogs"]),
			Enabled:        asBool(v["enabled"]),
			JavaTimeZoneId: asString(v["javaTimeZoneId"]),
			CreatedAt:      asTime(v["createdAt"]),
			UpdatedAt:      asTime(v["updatedAt"]),
		}
	case KindDiscoveryRecord:
		var indexed *int
		if v["noOfIndexedDocuments"] != nil {
			n := int(asInt64(v["noOfIndexedDocuments"]))
			indexed = &n
		}
		return model.DiscoveryRecord{
			ID:                   asInt64(v["id"]),
			SshLogWatcherName:    asString(v["sshLogWatcherName"]),
			FullFilePath:         asString(v["fullFilePath"]),
			FileSize:             asInt64(v["fileSize"]),
			CTime:                asTime(v["cTime"]),
			FileHash:             asString(v["fileHash"]),
			CreatedTime:          asTime(v["createdTime"]),
			UpdatedTime:          asTime(v["updatedTime"]),
			ConsumptionStatus:    model.ConsumptionStatus(asString(v["consumptionStatus"])),
			DuplicatedFile:       asString(v["duplicatedFile"]),
			FileName:             asString(v["fileName"]),
			NoOfIndexedDocuments: indexed,
		}
	default:
		return nil
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case nil:
		return 0
	default:
		return 0
	}
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int64:
		return t != 0
	default:
		return false
	}
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}
		}
		return parsed
	default:
		return time.Time{}
	}
}
