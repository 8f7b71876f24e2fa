// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package model defines the entities shared by the metadata store, the
// discovery engine, the ingestion pipeline, and the index store.
package model

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// ConsumptionStatus is the lifecycle state of a DiscoveryRecord.
type ConsumptionStatus string

const (
	StatusNew        ConsumptionStatus = "NEW"
	StatusIndexed    ConsumptionStatus = "INDEXED"
	StatusDuplicated ConsumptionStatus = "DUPLICATED"
	StatusError      ConsumptionStatus = "ERROR"
)

// Entity is satisfied by every record the metadata store persists. Table and
// primary-key mapping is declared explicitly by each type rather than
// inferred by reflection, per the "no reflective attribute enumeration"
// design note.
type Entity interface {
	TableName() string
	PrimaryKey() (column string, value any)
}

// SshConfig is an SSH connection descriptor. Immutable during a run;
// created/updated/destroyed by the admin layer, read-only from the core.
type SshConfig struct {
	Name       string    `json:"name"`
	ServerHost string    `json:"serverHost"`
	Port       int       `json:"port"`
	Username   string    `json:"username"`
	Password   string    `json:"password"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (SshConfig) TableName() string { return "sshConfig" }
func (c SshConfig) PrimaryKey() (string, any) { return "name", c.Name }

// Watcher is a harvesting rule bound to a single SshConfig.
type Watcher struct {
	Name           string `json:"name"`
	SshConfigName  string `json:"sshConfigName"`
	WatchDir       string `json:"watchDir"`
	RecurDepth     int    `json:"recurDepth"`
	FilePrefix     string `json:"filePrefix"`
	FileContains   string `json:"fileContains"`
	FilePostfix    string `json:"filePostfix"`
	ArchivedLogs   bool   `json:"archivedLogs"`
	Enabled        bool   `json:"enabled"`
	JavaTimeZoneId string `json:"javaTimeZoneId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Watcher) TableName() string { return "SSHLogWatcher" }
func (w Watcher) PrimaryKey() (string, any) { return "name", w.Name }

// GlobPattern assembles the {prefix}*{contains}*{postfix} glob per spec,
// substituting "*" when a component is empty.
func (w Watcher) GlobPattern() string {
	prefix := w.FilePrefix
	if prefix == "" {
		prefix = "*"
	}
	contains := w.FileContains
	if contains == "" {
		contains = "*"
	}
	postfix := w.FilePostfix
	if postfix == "" {
		postfix = "*"
	}
	return prefix + "*" + contains + "*" + postfix
}

// DiscoveryRecord is one row per (watcher, discovered file path).
type DiscoveryRecord struct {
	ID                   int64             `json:"id"`
	SshLogWatcherName    string            `json:"sshLogWatcherName"`
	FullFilePath         string            `json:"fullFilePath"`
	FileSize             int64             `json:"fileSize"`
	CTime                time.Time         `json:"cTime"`
	FileHash             string            `json:"fileHash"`
	CreatedTime          time.Time         `json:"createdTime"`
	UpdatedTime          time.Time         `json:"updatedTime"`
	ConsumptionStatus    ConsumptionStatus `json:"consumptionStatus"`
	DuplicatedFile       string            `json:"duplicatedFile,omitempty"`
	FileName             string            `json:"fileName"`
	NoOfIndexedDocuments *int              `json:"noOfIndexedDocuments,omitempty"`
}

func (DiscoveryRecord) TableName() string { return "SSHLogWatcherRecord" }
func (r DiscoveryRecord) PrimaryKey() (string, any) { return "id", r.ID }

// FileHash computes the deterministic identity of a discovered file:
// H(watcherName || fileName || '-' || size || '-' || ctime).
func FileHash(watcherName, fileName string, size int64, cTime time.Time) string {
	payload := fmt.Sprintf("%s%s-%d-%d", watcherName, fileName, size, cTime.UnixMilli())
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// IndexedEvent is a single document in a per-watcher index.
type IndexedEvent struct {
	Md5Id            string `json:"md5Id"`
	LogStrTimestamp  string `json:"logStrTimestamp"`
	LogLongTimestamp int64  `json:"logLongTimestamp"`
	LogPath          string `json:"logPath"`
	Content          string `json:"content"`
}

// EventID computes the content-addressed identity of an indexed event:
// MD5(serverHost|sshConfigName+fileName+content|logStrTimestamp|).
func EventID(serverHost, sshConfigName, fileName, content, logStrTimestamp string) string {
	payload := fmt.Sprintf("%s|%s%s%s|%s|", serverHost, sshConfigName, fileName, content, logStrTimestamp)
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}
