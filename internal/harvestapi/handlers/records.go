// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"context"
	"net/http"

	"github.com/wingedpig/logharvester/internal/model"
	"github.com/wingedpig/logharvester/internal/store"
)

// RecordHandler lists DiscoveryRecords for a watcher (spec §6 `/records`).
type RecordHandler struct {
	store store.Store
}

// NewRecordHandler builds a RecordHandler.
func NewRecordHandler(st store.Store) *RecordHandler {
	return &RecordHandler{store: st}
}

// List returns DiscoveryRecords, optionally filtered by ?watcherName=.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	watcherName := r.URL.Query().Get("watcherName")

	var (
		rows []model.Entity
		err  error
	)
	if watcherName != "" {
		rows, err = h.store.FindByColumnValues(context.Background(), store.KindDiscoveryRecord, map[string]any{
			"sshLogWatcherName": watcherName,
		})
	} else {
		rows, err = h.store.FindAll(context.Background(), store.KindDiscoveryRecord)
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, ErrInternalError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, rows)
}
