// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wingedpig/logharvester/internal/model"
	"github.com/wingedpig/logharvester/internal/store"
)

// WatcherHandler handles CRUD over Watcher rows (spec §6 `/watchers`).
type WatcherHandler struct {
	store store.Store
}

// NewWatcherHandler builds a WatcherHandler.
func NewWatcherHandler(st store.Store) *WatcherHandler {
	return &WatcherHandler{store: st}
}

// List returns every Watcher.
func (h *WatcherHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.FindAll(context.Background(), store.KindWatcher)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, ErrInternalError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, rows)
}

// Get returns a single Watcher by name.
func (h *WatcherHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	e, err := h.store.FindByPrimaryKey(context.Background(), store.KindWatcher, name)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, ErrInternalError, err.Error())
		return
	}
	if e == nil {
		WriteError(w, http.StatusNotFound, ErrNotFound, "watcher not found")
		return
	}
	WriteJSON(w, http.StatusOK, e)
}

// Create inserts a new Watcher.
func (h *WatcherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var watcher model.Watcher
	if err := json.NewDecoder(r.Body).Decode(&watcher); err != nil {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, err.Error())
		return
	}
	if err := h.store.Insert(context.Background(), store.KindWatcher, []model.Entity{watcher}); err != nil {
		if _, ok := err.(*store.ErrDuplicateKey); ok {
			WriteError(w, http.StatusConflict, ErrConflict, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, ErrInternalError, err.Error())
		return
	}
	WriteJSON(w, http.StatusCreated, watcher)
}

// Update replaces an existing Watcher.
func (h *WatcherHandler) Update(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var watcher model.Watcher
	if err := json.NewDecoder(r.Body).Decode(&watcher); err != nil {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, err.Error())
		return
	}
	watcher.Name = name
	if err := h.store.Update(context.Background(), store.KindWatcher, []model.Entity{watcher}); err != nil {
		if _, ok := err.(*store.ErrNotFound); ok {
			WriteError(w, http.StatusNotFound, ErrNotFound, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, ErrInternalError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, watcher)
}

// Delete removes a Watcher by name.
func (h *WatcherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := h.store.Delete(context.Background(), store.KindWatcher, []model.Entity{model.Watcher{Name: name}}); err != nil {
		WriteError(w, http.StatusInternalServerError, ErrInternalError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
