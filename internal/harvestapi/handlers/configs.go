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

// ConfigHandler handles CRUD over SshConfig rows (spec §6 `/configs`).
type ConfigHandler struct {
	store store.Store
}

// NewConfigHandler builds a ConfigHandler.
func NewConfigHandler(st store.Store) *ConfigHandler {
	return &ConfigHandler{store: st}
}

// List returns every SshConfig.
func (h *ConfigHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.FindAll(context.Background(), store.KindSshConfig)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, ErrInternalError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, rows)
}

// Get returns a single SshConfig by name.
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	e, err := h.store.FindByPrimaryKey(context.Background(), store.KindSshConfig, name)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, ErrInternalError, err.Error())
		return
	}
	if e == nil {
		WriteError(w, http.StatusNotFound, ErrNotFound, "ssh config not found")
		return
	}
	WriteJSON(w, http.StatusOK, e)
}

// Create inserts a new SshConfig.
func (h *ConfigHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cfg model.SshConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, err.Error())
		return
	}
	if err := h.store.Insert(context.Background(), store.KindSshConfig, []model.Entity{cfg}); err != nil {
		if _, ok := err.(*store.ErrDuplicateKey); ok {
			WriteError(w, http.StatusConflict, ErrConflict, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, ErrInternalError, err.Error())
		return
	}
	WriteJSON(w, http.StatusCreated, cfg)
}

// Update replaces an existing SshConfig.
func (h *ConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var cfg model.SshConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, err.Error())
		return
	}
	cfg.Name = name
	if err := h.store.Update(context.Background(), store.KindSshConfig, []model.Entity{cfg}); err != nil {
		if _, ok := err.(*store.ErrNotFound); ok {
			WriteError(w, http.StatusNotFound, ErrNotFound, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, ErrInternalError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, cfg)
}

// Delete removes an SshConfig by name. Deleting an absent name is not an
// error, matching Store's delete-is-idempotent contract.
func (h *ConfigHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := h.store.Delete(context.Background(), store.KindSshConfig, []model.Entity{model.SshConfig{Name: name}}); err != nil {
		WriteError(w, http.StatusInternalServerError, ErrInternalError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
