// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package harvestapi is the administrative JSON RPC surface over
// SshConfig, Watcher, and DiscoveryRecord entities plus the search
// endpoint (spec §6). It deliberately excludes the HTML admin UI the
// spec marks out of scope.
package harvestapi

import (
	"github.com/gorilla/mux"

	"github.com/wingedpig/logharvester/internal/harvestapi/handlers"
	"github.com/wingedpig/logharvester/internal/harvestapi/middleware"
	"github.com/wingedpig/logharvester/internal/search"
	"github.com/wingedpig/logharvester/internal/store"
)

// Dependencies holds everything the router needs to build handlers.
type Dependencies struct {
	Store    store.Store
	Searcher *search.Searcher
}

// NewRouter builds the JSON-only admin/search router.
func NewRouter(deps Dependencies) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)

	api := r.PathPrefix("/api/v1").Subrouter()

	configHandler := handlers.NewConfigHandler(deps.Store)
	api.HandleFunc("/configs", configHandler.List).Methods("GET")
	api.HandleFunc("/configs", configHandler.Create).Methods("POST")
	api.HandleFunc("/configs/{name}", configHandler.Get).Methods("GET")
	api.HandleFunc("/configs/{name}", configHandler.Update).Methods("PUT")
	api.HandleFunc("/configs/{name}", configHandler.Delete).Methods("DELETE")

	watcherHandler := handlers.NewWatcherHandler(deps.Store)
	api.HandleFunc("/watchers", watcherHandler.List).Methods("GET")
	api.HandleFunc("/watchers", watcherHandler.Create).Methods("POST")
	api.HandleFunc("/watchers/{name}", watcherHandler.Get).Methods("GET")
	api.HandleFunc("/watchers/{name}", watcherHandler.Update).Methods("PUT")
	api.HandleFunc("/watchers/{name}", watcherHandler.Delete).Methods("DELETE")

	recordHandler := handlers.NewRecordHandler(deps.Store)
	api.HandleFunc("/records", recordHandler.List).Methods("GET")

	searchHandler := handlers.NewSearchHandler(deps.Searcher)
	api.HandleFunc("/search", searchHandler.Search).Methods("GET")

	return r
}
