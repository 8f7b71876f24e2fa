// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package harvestapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingedpig/logharvester/internal/index"
	"github.com/wingedpig/logharvester/internal/model"
	"github.com/wingedpig/logharvester/internal/search"
	"github.com/wingedpig/logharvester/internal/store"
)

func newTestRouter(t *testing.T) (http.Handler, store.Store) {
	t.Helper()
	st := store.NewMemStore()
	idx := index.New(t.TempDir())
	t.Cleanup(idx.Close)

	return NewRouter(Dependencies{Store: st, Searcher: search.New(idx)}), st
}

func TestConfigsCreateListGet(t *testing.T) {
	router, _ := newTestRouter(t)

	body, _ := json.Marshal(model.SshConfig{Name: "s1", ServerHost: "h", Port: 22, Username: "u", Password: "p"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/configs", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/configs/s1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/configs", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestConfigsDuplicateCreateConflicts(t *testing.T) {
	router, _ := newTestRouter(t)
	body, _ := json.Marshal(model.SshConfig{Name: "s1", ServerHost: "h", Port: 22, Username: "u"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/configs", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/configs", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestConfigsGetMissingReturnsNotFound(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/configs/ghost", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWatchersCRUD(t *testing.T) {
	router, _ := newTestRouter(t)

	body, _ := json.Marshal(model.Watcher{Name: "w1", SshConfigName: "s1", WatchDir: "/logs", Enabled: true})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/watchers", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	updated, _ := json.Marshal(model.Watcher{SshConfigName: "s1", WatchDir: "/var/logs", Enabled: false})
	req = httptest.NewRequest(http.MethodPut, "/api/v1/watchers/w1", bytes.NewReader(updated))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/watchers/w1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRecordsListFiltersByWatcherName(t *testing.T) {
	router, st := newTestRouter(t)
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()

	require.NoError(t, st.Insert(ctx, store.KindDiscoveryRecord, []model.Entity{
		model.DiscoveryRecord{ID: 1, SshLogWatcherName: "w1", FullFilePath: "/logs/a.log"},
		model.DiscoveryRecord{ID: 2, SshLogWatcherName: "w2", FullFilePath: "/logs/b.log"},
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records?watcherName=w1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []model.DiscoveryRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "w1", resp.Data[0].SshLogWatcherName)
}

func TestSearchReturnsEmptyForMissingWatcher(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?watcherName=ghost&contentQuery=anything", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			TotalHits int `json:"totalHits"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Data.TotalHits)
}
