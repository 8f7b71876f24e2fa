// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package handlers

import (
	"net/http"
	"strconv"

	"github.com/wingedpig/logharvester/internal/search"
)

// SearchHandler exposes the filtered search RPC (spec §6 `/search`).
type SearchHandler struct {
	searcher *search.Searcher
}

// NewSearchHandler builds a SearchHandler.
func NewSearchHandler(s *search.Searcher) *SearchHandler {
	return &SearchHandler{searcher: s}
}

type searchResponse struct {
	TotalHits int             `json:"totalHits"`
	Results   []search.Result `json:"results"`
}

// Search runs a query and returns { totalHits, results } per spec §4.6/§6.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	operator := search.OperatorAnd
	if q.Get("operator") == string(search.OperatorOr) {
		operator = search.OperatorOr
	}

	req := search.Request{
		WatcherName: q.Get("watcherName"),
		FilePath:    q.Get("filePath"),
		ContentQ:    q.Get("contentQuery"),
		TimestampQ:  q.Get("timestampQuery"),
		LogPathQ:    q.Get("logPathQuery"),
		Operator:    operator,
		StartDate:   q.Get("startDate"),
		EndDate:     q.Get("endDate"),
		TimeZone:    q.Get("timeZone"),
		Page:        page,
		PageSize:    pageSize,
	}

	total, results, err := h.searcher.Search(req)
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrBadRequest, err.Error())
		return
	}
	if results == nil {
		results = []search.Result{}
	}
	WriteJSON(w, http.StatusOK, searchResponse{TotalHits: total, Results: results})
}
