// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package search implements the filtered query layer over a watcher's
// bleve index (spec §4.6): wildcard substring matching across content,
// timestamp and path fields, an exact filePath filter, a timestamp range
// filter, and page-bounded result hydration.
package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/wingedpig/logharvester/internal/index"
)

// Operator is the boolean clause kind joining the free-text wildcard
// clauses together.
type Operator string

const (
	OperatorAnd Operator = "AND"
	OperatorOr  Operator = "OR"
)

const (
	fieldLogStrTimestamp  = "logStrTimestamp"
	fieldLogLongTimestamp = "logLongTimestamp"
	fieldLogPath          = "logPath"
	fieldContent          = "content"
)

// Request is one search invocation against a single watcher's index.
type Request struct {
	WatcherName string

	FilePath   string
	ContentQ   string
	TimestampQ string
	LogPathQ   string
	Operator   Operator

	// StartDate/EndDate are ISO-local-datetime strings ("2026-01-02
	// 15:04:05"), parsed under TimeZone. Empty means an open bound.
	StartDate string
	EndDate   string
	TimeZone  string

	Page     int
	PageSize int
}

// Result is one hydrated hit: original-case stored field values.
type Result struct {
	Timestamp string
	FilePath  string
	Content   string
}

// Searcher executes Requests against a Store's per-watcher writers, so a
// query sees any not-yet-flushed-to-disk documents indexed earlier in the
// same process.
type Searcher struct {
	idx *index.Store
}

// New builds a Searcher over idx.
func New(idx *index.Store) *Searcher {
	return &Searcher{idx: idx}
}

// Search runs req and returns the total match count plus the requested
// page of hydrated results.
func (s *Searcher) Search(req Request) (int, []Result, error) {
	if !s.idx.Exists(req.WatcherName) {
		return 0, nil, nil
	}

	writer, err := s.idx.Writer(req.WatcherName)
	if err != nil {
		return 0, nil, err
	}

	q, err := buildQuery(req)
	if err != nil {
		return 0, nil, err
	}
	if q == nil {
		return 0, nil, nil
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 1
	}

	sreq := bleve.NewSearchRequestOptions(q, page*pageSize, 0, false)
	sreq.Fields = []string{fieldLogStrTimestamp, fieldLogPath, fieldContent}

	res, err := writer.Search(sreq)
	if err != nil {
		return 0, nil, fmt.Errorf("search watcher %s: %w", req.WatcherName, err)
	}

	start := (page - 1) * pageSize
	if start >= len(res.Hits) {
		return int(res.Total), nil, nil
	}
	end := start + pageSize
	if end > len(res.Hits) {
		end = len(res.Hits)
	}

	out := make([]Result, 0, end-start)
	for _, hit := range res.Hits[start:end] {
		out = append(out, Result{
			Timestamp: fieldString(hit.Fields, fieldLogStrTimestamp),
			FilePath:  fieldString(hit.Fields, fieldLogPath),
			Content:   fieldString(hit.Fields, fieldContent),
		})
	}
	return int(res.Total), out, nil
}

func fieldString(fields map[string]interface{}, name string) string {
	v, ok := fields[name]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// buildQuery assembles the Boolean query from spec §4.6 step 3. A nil,
// nil return means no clause was produced and the caller must short-
// circuit to (0, empty) without querying bleve.
func buildQuery(req Request) (query.Query, error) {
	bq := bleve.NewBooleanQuery()
	hasFreeText := false

	addFreeText := func(field, q string) {
		q = strings.TrimSpace(q)
		if q == "" {
			return
		}
		wc := bleve.NewWildcardQuery("*" + strings.ToLower(q) + "*")
		wc.SetField(field)
		hasFreeText = true
		if req.Operator == OperatorOr {
			bq.AddShould(wc)
		} else {
			bq.AddMust(wc)
		}
	}

	addFreeText(fieldContent, req.ContentQ)
	addFreeText(fieldLogStrTimestamp, req.TimestampQ)
	addFreeText(fieldLogPath, req.LogPathQ)

	// With bleve's default minimum of zero, Should clauses next to a Must
	// clause (the filePath filter or the date range) only affect scoring
	// and filter nothing; requiring one of them makes OR a real filter.
	if req.Operator == OperatorOr && hasFreeText {
		bq.SetMinShould(1)
	}

	hasAnyClause := hasFreeText

	if fp := strings.TrimSpace(req.FilePath); fp != "" {
		exact := bleve.NewTermQuery(strings.ToLower(fp))
		exact.SetField(fieldLogPath)
		bq.AddMust(exact)
		hasAnyClause = true
	}

	rangeQ, err := buildTimeRange(req)
	if err != nil {
		return nil, err
	}
	if rangeQ != nil {
		bq.AddMust(rangeQ)
		hasAnyClause = true
	}

	if !hasAnyClause {
		return nil, nil
	}
	return bq, nil
}

func buildTimeRange(req Request) (query.Query, error) {
	if req.StartDate == "" && req.EndDate == "" {
		return nil, nil
	}

	loc := time.UTC
	if req.TimeZone != "" {
		l, err := time.LoadLocation(req.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("loading zone %q: %w", req.TimeZone, err)
		}
		loc = l
	}

	const layout = "2006-01-02 15:04:05"

	var min, max *float64
	inclusiveMin, inclusiveMax := true, true

	if req.StartDate != "" {
		t, err := time.ParseInLocation(layout, req.StartDate, loc)
		if err != nil {
			return nil, fmt.Errorf("parsing startDate %q: %w", req.StartDate, err)
		}
		v := float64(t.UnixMilli())
		min = &v
	}
	if req.EndDate != "" {
		t, err := time.ParseInLocation(layout, req.EndDate, loc)
		if err != nil {
			return nil, fmt.Errorf("parsing endDate %q: %w", req.EndDate, err)
		}
		v := float64(t.UnixMilli())
		max = &v
	}

	rq := bleve.NewNumericRangeInclusiveQuery(min, max, &inclusiveMin, &inclusiveMax)
	rq.SetField(fieldLogLongTimestamp)
	return rq, nil
}
