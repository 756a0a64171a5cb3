package extract

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tributary-data/tributary/internal/core/domain"
	"github.com/tributary-data/tributary/internal/core/ports/driven"
)

// fakeIter serves a fixed slice of pages.
type fakeIter struct {
	pages []domain.Page
	pos   int
	err   error
}

func (it *fakeIter) Next(_ context.Context) (domain.Page, bool, error) {
	if it.err != nil {
		return nil, false, it.err
	}
	if it.pos >= len(it.pages) {
		return nil, false, nil
	}
	p := it.pages[it.pos]
	it.pos++
	return p, true, nil
}

// datasetFetcher simulates a capped server over a fixed descending
// dataset: each query returns at most cap records from [lower, upper),
// split into pages of pageSize.
type datasetFetcher struct {
	records  []domain.Record // descending by created_at
	pageSize int
	cap      int
	queries  []domain.Window
}

func (f *datasetFetcher) Fetch(_ context.Context, req driven.PageRequest) driven.PageIter {
	w := windowFromQuery(req.Query)
	f.queries = append(f.queries, w)

	var matched []domain.Record
	for _, rec := range f.records {
		ts, _ := rec.StringAt("created_at")
		if ts < w.Lower {
			continue
		}
		if !w.Open() && ts >= w.Upper {
			continue
		}
		matched = append(matched, rec)
		if len(matched) == f.cap {
			break
		}
	}

	var pages []domain.Page
	for len(matched) > 0 {
		n := f.pageSize
		if n > len(matched) {
			n = len(matched)
		}
		pages = append(pages, domain.Page(matched[:n]))
		matched = matched[n:]
	}
	return &fakeIter{pages: pages}
}

func windowFromQuery(q url.Values) domain.Window {
	return domain.Window{Lower: q.Get("lower"), Upper: q.Get("upper")}
}

func buildWindowRequest(w domain.Window) driven.PageRequest {
	q := url.Values{}
	q.Set("lower", w.Lower)
	if !w.Open() {
		q.Set("upper", w.Upper)
	}
	return driven.PageRequest{Path: "/runs", Query: q, PerPage: 100}
}

func rec(id int, ts string) domain.Record {
	return domain.Record{
		"id":         fmt.Sprintf("%d", id),
		"created_at": ts,
	}
}

// descending generates n records one minute apart, newest first,
// starting at the given time.
func descending(n int, start time.Time) []domain.Record {
	records := make([]domain.Record, n)
	for i := 0; i < n; i++ {
		ts := start.Add(-time.Duration(i) * time.Minute).UTC().Format(time.RFC3339)
		records[i] = rec(i, ts)
	}
	return records
}

func collectEmit(got *[]domain.Record) driven.EmitFunc {
	return func(r domain.Record) error {
		*got = append(*got, r)
		return nil
	}
}

func TestOptions_MaxPagesPerWindow(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want int
	}{
		{"defaults", Options{}, 10},
		{"explicit 1000/100", Options{PageSize: 100, Cap: 1000}, 10},
		{"uneven cap", Options{PageSize: 100, Cap: 950}, 9},
		{"small cap", Options{PageSize: 50, Cap: 50}, 1},
		{"cap below page size clamps to one", Options{PageSize: 100, Cap: 30}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.MaxPagesPerWindow())
		})
	}
}

func TestWindowed_ConcreteScenario(t *testing.T) {
	// 1000 records descending from 2024-06-01 spaced so the open window
	// is truncated at the cap, then 250 more older records down past
	// 2024-03-15. Page size 100, cap 1000: expect exactly two windows,
	// 1250 records, watermark 2024-06-01T00:00:00Z.
	newest := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	records := descending(1250, newest)

	fetcher := &datasetFetcher{records: records, pageSize: 100, cap: 1000}

	var emitted []domain.Record
	res, err := Windowed(
		context.Background(), fetcher, buildWindowRequest,
		"created_at", "2024-01-01T00:00:00Z",
		Options{PageSize: 100, Cap: 1000},
		collectEmit(&emitted),
	)

	require.NoError(t, err)
	assert.Equal(t, 1250, res.Records)
	assert.Len(t, emitted, 1250)
	assert.Equal(t, "2024-06-01T00:00:00Z", res.Watermark)
	// One truncated open window plus one narrowed window that completes
	// under the cap: exactly two fetch windows issued.
	assert.Equal(t, 2, res.Windows)

	require.Len(t, fetcher.queries, 2)
	assert.True(t, fetcher.queries[0].Open(), "first window must be unbounded")
	assert.Equal(t, "2024-01-01T00:00:00Z", fetcher.queries[0].Lower)
	assert.False(t, fetcher.queries[1].Open(), "second window must be narrowed")
	assert.Equal(t, "2024-01-01T00:00:00Z", fetcher.queries[1].Lower,
		"lower bound never changes during narrowing")
}

func TestWindowed_EmitsEveryRecordExactlyOnce(t *testing.T) {
	// Total volume exceeds the cap more than ten-fold.
	newest := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	records := descending(1050, newest)

	fetcher := &datasetFetcher{records: records, pageSize: 10, cap: 100}

	var emitted []domain.Record
	res, err := Windowed(
		context.Background(), fetcher, buildWindowRequest,
		"created_at", "2024-01-01T00:00:00Z",
		Options{PageSize: 10, Cap: 100},
		collectEmit(&emitted),
	)

	require.NoError(t, err)
	assert.Equal(t, 1050, res.Records)

	seen := make(map[string]int)
	for _, r := range emitted {
		id, _ := r.StringAt("id")
		seen[id]++
	}
	assert.Len(t, seen, 1050)
	for id, n := range seen {
		assert.Equal(t, 1, n, "record %s emitted more than once", id)
	}

	// Watermark stays pinned to the very first record of the very first
	// page regardless of how many narrowing iterations follow.
	assert.Equal(t, "2025-03-01T12:00:00Z", res.Watermark)
	assert.GreaterOrEqual(t, res.Windows, 11)

	// Windows are issued in strictly decreasing order of upper bound.
	for i := 2; i < len(fetcher.queries); i++ {
		assert.Less(t, fetcher.queries[i].Upper, fetcher.queries[i-1].Upper)
	}
}

func TestWindowed_EmptyFirstPageTerminates(t *testing.T) {
	fetcher := &datasetFetcher{records: nil, pageSize: 100, cap: 1000}

	var emitted []domain.Record
	res, err := Windowed(
		context.Background(), fetcher, buildWindowRequest,
		"created_at", "2024-01-01T00:00:00Z",
		Options{},
		collectEmit(&emitted),
	)

	require.NoError(t, err)
	assert.Empty(t, emitted)
	assert.Empty(t, res.Watermark, "no record observed means no update")
	assert.Equal(t, 1, res.Windows)
}

func TestWindowed_UnderCapSingleWindow(t *testing.T) {
	newest := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	fetcher := &datasetFetcher{records: descending(250, newest), pageSize: 100, cap: 1000}

	var emitted []domain.Record
	res, err := Windowed(
		context.Background(), fetcher, buildWindowRequest,
		"created_at", "2024-01-01T00:00:00Z",
		Options{PageSize: 100, Cap: 1000},
		collectEmit(&emitted),
	)

	require.NoError(t, err)
	assert.Equal(t, 250, res.Records)
	assert.Equal(t, 1, res.Windows)
	assert.Equal(t, "2024-06-01T00:00:00Z", res.Watermark)
}

func TestWindowed_IdempotentRerun(t *testing.T) {
	newest := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	records := descending(150, newest)

	run := func() (driven.ExtractResult, []domain.Record) {
		fetcher := &datasetFetcher{records: records, pageSize: 100, cap: 1000}
		var emitted []domain.Record
		res, err := Windowed(
			context.Background(), fetcher, buildWindowRequest,
			"created_at", "2024-01-01T00:00:00Z",
			Options{PageSize: 100, Cap: 1000},
			collectEmit(&emitted),
		)
		require.NoError(t, err)
		return res, emitted
	}

	first, firstEmitted := run()
	second, secondEmitted := run()

	assert.Equal(t, first.Watermark, second.Watermark)
	assert.Equal(t, len(firstEmitted), len(secondEmitted))
}

func TestWindowed_MissingTimestampIsFatal(t *testing.T) {
	pages := []domain.Page{{domain.Record{"id": "1"}}}
	fetcher := fetcherOf(pages)

	_, err := Windowed(
		context.Background(), fetcher, buildWindowRequest,
		"created_at", "2024-01-01T00:00:00Z", Options{},
		func(domain.Record) error { return nil },
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingTimestamp)
}

func TestWindowed_NonNarrowingCursorFails(t *testing.T) {
	// Every record shares one timestamp, so a truncated window can never
	// narrow. The extractor must error out instead of looping forever or
	// silently dropping the tail.
	records := make([]domain.Record, 30)
	for i := range records {
		records[i] = rec(i, "2024-05-01T00:00:00Z")
	}
	fetcher := &tiedFetcher{records: records, pageSize: 10}

	_, err := Windowed(
		context.Background(), fetcher, buildWindowRequest,
		"created_at", "2024-01-01T00:00:00Z",
		Options{PageSize: 10, Cap: 20},
		func(domain.Record) error { return nil },
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)
}

func TestWindowed_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &datasetFetcher{records: descending(10, time.Now()), pageSize: 100, cap: 1000}
	_, err := Windowed(
		ctx, fetcher, buildWindowRequest,
		"created_at", "2024-01-01T00:00:00Z", Options{},
		func(domain.Record) error { return nil },
	)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestWindowed_FetchErrorPropagates(t *testing.T) {
	boom := errors.New("upstream down")
	fetcher := errFetcher{err: boom}

	_, err := Windowed(
		context.Background(), fetcher, buildWindowRequest,
		"created_at", "2024-01-01T00:00:00Z", Options{},
		func(domain.Record) error { return nil },
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestSimple(t *testing.T) {
	t.Run("watermark is first record of first page", func(t *testing.T) {
		pages := []domain.Page{
			{rec(1, "2024-06-01T10:00:00Z"), rec(2, "2024-06-01T09:00:00Z")},
			{rec(3, "2024-05-30T08:00:00Z")},
		}
		var emitted []domain.Record
		res, err := Simple(
			context.Background(), fetcherOf(pages), driven.PageRequest{Path: "/commits"},
			"created_at", collectEmit(&emitted),
		)

		require.NoError(t, err)
		assert.Equal(t, "2024-06-01T10:00:00Z", res.Watermark)
		assert.Equal(t, 3, res.Records)
		assert.Len(t, emitted, 3)
	})

	t.Run("no pages means no update", func(t *testing.T) {
		res, err := Simple(
			context.Background(), fetcherOf(nil), driven.PageRequest{},
			"created_at", func(domain.Record) error { return nil },
		)

		require.NoError(t, err)
		assert.Empty(t, res.Watermark)
		assert.Zero(t, res.Records)
	})

	t.Run("missing timestamp is fatal", func(t *testing.T) {
		pages := []domain.Page{{domain.Record{"id": "x"}}}
		_, err := Simple(
			context.Background(), fetcherOf(pages), driven.PageRequest{},
			"created_at", func(domain.Record) error { return nil },
		)

		assert.ErrorIs(t, err, domain.ErrMissingTimestamp)
	})
}

func TestSimpleAscending(t *testing.T) {
	t.Run("watermark is maximum timestamp", func(t *testing.T) {
		pages := []domain.Page{
			{rec(1, "2024-01-02T00:00:00Z"), rec(2, "2024-01-05T00:00:00Z")},
			{rec(3, "2024-02-01T00:00:00Z"), rec(4, "2024-01-20T00:00:00Z")},
		}
		var emitted []domain.Record
		res, err := SimpleAscending(
			context.Background(), fetcherOf(pages), driven.PageRequest{},
			"created_at", collectEmit(&emitted),
		)

		require.NoError(t, err)
		assert.Equal(t, "2024-02-01T00:00:00Z", res.Watermark)
		assert.Equal(t, 4, res.Records)
	})
}

// --- helpers ---

type staticFetcher struct {
	pages []domain.Page
}

func fetcherOf(pages []domain.Page) staticFetcher {
	return staticFetcher{pages: pages}
}

func (f staticFetcher) Fetch(_ context.Context, _ driven.PageRequest) driven.PageIter {
	return &fakeIter{pages: f.pages}
}

type errFetcher struct {
	err error
}

func (f errFetcher) Fetch(_ context.Context, _ driven.PageRequest) driven.PageIter {
	return &fakeIter{err: f.err}
}

// tiedFetcher always serves the same records regardless of window,
// modelling an API whose range filter cannot split identical timestamps.
type tiedFetcher struct {
	records  []domain.Record
	pageSize int
}

func (f *tiedFetcher) Fetch(_ context.Context, _ driven.PageRequest) driven.PageIter {
	var pages []domain.Page
	rest := f.records
	for len(rest) > 0 {
		n := f.pageSize
		if n > len(rest) {
			n = len(rest)
		}
		pages = append(pages, domain.Page(rest[:n]))
		rest = rest[n:]
	}
	return &fakeIter{pages: pages}
}
