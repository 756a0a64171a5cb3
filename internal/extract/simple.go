package extract

import (
	"context"
	"fmt"

	"github.com/tributary-data/tributary/internal/core/ports/driven"
)

// Simple fetches one window from lower to now with no narrowing, for
// resources whose volumes never approach the server cap. Records are
// assumed reverse-chronological, so the watermark is the timestamp of
// the first record of the first page.
func Simple(
	ctx context.Context,
	fetcher driven.PageFetcher,
	req driven.PageRequest,
	timestampPath string,
	emit driven.EmitFunc,
) (driven.ExtractResult, error) {
	res := driven.ExtractResult{Windows: 1}
	var newest string

	iter := fetcher.Fetch(ctx, req)
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		page, ok, err := iter.Next(ctx)
		if err != nil {
			return res, fmt.Errorf("fetch page: %w", err)
		}
		if !ok || len(page) == 0 {
			break
		}

		if newest == "" {
			ts, err := page[0].TimestampAt(timestampPath)
			if err != nil {
				return res, err
			}
			newest = ts
		}

		for _, rec := range page {
			if err := emit(rec); err != nil {
				return res, fmt.Errorf("emit record: %w", err)
			}
			res.Records++
		}
	}

	res.Watermark = newest
	return res, nil
}

// SimpleAscending is Simple for resources served oldest-first (e.g.
// Jira issues ordered by updated). The watermark is the maximum
// timestamp observed across all records.
func SimpleAscending(
	ctx context.Context,
	fetcher driven.PageFetcher,
	req driven.PageRequest,
	timestampPath string,
	emit driven.EmitFunc,
) (driven.ExtractResult, error) {
	res := driven.ExtractResult{Windows: 1}
	var newest string

	iter := fetcher.Fetch(ctx, req)
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		page, ok, err := iter.Next(ctx)
		if err != nil {
			return res, fmt.Errorf("fetch page: %w", err)
		}
		if !ok || len(page) == 0 {
			break
		}

		for _, rec := range page {
			ts, err := rec.TimestampAt(timestampPath)
			if err != nil {
				return res, err
			}
			if ts > newest {
				newest = ts
			}
			if err := emit(rec); err != nil {
				return res, fmt.Errorf("emit record: %w", err)
			}
			res.Records++
		}
	}

	res.Watermark = newest
	return res, nil
}
