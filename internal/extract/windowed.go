package extract

import (
	"context"
	"fmt"

	"github.com/tributary-data/tributary/internal/core/domain"
	"github.com/tributary-data/tributary/internal/core/ports/driven"
	"github.com/tributary-data/tributary/internal/logger"
)

const (
	// DefaultPageSize is the server page size assumed when unset.
	DefaultPageSize = 100

	// DefaultCap is the server's maximum results per distinct query
	// assumed when unset (GitHub returns at most 1000 results for a
	// workflow-run query no matter how many pages are requested).
	DefaultCap = 1000
)

// Options parameterises the windowed extractor. The truncation
// threshold is always derived from Cap and PageSize, never hard-coded.
type Options struct {
	// PageSize is the server page size P.
	PageSize int

	// Cap is the server's maximum results per distinct query C.
	Cap int
}

// MaxPagesPerWindow returns floor(C / P), the page count at which a
// window must be considered truncated by the cap.
func (o Options) MaxPagesPerWindow() int {
	pageSize := o.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	c := o.Cap
	if c <= 0 {
		c = DefaultCap
	}
	n := c / pageSize
	if n < 1 {
		n = 1
	}
	return n
}

// BuildRequestFunc encodes a window into a page request. Each resource
// knows its own range parameter syntax (e.g. "created=lower..upper").
type BuildRequestFunc func(w domain.Window) driven.PageRequest

// Windowed fetches every record for one parent newer than lower,
// narrowing the window whenever the server cap truncates it.
//
// The watermark returned is the timestamp of the first record of the
// very first page fetched, captured once and never overwritten by
// later, narrower windows: with reverse-chronological ordering it is the
// newest record the parent has. An empty watermark means no record was
// observed.
//
// A record whose timestamp ties exactly with a narrowed boundary may be
// fetched again in the next window when the API's range semantics are
// inclusive; sinks merge by identity, so re-delivery is safe and the
// record is never dropped.
func Windowed(
	ctx context.Context,
	fetcher driven.PageFetcher,
	build BuildRequestFunc,
	timestampPath string,
	lower string,
	opts Options,
	emit driven.EmitFunc,
) (driven.ExtractResult, error) {
	maxPages := opts.MaxPagesPerWindow()
	win := domain.Window{Lower: lower}

	var res driven.ExtractResult
	var newest string

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		iter := fetcher.Fetch(ctx, build(win))
		res.Windows++

		pages := 0
		oldest := ""

		for pages < maxPages {
			page, ok, err := iter.Next(ctx)
			if err != nil {
				return res, fmt.Errorf("fetch window [%s, %s): %w", win.Lower, upperLabel(win), err)
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

			ts, err := page[len(page)-1].TimestampAt(timestampPath)
			if err != nil {
				return res, err
			}
			oldest = ts

			for _, rec := range page {
				if err := emit(rec); err != nil {
					return res, fmt.Errorf("emit record: %w", err)
				}
				res.Records++
			}
			pages++
		}

		// An empty window means the parent is drained; a window under
		// the cap means everything down to lower has been fetched.
		if pages == 0 || pages < maxPages {
			break
		}

		// The cap was hit: records older than the oldest one seen may
		// remain. Pull the upper bound back and query again. The lower
		// bound never moves.
		if !win.Open() && oldest >= win.Upper {
			return res, fmt.Errorf("%w: cursor %s does not narrow window upper bound %s",
				domain.ErrInvalidWindow, oldest, win.Upper)
		}
		logger.Debug("window truncated at %d pages, narrowing upper bound to %s", pages, oldest)
		win = win.Narrow(oldest)
	}

	res.Watermark = newest
	return res, nil
}

func upperLabel(w domain.Window) string {
	if w.Open() {
		return "now"
	}
	return w.Upper
}
