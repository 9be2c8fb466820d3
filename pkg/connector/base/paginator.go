package base

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ajitpratap0/tributary/pkg/connector/core"
)

// PageIterator is a lazy, pull-driven sequence of pages. Next fetches the
// next page and reports whether one was produced; Page returns it. The
// sequence is finite, single-pass, and not restartable: each logical
// extraction constructs a fresh iterator. Any error during a fetch step is
// logged and converted into end-of-data, never re-raised past the iterator
// boundary. Cancellation is simply ceasing to pull.
type PageIterator interface {
	// Next advances to the next page, returning false when pagination is done
	Next(ctx context.Context) bool

	// Page returns the page produced by the last successful Next
	Page() core.Page
}

// OffsetOptions configures offset pagination.
type OffsetOptions struct {
	// Limit is the page size requested per step (default 100). The limit
	// and offset query parameters are merged into Params on every request,
	// overwriting caller-supplied values of the same name.
	Limit int

	// MaxPages bounds the number of pages fetched; 0 means unbounded
	MaxPages int

	// Params are caller-supplied query parameters sent on every request
	Params map[string]string
}

// CursorOptions configures cursor pagination.
type CursorOptions struct {
	// CursorParam is the query parameter name carrying the cursor token
	// (default "cursor"). Absent on the first request.
	CursorParam string

	// CursorPath is the dotted path locating the next cursor in each
	// response body (default "next_cursor").
	CursorPath string

	// MaxPages bounds the number of pages fetched; 0 means unbounded
	MaxPages int

	// Params are caller-supplied query parameters sent on every request
	Params map[string]string
}

// PaginateOffset returns an iterator that walks an endpoint using numeric
// limit/offset pagination. Pagination ends on an empty page, a short page
// (fewer records than the limit), the MaxPages cutoff, or a fetch error.
func (bc *BaseConnector) PaginateOffset(endpoint string, opts OffsetOptions) PageIterator {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	return &offsetIterator{
		conn:     bc,
		endpoint: endpoint,
		opts:     opts,
	}
}

// PaginateCursor returns an iterator that walks an endpoint using opaque
// cursor tokens. Pagination ends on an empty page, an absent or falsy next
// cursor, the MaxPages cutoff, or a fetch error.
func (bc *BaseConnector) PaginateCursor(endpoint string, opts CursorOptions) PageIterator {
	if opts.CursorParam == "" {
		opts.CursorParam = "cursor"
	}
	if opts.CursorPath == "" {
		opts.CursorPath = "next_cursor"
	}
	return &cursorIterator{
		conn:     bc,
		endpoint: endpoint,
		opts:     opts,
	}
}

type offsetIterator struct {
	conn     *BaseConnector
	endpoint string
	opts     OffsetOptions

	offset    int
	pageCount int
	page      core.Page
	done      bool
}

func (it *offsetIterator) Next(ctx context.Context) bool {
	if it.done {
		return false
	}
	if it.opts.MaxPages > 0 && it.pageCount >= it.opts.MaxPages {
		it.done = true
		return false
	}

	params := mergeParams(it.opts.Params, map[string]string{
		"limit":  fmt.Sprintf("%d", it.opts.Limit),
		"offset": fmt.Sprintf("%d", it.offset),
	})

	data, err := it.conn.Get(ctx, it.endpoint, RequestOptions{Params: params})
	if err != nil {
		it.conn.logger.Error("offset pagination terminated",
			zap.String("endpoint", it.endpoint),
			zap.Int("offset", it.offset),
			zap.Error(err))
		it.conn.metrics.RecordTermination("offset")
		it.done = true
		return false
	}

	records := RecordsOf(data)
	if len(records) == 0 {
		it.done = true
		return false
	}

	it.page = records
	it.pageCount++
	it.conn.metrics.RecordPage("offset")

	// A short page signals end-of-data: yield it, then stop.
	if len(records) < it.opts.Limit {
		it.done = true
	} else {
		it.offset += it.opts.Limit
	}

	return true
}

func (it *offsetIterator) Page() core.Page {
	return it.page
}

type cursorIterator struct {
	conn     *BaseConnector
	endpoint string
	opts     CursorOptions

	cursor    interface{}
	pageCount int
	page      core.Page
	done      bool
}

func (it *cursorIterator) Next(ctx context.Context) bool {
	if it.done {
		return false
	}
	if it.opts.MaxPages > 0 && it.pageCount >= it.opts.MaxPages {
		it.done = true
		return false
	}

	params := mergeParams(it.opts.Params, nil)
	if it.cursor != nil {
		params[it.opts.CursorParam] = fmt.Sprintf("%v", it.cursor)
	}

	data, err := it.conn.Get(ctx, it.endpoint, RequestOptions{Params: params})
	if err != nil {
		it.conn.logger.Error("cursor pagination terminated",
			zap.String("endpoint", it.endpoint),
			zap.Int("page", it.pageCount),
			zap.Error(err))
		it.conn.metrics.RecordTermination("cursor")
		it.done = true
		return false
	}

	records := RecordsOf(data)
	if len(records) == 0 {
		it.done = true
		return false
	}

	it.page = records
	it.pageCount++
	it.conn.metrics.RecordPage("cursor")

	next, ok := NestedValue(data, it.opts.CursorPath)
	if !ok || emptyCursor(next) {
		// Yield the current page, then stop: no further requests are
		// issued once the cursor is absent.
		it.done = true
	} else {
		it.cursor = next
	}

	return true
}

func (it *cursorIterator) Page() core.Page {
	return it.page
}

// mergeParams copies base params and overlays overrides, never mutating the
// caller's map. Pagination state stays private to the iterator.
func mergeParams(base, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overrides))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range overrides {
		merged[key] = value
	}
	return merged
}
