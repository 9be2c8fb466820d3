package base

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tributary/pkg/connector/core"
	"github.com/ajitpratap0/tributary/pkg/json"
)

// offsetServer serves pages of the given sizes keyed by offset, mimicking an
// API with numeric pagination. Records are {"id": n} objects.
func offsetServer(t *testing.T, limit int, pageSizes []int, hits *int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++

		gotLimit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		assert.NoError(t, err)
		assert.Equal(t, limit, gotLimit)

		offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
		assert.NoError(t, err)

		pageIndex := offset / limit
		size := 0
		if pageIndex < len(pageSizes) {
			size = pageSizes[pageIndex]
		}

		page := make([]map[string]interface{}, size)
		for i := range page {
			page[i] = map[string]interface{}{"id": offset + i + 1}
		}
		_ = json.MarshalToWriter(w, page)
	}))
}

func TestPaginateOffset_WalksUntilShortPage(t *testing.T) {
	hits := 0
	server := offsetServer(t, 100, []int{100, 100, 40}, &hits)
	defer server.Close()

	bc := newTestConnector(t, server.URL)
	it := bc.PaginateOffset("things", OffsetOptions{Limit: 100})

	var sizes []int
	for it.Next(context.Background()) {
		sizes = append(sizes, len(it.Page()))
	}

	assert.Equal(t, []int{100, 100, 40}, sizes)
	assert.Equal(t, 3, hits, "the short page ends pagination without an extra request")
	assert.False(t, it.Next(context.Background()), "a finished iterator stays finished")
}

func TestPaginateOffset_FullThenEmptyPage(t *testing.T) {
	hits := 0
	server := offsetServer(t, 50, []int{50, 0}, &hits)
	defer server.Close()

	bc := newTestConnector(t, server.URL)
	it := bc.PaginateOffset("things", OffsetOptions{Limit: 50})

	var sizes []int
	for it.Next(context.Background()) {
		sizes = append(sizes, len(it.Page()))
	}

	assert.Equal(t, []int{50}, sizes, "an empty page is never yielded")
	assert.Equal(t, 2, hits)
}

func TestPaginateOffset_EmptyFirstPage(t *testing.T) {
	hits := 0
	server := offsetServer(t, 100, nil, &hits)
	defer server.Close()

	bc := newTestConnector(t, server.URL)
	it := bc.PaginateOffset("things", OffsetOptions{})

	assert.False(t, it.Next(context.Background()))
	assert.Equal(t, 1, hits)
}

func TestPaginateOffset_MaxPagesCutoff(t *testing.T) {
	hits := 0
	server := offsetServer(t, 10, []int{10, 10, 10, 10}, &hits)
	defer server.Close()

	bc := newTestConnector(t, server.URL)
	it := bc.PaginateOffset("things", OffsetOptions{Limit: 10, MaxPages: 2})

	pages := 0
	for it.Next(context.Background()) {
		pages++
	}

	assert.Equal(t, 2, pages)
	assert.Equal(t, 2, hits, "no request is issued past the page cap")
}

func TestPaginateOffset_FetchErrorEndsIteration(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		offset := r.URL.Query().Get("offset")
		if offset != "0" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		page := make([]map[string]interface{}, 10)
		for i := range page {
			page[i] = map[string]interface{}{"id": i + 1}
		}
		_ = json.MarshalToWriter(w, page)
	}))
	defer server.Close()

	bc := newTestConnector(t, server.URL)
	bc.RetryPolicy().MaxAttempts = 1
	it := bc.PaginateOffset("things", OffsetOptions{Limit: 10})

	pages := 0
	for it.Next(context.Background()) {
		pages++
	}

	assert.Equal(t, 1, pages, "pages before the failure are still yielded")
	assert.Equal(t, 2, hits)
}

func TestPaginateOffset_MergesCallerParams(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	bc := newTestConnector(t, server.URL)
	callerParams := map[string]string{"state": "open", "limit": "9999"}
	it := bc.PaginateOffset("things", OffsetOptions{Limit: 25, Params: callerParams})

	it.Next(context.Background())

	assert.Equal(t, []string{"open"}, gotQuery["state"])
	assert.Equal(t, []string{"25"}, gotQuery["limit"], "pagination params overwrite caller values")
	assert.Equal(t, []string{"0"}, gotQuery["offset"])
	assert.Equal(t, "9999", callerParams["limit"], "the caller's map is never mutated")
}

func TestPaginateCursor_FollowsCursorChain(t *testing.T) {
	pages := map[string]map[string]interface{}{
		"": {
			"data":        []interface{}{map[string]interface{}{"id": 1}},
			"next_cursor": "c2",
		},
		"c2": {
			"data":        []interface{}{map[string]interface{}{"id": 2}},
			"next_cursor": "c3",
		},
		"c3": {
			"data": []interface{}{map[string]interface{}{"id": 3}},
		},
	}

	var gotCursors []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cursor := r.URL.Query().Get("cursor")
		gotCursors = append(gotCursors, cursor)
		_ = json.MarshalToWriter(w, pages[cursor])
	}))
	defer server.Close()

	bc := newTestConnector(t, server.URL)
	it := bc.PaginateCursor("things", CursorOptions{})

	count := 0
	for it.Next(context.Background()) {
		count++
		require.Len(t, it.Page(), 1)
	}

	assert.Equal(t, 3, count)
	assert.Equal(t, []string{"", "c2", "c3"}, gotCursors,
		"the first request carries no cursor; later ones carry the previous response's token")
}

func TestPaginateCursor_EmptyCursorStopsAfterYield(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_ = json.MarshalToWriter(w, map[string]interface{}{
			"data":        []interface{}{map[string]interface{}{"id": 1}},
			"next_cursor": "",
		})
	}))
	defer server.Close()

	bc := newTestConnector(t, server.URL)
	it := bc.PaginateCursor("things", CursorOptions{})

	assert.True(t, it.Next(context.Background()))
	assert.False(t, it.Next(context.Background()))
	assert.Equal(t, 1, hits, "an empty cursor ends pagination without another request")
}

func TestPaginateCursor_NestedCursorPath(t *testing.T) {
	responses := []map[string]interface{}{
		{
			"results": []interface{}{map[string]interface{}{"id": 1}},
			"paging": map[string]interface{}{
				"cursors": map[string]interface{}{"after": "tok"},
			},
		},
		{
			"results": []interface{}{map[string]interface{}{"id": 2}},
		},
	}

	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := responses[hits]
		hits++
		if hits > 1 {
			assert.Equal(t, "tok", r.URL.Query().Get("after"))
		}
		_ = json.MarshalToWriter(w, resp)
	}))
	defer server.Close()

	bc := newTestConnector(t, server.URL)
	it := bc.PaginateCursor("things", CursorOptions{
		CursorParam: "after",
		CursorPath:  "paging.cursors.after",
	})

	count := 0
	for it.Next(context.Background()) {
		count++
	}

	assert.Equal(t, 2, count)
	assert.Equal(t, 2, hits)
}

func TestPaginateCursor_MaxPagesCutoff(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_ = json.MarshalToWriter(w, map[string]interface{}{
			"data":        []interface{}{map[string]interface{}{"id": hits}},
			"next_cursor": fmt.Sprintf("c%d", hits+1),
		})
	}))
	defer server.Close()

	bc := newTestConnector(t, server.URL)
	it := bc.PaginateCursor("things", CursorOptions{MaxPages: 3})

	pages := 0
	for it.Next(context.Background()) {
		pages++
	}

	assert.Equal(t, 3, pages)
	assert.Equal(t, 3, hits)
}

func TestPaginateOffset_RecordsRoundTrip(t *testing.T) {
	items := []map[string]interface{}{
		{"id": 1}, {"id": 2}, {"id": 3},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		end := offset + limit
		if end > len(items) {
			end = len(items)
		}
		page := []map[string]interface{}{}
		if offset < len(items) {
			page = items[offset:end]
		}
		_ = json.MarshalToWriter(w, page)
	}))
	defer server.Close()

	bc := newTestConnector(t, server.URL)
	it := bc.PaginateOffset("items", OffsetOptions{Limit: 2})

	var got []core.Page
	for it.Next(context.Background()) {
		got = append(got, it.Page())
	}

	require.Len(t, got, 2)
	assert.Len(t, got[0], 2)
	assert.Len(t, got[1], 1)
}
