package pagination

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSorter = Sorter{
	Allowed:  []string{"id", "created", "name"},
	Default:  "id",
	TieBreak: "id",
}

func fixedCount(n int64) CountFunc {
	return func(context.Context) (int64, error) { return n, nil }
}

func TestParseRequestDefaults(t *testing.T) {
	req := ParseRequest(url.Values{})
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, DefaultPageSize, req.PageSize)
	assert.Empty(t, req.SortBy)
}

func TestParseRequestExplicit(t *testing.T) {
	req := ParseRequest(url.Values{
		"page":      {"3"},
		"page_size": {"25"},
		"sort_by":   {"name"},
	})
	assert.Equal(t, 3, req.Page)
	assert.Equal(t, 25, req.PageSize)
	assert.Equal(t, "name", req.SortBy)
}

func TestParseRequestKeepsOutOfRangePage(t *testing.T) {
	// Negative pages must reach Paginate so it can fail with no-such-page
	// instead of being clamped silently.
	req := ParseRequest(url.Values{"page": {"-10"}})
	assert.Equal(t, -10, req.Page)
}

func TestPaginateUnknownSortBy(t *testing.T) {
	for _, field := range []string{"updated", "summary", "name; DROP TABLE roles"} {
		req := Request{Page: 1, PageSize: 10, SortBy: field}
		_, _, err := Paginate(context.Background(), req, testSorter, fixedCount(5))

		var sortErr *UnknownSortByError
		require.ErrorAs(t, err, &sortErr, "field %q", field)
		assert.Equal(t, field, sortErr.Field)
	}
}

func TestPaginateAllowedSortByNeverFails(t *testing.T) {
	for _, field := range []string{"", "id", "created", "name"} {
		req := Request{Page: 1, PageSize: 10, SortBy: field}
		_, _, err := Paginate(context.Background(), req, testSorter, fixedCount(5))
		assert.NoError(t, err, "field %q", field)
	}
}

func TestPaginateSortByPrecedesPageCheck(t *testing.T) {
	// Both the sort field and the page are invalid; the sort check wins.
	req := Request{Page: 99, PageSize: 10, SortBy: "bogus"}
	_, _, err := Paginate(context.Background(), req, testSorter, fixedCount(5))

	var sortErr *UnknownSortByError
	assert.ErrorAs(t, err, &sortErr)
}

func TestPaginateNoSuchPage(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		total int64
	}{
		{"page zero", 0, 5},
		{"negative page", -10, 5},
		{"beyond last page", 2, 10},
		{"far beyond last page", 10, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{Page: tt.page, PageSize: 10}
			_, _, err := Paginate(context.Background(), req, testSorter, fixedCount(tt.total))

			var pageErr *NoSuchPageError
			require.ErrorAs(t, err, &pageErr)
			assert.Equal(t, tt.page, pageErr.Page)
		})
	}
}

func TestPaginateEmptyCollectionHasOnePage(t *testing.T) {
	req := Request{Page: 1, PageSize: 10}
	window, filter, err := Paginate(context.Background(), req, testSorter, fixedCount(0))

	require.NoError(t, err)
	assert.Equal(t, int64(0), filter.Total)
	assert.Equal(t, 0, window.Offset)
}

func TestPaginateLastPartialPage(t *testing.T) {
	// 28 rows at page size 10 gives pages 1..3.
	req := Request{Page: 3, PageSize: 10}
	window, filter, err := Paginate(context.Background(), req, testSorter, fixedCount(28))

	require.NoError(t, err)
	assert.Equal(t, 20, window.Offset)
	assert.Equal(t, 10, window.Limit)
	assert.Equal(t, int64(28), filter.Total)

	_, _, err = Paginate(context.Background(), Request{Page: 4, PageSize: 10}, testSorter, fixedCount(28))
	var pageErr *NoSuchPageError
	assert.ErrorAs(t, err, &pageErr)
}

func TestPaginateExactPageBoundary(t *testing.T) {
	// 30 rows at page size 10 gives exactly 3 pages, not 4.
	_, _, err := Paginate(context.Background(), Request{Page: 3, PageSize: 10}, testSorter, fixedCount(30))
	assert.NoError(t, err)

	_, _, err = Paginate(context.Background(), Request{Page: 4, PageSize: 10}, testSorter, fixedCount(30))
	var pageErr *NoSuchPageError
	assert.ErrorAs(t, err, &pageErr)
}

func TestPaginateWindowOrdering(t *testing.T) {
	req := Request{Page: 2, PageSize: 5, SortBy: "name"}
	window, filter, err := Paginate(context.Background(), req, testSorter, fixedCount(12))

	require.NoError(t, err)
	assert.Equal(t, "name ASC, id ASC", window.OrderBy)
	assert.Equal(t, 5, window.Limit)
	assert.Equal(t, 5, window.Offset)
	assert.Equal(t, Filter{Page: 2, PageSize: 5, Total: 12}, filter)
}

func TestPaginateCountError(t *testing.T) {
	countErr := errors.New("connection refused")
	failing := func(context.Context) (int64, error) { return 0, countErr }

	_, _, err := Paginate(context.Background(), Request{Page: 1, PageSize: 10}, testSorter, failing)
	assert.ErrorIs(t, err, countErr)
}
