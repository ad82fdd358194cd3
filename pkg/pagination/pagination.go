// Package pagination provides the generic query-shaping engine used by list
// endpoints: it validates a page/page_size/sort_by request against an
// entity's allow-listed sort fields and produces a bounded result window
// plus filter metadata.
package pagination

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// DefaultPageSize is the fixed page size applied when a request does not
// carry an explicit page_size.
const DefaultPageSize = 10

// Request holds the caller-supplied pagination parameters.
type Request struct {
	Page     int
	PageSize int
	SortBy   string
}

// ParseRequest extracts pagination parameters from query values, applying
// defaults for everything absent or unparsable. Range validation is left to
// Paginate so that out-of-range values fail loudly instead of being
// silently clamped.
func ParseRequest(q url.Values) Request {
	req := Request{
		Page:     1,
		PageSize: DefaultPageSize,
	}
	if s := q.Get("page"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			req.Page = v
		}
	}
	if s := q.Get("page_size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			req.PageSize = v
		}
	}
	req.SortBy = q.Get("sort_by")
	return req
}

// Sorter describes the orderable surface of one entity: the allow-listed
// sort fields, the default sort field, and the surrogate-key column used as
// a deterministic tie-breaker.
type Sorter struct {
	Allowed  []string
	Default  string
	TieBreak string
}

// Resolve validates sortBy against the allow-list, returning the column to
// order by. An empty sortBy resolves to the default.
func (s Sorter) Resolve(sortBy string) (string, error) {
	if sortBy == "" {
		return s.Default, nil
	}
	for _, f := range s.Allowed {
		if f == sortBy {
			return sortBy, nil
		}
	}
	return "", &UnknownSortByError{Field: sortBy}
}

// Filter is the metadata returned alongside every paginated listing.
type Filter struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

// Window is the validated query window to apply to the base query. OrderBy
// is built exclusively from allow-listed field names and the sorter's
// tie-break column.
type Window struct {
	OrderBy string
	Limit   int
	Offset  int
}

// CountFunc reports the total number of rows matching the base query.
type CountFunc func(ctx context.Context) (int64, error)

// Paginate validates req against the sorter and the collection size.
//
// Validation order: sort_by membership first, then the page bound against
// ceil(total/page_size) with a minimum of one page even for an empty
// collection. On success it returns the query window and filter metadata.
func Paginate(ctx context.Context, req Request, sorter Sorter, count CountFunc) (Window, Filter, error) {
	orderField, err := sorter.Resolve(req.SortBy)
	if err != nil {
		return Window{}, Filter{}, err
	}

	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total, err := count(ctx)
	if err != nil {
		return Window{}, Filter{}, fmt.Errorf("count rows: %w", err)
	}

	pages := (total + int64(pageSize) - 1) / int64(pageSize)
	if pages < 1 {
		pages = 1
	}
	if req.Page < 1 || int64(req.Page) > pages {
		return Window{}, Filter{}, &NoSuchPageError{Page: req.Page}
	}

	window := Window{
		OrderBy: orderField + " ASC, " + sorter.TieBreak + " ASC",
		Limit:   pageSize,
		Offset:  (req.Page - 1) * pageSize,
	}
	filter := Filter{
		Page:     req.Page,
		PageSize: pageSize,
		Total:    total,
	}
	return window, filter, nil
}

// UnknownSortByError reports a sort_by value outside the allow-list.
type UnknownSortByError struct {
	Field string
}

func (e *UnknownSortByError) Error() string {
	return "unknown sort field: " + e.Field
}

// NoSuchPageError reports a page number outside the available range.
type NoSuchPageError struct {
	Page int
}

func (e *NoSuchPageError) Error() string {
	return "no such page: " + strconv.Itoa(e.Page)
}
