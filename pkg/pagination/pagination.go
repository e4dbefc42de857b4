package pagination

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JaimeStill/crudify/pkg/query"
)

// DefaultOptions is the raw options value applied when a request carries none.
const DefaultOptions = `{"pagination": false}`

// Options are the client supplied paging controls.
// A nil Pagination means paging is enabled.
type Options struct {
	Page       *int       `json:"page,omitempty"`
	Limit      *int       `json:"limit,omitempty"`
	Offset     *int       `json:"offset,omitempty"`
	Sort       query.Sort `json:"sort,omitempty"`
	Pagination *bool      `json:"pagination,omitempty"`
}

// ParseOptions decodes a JSON encoded options object.
// An empty string decodes as DefaultOptions.
func ParseOptions(raw string) (Options, error) {
	if strings.TrimSpace(raw) == "" {
		raw = DefaultOptions
	}

	var opts Options
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return Options{}, fmt.Errorf("invalid pagination: %w", err)
	}
	return opts, nil
}

// Enabled reports whether the options request a bounded page.
func (o Options) Enabled() bool {
	return o.Pagination == nil || *o.Pagination
}

// Window is the resolved slice of a result set that a store should return.
// A zero Limit means no limit.
type Window struct {
	Enabled bool
	Page    int
	Limit   int
	Offset  int
	Sort    []query.SortField
}

// Resolve normalizes the options against cfg.
// When an offset is given it takes precedence over page and the page is derived from it.
func (o Options) Resolve(cfg Config) Window {
	w := Window{
		Enabled: o.Enabled(),
		Page:    1,
		Sort:    o.Sort,
	}
	if !w.Enabled {
		return w
	}

	w.Limit = cfg.DefaultPageSize
	if o.Limit != nil && *o.Limit > 0 {
		w.Limit = *o.Limit
	}
	if w.Limit > cfg.MaxPageSize {
		w.Limit = cfg.MaxPageSize
	}

	switch {
	case o.Offset != nil && *o.Offset > 0:
		w.Offset = *o.Offset
		w.Page = w.Offset/w.Limit + 1
	case o.Page != nil && *o.Page > 1:
		w.Page = *o.Page
		w.Offset = (w.Page - 1) * w.Limit
	}
	return w
}

// Result holds a page of data along with pagination metadata.
type Result[T any] struct {
	Docs          []T  `json:"docs"`
	TotalDocs     int  `json:"totalDocs"`
	Limit         int  `json:"limit"`
	Page          int  `json:"page"`
	TotalPages    int  `json:"totalPages"`
	PagingCounter int  `json:"pagingCounter"`
	HasPrevPage   bool `json:"hasPrevPage"`
	HasNextPage   bool `json:"hasNextPage"`
	PrevPage      *int `json:"prevPage"`
	NextPage      *int `json:"nextPage"`
}

// NewResult creates a Result for docs drawn from a set of total documents through w.
func NewResult[T any](docs []T, total int, w Window) *Result[T] {
	if docs == nil {
		docs = []T{}
	}

	limit := w.Limit
	if !w.Enabled {
		limit = total
	}

	totalPages := 1
	if limit > 0 && total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	page := max(w.Page, 1)

	r := &Result[T]{
		Docs:          docs,
		TotalDocs:     total,
		Limit:         limit,
		Page:          page,
		TotalPages:    totalPages,
		PagingCounter: w.Offset + 1,
		HasPrevPage:   page > 1,
		HasNextPage:   page < totalPages,
	}

	if r.HasPrevPage {
		prev := page - 1
		r.PrevPage = &prev
	}
	if r.HasNextPage {
		next := page + 1
		r.NextPage = &next
	}
	return r
}
