// Package paging provides page/limit pagination for list endpoints.
//
// Lists are offset-paginated: clients pass ?page=N&limit=M and get back a
// meta block with the total count and page count. Defaults keep unbounded
// queries off the database.
package paging

import (
	"net/http"
	"strconv"
)

// DefaultLimit is the page size used when the client does not ask for one.
const DefaultLimit = 10

// MaxLimit caps the page size a client may request.
const MaxLimit = 100

// Params holds parsed pagination inputs.
type Params struct {
	Page  int
	Limit int
}

// Parse extracts page and limit query parameters, clamping to sane values.
func Parse(r *http.Request) Params {
	p := Params{Page: 1, Limit: DefaultLimit}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.Limit = n
			if p.Limit > MaxLimit {
				p.Limit = MaxLimit
			}
		}
	}
	return p
}

// Skip returns the number of documents to skip for this page.
func (p Params) Skip() int64 {
	return int64((p.Page - 1) * p.Limit)
}

// Meta is the pagination block returned alongside list results.
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

// NewMeta computes the meta block for a total count.
func NewMeta(p Params, total int64) Meta {
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}
	return Meta{Total: total, Page: p.Page, Limit: p.Limit, Pages: pages}
}
