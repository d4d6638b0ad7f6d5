// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows in a paged list.
const PageSize = 50

// MaxPageSize caps ?limit=.
const MaxPageSize = 200

// ParseStart extracts the human-friendly "start" query parameter (1-based
// index). Returns 1 if not present or invalid.
func ParseStart(r *http.Request) int {
	return positive(query.Get(r, "start"), 1)
}

// ParseLimit extracts ?limit=, defaulting to PageSize and capped at
// MaxPageSize.
func ParseLimit(r *http.Request) int {
	n := positive(query.Get(r, "limit"), PageSize)
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

func positive(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Page is one window of a list plus what a client needs to ask for the
// next one.
type Page[T any] struct {
	Items     []T  `json:"items"`
	Start     int  `json:"start"`
	End       int  `json:"end"`
	Total     int  `json:"total"`
	HasPrev   bool `json:"hasPrev"`
	HasNext   bool `json:"hasNext"`
	PrevStart int  `json:"prevStart,omitempty"`
	NextStart int  `json:"nextStart,omitempty"`
}

// Slice returns the window of rows beginning at the 1-based start. Start
// and End are 0 when the window is empty.
func Slice[T any](rows []T, start, limit int) Page[T] {
	if start < 1 {
		start = 1
	}
	if limit < 1 {
		limit = PageSize
	}
	total := len(rows)
	p := Page[T]{Items: []T{}, Total: total}

	from := start - 1
	if from >= total {
		p.HasPrev = total > 0
		if p.HasPrev {
			p.PrevStart = max(1, total-limit+1)
		}
		return p
	}
	to := min(from+limit, total)

	p.Items = rows[from:to]
	p.Start = from + 1
	p.End = to
	if from > 0 {
		p.HasPrev = true
		p.PrevStart = max(1, start-limit)
	}
	if to < total {
		p.HasNext = true
		p.NextStart = to + 1
	}
	return p
}
