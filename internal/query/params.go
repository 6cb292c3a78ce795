// Package query translates untrusted listing parameters into a bounded,
// validated page plan that the product repository can execute.
package query

import (
	"net/url"
	"strconv"
)

// Pagination bounds. MaxLimit caps the page size so a caller can never
// request an unbounded result set.
const (
	DefaultPage  = 1
	DefaultLimit = 12
	MaxLimit     = 100
)

// Params holds the typed listing parameters after parsing. Optional
// filters use pointers or empty strings for "absent"; malformed input
// never survives parsing.
type Params struct {
	Page     int
	Limit    int
	Category string
	Brand    string
	Featured *bool
	Status   string
	MinPrice *float64
	MaxPrice *float64
	Search   string
	Sort     string
}

// ParseListParams extracts listing parameters from a raw query string.
// Every field has a total parser: malformed values fall back to the
// default (pagination) or are treated as absent (filters) rather than
// propagating into the store.
func ParseListParams(values url.Values) Params {
	p := Params{
		Page:   DefaultPage,
		Limit:  DefaultLimit,
		Status: "active",
	}

	if v, ok := parseInt(values.Get("page")); ok && v > 0 {
		p.Page = v
	}

	if v, ok := parseInt(values.Get("limit")); ok && v > 0 {
		p.Limit = v
		if p.Limit > MaxLimit {
			p.Limit = MaxLimit
		}
	}

	p.Category = values.Get("category")
	p.Brand = values.Get("brand")
	p.Search = values.Get("search")
	p.Sort = values.Get("sort")

	// Presence of the parameter adds the predicate; only the literal
	// string "true" means true.
	if v := values.Get("featured"); v != "" {
		featured := v == "true"
		p.Featured = &featured
	}

	if v := values.Get("status"); v != "" {
		p.Status = v
	}

	if v, ok := parseFloat(values.Get("minPrice")); ok {
		p.MinPrice = &v
	}

	if v, ok := parseFloat(values.Get("maxPrice")); ok {
		p.MaxPrice = &v
	}

	return p
}

// Offset returns the number of rows to skip for the requested page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
