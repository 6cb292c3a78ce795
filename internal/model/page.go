package model

// PageInfo describes the position of a page within the full result set.
type PageInfo struct {
	Current int  `json:"current"`
	Pages   int  `json:"pages"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// PagedProducts is the listing response envelope.
type PagedProducts struct {
	Items      []Product `json:"items"`
	Pagination PageInfo  `json:"pagination"`
}

// NewPageInfo computes pagination metadata for a page of a result set
// with total matching items.
func NewPageInfo(page, limit, total int) PageInfo {
	pages := total / limit
	if total%limit > 0 {
		pages++
	}

	return PageInfo{
		Current: page,
		Pages:   pages,
		Total:   total,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}
