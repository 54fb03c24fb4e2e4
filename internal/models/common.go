package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// ListParams captures the common list-query criteria shared by every
// collection endpoint. Level-specific filter selections live on top of it.
type ListParams struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Normalize clamps paging values into a usable range.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 200 {
		p.PageSize = 200
	}
	if p.SortOrder != "desc" {
		p.SortOrder = "asc"
	}
}

// Offset returns the zero-based slice offset for the current page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
