package pagination

import "gorm.io/gorm"

// Pagination is a 1-indexed page request.
type Pagination struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"limit,default=20"`
}

// PageInfo describes the filtered result set, independent of the page slice.
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Normalize clamps the request into [1, maxPageSize], applying def when the
// page size is unset.
func (p Pagination) Normalize(def, maxPageSize int) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = def
	}
	if maxPageSize > 0 && p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

// Offset returns the row offset for the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Apply adds LIMIT/OFFSET to stmt.
func (p Pagination) Apply(stmt *gorm.DB) *gorm.DB {
	return stmt.Offset(p.Offset()).Limit(p.PageSize)
}

// BuildPageInfo computes totals from the filtered count.
func BuildPageInfo(p Pagination, total int64) PageInfo {
	totalPages := 0
	if p.PageSize > 0 {
		totalPages = int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	}
	return PageInfo{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
