package dto

import "strconv"

// Pagination carries normalized page/page_size query values.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// ParsePagination normalizes raw query values: page defaults to 1, page_size
// to 10 and is capped at 100.
func ParsePagination(pageStr, sizeStr string) Pagination {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Meta builds the pagination block included in list payloads.
func (p Pagination) Meta(total int64) map[string]interface{} {
	return map[string]interface{}{
		"page":        p.Page,
		"page_size":   p.PageSize,
		"total":       total,
		"total_pages": int((total + int64(p.PageSize) - 1) / int64(p.PageSize)),
	}
}
