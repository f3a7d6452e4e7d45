package service

const maxPerPage = 100

// ListResult aggregates a page of items with its paging metadata.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	TotalPages int   `json:"totalPages"`
}

func newListResult[T any](page, perPage, fallback int) ListResult[T] {
	return ListResult[T]{
		Items:   []T{},
		Page:    normalizePage(page),
		PerPage: normalizePerPage(perPage, fallback),
	}
}

func (r *ListResult[T]) offset() int {
	return (r.Page - 1) * r.PerPage
}

func (r *ListResult[T]) finish() {
	r.TotalPages = calculateTotalPages(r.Total, r.PerPage)
	if r.Items == nil {
		r.Items = []T{}
	}
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	if perPage > maxPerPage {
		return maxPerPage
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
