package domain

// PageData contains pagination information for list responses.
type PageData struct {
	CurrentPage int
	TotalPages  int
	PerPage     int
	Total       int
	HasPrevious bool
	HasNext     bool
	PrevPage    int
	NextPage    int
}

// NewPageData normalizes page and perPage against total. Pages are
// 1-indexed; out-of-range pages are clamped to the last page.
func NewPageData(page, perPage, total int) PageData {
	if perPage < 1 {
		perPage = 1
	}
	totalPages := total / perPage
	if total%perPage > 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	d := PageData{
		CurrentPage: page,
		TotalPages:  totalPages,
		PerPage:     perPage,
		Total:       total,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}
	if d.HasPrevious {
		d.PrevPage = page - 1
	}
	if d.HasNext {
		d.NextPage = page + 1
	}
	return d
}

// PageRange returns a slice of page numbers for pagination display.
// Returns -1 for ellipsis positions.
func PageRange(currentPage, totalPages int) []int {
	if totalPages <= 7 {
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	pages := []int{1}

	start := max(currentPage-1, 2)
	end := min(currentPage+1, totalPages-1)

	if start > 2 {
		pages = append(pages, -1)
	}
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	if end < totalPages-1 {
		pages = append(pages, -1)
	}

	return append(pages, totalPages)
}
