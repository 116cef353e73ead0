package tableview

type Page[T any] struct {
	Items     []T `json:"items"`
	Total     int `json:"total"`
	Page      int `json:"page"`
	Size      int `json:"size"`
	PageCount int `json:"pageCount"`
}

// Paginate slices [page*size, page*size+size) out of filtered.
func Paginate[T any](filtered []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 0 {
		page = 0
	}

	total := len(filtered)
	start := total
	// page*size may overflow for huge pages
	if page <= (total-1)/size {
		start = page * size
	}
	end := min(start+size, total)

	items := make([]T, end-start)
	copy(items, filtered[start:end])

	return Page[T]{
		Items:     items,
		Total:     total,
		Page:      page,
		Size:      size,
		PageCount: (total + size - 1) / size,
	}
}
