package utils

// Pagination describes one page of a list response
type Pagination struct {
	Total      int `json:"total" msgpack:"total"`
	Page       int `json:"page" msgpack:"page"`
	PerPage    int `json:"per_page" msgpack:"per_page"`
	TotalPages int `json:"total_pages" msgpack:"total_pages"`
}

// TotalPages returns ceil(total/limit), or 0 when there is nothing to page
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Paginate returns items[(page-1)*limit : page*limit], clipped to the slice.
// A page past the end yields an empty, non-nil slice.
func Paginate[T any](items []T, page, limit int) ([]T, Pagination) {
	meta := Pagination{
		Total:      len(items),
		Page:       page,
		PerPage:    limit,
		TotalPages: TotalPages(len(items), limit),
	}

	// Compare page indices before multiplying so huge pages cannot overflow start
	if page < 1 || limit < 1 || page > meta.TotalPages {
		return []T{}, meta
	}
	start := (page - 1) * limit
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], meta
}

// ListResponse is the envelope of every list endpoint
type ListResponse[T any, S any] struct {
	Data       []T        `json:"data" msgpack:"data"`
	Pagination Pagination `json:"pagination" msgpack:"pagination"`
	Stats      S          `json:"stats" msgpack:"stats"`
}
