package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any page can hold.
	MaxLimit = 100
)

// Params holds page-number pagination inputs from controllers or services.
type Params struct {
	Limit int
	Page  int
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Slice returns the requested 1-based page of items. Pages past the end are empty.
func Slice[T any](items []T, params Params) Page[T] {
	limit := NormalizeLimit(params.Limit)
	page := params.Page
	if page < 1 {
		page = 1
	}
	total := len(items)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	out := make([]T, 0)
	if start < total {
		end := start + limit
		if end > total {
			end = total
		}
		out = append(out, items[start:end]...)
	}

	return Page[T]{
		Items:      out,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
