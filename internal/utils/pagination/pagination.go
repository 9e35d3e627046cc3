package pagination

// DefaultPageSize is used when the client does not request a page size.
const DefaultPageSize = 25

// MaxPageSize caps how many documents a single page may return.
const MaxPageSize = 200

// Params are validated pagination values with the derived query offset.
type Params struct {
	Page     int
	PageSize int
	Offset   int
}

// Validate clamps raw pagination input: page is at least 1, pageSize falls
// within [1, max]. A non-positive max falls back to MaxPageSize.
func Validate(page, pageSize, max int) Params {
	if max <= 0 {
		max = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > max {
		pageSize = max
	}
	return Params{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// MaxPage computes the last page number for a filtered result count. It is
// never below 1 so that clients can always navigate to "the" page.
func MaxPage(filtered, pageSize int) int {
	if filtered <= 0 || pageSize <= 0 {
		return 1
	}
	pages := filtered / pageSize
	if filtered%pageSize != 0 {
		pages++
	}
	return pages
}
