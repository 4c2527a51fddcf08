package pagination

// Page-number pagination used across all list endpoints.

const (
	// DefaultPerPage is the standard page size when per_page is not provided.
	DefaultPerPage = 20
	// MaxPerPage caps how many rows any list query can request.
	MaxPerPage = 100
)

// Params holds pagination inputs from controllers or services.
type Params struct {
	Page    int
	PerPage int
}

// Meta describes the page that was returned.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// Normalize clamps the params to sane values: page >= 1 and
// 1 <= per_page <= MaxPerPage, with DefaultPerPage as the fallback.
func Normalize(p Params) Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	n := Normalize(p)
	return (n.Page - 1) * n.PerPage
}

// Limit returns the row limit for the normalized params.
func (p Params) Limit() int {
	return Normalize(p).PerPage
}

// BuildMeta derives the response metadata for a total row count.
func BuildMeta(p Params, totalItems int64) Meta {
	n := Normalize(p)
	totalPages := int((totalItems + int64(n.PerPage) - 1) / int64(n.PerPage))
	return Meta{
		CurrentPage: n.Page,
		PerPage:     n.PerPage,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasNext:     n.Page < totalPages,
		HasPrev:     n.Page > 1 && totalItems > 0,
	}
}
