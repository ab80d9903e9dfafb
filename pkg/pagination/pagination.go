package pagination

const (
	// DefaultPageSize is the standard page size when one is not provided.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows any page query can request.
	MaxPageSize = 100
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Page describes the slice of results a query returned.
type Page struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// Normalize clamps the page number and page size into their allowed ranges.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	normalized := p.Normalize()
	return (normalized.Page - 1) * normalized.PageSize
}

// NewPage assembles page metadata for a result set of totalItems rows.
func NewPage(params Params, totalItems int64) Page {
	normalized := params.Normalize()
	totalPages := int((totalItems + int64(normalized.PageSize) - 1) / int64(normalized.PageSize))
	return Page{
		Page:       normalized.Page,
		PageSize:   normalized.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}
