package request

import "travel-agency/pkg/utils"

// Listing pages are rendered as card grids of three or four columns.
const (
	DefaultPerPage = 12
	MaxPerPage     = 48
)

// PaginatedRequest comes from ?page=&per_page=. Out of range values are
// normalised instead of rejected so an old shared link still shows a page.
type PaginatedRequest struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

func (p PaginatedRequest) PageNumber() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

func (p PaginatedRequest) Limit() int {
	switch {
	case p.PerPage < 1:
		return DefaultPerPage
	case p.PerPage > MaxPerPage:
		return MaxPerPage
	default:
		return p.PerPage
	}
}

// Offset is derived from the normalised page and limit, so it always lines
// up with the rows actually returned.
func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.PageNumber(), p.Limit())
}
