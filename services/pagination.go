package services

// Pager describes the pagination controls of a list page.
type Pager struct {
	Page       int
	TotalPages int
}

// Visible reports whether the controls are shown at all.
func (p Pager) Visible() bool { return p.TotalPages > 1 }

// HasPrev is false on the first page.
func (p Pager) HasPrev() bool { return p.Page > 1 }

// HasNext is false on the last page.
func (p Pager) HasNext() bool { return p.Page < p.TotalPages }

// ClampPage keeps page inside [1, totalPages]. With no pages at all the
// result is 1.
func ClampPage(page, totalPages int) int {
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}
