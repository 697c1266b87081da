package tracker

// PageChange describes a page-state transition: emitted whenever the
// effective page index changes or the page count itself changes, so
// dependent displays refresh either way.
type PageChange struct {
	Page       int
	TotalPages int
}

// Paginator maintains 1-based page state over a dynamically sized
// collection. It is not safe for concurrent use; the controller is its
// single writer.
type Paginator struct {
	page     int
	size     int
	total    int
	onChange func(PageChange)
}

// NewPaginator creates a Paginator at page 1 with an empty collection.
// onChange may be nil.
func NewPaginator(pageSize int, onChange func(PageChange)) *Paginator {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Paginator{
		page:     1,
		size:     pageSize,
		onChange: onChange,
	}
}

// Page returns the current 1-based page index.
func (p *Paginator) Page() int { return p.page }

// PageSize returns the fixed page size.
func (p *Paginator) PageSize() int { return p.size }

// TotalItems returns the last total fed via UpdateTotal.
func (p *Paginator) TotalItems() int { return p.total }

// TotalPages is always at least 1, even for an empty collection.
func (p *Paginator) TotalPages() int {
	pages := (p.total + p.size - 1) / p.size
	if pages < 1 {
		return 1
	}
	return pages
}

// GoTo navigates to page n. Out-of-range targets and the current page are
// no-ops. Returns whether the page actually changed.
func (p *Paginator) GoTo(n int) bool {
	if n < 1 || n > p.TotalPages() || n == p.page {
		return false
	}
	p.page = n
	p.signal()
	return true
}

// UpdateTotal replaces the collection size. resetToFirst forces page 1;
// otherwise a page beyond the new page count is clamped to the last
// page. A change signal fires whenever the effective page differs from
// before the call, or whenever the page count itself changed.
func (p *Paginator) UpdateTotal(totalItems int, resetToFirst bool) {
	if totalItems < 0 {
		totalItems = 0
	}

	prevPage := p.page
	prevPages := p.TotalPages()

	p.total = totalItems

	if resetToFirst {
		p.page = 1
	} else if p.page > p.TotalPages() {
		p.page = p.TotalPages()
	}

	if p.page != prevPage || p.TotalPages() != prevPages {
		p.signal()
	}
}

// HasPrev reports whether a previous page exists.
func (p *Paginator) HasPrev() bool { return p.page > 1 }

// HasNext reports whether a next page exists.
func (p *Paginator) HasNext() bool { return p.page < p.TotalPages() }

// ShowControls reports whether pagination controls should be offered at
// all; single-page collections suppress them.
func (p *Paginator) ShowControls() bool { return p.TotalPages() > 1 }

// Bounds returns the half-open slice bounds of the current page within a
// collection of TotalItems records.
func (p *Paginator) Bounds() (start, end int) {
	start = (p.page - 1) * p.size
	if start > p.total {
		start = p.total
	}
	end = start + p.size
	if end > p.total {
		end = p.total
	}
	return start, end
}

func (p *Paginator) signal() {
	if p.onChange != nil {
		p.onChange(PageChange{Page: p.page, TotalPages: p.TotalPages()})
	}
}
