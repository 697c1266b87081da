package tracker

import (
	"github.com/ShubhamPP04/todo-list/internal/domain"
)

// PageResult is the merged outcome of one load.
type PageResult struct {
	Records []domain.Record
	Total   int

	// Degraded marks a result served entirely from local data because
	// the remote source failed. Cause carries the classified failure.
	Degraded bool
	Cause    error
}

// FilterStatus summarizes the active query for the display layer.
type FilterStatus struct {
	// Active is true when at least one predicate is set.
	Active bool
	// Matched is the number of records passing the query.
	Matched int
	// Total is the size of the unfiltered merged set known locally.
	Total int
}

// View is the render-ready projection of the controller state: the
// visible page slice plus everything a display needs to draw pagination
// and filter indicators.
type View struct {
	Records []domain.Record

	Page       int
	TotalPages int
	PageSize   int

	// TotalItems is the unfiltered total reported by the last load.
	TotalItems int

	Filter   FilterStatus
	Degraded bool

	// HasPrev/HasNext report whether navigation in that direction is
	// available; ShowPagination is false for single-page collections.
	HasPrev        bool
	HasNext        bool
	ShowPagination bool
}
