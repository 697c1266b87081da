package domain

import (
	"strings"
	"time"
)

// Status selects records by completion state.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status value. The empty string is
// treated as StatusAll.
func (s Status) Valid() bool {
	switch s {
	case "", StatusAll, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// Query is the compound filter applied to the merged record set.
// All predicates compose by logical AND; zero-value fields match everything.
type Query struct {
	// Search is matched case-insensitively as a substring of Record.Text.
	Search string

	// From and To bound CreatedAt inclusively at day granularity.
	// Either side may be nil (unbounded).
	From *time.Time
	To   *time.Time

	// Status filters by completion state. Empty means StatusAll.
	Status Status
}

// IsZero reports whether no predicate is active.
func (q Query) IsZero() bool {
	return q.Search == "" && q.From == nil && q.To == nil &&
		(q.Status == "" || q.Status == StatusAll)
}

// Validate rejects queries that must never reach the filter:
// an inverted date range or an unknown status value.
func (q Query) Validate() error {
	var errs []FieldError

	if !q.Status.Valid() {
		errs = append(errs, FieldError{Field: "status", Message: "unknown value"})
	}
	if q.From != nil && q.To != nil && dayOf(*q.From).After(dayOf(*q.To)) {
		errs = append(errs, FieldError{Field: "from_date", Message: "after to_date"})
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// Matches evaluates the compound predicate against a single record.
// It assumes a validated query; see Validate.
func (q Query) Matches(r Record) bool {
	if q.Search != "" &&
		!strings.Contains(strings.ToLower(r.Text), strings.ToLower(q.Search)) {
		return false
	}

	if q.From != nil && dayOf(r.CreatedAt).Before(dayOf(*q.From)) {
		return false
	}
	if q.To != nil && dayOf(r.CreatedAt).After(dayOf(*q.To)) {
		return false
	}

	switch q.Status {
	case StatusActive:
		if r.Completed {
			return false
		}
	case StatusCompleted:
		if !r.Completed {
			return false
		}
	}

	return true
}

// Filter returns the ordered subsequence of records matching the query.
// The input slice is never mutated; for the same input and query the
// output is always identical.
func Filter(records []Record, q Query) []Record {
	if q.IsZero() {
		out := make([]Record, len(records))
		copy(out, records)
		return out
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// dayOf truncates a timestamp to its calendar day in UTC, so the date
// range predicate works at day granularity regardless of time of day.
func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
