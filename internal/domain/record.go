package domain

import (
	"strings"
	"time"
)

// Origin tags the provenance of a record in the merged set.
// It is informational only and never participates in identity.
type Origin string

const (
	// OriginRemote marks a record that came from the remote source
	// during the current session.
	OriginRemote Origin = "remote"

	// OriginLocalFallback marks a record served from the local cache
	// because the remote source was unavailable or already superseded it.
	OriginLocalFallback Origin = "local-fallback"

	// OriginLocalCreated marks a record created offline with a locally
	// generated id.
	OriginLocalCreated Origin = "local-created"
)

// Text length constraints, enforced at creation time (not at merge).
const (
	MinTextLength = 3
	MaxTextLength = 100
)

// Record is a single task item.
type Record struct {
	ID        int64
	Text      string
	Completed bool
	OwnerID   int64
	CreatedAt time.Time
	Origin    Origin

	// SavedAt is set by the persistent store when the record is first
	// saved locally. Zero for records never persisted.
	SavedAt time.Time
}

// IsLocal reports whether the record did not come from the remote source
// in the current session.
func (r Record) IsLocal() bool {
	return r.Origin != OriginRemote
}

// NormalizeText trims surrounding whitespace and collapses inner runs of
// whitespace to single spaces.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ValidateText checks the creation-time text constraints and returns the
// normalized text. It never modifies stored records.
func ValidateText(text string) (string, error) {
	normalized := NormalizeText(text)
	if len(normalized) < MinTextLength {
		return "", NewValidationError("text", "too short (min 3 characters)")
	}
	if len(normalized) > MaxTextLength {
		return "", NewValidationError("text", "too long (max 100 characters)")
	}
	return normalized, nil
}
