package links

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Link maps a short code to its original URL.
type Link struct {
	ID             uuid.UUID
	Code           string
	OriginalURL    string
	OwnerID        uuid.NullUUID // invalid for anonymous links
	AccessCount    int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastAccessedAt *time.Time
	DeletedAt      *time.Time
}

// OwnedBy reports whether caller owns the link. Anonymous links have no owner.
func (l Link) OwnedBy(caller uuid.NullUUID) bool {
	return caller.Valid && l.OwnerID.Valid && l.OwnerID.UUID == caller.UUID
}

// Pagination selects a 1-indexed page of results.
type Pagination struct {
	Page    int
	PerPage int
}

// MaxOffset is the largest row offset a listing query accepts.
const MaxOffset = math.MaxInt32

// InRange reports whether both fields are positive and the page starts at or
// before MaxOffset. Offset is only meaningful when InRange holds.
func (p Pagination) InRange() bool {
	if p.Page < 1 || p.PerPage < 1 || p.PerPage > MaxOffset {
		return false
	}
	return int64(p.Page-1) <= MaxOffset/int64(p.PerPage)
}

// Offset returns the number of rows skipped before the page starts.
func (p Pagination) Offset() int64 {
	return int64(p.Page-1) * int64(p.PerPage)
}

// Patch lists the mutable fields of a link. Nil fields are left unchanged.
type Patch struct {
	OriginalURL *string
}

// Summary is the listing view of a link.
type Summary struct {
	ID          uuid.UUID
	Code        string
	ShortURL    string
	OriginalURL string
	AccessCount int64
	CreatedAt   time.Time
}

// SummaryPage is one page of a caller's links plus the total across all pages.
type SummaryPage struct {
	Items   []Summary
	Total   int64
	Page    int
	PerPage int
}
