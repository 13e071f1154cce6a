package pagination

import "math"

const (
	// DefaultPage is used when the caller does not ask for a page.
	DefaultPage = 1
	// DefaultPageSize is the standard page size when none is provided.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows any page query can request.
	MaxPageSize = 50
)

// Params holds page-based pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Limits lets callers override the package defaults, e.g. from config.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultLimits returns the package-level limits.
func DefaultLimits() Limits {
	return Limits{DefaultPageSize: DefaultPageSize, MaxPageSize: MaxPageSize}
}

// Normalize clamps page size to [1, max] and page to [1, MaxInt/pageSize] so
// the offset never overflows; zero or negative sizes fall back to the default.
func (l Limits) Normalize(p Params) Params {
	maxSize := l.MaxPageSize
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	defSize := l.DefaultPageSize
	if defSize <= 0 || defSize > maxSize {
		defSize = min(DefaultPageSize, maxSize)
	}

	out := p
	if out.Page < 1 {
		out.Page = DefaultPage
	}
	switch {
	case out.PageSize <= 0:
		out.PageSize = defSize
	case out.PageSize > maxSize:
		out.PageSize = maxSize
	}
	if maxPage := math.MaxInt / out.PageSize; out.Page > maxPage {
		out.Page = maxPage
	}
	return out
}

// Normalize applies the package default limits.
func Normalize(p Params) Params {
	return DefaultLimits().Normalize(p)
}

// Offset is the number of rows to skip for the page. It saturates at MaxInt
// instead of wrapping.
func (p Params) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}
