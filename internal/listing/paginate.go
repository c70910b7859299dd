package listing

import "math"

// MaxPerPage is the largest accepted page size.
const MaxPerPage = 100

// MaxPage bounds the page number so that Offset cannot overflow.
const MaxPage = math.MaxInt/MaxPerPage + 1

type PageRequest struct {
	Page    int
	PerPage int
}

// Offset is the number of records before the requested page.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.PerPage
}

// ResolvePage reads page and per_page. A page size outside [1, MaxPerPage]
// or non-numeric falls back to the resource default; a page below 1 is 1
// and a page above MaxPage is MaxPage.
func ResolvePage(res Resource, p Params) PageRequest {
	def := res.DefaultPerPage
	if def < 1 || def > MaxPerPage {
		def = DefaultPageSize
	}

	req := PageRequest{Page: 1, PerPage: def}
	if n, ok := p.Int("per_page"); ok && n >= 1 && n <= MaxPerPage {
		req.PerPage = n
	}
	if n, ok := p.Int("page"); ok && n > 1 {
		req.Page = min(n, MaxPage)
	}
	return req
}

// Page is one slice of a filtered, sorted result set.
type Page[T any] struct {
	Items       []T
	Total       int
	CurrentPage int
	PerPage     int
	TotalPages  int
}

// TotalPages is ceil(total / perPage), 0 for an empty result.
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// NewPage wraps items already sliced by the store.
func NewPage[T any](items []T, total int, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		Total:       total,
		CurrentPage: req.Page,
		PerPage:     req.PerPage,
		TotalPages:  TotalPages(total, req.PerPage),
	}
}

// Paginate slices the full result set. A page past the end is empty with
// the totals intact.
func Paginate[T any](all []T, req PageRequest) Page[T] {
	start := req.Offset()
	if start < 0 || start > len(all) {
		start = len(all)
	}
	end := start + req.PerPage
	if end > len(all) {
		end = len(all)
	}

	items := make([]T, end-start)
	copy(items, all[start:end])
	return NewPage(items, len(all), req)
}
