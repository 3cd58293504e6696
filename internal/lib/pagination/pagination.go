package pagination

type Params struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

func (p *Params) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 10
	}
	if p.PageSize > 50 {
		p.PageSize = 50
	}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PagedList is one page of results plus the counters that go into the
// X-Pagination response header.
type PagedList[T any] struct {
	Items        []T
	CurrentPage  int
	ItemsPerPage int
	TotalItems   int
	TotalPages   int
}

func NewPagedList[T any](items []T, totalItems int, params Params) *PagedList[T] {
	totalPages := 0
	if params.PageSize > 0 {
		totalPages = (totalItems + params.PageSize - 1) / params.PageSize
	}

	return &PagedList[T]{
		Items:        items,
		CurrentPage:  params.Page,
		ItemsPerPage: params.PageSize,
		TotalItems:   totalItems,
		TotalPages:   totalPages,
	}
}

// Header is the JSON body of the X-Pagination response header.
type Header struct {
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalItems   int `json:"totalItems"`
	TotalPages   int `json:"totalPages"`
}

func (l *PagedList[T]) Header() Header {
	return Header{
		CurrentPage:  l.CurrentPage,
		ItemsPerPage: l.ItemsPerPage,
		TotalItems:   l.TotalItems,
		TotalPages:   l.TotalPages,
	}
}
