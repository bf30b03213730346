package models

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageQuery is the page/limit/search triple every list endpoint accepts.
type PageQuery struct {
	Page   int
	Limit  int
	Search string
}

func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

func (q PageQuery) Offset() int {
	n := q.Normalize()
	return (n.Page - 1) * n.Limit
}

type Pagination struct {
	Total      int `json:"total"`
	Current    int `json:"current"`
	TotalPages int `json:"totalPages"`
}

func NewPagination(total int, q PageQuery) Pagination {
	n := q.Normalize()
	return Pagination{
		Total:      total,
		Current:    n.Page,
		TotalPages: (total + n.Limit - 1) / n.Limit,
	}
}

type CategoryFilter struct {
	PageQuery
}

type EventFilter struct {
	PageQuery
	CategoryID string
	IsPublish  *bool
	IsOnline   *bool
	IsFeatured *bool
}

type TicketFilter struct {
	PageQuery
	EventID string
}

type BannerFilter struct {
	PageQuery
	IsShow *bool
}

type OrderFilter struct {
	PageQuery
	CreatedBy string
	EventID   string
	Status    OrderStatus
}
