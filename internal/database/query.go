package database

import (
	"strings"

	"ms-events/internal/models"

	"github.com/uptrace/bun"
)

// ApplySearch adds a case-insensitive substring match on column when term is set.
func ApplySearch(q *bun.SelectQuery, column, term string) *bun.SelectQuery {
	term = strings.TrimSpace(term)
	if term == "" {
		return q
	}
	return q.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(term)+"%")
}

// ApplyPage orders newest first and applies limit/offset.
func ApplyPage(q *bun.SelectQuery, page models.PageQuery) *bun.SelectQuery {
	page = page.Normalize()
	return q.OrderExpr("?TableAlias.created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset())
}
