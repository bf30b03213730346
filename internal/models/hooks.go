package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

var (
	_ bun.BeforeAppendModelHook = (*User)(nil)
	_ bun.BeforeAppendModelHook = (*Category)(nil)
	_ bun.BeforeAppendModelHook = (*Event)(nil)
	_ bun.BeforeAppendModelHook = (*Ticket)(nil)
	_ bun.BeforeAppendModelHook = (*Banner)(nil)
	_ bun.BeforeAppendModelHook = (*Order)(nil)
)

// stamp sets created/updated times for inserts and refreshes updated for updates.
func stamp(query bun.Query, created, updated *time.Time) {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if created.IsZero() {
			*created = now
		}
		*updated = now
	case *bun.UpdateQuery:
		*updated = now
	}
}

func (m *User) BeforeAppendModel(_ context.Context, query bun.Query) error {
	stamp(query, &m.CreatedAt, &m.UpdatedAt)
	return nil
}

func (m *Category) BeforeAppendModel(_ context.Context, query bun.Query) error {
	stamp(query, &m.CreatedAt, &m.UpdatedAt)
	return nil
}

func (m *Event) BeforeAppendModel(_ context.Context, query bun.Query) error {
	stamp(query, &m.CreatedAt, &m.UpdatedAt)
	return nil
}

func (m *Ticket) BeforeAppendModel(_ context.Context, query bun.Query) error {
	stamp(query, &m.CreatedAt, &m.UpdatedAt)
	return nil
}

func (m *Banner) BeforeAppendModel(_ context.Context, query bun.Query) error {
	stamp(query, &m.CreatedAt, &m.UpdatedAt)
	return nil
}

func (m *Order) BeforeAppendModel(_ context.Context, query bun.Query) error {
	stamp(query, &m.CreatedAt, &m.UpdatedAt)
	return nil
}
