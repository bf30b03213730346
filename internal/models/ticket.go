package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Ticket struct {
	bun.BaseModel `bun:"table:tickets,alias:t"`

	ID          string          `bun:"id,pk" json:"id"`
	Name        string          `bun:"name,notnull" json:"name"`
	Description string          `bun:"description,notnull" json:"description"`
	Price       decimal.Decimal `bun:"price,type:numeric(14,2),notnull" json:"price"`
	Quantity    int             `bun:"quantity,notnull" json:"quantity"`
	EventID     string          `bun:"event_id,notnull" json:"events"`
	CreatedAt   time.Time       `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt   time.Time       `bun:"updated_at,notnull" json:"updatedAt"`

	Event *Event `bun:"rel:belongs-to,join:event_id=id" json:"event,omitempty"`
}

type TicketRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	EventID     string          `json:"events" validate:"required,uuid"`
}
