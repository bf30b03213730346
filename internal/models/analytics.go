package models

import "github.com/shopspring/decimal"

// StatusSales is one row of the per-event breakdown by order status.
type StatusSales struct {
	Status  OrderStatus     `bun:"status" json:"status"`
	Orders  int             `bun:"orders" json:"orders"`
	Tickets int             `bun:"tickets" json:"tickets"`
	Revenue decimal.Decimal `bun:"revenue" json:"revenue"`
}

// TicketSales is completed sales for one ticket tier.
type TicketSales struct {
	TicketID    string          `bun:"ticket_id" json:"ticketId"`
	TicketName  string          `bun:"ticket_name" json:"ticketName"`
	TicketsSold int             `bun:"tickets_sold" json:"ticketsSold"`
	Revenue     decimal.Decimal `bun:"revenue" json:"revenue"`
}

type DailySales struct {
	Date        string          `json:"date"`
	TicketsSold int             `json:"ticketsSold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// EventSales counts only completed orders in TicketsSold and Revenue.
type EventSales struct {
	EventID     string          `json:"eventId"`
	TicketsSold int             `json:"ticketsSold"`
	Revenue     decimal.Decimal `json:"revenue"`
	ByStatus    []StatusSales   `json:"byStatus"`
	ByTicket    []TicketSales   `json:"byTicket"`
	Daily       []DailySales    `json:"daily"`
}

type BatchSalesRequest struct {
	EventIDs []string `json:"eventIds" validate:"required,min=1,max=50,dive,uuid"`
}

type BatchSales struct {
	EventIDs    []string        `json:"eventIds"`
	TicketsSold int             `json:"ticketsSold"`
	Revenue     decimal.Decimal `json:"revenue"`
	Events      []EventSales    `json:"events"`
}
