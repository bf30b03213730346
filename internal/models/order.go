package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Payment is the hosted checkout link attached to an order at creation.
type Payment struct {
	Token       string `bun:"token" json:"token"`
	RedirectURL string `bun:"redirect_url" json:"redirect_url"`
}

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID        string          `bun:"id,pk" json:"id"`
	OrderID   string          `bun:"order_id,unique,notnull" json:"orderId"`
	CreatedBy string          `bun:"created_by,notnull" json:"createdBy"`
	EventID   string          `bun:"event_id,notnull" json:"events"`
	TicketID  string          `bun:"ticket_id,notnull" json:"ticket"`
	Quantity  int             `bun:"quantity,notnull" json:"quantity"`
	Total     decimal.Decimal `bun:"total,type:numeric(14,2),notnull" json:"total"`
	Status    OrderStatus     `bun:"status,notnull" json:"status"`
	Payment   Payment         `bun:"embed:payment_" json:"payment"`
	CreatedAt time.Time       `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt time.Time       `bun:"updated_at,notnull" json:"updatedAt"`

	Vouchers []Voucher `bun:"rel:has-many,join:order_id=order_id" json:"vouchers"`
}

// Voucher is one redeemable unit of a completed order.
type Voucher struct {
	bun.BaseModel `bun:"table:vouchers,alias:v"`

	VoucherID string `bun:"voucher_id,pk" json:"voucherId"`
	OrderID   string `bun:"order_id,notnull" json:"-"`
	IsPrint   bool   `bun:"is_print,notnull" json:"isPrint"`
}

type OrderRequest struct {
	EventID  string `json:"events" validate:"required,uuid"`
	TicketID string `json:"ticket" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// VoucherQRPayload is what gets encrypted into a voucher QR code.
type VoucherQRPayload struct {
	OrderID   string    `json:"orderId"`
	VoucherID string    `json:"voucherId"`
	EventID   string    `json:"eventId"`
	TicketID  string    `json:"ticketId"`
	IssuedAt  time.Time `json:"issuedAt"`
}

type VerifyVoucherRequest struct {
	EncryptedQR string `json:"encrypted_qr" validate:"required"`
}

type VerifiedVoucher struct {
	Order   *Order  `json:"order"`
	Voucher Voucher `json:"voucher"`
}

// UploadedFile is returned by the media endpoints.
type UploadedFile struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type MediaRemoveRequest struct {
	FileURL string `json:"fileUrl" validate:"required,url"`
}
