package order

import (
	"context"
	"fmt"
	"time"

	"ms-events/internal/apperror"
	"ms-events/internal/database"
	"ms-events/internal/logger"
	"ms-events/internal/metrics"
	"ms-events/internal/models"
	orderdb "ms-events/internal/order/db"
	"ms-events/internal/utils"
	"ms-events/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	msgVoucherNotFound  = "voucher not found"
	msgBeingProcessed   = "order is being processed"
	msgOrderNotComplete = "order is not completed"
	msgInvalidVoucher   = "invalid voucher code"
	msgCurrentStatus    = "this order currently in %s status"

	maxCodeAttempts = 5
)

type DBLayer interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	GetOrderForMember(ctx context.Context, orderID, userID string) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error)
	CompleteOrder(ctx context.Context, order *models.Order, vouchers []models.Voucher) error
	UpdateStatus(ctx context.Context, orderID string, to, from models.OrderStatus) error
	DeleteOrder(ctx context.Context, orderID string) (*models.Order, error)
	MarkVoucherPrinted(ctx context.Context, orderID, voucherID string) error
}

type TicketReader interface {
	GetTicketByID(ctx context.Context, id string) (*models.Ticket, error)
}

type CompletionLock interface {
	LockOrder(ctx context.Context, orderID, owner string) (bool, error)
	UnlockOrder(ctx context.Context, orderID, owner string) error
}

type KafkaPublisher interface {
	PublishOrderCreated(ctx context.Context, order models.Order) error
	PublishOrderCompleted(ctx context.Context, order models.Order) error
	PublishOrderCancelled(ctx context.Context, order models.Order) error
}

type PaymentGateway interface {
	CreatePaymentLink(ctx context.Context, order models.Order, ticket models.Ticket) (models.Payment, error)
	ExpirePaymentLink(ctx context.Context, token string) error
}

type QRCodec interface {
	GenerateEncryptedQR(payload models.VoucherQRPayload) ([]byte, error)
	DecryptQRData(encoded string) (*models.VoucherQRPayload, error)
}

// Notifier receives completed orders for live dashboards.
type Notifier interface {
	EmitOrderCompleted(order models.Order)
}

type OrderService struct {
	DB       DBLayer
	Tickets  TicketReader
	Redis    CompletionLock
	Kafka    KafkaPublisher
	Payments PaymentGateway
	QR       QRCodec
	// Notifier is nil when completed orders reach the dashboards through Kafka.
	Notifier      Notifier
	WebhookSecret string
	// OrderCodes and VoucherCodes mint the short public codes.
	OrderCodes   func() string
	VoucherCodes func(n int) []string
	logger       *logger.Logger
}

func NewOrderService(db DBLayer, tickets TicketReader, redis CompletionLock, kafka KafkaPublisher, payments PaymentGateway, qr QRCodec, log *logger.Logger) *OrderService {
	return &OrderService{
		DB:           db,
		Tickets:      tickets,
		Redis:        redis,
		Kafka:        kafka,
		Payments:     payments,
		QR:           qr,
		OrderCodes:   utils.GenerateOrderCode,
		VoucherCodes: utils.GenerateVoucherCodes,
		logger:       log,
	}
}

// ---------------- ORDERS ----------------

// Create checks stock, prices the order and attaches a payment link. Nothing
// is written when the ticket is short or the payment provider fails.
func (s *OrderService) Create(ctx context.Context, userID string, req models.OrderRequest) (*models.Order, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	ticket, err := s.Tickets.GetTicketByID(ctx, req.TicketID)
	if err != nil {
		return nil, err
	}
	if ticket.EventID != req.EventID {
		return nil, apperror.NewValidation("ticket does not belong to this event",
			apperror.FieldError{Field: "ticket", Message: "ticket does not belong to this event"})
	}
	if req.Quantity > ticket.Quantity {
		return nil, apperror.NewConflict(orderdb.MsgInsufficientStock)
	}

	order := &models.Order{
		ID:        uuid.NewString(),
		CreatedBy: userID,
		EventID:   ticket.EventID,
		TicketID:  ticket.ID,
		Quantity:  req.Quantity,
		Total:     ticket.Price.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Status:    models.OrderStatusPending,
	}

	// Order codes are short; a clash with a stored code gets a fresh code and link.
	for attempt := 1; ; attempt++ {
		order.OrderID = s.OrderCodes()
		payment, err := s.Payments.CreatePaymentLink(ctx, *order, *ticket)
		if err != nil {
			return nil, apperror.NewInternal("failed to create payment link", err)
		}
		order.Payment = payment

		err = s.DB.CreateOrder(ctx, order)
		if err == nil {
			break
		}
		if expErr := s.Payments.ExpirePaymentLink(ctx, payment.Token); expErr != nil {
			s.logger.Warn("PAYMENT", fmt.Sprintf("orphaned payment link %s: %v", payment.Token, expErr))
		}
		if !database.IsUniqueViolation(err) || attempt == maxCodeAttempts {
			return nil, err
		}
		s.logger.Warn("ORDER", fmt.Sprintf("order code %s already taken, retrying", order.OrderID))
	}
	order.Vouchers = []models.Voucher{}

	s.logger.LogOrder("CREATE", order.OrderID, fmt.Sprintf("%d x %s, total %s", order.Quantity, ticket.Name, order.Total.StringFixed(2)))
	metrics.OrderTransition(string(models.OrderStatusPending))
	s.publish(ctx, "created", *order, s.Kafka.PublishOrderCreated)
	return order, nil
}

// Complete mints one voucher per unit and takes the quantity out of stock.
// It runs at most once per order.
func (s *OrderService) Complete(ctx context.Context, orderID, userID string) (*models.Order, error) {
	order, err := s.DB.GetOrderForMember(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderStatusCompleted {
		return nil, apperror.NewConflict(orderdb.MsgAlreadyCompleted)
	}

	owner := uuid.NewString()
	locked, err := s.Redis.LockOrder(ctx, orderID, owner)
	if err != nil {
		return nil, apperror.NewInternal("failed to acquire order lock", err)
	}
	if !locked {
		metrics.OrderLockContention()
		return nil, apperror.NewConflict(msgBeingProcessed)
	}
	defer func() {
		if err := s.Redis.UnlockOrder(context.WithoutCancel(ctx), orderID, owner); err != nil {
			s.logger.Warn("REDIS", fmt.Sprintf("release lock for order %s: %v", orderID, err))
		}
	}()

	// The transaction rolls back on a voucher code clash, so a retry starts clean.
	for attempt := 1; ; attempt++ {
		err := s.DB.CompleteOrder(ctx, order, s.newVouchers(order))
		if err == nil {
			break
		}
		if !database.IsUniqueViolation(err) || attempt == maxCodeAttempts {
			return nil, err
		}
		s.logger.Warn("ORDER", fmt.Sprintf("voucher code clash on order %s, retrying", orderID))
	}

	completed, err := s.DB.GetOrderByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.logger.LogOrder("COMPLETE", orderID, fmt.Sprintf("%d vouchers issued", len(completed.Vouchers)))
	metrics.OrderTransition(string(models.OrderStatusCompleted))
	metrics.TicketsSold(completed.Quantity)
	s.publish(ctx, "completed", *completed, s.Kafka.PublishOrderCompleted)
	if s.Notifier != nil {
		s.Notifier.EmitOrderCompleted(*completed)
	}
	return completed, nil
}

func (s *OrderService) newVouchers(order *models.Order) []models.Voucher {
	codes := s.VoucherCodes(order.Quantity)
	vouchers := make([]models.Voucher, 0, len(codes))
	for _, code := range codes {
		vouchers = append(vouchers, models.Voucher{VoucherID: code, OrderID: order.OrderID})
	}
	return vouchers
}

func (s *OrderService) Pending(ctx context.Context, orderID string) (*models.Order, error) {
	return s.transition(ctx, orderID, models.OrderStatusPending, false)
}

// Cancelled leaves ticket stock untouched; stock is only taken at completion.
func (s *OrderService) Cancelled(ctx context.Context, orderID string) (*models.Order, error) {
	return s.transition(ctx, orderID, models.OrderStatusCancelled, true)
}

func (s *OrderService) transition(ctx context.Context, orderID string, to models.OrderStatus, expireLink bool) (*models.Order, error) {
	order, err := s.DB.GetOrderByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderStatusCompleted {
		return nil, apperror.NewConflict(orderdb.MsgAlreadyCompleted)
	}
	if order.Status == to {
		return nil, apperror.NewConflict(fmt.Sprintf(msgCurrentStatus, to))
	}

	if err := s.DB.UpdateStatus(ctx, orderID, to, order.Status); err != nil {
		return nil, err
	}
	order.Status = to
	order.UpdatedAt = time.Now().UTC()

	s.logger.LogOrder("STATUS", orderID, "moved to "+string(to))
	metrics.OrderTransition(string(to))

	if to == models.OrderStatusCancelled {
		if expireLink && order.Payment.Token != "" {
			if err := s.Payments.ExpirePaymentLink(ctx, order.Payment.Token); err != nil {
				s.logger.Warn("PAYMENT", fmt.Sprintf("expire payment link for order %s: %v", orderID, err))
			}
		}
		s.publish(ctx, "cancelled", *order, s.Kafka.PublishOrderCancelled)
	}
	return order, nil
}

func (s *OrderService) Remove(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.DB.DeleteOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.logger.LogOrder("DELETE", orderID, "order removed")
	return order, nil
}

// FindOne lets admins read any order; members only see their own.
func (s *OrderService) FindOne(ctx context.Context, orderID, userID string, admin bool) (*models.Order, error) {
	if admin {
		return s.DB.GetOrderByOrderID(ctx, orderID)
	}
	return s.DB.GetOrderForMember(ctx, orderID, userID)
}

func (s *OrderService) FindAll(ctx context.Context, filter models.OrderFilter) ([]models.Order, models.Pagination, error) {
	filter.PageQuery = filter.PageQuery.Normalize()
	orders, total, err := s.DB.ListOrders(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return orders, models.NewPagination(total, filter.PageQuery), nil
}

func (s *OrderService) FindAllByMember(ctx context.Context, userID string, filter models.OrderFilter) ([]models.Order, models.Pagination, error) {
	filter.CreatedBy = userID
	return s.FindAll(ctx, filter)
}

// ---------------- VOUCHERS ----------------

// VoucherQR renders the QR code for one voucher of the caller's completed
// order and marks the voucher as printed.
func (s *OrderService) VoucherQR(ctx context.Context, orderID, voucherID, userID string) ([]byte, error) {
	order, err := s.DB.GetOrderForMember(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusCompleted {
		return nil, apperror.NewConflict(msgOrderNotComplete)
	}
	if _, ok := findVoucher(order, voucherID); !ok {
		return nil, apperror.NewNotFound(msgVoucherNotFound)
	}

	png, err := s.QR.GenerateEncryptedQR(models.VoucherQRPayload{
		OrderID:   order.OrderID,
		VoucherID: voucherID,
		EventID:   order.EventID,
		TicketID:  order.TicketID,
		IssuedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, apperror.NewInternal("failed to generate voucher QR", err)
	}

	if err := s.DB.MarkVoucherPrinted(ctx, orderID, voucherID); err != nil {
		return nil, err
	}
	return png, nil
}

// VerifyVoucher opens a scanned QR payload and checks it against the stored order.
func (s *OrderService) VerifyVoucher(ctx context.Context, req models.VerifyVoucherRequest) (*models.VerifiedVoucher, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	payload, err := s.QR.DecryptQRData(req.EncryptedQR)
	if err != nil {
		s.logger.LogSecurity("VOUCHER", "rejected voucher QR: "+err.Error())
		return nil, apperror.NewValidation(msgInvalidVoucher)
	}

	order, err := s.DB.GetOrderByOrderID(ctx, payload.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusCompleted {
		return nil, apperror.NewConflict(msgOrderNotComplete)
	}
	voucher, ok := findVoucher(order, payload.VoucherID)
	if !ok {
		return nil, apperror.NewNotFound(msgVoucherNotFound)
	}
	return &models.VerifiedVoucher{Order: order, Voucher: voucher}, nil
}

func findVoucher(order *models.Order, voucherID string) (models.Voucher, bool) {
	for _, v := range order.Vouchers {
		if v.VoucherID == voucherID {
			return v, true
		}
	}
	return models.Voucher{}, false
}

// publish never fails the caller; a lost event is logged and counted.
func (s *OrderService) publish(ctx context.Context, kind string, order models.Order, fn func(context.Context, models.Order) error) {
	if err := fn(ctx, order); err != nil {
		metrics.PublishFailure("order." + kind)
		s.logger.LogKafka("PUBLISH", "order."+kind, fmt.Sprintf("order %s: %v", order.OrderID, err))
	}
}
