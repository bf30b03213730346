package db

import (
	"context"
	"time"

	"ms-events/internal/apperror"
	"ms-events/internal/database"
	"ms-events/internal/models"

	"github.com/uptrace/bun"
)

const (
	orderNotFound   = "order not found"
	voucherNotFound = "voucher not found"

	// MsgAlreadyCompleted and MsgInsufficientStock are shared with the service layer.
	MsgAlreadyCompleted  = "you have been completed this order"
	MsgInsufficientStock = "ticket quantity is not enough"
	msgStatusChanged     = "order status changed, please retry"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- ORDERS ----------------

func (d *DB) CreateOrder(ctx context.Context, order *models.Order) error {
	_, err := d.Bun.NewInsert().Model(order).Exec(ctx)
	return database.Translate(err, orderNotFound)
}

// GetOrderByOrderID loads an order and its vouchers by the human-readable code.
func (d *DB) GetOrderByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	return d.getOrder(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.order_id = ?", orderID)
	})
}

// GetOrderForMember is GetOrderByOrderID scoped to the order's creator.
func (d *DB) GetOrderForMember(ctx context.Context, orderID, userID string) (*models.Order, error) {
	return d.getOrder(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.order_id = ?", orderID).
			Where("?TableAlias.created_by = ?", userID)
	})
}

func (d *DB) getOrder(ctx context.Context, scope func(*bun.SelectQuery) *bun.SelectQuery) (*models.Order, error) {
	var order models.Order
	q := d.Bun.NewSelect().Model(&order).Relation("Vouchers")
	err := scope(q).Limit(1).Scan(ctx)
	if err != nil {
		return nil, database.Translate(err, orderNotFound)
	}
	if order.Vouchers == nil {
		order.Vouchers = []models.Voucher{}
	}
	return &order, nil
}

func (d *DB) ListOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	var orders []models.Order
	q := d.Bun.NewSelect().Model(&orders).Relation("Vouchers")
	q = database.ApplySearch(q, "?TableAlias.order_id", filter.Search)
	if filter.CreatedBy != "" {
		q = q.Where("?TableAlias.created_by = ?", filter.CreatedBy)
	}
	if filter.EventID != "" {
		q = q.Where("?TableAlias.event_id = ?", filter.EventID)
	}
	if filter.Status != "" {
		q = q.Where("?TableAlias.status = ?", filter.Status)
	}

	total, err := database.ApplyPage(q, filter.PageQuery).ScanAndCount(ctx)
	if err != nil {
		return nil, 0, database.Translate(err, orderNotFound)
	}
	for i := range orders {
		if orders[i].Vouchers == nil {
			orders[i].Vouchers = []models.Voucher{}
		}
	}
	return orders, total, nil
}

// CompleteOrder flips the order to completed, takes its quantity out of the
// ticket stock and stores the vouchers, all in one transaction. Either guard
// failing rolls the whole thing back.
func (d *DB) CompleteOrder(ctx context.Context, order *models.Order, vouchers []models.Voucher) error {
	now := time.Now().UTC()

	err := d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Order)(nil)).
			Set("status = ?", models.OrderStatusCompleted).
			Set("updated_at = ?", now).
			Where("order_id = ?", order.OrderID).
			Where("status <> ?", models.OrderStatusCompleted).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperror.NewConflict(MsgAlreadyCompleted)
		}

		res, err = tx.NewUpdate().
			Model((*models.Ticket)(nil)).
			Set("quantity = quantity - ?", order.Quantity).
			Set("updated_at = ?", now).
			Where("id = ?", order.TicketID).
			Where("quantity >= ?", order.Quantity).
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperror.NewConflict(MsgInsufficientStock)
		}

		if len(vouchers) == 0 {
			return nil
		}
		_, err = tx.NewInsert().Model(&vouchers).Exec(ctx)
		return err
	})
	return database.Translate(err, orderNotFound)
}

// UpdateStatus moves an order from one status to another. It fails with a
// Conflict when the stored status is no longer from.
func (d *DB) UpdateStatus(ctx context.Context, orderID string, to, from models.OrderStatus) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("status = ?", to).
		Set("updated_at = ?", time.Now().UTC()).
		Where("order_id = ?", orderID).
		Where("status = ?", from).
		Exec(ctx)
	if err != nil {
		return database.Translate(err, orderNotFound)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewConflict(msgStatusChanged)
	}
	return nil
}

func (d *DB) DeleteOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := d.GetOrderByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	err = d.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.Voucher)(nil)).
			Where("order_id = ?", orderID).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*models.Order)(nil)).
			Where("order_id = ?", orderID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, database.Translate(err, orderNotFound)
	}
	return order, nil
}

// ---------------- VOUCHERS ----------------

func (d *DB) MarkVoucherPrinted(ctx context.Context, orderID, voucherID string) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.Voucher)(nil)).
		Set("is_print = ?", true).
		Where("order_id = ?", orderID).
		Where("voucher_id = ?", voucherID).
		Exec(ctx)
	if err != nil {
		return database.Translate(err, voucherNotFound)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NewNotFound(voucherNotFound)
	}
	return nil
}
