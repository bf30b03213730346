//go:build integration

package database_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ms-events/internal/analytics"
	"ms-events/internal/apperror"
	"ms-events/internal/config"
	"ms-events/internal/database"
	"ms-events/internal/database/migrations"
	eventdb "ms-events/internal/events/db"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	orderdb "ms-events/internal/order/db"
	orderredis "ms-events/internal/order/redis"
	ticketdb "ms-events/internal/tickets/db"
	"ms-events/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
)

func startPostgres(t *testing.T) *bun.DB {
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "events",
				"POSTGRES_PASSWORD": "events",
				"POSTGRES_DB":       "events_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	log := logger.Nop()
	bunDB, err := database.Connect(ctx, config.DatabaseConfig{
		DSN:          fmt.Sprintf("postgres://events:events@%s:%s/events_test?sslmode=disable", host, port.Port()),
		MaxOpenConns: 10,
		MaxIdleConns: 10,
		MaxLifetime:  time.Minute,
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { bunDB.Close() })

	runner := migrations.NewRunner(bunDB.DB, "../../migrations", log)
	require.NoError(t, runner.Up())
	return bunDB
}

func startRedis(t *testing.T) *orderredis.Redis {
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := database.ConnectRedis(ctx, config.RedisConfig{Addr: host + ":" + port.Port()}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return orderredis.NewRedis(client, 5*time.Second, logger.Nop())
}

type catalog struct {
	user   *models.User
	event  *models.Event
	ticket *models.Ticket
}

func seed(t *testing.T, db *bun.DB, stock int) catalog {
	ctx := context.Background()
	user := &models.User{
		ID: uuid.NewString(), FullName: "Member", Username: "member-" + uuid.NewString()[:8],
		Email: uuid.NewString() + "@example.com", Password: "x", Role: models.RoleMember, IsActive: true,
	}
	category := &models.Category{ID: uuid.NewString(), Name: "Music", Description: "Music", Icon: "m.png"}
	start := time.Now().UTC().Add(48 * time.Hour)
	event := &models.Event{
		ID: uuid.NewString(), Name: "Summer Fest", Slug: "summer-fest-" + uuid.NewString()[:8],
		StartDate: start, EndDate: start.Add(3 * time.Hour), Description: "Festival",
		Banner: "b.jpg", CategoryID: category.ID, CreatedBy: user.ID,
	}
	ticket := &models.Ticket{
		ID: uuid.NewString(), Name: "Regular", Description: "GA",
		Price: decimal.NewFromInt(100), Quantity: stock, EventID: event.ID,
	}
	for _, m := range []interface{}{user, category, event, ticket} {
		_, err := db.NewInsert().Model(m).Exec(ctx)
		require.NoError(t, err)
	}
	return catalog{user: user, event: event, ticket: ticket}
}

func pendingOrder(t *testing.T, store *orderdb.DB, c catalog, qty int) *models.Order {
	o := &models.Order{
		ID:        uuid.NewString(),
		OrderID:   utils.GenerateOrderCode(),
		CreatedBy: c.user.ID,
		EventID:   c.event.ID,
		TicketID:  c.ticket.ID,
		Quantity:  qty,
		Total:     c.ticket.Price.Mul(decimal.NewFromInt(int64(qty))),
		Status:    models.OrderStatusPending,
	}
	require.NoError(t, store.CreateOrder(context.Background(), o))
	return o
}

func vouchersFor(o *models.Order) []models.Voucher {
	codes := utils.GenerateVoucherCodes(o.Quantity)
	vouchers := make([]models.Voucher, len(codes))
	for i, code := range codes {
		vouchers[i] = models.Voucher{VoucherID: code, OrderID: o.OrderID}
	}
	return vouchers
}

// Two pending orders that each fit the stock alone race to complete; the
// conditional decrement must let exactly one through.
func TestCompleteOrder_ConcurrentCompletionsNeverOversell(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping PostgreSQL integration test in short mode")
	}
	db := startPostgres(t)
	store := &orderdb.DB{Bun: db}
	c := seed(t, db, 3)

	orders := []*models.Order{pendingOrder(t, store, c, 2), pendingOrder(t, store, c, 2)}

	var wg sync.WaitGroup
	errs := make([]error, len(orders))
	for i, o := range orders {
		wg.Add(1)
		go func(i int, o *models.Order) {
			defer wg.Done()
			errs[i] = store.CompleteOrder(context.Background(), o, vouchersFor(o))
		}(i, o)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperror.Is(err, apperror.Conflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	ticket, err := (&ticketdb.DB{Bun: db}).GetTicketByID(context.Background(), c.ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, ticket.Quantity)
}

func TestAnalytics_OnPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping PostgreSQL integration test in short mode")
	}
	db := startPostgres(t)
	store := &orderdb.DB{Bun: db}
	c := seed(t, db, 10)
	ctx := context.Background()

	done := pendingOrder(t, store, c, 3)
	require.NoError(t, store.CompleteOrder(ctx, done, vouchersFor(done)))
	pendingOrder(t, store, c, 1)

	svc := analytics.NewService(analytics.NewDB(db), &eventdb.DB{Bun: db}, logger.Nop())
	sales, err := svc.EventSales(ctx, c.event.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, sales.TicketsSold)
	assert.True(t, decimal.NewFromInt(300).Equal(sales.Revenue))
	assert.Len(t, sales.ByStatus, 2)
	require.Len(t, sales.Daily, 1)
}

func TestOrderLock_OnRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Redis integration test in short mode")
	}
	lock := startRedis(t)
	ctx := context.Background()

	ok, err := lock.LockOrder(ctx, "ORD-1", "owner-a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock.LockOrder(ctx, "ORD-1", "owner-b")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lock.UnlockOrder(ctx, "ORD-1", "owner-b"))
	locked, err := lock.IsLocked(ctx, "ORD-1")
	require.NoError(t, err)
	assert.True(t, locked, "a non-owner must not release the lock")

	require.NoError(t, lock.UnlockOrder(ctx, "ORD-1", "owner-a"))
	ok, err = lock.LockOrder(ctx, "ORD-1", "owner-b")
	require.NoError(t, err)
	assert.True(t, ok)
}
