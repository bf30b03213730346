package banner_test

import (
	"context"
	"database/sql"
	"testing"

	"ms-events/internal/apperror"
	"ms-events/internal/banner"
	"ms-events/internal/banner/db"
	"ms-events/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupService(t *testing.T) *banner.BannerService {
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bunDB.Close() })

	if _, err := bunDB.NewCreateTable().Model((*models.Banner)(nil)).Exec(context.Background()); err != nil {
		t.Fatalf("Failed to create banners table: %v", err)
	}
	return banner.NewBannerService(&db.DB{Bun: bunDB})
}

func boolPtr(v bool) *bool { return &v }

func TestBannerCRUD(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.BannerRequest{Title: "Year End Sale", Image: "sale.jpg", IsShow: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, created.IsShow)

	_, err = svc.Create(ctx, models.BannerRequest{Title: "Hidden", Image: "hidden.jpg", IsShow: boolPtr(false)})
	require.NoError(t, err)

	shown, pagination, err := svc.FindAll(ctx, models.BannerFilter{IsShow: boolPtr(true)})
	require.NoError(t, err)
	assert.Len(t, shown, 1)
	assert.Equal(t, 1, pagination.Total)

	all, pagination, err := svc.FindAll(ctx, models.BannerFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 1, pagination.TotalPages)

	updated, err := svc.Update(ctx, created.ID, models.BannerRequest{Title: "Sale", Image: "sale2.jpg", IsShow: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsShow)

	removed, err := svc.Remove(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sale", removed.Title)

	_, err = svc.FindOne(ctx, created.ID)
	assert.True(t, apperror.Is(err, apperror.NotFound))
}

func TestBanner_IsShowRequired(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Create(context.Background(), models.BannerRequest{Title: "x", Image: "y"})
	require.True(t, apperror.Is(err, apperror.Validation))
	appErr, _ := apperror.As(err)
	assert.Equal(t, "isShow is required", appErr.Message)
}

func TestBanner_UnknownID(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Update(context.Background(), uuid.NewString(), models.BannerRequest{Title: "x", Image: "y", IsShow: boolPtr(true)})
	assert.True(t, apperror.Is(err, apperror.NotFound))

	_, err = svc.FindOne(context.Background(), "nope")
	assert.True(t, apperror.Is(err, apperror.NotFound))
}
