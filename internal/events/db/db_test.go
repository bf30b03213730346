package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ms-events/internal/apperror"
	"ms-events/internal/events/db"
	"ms-events/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bunDB.Close() })

	for _, model := range []interface{}{(*models.Category)(nil), (*models.Event)(nil)} {
		if _, err := bunDB.NewCreateTable().Model(model).Exec(context.Background()); err != nil {
			t.Fatalf("Failed to create table: %v", err)
		}
	}
	return &db.DB{Bun: bunDB}, bunDB
}

func seedCategory(t *testing.T, bunDB *bun.DB, name string) *models.Category {
	c := &models.Category{ID: uuid.NewString(), Name: name, Description: name, Icon: "icon.png"}
	_, err := bunDB.NewInsert().Model(c).Exec(context.Background())
	require.NoError(t, err)
	return c
}

func newEvent(name, categoryID string) *models.Event {
	start := time.Date(2026, 11, 1, 19, 0, 0, 0, time.UTC)
	return &models.Event{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        models.Slugify(name),
		StartDate:   start,
		EndDate:     start.Add(3 * time.Hour),
		Description: "An evening of " + name,
		Banner:      "https://cdn.example.com/banner.jpg",
		CategoryID:  categoryID,
		CreatedBy:   uuid.NewString(),
		Location: models.Location{
			Region:      3273,
			Coordinates: []float64{-6.9175, 107.6191},
			Address:     "Jl. Asia Afrika",
		},
	}
}

func TestCreateAndGetEvent(t *testing.T) {
	store, bunDB := setupTestDB(t)
	ctx := context.Background()
	music := seedCategory(t, bunDB, "Music")

	e := newEvent("Jazz Night", music.ID)
	require.NoError(t, store.CreateEvent(ctx, e))

	byID, err := store.GetEventByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "jazz-night", byID.Slug)
	assert.Equal(t, []float64{-6.9175, 107.6191}, byID.Location.Coordinates)
	require.NotNil(t, byID.Category)
	assert.Equal(t, "Music", byID.Category.Name)

	bySlug, err := store.GetEventBySlug(ctx, "jazz-night")
	require.NoError(t, err)
	assert.Equal(t, e.ID, bySlug.ID)

	_, err = store.GetEventBySlug(ctx, "nope")
	assert.True(t, apperror.Is(err, apperror.NotFound))
}

func TestCreateEvent_DuplicateSlugIsConflict(t *testing.T) {
	store, bunDB := setupTestDB(t)
	ctx := context.Background()
	music := seedCategory(t, bunDB, "Music")

	require.NoError(t, store.CreateEvent(ctx, newEvent("Jazz Night", music.ID)))
	err := store.CreateEvent(ctx, newEvent("Jazz Night", music.ID))
	assert.True(t, apperror.Is(err, apperror.Conflict))
}

func TestListEvents_Filters(t *testing.T) {
	store, bunDB := setupTestDB(t)
	ctx := context.Background()
	music := seedCategory(t, bunDB, "Music")
	sport := seedCategory(t, bunDB, "Sport")

	jazz := newEvent("Jazz Night", music.ID)
	jazz.IsPublish, jazz.IsFeatured = true, true
	rock := newEvent("Rock Fest", music.ID)
	rock.IsOnline = true
	run := newEvent("City Run", sport.ID)
	run.IsPublish = true
	for _, e := range []*models.Event{jazz, rock, run} {
		require.NoError(t, store.CreateEvent(ctx, e))
	}

	yes := true
	page := models.PageQuery{Page: 1, Limit: 10}

	tests := []struct {
		name   string
		filter models.EventFilter
		want   int
	}{
		{"all", models.EventFilter{PageQuery: page}, 3},
		{"category", models.EventFilter{PageQuery: page, CategoryID: music.ID}, 2},
		{"published", models.EventFilter{PageQuery: page, IsPublish: &yes}, 2},
		{"online", models.EventFilter{PageQuery: page, IsOnline: &yes}, 1},
		{"featured music", models.EventFilter{PageQuery: page, CategoryID: music.ID, IsFeatured: &yes}, 1},
		{"search", models.EventFilter{PageQuery: models.PageQuery{Page: 1, Limit: 10, Search: "fest"}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := store.ListEvents(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestUpdateAndDeleteEvent(t *testing.T) {
	store, bunDB := setupTestDB(t)
	ctx := context.Background()
	music := seedCategory(t, bunDB, "Music")

	e := newEvent("Jazz Night", music.ID)
	require.NoError(t, store.CreateEvent(ctx, e))

	e.Name = "Jazz Night Vol. 2"
	e.IsPublish = true
	require.NoError(t, store.UpdateEvent(ctx, e))

	got, err := store.GetEventByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night Vol. 2", got.Name)
	assert.Equal(t, "jazz-night", got.Slug)
	assert.True(t, got.IsPublish)

	deleted, err := store.DeleteEvent(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, deleted.ID)

	_, err = store.GetEventByID(ctx, e.ID)
	assert.True(t, apperror.Is(err, apperror.NotFound))
}
