package analytics_api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ms-events/internal/analytics"
	analytics_api "ms-events/internal/analytics/api"
	eventdb "ms-events/internal/events/db"
	"ms-events/internal/logger"
	"ms-events/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setup(t *testing.T) (http.Handler, string) {
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bunDB.Close() })

	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.Category)(nil), (*models.Event)(nil), (*models.Ticket)(nil), (*models.Order)(nil),
	} {
		_, err := bunDB.NewCreateTable().Model(model).Exec(ctx)
		require.NoError(t, err)
	}
	category := &models.Category{ID: uuid.NewString(), Name: "Music", Description: "Music", Icon: "m.png"}
	_, err = bunDB.NewInsert().Model(category).Exec(ctx)
	require.NoError(t, err)
	event := &models.Event{
		ID: uuid.NewString(), Name: "Jazz Night", Slug: "jazz-night", Description: "Live jazz",
		Banner: "banner.jpg", CategoryID: category.ID, CreatedBy: uuid.NewString(),
	}
	_, err = bunDB.NewInsert().Model(event).Exec(ctx)
	require.NoError(t, err)

	svc := analytics.NewService(analytics.NewDB(bunDB), &eventdb.DB{Bun: bunDB}, logger.Nop())
	r := chi.NewRouter()
	r.Route("/api", analytics_api.NewHandler(svc, logger.Nop()).RegisterRoutes)
	return r, event.ID
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rr
}

func TestGetEventSales(t *testing.T) {
	router, eventID := setup(t)

	rr := serve(router, http.MethodGet, "/api/analytics/events/"+eventID, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		Data    models.EventSales `json:"data"`
		Message string            `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, eventID, body.Data.EventID)
	assert.Equal(t, "Success get event analytics", body.Message)

	rr = serve(router, http.MethodGet, "/api/analytics/events/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetBatchEventSales(t *testing.T) {
	router, eventID := setup(t)

	rr := serve(router, http.MethodPost, "/api/analytics/events/batch", `{"eventIds":["`+eventID+`"]}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), eventID)

	rr = serve(router, http.MethodPost, "/api/analytics/events/batch", `{"eventIds":[]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(router, http.MethodPost, "/api/analytics/events/batch", `{bad json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
