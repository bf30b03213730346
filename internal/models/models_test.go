package models

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The service binary switches decimals to JSON numbers at startup.
func TestMain(m *testing.M) {
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

func TestPageQuery_Normalize(t *testing.T) {
	q := PageQuery{}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)

	q = PageQuery{Page: 3, Limit: 500}.Normalize()
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, MaxLimit, q.Limit)

	assert.Equal(t, 20, PageQuery{Page: 3, Limit: 10}.Offset())
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Total: 21, Current: 2, TotalPages: 3}, NewPagination(21, PageQuery{Page: 2, Limit: 10}))
	assert.Equal(t, Pagination{Total: 0, Current: 1, TotalPages: 0}, NewPagination(0, PageQuery{}))
	assert.Equal(t, 1, NewPagination(10, PageQuery{Limit: 10}).TotalPages)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "jakarta-jazz-festival", Slugify("Jakarta Jazz Festival"))
	assert.Equal(t, "solo", Slugify("  Solo "))
}

func TestUser_JSONHidesSecrets(t *testing.T) {
	u := User{
		ID:             "u1",
		Username:       "rina",
		Password:       "$2a$10$hash",
		ActivationCode: "code",
		RefreshToken:   "token",
	}
	raw, err := json.Marshal(u)
	require.NoError(t, err)

	body := string(raw)
	assert.NotContains(t, body, "hash")
	assert.NotContains(t, body, "activationCode")
	assert.NotContains(t, body, "token")
	assert.Contains(t, body, `"username":"rina"`)
}

func TestOrder_JSONShape(t *testing.T) {
	o := Order{
		OrderID:  "AB12C",
		Quantity: 3,
		Total:    decimal.NewFromInt(300),
		Status:   OrderStatusPending,
		Payment:  Payment{Token: "cs_test", RedirectURL: "https://pay"},
	}
	raw, err := json.Marshal(o)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(300), decoded["total"])
	assert.Equal(t, "pending", decoded["status"])
	assert.Equal(t, map[string]interface{}{"token": "cs_test", "redirect_url": "https://pay"}, decoded["payment"])
}
