package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type promoBody struct {
	ID             uint            `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Discount       decimal.Decimal `json:"discount"`
	ExpirationDate *string         `json:"expirationDate"`
	IsActive       bool            `json:"isActive"`
	Usable         bool            `json:"usable"`
}

func TestPromo_CreateDefaultsAndConflict(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken()

	w := env.do(http.MethodPost, "/api/promo-codes", gin.H{"code": "WELCOME", "name": "Welcome"}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[promoBody](t, w)
	assert.True(t, p.Discount.Equal(decimal.NewFromInt(10)))
	assert.True(t, p.IsActive)
	assert.True(t, p.Usable)
	assert.Nil(t, p.ExpirationDate)

	w = env.do(http.MethodPost, "/api/promo-codes", gin.H{"code": "WELCOME", "name": "Again"}, admin)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPromo_Validation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken()

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "discount above 100", body: gin.H{"code": "A", "name": "a", "discount": 150}},
		{name: "negative discount", body: gin.H{"code": "B", "name": "b", "discount": -5}},
		{name: "code too long", body: gin.H{"code": "ABCDEFGHIJKLMNOPQRSTUVWXYZ", "name": "c"}},
		{name: "bad expiry", body: gin.H{"code": "D", "name": "d", "expirationDate": "soon"}},
		{name: "missing name", body: gin.H{"code": "E"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/promo-codes", tt.body, admin)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestPromo_MutationsRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	user := env.userToken("tommy@example.com")

	w := env.do(http.MethodPost, "/api/promo-codes", gin.H{"code": "X", "name": "x"}, user)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = env.do(http.MethodPut, "/api/promo-codes/1", gin.H{"name": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = env.do(http.MethodDelete, "/api/promo-codes/1", nil, user)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPromo_InactiveIsFetchableAndNeverDiscounts(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken()
	user := env.userToken("tommy@example.com")
	p := env.seedProduct("Brownie", "10.00")
	env.do(http.MethodPost, "/api/cart", gin.H{"productId": p.ID, "quantity": 2}, user)

	w := env.do(http.MethodPost, "/api/promo-codes", gin.H{
		"code": "OLD", "name": "Expired", "discount": 50, "expirationDate": "2020-01-01", "isActive": false,
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[promoBody](t, w)

	w = env.do(http.MethodGet, fmt.Sprintf("/api/promo-codes/%d", created.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[promoBody](t, w)
	assert.False(t, got.IsActive)
	assert.False(t, got.Usable)

	w = env.do(http.MethodGet, "/api/promo-codes", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]promoBody](t, w), 1)

	assert.True(t, getCart(t, env, user).Total.Equal(decimal.NewFromInt(20)))
}

func TestPromo_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken()

	w := env.do(http.MethodPost, "/api/promo-codes", gin.H{"code": "SPRING", "name": "Spring"}, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	spring := decode[promoBody](t, w)
	w = env.do(http.MethodPost, "/api/promo-codes", gin.H{"code": "FALL", "name": "Fall"}, admin)
	require.Equal(t, http.StatusCreated, w.Code)

	path := fmt.Sprintf("/api/promo-codes/%d", spring.ID)
	w = env.do(http.MethodPut, path, gin.H{"code": "FALL"}, admin)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodPut, path, gin.H{"discount": "25", "expirationDate": "2999-12-31T00:00:00Z"}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[promoBody](t, w)
	assert.True(t, updated.Discount.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "SPRING", updated.Code)
	require.NotNil(t, updated.ExpirationDate)
	assert.True(t, updated.Usable)

	w = env.do(http.MethodPut, path, gin.H{"expirationDate": ""}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[promoBody](t, w).ExpirationDate)

	w = env.do(http.MethodPut, "/api/promo-codes/999", gin.H{"name": "x"}, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodDelete, path, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(http.MethodDelete, path, nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
