package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kariqs/treats-api/models"
)

func confirmationPayload(txID string) gin.H {
	return gin.H{
		"transaction": gin.H{
			"id":     txID,
			"status": "COMPLETED",
			"payer":  gin.H{"email_address": "payer@example.com"},
		},
		"cart": []gin.H{
			{"name": "Brownie", "quantity": 2, "price": "10.00"},
			{"name": "Scone", "quantity": 3, "price": "5.00"},
		},
		"promoCode":    "WELCOME",
		"customerName": "Tommy Trojan",
		"shippingAddress": gin.H{
			"address_line_1": "3551 Trousdale Pkwy",
			"admin_area_2":   "Los Angeles",
			"admin_area_1":   "CA",
			"postal_code":    "90089",
			"country_code":   "US",
		},
		"colorSelections": gin.H{"Brownie": "red"},
	}
}

type confirmationBody struct {
	ID            uint      `json:"id"`
	TransactionID string    `json:"transaction_id"`
	PayerEmail    string    `json:"payer_email"`
	CustomerName  string    `json:"customer_name"`
	PromoCode     *string   `json:"promo_code"`
	Sent          bool      `json:"sent"`
	SendError     string    `json:"send_error"`
	Date          time.Time `json:"date"`
}

func TestSendConfirmation_MailsAndStores(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/send-confirmation", confirmationPayload("CAPTURE-9"), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Confirmation email sent successfully"}`, w.Body.String())

	require.Len(t, env.mailer.sent, 1)
	mail := env.mailer.sent[0]
	assert.Equal(t, []string{testAdminEmail, "payer@example.com"}, mail.to)
	assert.Equal(t, "Order Confirmation - CAPTURE-9", mail.subject)
	assert.Contains(t, mail.body, "Tommy Trojan")
	assert.Contains(t, mail.body, "Brownie")
	assert.Contains(t, mail.body, "Los Angeles")

	var rows []models.EmailConfirmation
	require.NoError(t, env.db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "CAPTURE-9", rows[0].TransactionID)
	assert.True(t, rows[0].Sent)
	require.NotNil(t, rows[0].PromoCode)
	assert.Equal(t, "WELCOME", *rows[0].PromoCode)
	assert.JSONEq(t, `{"Brownie":"red"}`, string(rows[0].ColorSelections))
}

func TestSendConfirmation_MailFailureStillStores(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.err = errors.New("relay down")

	w := env.do(http.MethodPost, "/api/send-confirmation", confirmationPayload("CAPTURE-9"), "")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var rows []models.EmailConfirmation
	require.NoError(t, env.db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Sent)
	assert.Equal(t, "relay down", rows[0].SendError)
}

func TestSendConfirmation_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		mutate func(gin.H)
	}{
		{name: "missing transaction id", mutate: func(b gin.H) { b["transaction"].(gin.H)["id"] = "" }},
		{name: "bad payer email", mutate: func(b gin.H) { b["transaction"].(gin.H)["payer"] = gin.H{"email_address": "nope"} }},
		{name: "empty cart", mutate: func(b gin.H) { b["cart"] = []gin.H{} }},
		{name: "missing customer", mutate: func(b gin.H) { delete(b, "customerName") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := confirmationPayload("CAPTURE-9")
			tt.mutate(body)
			w := env.do(http.MethodPost, "/api/send-confirmation", body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Empty(t, env.mailer.sent)
}

func TestGetAllConfirmations(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken()
	user := env.userToken("tommy@example.com")

	w := env.do(http.MethodGet, "/api/get-all-confirmations", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = env.do(http.MethodGet, "/api/get-all-confirmations", nil, user)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, "/api/get-all-confirmations", nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)

	for _, id := range []string{"FIRST", "SECOND"} {
		w = env.do(http.MethodPost, "/api/send-confirmation", confirmationPayload(id), "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w = env.do(http.MethodGet, "/api/get-all-confirmations", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	rows := decode[[]confirmationBody](t, w)
	require.Len(t, rows, 2)
	assert.Equal(t, "SECOND", rows[0].TransactionID)
	assert.Equal(t, "FIRST", rows[1].TransactionID)
}

func TestSendConfirmation_RejectsLineBreaksInTransactionID(t *testing.T) {
	env := newTestEnv(t)

	body := confirmationPayload("TX-1\r\nBcc: victim@evil.example")
	w := env.do(http.MethodPost, "/api/send-confirmation", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.mailer.sent)

	var count int64
	require.NoError(t, env.db.Model(&models.EmailConfirmation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSendConfirmation_NamesRegisteredPromo(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken()

	w := env.do(http.MethodPost, "/api/promo-codes", gin.H{"code": "WELCOME", "name": "Welcome Back"}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(http.MethodPost, "/api/send-confirmation", confirmationPayload("CAPTURE-9"), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, env.mailer.sent, 1)
	assert.Contains(t, env.mailer.sent[0].body, "WELCOME (Welcome Back)")

	body := confirmationPayload("CAPTURE-10")
	body["promoCode"] = "NOPE"
	w = env.do(http.MethodPost, "/api/send-confirmation", body, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.mailer.sent, 2)
	assert.Contains(t, env.mailer.sent[1].body, "Promo Code Applied:</strong> NOPE</p>")
}
