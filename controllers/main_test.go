package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kariqs/treats-api/controllers"
	"github.com/Kariqs/treats-api/events"
	"github.com/Kariqs/treats-api/initializers"
	"github.com/Kariqs/treats-api/middlewares"
	"github.com/Kariqs/treats-api/models"
	"github.com/Kariqs/treats-api/paypal"
	"github.com/Kariqs/treats-api/routes"
)

const (
	testSecret     = "test-secret"
	testAdminEmail = "shop@example.com"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePayments struct {
	mu         sync.Mutex
	createResp *paypal.Response
	captureRes *paypal.Response
	err        error
	totals     []decimal.Decimal
	captured   []string
}

func (f *fakePayments) CreateOrder(_ context.Context, total decimal.Decimal) (*paypal.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totals = append(f.totals, total)
	if f.err != nil {
		return nil, f.err
	}
	return f.createResp, nil
}

func (f *fakePayments) CaptureOrder(_ context.Context, orderID string) (*paypal.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.captured = append(f.captured, orderID)
	if f.err != nil {
		return nil, f.err
	}
	return f.captureRes, nil
}

type sentMail struct {
	to      []string
	subject string
	body    string
}

type fakeMailer struct {
	err  error
	sent []sentMail
}

func (f *fakeMailer) Send(to []string, subject, body string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return f.err
}

type fakeUploader struct {
	keys []string
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, key string, body io.Reader, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	return "https://bucket.example.com/" + key, nil
}

type fakeEvents struct {
	published []events.OrderCaptured
}

func (f *fakeEvents) PublishOrderCaptured(_ context.Context, e events.OrderCaptured) error {
	f.published = append(f.published, e)
	return nil
}

func (f *fakeEvents) Close() error { return nil }

type testEnv struct {
	t        *testing.T
	db       *gorm.DB
	router   *gin.Engine
	payments *fakePayments
	mailer   *fakeMailer
	images   *fakeUploader
	events   *fakeEvents
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, func(*controllers.Deps) {})
}

func newTestEnvWith(t *testing.T, mutate func(d *controllers.Deps)) *testEnv {
	t.Helper()

	db, err := initializers.ConnectToDB(context.Background(), &initializers.Config{
		DatabaseDriver: initializers.DriverSQLite,
		DatabaseURI:    ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, initializers.SyncDatabase(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		t:        t,
		db:       db,
		payments: &fakePayments{},
		mailer:   &fakeMailer{},
		images:   &fakeUploader{},
		events:   &fakeEvents{},
	}
	deps := controllers.Deps{
		Payments: env.payments,
		Mailer:   env.mailer,
		Images:   env.images,
		Events:   env.events,
	}
	mutate(&deps)

	h := controllers.NewHandler(controllers.Config{
		JWTSecret:   testSecret,
		TokenTTL:    time.Hour,
		AdminEmail:  testAdminEmail,
		ImagePrefix: "products",
	}, db, deps)

	env.router = gin.New()
	env.router.Use(middlewares.RequestID(), middlewares.Logger(zap.NewNop()), middlewares.Recovery())
	routes.Register(env.router, h, testSecret)
	return env
}

func (e *testEnv) request(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return e.request(req, token)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (e *testEnv) userToken(email string) string {
	e.t.Helper()

	w := e.do(http.MethodPost, "/api/register", gin.H{
		"firstname": "Tommy",
		"lastname":  "Trojan",
		"email":     email,
		"password":  "secret1",
	}, "")
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(http.MethodPost, "/api/login", gin.H{"email": email, "password": "secret1"}, "")
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	return decode[map[string]string](e.t, w)["access_token"]
}

func (e *testEnv) adminToken() string {
	e.t.Helper()

	w := e.do(http.MethodPost, "/api/register_admin", gin.H{
		"username": "boss",
		"email":    "boss@example.com",
		"password": "secret1",
	}, "")
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(http.MethodPost, "/api/login_admin", gin.H{"email": "boss@example.com", "password": "secret1"}, "")
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())
	return decode[map[string]string](e.t, w)["access_token"]
}

func (e *testEnv) seedProduct(name, price string) models.Product {
	e.t.Helper()

	p := models.Product{
		Name:     name,
		Category: "treats",
		Image:    name + ".png",
		Price:    decimal.RequireFromString(price),
		Quantity: 20,
	}
	require.NoError(e.t, e.db.Create(&p).Error)
	return p
}
