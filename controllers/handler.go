package controllers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Kariqs/treats-api/events"
	"github.com/Kariqs/treats-api/paypal"
	"github.com/Kariqs/treats-api/repository"
)

// Default cost for bcrypt password hashing
const bcryptCost = 10

// PaymentGateway settles orders with the payment processor.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, total decimal.Decimal) (*paypal.Response, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.Response, error)
}

type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

type ImageUploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// Config is the part of the application configuration the handlers read.
type Config struct {
	JWTSecret   string
	TokenTTL    time.Duration
	AdminEmail  string
	ImagePrefix string
	Currency    string
}

// Deps are the external services used by the handlers. Images may be nil
// when no bucket is configured; Events defaults to events.Nop.
type Deps struct {
	Payments PaymentGateway
	Mailer   Mailer
	Images   ImageUploader
	Events   events.Publisher
}

type Handler struct {
	cfg Config
	db  *gorm.DB

	users    *repository.UserRepository
	products *repository.ProductRepository
	carts    *repository.CartRepository
	promos   *repository.PromoRepository
	audit    *repository.AuditRepository

	payments PaymentGateway
	mailer   Mailer
	images   ImageUploader
	events   events.Publisher

	now func() time.Time
}

func NewHandler(cfg Config, db *gorm.DB, deps Deps) *Handler {
	if deps.Events == nil {
		deps.Events = events.Nop{}
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	return &Handler{
		cfg:      cfg,
		db:       db,
		users:    repository.NewUserRepository(db),
		products: repository.NewProductRepository(db),
		carts:    repository.NewCartRepository(db),
		promos:   repository.NewPromoRepository(db),
		audit:    repository.NewAuditRepository(db),
		payments: deps.Payments,
		mailer:   deps.Mailer,
		images:   deps.Images,
		events:   deps.Events,
		now:      time.Now,
	}
}

func sendJSONResponse(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

// sendInternalError logs err with the request logger and answers with a
// fixed message.
func sendInternalError(ctx *gin.Context, message string, err error) {
	logger(ctx).Error(message, zap.Error(err))
	sendErrorResponse(ctx, http.StatusInternalServerError, message)
}

func logger(ctx *gin.Context) *zap.Logger {
	return zctx.From(ctx.Request.Context())
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
