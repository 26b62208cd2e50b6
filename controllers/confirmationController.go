package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/Kariqs/treats-api/models"
	"github.com/Kariqs/treats-api/repository"
	"github.com/Kariqs/treats-api/utils"
)

type confirmationPayer struct {
	EmailAddress string `json:"email_address" binding:"required,email"`
}

type confirmationTransaction struct {
	ID     string            `json:"id" binding:"required,printascii"`
	Status string            `json:"status"`
	Payer  confirmationPayer `json:"payer"`
}

type confirmationItem struct {
	Name     string          `json:"name" binding:"required"`
	Quantity int             `json:"quantity" binding:"min=1"`
	Price    decimal.Decimal `json:"price"`
}

// shippingAddress follows the PayPal address object.
type shippingAddress struct {
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	AdminArea2   string `json:"admin_area_2"`
	AdminArea1   string `json:"admin_area_1"`
	PostalCode   string `json:"postal_code"`
	CountryCode  string `json:"country_code"`
}

func (a shippingAddress) String() string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.AddressLine1, a.AddressLine2, a.AdminArea2, a.AdminArea1, a.PostalCode, a.CountryCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type confirmationRequest struct {
	Transaction     confirmationTransaction `json:"transaction"`
	Cart            []confirmationItem      `json:"cart" binding:"required,min=1,dive"`
	PromoCode       *string                 `json:"promoCode"`
	CustomerName    string                  `json:"customerName" binding:"required"`
	ShippingAddress shippingAddress         `json:"shippingAddress"`
	ColorSelections map[string]any          `json:"colorSelections"`
}

// SendConfirmation mails the order confirmation to the shop mailbox and the
// payer and stores an audit copy. The copy is stored whether or not the mail
// went out; a failed send is reported but never retried and does not touch
// the captured payment.
func (h *Handler) SendConfirmation(ctx *gin.Context) {
	var req confirmationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	lg := logger(ctx).With(zap.String("transaction_id", req.Transaction.ID))

	data := req.render()
	if data.PromoCode != "" {
		data.PromoName = h.promoName(ctx, lg, data.PromoCode)
	}

	body, err := utils.RenderOrderConfirmation(data)
	if err != nil {
		sendInternalError(ctx, "Failed to render confirmation email", err)
		return
	}

	recipients := make([]string, 0, 2)
	if h.cfg.AdminEmail != "" {
		recipients = append(recipients, h.cfg.AdminEmail)
	}
	recipients = append(recipients, req.Transaction.Payer.EmailAddress)

	sendErr := h.mailer.Send(recipients, "Order Confirmation - "+req.Transaction.ID, body)

	record, err := req.record()
	if err != nil {
		lg.Error("Failed to encode email confirmation", zap.Error(err))
	} else {
		record.Sent = sendErr == nil
		if sendErr != nil {
			record.SendError = truncate(sendErr.Error(), 500)
		}
		if err := h.audit.RecordConfirmation(ctx.Request.Context(), record); err != nil {
			lg.Error("Error saving email confirmation", zap.Error(err))
		}
	}

	if sendErr != nil {
		lg.Error("Error sending email", zap.Error(sendErr))
		sendErrorResponse(ctx, http.StatusBadGateway, "Failed to send confirmation email")
		return
	}

	lg.Info("Confirmation email sent")
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Confirmation email sent successfully"})
}

func (h *Handler) GetAllConfirmations(ctx *gin.Context) {
	confirmations, err := h.audit.Confirmations(ctx.Request.Context())
	if err != nil {
		sendInternalError(ctx, "Error fetching confirmations", err)
		return
	}
	if len(confirmations) == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "No confirmations found")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, confirmations)
}

// promoName returns the registered name of code, or "" when the code is
// unknown. Unknown or unusable codes are still printed on the confirmation.
func (h *Handler) promoName(ctx *gin.Context, lg *zap.Logger, code string) string {
	promo, err := h.promos.FindByCode(ctx.Request.Context(), code)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		lg.Warn("Confirmation references unknown promo code", zap.String("promo_code", code))
		return ""
	case err != nil:
		lg.Error("Failed to look up promo code", zap.String("promo_code", code), zap.Error(err))
		return ""
	}
	if !promo.Usable(h.now()) {
		lg.Warn("Confirmation references unusable promo code", zap.String("promo_code", code))
	}
	return promo.Name
}

func (r *confirmationRequest) render() utils.OrderConfirmation {
	items := make([]utils.ConfirmationItem, len(r.Cart))
	for i, it := range r.Cart {
		items[i] = utils.ConfirmationItem{Name: it.Name, Quantity: it.Quantity, Price: it.Price.StringFixed(2)}
	}

	keys := make([]string, 0, len(r.ColorSelections))
	for k := range r.ColorSelections {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	colors := make([]utils.KeyValue, len(keys))
	for i, k := range keys {
		colors[i] = utils.KeyValue{Key: k, Value: fmt.Sprint(r.ColorSelections[k])}
	}

	promo := ""
	if r.PromoCode != nil {
		promo = *r.PromoCode
	}

	return utils.OrderConfirmation{
		CustomerName:    r.CustomerName,
		ShippingAddress: r.ShippingAddress.String(),
		TransactionID:   r.Transaction.ID,
		Status:          r.Transaction.Status,
		Items:           items,
		PromoCode:       promo,
		ColorSelections: colors,
	}
}

func (r *confirmationRequest) record() (*models.EmailConfirmation, error) {
	address, err := json.Marshal(r.ShippingAddress)
	if err != nil {
		return nil, err
	}
	cartJSON, err := json.Marshal(r.Cart)
	if err != nil {
		return nil, err
	}

	rec := &models.EmailConfirmation{
		TransactionID:   r.Transaction.ID,
		PayerEmail:      r.Transaction.Payer.EmailAddress,
		CustomerName:    r.CustomerName,
		ShippingAddress: datatypes.JSON(address),
		Cart:            datatypes.JSON(cartJSON),
	}
	if r.PromoCode != nil && *r.PromoCode != "" {
		rec.PromoCode = r.PromoCode
	}
	if len(r.ColorSelections) > 0 {
		colors, err := json.Marshal(r.ColorSelections)
		if err != nil {
			return nil, err
		}
		rec.ColorSelections = datatypes.JSON(colors)
	}
	return rec, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
