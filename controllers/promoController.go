package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Kariqs/treats-api/models"
	"github.com/Kariqs/treats-api/repository"
)

const (
	msgPromoNotFound  = "Promo code not found"
	msgPromoExists    = "Promo code already exists"
	msgInvalidPromoID = "Invalid promo code ID"
	msgDiscountRange  = "Discount must be between 0 and 100"
	msgInvalidExpiry  = "Invalid expiration date"
	dateOnlyLayout    = "2006-01-02"
)

var maxDiscount = decimal.NewFromInt(100)

type createPromoRequest struct {
	Code           string           `json:"code" binding:"required,max=20"`
	Name           string           `json:"name" binding:"required"`
	Discount       *decimal.Decimal `json:"discount"`
	ExpirationDate *string          `json:"expirationDate"`
	IsActive       *bool            `json:"isActive"`
}

type updatePromoRequest struct {
	Code           *string          `json:"code" binding:"omitempty,min=1,max=20"`
	Name           *string          `json:"name" binding:"omitempty,min=1"`
	Discount       *decimal.Decimal `json:"discount"`
	ExpirationDate *string          `json:"expirationDate"`
	IsActive       *bool            `json:"isActive"`
}

// promoResponse adds the derived usable flag. A promo code never changes a
// cart or order total; the flag is informational.
type promoResponse struct {
	models.PromoCode
	Usable bool `json:"usable"`
}

func (h *Handler) toPromoResponse(p models.PromoCode) promoResponse {
	return promoResponse{PromoCode: p, Usable: p.Usable(h.now())}
}

// parseExpiry accepts RFC 3339 timestamps and plain dates. An empty string
// means no expiry.
func parseExpiry(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateOnlyLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func validDiscount(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(maxDiscount)
}

func (h *Handler) CreatePromoCode(ctx *gin.Context) {
	var req createPromoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	promo := models.PromoCode{
		Code:     req.Code,
		Name:     req.Name,
		Discount: models.DefaultPromoDiscount,
		IsActive: true,
	}
	if req.Discount != nil {
		if !validDiscount(*req.Discount) {
			sendErrorResponse(ctx, http.StatusBadRequest, msgDiscountRange)
			return
		}
		promo.Discount = req.Discount.Round(2)
	}
	if req.ExpirationDate != nil {
		expiry, err := parseExpiry(*req.ExpirationDate)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidExpiry)
			return
		}
		promo.ExpirationDate = expiry
	}
	if req.IsActive != nil {
		promo.IsActive = *req.IsActive
	}

	if err := h.promos.Create(ctx.Request.Context(), &promo); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			sendErrorResponse(ctx, http.StatusConflict, msgPromoExists)
			return
		}
		sendInternalError(ctx, "Failed to add promo code", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, h.toPromoResponse(promo))
}

func (h *Handler) GetPromoCodes(ctx *gin.Context) {
	promos, err := h.promos.List(ctx.Request.Context())
	if err != nil {
		sendInternalError(ctx, "Failed to fetch promo codes", err)
		return
	}

	out := make([]promoResponse, len(promos))
	for i, p := range promos {
		out[i] = h.toPromoResponse(p)
	}
	sendJSONResponse(ctx, http.StatusOK, out)
}

func (h *Handler) GetPromoCode(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidPromoID)
		return
	}

	promo, err := h.promos.Get(ctx.Request.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, msgPromoNotFound)
		return
	case err != nil:
		sendInternalError(ctx, "Failed to fetch promo code", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, h.toPromoResponse(*promo))
}

func (h *Handler) UpdatePromoCode(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidPromoID)
		return
	}

	var req updatePromoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	update := repository.PromoUpdate{
		Code:     req.Code,
		Name:     req.Name,
		IsActive: req.IsActive,
	}
	if req.Discount != nil {
		if !validDiscount(*req.Discount) {
			sendErrorResponse(ctx, http.StatusBadRequest, msgDiscountRange)
			return
		}
		d := req.Discount.Round(2)
		update.Discount = &d
	}
	if req.ExpirationDate != nil {
		expiry, err := parseExpiry(*req.ExpirationDate)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidExpiry)
			return
		}
		update.ExpirationDate = expiry
		update.ClearExpiry = expiry == nil
	}

	promo, err := h.promos.Update(ctx.Request.Context(), id, update)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, msgPromoNotFound)
		return
	case errors.Is(err, repository.ErrConflict):
		sendErrorResponse(ctx, http.StatusConflict, msgPromoExists)
		return
	case err != nil:
		sendInternalError(ctx, "Failed to update promo code", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, h.toPromoResponse(*promo))
}

func (h *Handler) DeletePromoCode(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidPromoID)
		return
	}

	err := h.promos.Delete(ctx.Request.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, msgPromoNotFound)
		return
	case err != nil:
		sendInternalError(ctx, "Failed to delete promo code", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Promo code deleted successfully"})
}
