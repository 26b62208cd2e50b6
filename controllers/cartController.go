package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/treats-api/cart"
	"github.com/Kariqs/treats-api/middlewares"
	"github.com/Kariqs/treats-api/repository"
)

const (
	msgCartNotFound     = "Cart not found"
	msgItemNotInCart    = "Product not found in cart"
	msgFailedToLoadCart = "Error fetching cart"
)

type addToCartRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  *int `json:"quantity" binding:"omitempty,min=1"`
}

type updateCartRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type removeFromCartRequest struct {
	ProductID uint `json:"productId" form:"productId" binding:"required"`
}

// GetCart returns the caller's priced cart. A user who never added anything
// gets an empty cart rather than an error.
func (h *Handler) GetCart(ctx *gin.Context) {
	view, ok := h.cartView(ctx)
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, view)
}

func (h *Handler) AddToCart(ctx *gin.Context) {
	var req addToCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	claims, _ := middlewares.CurrentClaims(ctx)
	err := h.carts.AddItem(ctx.Request.Context(), claims.UserID, req.ProductID, quantity)
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
		return
	case err != nil:
		sendInternalError(ctx, "Error updating cart", err)
		return
	}

	view, ok := h.cartView(ctx)
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product added/updated in cart", "cart": view})
}

func (h *Handler) UpdateCartItem(ctx *gin.Context) {
	var req updateCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	claims, _ := middlewares.CurrentClaims(ctx)
	err := h.carts.UpdateQuantity(ctx.Request.Context(), claims.UserID, req.ProductID, req.Quantity)
	if !h.handleCartError(ctx, err, "Error updating cart") {
		return
	}

	view, ok := h.cartView(ctx)
	if !ok {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart updated", "cart": view})
}

// RemoveFromCart deletes one product line. The product id may come in the
// JSON body or as the productId query parameter.
func (h *Handler) RemoveFromCart(ctx *gin.Context) {
	var req removeFromCartRequest
	if raw := ctx.Query("productId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidProductID)
			return
		}
		req.ProductID = uint(id)
	} else if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	claims, _ := middlewares.CurrentClaims(ctx)
	err := h.carts.RemoveItem(ctx.Request.Context(), claims.UserID, req.ProductID)
	if !h.handleCartError(ctx, err, "Error removing product from cart") {
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product removed from cart"})
}

func (h *Handler) ClearCart(ctx *gin.Context) {
	claims, _ := middlewares.CurrentClaims(ctx)
	if err := h.carts.Clear(ctx.Request.Context(), claims.UserID); err != nil {
		sendInternalError(ctx, "Error clearing cart", err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart cleared"})
}

// handleCartError writes the response for err and reports whether the
// caller may continue.
func (h *Handler) handleCartError(ctx *gin.Context, err error, internalMsg string) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, repository.ErrCartNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, msgCartNotFound)
	case errors.Is(err, repository.ErrNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, msgItemNotInCart)
	default:
		sendInternalError(ctx, internalMsg, err)
	}
	return false
}

func (h *Handler) cartView(ctx *gin.Context) (cart.View, bool) {
	claims, _ := middlewares.CurrentClaims(ctx)
	lines, err := h.carts.Lines(ctx.Request.Context(), claims.UserID)
	if err != nil {
		sendInternalError(ctx, msgFailedToLoadCart, err)
		return cart.View{}, false
	}
	return cart.Summarize(lines), true
}
