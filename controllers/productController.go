package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Kariqs/treats-api/models"
	"github.com/Kariqs/treats-api/repository"
)

const (
	msgProductNotFound  = "Product not found"
	msgInvalidProductID = "Invalid product ID"
	msgNegativePrice    = "Price must not be negative"
)

type createProductRequest struct {
	Name     string           `json:"name" binding:"required"`
	Category string           `json:"category" binding:"required"`
	Image    string           `json:"image" binding:"required"`
	Price    *decimal.Decimal `json:"price" binding:"required"`
	Quantity *int             `json:"quantity" binding:"omitempty,min=0"`
}

type updateProductRequest struct {
	Name     *string          `json:"name" binding:"omitempty,min=1"`
	Category *string          `json:"category" binding:"omitempty,min=1"`
	Image    *string          `json:"image" binding:"omitempty,min=1"`
	Price    *decimal.Decimal `json:"price"`
	Quantity *int             `json:"quantity" binding:"omitempty,min=0"`
}

func (h *Handler) GetProducts(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(repository.DefaultPageSize)))

	filter := repository.ProductFilter{
		Search:   ctx.Query("search"),
		Category: ctx.Query("category"),
		Page:     page,
		Limit:    limit,
	}
	filter.Normalize()

	products, total, err := h.products.List(ctx.Request.Context(), filter)
	if err != nil {
		sendInternalError(ctx, "Unable to fetch products", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"products": products,
		"metadata": gin.H{
			"total": total,
			"page":  filter.Page,
			"limit": filter.Limit,
		},
	})
}

func (h *Handler) GetProduct(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidProductID)
		return
	}

	product, err := h.products.Get(ctx.Request.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
		return
	case err != nil:
		sendInternalError(ctx, "Unable to retrieve product", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, product)
}

func (h *Handler) CreateProduct(ctx *gin.Context) {
	var req createProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if req.Price.IsNegative() {
		sendErrorResponse(ctx, http.StatusBadRequest, msgNegativePrice)
		return
	}

	product := models.Product{
		Name:     req.Name,
		Category: req.Category,
		Image:    req.Image,
		Price:    req.Price.Round(2),
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}

	if err := h.products.Create(ctx.Request.Context(), &product); err != nil {
		sendInternalError(ctx, "Error adding product", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidProductID)
		return
	}

	var req updateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			sendErrorResponse(ctx, http.StatusBadRequest, msgNegativePrice)
			return
		}
		rounded := req.Price.Round(2)
		req.Price = &rounded
	}

	product, err := h.products.Update(ctx.Request.Context(), id, repository.ProductUpdate{
		Name:     req.Name,
		Category: req.Category,
		Image:    req.Image,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
		return
	case err != nil:
		sendInternalError(ctx, "Error updating product", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, product)
}

func (h *Handler) DeleteProduct(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidProductID)
		return
	}

	err := h.products.Delete(ctx.Request.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
		return
	case err != nil:
		sendInternalError(ctx, "Error deleting product", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// UploadProductImage stores the multipart "image" file in the bucket and
// points the product at the uploaded object.
func (h *Handler) UploadProductImage(ctx *gin.Context) {
	if h.images == nil {
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Image uploads are not configured")
		return
	}

	id, ok := parseID(ctx, "id")
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidProductID)
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "No file uploaded")
		return
	}

	reqCtx := ctx.Request.Context()
	if _, err := h.products.Get(reqCtx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgProductNotFound)
			return
		}
		sendInternalError(ctx, "Failed to validate product", err)
		return
	}

	f, err := file.Open()
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid form data")
		return
	}
	defer f.Close()

	// Unique per upload so an object is never overwritten.
	key := path.Join(h.cfg.ImagePrefix,
		fmt.Sprintf("%d-%s-%s", id, h.now().UTC().Format("20060102150405"), filepath.Base(file.Filename)))

	url, err := h.images.Upload(reqCtx, key, f, file.Header.Get("Content-Type"))
	if err != nil {
		logger(ctx).Error("Image upload failed", zap.String("key", key), zap.Error(err))
		sendErrorResponse(ctx, http.StatusBadGateway, "Failed to upload image")
		return
	}

	product, err := h.products.Update(reqCtx, id, repository.ProductUpdate{Image: &url})
	if err != nil {
		sendInternalError(ctx, "Failed to save product image", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, product)
}
