package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/treats-api/middlewares"
	"github.com/Kariqs/treats-api/models"
	"github.com/Kariqs/treats-api/repository"
)

type registerAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterAdmin creates an administrator. The email must not be used by any
// identity, shopper or administrator.
func (h *Handler) RegisterAdmin(ctx *gin.Context) {
	var req registerAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		sendInternalError(ctx, msgFailedToHashPassword, err)
		return
	}

	admin := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		Role:     models.RoleAdmin,
	}
	if err := h.users.Create(ctx.Request.Context(), &admin); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			sendErrorResponse(ctx, http.StatusBadRequest, "Email already in use")
			return
		}
		sendInternalError(ctx, "Error registering admin", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Admin registered successfully!"})
}

func (h *Handler) LoginAdmin(ctx *gin.Context) {
	h.login(ctx, models.RoleAdmin)
}

func (h *Handler) AdminDetails(ctx *gin.Context) {
	claims, _ := middlewares.CurrentClaims(ctx)

	admin, err := h.users.FindByID(ctx.Request.Context(), claims.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound) || (err == nil && !admin.IsAdmin()):
		sendErrorResponse(ctx, http.StatusNotFound, "Admin not found")
		return
	case err != nil:
		sendInternalError(ctx, "Failed to fetch admin details", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"username": admin.Username, "email": admin.Email})
}
