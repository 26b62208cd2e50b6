package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kariqs/treats-api/middlewares"
	"github.com/Kariqs/treats-api/models"
	"github.com/Kariqs/treats-api/repository"
)

const (
	// Standard response messages
	msgInvalidInput          = "Invalid input"
	msgInvalidCredentials    = "Invalid credentials"
	msgUserAlreadyExists     = "User with this email already exists"
	msgEmailInUse            = "Email is already in use by another account"
	msgUserNotFound          = "User not found"
	msgUserRegistered        = "User registered successfully"
	msgUserUpdated           = "User details updated successfully!"
	msgLogoutSuccessful      = "Logout successful!"
	msgFailedToHashPassword  = "Failed to hash password"
	msgFailedToGenerateToken = "Failed to generate token"
	msgInternalServerError   = "Internal server error"
)

type registerRequest struct {
	Firstname string  `json:"firstname" binding:"required"`
	Lastname  string  `json:"lastname" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=6"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

type updateUserRequest struct {
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

// Register creates a shopper account.
func (h *Handler) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		sendInternalError(ctx, msgFailedToHashPassword, err)
		return
	}

	user := models.User{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Password:  hashed,
		Phone:     emptyToNil(req.Phone),
		Address:   emptyToNil(req.Address),
		Role:      models.RoleUser,
	}
	if err := h.users.Create(ctx.Request.Context(), &user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			sendErrorResponse(ctx, http.StatusBadRequest, msgUserAlreadyExists)
			return
		}
		sendInternalError(ctx, "Error saving user to database", err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": msgUserRegistered})
}

// Login issues a token to a shopper.
func (h *Handler) Login(ctx *gin.Context) {
	h.login(ctx, models.RoleUser)
}

// login checks the credentials of an identity holding role. Identities of
// another role are rejected the same way as a wrong password.
func (h *Handler) login(ctx *gin.Context, role string) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := h.users.FindByEmail(ctx.Request.Context(), loginData.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	case err != nil:
		sendInternalError(ctx, "Login failed", err)
		return
	}

	if user.Role != role {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if err := comparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	token, err := middlewares.IssueToken(user, h.cfg.JWTSecret, h.cfg.TokenTTL)
	if err != nil {
		sendInternalError(ctx, msgFailedToGenerateToken, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"access_token": token})
}

// Logout only acknowledges; tokens are stateless and expire on their own.
func (h *Handler) Logout(ctx *gin.Context) {
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgLogoutSuccessful})
}

func (h *Handler) Protected(ctx *gin.Context) {
	claims, _ := middlewares.CurrentClaims(ctx)
	sendJSONResponse(ctx, http.StatusOK, gin.H{"logged_in_as": claims})
}

// UpdateUser applies a partial profile update to the caller's account.
func (h *Handler) UpdateUser(ctx *gin.Context) {
	var req updateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	claims, _ := middlewares.CurrentClaims(ctx)
	reqCtx := ctx.Request.Context()

	user, err := h.users.FindByID(reqCtx, claims.UserID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, msgUserNotFound)
		return
	case err != nil:
		sendInternalError(ctx, "Failed to update user", err)
		return
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := h.users.EmailTaken(reqCtx, *req.Email, user.ID)
		if err != nil {
			sendInternalError(ctx, "Failed to update user", err)
			return
		}
		if taken {
			sendErrorResponse(ctx, http.StatusBadRequest, msgEmailInUse)
			return
		}
		user.Email = *req.Email
	}
	if req.Firstname != nil && *req.Firstname != "" {
		user.Firstname = *req.Firstname
	}
	if req.Lastname != nil && *req.Lastname != "" {
		user.Lastname = *req.Lastname
	}
	if req.Phone != nil {
		user.Phone = emptyToNil(req.Phone)
	}
	if req.Address != nil {
		user.Address = emptyToNil(req.Address)
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := hashPassword(*req.Password)
		if err != nil {
			sendInternalError(ctx, msgFailedToHashPassword, err)
			return
		}
		user.Password = hashed
	}

	if err := h.users.Save(reqCtx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			sendErrorResponse(ctx, http.StatusBadRequest, msgEmailInUse)
			return
		}
		sendInternalError(ctx, "Failed to update user", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgUserUpdated})
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
