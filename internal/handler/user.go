package handler

import (
	"errors"
	"net/http"

	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/middleware"
	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/model"
	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles login, registration and profile routes.
//
// Expected domain failures (wrong credentials, duplicate account,
// insufficient role) are returned as HTTP 200 payloads carrying an
// errorMessage, matching what the storefront client parses. This is a
// deliberate deviation from conventional REST status codes; changing it
// would break deployed clients.
type UserHandler struct {
	authService    service.AuthService
	profileService service.ProfileService
}

// NewUserHandler は新しいユーザーハンドラーを作成
func NewUserHandler(authService service.AuthService, profileService service.ProfileService) *UserHandler {
	return &UserHandler{
		authService:    authService,
		profileService: profileService,
	}
}

// Login はログイン処理
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusOK, gin.H{"errorMessage": "Wrong Credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// Register はアカウント登録処理
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrAccountExists) {
			c.JSON(http.StatusOK, gin.H{"errorMessage": "Account already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Me returns the caller's sanitized profile and partitioned orders.
func (h *UserHandler) Me(c *gin.Context) {
	user, exists := middleware.GetUserFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	profile, err := h.profileService.GetSelfProfile(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// customerOrdersRequest identifies the customer an admin is inspecting.
type customerOrdersRequest struct {
	ID string `json:"id" binding:"required"`
}

// CustomerOrders is the admin-only lookup of another customer's profile
// and orders. Non-admin callers receive the literal body "Unauthorized"
// with status 200, which the client displays verbatim.
func (h *UserHandler) CustomerOrders(c *gin.Context) {
	user, exists := middleware.GetUserFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req customerOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileService.GetCustomerProfile(c.Request.Context(), user.ID, req.ID)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			c.String(http.StatusOK, "Unauthorized")
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
