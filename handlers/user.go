package handlers

import (
	"net/http"

	"staybook/middleware"
	"staybook/services/user"
	"staybook/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes the identity collaborator over HTTP.
type UserHandler struct {
	Service user.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{Service: svc}
}

// RegisterUser handles POST /api/users/register.
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var input user.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	u, token, err := h.Service.Register(c.Request.Context(), input)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "registration failed", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u, "token": token})
}

// AuthenticateUser handles POST /api/users/login.
func (h *UserHandler) AuthenticateUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	u, token, err := h.Service.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		utils.JSONError(c, http.StatusUnauthorized, "authentication failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
}

// GetUserByID handles GET /api/users/id/:id.
func (h *UserHandler) GetUserByID(c *gin.Context) {
	u, err := h.Service.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "user not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// RevokeAuthToken handles DELETE /api/users/revoke.
func (h *UserHandler) RevokeAuthToken(c *gin.Context) {
	if err := h.Service.RevokeAuthToken(c.Request.Context(), middleware.CallerID(c)); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to revoke token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"revoked": true})
}

// UpdateFCMToken handles PUT /api/users/fcm-token.
func (h *UserHandler) UpdateFCMToken(c *gin.Context) {
	var input struct {
		FCMToken string `json:"fcm_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Service.UpdateFCMToken(c.Request.Context(), middleware.CallerID(c), input.FCMToken); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to update FCM token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}
