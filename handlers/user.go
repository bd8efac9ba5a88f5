package handlers

import (
	"context"
	"errors"
	"net/http"

	orderRepo "pharmabook/database/repository/order"
	"pharmabook/services/cart"
	"pharmabook/services/flow"
	"pharmabook/services/session"
	"pharmabook/services/user"
	"pharmabook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler exposes account endpoints.
type UserHandler struct {
	UserService user.UserService
	Orders      orderRepo.OrderRepository
	Sessions    *session.Mirror
	Cart        cart.CartService
	Flow        *flow.Machine
}

// RegisterUserHandler handles POST /api/users/register.
func (h *UserHandler) RegisterUserHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req struct {
		user.RegisterInput
		Slug string `json:"slug"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	res, err := h.UserService.Register(req.RegisterInput)
	if err != nil {
		var authErr *user.AuthError
		if errors.As(err, &authErr) {
			c.JSON(http.StatusConflict, gin.H{"error": authErr.Message})
			return
		}
		logger.Error("Registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	step := h.onSignedIn(c, res, req.Slug)
	c.JSON(http.StatusCreated, gin.H{
		"token": res.Token,
		"user":  res.User,
		"step":  step,
	})
}

// AuthenticateUserHandler handles POST /api/users/login.
func (h *UserHandler) AuthenticateUserHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Slug     string `json:"slug"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	res, err := h.UserService.Authenticate(req.Email, req.Password)
	if err != nil {
		var authErr *user.AuthError
		if errors.As(err, &authErr) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Message})
			return
		}
		logger.Error("Authentication failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
		return
	}

	step := h.onSignedIn(c, res, req.Slug)
	c.JSON(http.StatusOK, gin.H{
		"token": res.Token,
		"user":  res.User,
		"step":  step,
	})
}

// onSignedIn records the auth keys in the caller's session, carries the
// guest cart over to the user and, when the sign-in happened mid-booking,
// fires the flow's authenticated event so the wizard moves past the login
// step without a separate action.
func (h *UserHandler) onSignedIn(c *gin.Context, res *user.AuthResult, slug string) string {
	sid := c.GetString("sessionID")
	if sid == "" {
		return ""
	}
	ctx := context.Background()
	scope := session.NewScope(h.Sessions, sid)
	scope.Set(ctx, session.KeyAuthToken, res.Token)
	scope.Set(ctx, session.KeyUserID, res.User.ID)

	// Cart lookups key on the user id from here on, so the session-keyed
	// guest cart must follow the user or the wizard loses it.
	if _, err := h.Cart.Merge(ctx, sid, res.User.ID); err != nil {
		utils.GetLogger().Warn("guest cart merge failed",
			zap.String("userId", res.User.ID), zap.Error(err))
	}

	if slug == "" {
		return ""
	}
	return string(h.Flow.OnAuthenticated(ctx, scope, slug))
}

// GetProfileHandler handles GET /api/users/me.
func (h *UserHandler) GetProfileHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := currentUserID(c)

	usr, err := h.UserService.GetByID(id)
	if err != nil {
		logger.Error("User not found", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, usr)
}

// UpdateProfileHandler handles PUT /api/users/me.
func (h *UserHandler) UpdateProfileHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := currentUserID(c)

	var req user.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	usr, err := h.UserService.UpdateProfile(id, req)
	if err != nil {
		logger.Error("Failed to update profile", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, usr)
}

// ListOrdersHandler handles GET /api/users/me/orders.
func (h *UserHandler) ListOrdersHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := currentUserID(c)

	orders, err := h.Orders.ListByUser(id)
	if err != nil {
		logger.Error("Failed to list orders", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// RevokeUserTokenHandler handles DELETE /api/users/logout. The active token
// is invalidated server-side and the session's auth keys are cleared.
func (h *UserHandler) RevokeUserTokenHandler(c *gin.Context) {
	logger := utils.GetLogger()
	id := currentUserID(c)

	if err := h.UserService.RevokeToken(id); err != nil {
		logger.Error("Failed to revoke token", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign out"})
		return
	}

	if sid := c.GetString("sessionID"); sid != "" {
		scope := session.NewScope(h.Sessions, sid)
		scope.Del(context.Background(), session.KeyAuthToken, session.KeyUserID)
	}
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}
