package handler

import (
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	auth        *middleware.Auth
	loginLimit  *middleware.InMemoryRateLimiter
	frontendURL string
}

func NewAuthHandler(authService service.AuthService, auth *middleware.Auth, loginLimit *middleware.InMemoryRateLimiter, frontendURL string) *AuthHandler {
	return &AuthHandler{authService: authService, auth: auth, loginLimit: loginLimit, frontendURL: frontendURL}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/login", middleware.RateLimit(h.loginLimit), h.Login)
		auth.POST("/forgot-password", middleware.RateLimit(h.loginLimit), h.ForgotPassword)
		auth.PUT("/reset-password", h.ResetPassword)
		auth.GET("/me", h.auth.Authenticate(), h.Me)
		auth.PUT("/profile", h.auth.Authenticate(), h.UpdateProfile)
		auth.PUT("/change-password", h.auth.Authenticate(), h.auth.AdminOnly(), h.ChangePassword)
		auth.POST("/logout", h.auth.Authenticate(), h.Logout)
	}
}

// Login authenticates an admin or end user by email and password
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.LoginRequest  true  "Credentials"
// @Success      200  {object}  response.Body
// @Failure      401  {object}  response.Body
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Login successful", result)
}

// Me returns the authenticated principal
// @Summary      Current account
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Body
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	if admin, ok := middleware.AdminFromContext(c); ok {
		fresh, err := h.authService.GetAdminProfile(c.Request.Context(), admin.ID)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, fresh)
		return
	}
	if user, ok := middleware.UserFromContext(c); ok {
		fresh, err := h.authService.GetUserProfile(c.Request.Context(), user.ID)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, fresh)
		return
	}
	response.Fail(c, 401, "Not authorized to access this route")
}

// UpdateProfile updates the authenticated principal's own profile
// @Summary      Update profile
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.UpdateProfileRequest  true  "Profile fields"
// @Success      200  {object}  response.Body
// @Router       /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	if admin, ok := middleware.AdminFromContext(c); ok {
		updated, err := h.authService.UpdateAdminProfile(c.Request.Context(), admin.ID, req)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OKMessage(c, "Profile updated", updated)
		return
	}
	if user, ok := middleware.UserFromContext(c); ok {
		updated, err := h.authService.UpdateUserProfile(c.Request.Context(), user.ID, req)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OKMessage(c, "Profile updated", updated)
		return
	}
	response.Fail(c, 401, "Not authorized to access this route")
}

// ChangePassword rotates the authenticated admin's password
// @Summary      Change password
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.ChangePasswordRequest  true  "Current and new password"
// @Success      200  {object}  response.Body
// @Router       /api/auth/change-password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	admin, _ := middleware.AdminFromContext(c)
	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	if err := h.authService.ChangeAdminPassword(c.Request.Context(), admin.ID, req); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Password changed successfully", nil)
}

// ForgotPassword mails a reset link when the account exists
// @Summary      Request password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.ForgotPasswordRequest  true  "Account email"
// @Success      200  {object}  response.Body
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req service.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	if err := h.authService.ForgotPassword(c.Request.Context(), req, h.frontendURL); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "If the email exists, a reset link has been sent", nil)
}

// ResetPassword sets a new password from a reset token
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.ResetPasswordRequest  true  "Token and new password"
// @Success      200  {object}  response.Body
// @Router       /api/auth/reset-password [put]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req service.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	if err := h.authService.ResetPassword(c.Request.Context(), req); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Password has been reset", nil)
}

// Logout acknowledges the logout; tokens are stateless so the client simply
// discards its copy.
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Body
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	response.OKMessage(c, "Logged out", nil)
}
