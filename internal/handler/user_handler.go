package handler

import (
	"fmt"
	"net/http"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
	auth        *middleware.Auth
}

func NewUserHandler(userService service.UserService, auth *middleware.Auth) *UserHandler {
	return &UserHandler{userService: userService, auth: auth}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/api/admin/users", h.auth.Authenticate())
	{
		users.GET("", h.auth.RequirePermission(model.ModuleUsers, model.ActionRead), h.List)
		users.GET("/stats", h.auth.RequirePermission(model.ModuleUsers, model.ActionRead), h.Stats)
		users.GET("/export", h.auth.RequirePermission(model.ModuleUsers, model.ActionRead), h.Export)
		users.POST("", h.auth.RequirePermission(model.ModuleUsers, model.ActionCreate), h.Create)
		users.POST("/bulk-delete", h.auth.RequirePermission(model.ModuleUsers, model.ActionDelete), h.BulkDelete)
		users.GET("/:id", h.auth.RequirePermission(model.ModuleUsers, model.ActionRead), h.Get)
		users.GET("/:id/logins", h.auth.RequirePermission(model.ModuleUsers, model.ActionRead), h.LoginHistory)
		users.PUT("/:id", h.auth.RequirePermission(model.ModuleUsers, model.ActionUpdate), h.Update)
		users.PATCH("/:id/status", h.auth.RequirePermission(model.ModuleUsers, model.ActionUpdate), h.UpdateStatus)
		users.PATCH("/:id/block", h.auth.RequirePermission(model.ModuleUsers, model.ActionUpdate), h.Block)
		users.DELETE("/:id", h.auth.RequirePermission(model.ModuleUsers, model.ActionDelete), h.Delete)
	}
}

func userFilterFromQuery(c *gin.Context) repository.UserFilter {
	filter := repository.UserFilter{
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		UserType:   c.Query("user_type"),
		IsBlocked:  queryBool(c, "is_blocked"),
		IsVerified: queryBool(c, "is_verified"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = &t
		}
	}
	return filter
}

// List returns paginated end users
// @Summary      List users
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        page       query  int     false  "Page number"
// @Param        limit      query  int     false  "Items per page"
// @Param        search     query  string  false  "Search by name, email or phone"
// @Param        status     query  string  false  "Filter by status"
// @Param        user_type  query  string  false  "Filter by type: tenant, landlord, both"
// @Success      200  {object}  response.Body
// @Router       /api/admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	users, total, err := h.userService.List(c.Request.Context(), userFilterFromQuery(c), p.Page, p.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, users, pagination.NewMeta(p, total))
}

// Stats returns headline user counts
// @Summary      User statistics
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Body
// @Router       /api/admin/users/stats [get]
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.userService.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, stats)
}

// Export streams the filtered user list as an XLSX download
// @Summary      Export users
// @Tags         users
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Router       /api/admin/users/export [get]
func (h *UserHandler) Export(c *gin.Context) {
	buf, err := h.userService.ExportXLSX(c.Request.Context(), userFilterFromQuery(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	filename := fmt.Sprintf("users_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// Create adds a new end user
// @Summary      Create user
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateUserRequest  true  "User payload"
// @Success      201  {object}  response.Body
// @Failure      400  {object}  response.Body
// @Router       /api/admin/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	actor, _ := middleware.AdminFromContext(c)
	user, err := h.userService.Create(c.Request.Context(), req, &actor.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "User created", user)
}

// Get returns one end user
// @Summary      Get user
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  response.Body
// @Failure      404  {object}  response.Body
// @Router       /api/admin/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, user)
}

// LoginHistory returns the user's sign-in summary
// @Summary      User login history
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  response.Body
// @Failure      404  {object}  response.Body
// @Router       /api/admin/users/{id}/logins [get]
func (h *UserHandler) LoginHistory(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	history, err := h.userService.LoginHistory(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, history)
}

// Update edits an end user's profile
// @Summary      Update user
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "User ID"
// @Param        payload  body  service.UpdateUserRequest  true  "Update payload"
// @Success      200  {object}  response.Body
// @Router       /api/admin/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	user, err := h.userService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "User updated", user)
}

// UpdateStatus sets an end user's account status
// @Summary      Update user status
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                           true  "User ID"
// @Param        payload  body  service.UpdateUserStatusRequest  true  "New status"
// @Success      200  {object}  response.Body
// @Router       /api/admin/users/{id}/status [patch]
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	user, err := h.userService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "User status updated", user)
}

// Block toggles an end user's blocked flag
// @Summary      Block or unblock user
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                    true  "User ID"
// @Param        payload  body  service.BlockUserRequest  true  "Blocked flag"
// @Success      200  {object}  response.Body
// @Router       /api/admin/users/{id}/block [patch]
func (h *UserHandler) Block(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.BlockUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	actor, _ := middleware.AdminFromContext(c)
	user, err := h.userService.SetBlocked(c.Request.Context(), id, req.Blocked, &actor.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	message := "User unblocked"
	if req.Blocked {
		message = "User blocked"
	}
	response.OKMessage(c, message, user)
}

// Delete removes an end user
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  response.Body
// @Router       /api/admin/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "User deleted", nil)
}

// BulkDelete removes several end users at once
// @Summary      Bulk delete users
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.BulkDeleteRequest  true  "User IDs"
// @Success      200  {object}  response.Body
// @Router       /api/admin/users/bulk-delete [post]
func (h *UserHandler) BulkDelete(c *gin.Context) {
	var req service.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	deleted, err := h.userService.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, fmt.Sprintf("%d user(s) deleted", deleted), gin.H{"deleted": deleted})
}
