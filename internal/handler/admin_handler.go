package handler

import (
	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService service.AdminService
	auth         *middleware.Auth
}

func NewAdminHandler(adminService service.AdminService, auth *middleware.Auth) *AdminHandler {
	return &AdminHandler{adminService: adminService, auth: auth}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admins := router.Group("/api/admin/admins", h.auth.Authenticate(), h.auth.SuperAdminOnly())
	{
		admins.GET("", h.ListAdmins)
		admins.POST("", h.CreateAdmin)
		admins.GET("/:id", h.GetAdmin)
		admins.PUT("/:id", h.UpdateAdmin)
		admins.DELETE("/:id", h.DeleteAdmin)
	}

	roles := router.Group("/api/admin/roles", h.auth.Authenticate(),
		h.auth.RequirePermission(model.ModuleSettings, model.ActionManage))
	{
		roles.GET("", h.ListRoles)
		roles.POST("", h.CreateRole)
		roles.GET("/:id", h.GetRole)
		roles.PUT("/:id", h.UpdateRole)
		roles.DELETE("/:id", h.DeleteRole)
	}

	perms := router.Group("/api/admin/permissions", h.auth.Authenticate(),
		h.auth.RequirePermission(model.ModuleSettings, model.ActionManage))
	{
		perms.GET("", h.ListPermissions)
		perms.GET("/grouped", h.GroupedPermissions)
		perms.POST("", h.CreatePermission)
	}
}

// ListAdmins returns paginated admin accounts
// @Summary      List admins
// @Tags         admins
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Items per page"
// @Param        search  query  string  false  "Search by name or email"
// @Param        status  query  string  false  "Filter by status"
// @Success      200  {object}  response.Body
// @Router       /api/admin/admins [get]
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.AdminFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		RoleID: queryUUID(c, "role_id"),
	}
	admins, total, err := h.adminService.ListAdmins(c.Request.Context(), filter, p.Page, p.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, admins, pagination.NewMeta(p, total))
}

// CreateAdmin creates a new admin account
// @Summary      Create admin
// @Tags         admins
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateAdminRequest  true  "Admin payload"
// @Success      201  {object}  response.Body
// @Failure      400  {object}  response.Body
// @Router       /api/admin/admins [post]
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req service.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	admin, err := h.adminService.CreateAdmin(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Admin created", admin)
}

// GetAdmin returns one admin account
// @Summary      Get admin
// @Tags         admins
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Admin ID"
// @Success      200  {object}  response.Body
// @Failure      404  {object}  response.Body
// @Router       /api/admin/admins/{id} [get]
func (h *AdminHandler) GetAdmin(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	admin, err := h.adminService.GetAdmin(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, admin)
}

// UpdateAdmin updates an admin account
// @Summary      Update admin
// @Tags         admins
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Admin ID"
// @Param        payload  body  service.UpdateAdminRequest  true  "Update payload"
// @Success      200  {object}  response.Body
// @Router       /api/admin/admins/{id} [put]
func (h *AdminHandler) UpdateAdmin(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	admin, err := h.adminService.UpdateAdmin(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Admin updated", admin)
}

// DeleteAdmin removes an admin account
// @Summary      Delete admin
// @Tags         admins
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Admin ID"
// @Success      200  {object}  response.Body
// @Router       /api/admin/admins/{id} [delete]
func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.AdminFromContext(c)
	if err := h.adminService.DeleteAdmin(c.Request.Context(), id, actor.ID); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Admin deleted", nil)
}

// ListRoles returns paginated roles with their permissions
// @Summary      List roles
// @Tags         roles
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Items per page"
// @Param        search  query  string  false  "Search by name"
// @Success      200  {object}  response.Body
// @Router       /api/admin/roles [get]
func (h *AdminHandler) ListRoles(c *gin.Context) {
	p := pagination.Parse(c)
	roles, total, err := h.adminService.ListRoles(c.Request.Context(), c.Query("search"), p.Page, p.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, roles, pagination.NewMeta(p, total))
}

// CreateRole creates a role and attaches permissions
// @Summary      Create role
// @Tags         roles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateRoleRequest  true  "Role payload"
// @Success      201  {object}  response.Body
// @Router       /api/admin/roles [post]
func (h *AdminHandler) CreateRole(c *gin.Context) {
	var req service.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	role, err := h.adminService.CreateRole(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Role created", role)
}

// GetRole returns one role
// @Summary      Get role
// @Tags         roles
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Role ID"
// @Success      200  {object}  response.Body
// @Router       /api/admin/roles/{id} [get]
func (h *AdminHandler) GetRole(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	role, err := h.adminService.GetRole(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, role)
}

// UpdateRole updates a role and its permission set
// @Summary      Update role
// @Tags         roles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Role ID"
// @Param        payload  body  service.UpdateRoleRequest  true  "Update payload"
// @Success      200  {object}  response.Body
// @Router       /api/admin/roles/{id} [put]
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	role, err := h.adminService.UpdateRole(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Role updated", role)
}

// DeleteRole removes an unassigned role
// @Summary      Delete role
// @Tags         roles
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Role ID"
// @Success      200  {object}  response.Body
// @Failure      400  {object}  response.Body
// @Router       /api/admin/roles/{id} [delete]
func (h *AdminHandler) DeleteRole(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.adminService.DeleteRole(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Role deleted", nil)
}

// ListPermissions returns all permissions, optionally per module
// @Summary      List permissions
// @Tags         roles
// @Security     BearerAuth
// @Produce      json
// @Param        module  query  string  false  "Filter by module"
// @Success      200  {object}  response.Body
// @Router       /api/admin/permissions [get]
func (h *AdminHandler) ListPermissions(c *gin.Context) {
	perms, err := h.adminService.ListPermissions(c.Request.Context(), c.Query("module"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, perms)
}

// GroupedPermissions returns permissions bucketed by module
// @Summary      Permissions grouped by module
// @Tags         roles
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Body
// @Router       /api/admin/permissions/grouped [get]
func (h *AdminHandler) GroupedPermissions(c *gin.Context) {
	grouped, err := h.adminService.GroupedPermissions(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, grouped)
}

// CreatePermission registers a new module/action capability
// @Summary      Create permission
// @Tags         roles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreatePermissionRequest  true  "Permission payload"
// @Success      201  {object}  response.Body
// @Router       /api/admin/permissions [post]
func (h *AdminHandler) CreatePermission(c *gin.Context) {
	var req service.CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	perm, err := h.adminService.CreatePermission(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Permission created", perm)
}
