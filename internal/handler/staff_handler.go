package handler

import (
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type StaffHandler struct {
	staffService service.StaffService
	auth         *middleware.Auth
}

func NewStaffHandler(staffService service.StaffService, auth *middleware.Auth) *StaffHandler {
	return &StaffHandler{staffService: staffService, auth: auth}
}

func (h *StaffHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := router.Group("/api/admin/staff", h.auth.Authenticate())
	{
		staff.GET("", h.auth.RequirePermission(model.ModuleStaff, model.ActionRead), h.List)
		staff.POST("", h.auth.RequirePermission(model.ModuleStaff, model.ActionCreate), h.Create)
		staff.GET("/:id", h.auth.RequirePermission(model.ModuleStaff, model.ActionRead), h.Get)
		staff.PUT("/:id", h.auth.RequirePermission(model.ModuleStaff, model.ActionUpdate), h.Update)
		staff.DELETE("/:id", h.auth.RequirePermission(model.ModuleStaff, model.ActionDelete), h.Delete)

		staff.GET("/:id/performance", h.auth.RequirePermission(model.ModuleStaff, model.ActionRead), h.Performance)
		staff.GET("/:id/performance-logs", h.auth.RequirePermission(model.ModuleStaff, model.ActionRead), h.ListPerformanceLogs)
		staff.POST("/:id/performance-logs", h.auth.RequirePermission(model.ModuleStaff, model.ActionUpdate), h.LogPerformance)
	}

	tasks := router.Group("/api/admin/tasks", h.auth.Authenticate())
	{
		tasks.GET("", h.auth.RequirePermission(model.ModuleStaff, model.ActionRead), h.ListTasks)
		tasks.POST("", h.auth.RequirePermission(model.ModuleStaff, model.ActionCreate), h.CreateTask)
		tasks.GET("/:id", h.auth.RequirePermission(model.ModuleStaff, model.ActionRead), h.GetTask)
		tasks.PUT("/:id", h.auth.RequirePermission(model.ModuleStaff, model.ActionUpdate), h.UpdateTask)
		tasks.DELETE("/:id", h.auth.RequirePermission(model.ModuleStaff, model.ActionDelete), h.DeleteTask)
	}
}

// List returns paginated staff members
// @Summary      List staff
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Items per page"
// @Param        search  query  string  false  "Search by name or email"
// @Param        status  query  string  false  "Filter by status"
// @Success      200  {object}  response.Body
// @Router       /api/admin/staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.StaffFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		RoleID: queryUUID(c, "role_id"),
	}
	members, total, err := h.staffService.List(c.Request.Context(), filter, p.Page, p.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, members, pagination.NewMeta(p, total))
}

// Create adds a staff member
// @Summary      Create staff
// @Tags         staff
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateStaffRequest  true  "Staff payload"
// @Success      201  {object}  response.Body
// @Router       /api/admin/staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	var req service.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	actor, _ := middleware.AdminFromContext(c)
	member, err := h.staffService.Create(c.Request.Context(), req, actor.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Staff member created", member)
}

// Get returns one staff member
// @Summary      Get staff member
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Staff ID"
// @Success      200  {object}  response.Body
// @Failure      404  {object}  response.Body
// @Router       /api/admin/staff/{id} [get]
func (h *StaffHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	member, err := h.staffService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, member)
}

// Update edits a staff member
// @Summary      Update staff
// @Tags         staff
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                      true  "Staff ID"
// @Param        payload  body  service.UpdateStaffRequest  true  "Update payload"
// @Success      200  {object}  response.Body
// @Router       /api/admin/staff/{id} [put]
func (h *StaffHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	member, err := h.staffService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Staff member updated", member)
}

// Delete removes a staff member with no open tasks
// @Summary      Delete staff
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Staff ID"
// @Success      200  {object}  response.Body
// @Failure      400  {object}  response.Body
// @Router       /api/admin/staff/{id} [delete]
func (h *StaffHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.staffService.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Staff member deleted", nil)
}

// Performance returns a staff member's task throughput and average score
// @Summary      Staff performance summary
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Staff ID"
// @Success      200  {object}  response.Body
// @Router       /api/admin/staff/{id}/performance [get]
func (h *StaffHandler) Performance(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	perf, err := h.staffService.Performance(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, perf)
}

// ListPerformanceLogs returns a staff member's review history
// @Summary      List performance logs
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        id     path   string  true   "Staff ID"
// @Param        page   query  int     false  "Page number"
// @Param        limit  query  int     false  "Items per page"
// @Success      200  {object}  response.Body
// @Router       /api/admin/staff/{id}/performance-logs [get]
func (h *StaffHandler) ListPerformanceLogs(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	p := pagination.Parse(c)
	logs, total, err := h.staffService.ListPerformanceLogs(c.Request.Context(), id, p.Page, p.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, logs, pagination.NewMeta(p, total))
}

// LogPerformance records a performance review entry
// @Summary      Log performance
// @Tags         staff
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Staff ID"
// @Param        payload  body  service.LogPerformanceRequest  true  "Review payload"
// @Success      201  {object}  response.Body
// @Router       /api/admin/staff/{id}/performance-logs [post]
func (h *StaffHandler) LogPerformance(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.LogPerformanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	actor, _ := middleware.AdminFromContext(c)
	entry, err := h.staffService.LogPerformance(c.Request.Context(), id, req, actor.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Performance logged", entry)
}

func taskFilterFromQuery(c *gin.Context) repository.TaskFilter {
	filter := repository.TaskFilter{
		StaffID:    queryUUID(c, "staff_id"),
		PropertyID: queryUUID(c, "property_id"),
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		TaskType:   c.Query("task_type"),
	}
	if raw := c.Query("due_before"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.DueBefore = &t
		}
	}
	if raw := c.Query("due_after"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.DueAfter = &t
		}
	}
	return filter
}

// ListTasks returns paginated tasks ordered by due date
// @Summary      List tasks
// @Tags         tasks
// @Security     BearerAuth
// @Produce      json
// @Param        page      query  int     false  "Page number"
// @Param        limit     query  int     false  "Items per page"
// @Param        staff_id  query  string  false  "Filter by assignee"
// @Param        status    query  string  false  "Filter by status"
// @Param        priority  query  string  false  "Filter by priority"
// @Success      200  {object}  response.Body
// @Router       /api/admin/tasks [get]
func (h *StaffHandler) ListTasks(c *gin.Context) {
	p := pagination.Parse(c)
	tasks, total, err := h.staffService.ListTasks(c.Request.Context(), taskFilterFromQuery(c), p.Page, p.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, tasks, pagination.NewMeta(p, total))
}

// CreateTask assigns a task to an active staff member
// @Summary      Create task
// @Tags         tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateTaskRequest  true  "Task payload"
// @Success      201  {object}  response.Body
// @Failure      400  {object}  response.Body
// @Router       /api/admin/tasks [post]
func (h *StaffHandler) CreateTask(c *gin.Context) {
	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	actor, _ := middleware.AdminFromContext(c)
	task, err := h.staffService.CreateTask(c.Request.Context(), req, actor.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Task created", task)
}

// GetTask returns one task
// @Summary      Get task
// @Tags         tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Task ID"
// @Success      200  {object}  response.Body
// @Failure      404  {object}  response.Body
// @Router       /api/admin/tasks/{id} [get]
func (h *StaffHandler) GetTask(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	task, err := h.staffService.GetTask(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, task)
}

// UpdateTask edits a task or moves it through its workflow
// @Summary      Update task
// @Tags         tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Task ID"
// @Param        payload  body  service.UpdateTaskRequest  true  "Update payload"
// @Success      200  {object}  response.Body
// @Router       /api/admin/tasks/{id} [put]
func (h *StaffHandler) UpdateTask(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	task, err := h.staffService.UpdateTask(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Task updated", task)
}

// DeleteTask removes a task
// @Summary      Delete task
// @Tags         tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Task ID"
// @Success      200  {object}  response.Body
// @Router       /api/admin/tasks/{id} [delete]
func (h *StaffHandler) DeleteTask(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.staffService.DeleteTask(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Task deleted", nil)
}
