package handler

import (
	"fmt"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	auth                *middleware.Auth
}

func NewSubscriptionHandler(subscriptionService service.SubscriptionService, auth *middleware.Auth) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService, auth: auth}
}

func (h *SubscriptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Pricing page is public.
	router.GET("/api/plans", h.ListPublicPlans)

	plans := router.Group("/api/admin/plans", h.auth.Authenticate())
	{
		plans.GET("", h.auth.RequirePermission(model.ModuleSubscriptions, model.ActionRead), h.ListPlans)
		plans.POST("", h.auth.RequirePermission(model.ModuleSubscriptions, model.ActionCreate), h.CreatePlan)
		plans.POST("/bulk-update", h.auth.RequirePermission(model.ModuleSubscriptions, model.ActionUpdate), h.BulkUpdatePlans)
		plans.GET("/:id", h.auth.RequirePermission(model.ModuleSubscriptions, model.ActionRead), h.GetPlan)
		plans.PUT("/:id", h.auth.RequirePermission(model.ModuleSubscriptions, model.ActionUpdate), h.UpdatePlan)
		plans.DELETE("/:id", h.auth.RequirePermission(model.ModuleSubscriptions, model.ActionDelete), h.DeletePlan)
	}

	subs := router.Group("/api/admin/subscriptions", h.auth.Authenticate())
	{
		subs.GET("", h.auth.RequirePermission(model.ModuleSubscriptions, model.ActionRead), h.List)
		subs.GET("/analytics", h.auth.RequirePermission(model.ModuleSubscriptions, model.ActionRead), h.Analytics)
		subs.POST("", h.auth.RequirePermission(model.ModuleSubscriptions, model.ActionCreate), h.Assign)
		subs.POST("/bulk-cancel", h.auth.RequirePermission(model.ModuleSubscriptions, model.ActionUpdate), h.BulkCancel)
		subs.GET("/:id", h.auth.RequirePermission(model.ModuleSubscriptions, model.ActionRead), h.Get)
		subs.GET("/:id/usage", h.auth.RequirePermission(model.ModuleSubscriptions, model.ActionRead), h.Usage)
		subs.PATCH("/:id/cancel", h.auth.RequirePermission(model.ModuleSubscriptions, model.ActionUpdate), h.Cancel)
		subs.PATCH("/:id/suspend", h.auth.RequirePermission(model.ModuleSubscriptions, model.ActionUpdate), h.Suspend)
		subs.PATCH("/:id/reactivate", h.auth.RequirePermission(model.ModuleSubscriptions, model.ActionUpdate), h.Reactivate)
		subs.PATCH("/:id/credits", h.auth.RequirePermission(model.ModuleSubscriptions, model.ActionUpdate), h.AdjustCredits)
	}
}

// ListPublicPlans returns active plans for the pricing page
// @Summary      List active plans
// @Tags         subscriptions
// @Produce      json
// @Success      200  {object}  response.Body
// @Router       /api/plans [get]
func (h *SubscriptionHandler) ListPublicPlans(c *gin.Context) {
	plans, err := h.subscriptionService.ListPlans(c.Request.Context(), true)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, plans)
}

// ListPlans returns all plans including inactive ones
// @Summary      List plans
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Body
// @Router       /api/admin/plans [get]
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.subscriptionService.ListPlans(c.Request.Context(), false)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, plans)
}

// CreatePlan adds a subscription plan
// @Summary      Create plan
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreatePlanRequest  true  "Plan payload"
// @Success      201  {object}  response.Body
// @Router       /api/admin/plans [post]
func (h *SubscriptionHandler) CreatePlan(c *gin.Context) {
	var req service.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	plan, err := h.subscriptionService.CreatePlan(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Plan created", plan)
}

// BulkUpdatePlans applies a batch of plan patches
// @Summary      Bulk update plans
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.BulkUpdatePlansRequest  true  "Plan patches"
// @Success      200  {object}  response.Body
// @Router       /api/admin/plans/bulk-update [post]
func (h *SubscriptionHandler) BulkUpdatePlans(c *gin.Context) {
	var req service.BulkUpdatePlansRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	plans, err := h.subscriptionService.BulkUpdatePlans(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Subscription plans updated", plans)
}

// GetPlan returns one plan
// @Summary      Get plan
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Plan ID"
// @Success      200  {object}  response.Body
// @Router       /api/admin/plans/{id} [get]
func (h *SubscriptionHandler) GetPlan(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	plan, err := h.subscriptionService.GetPlan(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, plan)
}

// UpdatePlan edits a plan
// @Summary      Update plan
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Plan ID"
// @Param        payload  body  service.UpdatePlanRequest  true  "Update payload"
// @Success      200  {object}  response.Body
// @Router       /api/admin/plans/{id} [put]
func (h *SubscriptionHandler) UpdatePlan(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	plan, err := h.subscriptionService.UpdatePlan(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Plan updated", plan)
}

// DeletePlan removes a plan with no active subscriptions
// @Summary      Delete plan
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Plan ID"
// @Success      200  {object}  response.Body
// @Failure      400  {object}  response.Body
// @Router       /api/admin/plans/{id} [delete]
func (h *SubscriptionHandler) DeletePlan(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.subscriptionService.DeletePlan(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Plan deleted", nil)
}

// List returns paginated subscriptions
// @Summary      List subscriptions
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        page     query  int     false  "Page number"
// @Param        limit    query  int     false  "Items per page"
// @Param        status   query  string  false  "Filter by status"
// @Param        user_id  query  string  false  "Filter by user"
// @Param        plan_id  query  string  false  "Filter by plan"
// @Success      200  {object}  response.Body
// @Router       /api/admin/subscriptions [get]
func (h *SubscriptionHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := repository.SubscriptionFilter{
		UserID: queryUUID(c, "user_id"),
		PlanID: queryUUID(c, "plan_id"),
		Status: c.Query("status"),
	}
	subs, total, err := h.subscriptionService.List(c.Request.Context(), filter, p.Page, p.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, subs, pagination.NewMeta(p, total))
}

// Analytics returns subscription counts by status and plan
// @Summary      Subscription analytics
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Body
// @Router       /api/admin/subscriptions/analytics [get]
func (h *SubscriptionHandler) Analytics(c *gin.Context) {
	analytics, err := h.subscriptionService.Analytics(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, analytics)
}

// Assign grants a plan to a user, expiring any running subscription first
// @Summary      Assign subscription
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.AssignSubscriptionRequest  true  "Assignment payload"
// @Success      201  {object}  response.Body
// @Router       /api/admin/subscriptions [post]
func (h *SubscriptionHandler) Assign(c *gin.Context) {
	var req service.AssignSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	sub, err := h.subscriptionService.Assign(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Subscription assigned", sub)
}

// Get returns one subscription
// @Summary      Get subscription
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Subscription ID"
// @Success      200  {object}  response.Body
// @Failure      404  {object}  response.Body
// @Router       /api/admin/subscriptions/{id} [get]
func (h *SubscriptionHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	sub, err := h.subscriptionService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, sub)
}

// Usage returns credit consumption for a subscription
// @Summary      Subscription usage
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Subscription ID"
// @Success      200  {object}  response.Body
// @Router       /api/admin/subscriptions/{id}/usage [get]
func (h *SubscriptionHandler) Usage(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	usage, err := h.subscriptionService.Usage(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, usage)
}

// Cancel cancels a subscription with a reason
// @Summary      Cancel subscription
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                             true  "Subscription ID"
// @Param        payload  body  service.CancelSubscriptionRequest  true  "Cancellation reason"
// @Success      200  {object}  response.Body
// @Router       /api/admin/subscriptions/{id}/cancel [patch]
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.CancelSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	actor, _ := middleware.AdminFromContext(c)
	sub, err := h.subscriptionService.Cancel(c.Request.Context(), id, actor.ID, req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Subscription cancelled", sub)
}

// BulkCancel cancels several subscriptions at once
// @Summary      Bulk cancel subscriptions
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.BulkCancelRequest  true  "Subscription IDs and reason"
// @Success      200  {object}  response.Body
// @Router       /api/admin/subscriptions/bulk-cancel [post]
func (h *SubscriptionHandler) BulkCancel(c *gin.Context) {
	var req service.BulkCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	actor, _ := middleware.AdminFromContext(c)
	cancelled, err := h.subscriptionService.BulkCancel(c.Request.Context(), req, actor.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, fmt.Sprintf("%d subscription(s) cancelled", cancelled), gin.H{"cancelled": cancelled})
}

// Suspend pauses an active subscription
// @Summary      Suspend subscription
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Subscription ID"
// @Success      200  {object}  response.Body
// @Failure      400  {object}  response.Body
// @Router       /api/admin/subscriptions/{id}/suspend [patch]
func (h *SubscriptionHandler) Suspend(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	sub, err := h.subscriptionService.Suspend(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Subscription suspended", sub)
}

// Reactivate resumes a suspended subscription that has not lapsed
// @Summary      Reactivate subscription
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Subscription ID"
// @Success      200  {object}  response.Body
// @Failure      400  {object}  response.Body
// @Router       /api/admin/subscriptions/{id}/reactivate [patch]
func (h *SubscriptionHandler) Reactivate(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	sub, err := h.subscriptionService.Reactivate(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Subscription reactivated", sub)
}

// AdjustCredits adds or removes visit credits on an active subscription
// @Summary      Adjust credits
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Subscription ID"
// @Param        payload  body  service.AdjustCreditsRequest  true  "Credit delta"
// @Success      200  {object}  response.Body
// @Router       /api/admin/subscriptions/{id}/credits [patch]
func (h *SubscriptionHandler) AdjustCredits(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.AdjustCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	sub, err := h.subscriptionService.AdjustCredits(c.Request.Context(), id, req.Delta)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Credits adjusted", sub)
}
