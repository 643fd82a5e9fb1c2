package handler

import (
	"strconv"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	auth           *middleware.Auth
}

func NewPaymentHandler(paymentService service.PaymentService, auth *middleware.Auth) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, auth: auth}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	payments := router.Group("/api/admin/payments", h.auth.Authenticate())
	{
		payments.GET("", h.auth.RequirePermission(model.ModulePayments, model.ActionRead), h.List)
		payments.GET("/stats", h.auth.RequirePermission(model.ModulePayments, model.ActionRead), h.Stats)
		payments.GET("/revenue", h.auth.RequirePermission(model.ModulePayments, model.ActionRead), h.Revenue)
		payments.GET("/gateways", h.auth.RequirePermission(model.ModulePayments, model.ActionManage), h.Gateways)
		payments.POST("", h.auth.RequirePermission(model.ModulePayments, model.ActionCreate), h.Record)
		payments.GET("/:id", h.auth.RequirePermission(model.ModulePayments, model.ActionRead), h.Get)
		payments.GET("/:id/invoice", h.auth.RequirePermission(model.ModulePayments, model.ActionRead), h.Invoice)
		payments.PATCH("/:id/status", h.auth.RequirePermission(model.ModulePayments, model.ActionUpdate), h.UpdateStatus)
		payments.POST("/:id/refund", h.auth.RequirePermission(model.ModulePayments, model.ActionManage), h.Refund)
	}
}

func paymentFilterFromQuery(c *gin.Context) repository.PaymentFilter {
	filter := repository.PaymentFilter{
		Search:        c.Query("search"),
		Status:        c.Query("status"),
		PaymentMethod: c.Query("payment_method"),
		UserID:        queryUUID(c, "user_id"),
		PlanID:        queryUUID(c, "plan_id"),
	}
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.From = &t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.To = &t
		}
	}
	return filter
}

// List returns paginated payments
// @Summary      List payments
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        page            query  int     false  "Page number"
// @Param        limit           query  int     false  "Items per page"
// @Param        search          query  string  false  "Search by payment or transaction ID"
// @Param        status          query  string  false  "Filter by status"
// @Param        payment_method  query  string  false  "Filter by method"
// @Success      200  {object}  response.Body
// @Router       /api/admin/payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	payments, total, err := h.paymentService.List(c.Request.Context(), paymentFilterFromQuery(c), p.Page, p.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, payments, pagination.NewMeta(p, total))
}

// Record books an externally processed transaction
// @Summary      Record payment
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.RecordPaymentRequest  true  "Payment payload"
// @Success      201  {object}  response.Body
// @Failure      400  {object}  response.Body
// @Router       /api/admin/payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	actor, _ := middleware.AdminFromContext(c)
	payment, err := h.paymentService.Record(c.Request.Context(), req, &actor.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Payment recorded", payment)
}

// Get returns one payment
// @Summary      Get payment
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Payment ID"
// @Success      200  {object}  response.Body
// @Failure      404  {object}  response.Body
// @Router       /api/admin/payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	payment, err := h.paymentService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, payment)
}

// Invoice returns invoice data for a settled payment
// @Summary      Payment invoice
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Payment ID"
// @Success      200  {object}  response.Body
// @Failure      400  {object}  response.Body
// @Router       /api/admin/payments/{id}/invoice [get]
func (h *PaymentHandler) Invoice(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.paymentService.Invoice(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, invoice)
}

// UpdateStatus moves a payment through its lifecycle
// @Summary      Update payment status
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                               true  "Payment ID"
// @Param        payload  body  service.UpdatePaymentStatusRequest  true  "New status"
// @Success      200  {object}  response.Body
// @Router       /api/admin/payments/{id}/status [patch]
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	payment, err := h.paymentService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Payment status updated", payment)
}

// Refund refunds part or all of a completed payment
// @Summary      Refund payment
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Payment ID"
// @Param        payload  body  service.RefundPaymentRequest  true  "Refund amount and reason"
// @Success      200  {object}  response.Body
// @Failure      400  {object}  response.Body
// @Router       /api/admin/payments/{id}/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	actor, _ := middleware.AdminFromContext(c)
	payment, err := h.paymentService.Refund(c.Request.Context(), id, actor.ID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Payment refunded", payment)
}

// Stats returns headline payment aggregates
// @Summary      Payment statistics
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Body
// @Router       /api/admin/payments/stats [get]
func (h *PaymentHandler) Stats(c *gin.Context) {
	stats, err := h.paymentService.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, stats)
}

// Revenue returns monthly completed-payment revenue
// @Summary      Monthly revenue
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        months  query  int  false  "Months to include (default 12, max 24)"
// @Success      200  {object}  response.Body
// @Router       /api/admin/payments/revenue [get]
func (h *PaymentHandler) Revenue(c *gin.Context) {
	months := 12
	if raw := c.Query("months"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			months = n
		}
	}
	points, err := h.paymentService.MonthlyRevenue(c.Request.Context(), months)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, points)
}

// Gateways returns the publishable gateway configuration
// @Summary      Gateway settings
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Body
// @Router       /api/admin/payments/gateways [get]
func (h *PaymentHandler) Gateways(c *gin.Context) {
	response.OK(c, h.paymentService.Gateways(c.Request.Context()))
}
