package handler

import (
	"strconv"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/internal/websocket"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	auth             *middleware.Auth
	hub              *websocket.Hub
	jwtSecret        []byte
}

func NewDashboardHandler(dashboardService service.DashboardService, auth *middleware.Auth, hub *websocket.Hub, jwtSecret []byte) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, auth: auth, hub: hub, jwtSecret: jwtSecret}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/api/admin/dashboard", h.auth.Authenticate(),
		h.auth.RequirePermission(model.ModuleDashboard, model.ActionRead))
	{
		dashboard.GET("/metrics", h.Metrics)
		dashboard.GET("/charts", h.Charts)
		dashboard.GET("/recent-activities", h.RecentActivities)
		dashboard.GET("/activities", h.Activities)
	}

	// The websocket upgrade authenticates via query token; browsers cannot
	// set headers on websocket requests.
	router.GET("/ws", h.Feed)
}

// Metrics returns the dashboard headline numbers
// @Summary      Dashboard metrics
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Body
// @Router       /api/admin/dashboard/metrics [get]
func (h *DashboardHandler) Metrics(c *gin.Context) {
	metrics, err := h.dashboardService.Metrics(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, metrics)
}

// Charts returns the dashboard chart series
// @Summary      Dashboard charts
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Body
// @Router       /api/admin/dashboard/charts [get]
func (h *DashboardHandler) Charts(c *gin.Context) {
	charts, err := h.dashboardService.Charts(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, charts)
}

// RecentActivities returns the latest audit entries
// @Summary      Recent activities
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query  int  false  "Max entries (default 20, max 50)"
// @Success      200  {object}  response.Body
// @Router       /api/admin/dashboard/recent-activities [get]
func (h *DashboardHandler) RecentActivities(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	activities, err := h.dashboardService.RecentActivities(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, activities)
}

// Activities pages through the audit log, optionally filtered by kind
// @Summary      Activity log
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Param        kind   query  string  false  "Activity kind"
// @Param        page   query  int     false  "Page number"
// @Param        limit  query  int     false  "Items per page"
// @Success      200  {object}  response.Body
// @Router       /api/admin/dashboard/activities [get]
func (h *DashboardHandler) Activities(c *gin.Context) {
	p := pagination.Parse(c)
	activities, total, err := h.dashboardService.ActivitiesByKind(c.Request.Context(), c.Query("kind"), p.Page, p.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, activities, pagination.NewMeta(p, total))
}

// Feed upgrades to a websocket carrying live admin events
// @Summary      Live event feed
// @Tags         dashboard
// @Param        token  query  string  true  "Admin JWT"
// @Success      101  {string}  string  "Switching Protocols"
// @Router       /ws [get]
func (h *DashboardHandler) Feed(c *gin.Context) {
	websocket.ServeWs(h.hub, c, h.jwtSecret)
}
