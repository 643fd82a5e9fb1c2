package handler

import (
	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxonomyHandler struct {
	taxonomyService service.TaxonomyService
	auth            *middleware.Auth
}

func NewTaxonomyHandler(taxonomyService service.TaxonomyService, auth *middleware.Auth) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyService: taxonomyService, auth: auth}
}

func (h *TaxonomyHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Public catalogue reads feed the listing forms on the storefront.
	router.GET("/api/categories", h.ListCategories)
	router.GET("/api/features", h.ListFeatures)
	router.GET("/api/amenities", h.ListAmenities)

	categories := router.Group("/api/admin/categories", h.auth.Authenticate(),
		h.auth.RequirePermission(model.ModuleProperties, model.ActionManage))
	{
		categories.POST("", h.CreateCategory)
		categories.GET("/:id", h.GetCategory)
		categories.PUT("/:id", h.UpdateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
	}

	features := router.Group("/api/admin/features", h.auth.Authenticate(),
		h.auth.RequirePermission(model.ModuleProperties, model.ActionManage))
	{
		features.POST("", h.CreateFeature)
		features.DELETE("/:id", h.DeleteFeature)
	}

	amenities := router.Group("/api/admin/amenities", h.auth.Authenticate(),
		h.auth.RequirePermission(model.ModuleProperties, model.ActionManage))
	{
		amenities.POST("", h.CreateAmenity)
		amenities.DELETE("/:id", h.DeleteAmenity)
	}
}

// ListCategories returns property categories
// @Summary      List categories
// @Tags         taxonomy
// @Produce      json
// @Param        active  query  bool  false  "Only active categories"
// @Success      200  {object}  response.Body
// @Router       /api/categories [get]
func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	categories, err := h.taxonomyService.ListCategories(c.Request.Context(), activeOnly)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, categories)
}

// CreateCategory adds a property category
// @Summary      Create category
// @Tags         taxonomy
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateCategoryRequest  true  "Category payload"
// @Success      201  {object}  response.Body
// @Router       /api/admin/categories [post]
func (h *TaxonomyHandler) CreateCategory(c *gin.Context) {
	var req service.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	category, err := h.taxonomyService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Category created", category)
}

// GetCategory returns one category
// @Summary      Get category
// @Tags         taxonomy
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Category ID"
// @Success      200  {object}  response.Body
// @Router       /api/admin/categories/{id} [get]
func (h *TaxonomyHandler) GetCategory(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	category, err := h.taxonomyService.GetCategory(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, category)
}

// UpdateCategory edits a category
// @Summary      Update category
// @Tags         taxonomy
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Category ID"
// @Param        payload  body  service.UpdateCategoryRequest  true  "Update payload"
// @Success      200  {object}  response.Body
// @Router       /api/admin/categories/{id} [put]
func (h *TaxonomyHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	category, err := h.taxonomyService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Category updated", category)
}

// DeleteCategory removes an unused category
// @Summary      Delete category
// @Tags         taxonomy
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Category ID"
// @Success      200  {object}  response.Body
// @Failure      400  {object}  response.Body
// @Router       /api/admin/categories/{id} [delete]
func (h *TaxonomyHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.taxonomyService.DeleteCategory(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Category deleted", nil)
}

// ListFeatures returns property features
// @Summary      List features
// @Tags         taxonomy
// @Produce      json
// @Param        active  query  bool  false  "Only active features"
// @Success      200  {object}  response.Body
// @Router       /api/features [get]
func (h *TaxonomyHandler) ListFeatures(c *gin.Context) {
	features, err := h.taxonomyService.ListFeatures(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, features)
}

// CreateFeature adds a property feature
// @Summary      Create feature
// @Tags         taxonomy
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateFeatureRequest  true  "Feature payload"
// @Success      201  {object}  response.Body
// @Router       /api/admin/features [post]
func (h *TaxonomyHandler) CreateFeature(c *gin.Context) {
	var req service.CreateFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	feature, err := h.taxonomyService.CreateFeature(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Feature created", feature)
}

// DeleteFeature removes a feature
// @Summary      Delete feature
// @Tags         taxonomy
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Feature ID"
// @Success      200  {object}  response.Body
// @Router       /api/admin/features/{id} [delete]
func (h *TaxonomyHandler) DeleteFeature(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.taxonomyService.DeleteFeature(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Feature deleted", nil)
}

// ListAmenities returns amenities, optionally per category
// @Summary      List amenities
// @Tags         taxonomy
// @Produce      json
// @Param        category  query  string  false  "safety, lifestyle, connectivity, other"
// @Param        active    query  bool    false  "Only active amenities"
// @Success      200  {object}  response.Body
// @Router       /api/amenities [get]
func (h *TaxonomyHandler) ListAmenities(c *gin.Context) {
	amenities, err := h.taxonomyService.ListAmenities(c.Request.Context(),
		c.Query("category"), c.Query("active") == "true")
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, amenities)
}

// CreateAmenity adds an amenity
// @Summary      Create amenity
// @Tags         taxonomy
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreateAmenityRequest  true  "Amenity payload"
// @Success      201  {object}  response.Body
// @Router       /api/admin/amenities [post]
func (h *TaxonomyHandler) CreateAmenity(c *gin.Context) {
	var req service.CreateAmenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	amenity, err := h.taxonomyService.CreateAmenity(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Amenity created", amenity)
}

// DeleteAmenity removes an amenity
// @Summary      Delete amenity
// @Tags         taxonomy
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Amenity ID"
// @Success      200  {object}  response.Body
// @Router       /api/admin/amenities/{id} [delete]
func (h *TaxonomyHandler) DeleteAmenity(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.taxonomyService.DeleteAmenity(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Amenity deleted", nil)
}
