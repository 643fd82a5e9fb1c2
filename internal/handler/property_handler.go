package handler

import (
	"strconv"
	"strings"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PropertyHandler struct {
	propertyService service.PropertyService
	auth            *middleware.Auth
}

func NewPropertyHandler(propertyService service.PropertyService, auth *middleware.Auth) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService, auth: auth}
}

func (h *PropertyHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Public storefront routes. Listing creation is deliberately open so that
	// owners can submit without an account; such listings carry no owner.
	public := router.Group("/api/properties")
	{
		public.GET("", h.List)
		public.GET("/search", h.Search)
		public.GET("/featured", h.Featured)
		public.GET("/:id", h.auth.OptionalAuthenticate(), h.Get)
		public.POST("", h.auth.OptionalAuthenticate(), h.Create)
	}

	// Owner self-service: an authenticated end user manages their own listings.
	mine := router.Group("/api/my/properties", h.auth.Authenticate())
	{
		mine.GET("", h.MyProperties)
		mine.PUT("/:id", h.UpdateOwn)
		mine.DELETE("/:id", h.DeleteOwn)
	}

	admin := router.Group("/api/admin/properties", h.auth.Authenticate())
	{
		admin.GET("", h.auth.RequirePermission(model.ModuleProperties, model.ActionRead), h.List)
		admin.GET("/stats", h.auth.RequirePermission(model.ModuleProperties, model.ActionRead), h.Stats)
		admin.PUT("/:id", h.auth.RequirePermission(model.ModuleProperties, model.ActionUpdate), h.Update)
		admin.PATCH("/:id/status", h.auth.RequirePermission(model.ModuleProperties, model.ActionUpdate), h.UpdateStatus)
		admin.PATCH("/:id/verify", h.auth.RequirePermission(model.ModuleProperties, model.ActionUpdate), h.Verify)
		admin.PATCH("/:id/reject", h.auth.RequirePermission(model.ModuleProperties, model.ActionUpdate), h.Reject)
		admin.DELETE("/:id", h.auth.RequirePermission(model.ModuleProperties, model.ActionDelete), h.Delete)

		admin.POST("/:id/images", h.auth.RequirePermission(model.ModuleProperties, model.ActionUpdate), h.AddImages)
		admin.PATCH("/:id/images/:imageId/main", h.auth.RequirePermission(model.ModuleProperties, model.ActionUpdate), h.SetMainImage)
		admin.DELETE("/:id/images/:imageId", h.auth.RequirePermission(model.ModuleProperties, model.ActionUpdate), h.DeleteImage)

		admin.POST("/:id/documents", h.auth.RequirePermission(model.ModuleProperties, model.ActionUpdate), h.AddDocument)
		admin.DELETE("/:id/documents/:documentId", h.auth.RequirePermission(model.ModuleProperties, model.ActionUpdate), h.DeleteDocument)
	}
}

func propertyFilterFromQuery(c *gin.Context) repository.PropertyFilter {
	filter := repository.PropertyFilter{
		Search:             c.Query("search"),
		Status:             c.Query("status"),
		VerificationStatus: c.Query("verification_status"),
		PropertyType:       c.Query("property_type"),
		ListingType:        c.Query("listing_type"),
		FurnishType:        c.Query("furnish_type"),
		City:               c.Query("city"),
		Locality:           c.Query("locality"),
		CategoryID:         queryUUID(c, "category_id"),
		OwnerID:            queryUUID(c, "owner_id"),
		IsFeatured:         queryBool(c, "is_featured"),
		IsVerified:         queryBool(c, "is_verified"),
		SortBy:             c.Query("sort_by"),
		SortOrder:          c.Query("sort_order"),
	}

	decimals := map[string]**decimal.Decimal{
		"min_rent":  &filter.MinRent,
		"max_rent":  &filter.MaxRent,
		"min_price": &filter.MinPrice,
		"max_price": &filter.MaxPrice,
	}
	for key, dest := range decimals {
		if raw := c.Query(key); raw != "" {
			if d, err := decimal.NewFromString(raw); err == nil {
				*dest = &d
			}
		}
	}
	if raw := c.Query("min_bedroom"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			filter.MinBedroom = &n
		}
	}
	if raw := c.Query("min_area"); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinArea = &f
		}
	}
	if raw := c.Query("max_area"); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxArea = &f
		}
	}
	return filter
}

// List returns paginated property listings with full filtering
// @Summary      List properties
// @Tags         properties
// @Produce      json
// @Param        page          query  int     false  "Page number"
// @Param        limit         query  int     false  "Items per page"
// @Param        search        query  string  false  "Search title, locality, city or code"
// @Param        status        query  string  false  "Filter by status"
// @Param        city          query  string  false  "Filter by city"
// @Param        listing_type  query  string  false  "Filter: rent, sale, both"
// @Param        min_rent      query  number  false  "Minimum monthly rent"
// @Param        max_rent      query  number  false  "Maximum monthly rent"
// @Success      200  {object}  response.Body
// @Router       /api/properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	properties, total, err := h.propertyService.List(c.Request.Context(), propertyFilterFromQuery(c), p.Page, p.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, properties, pagination.NewMeta(p, total))
}

// Search runs the storefront search over published, verified listings
// @Summary      Search properties
// @Tags         properties
// @Produce      json
// @Param        q          query  string  false  "Search term"
// @Param        amenities  query  string  false  "Comma-separated amenity IDs"
// @Param        city       query  string  false  "Filter by city"
// @Param        min_rent   query  number  false  "Minimum monthly rent"
// @Param        max_rent   query  number  false  "Maximum monthly rent"
// @Success      200  {object}  response.Body
// @Router       /api/properties/search [get]
func (h *PropertyHandler) Search(c *gin.Context) {
	p := pagination.Parse(c)
	filter := propertyFilterFromQuery(c)
	if q := c.Query("q"); q != "" {
		filter.Search = q
	}
	if raw := c.Query("amenities"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if id, err := uuid.Parse(strings.TrimSpace(part)); err == nil {
				filter.AmenityIDs = append(filter.AmenityIDs, id)
			}
		}
	}
	properties, total, err := h.propertyService.Search(c.Request.Context(), filter, p.Page, p.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, properties, pagination.NewMeta(p, total))
}

// Featured returns the featured verified listings
// @Summary      Featured properties
// @Tags         properties
// @Produce      json
// @Param        limit  query  int  false  "Max results (default 10)"
// @Success      200  {object}  response.Body
// @Router       /api/properties/featured [get]
func (h *PropertyHandler) Featured(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}
	properties, err := h.propertyService.Featured(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, properties)
}

// Get returns one listing. Anonymous reads bump the view counter; admin
// reads do not.
// @Summary      Get property
// @Tags         properties
// @Produce      json
// @Param        id  path  string  true  "Property ID"
// @Success      200  {object}  response.Body
// @Failure      404  {object}  response.Body
// @Router       /api/properties/{id} [get]
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	_, isAdmin := middleware.AdminFromContext(c)
	property, err := h.propertyService.Get(c.Request.Context(), id, !isAdmin)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, property)
}

// Create submits a new listing
// @Summary      Create property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        payload  body  service.CreatePropertyRequest  true  "Property payload"
// @Success      201  {object}  response.Body
// @Failure      400  {object}  response.Body
// @Router       /api/properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	var req service.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	// An authenticated end user always owns their own submission.
	if user, ok := middleware.UserFromContext(c); ok {
		req.OwnerID = &user.ID
	}
	property, err := h.propertyService.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Property created", property)
}

func ownerFromContext(c *gin.Context) (uuid.UUID, bool) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		response.Fail(c, 403, "End user account required")
		return uuid.Nil, false
	}
	return user.ID, true
}

// MyProperties lists the authenticated user's own listings
// @Summary      My properties
// @Tags         properties
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Items per page"
// @Success      200  {object}  response.Body
// @Router       /api/my/properties [get]
func (h *PropertyHandler) MyProperties(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	properties, total, err := h.propertyService.ListByOwner(c.Request.Context(), ownerID, p.Page, p.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.List(c, properties, pagination.NewMeta(p, total))
}

// UpdateOwn edits a listing the authenticated user owns
// @Summary      Update own property
// @Tags         properties
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Property ID"
// @Param        payload  body  service.UpdatePropertyRequest  true  "Update payload"
// @Success      200  {object}  response.Body
// @Failure      403  {object}  response.Body
// @Router       /api/my/properties/{id} [put]
func (h *PropertyHandler) UpdateOwn(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	property, err := h.propertyService.UpdateOwned(c.Request.Context(), id, ownerID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Property updated", property)
}

// DeleteOwn removes a listing the authenticated user owns
// @Summary      Delete own property
// @Tags         properties
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Property ID"
// @Success      200  {object}  response.Body
// @Failure      403  {object}  response.Body
// @Router       /api/my/properties/{id} [delete]
func (h *PropertyHandler) DeleteOwn(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.propertyService.DeleteOwned(c.Request.Context(), id, ownerID); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Property deleted", nil)
}

// Update edits a listing
// @Summary      Update property
// @Tags         properties
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Property ID"
// @Param        payload  body  service.UpdatePropertyRequest  true  "Update payload"
// @Success      200  {object}  response.Body
// @Router       /api/admin/properties/{id} [put]
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	property, err := h.propertyService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Property updated", property)
}

// UpdateStatus sets the listing status
// @Summary      Update property status
// @Tags         properties
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                               true  "Property ID"
// @Param        payload  body  service.UpdatePropertyStatusRequest  true  "New status"
// @Success      200  {object}  response.Body
// @Router       /api/admin/properties/{id}/status [patch]
func (h *PropertyHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.UpdatePropertyStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	property, err := h.propertyService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Property status updated", property)
}

// Verify approves a listing
// @Summary      Verify property
// @Tags         properties
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Property ID"
// @Success      200  {object}  response.Body
// @Router       /api/admin/properties/{id}/verify [patch]
func (h *PropertyHandler) Verify(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	actor, _ := middleware.AdminFromContext(c)
	property, err := h.propertyService.Verify(c.Request.Context(), id, actor.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Property verified", property)
}

// Reject fails a listing's verification with a reason
// @Summary      Reject property
// @Tags         properties
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string                         true  "Property ID"
// @Param        payload  body  service.RejectPropertyRequest  true  "Rejection reason"
// @Success      200  {object}  response.Body
// @Router       /api/admin/properties/{id}/reject [patch]
func (h *PropertyHandler) Reject(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req service.RejectPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	actor, _ := middleware.AdminFromContext(c)
	property, err := h.propertyService.Reject(c.Request.Context(), id, actor.ID, req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Property rejected", property)
}

// Delete removes a listing and its stored files
// @Summary      Delete property
// @Tags         properties
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Property ID"
// @Success      200  {object}  response.Body
// @Router       /api/admin/properties/{id} [delete]
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.propertyService.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Property deleted", nil)
}

// Stats returns headline property counts
// @Summary      Property statistics
// @Tags         properties
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Body
// @Router       /api/admin/properties/stats [get]
func (h *PropertyHandler) Stats(c *gin.Context) {
	stats, err := h.propertyService.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, stats)
}

// AddImages uploads one or more listing photos
// @Summary      Upload property images
// @Tags         properties
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id      path      string  true  "Property ID"
// @Param        images  formData  file    true  "Image files"
// @Success      201  {object}  response.Body
// @Router       /api/admin/properties/{id}/images [post]
func (h *PropertyHandler) AddImages(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		response.ValidationFail(c, "Invalid multipart form", err.Error())
		return
	}
	images, err := h.propertyService.AddImages(c, id, form.File["images"])
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Images uploaded", images)
}

// SetMainImage marks an image as the listing cover
// @Summary      Set main image
// @Tags         properties
// @Security     BearerAuth
// @Produce      json
// @Param        id       path  string  true  "Property ID"
// @Param        imageId  path  string  true  "Image ID"
// @Success      200  {object}  response.Body
// @Router       /api/admin/properties/{id}/images/{imageId}/main [patch]
func (h *PropertyHandler) SetMainImage(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseUUID(c, "imageId")
	if !ok {
		return
	}
	if err := h.propertyService.SetMainImage(c.Request.Context(), id, imageID); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Main image updated", nil)
}

// DeleteImage removes a listing photo
// @Summary      Delete property image
// @Tags         properties
// @Security     BearerAuth
// @Produce      json
// @Param        id       path  string  true  "Property ID"
// @Param        imageId  path  string  true  "Image ID"
// @Success      200  {object}  response.Body
// @Router       /api/admin/properties/{id}/images/{imageId} [delete]
func (h *PropertyHandler) DeleteImage(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseUUID(c, "imageId")
	if !ok {
		return
	}
	if err := h.propertyService.DeleteImage(c.Request.Context(), id, imageID); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Image deleted", nil)
}

// AddDocument uploads an ownership or compliance document
// @Summary      Upload property document
// @Tags         properties
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id             path      string  true   "Property ID"
// @Param        document       formData  file    true   "Document file"
// @Param        doc_type       formData  string  false  "ownership_deed, tax_receipt, noc, other"
// @Param        document_name  formData  string  false  "Display name"
// @Success      201  {object}  response.Body
// @Router       /api/admin/properties/{id}/documents [post]
func (h *PropertyHandler) AddDocument(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	file, err := c.FormFile("document")
	if err != nil {
		response.ValidationFail(c, "Document file is required", err.Error())
		return
	}
	var req service.AddDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationFail(c, "Invalid request payload", err.Error())
		return
	}
	doc, err := h.propertyService.AddDocument(c, id, file, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "Document uploaded", doc)
}

// DeleteDocument removes a property document
// @Summary      Delete property document
// @Tags         properties
// @Security     BearerAuth
// @Produce      json
// @Param        id          path  string  true  "Property ID"
// @Param        documentId  path  string  true  "Document ID"
// @Success      200  {object}  response.Body
// @Router       /api/admin/properties/{id}/documents/{documentId} [delete]
func (h *PropertyHandler) DeleteDocument(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	docID, ok := parseUUID(c, "documentId")
	if !ok {
		return
	}
	if err := h.propertyService.DeleteDocument(c.Request.Context(), id, docID); err != nil {
		response.FromError(c, err)
		return
	}
	response.OKMessage(c, "Document deleted", nil)
}
