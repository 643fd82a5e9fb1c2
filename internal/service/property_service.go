package service

import (
	"context"
	"log"
	"mime/multipart"
	"regexp"
	"time"

	"backend/internal/mailer"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/upload"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreatePropertyRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description" binding:"required"`
	OwnerID     *uuid.UUID `json:"owner_id"`
	CategoryID  uuid.UUID  `json:"category_id" binding:"required"`

	PropertyType string `json:"property_type" binding:"required"`
	ListingType  string `json:"listing_type" binding:"required"`

	MonthlyRent       decimal.Decimal `json:"monthly_rent"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	SecurityDeposit   decimal.Decimal `json:"security_deposit"`
	MaintenanceCharge decimal.Decimal `json:"maintenance_charge"`

	Area        float64 `json:"area" binding:"required"`
	AreaUnit    string  `json:"area_unit"`
	Bedroom     int     `json:"bedroom"`
	Bathroom    int     `json:"bathroom"`
	Balcony     int     `json:"balcony"`
	BHK         int     `json:"bhk"`
	FloorNo     int     `json:"floor_no"`
	TotalFloors int     `json:"total_floors"`
	FurnishType string  `json:"furnish_type"`

	AvailableFrom *time.Time `json:"available_from"`
	AvailableFor  string     `json:"available_for"`

	City        string   `json:"city" binding:"required"`
	State       string   `json:"state" binding:"required"`
	Locality    string   `json:"locality" binding:"required"`
	Landmark    string   `json:"landmark"`
	Zipcode     string   `json:"zipcode" binding:"required"`
	FullAddress string   `json:"full_address" binding:"required"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`

	FeatureIDs []uuid.UUID `json:"feature_ids"`
	AmenityIDs []uuid.UUID `json:"amenity_ids"`
}

type UpdatePropertyRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id"`

	PropertyType *string `json:"property_type"`
	ListingType  *string `json:"listing_type"`

	MonthlyRent       *decimal.Decimal `json:"monthly_rent"`
	SalePrice         *decimal.Decimal `json:"sale_price"`
	SecurityDeposit   *decimal.Decimal `json:"security_deposit"`
	MaintenanceCharge *decimal.Decimal `json:"maintenance_charge"`

	Area        *float64 `json:"area"`
	AreaUnit    *string  `json:"area_unit"`
	Bedroom     *int     `json:"bedroom"`
	Bathroom    *int     `json:"bathroom"`
	Balcony     *int     `json:"balcony"`
	BHK         *int     `json:"bhk"`
	FloorNo     *int     `json:"floor_no"`
	TotalFloors *int     `json:"total_floors"`
	FurnishType *string  `json:"furnish_type"`

	AvailableFrom *time.Time `json:"available_from"`
	AvailableFor  *string    `json:"available_for"`

	City        *string  `json:"city"`
	State       *string  `json:"state"`
	Locality    *string  `json:"locality"`
	Landmark    *string  `json:"landmark"`
	Zipcode     *string  `json:"zipcode"`
	FullAddress *string  `json:"full_address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`

	IsFeatured *bool `json:"is_featured"`

	FeatureIDs *[]uuid.UUID `json:"feature_ids"` // nil = not sent, [] = clear all
	AmenityIDs *[]uuid.UUID `json:"amenity_ids"` // nil = not sent, [] = clear all
}

type UpdatePropertyStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type RejectPropertyRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type AddDocumentRequest struct {
	DocType      string `form:"doc_type"`
	DocumentName string `form:"document_name"`
}

// --- Interface ---

type PropertyService interface {
	Create(ctx context.Context, req CreatePropertyRequest) (*model.Property, error)
	Update(ctx context.Context, id uuid.UUID, req UpdatePropertyRequest) (*model.Property, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Property, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, req UpdatePropertyRequest) (*model.Property, error)
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Property, int64, error)
	Get(ctx context.Context, id uuid.UUID, countView bool) (*model.Property, error)
	List(ctx context.Context, filter repository.PropertyFilter, page, limit int) ([]model.Property, int64, error)
	Search(ctx context.Context, filter repository.PropertyFilter, page, limit int) ([]model.Property, int64, error)
	Featured(ctx context.Context, limit int) ([]model.Property, error)
	Verify(ctx context.Context, id, adminID uuid.UUID) (*model.Property, error)
	Reject(ctx context.Context, id, adminID uuid.UUID, reason string) (*model.Property, error)
	Stats(ctx context.Context) (*repository.PropertyStats, error)

	AddImages(c *gin.Context, id uuid.UUID, files []*multipart.FileHeader) ([]model.PropertyImage, error)
	SetMainImage(ctx context.Context, propertyID, imageID uuid.UUID) error
	DeleteImage(ctx context.Context, propertyID, imageID uuid.UUID) error

	AddDocument(c *gin.Context, id uuid.UUID, file *multipart.FileHeader, req AddDocumentRequest) (*model.PropertyDocument, error)
	DeleteDocument(ctx context.Context, propertyID, docID uuid.UUID) error
}

type propertyService struct {
	propertyRepo repository.PropertyRepository
	taxonomyRepo repository.TaxonomyRepository
	userRepo     repository.UserRepository
	uploads      *upload.Store
	mailer       *mailer.Mailer
	activity     *ActivityRecorder
	txManager    repository.TransactionManager
}

func NewPropertyService(
	propertyRepo repository.PropertyRepository,
	taxonomyRepo repository.TaxonomyRepository,
	userRepo repository.UserRepository,
	uploads *upload.Store,
	m *mailer.Mailer,
	activity *ActivityRecorder,
	txManager repository.TransactionManager,
) PropertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
		taxonomyRepo: taxonomyRepo,
		userRepo:     userRepo,
		uploads:      uploads,
		mailer:       m,
		activity:     activity,
		txManager:    txManager,
	}
}

var validPropertyTypes = map[string]bool{
	"apartment": true, "house": true, "villa": true,
	"plot": true, "commercial": true, "office": true,
}

var validListingTypes = map[string]bool{
	model.ListingRent: true, model.ListingSale: true, model.ListingBoth: true,
}

var validPropertyStatuses = map[string]bool{
	model.PropertyDraft: true, model.PropertyPublished: true, model.PropertyInactive: true,
	model.PropertySold: true, model.PropertyRented: true,
}

var validDocTypes = map[string]bool{
	model.DocOwnershipDeed: true, model.DocTaxReceipt: true,
	model.DocNOC: true, model.DocOther: true,
}

var zipcodePattern = regexp.MustCompile(`^[0-9]{6}$`)

func (s *propertyService) validateCreate(ctx context.Context, req *CreatePropertyRequest) error {
	if !validPropertyTypes[req.PropertyType] {
		return response.BadRequest("property_type must be one of: apartment, house, villa, plot, commercial, office")
	}
	if !validListingTypes[req.ListingType] {
		return response.BadRequest("listing_type must be one of: rent, sale, both")
	}
	if !zipcodePattern.MatchString(req.Zipcode) {
		return response.BadRequest("Zipcode must be exactly 6 digits")
	}
	if req.ListingType != model.ListingSale && req.MonthlyRent.IsZero() {
		return response.BadRequest("monthly_rent is required for rental listings")
	}
	if req.ListingType != model.ListingRent && req.SalePrice.IsZero() {
		return response.BadRequest("sale_price is required for sale listings")
	}
	if _, err := s.taxonomyRepo.FindCategoryByID(ctx, req.CategoryID); err != nil {
		return response.BadRequest("Category not found")
	}
	if req.OwnerID != nil {
		if _, err := s.userRepo.FindByID(ctx, *req.OwnerID); err != nil {
			return response.BadRequest("Owner not found")
		}
	}
	return nil
}

func (s *propertyService) Create(ctx context.Context, req CreatePropertyRequest) (*model.Property, error) {
	if err := s.validateCreate(ctx, &req); err != nil {
		return nil, err
	}

	property := &model.Property{
		Title:             req.Title,
		Description:       req.Description,
		OwnerID:           req.OwnerID,
		CategoryID:        req.CategoryID,
		PropertyType:      req.PropertyType,
		ListingType:       req.ListingType,
		MonthlyRent:       req.MonthlyRent,
		SalePrice:         req.SalePrice,
		SecurityDeposit:   req.SecurityDeposit,
		MaintenanceCharge: req.MaintenanceCharge,
		Area:              req.Area,
		AreaUnit:          req.AreaUnit,
		Bedroom:           req.Bedroom,
		Bathroom:          req.Bathroom,
		Balcony:           req.Balcony,
		BHK:               req.BHK,
		FloorNo:           req.FloorNo,
		TotalFloors:       req.TotalFloors,
		FurnishType:       req.FurnishType,
		AvailableFrom:     req.AvailableFrom,
		AvailableFor:      req.AvailableFor,
		City:              req.City,
		State:             req.State,
		Locality:          req.Locality,
		Landmark:          req.Landmark,
		Zipcode:           req.Zipcode,
		FullAddress:       req.FullAddress,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		Status:            model.PropertyDraft,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.propertyRepo.Create(txCtx, property); err != nil {
			return err
		}
		if len(req.FeatureIDs) > 0 {
			features, err := s.propertyRepo.FindFeaturesByIDs(txCtx, req.FeatureIDs)
			if err != nil {
				return err
			}
			if len(features) != len(req.FeatureIDs) {
				return response.BadRequest("One or more features do not exist")
			}
			if err := s.propertyRepo.ReplaceFeatures(txCtx, property, features); err != nil {
				return err
			}
		}
		if len(req.AmenityIDs) > 0 {
			amenities, err := s.propertyRepo.FindAmenitiesByIDs(txCtx, req.AmenityIDs)
			if err != nil {
				return err
			}
			if len(amenities) != len(req.AmenityIDs) {
				return response.BadRequest("One or more amenities do not exist")
			}
			if err := s.propertyRepo.ReplaceAmenities(txCtx, property, amenities); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, nil, model.ActivityPropertyCreated,
		property.ID.String(), property.Title, "New property listed: "+property.Title)
	return s.propertyRepo.FindByID(ctx, property.ID)
}

func (s *propertyService) Update(ctx context.Context, id uuid.UUID, req UpdatePropertyRequest) (*model.Property, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Property not found")
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, response.BadRequest("Title cannot be empty")
		}
		property.Title = *req.Title
	}
	if req.Description != nil {
		property.Description = *req.Description
	}
	if req.CategoryID != nil {
		if _, err := s.taxonomyRepo.FindCategoryByID(ctx, *req.CategoryID); err != nil {
			return nil, response.BadRequest("Category not found")
		}
		property.CategoryID = *req.CategoryID
	}
	if req.PropertyType != nil {
		if !validPropertyTypes[*req.PropertyType] {
			return nil, response.BadRequest("property_type must be one of: apartment, house, villa, plot, commercial, office")
		}
		property.PropertyType = *req.PropertyType
	}
	if req.ListingType != nil {
		if !validListingTypes[*req.ListingType] {
			return nil, response.BadRequest("listing_type must be one of: rent, sale, both")
		}
		property.ListingType = *req.ListingType
	}
	if req.MonthlyRent != nil {
		property.MonthlyRent = *req.MonthlyRent
	}
	if req.SalePrice != nil {
		property.SalePrice = *req.SalePrice
	}
	if req.SecurityDeposit != nil {
		property.SecurityDeposit = *req.SecurityDeposit
	}
	if req.MaintenanceCharge != nil {
		property.MaintenanceCharge = *req.MaintenanceCharge
	}
	if req.Area != nil {
		property.Area = *req.Area
	}
	if req.AreaUnit != nil {
		property.AreaUnit = *req.AreaUnit
	}
	if req.Bedroom != nil {
		property.Bedroom = *req.Bedroom
	}
	if req.Bathroom != nil {
		property.Bathroom = *req.Bathroom
	}
	if req.Balcony != nil {
		property.Balcony = *req.Balcony
	}
	if req.BHK != nil {
		property.BHK = *req.BHK
	}
	if req.FloorNo != nil {
		property.FloorNo = *req.FloorNo
	}
	if req.TotalFloors != nil {
		property.TotalFloors = *req.TotalFloors
	}
	if req.FurnishType != nil {
		property.FurnishType = *req.FurnishType
	}
	if req.AvailableFrom != nil {
		property.AvailableFrom = req.AvailableFrom
	}
	if req.AvailableFor != nil {
		property.AvailableFor = *req.AvailableFor
	}
	if req.City != nil {
		property.City = *req.City
	}
	if req.State != nil {
		property.State = *req.State
	}
	if req.Locality != nil {
		property.Locality = *req.Locality
	}
	if req.Landmark != nil {
		property.Landmark = *req.Landmark
	}
	if req.Zipcode != nil {
		if !zipcodePattern.MatchString(*req.Zipcode) {
			return nil, response.BadRequest("Zipcode must be exactly 6 digits")
		}
		property.Zipcode = *req.Zipcode
	}
	if req.FullAddress != nil {
		property.FullAddress = *req.FullAddress
	}
	if req.Latitude != nil {
		property.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		property.Longitude = req.Longitude
	}
	if req.IsFeatured != nil {
		property.IsFeatured = *req.IsFeatured
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.propertyRepo.Update(txCtx, property); err != nil {
			return err
		}
		if req.FeatureIDs != nil {
			features, err := s.propertyRepo.FindFeaturesByIDs(txCtx, *req.FeatureIDs)
			if err != nil {
				return err
			}
			if err := s.propertyRepo.ReplaceFeatures(txCtx, property, features); err != nil {
				return err
			}
		}
		if req.AmenityIDs != nil {
			amenities, err := s.propertyRepo.FindAmenitiesByIDs(txCtx, *req.AmenityIDs)
			if err != nil {
				return err
			}
			if err := s.propertyRepo.ReplaceAmenities(txCtx, property, amenities); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.propertyRepo.FindByID(ctx, id)
}

// UpdateStatus writes the new status directly; any status can replace any
// other.
func (s *propertyService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Property, error) {
	if !validPropertyStatuses[status] {
		return nil, response.BadRequest("Status must be one of: draft, published, inactive, sold, rented")
	}
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Property not found")
	}
	property.Status = status
	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

func (s *propertyService) Delete(ctx context.Context, id uuid.UUID) error {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return response.NotFound("Property not found")
	}
	if err := s.propertyRepo.Delete(ctx, id); err != nil {
		return err
	}
	for _, img := range property.Images {
		if err := s.uploads.Remove(img.URL); err != nil {
			log.Printf("orphaned image file %s: %v", img.URL, err)
		}
	}
	for _, doc := range property.Documents {
		if err := s.uploads.Remove(doc.URL); err != nil {
			log.Printf("orphaned document file %s: %v", doc.URL, err)
		}
	}
	return nil
}

// Owner-scoped variants back the /api/my/properties routes. The listing must
// belong to the calling user; ownerless listings are admin-managed only.
func (s *propertyService) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, req UpdatePropertyRequest) (*model.Property, error) {
	if err := s.checkOwner(ctx, id, ownerID); err != nil {
		return nil, err
	}
	return s.Update(ctx, id, req)
}

func (s *propertyService) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := s.checkOwner(ctx, id, ownerID); err != nil {
		return err
	}
	return s.Delete(ctx, id)
}

func (s *propertyService) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Property, int64, error) {
	return s.propertyRepo.List(ctx, repository.PropertyFilter{OwnerID: &ownerID}, page, limit)
}

func (s *propertyService) checkOwner(ctx context.Context, id, ownerID uuid.UUID) error {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return response.NotFound("Property not found")
	}
	if property.OwnerID == nil || *property.OwnerID != ownerID {
		return response.Forbidden("You do not own this property")
	}
	return nil
}

func (s *propertyService) Get(ctx context.Context, id uuid.UUID, countView bool) (*model.Property, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Property not found")
	}
	if countView {
		if err := s.propertyRepo.IncrementViews(ctx, id); err != nil {
			log.Printf("view counter update failed for %s: %v", id, err)
		} else {
			property.Views++
		}
	}
	return property, nil
}

func (s *propertyService) List(ctx context.Context, filter repository.PropertyFilter, page, limit int) ([]model.Property, int64, error) {
	return s.propertyRepo.List(ctx, filter, page, limit)
}

// Search is the storefront search: only published, verified listings are
// returned regardless of the caller's filter.
func (s *propertyService) Search(ctx context.Context, filter repository.PropertyFilter, page, limit int) ([]model.Property, int64, error) {
	verified := true
	filter.Status = model.PropertyPublished
	filter.IsVerified = &verified
	return s.propertyRepo.List(ctx, filter, page, limit)
}

// Featured returns verified, published, featured listings for the storefront.
func (s *propertyService) Featured(ctx context.Context, limit int) ([]model.Property, error) {
	featured := true
	verified := true
	properties, _, err := s.propertyRepo.List(ctx, repository.PropertyFilter{
		Status:     model.PropertyPublished,
		IsFeatured: &featured,
		IsVerified: &verified,
	}, 1, limit)
	return properties, err
}

func (s *propertyService) Verify(ctx context.Context, id, adminID uuid.UUID) (*model.Property, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Property not found")
	}

	now := time.Now()
	property.IsVerified = true
	property.VerificationStatus = model.VerificationApproved
	property.RejectionReason = ""
	property.VerifiedByID = &adminID
	property.VerifiedAt = &now
	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}

	if property.Owner != nil {
		if err := s.mailer.SendPropertyApproved(property.Owner.Email, property.Owner.Name, property.Title); err != nil {
			log.Printf("approval mail for %s failed: %v", property.ID, err)
		}
	}
	s.activity.Record(ctx, &adminID, model.ActivityPropertyVerified,
		property.ID.String(), property.Title, "Property verified: "+property.Title)
	return property, nil
}

func (s *propertyService) Reject(ctx context.Context, id, adminID uuid.UUID, reason string) (*model.Property, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Property not found")
	}

	property.IsVerified = false
	property.VerificationStatus = model.VerificationRejected
	property.RejectionReason = reason
	property.VerifiedByID = &adminID
	property.VerifiedAt = nil
	if err := s.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}

	if property.Owner != nil {
		if err := s.mailer.SendPropertyRejected(property.Owner.Email, property.Owner.Name, property.Title, reason); err != nil {
			log.Printf("rejection mail for %s failed: %v", property.ID, err)
		}
	}
	s.activity.Record(ctx, &adminID, model.ActivityPropertyRejected,
		property.ID.String(), property.Title, "Property rejected: "+property.Title)
	return property, nil
}

func (s *propertyService) Stats(ctx context.Context) (*repository.PropertyStats, error) {
	return s.propertyRepo.Stats(ctx)
}

// AddImages stores the uploads and registers one row per file. Files already
// written are removed again when a later step fails.
func (s *propertyService) AddImages(c *gin.Context, id uuid.UUID, files []*multipart.FileHeader) ([]model.PropertyImage, error) {
	ctx := c.Request.Context()
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Property not found")
	}
	if len(files) == 0 {
		return nil, response.BadRequest("No image files provided")
	}

	var saved []string
	cleanup := func() {
		for _, url := range saved {
			_ = s.uploads.Remove(url)
		}
	}

	hasMain := false
	for _, img := range property.Images {
		if img.IsMain {
			hasMain = true
			break
		}
	}

	images := make([]model.PropertyImage, 0, len(files))
	for i, file := range files {
		url, err := s.uploads.Save(c, file, "properties")
		if err != nil {
			cleanup()
			return nil, response.BadRequest(err.Error())
		}
		saved = append(saved, url)

		image := model.PropertyImage{
			PropertyID: id,
			URL:        url,
			IsMain:     !hasMain && i == 0,
		}
		if err := s.propertyRepo.AddImage(ctx, &image); err != nil {
			cleanup()
			return nil, err
		}
		images = append(images, image)
	}
	return images, nil
}

func (s *propertyService) SetMainImage(ctx context.Context, propertyID, imageID uuid.UUID) error {
	image, err := s.propertyRepo.FindImage(ctx, propertyID, imageID)
	if err != nil {
		return response.NotFound("Image not found")
	}
	if err := s.propertyRepo.ClearMainImage(ctx, propertyID); err != nil {
		return err
	}
	image.IsMain = true
	return s.propertyRepo.UpdateImage(ctx, image)
}

func (s *propertyService) DeleteImage(ctx context.Context, propertyID, imageID uuid.UUID) error {
	image, err := s.propertyRepo.FindImage(ctx, propertyID, imageID)
	if err != nil {
		return response.NotFound("Image not found")
	}
	if err := s.propertyRepo.DeleteImage(ctx, imageID); err != nil {
		return err
	}
	if err := s.uploads.Remove(image.URL); err != nil {
		log.Printf("orphaned image file %s: %v", image.URL, err)
	}
	return nil
}

func (s *propertyService) AddDocument(c *gin.Context, id uuid.UUID, file *multipart.FileHeader, req AddDocumentRequest) (*model.PropertyDocument, error) {
	ctx := c.Request.Context()
	if _, err := s.propertyRepo.FindByID(ctx, id); err != nil {
		return nil, response.NotFound("Property not found")
	}
	docType := req.DocType
	if docType == "" {
		docType = model.DocOther
	}
	if !validDocTypes[docType] {
		return nil, response.BadRequest("doc_type must be one of: ownership_deed, tax_receipt, noc, other")
	}

	url, err := s.uploads.Save(c, file, "documents")
	if err != nil {
		return nil, response.BadRequest(err.Error())
	}

	doc := &model.PropertyDocument{
		PropertyID:   id,
		URL:          url,
		DocType:      docType,
		DocumentName: req.DocumentName,
	}
	if err := s.propertyRepo.AddDocument(ctx, doc); err != nil {
		_ = s.uploads.Remove(url)
		return nil, err
	}
	return doc, nil
}

func (s *propertyService) DeleteDocument(ctx context.Context, propertyID, docID uuid.UUID) error {
	doc, err := s.propertyRepo.FindDocument(ctx, propertyID, docID)
	if err != nil {
		return response.NotFound("Document not found")
	}
	if err := s.propertyRepo.DeleteDocument(ctx, docID); err != nil {
		return err
	}
	if err := s.uploads.Remove(doc.URL); err != nil {
		log.Printf("orphaned document file %s: %v", doc.URL, err)
	}
	return nil
}
