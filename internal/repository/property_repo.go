package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PropertyFilter narrows listing queries. Zero values mean "no constraint".
type PropertyFilter struct {
	Search             string
	Status             string
	VerificationStatus string
	PropertyType       string
	ListingType        string
	FurnishType        string
	City               string
	Locality           string
	CategoryID         *uuid.UUID
	OwnerID            *uuid.UUID
	IsFeatured         *bool
	IsVerified         *bool
	MinRent            *decimal.Decimal
	MaxRent            *decimal.Decimal
	MinPrice           *decimal.Decimal
	MaxPrice           *decimal.Decimal
	MinBedroom         *int
	MinArea            *float64
	MaxArea            *float64
	AmenityIDs         []uuid.UUID
	SortBy             string
	SortOrder          string
}

// PropertyStats aggregates headline counts for the property module.
type PropertyStats struct {
	Total           int64 `json:"total"`
	Published       int64 `json:"published"`
	Draft           int64 `json:"draft"`
	Sold            int64 `json:"sold"`
	Rented          int64 `json:"rented"`
	Verified        int64 `json:"verified"`
	PendingApproval int64 `json:"pending_approval"`
	Featured        int64 `json:"featured"`
	TotalViews      int64 `json:"total_views"`
}

// CityCount is a per-city listing tally for dashboard charts.
type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

type PropertyRepository interface {
	Create(ctx context.Context, property *model.Property) error
	Update(ctx context.Context, property *model.Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error)
	List(ctx context.Context, filter PropertyFilter, page, limit int) ([]model.Property, int64, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	ReplaceFeatures(ctx context.Context, property *model.Property, features []model.PropertyFeature) error
	ReplaceAmenities(ctx context.Context, property *model.Property, amenities []model.PropertyAmenity) error

	FindFeaturesByIDs(ctx context.Context, ids []uuid.UUID) ([]model.PropertyFeature, error)
	FindAmenitiesByIDs(ctx context.Context, ids []uuid.UUID) ([]model.PropertyAmenity, error)

	AddImage(ctx context.Context, image *model.PropertyImage) error
	FindImage(ctx context.Context, propertyID, imageID uuid.UUID) (*model.PropertyImage, error)
	DeleteImage(ctx context.Context, imageID uuid.UUID) error
	ClearMainImage(ctx context.Context, propertyID uuid.UUID) error
	UpdateImage(ctx context.Context, image *model.PropertyImage) error

	AddDocument(ctx context.Context, doc *model.PropertyDocument) error
	FindDocument(ctx context.Context, propertyID, docID uuid.UUID) (*model.PropertyDocument, error)
	DeleteDocument(ctx context.Context, docID uuid.UUID) error

	Stats(ctx context.Context) (*PropertyStats, error)
	CountByCity(ctx context.Context, limit int) ([]CityCount, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountByVerification(ctx context.Context, verification string) (int64, error)
}

type propertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(ctx context.Context, property *model.Property) error {
	return GetDB(ctx, r.db).Create(property).Error
}

func (r *propertyRepository) Update(ctx context.Context, property *model.Property) error {
	return GetDB(ctx, r.db).Omit("Features", "Amenities", "Images", "Documents").
		Save(property).Error
}

func (r *propertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Select("Images", "Documents").
		Delete(&model.Property{ID: id}).Error
}

func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	var property model.Property
	if err := GetDB(ctx, r.db).
		Preload("Owner").
		Preload("Category").
		Preload("Features").
		Preload("Amenities").
		Preload("Images").
		Preload("Documents").
		Preload("VerifiedBy").
		First(&property, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) applyFilter(q *gorm.DB, filter PropertyFilter) *gorm.DB {
	if filter.Search != "" {
		q = q.Where("title ILIKE ? OR locality ILIKE ? OR city ILIKE ? OR property_code ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.VerificationStatus != "" {
		q = q.Where("verification_status = ?", filter.VerificationStatus)
	}
	if filter.PropertyType != "" {
		q = q.Where("property_type = ?", filter.PropertyType)
	}
	if filter.ListingType != "" {
		q = q.Where("listing_type = ?", filter.ListingType)
	}
	if filter.FurnishType != "" {
		q = q.Where("furnish_type = ?", filter.FurnishType)
	}
	if filter.City != "" {
		q = q.Where("city ILIKE ?", filter.City)
	}
	if filter.Locality != "" {
		q = q.Where("locality ILIKE ?", "%"+filter.Locality+"%")
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.IsFeatured != nil {
		q = q.Where("is_featured = ?", *filter.IsFeatured)
	}
	if filter.IsVerified != nil {
		q = q.Where("is_verified = ?", *filter.IsVerified)
	}
	if filter.MinRent != nil {
		q = q.Where("monthly_rent >= ?", *filter.MinRent)
	}
	if filter.MaxRent != nil {
		q = q.Where("monthly_rent <= ?", *filter.MaxRent)
	}
	if filter.MinPrice != nil {
		q = q.Where("sale_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("sale_price <= ?", *filter.MaxPrice)
	}
	if filter.MinBedroom != nil {
		q = q.Where("bedroom >= ?", *filter.MinBedroom)
	}
	if filter.MinArea != nil {
		q = q.Where("area >= ?", *filter.MinArea)
	}
	if filter.MaxArea != nil {
		q = q.Where("area <= ?", *filter.MaxArea)
	}
	if len(filter.AmenityIDs) > 0 {
		q = q.Where("id IN (SELECT property_id FROM property_amenities_map WHERE property_amenity_id IN ?)",
			filter.AmenityIDs)
	}
	return q
}

var propertySortColumns = map[string]string{
	"created_at":   "created_at",
	"monthly_rent": "monthly_rent",
	"sale_price":   "sale_price",
	"views":        "views",
	"area":         "area",
}

func (r *propertyRepository) List(ctx context.Context, filter PropertyFilter, page, limit int) ([]model.Property, int64, error) {
	var properties []model.Property
	var total int64

	db := GetDB(ctx, r.db)
	if err := r.applyFilter(db.Model(&model.Property{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if col, ok := propertySortColumns[filter.SortBy]; ok {
		dir := "DESC"
		if filter.SortOrder == "asc" {
			dir = "ASC"
		}
		order = col + " " + dir
	}

	if err := r.applyFilter(db.Model(&model.Property{}), filter).
		Preload("Owner").
		Preload("Category").
		Preload("Images").
		Order(order).
		Offset((page - 1) * limit).Limit(limit).
		Find(&properties).Error; err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

func (r *propertyRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Property{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *propertyRepository) ReplaceFeatures(ctx context.Context, property *model.Property, features []model.PropertyFeature) error {
	return GetDB(ctx, r.db).Model(property).Association("Features").Replace(features)
}

func (r *propertyRepository) ReplaceAmenities(ctx context.Context, property *model.Property, amenities []model.PropertyAmenity) error {
	return GetDB(ctx, r.db).Model(property).Association("Amenities").Replace(amenities)
}

func (r *propertyRepository) FindFeaturesByIDs(ctx context.Context, ids []uuid.UUID) ([]model.PropertyFeature, error) {
	var features []model.PropertyFeature
	err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&features).Error
	return features, err
}

func (r *propertyRepository) FindAmenitiesByIDs(ctx context.Context, ids []uuid.UUID) ([]model.PropertyAmenity, error) {
	var amenities []model.PropertyAmenity
	err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&amenities).Error
	return amenities, err
}

func (r *propertyRepository) AddImage(ctx context.Context, image *model.PropertyImage) error {
	return GetDB(ctx, r.db).Create(image).Error
}

func (r *propertyRepository) FindImage(ctx context.Context, propertyID, imageID uuid.UUID) (*model.PropertyImage, error) {
	var image model.PropertyImage
	if err := GetDB(ctx, r.db).
		First(&image, "id = ? AND property_id = ?", imageID, propertyID).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *propertyRepository) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", imageID).Delete(&model.PropertyImage{}).Error
}

func (r *propertyRepository) ClearMainImage(ctx context.Context, propertyID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.PropertyImage{}).
		Where("property_id = ?", propertyID).
		UpdateColumn("is_main", false).Error
}

func (r *propertyRepository) UpdateImage(ctx context.Context, image *model.PropertyImage) error {
	return GetDB(ctx, r.db).Save(image).Error
}

func (r *propertyRepository) AddDocument(ctx context.Context, doc *model.PropertyDocument) error {
	return GetDB(ctx, r.db).Create(doc).Error
}

func (r *propertyRepository) FindDocument(ctx context.Context, propertyID, docID uuid.UUID) (*model.PropertyDocument, error) {
	var doc model.PropertyDocument
	if err := GetDB(ctx, r.db).
		First(&doc, "id = ? AND property_id = ?", docID, propertyID).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *propertyRepository) DeleteDocument(ctx context.Context, docID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", docID).Delete(&model.PropertyDocument{}).Error
}

func (r *propertyRepository) Stats(ctx context.Context) (*PropertyStats, error) {
	db := GetDB(ctx, r.db)
	stats := &PropertyStats{}

	counts := []struct {
		dest  *int64
		query func(*gorm.DB) *gorm.DB
	}{
		{&stats.Total, func(q *gorm.DB) *gorm.DB { return q }},
		{&stats.Published, func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", model.PropertyPublished) }},
		{&stats.Draft, func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", model.PropertyDraft) }},
		{&stats.Sold, func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", model.PropertySold) }},
		{&stats.Rented, func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", model.PropertyRented) }},
		{&stats.Verified, func(q *gorm.DB) *gorm.DB { return q.Where("is_verified = ?", true) }},
		{&stats.PendingApproval, func(q *gorm.DB) *gorm.DB {
			return q.Where("verification_status = ?", model.VerificationPending)
		}},
		{&stats.Featured, func(q *gorm.DB) *gorm.DB { return q.Where("is_featured = ?", true) }},
	}
	for _, c := range counts {
		if err := c.query(db.Model(&model.Property{})).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Model(&model.Property{}).
		Select("COALESCE(SUM(views), 0)").Scan(&stats.TotalViews).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *propertyRepository) CountByCity(ctx context.Context, limit int) ([]CityCount, error) {
	var rows []CityCount
	err := GetDB(ctx, r.db).Model(&model.Property{}).
		Select("city, COUNT(*) as count").
		Group("city").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *propertyRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Property{}).Count(&total).Error
	return total, err
}

func (r *propertyRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Property{}).
		Where("status = ?", status).Count(&total).Error
	return total, err
}

func (r *propertyRepository) CountByVerification(ctx context.Context, verification string) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Property{}).
		Where("verification_status = ?", verification).Count(&total).Error
	return total, err
}
