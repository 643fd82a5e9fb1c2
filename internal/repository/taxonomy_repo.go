package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaxonomyRepository covers the three lookup tables used by listings:
// categories, features and amenities.
type TaxonomyRepository interface {
	CreateCategory(ctx context.Context, category *model.PropertyCategory) error
	UpdateCategory(ctx context.Context, category *model.PropertyCategory) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*model.PropertyCategory, error)
	FindCategoryByName(ctx context.Context, name string) (*model.PropertyCategory, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]model.PropertyCategory, error)
	CountCategoryProperties(ctx context.Context, categoryID uuid.UUID) (int64, error)

	CreateFeature(ctx context.Context, feature *model.PropertyFeature) error
	UpdateFeature(ctx context.Context, feature *model.PropertyFeature) error
	DeleteFeature(ctx context.Context, id uuid.UUID) error
	FindFeatureByID(ctx context.Context, id uuid.UUID) (*model.PropertyFeature, error)
	ListFeatures(ctx context.Context, activeOnly bool) ([]model.PropertyFeature, error)

	CreateAmenity(ctx context.Context, amenity *model.PropertyAmenity) error
	UpdateAmenity(ctx context.Context, amenity *model.PropertyAmenity) error
	DeleteAmenity(ctx context.Context, id uuid.UUID) error
	FindAmenityByID(ctx context.Context, id uuid.UUID) (*model.PropertyAmenity, error)
	ListAmenities(ctx context.Context, category string, activeOnly bool) ([]model.PropertyAmenity, error)
}

type taxonomyRepository struct {
	db *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (r *taxonomyRepository) CreateCategory(ctx context.Context, category *model.PropertyCategory) error {
	return GetDB(ctx, r.db).Create(category).Error
}

func (r *taxonomyRepository) UpdateCategory(ctx context.Context, category *model.PropertyCategory) error {
	return GetDB(ctx, r.db).Save(category).Error
}

func (r *taxonomyRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.PropertyCategory{}).Error
}

func (r *taxonomyRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*model.PropertyCategory, error) {
	var category model.PropertyCategory
	if err := GetDB(ctx, r.db).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *taxonomyRepository) FindCategoryByName(ctx context.Context, name string) (*model.PropertyCategory, error) {
	var category model.PropertyCategory
	if err := GetDB(ctx, r.db).First(&category, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *taxonomyRepository) ListCategories(ctx context.Context, activeOnly bool) ([]model.PropertyCategory, error) {
	var categories []model.PropertyCategory
	q := GetDB(ctx, r.db).Order("sort_order, name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&categories).Error
	return categories, err
}

func (r *taxonomyRepository) CountCategoryProperties(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Property{}).
		Where("category_id = ?", categoryID).Count(&total).Error
	return total, err
}

func (r *taxonomyRepository) CreateFeature(ctx context.Context, feature *model.PropertyFeature) error {
	return GetDB(ctx, r.db).Create(feature).Error
}

func (r *taxonomyRepository) UpdateFeature(ctx context.Context, feature *model.PropertyFeature) error {
	return GetDB(ctx, r.db).Save(feature).Error
}

func (r *taxonomyRepository) DeleteFeature(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.PropertyFeature{}).Error
}

func (r *taxonomyRepository) FindFeatureByID(ctx context.Context, id uuid.UUID) (*model.PropertyFeature, error) {
	var feature model.PropertyFeature
	if err := GetDB(ctx, r.db).First(&feature, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &feature, nil
}

func (r *taxonomyRepository) ListFeatures(ctx context.Context, activeOnly bool) ([]model.PropertyFeature, error) {
	var features []model.PropertyFeature
	q := GetDB(ctx, r.db).Order("name")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&features).Error
	return features, err
}

func (r *taxonomyRepository) CreateAmenity(ctx context.Context, amenity *model.PropertyAmenity) error {
	return GetDB(ctx, r.db).Create(amenity).Error
}

func (r *taxonomyRepository) UpdateAmenity(ctx context.Context, amenity *model.PropertyAmenity) error {
	return GetDB(ctx, r.db).Save(amenity).Error
}

func (r *taxonomyRepository) DeleteAmenity(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.PropertyAmenity{}).Error
}

func (r *taxonomyRepository) FindAmenityByID(ctx context.Context, id uuid.UUID) (*model.PropertyAmenity, error) {
	var amenity model.PropertyAmenity
	if err := GetDB(ctx, r.db).First(&amenity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &amenity, nil
}

func (r *taxonomyRepository) ListAmenities(ctx context.Context, category string, activeOnly bool) ([]model.PropertyAmenity, error) {
	var amenities []model.PropertyAmenity
	q := GetDB(ctx, r.db).Order("category, name")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&amenities).Error
	return amenities, err
}
