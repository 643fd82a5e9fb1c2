package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/response"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	SortOrder   int    `json:"sort_order"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   *int    `json:"sort_order"`
}

type CreateFeatureRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type CreateAmenityRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
}

// --- Interface ---

type TaxonomyService interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*model.PropertyCategory, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*model.PropertyCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	GetCategory(ctx context.Context, id uuid.UUID) (*model.PropertyCategory, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]model.PropertyCategory, error)

	CreateFeature(ctx context.Context, req CreateFeatureRequest) (*model.PropertyFeature, error)
	DeleteFeature(ctx context.Context, id uuid.UUID) error
	ListFeatures(ctx context.Context, activeOnly bool) ([]model.PropertyFeature, error)

	CreateAmenity(ctx context.Context, req CreateAmenityRequest) (*model.PropertyAmenity, error)
	DeleteAmenity(ctx context.Context, id uuid.UUID) error
	ListAmenities(ctx context.Context, category string, activeOnly bool) ([]model.PropertyAmenity, error)
}

type taxonomyService struct {
	taxonomyRepo repository.TaxonomyRepository
}

func NewTaxonomyService(taxonomyRepo repository.TaxonomyRepository) TaxonomyService {
	return &taxonomyService{taxonomyRepo: taxonomyRepo}
}

var validAmenityCategories = map[string]bool{
	model.AmenitySafety: true, model.AmenityLifestyle: true,
	model.AmenityConnectivity: true, model.AmenityOther: true,
}

func (s *taxonomyService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*model.PropertyCategory, error) {
	if _, err := s.taxonomyRepo.FindCategoryByName(ctx, req.Name); err == nil {
		return nil, response.Conflict("Category name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &model.PropertyCategory{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		IsActive:    true,
		SortOrder:   req.SortOrder,
	}
	if err := s.taxonomyRepo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *taxonomyService) UpdateCategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*model.PropertyCategory, error) {
	category, err := s.taxonomyRepo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Category not found")
	}

	if req.Name != nil && *req.Name != category.Name {
		if _, err := s.taxonomyRepo.FindCategoryByName(ctx, *req.Name); err == nil {
			return nil, response.Conflict("Category name already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		category.Name = *req.Name
		category.Slug = model.Slugify(*req.Name)
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}

	if err := s.taxonomyRepo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory refuses while properties still reference the category.
func (s *taxonomyService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.taxonomyRepo.FindCategoryByID(ctx, id); err != nil {
		return response.NotFound("Category not found")
	}
	count, err := s.taxonomyRepo.CountCategoryProperties(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return response.BadRequest(fmt.Sprintf("Cannot delete category: %d properties are assigned to it", count))
	}
	return s.taxonomyRepo.DeleteCategory(ctx, id)
}

func (s *taxonomyService) GetCategory(ctx context.Context, id uuid.UUID) (*model.PropertyCategory, error) {
	category, err := s.taxonomyRepo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Category not found")
	}
	return category, nil
}

func (s *taxonomyService) ListCategories(ctx context.Context, activeOnly bool) ([]model.PropertyCategory, error) {
	return s.taxonomyRepo.ListCategories(ctx, activeOnly)
}

func (s *taxonomyService) CreateFeature(ctx context.Context, req CreateFeatureRequest) (*model.PropertyFeature, error) {
	feature := &model.PropertyFeature{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		IsActive:    true,
	}
	if err := s.taxonomyRepo.CreateFeature(ctx, feature); err != nil {
		return nil, err
	}
	return feature, nil
}

func (s *taxonomyService) DeleteFeature(ctx context.Context, id uuid.UUID) error {
	if _, err := s.taxonomyRepo.FindFeatureByID(ctx, id); err != nil {
		return response.NotFound("Feature not found")
	}
	return s.taxonomyRepo.DeleteFeature(ctx, id)
}

func (s *taxonomyService) ListFeatures(ctx context.Context, activeOnly bool) ([]model.PropertyFeature, error) {
	return s.taxonomyRepo.ListFeatures(ctx, activeOnly)
}

func (s *taxonomyService) CreateAmenity(ctx context.Context, req CreateAmenityRequest) (*model.PropertyAmenity, error) {
	category := req.Category
	if category == "" {
		category = model.AmenityOther
	}
	if !validAmenityCategories[category] {
		return nil, response.BadRequest("category must be one of: safety, lifestyle, connectivity, other")
	}

	amenity := &model.PropertyAmenity{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Category:    category,
		IsActive:    true,
	}
	if err := s.taxonomyRepo.CreateAmenity(ctx, amenity); err != nil {
		return nil, err
	}
	return amenity, nil
}

func (s *taxonomyService) DeleteAmenity(ctx context.Context, id uuid.UUID) error {
	if _, err := s.taxonomyRepo.FindAmenityByID(ctx, id); err != nil {
		return response.NotFound("Amenity not found")
	}
	return s.taxonomyRepo.DeleteAmenity(ctx, id)
}

func (s *taxonomyService) ListAmenities(ctx context.Context, category string, activeOnly bool) ([]model.PropertyAmenity, error) {
	return s.taxonomyRepo.ListAmenities(ctx, category, activeOnly)
}
