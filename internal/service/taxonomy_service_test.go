package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTaxonomyService(db *gorm.DB) TaxonomyService {
	return NewTaxonomyService(repository.NewTaxonomyRepository(db))
}

func TestCreateCategorySlugAndDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := newTaxonomyService(db)

	category, err := svc.CreateCategory(context.Background(), CreateCategoryRequest{
		Name: "Luxury Apartments",
	})
	require.NoError(t, err)
	assert.Equal(t, "luxury-apartments", category.Slug)
	assert.True(t, category.IsActive)

	_, err = svc.CreateCategory(context.Background(), CreateCategoryRequest{
		Name: "Luxury Apartments",
	})
	require.Error(t, err)
	assert.Equal(t, "Category name already exists", err.Error())
}

func TestUpdateCategoryRenameRefreshesSlug(t *testing.T) {
	db := newTestDB(t)
	svc := newTaxonomyService(db)

	category, err := svc.CreateCategory(context.Background(), CreateCategoryRequest{Name: "Villas"})
	require.NoError(t, err)

	name := "Beach Villas"
	updated, err := svc.UpdateCategory(context.Background(), category.ID, UpdateCategoryRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "beach-villas", updated.Slug)
}

func TestDeleteCategoryInUse(t *testing.T) {
	db := newTestDB(t)
	svc := newTaxonomyService(db)

	category, err := svc.CreateCategory(context.Background(), CreateCategoryRequest{Name: "Plots"})
	require.NoError(t, err)

	property := &model.Property{
		Title:        "Corner plot",
		Description:  "South facing corner plot",
		CategoryID:   category.ID,
		PropertyType: "plot",
		ListingType:  model.ListingSale,
		Area:         1200,
		City:         "Pune",
		State:        "Maharashtra",
		Locality:     "Baner",
		Zipcode:      "411045",
		FullAddress:  "Plot 14, Baner Road, Pune",
	}
	require.NoError(t, db.Create(property).Error)

	err = svc.DeleteCategory(context.Background(), category.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "properties are assigned to it")

	require.NoError(t, db.Delete(property).Error)
	assert.NoError(t, svc.DeleteCategory(context.Background(), category.ID))
}

func TestCreateAmenityCategoryValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newTaxonomyService(db)

	_, err := svc.CreateAmenity(context.Background(), CreateAmenityRequest{
		Name: "Helipad", Category: "luxury",
	})
	require.Error(t, err)

	amenity, err := svc.CreateAmenity(context.Background(), CreateAmenityRequest{Name: "Power Backup"})
	require.NoError(t, err)
	assert.Equal(t, model.AmenityOther, amenity.Category)
}

func TestListAmenitiesByCategory(t *testing.T) {
	db := newTestDB(t)
	svc := newTaxonomyService(db)

	_, err := svc.CreateAmenity(context.Background(), CreateAmenityRequest{
		Name: "CCTV", Category: model.AmenitySafety,
	})
	require.NoError(t, err)
	_, err = svc.CreateAmenity(context.Background(), CreateAmenityRequest{
		Name: "Clubhouse", Category: model.AmenityLifestyle,
	})
	require.NoError(t, err)

	safety, err := svc.ListAmenities(context.Background(), model.AmenitySafety, false)
	require.NoError(t, err)
	require.Len(t, safety, 1)
	assert.Equal(t, "CCTV", safety[0].Name)
}
