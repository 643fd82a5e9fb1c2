package service

import (
	"context"
	"testing"

	"backend/internal/config"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/upload"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPropertyService(t *testing.T, db *gorm.DB) PropertyService {
	t.Helper()
	return NewPropertyService(
		repository.NewPropertyRepository(db),
		repository.NewTaxonomyRepository(db),
		repository.NewUserRepository(db),
		upload.NewStore(config.UploadConfig{Dir: t.TempDir()}),
		newTestMailer(),
		newTestRecorder(db),
		repository.NewTransactionManager(db),
	)
}

func createTestCategory(t *testing.T, db *gorm.DB, name string) *model.PropertyCategory {
	t.Helper()
	category := &model.PropertyCategory{Name: name, IsActive: true}
	require.NoError(t, db.Create(category).Error)
	return category
}

func baseCreateRequest(categoryID uuid.UUID) CreatePropertyRequest {
	return CreatePropertyRequest{
		Title:        "2BHK near metro",
		Description:  "Well lit two bedroom flat close to the metro station",
		CategoryID:   categoryID,
		PropertyType: "apartment",
		ListingType:  model.ListingRent,
		MonthlyRent:  decimal.NewFromInt(25000),
		Area:         950,
		City:         "Bengaluru",
		State:        "Karnataka",
		Locality:     "Indiranagar",
		Zipcode:      "560038",
		FullAddress:  "12th Main, Indiranagar, Bengaluru",
	}
}

func TestCreatePropertyValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newPropertyService(t, db)
	category := createTestCategory(t, db, "Apartments")

	req := baseCreateRequest(category.ID)
	req.Zipcode = "12345"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "Zipcode must be exactly 6 digits", err.Error())

	req = baseCreateRequest(category.ID)
	req.MonthlyRent = decimal.Zero
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "monthly_rent is required for rental listings", err.Error())

	req = baseCreateRequest(category.ID)
	req.ListingType = model.ListingSale
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "sale_price is required for sale listings", err.Error())

	req = baseCreateRequest(uuid.New())
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "Category not found", err.Error())
}

func TestCreatePropertyDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := newPropertyService(t, db)
	category := createTestCategory(t, db, "Apartments")

	property, err := svc.Create(context.Background(), baseCreateRequest(category.ID))
	require.NoError(t, err)

	assert.Equal(t, model.PropertyDraft, property.Status)
	assert.Equal(t, model.VerificationPending, property.VerificationStatus)
	assert.NotEmpty(t, property.PropertyCode)
	assert.Nil(t, property.OwnerID)

	var logs []model.ActivityLog
	require.NoError(t, db.Where("kind = ?", model.ActivityPropertyCreated).Find(&logs).Error)
	assert.Len(t, logs, 1)
}

func TestCreatePropertyUnknownFeatureRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := newPropertyService(t, db)
	category := createTestCategory(t, db, "Apartments")

	req := baseCreateRequest(category.ID)
	req.FeatureIDs = []uuid.UUID{uuid.New()}
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "One or more features do not exist", err.Error())

	var count int64
	require.NoError(t, db.Model(&model.Property{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreatePropertyAttachesFeaturesAndAmenities(t *testing.T) {
	db := newTestDB(t)
	svc := newPropertyService(t, db)
	category := createTestCategory(t, db, "Apartments")

	feature := &model.PropertyFeature{Name: "Modular Kitchen", IsActive: true}
	require.NoError(t, db.Create(feature).Error)
	amenity := &model.PropertyAmenity{Name: "Lift", Category: model.AmenityConnectivity, IsActive: true}
	require.NoError(t, db.Create(amenity).Error)

	req := baseCreateRequest(category.ID)
	req.FeatureIDs = []uuid.UUID{feature.ID}
	req.AmenityIDs = []uuid.UUID{amenity.ID}

	property, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, property.Features, 1)
	require.Len(t, property.Amenities, 1)
	assert.Equal(t, "Modular Kitchen", property.Features[0].Name)
}

func TestVerifyThenRejectProperty(t *testing.T) {
	db := newTestDB(t)
	svc := newPropertyService(t, db)
	category := createTestCategory(t, db, "Apartments")
	admin := createTestAdmin(t, db, "verifier@example.com", false)

	property, err := svc.Create(context.Background(), baseCreateRequest(category.ID))
	require.NoError(t, err)

	verified, err := svc.Verify(context.Background(), property.ID, admin.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Equal(t, model.VerificationApproved, verified.VerificationStatus)
	assert.NotNil(t, verified.VerifiedAt)

	rejected, err := svc.Reject(context.Background(), property.ID, admin.ID, "blurred documents")
	require.NoError(t, err)
	assert.False(t, rejected.IsVerified)
	assert.Equal(t, model.VerificationRejected, rejected.VerificationStatus)
	assert.Equal(t, "blurred documents", rejected.RejectionReason)
	assert.Nil(t, rejected.VerifiedAt)
}

func TestUpdateStatusValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newPropertyService(t, db)
	category := createTestCategory(t, db, "Apartments")

	property, err := svc.Create(context.Background(), baseCreateRequest(category.ID))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), property.ID, "archived")
	require.Error(t, err)

	published, err := svc.UpdateStatus(context.Background(), property.ID, model.PropertyPublished)
	require.NoError(t, err)
	assert.Equal(t, model.PropertyPublished, published.Status)
}

func TestFeaturedRequiresVerifiedAndPublished(t *testing.T) {
	db := newTestDB(t)
	svc := newPropertyService(t, db)
	category := createTestCategory(t, db, "Apartments")
	admin := createTestAdmin(t, db, "verifier@example.com", false)

	property, err := svc.Create(context.Background(), baseCreateRequest(category.ID))
	require.NoError(t, err)

	featured, err := svc.Featured(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, featured)

	_, err = svc.Verify(context.Background(), property.ID, admin.ID)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), property.ID, model.PropertyPublished)
	require.NoError(t, err)
	flag := true
	_, err = svc.Update(context.Background(), property.ID, UpdatePropertyRequest{IsFeatured: &flag})
	require.NoError(t, err)

	featured, err = svc.Featured(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, property.ID, featured[0].ID)
}

func TestSearchFiltersByAmenity(t *testing.T) {
	db := newTestDB(t)
	svc := newPropertyService(t, db)
	category := createTestCategory(t, db, "Apartments")
	admin := createTestAdmin(t, db, "verifier@example.com", false)

	amenity := &model.PropertyAmenity{Name: "Gym", Category: model.AmenityLifestyle, IsActive: true}
	require.NoError(t, db.Create(amenity).Error)

	withGym, err := svc.Create(context.Background(), baseCreateRequest(category.ID))
	require.NoError(t, err)
	require.NoError(t, db.Model(withGym).Association("Amenities").Append(amenity))

	plain := baseCreateRequest(category.ID)
	plain.Title = "1BHK without extras"
	withoutGym, err := svc.Create(context.Background(), plain)
	require.NoError(t, err)

	for _, id := range []uuid.UUID{withGym.ID, withoutGym.ID} {
		_, err = svc.Verify(context.Background(), id, admin.ID)
		require.NoError(t, err)
		_, err = svc.UpdateStatus(context.Background(), id, model.PropertyPublished)
		require.NoError(t, err)
	}

	results, total, err := svc.Search(context.Background(), repository.PropertyFilter{
		AmenityIDs: []uuid.UUID{amenity.ID},
	}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, withGym.ID, results[0].ID)

	// Draft listings never surface in search.
	_, err = svc.UpdateStatus(context.Background(), withGym.ID, model.PropertyDraft)
	require.NoError(t, err)
	_, total, err = svc.Search(context.Background(), repository.PropertyFilter{
		AmenityIDs: []uuid.UUID{amenity.ID},
	}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestOwnerScopedUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	svc := newPropertyService(t, db)
	category := createTestCategory(t, db, "Apartments")
	owner := createTestUser(t, db, "owner@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")

	req := baseCreateRequest(category.ID)
	req.OwnerID = &owner.ID
	property, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	title := "Renamed by stranger"
	_, err = svc.UpdateOwned(context.Background(), property.ID, stranger.ID, UpdatePropertyRequest{Title: &title})
	require.Error(t, err)
	assert.Equal(t, "You do not own this property", err.Error())

	title = "Renamed by owner"
	updated, err := svc.UpdateOwned(context.Background(), property.ID, owner.ID, UpdatePropertyRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed by owner", updated.Title)

	listed, total, err := svc.ListByOwner(context.Background(), owner.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)

	require.Error(t, svc.DeleteOwned(context.Background(), property.ID, stranger.ID))
	require.NoError(t, svc.DeleteOwned(context.Background(), property.ID, owner.ID))

	_, total, err = svc.ListByOwner(context.Background(), owner.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestGetCountsView(t *testing.T) {
	db := newTestDB(t)
	svc := newPropertyService(t, db)
	category := createTestCategory(t, db, "Apartments")

	property, err := svc.Create(context.Background(), baseCreateRequest(category.ID))
	require.NoError(t, err)

	viewed, err := svc.Get(context.Background(), property.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), viewed.Views)

	unchanged, err := svc.Get(context.Background(), property.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unchanged.Views)
}
