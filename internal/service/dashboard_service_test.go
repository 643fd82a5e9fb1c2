package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDashboardService(db *gorm.DB) DashboardService {
	return NewDashboardService(
		repository.NewUserRepository(db),
		repository.NewPropertyRepository(db),
		repository.NewStaffRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewPaymentRepository(db),
		newTestRecorder(db),
	)
}

func TestDashboardMetrics(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)

	createTestUser(t, db, "one@example.com")
	createTestUser(t, db, "two@example.com")

	category := createTestCategory(t, db, "Dashboard Homes")
	property := &model.Property{
		Title:        "Studio flat",
		Description:  "Compact studio in the city centre",
		CategoryID:   category.ID,
		PropertyType: "apartment",
		ListingType:  model.ListingRent,
		Area:         420,
		City:         "Mumbai",
		State:        "Maharashtra",
		Locality:     "Andheri",
		Zipcode:      "400053",
		FullAddress:  "Andheri West, Mumbai",
		Status:       model.PropertyPublished,
	}
	require.NoError(t, db.Create(property).Error)

	metrics, err := svc.Metrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), metrics.TotalUsers)
	assert.Equal(t, int64(2), metrics.NewUsersThisWeek)
	assert.Equal(t, int64(1), metrics.TotalProperties)
	assert.Equal(t, int64(1), metrics.PublishedProperties)
	assert.Equal(t, int64(1), metrics.PendingVerification)
	assert.True(t, metrics.RevenueThisMonth.Equal(decimal.Zero))
}

func TestRecentActivitiesLimitClamped(t *testing.T) {
	db := newTestDB(t)
	svc := newDashboardService(db)
	recorder := newTestRecorder(db)

	for i := 0; i < 25; i++ {
		recorder.Record(context.Background(), nil, model.ActivityUserRegistered,
			"", "Walk-in", "New user registered")
	}

	activities, err := svc.RecentActivities(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, activities, 20)

	activities, err = svc.RecentActivities(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, activities, 5)
}
