package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSubscriptionService(db *gorm.DB) SubscriptionService {
	return NewSubscriptionService(
		repository.NewSubscriptionRepository(db),
		repository.NewUserRepository(db),
		newTestRecorder(db),
	)
}

func createTestPlan(t *testing.T, db *gorm.DB, svc SubscriptionService, name string, days, credits int) *model.SubscriptionPlan {
	t.Helper()
	plan, err := svc.CreatePlan(context.Background(), CreatePlanRequest{
		Name:         name,
		Price:        decimal.NewFromInt(999),
		DurationDays: days,
		VisitCredits: credits,
		Features:     []string{"Priority support"},
	})
	require.NoError(t, err)
	return plan
}

func TestCreatePlanValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)

	_, err := svc.CreatePlan(context.Background(), CreatePlanRequest{
		Name: "Bad", Price: decimal.NewFromInt(-1), DurationDays: 30, VisitCredits: 5,
	})
	require.Error(t, err)

	_, err = svc.CreatePlan(context.Background(), CreatePlanRequest{
		Name: "Bad", Price: decimal.NewFromInt(10), DurationDays: 0, VisitCredits: 5,
	})
	require.Error(t, err)

	createTestPlan(t, db, svc, "Standard", 90, 20)
	_, err = svc.CreatePlan(context.Background(), CreatePlanRequest{
		Name: "Standard", Price: decimal.NewFromInt(10), DurationDays: 30, VisitCredits: 5,
	})
	require.Error(t, err)
	assert.Equal(t, "Plan name already exists", err.Error())
}

func TestAssignSubscription(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)
	user := createTestUser(t, db, "sub@example.com")
	plan := createTestPlan(t, db, svc, "Basic", 30, 5)

	sub, err := svc.Assign(context.Background(), AssignSubscriptionRequest{
		UserID: user.ID,
		PlanID: plan.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, model.SubscriptionActive, sub.Status)
	assert.Equal(t, 5, sub.RemainingCredits)
	assert.Equal(t, 5, sub.TotalCredits)
	assert.Equal(t, sub.StartDate.AddDate(0, 0, 30).Unix(), sub.EndDate.Unix())
}

func TestAssignExpiresCurrentSubscription(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)
	user := createTestUser(t, db, "switch@example.com")
	basic := createTestPlan(t, db, svc, "Basic", 30, 5)
	premium := createTestPlan(t, db, svc, "Premium", 365, 100)

	first, err := svc.Assign(context.Background(), AssignSubscriptionRequest{
		UserID: user.ID, PlanID: basic.ID,
	})
	require.NoError(t, err)

	_, err = svc.Assign(context.Background(), AssignSubscriptionRequest{
		UserID: user.ID, PlanID: premium.ID,
	})
	require.NoError(t, err)

	var previous model.UserSubscription
	require.NoError(t, db.First(&previous, "id = ?", first.ID).Error)
	assert.Equal(t, model.SubscriptionExpired, previous.Status)
}

func TestCancelSubscriptionTwice(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)
	user := createTestUser(t, db, "cancel@example.com")
	plan := createTestPlan(t, db, svc, "Basic", 30, 5)
	actor := createTestAdmin(t, db, "actor@example.com", false)

	sub, err := svc.Assign(context.Background(), AssignSubscriptionRequest{
		UserID: user.ID, PlanID: plan.ID,
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), sub.ID, actor.ID, "customer request")
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, "customer request", cancelled.CancellationReason)

	_, err = svc.Cancel(context.Background(), sub.ID, actor.ID, "again")
	require.Error(t, err)
	assert.Equal(t, "Subscription is already cancelled", err.Error())
}

func TestDeletePlanWithActiveSubscriptions(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)
	user := createTestUser(t, db, "holder@example.com")
	plan := createTestPlan(t, db, svc, "Basic", 30, 5)

	_, err := svc.Assign(context.Background(), AssignSubscriptionRequest{
		UserID: user.ID, PlanID: plan.ID,
	})
	require.NoError(t, err)

	err = svc.DeletePlan(context.Background(), plan.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "active subscription(s) use it")
}

func TestSuspendAndReactivate(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)
	user := createTestUser(t, db, "pause@example.com")
	plan := createTestPlan(t, db, svc, "Basic", 30, 5)

	sub, err := svc.Assign(context.Background(), AssignSubscriptionRequest{
		UserID: user.ID, PlanID: plan.ID,
	})
	require.NoError(t, err)

	suspended, err := svc.Suspend(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionSuspended, suspended.Status)

	resumed, err := svc.Reactivate(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionActive, resumed.Status)
}

func TestSuspendWritesStatusDirectly(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)
	user := createTestUser(t, db, "direct@example.com")
	plan := createTestPlan(t, db, svc, "Basic", 30, 5)

	sub, err := svc.Assign(context.Background(), AssignSubscriptionRequest{
		UserID: user.ID, PlanID: plan.ID,
	})
	require.NoError(t, err)

	// Reactivating a running subscription and suspending twice both succeed;
	// status updates carry no prior-state rules.
	reactivated, err := svc.Reactivate(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionActive, reactivated.Status)

	_, err = svc.Suspend(context.Background(), sub.ID)
	require.NoError(t, err)
	again, err := svc.Suspend(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionSuspended, again.Status)
}

func TestAdjustCredits(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)
	user := createTestUser(t, db, "credits@example.com")
	plan := createTestPlan(t, db, svc, "Basic", 30, 5)

	sub, err := svc.Assign(context.Background(), AssignSubscriptionRequest{
		UserID: user.ID, PlanID: plan.ID,
	})
	require.NoError(t, err)

	_, err = svc.AdjustCredits(context.Background(), sub.ID, -10)
	require.Error(t, err)
	assert.Equal(t, "Insufficient remaining credits", err.Error())

	adjusted, err := svc.AdjustCredits(context.Background(), sub.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, 13, adjusted.RemainingCredits)
	assert.Equal(t, 13, adjusted.TotalCredits)
}

func TestBulkUpdatePlansSkipsUnknownIDs(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)
	basic := createTestPlan(t, db, svc, "Basic", 30, 5)
	premium := createTestPlan(t, db, svc, "Premium", 365, 100)

	inactive := model.PlanInactive
	popular := true
	updated, err := svc.BulkUpdatePlans(context.Background(), BulkUpdatePlansRequest{
		Plans: []PlanPatch{
			{PlanID: basic.ID, UpdatePlanRequest: UpdatePlanRequest{Status: &inactive}},
			{PlanID: premium.ID, UpdatePlanRequest: UpdatePlanRequest{IsPopular: &popular}},
			{PlanID: uuid.New()},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, model.PlanInactive, updated[0].Status)
	assert.True(t, updated[1].IsPopular)
}

func TestBulkCancelSkipsAlreadyCancelled(t *testing.T) {
	db := newTestDB(t)
	svc := newSubscriptionService(db)
	plan := createTestPlan(t, db, svc, "Basic", 30, 5)
	actor := createTestAdmin(t, db, "bulk@example.com", false)

	ids := make([]uuid.UUID, 0, 3)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		user := createTestUser(t, db, email)
		sub, err := svc.Assign(context.Background(), AssignSubscriptionRequest{
			UserID: user.ID, PlanID: plan.ID,
		})
		require.NoError(t, err)
		ids = append(ids, sub.ID)
	}
	_, err := svc.Cancel(context.Background(), ids[0], actor.ID, "early")
	require.NoError(t, err)

	cancelled, err := svc.BulkCancel(context.Background(), BulkCancelRequest{
		IDs: ids, Reason: "plan retired",
	}, actor.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, cancelled)
}
