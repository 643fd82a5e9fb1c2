package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionFilter narrows user-subscription listings.
type SubscriptionFilter struct {
	UserID *uuid.UUID
	PlanID *uuid.UUID
	Status string
}

// PlanDistribution tallies active subscriptions per plan.
type PlanDistribution struct {
	PlanID   uuid.UUID `json:"plan_id"`
	PlanName string    `json:"plan_name"`
	Count    int64     `json:"count"`
}

type SubscriptionRepository interface {
	CreatePlan(ctx context.Context, plan *model.SubscriptionPlan) error
	UpdatePlan(ctx context.Context, plan *model.SubscriptionPlan) error
	DeletePlan(ctx context.Context, id uuid.UUID) error
	FindPlanByID(ctx context.Context, id uuid.UUID) (*model.SubscriptionPlan, error)
	FindPlanByName(ctx context.Context, name string) (*model.SubscriptionPlan, error)
	ListPlans(ctx context.Context, activeOnly bool) ([]model.SubscriptionPlan, error)
	CountPlanSubscriptions(ctx context.Context, planID uuid.UUID, statuses []string) (int64, error)

	Create(ctx context.Context, sub *model.UserSubscription) error
	Update(ctx context.Context, sub *model.UserSubscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.UserSubscription, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*model.UserSubscription, error)
	List(ctx context.Context, filter SubscriptionFilter, page, limit int) ([]model.UserSubscription, int64, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.UserSubscription, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountExpiringBefore(ctx context.Context, deadline time.Time) (int64, error)
	Distribution(ctx context.Context) ([]PlanDistribution, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) CreatePlan(ctx context.Context, plan *model.SubscriptionPlan) error {
	return GetDB(ctx, r.db).Create(plan).Error
}

func (r *subscriptionRepository) UpdatePlan(ctx context.Context, plan *model.SubscriptionPlan) error {
	return GetDB(ctx, r.db).Save(plan).Error
}

func (r *subscriptionRepository) DeletePlan(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.SubscriptionPlan{}).Error
}

func (r *subscriptionRepository) FindPlanByID(ctx context.Context, id uuid.UUID) (*model.SubscriptionPlan, error) {
	var plan model.SubscriptionPlan
	if err := GetDB(ctx, r.db).First(&plan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *subscriptionRepository) FindPlanByName(ctx context.Context, name string) (*model.SubscriptionPlan, error) {
	var plan model.SubscriptionPlan
	if err := GetDB(ctx, r.db).First(&plan, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *subscriptionRepository) ListPlans(ctx context.Context, activeOnly bool) ([]model.SubscriptionPlan, error) {
	var plans []model.SubscriptionPlan
	q := GetDB(ctx, r.db).Order("sort_order, price")
	if activeOnly {
		q = q.Where("status = ?", model.PlanActive)
	}
	err := q.Find(&plans).Error
	return plans, err
}

func (r *subscriptionRepository) CountPlanSubscriptions(ctx context.Context, planID uuid.UUID, statuses []string) (int64, error) {
	var total int64
	q := GetDB(ctx, r.db).Model(&model.UserSubscription{}).Where("plan_id = ?", planID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Count(&total).Error
	return total, err
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *model.UserSubscription) error {
	return GetDB(ctx, r.db).Create(sub).Error
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *model.UserSubscription) error {
	return GetDB(ctx, r.db).Save(sub).Error
}

func (r *subscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.UserSubscription, error) {
	var sub model.UserSubscription
	if err := GetDB(ctx, r.db).
		Preload("User").
		Preload("Plan").
		Preload("Payment").
		First(&sub, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*model.UserSubscription, error) {
	var sub model.UserSubscription
	if err := GetDB(ctx, r.db).
		Preload("Plan").
		Where("user_id = ? AND status = ?", userID, model.SubscriptionActive).
		Order("end_date DESC").
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) List(ctx context.Context, filter SubscriptionFilter, page, limit int) ([]model.UserSubscription, int64, error) {
	var subs []model.UserSubscription
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if filter.UserID != nil {
			q = q.Where("user_id = ?", *filter.UserID)
		}
		if filter.PlanID != nil {
			q = q.Where("plan_id = ?", *filter.PlanID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		return q
	}

	if err := apply(db.Model(&model.UserSubscription{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := apply(db.Model(&model.UserSubscription{})).
		Preload("User").
		Preload("Plan").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (r *subscriptionRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.UserSubscription, error) {
	var subs []model.UserSubscription
	err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.UserSubscription{}).
		Where("status = ?", status).Count(&total).Error
	return total, err
}

func (r *subscriptionRepository) CountExpiringBefore(ctx context.Context, deadline time.Time) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.UserSubscription{}).
		Where("status = ? AND end_date <= ?", model.SubscriptionActive, deadline).
		Count(&total).Error
	return total, err
}

func (r *subscriptionRepository) Distribution(ctx context.Context) ([]PlanDistribution, error) {
	var rows []PlanDistribution
	err := GetDB(ctx, r.db).Model(&model.UserSubscription{}).
		Select("user_subscriptions.plan_id, subscription_plans.name as plan_name, COUNT(*) as count").
		Joins("JOIN subscription_plans ON subscription_plans.id = user_subscriptions.plan_id").
		Where("user_subscriptions.status = ?", model.SubscriptionActive).
		Group("user_subscriptions.plan_id, subscription_plans.name").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}
