package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/response"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreatePlanRequest struct {
	Name         string          `json:"name" binding:"required"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	DurationDays int             `json:"duration_days" binding:"required"`
	VisitCredits int             `json:"visit_credits" binding:"required"`
	Features     []string        `json:"features"`
	IsPopular    bool            `json:"is_popular"`
	SortOrder    int             `json:"sort_order"`
}

type UpdatePlanRequest struct {
	Name         *string          `json:"name"`
	Price        *decimal.Decimal `json:"price"`
	DurationDays *int             `json:"duration_days"`
	VisitCredits *int             `json:"visit_credits"`
	Features     *[]string        `json:"features"`
	Status       *string          `json:"status"`
	IsPopular    *bool            `json:"is_popular"`
	SortOrder    *int             `json:"sort_order"`
}

type PlanPatch struct {
	PlanID uuid.UUID `json:"plan_id" binding:"required"`
	UpdatePlanRequest
}

type BulkUpdatePlansRequest struct {
	Plans []PlanPatch `json:"plans" binding:"required,min=1"`
}

type AssignSubscriptionRequest struct {
	UserID    uuid.UUID  `json:"user_id" binding:"required"`
	PlanID    uuid.UUID  `json:"plan_id" binding:"required"`
	PaymentID *uuid.UUID `json:"payment_id"`
	StartDate *time.Time `json:"start_date"`
}

type CancelSubscriptionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type AdjustCreditsRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}

type BulkCancelRequest struct {
	IDs    []uuid.UUID `json:"ids" binding:"required"`
	Reason string      `json:"reason" binding:"required"`
}

// SubscriptionAnalytics is the aggregate block for the subscription module.
type SubscriptionAnalytics struct {
	Active       int64                         `json:"active"`
	Expired      int64                         `json:"expired"`
	Cancelled    int64                         `json:"cancelled"`
	Suspended    int64                         `json:"suspended"`
	ExpiringSoon int64                         `json:"expiring_soon"`
	ByPlan       []repository.PlanDistribution `json:"by_plan"`
}

// --- Interface ---

type SubscriptionService interface {
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*model.SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, req UpdatePlanRequest) (*model.SubscriptionPlan, error)
	BulkUpdatePlans(ctx context.Context, req BulkUpdatePlansRequest) ([]model.SubscriptionPlan, error)
	DeletePlan(ctx context.Context, id uuid.UUID) error
	GetPlan(ctx context.Context, id uuid.UUID) (*model.SubscriptionPlan, error)
	ListPlans(ctx context.Context, activeOnly bool) ([]model.SubscriptionPlan, error)

	Assign(ctx context.Context, req AssignSubscriptionRequest) (*model.UserSubscription, error)
	Get(ctx context.Context, id uuid.UUID) (*model.UserSubscription, error)
	List(ctx context.Context, filter repository.SubscriptionFilter, page, limit int) ([]model.UserSubscription, int64, error)
	Cancel(ctx context.Context, id, actorID uuid.UUID, reason string) (*model.UserSubscription, error)
	BulkCancel(ctx context.Context, req BulkCancelRequest, actorID uuid.UUID) (int, error)
	Suspend(ctx context.Context, id uuid.UUID) (*model.UserSubscription, error)
	Reactivate(ctx context.Context, id uuid.UUID) (*model.UserSubscription, error)
	AdjustCredits(ctx context.Context, id uuid.UUID, delta int) (*model.UserSubscription, error)
	Usage(ctx context.Context, id uuid.UUID) (map[string]interface{}, error)
	Analytics(ctx context.Context) (*SubscriptionAnalytics, error)
}

type subscriptionService struct {
	subRepo  repository.SubscriptionRepository
	userRepo repository.UserRepository
	activity *ActivityRecorder
}

func NewSubscriptionService(subRepo repository.SubscriptionRepository, userRepo repository.UserRepository, activity *ActivityRecorder) SubscriptionService {
	return &subscriptionService{subRepo: subRepo, userRepo: userRepo, activity: activity}
}

// --- Plans ---

func (s *subscriptionService) CreatePlan(ctx context.Context, req CreatePlanRequest) (*model.SubscriptionPlan, error) {
	if req.Price.IsNegative() {
		return nil, response.BadRequest("Price cannot be negative")
	}
	if req.DurationDays <= 0 {
		return nil, response.BadRequest("duration_days must be positive")
	}
	if req.VisitCredits < 0 {
		return nil, response.BadRequest("visit_credits cannot be negative")
	}
	if _, err := s.subRepo.FindPlanByName(ctx, req.Name); err == nil {
		return nil, response.Conflict("Plan name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	plan := &model.SubscriptionPlan{
		Name:         req.Name,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		VisitCredits: req.VisitCredits,
		Features:     model.FeatureList(req.Features),
		Status:       model.PlanActive,
		IsPopular:    req.IsPopular,
		SortOrder:    req.SortOrder,
	}
	if err := s.subRepo.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *subscriptionService) UpdatePlan(ctx context.Context, id uuid.UUID, req UpdatePlanRequest) (*model.SubscriptionPlan, error) {
	plan, err := s.subRepo.FindPlanByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Plan not found")
	}

	if req.Name != nil && *req.Name != plan.Name {
		if _, err := s.subRepo.FindPlanByName(ctx, *req.Name); err == nil {
			return nil, response.Conflict("Plan name already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		plan.Name = *req.Name
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, response.BadRequest("Price cannot be negative")
		}
		plan.Price = *req.Price
	}
	if req.DurationDays != nil {
		if *req.DurationDays <= 0 {
			return nil, response.BadRequest("duration_days must be positive")
		}
		plan.DurationDays = *req.DurationDays
	}
	if req.VisitCredits != nil {
		if *req.VisitCredits < 0 {
			return nil, response.BadRequest("visit_credits cannot be negative")
		}
		plan.VisitCredits = *req.VisitCredits
	}
	if req.Features != nil {
		plan.Features = model.FeatureList(*req.Features)
	}
	if req.Status != nil {
		if *req.Status != model.PlanActive && *req.Status != model.PlanInactive {
			return nil, response.BadRequest("Status must be active or inactive")
		}
		plan.Status = *req.Status
	}
	if req.IsPopular != nil {
		plan.IsPopular = *req.IsPopular
	}
	if req.SortOrder != nil {
		plan.SortOrder = *req.SortOrder
	}

	if err := s.subRepo.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// BulkUpdatePlans applies each patch in turn. Unknown plan ids are skipped;
// validation failures abort the whole batch.
func (s *subscriptionService) BulkUpdatePlans(ctx context.Context, req BulkUpdatePlansRequest) ([]model.SubscriptionPlan, error) {
	updated := make([]model.SubscriptionPlan, 0, len(req.Plans))
	for _, patch := range req.Plans {
		if _, err := s.subRepo.FindPlanByID(ctx, patch.PlanID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		plan, err := s.UpdatePlan(ctx, patch.PlanID, patch.UpdatePlanRequest)
		if err != nil {
			return nil, err
		}
		updated = append(updated, *plan)
	}
	return updated, nil
}

// DeletePlan refuses while active subscriptions still reference the plan.
func (s *subscriptionService) DeletePlan(ctx context.Context, id uuid.UUID) error {
	if _, err := s.subRepo.FindPlanByID(ctx, id); err != nil {
		return response.NotFound("Plan not found")
	}
	active, err := s.subRepo.CountPlanSubscriptions(ctx, id, []string{model.SubscriptionActive})
	if err != nil {
		return err
	}
	if active > 0 {
		return response.BadRequest(fmt.Sprintf("Cannot delete plan: %d active subscription(s) use it", active))
	}
	return s.subRepo.DeletePlan(ctx, id)
}

func (s *subscriptionService) GetPlan(ctx context.Context, id uuid.UUID) (*model.SubscriptionPlan, error) {
	plan, err := s.subRepo.FindPlanByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Plan not found")
	}
	return plan, nil
}

func (s *subscriptionService) ListPlans(ctx context.Context, activeOnly bool) ([]model.SubscriptionPlan, error) {
	return s.subRepo.ListPlans(ctx, activeOnly)
}

// --- Subscriptions ---

// Assign grants a plan to a user. An existing active subscription is expired
// first so a user never holds two at once.
func (s *subscriptionService) Assign(ctx context.Context, req AssignSubscriptionRequest) (*model.UserSubscription, error) {
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, response.BadRequest("User not found")
	}
	plan, err := s.subRepo.FindPlanByID(ctx, req.PlanID)
	if err != nil {
		return nil, response.BadRequest("Plan not found")
	}
	if plan.Status != model.PlanActive {
		return nil, response.BadRequest("Plan is not active")
	}

	if current, err := s.subRepo.FindActiveByUser(ctx, req.UserID); err == nil {
		current.Status = model.SubscriptionExpired
		if err := s.subRepo.Update(ctx, current); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	start := time.Now()
	if req.StartDate != nil {
		start = *req.StartDate
	}

	sub := &model.UserSubscription{
		UserID:           req.UserID,
		PlanID:           req.PlanID,
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, plan.DurationDays),
		Status:           model.SubscriptionActive,
		RemainingCredits: plan.VisitCredits,
		TotalCredits:     plan.VisitCredits,
		PaymentID:        req.PaymentID,
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return s.subRepo.FindByID(ctx, sub.ID)
}

func (s *subscriptionService) Get(ctx context.Context, id uuid.UUID) (*model.UserSubscription, error) {
	sub, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Subscription not found")
	}
	return sub, nil
}

func (s *subscriptionService) List(ctx context.Context, filter repository.SubscriptionFilter, page, limit int) ([]model.UserSubscription, int64, error) {
	return s.subRepo.List(ctx, filter, page, limit)
}

func (s *subscriptionService) Cancel(ctx context.Context, id, actorID uuid.UUID, reason string) (*model.UserSubscription, error) {
	sub, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Subscription not found")
	}
	if sub.Status == model.SubscriptionCancelled {
		return nil, response.BadRequest("Subscription is already cancelled")
	}

	now := time.Now()
	sub.Status = model.SubscriptionCancelled
	sub.CancelledAt = &now
	sub.CancelledByID = &actorID
	sub.CancellationReason = reason
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	name := ""
	if sub.User != nil {
		name = sub.User.Name
	}
	s.activity.Record(ctx, &actorID, model.ActivitySubscriptionCancelled,
		sub.ID.String(), name, "Subscription cancelled for "+name)
	return sub, nil
}

func (s *subscriptionService) BulkCancel(ctx context.Context, req BulkCancelRequest, actorID uuid.UUID) (int, error) {
	if len(req.IDs) == 0 {
		return 0, response.BadRequest("No subscription IDs provided")
	}
	subs, err := s.subRepo.ListByIDs(ctx, req.IDs)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	now := time.Now()
	for i := range subs {
		if subs[i].Status == model.SubscriptionCancelled {
			continue
		}
		subs[i].Status = model.SubscriptionCancelled
		subs[i].CancelledAt = &now
		subs[i].CancelledByID = &actorID
		subs[i].CancellationReason = req.Reason
		if err := s.subRepo.Update(ctx, &subs[i]); err != nil {
			return cancelled, err
		}
		cancelled++
	}
	return cancelled, nil
}

// Suspend and Reactivate write the status directly; no prior-state check is
// made, so either call succeeds on a subscription in any state.
func (s *subscriptionService) Suspend(ctx context.Context, id uuid.UUID) (*model.UserSubscription, error) {
	return s.setStatus(ctx, id, model.SubscriptionSuspended)
}

func (s *subscriptionService) Reactivate(ctx context.Context, id uuid.UUID) (*model.UserSubscription, error) {
	return s.setStatus(ctx, id, model.SubscriptionActive)
}

func (s *subscriptionService) setStatus(ctx context.Context, id uuid.UUID, status string) (*model.UserSubscription, error) {
	sub, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Subscription not found")
	}
	sub.Status = status
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// AdjustCredits adds or removes visit credits; the balance never goes below
// zero or above the plan total.
func (s *subscriptionService) AdjustCredits(ctx context.Context, id uuid.UUID, delta int) (*model.UserSubscription, error) {
	sub, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Subscription not found")
	}
	if sub.Status != model.SubscriptionActive {
		return nil, response.BadRequest("Credits can only be adjusted on active subscriptions")
	}

	next := sub.RemainingCredits + delta
	if next < 0 {
		return nil, response.BadRequest("Insufficient remaining credits")
	}
	if next > sub.TotalCredits {
		sub.TotalCredits = next
	}
	sub.RemainingCredits = next
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) Usage(ctx context.Context, id uuid.UUID) (map[string]interface{}, error) {
	sub, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Subscription not found")
	}

	used := sub.TotalCredits - sub.RemainingCredits
	daysLeft := int(time.Until(sub.EndDate).Hours() / 24)
	if daysLeft < 0 {
		daysLeft = 0
	}
	return map[string]interface{}{
		"subscription_id":   sub.ID,
		"status":            sub.Status,
		"total_credits":     sub.TotalCredits,
		"used_credits":      used,
		"remaining_credits": sub.RemainingCredits,
		"start_date":        sub.StartDate,
		"end_date":          sub.EndDate,
		"days_remaining":    daysLeft,
	}, nil
}

func (s *subscriptionService) Analytics(ctx context.Context) (*SubscriptionAnalytics, error) {
	analytics := &SubscriptionAnalytics{}

	counts := []struct {
		dest   *int64
		status string
	}{
		{&analytics.Active, model.SubscriptionActive},
		{&analytics.Expired, model.SubscriptionExpired},
		{&analytics.Cancelled, model.SubscriptionCancelled},
		{&analytics.Suspended, model.SubscriptionSuspended},
	}
	for _, c := range counts {
		n, err := s.subRepo.CountByStatus(ctx, c.status)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}

	expiring, err := s.subRepo.CountExpiringBefore(ctx, time.Now().AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}
	analytics.ExpiringSoon = expiring

	byPlan, err := s.subRepo.Distribution(ctx)
	if err != nil {
		return nil, err
	}
	analytics.ByPlan = byPlan
	return analytics, nil
}
