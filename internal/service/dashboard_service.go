package service

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardMetrics is the headline block rendered at the top of the admin
// dashboard.
type DashboardMetrics struct {
	TotalUsers          int64           `json:"total_users"`
	NewUsersThisWeek    int64           `json:"new_users_this_week"`
	TotalProperties     int64           `json:"total_properties"`
	PublishedProperties int64           `json:"published_properties"`
	PendingVerification int64           `json:"pending_verification"`
	TotalStaff          int64           `json:"total_staff"`
	ActiveStaff         int64           `json:"active_staff"`
	ActiveSubscriptions int64           `json:"active_subscriptions"`
	PendingPayments     int64           `json:"pending_payments"`
	RevenueThisMonth    decimal.Decimal `json:"revenue_this_month"`
}

// DashboardCharts bundles the dataset series for the dashboard graphs.
type DashboardCharts struct {
	MonthlyRevenue   []repository.RevenuePoint     `json:"monthly_revenue"`
	PropertiesByCity []repository.CityCount        `json:"properties_by_city"`
	PlanDistribution []repository.PlanDistribution `json:"plan_distribution"`
}

type DashboardService interface {
	Metrics(ctx context.Context) (*DashboardMetrics, error)
	Charts(ctx context.Context) (*DashboardCharts, error)
	RecentActivities(ctx context.Context, limit int) ([]model.ActivityLog, error)
	ActivitiesByKind(ctx context.Context, kind string, page, limit int) ([]model.ActivityLog, int64, error)
}

type dashboardService struct {
	userRepo     repository.UserRepository
	propertyRepo repository.PropertyRepository
	staffRepo    repository.StaffRepository
	subRepo      repository.SubscriptionRepository
	paymentRepo  repository.PaymentRepository
	activity     *ActivityRecorder
}

func NewDashboardService(
	userRepo repository.UserRepository,
	propertyRepo repository.PropertyRepository,
	staffRepo repository.StaffRepository,
	subRepo repository.SubscriptionRepository,
	paymentRepo repository.PaymentRepository,
	activity *ActivityRecorder,
) DashboardService {
	return &dashboardService{
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
		staffRepo:    staffRepo,
		subRepo:      subRepo,
		paymentRepo:  paymentRepo,
		activity:     activity,
	}
}

func (s *dashboardService) Metrics(ctx context.Context) (*DashboardMetrics, error) {
	m := &DashboardMetrics{}
	var err error

	if m.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if m.NewUsersThisWeek, err = s.userRepo.CountSince(ctx, time.Now().AddDate(0, 0, -7)); err != nil {
		return nil, err
	}
	if m.TotalProperties, err = s.propertyRepo.Count(ctx); err != nil {
		return nil, err
	}
	if m.PublishedProperties, err = s.propertyRepo.CountByStatus(ctx, model.PropertyPublished); err != nil {
		return nil, err
	}
	if m.PendingVerification, err = s.propertyRepo.CountByVerification(ctx, model.VerificationPending); err != nil {
		return nil, err
	}
	if m.TotalStaff, err = s.staffRepo.Count(ctx); err != nil {
		return nil, err
	}
	if m.ActiveStaff, err = s.staffRepo.CountByStatus(ctx, model.StaffActive); err != nil {
		return nil, err
	}
	if m.ActiveSubscriptions, err = s.subRepo.CountByStatus(ctx, model.SubscriptionActive); err != nil {
		return nil, err
	}
	if m.PendingPayments, err = s.paymentRepo.CountByStatus(ctx, model.PaymentPending); err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if m.RevenueThisMonth, err = s.paymentRepo.SumCompletedSince(ctx, monthStart); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *dashboardService) Charts(ctx context.Context) (*DashboardCharts, error) {
	charts := &DashboardCharts{}
	var err error

	if charts.MonthlyRevenue, err = s.paymentRepo.MonthlyRevenue(ctx, 12); err != nil {
		return nil, err
	}
	if charts.PropertiesByCity, err = s.propertyRepo.CountByCity(ctx, 10); err != nil {
		return nil, err
	}
	if charts.PlanDistribution, err = s.subRepo.Distribution(ctx); err != nil {
		return nil, err
	}
	return charts, nil
}

func (s *dashboardService) RecentActivities(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.activity.Recent(ctx, limit)
}

// ActivitiesByKind pages through the full log filtered to one activity kind.
func (s *dashboardService) ActivitiesByKind(ctx context.Context, kind string, page, limit int) ([]model.ActivityLog, int64, error) {
	return s.activity.ListByKind(ctx, kind, page, limit)
}
