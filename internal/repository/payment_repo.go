package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	Search        string
	Status        string
	PaymentMethod string
	UserID        *uuid.UUID
	PlanID        *uuid.UUID
	From          *time.Time
	To            *time.Time
}

// RevenuePoint is one month of completed-payment revenue.
type RevenuePoint struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Count   int64           `json:"count"`
}

// PaymentStats aggregates headline figures for the payment module.
type PaymentStats struct {
	Total          int64           `json:"total"`
	Completed      int64           `json:"completed"`
	Pending        int64           `json:"pending"`
	Failed         int64           `json:"failed"`
	Refunded       int64           `json:"refunded"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalRefunded  decimal.Decimal `json:"total_refunded"`
	RevenueToday   decimal.Decimal `json:"revenue_today"`
	RevenueMonthly decimal.Decimal `json:"revenue_monthly"`
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	Update(ctx context.Context, payment *model.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*model.Payment, error)
	List(ctx context.Context, filter PaymentFilter, page, limit int) ([]model.Payment, int64, error)
	Stats(ctx context.Context) (*PaymentStats, error)
	MonthlyRevenue(ctx context.Context, months int) ([]RevenuePoint, error)
	SumCompletedSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return GetDB(ctx, r.db).Create(payment).Error
}

func (r *paymentRepository) Update(ctx context.Context, payment *model.Payment) error {
	return GetDB(ctx, r.db).Save(payment).Error
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	if err := GetDB(ctx, r.db).
		Preload("User").
		Preload("Plan").
		Preload("ProcessedBy").
		First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByPaymentID(ctx context.Context, paymentID string) (*model.Payment, error) {
	var payment model.Payment
	if err := GetDB(ctx, r.db).
		Preload("User").
		Preload("Plan").
		First(&payment, "payment_id = ?", paymentID).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) applyFilter(q *gorm.DB, filter PaymentFilter) *gorm.DB {
	if filter.Search != "" {
		q = q.Where("payment_id ILIKE ? OR transaction_id ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PaymentMethod != "" {
		q = q.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.PlanID != nil {
		q = q.Where("plan_id = ?", *filter.PlanID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}
	return q
}

func (r *paymentRepository) List(ctx context.Context, filter PaymentFilter, page, limit int) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	db := GetDB(ctx, r.db)
	if err := r.applyFilter(db.Model(&model.Payment{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.applyFilter(db.Model(&model.Payment{}), filter).
		Preload("User").
		Preload("Plan").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *paymentRepository) Stats(ctx context.Context) (*PaymentStats, error) {
	db := GetDB(ctx, r.db)
	stats := &PaymentStats{}

	counts := []struct {
		dest   *int64
		status string
	}{
		{&stats.Completed, model.PaymentCompleted},
		{&stats.Pending, model.PaymentPending},
		{&stats.Failed, model.PaymentFailed},
		{&stats.Refunded, model.PaymentRefunded},
	}
	if err := db.Model(&model.Payment{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		if err := db.Model(&model.Payment{}).
			Where("status = ?", c.status).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	sums := []struct {
		dest  *decimal.Decimal
		expr  string
		where func(*gorm.DB) *gorm.DB
	}{
		{&stats.TotalRevenue, "COALESCE(SUM(amount), 0)", func(q *gorm.DB) *gorm.DB {
			return q.Where("status = ?", model.PaymentCompleted)
		}},
		{&stats.TotalRefunded, "COALESCE(SUM(refund_amount), 0)", func(q *gorm.DB) *gorm.DB {
			return q.Where("status = ?", model.PaymentRefunded)
		}},
		{&stats.RevenueToday, "COALESCE(SUM(amount), 0)", func(q *gorm.DB) *gorm.DB {
			return q.Where("status = ? AND created_at >= ?",
				model.PaymentCompleted, time.Now().Truncate(24*time.Hour))
		}},
		{&stats.RevenueMonthly, "COALESCE(SUM(amount), 0)", func(q *gorm.DB) *gorm.DB {
			now := time.Now()
			monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
			return q.Where("status = ? AND created_at >= ?", model.PaymentCompleted, monthStart)
		}},
	}
	for _, s := range sums {
		if err := s.where(db.Model(&model.Payment{})).
			Select(s.expr).Scan(s.dest).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func (r *paymentRepository) MonthlyRevenue(ctx context.Context, months int) ([]RevenuePoint, error) {
	var rows []RevenuePoint
	since := time.Now().AddDate(0, -months, 0)
	err := GetDB(ctx, r.db).Model(&model.Payment{}).
		Select("TO_CHAR(created_at, 'YYYY-MM') as month, COALESCE(SUM(amount), 0) as revenue, COUNT(*) as count").
		Where("status = ? AND created_at >= ?", model.PaymentCompleted, since).
		Group("month").
		Order("month").
		Scan(&rows).Error
	return rows, err
}

func (r *paymentRepository) SumCompletedSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := GetDB(ctx, r.db).Model(&model.Payment{}).
		Where("status = ? AND created_at >= ?", model.PaymentCompleted, since).
		Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error
	return sum, err
}

func (r *paymentRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Payment{}).
		Where("status = ?", status).Count(&total).Error
	return total, err
}
