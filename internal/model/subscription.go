package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Plan and subscription statuses.
const (
	PlanActive   = "active"
	PlanInactive = "inactive"

	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
	SubscriptionSuspended = "suspended"
)

// SubscriptionPlan is a purchasable credit bundle. A plan with active
// subscriptions cannot be deleted.
type SubscriptionPlan struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	DurationDays int             `gorm:"not null" json:"duration_days"`
	VisitCredits int             `gorm:"not null" json:"visit_credits"`
	Features     FeatureList     `gorm:"type:text" json:"features"`
	Status       string          `gorm:"type:varchar(20);default:'active'" json:"status"` // active, inactive
	IsPopular    bool            `gorm:"default:false" json:"is_popular"`
	SortOrder    int             `gorm:"default:0" json:"sort_order"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (p *SubscriptionPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// UserSubscription binds a user to a plan for a date range with a credit
// balance.
type UserSubscription struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID         `gorm:"type:uuid;not null;index:idx_user_subscriptions_user_status" json:"user_id"`
	User               *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PlanID             uuid.UUID         `gorm:"type:uuid;not null" json:"plan_id"`
	Plan               *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	StartDate          time.Time         `json:"start_date"`
	EndDate            time.Time         `gorm:"not null;index" json:"end_date"`
	Status             string            `gorm:"type:varchar(20);default:'active';index:idx_user_subscriptions_user_status" json:"status"`
	RemainingCredits   int               `gorm:"default:0" json:"remaining_credits"`
	TotalCredits       int               `gorm:"default:0" json:"total_credits"`
	PaymentID          *uuid.UUID        `gorm:"type:uuid" json:"payment_id"`
	Payment            *Payment          `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
	AutoRenewal        bool              `gorm:"default:false" json:"auto_renewal"`
	CancelledAt        *time.Time        `json:"cancelled_at"`
	CancelledByID      *uuid.UUID        `gorm:"type:uuid" json:"cancelled_by_id"`
	CancelledBy        *Admin            `gorm:"foreignKey:CancelledByID" json:"cancelled_by,omitempty"`
	CancellationReason string            `gorm:"type:varchar(500)" json:"cancellation_reason"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func (s *UserSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
