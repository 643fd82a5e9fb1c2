package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity kinds surfaced on the dashboard feed.
const (
	ActivityPropertyCreated       = "property_created"
	ActivityPropertyVerified      = "property_verified"
	ActivityPropertyRejected      = "property_rejected"
	ActivityUserRegistered        = "user_registered"
	ActivityUserBlocked           = "user_blocked"
	ActivityPaymentCompleted      = "payment_completed"
	ActivityPaymentRefunded       = "payment_refunded"
	ActivitySubscriptionCancelled = "subscription_cancelled"
	ActivityStaffCreated          = "staff_created"
	ActivityTaskCreated           = "task_created"
)

// ActivityLog tracks who did what and when for notable changes. It backs the
// dashboard recent-activities feed and the live event stream.
type ActivityLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AdminID    *uuid.UUID `gorm:"type:uuid;index" json:"admin_id"` // nil for anonymous/public actions
	Admin      *Admin     `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Kind       string     `gorm:"type:varchar(50);not null;index" json:"kind"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Message    string     `gorm:"type:varchar(500)" json:"message"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

func (a *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
