package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// End-user account kinds.
const (
	UserTypeTenant   = "tenant"
	UserTypeLandlord = "landlord"
	UserTypeBoth     = "both"
)

// User is a marketplace identity (tenant and/or landlord), as opposed to a
// backend-operator Admin.
type User struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string     `gorm:"type:varchar(50);not null" json:"name"`
	Email               string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone               string     `gorm:"type:varchar(20);not null" json:"phone"`
	Password            string     `gorm:"type:varchar(255);not null" json:"-"`
	Status              string     `gorm:"type:varchar(20);not null;default:'active'" json:"status"` // active, inactive, pending
	UserType            string     `gorm:"type:varchar(20);not null" json:"user_type"`               // tenant, landlord, both
	Address             string     `gorm:"type:varchar(200)" json:"address"`
	DOB                 *time.Time `json:"dob"`
	Gender              string     `gorm:"type:varchar(10)" json:"gender"` // male, female, other
	Avatar              string     `gorm:"type:varchar(255)" json:"avatar"`
	IsBlocked           bool       `gorm:"default:false" json:"is_blocked"`
	IsVerified          bool       `gorm:"default:false" json:"is_verified"`
	LastLogin           *time.Time `json:"last_login"`
	ResetPasswordToken  string     `gorm:"type:varchar(64);index" json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`
	CreatedByID         *uuid.UUID `gorm:"type:uuid" json:"created_by_id"`
	CreatedBy           *Admin     `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
