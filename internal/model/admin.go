package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account status values shared by admins and end users.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPending  = "pending"
)

// Admin is a backend-operator account. Access is granted either through
// direct permissions or through attached roles; super admins bypass both.
type Admin struct {
	ID                  uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string       `gorm:"type:varchar(50);not null" json:"name"`
	Email               string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password            string       `gorm:"type:varchar(255);not null" json:"-"`
	Status              string       `gorm:"type:varchar(20);not null;default:'active'" json:"status"` // active, inactive
	IsSuperAdmin        bool         `gorm:"default:false" json:"is_super_admin"`
	Roles               []Role       `gorm:"many2many:admin_roles;" json:"roles,omitempty"`
	Permissions         []Permission `gorm:"many2many:admin_permissions;" json:"permissions,omitempty"`
	LastLogin           *time.Time   `json:"last_login"`
	ResetPasswordToken  string       `gorm:"type:varchar(64);index" json:"-"`
	ResetPasswordExpire *time.Time   `json:"-"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
