package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permission modules and actions. A permission is an atomic (module, action)
// capability grant; the pair is unique.
const (
	ModuleUsers         = "users"
	ModuleProperties    = "properties"
	ModuleDashboard     = "dashboard"
	ModuleStaff         = "staff"
	ModulePayments      = "payments"
	ModuleSubscriptions = "subscriptions"
	ModuleSettings      = "settings"
	ModuleBlog          = "blog"

	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionManage = "manage"
)

// Role is a named bundle of permissions assignable to admins.
type Role struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Slug        string       `gorm:"type:varchar(60);uniqueIndex;not null" json:"slug"`
	Description string       `gorm:"type:varchar(200)" json:"description"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
	IsActive    bool         `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// BeforeCreate fills the ID and derives the slug from the name when absent.
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Slug == "" {
		r.Slug = Slugify(r.Name)
	}
	return nil
}

type Permission struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Module      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_permissions_module_action" json:"module"`
	Action      string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_permissions_module_action" json:"action"`
	Description string    `gorm:"type:varchar(200)" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Matches reports whether this permission grants the given pair.
func (p Permission) Matches(module, action string) bool {
	return p.Module == module && p.Action == action
}
