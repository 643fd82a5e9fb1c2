package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Staff statuses.
const (
	StaffActive    = "active"
	StaffInactive  = "inactive"
	StaffSuspended = "suspended"
)

// Staff is an employed field/office worker carrying a single Role.
type Staff struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(50);not null" json:"name"`
	Email     string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone     string          `gorm:"type:varchar(20);not null" json:"phone"`
	RoleID    uuid.UUID       `gorm:"type:uuid;not null" json:"role_id"`
	Role      *Role           `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Status    string          `gorm:"type:varchar(20);default:'active'" json:"status"` // active, inactive, suspended
	Avatar    string          `gorm:"type:varchar(255)" json:"avatar"`
	HireDate  *time.Time      `json:"hire_date"`
	Salary    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"salary"`
	Address   string          `gorm:"type:varchar(200)" json:"address"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Task kinds, priorities and statuses.
const (
	TaskVisit        = "visit"
	TaskMaintenance  = "maintenance"
	TaskOnboarding   = "onboarding"
	TaskVerification = "verification"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"

	TaskPending    = "pending"
	TaskInProgress = "in-progress"
	TaskCompleted  = "completed"
	TaskCancelled  = "cancelled"
)

// Task is a unit of work assigned to a staff member, optionally tied to a
// property (e.g. a verification visit).
type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StaffID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_tasks_staff_status" json:"staff_id"`
	Staff       *Staff     `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	PropertyID  *uuid.UUID `gorm:"type:uuid" json:"property_id"`
	Property    *Property  `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	TaskType    string     `gorm:"type:varchar(20);not null" json:"task_type"` // visit, maintenance, onboarding, verification
	Title       string     `gorm:"type:varchar(100);not null" json:"title"`
	Description string     `gorm:"type:varchar(500)" json:"description"`
	Priority    string     `gorm:"type:varchar(10);default:'medium'" json:"priority"`
	Status      string     `gorm:"type:varchar(20);default:'pending';index:idx_tasks_staff_status" json:"status"`
	DueDate     time.Time  `gorm:"not null" json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	Notes       string     `gorm:"type:varchar(1000)" json:"notes"`
	CreatedByID uuid.UUID  `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedBy   *Admin     `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// PerformanceLog scores a staff member (0-100) for a period or a task.
type PerformanceLog struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StaffID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"staff_id"`
	Staff           *Staff     `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	TaskID          *uuid.UUID `gorm:"type:uuid" json:"task_id"`
	Task            *Task      `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Score           int        `gorm:"not null" json:"score"` // 0-100
	PerformanceDate time.Time  `gorm:"not null;index" json:"performance_date"`
	Remarks         string     `gorm:"type:varchar(500)" json:"remarks"`
	LoggedByID      uuid.UUID  `gorm:"type:uuid;not null" json:"logged_by_id"`
	LoggedBy        *Admin     `gorm:"foreignKey:LoggedByID" json:"logged_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (l *PerformanceLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
