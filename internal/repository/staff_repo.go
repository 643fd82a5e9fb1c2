package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaffFilter narrows staff listings.
type StaffFilter struct {
	Search string
	Status string
	RoleID *uuid.UUID
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	StaffID    *uuid.UUID
	PropertyID *uuid.UUID
	Status     string
	Priority   string
	TaskType   string
	DueBefore  *time.Time
	DueAfter   *time.Time
}

// StaffPerformance summarizes one staff member's task throughput and score.
type StaffPerformance struct {
	StaffID        uuid.UUID `json:"staff_id"`
	TotalTasks     int64     `json:"total_tasks"`
	CompletedTasks int64     `json:"completed_tasks"`
	PendingTasks   int64     `json:"pending_tasks"`
	OverdueTasks   int64     `json:"overdue_tasks"`
	AverageScore   float64   `json:"average_score"`
}

type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	Update(ctx context.Context, staff *model.Staff) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Staff, error)
	FindByEmail(ctx context.Context, email string) (*model.Staff, error)
	List(ctx context.Context, filter StaffFilter, page, limit int) ([]model.Staff, int64, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)

	CreateTask(ctx context.Context, task *model.Task) error
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, id uuid.UUID) error
	FindTaskByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter, page, limit int) ([]model.Task, int64, error)
	CountOpenTasks(ctx context.Context, staffID uuid.UUID) (int64, error)

	CreatePerformanceLog(ctx context.Context, plog *model.PerformanceLog) error
	ListPerformanceLogs(ctx context.Context, staffID uuid.UUID, page, limit int) ([]model.PerformanceLog, int64, error)
	Performance(ctx context.Context, staffID uuid.UUID) (*StaffPerformance, error)
}

type staffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, staff *model.Staff) error {
	return GetDB(ctx, r.db).Create(staff).Error
}

func (r *staffRepository) Update(ctx context.Context, staff *model.Staff) error {
	return GetDB(ctx, r.db).Save(staff).Error
}

func (r *staffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Staff{}).Error
}

func (r *staffRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	var staff model.Staff
	if err := GetDB(ctx, r.db).Preload("Role.Permissions").
		First(&staff, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) FindByEmail(ctx context.Context, email string) (*model.Staff, error) {
	var staff model.Staff
	if err := GetDB(ctx, r.db).First(&staff, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepository) List(ctx context.Context, filter StaffFilter, page, limit int) ([]model.Staff, int64, error) {
	var staff []model.Staff
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if filter.Search != "" {
			q = q.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?",
				"%"+filter.Search+"%", "%"+filter.Search+"%", "%"+filter.Search+"%")
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.RoleID != nil {
			q = q.Where("role_id = ?", *filter.RoleID)
		}
		return q
	}

	if err := apply(db.Model(&model.Staff{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := apply(db.Model(&model.Staff{})).
		Preload("Role").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&staff).Error; err != nil {
		return nil, 0, err
	}
	return staff, total, nil
}

func (r *staffRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Staff{}).Count(&total).Error
	return total, err
}

func (r *staffRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Staff{}).
		Where("status = ?", status).Count(&total).Error
	return total, err
}

func (r *staffRepository) CreateTask(ctx context.Context, task *model.Task) error {
	return GetDB(ctx, r.db).Create(task).Error
}

func (r *staffRepository) UpdateTask(ctx context.Context, task *model.Task) error {
	return GetDB(ctx, r.db).Save(task).Error
}

func (r *staffRepository) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Task{}).Error
}

func (r *staffRepository) FindTaskByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := GetDB(ctx, r.db).
		Preload("Staff").
		Preload("Property").
		Preload("CreatedBy").
		First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *staffRepository) ListTasks(ctx context.Context, filter TaskFilter, page, limit int) ([]model.Task, int64, error) {
	var tasks []model.Task
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if filter.StaffID != nil {
			q = q.Where("staff_id = ?", *filter.StaffID)
		}
		if filter.PropertyID != nil {
			q = q.Where("property_id = ?", *filter.PropertyID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.Priority != "" {
			q = q.Where("priority = ?", filter.Priority)
		}
		if filter.TaskType != "" {
			q = q.Where("task_type = ?", filter.TaskType)
		}
		if filter.DueBefore != nil {
			q = q.Where("due_date <= ?", *filter.DueBefore)
		}
		if filter.DueAfter != nil {
			q = q.Where("due_date >= ?", *filter.DueAfter)
		}
		return q
	}

	if err := apply(db.Model(&model.Task{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := apply(db.Model(&model.Task{})).
		Preload("Staff").
		Preload("Property").
		Order("due_date ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *staffRepository) CountOpenTasks(ctx context.Context, staffID uuid.UUID) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Task{}).
		Where("staff_id = ? AND status IN ?", staffID,
			[]string{model.TaskPending, model.TaskInProgress}).
		Count(&total).Error
	return total, err
}

func (r *staffRepository) CreatePerformanceLog(ctx context.Context, plog *model.PerformanceLog) error {
	return GetDB(ctx, r.db).Create(plog).Error
}

func (r *staffRepository) ListPerformanceLogs(ctx context.Context, staffID uuid.UUID, page, limit int) ([]model.PerformanceLog, int64, error) {
	var logs []model.PerformanceLog
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.PerformanceLog{}).
		Where("staff_id = ?", staffID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Where("staff_id = ?", staffID).
		Preload("Task").
		Preload("LoggedBy").
		Order("performance_date DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *staffRepository) Performance(ctx context.Context, staffID uuid.UUID) (*StaffPerformance, error) {
	db := GetDB(ctx, r.db)
	perf := &StaffPerformance{StaffID: staffID}

	if err := db.Model(&model.Task{}).
		Where("staff_id = ?", staffID).Count(&perf.TotalTasks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Task{}).
		Where("staff_id = ? AND status = ?", staffID, model.TaskCompleted).
		Count(&perf.CompletedTasks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Task{}).
		Where("staff_id = ? AND status IN ?", staffID,
			[]string{model.TaskPending, model.TaskInProgress}).
		Count(&perf.PendingTasks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Task{}).
		Where("staff_id = ? AND status IN ? AND due_date < ?", staffID,
			[]string{model.TaskPending, model.TaskInProgress}, time.Now()).
		Count(&perf.OverdueTasks).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.PerformanceLog{}).
		Where("staff_id = ?", staffID).
		Select("COALESCE(AVG(score), 0)").Scan(&perf.AverageScore).Error; err != nil {
		return nil, err
	}
	return perf, nil
}
