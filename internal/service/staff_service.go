package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/response"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateStaffRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required"`
	Phone    string          `json:"phone" binding:"required"`
	RoleID   uuid.UUID       `json:"role_id" binding:"required"`
	HireDate *time.Time      `json:"hire_date"`
	Salary   decimal.Decimal `json:"salary"`
	Address  string          `json:"address"`
}

type UpdateStaffRequest struct {
	Name     *string          `json:"name"`
	Phone    *string          `json:"phone"`
	RoleID   *uuid.UUID       `json:"role_id"`
	Status   *string          `json:"status"`
	Avatar   *string          `json:"avatar"`
	HireDate *time.Time       `json:"hire_date"`
	Salary   *decimal.Decimal `json:"salary"`
	Address  *string          `json:"address"`
}

type CreateTaskRequest struct {
	StaffID     uuid.UUID  `json:"staff_id" binding:"required"`
	PropertyID  *uuid.UUID `json:"property_id"`
	TaskType    string     `json:"task_type" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     time.Time  `json:"due_date" binding:"required"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	Notes       *string    `json:"notes"`
}

type LogPerformanceRequest struct {
	TaskID          *uuid.UUID `json:"task_id"`
	Score           int        `json:"score" binding:"required"`
	PerformanceDate *time.Time `json:"performance_date"`
	Remarks         string     `json:"remarks"`
}

// --- Interface ---

type StaffService interface {
	Create(ctx context.Context, req CreateStaffRequest, actorID uuid.UUID) (*model.Staff, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateStaffRequest) (*model.Staff, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.Staff, error)
	List(ctx context.Context, filter repository.StaffFilter, page, limit int) ([]model.Staff, int64, error)

	CreateTask(ctx context.Context, req CreateTaskRequest, actorID uuid.UUID) (*model.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*model.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	GetTask(ctx context.Context, id uuid.UUID) (*model.Task, error)
	ListTasks(ctx context.Context, filter repository.TaskFilter, page, limit int) ([]model.Task, int64, error)

	LogPerformance(ctx context.Context, staffID uuid.UUID, req LogPerformanceRequest, actorID uuid.UUID) (*model.PerformanceLog, error)
	ListPerformanceLogs(ctx context.Context, staffID uuid.UUID, page, limit int) ([]model.PerformanceLog, int64, error)
	Performance(ctx context.Context, staffID uuid.UUID) (*repository.StaffPerformance, error)
}

type staffService struct {
	staffRepo    repository.StaffRepository
	roleRepo     repository.RoleRepository
	propertyRepo repository.PropertyRepository
	activity     *ActivityRecorder
}

func NewStaffService(staffRepo repository.StaffRepository, roleRepo repository.RoleRepository, propertyRepo repository.PropertyRepository, activity *ActivityRecorder) StaffService {
	return &staffService{staffRepo: staffRepo, roleRepo: roleRepo, propertyRepo: propertyRepo, activity: activity}
}

var validStaffStatuses = map[string]bool{
	model.StaffActive: true, model.StaffInactive: true, model.StaffSuspended: true,
}

var validTaskTypes = map[string]bool{
	model.TaskVisit: true, model.TaskMaintenance: true,
	model.TaskOnboarding: true, model.TaskVerification: true,
}

var validTaskPriorities = map[string]bool{
	model.PriorityLow: true, model.PriorityMedium: true,
	model.PriorityHigh: true, model.PriorityUrgent: true,
}

var validTaskStatuses = map[string]bool{
	model.TaskPending: true, model.TaskInProgress: true,
	model.TaskCompleted: true, model.TaskCancelled: true,
}

// --- Staff ---

func (s *staffService) Create(ctx context.Context, req CreateStaffRequest, actorID uuid.UUID) (*model.Staff, error) {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, response.BadRequest("Invalid email format")
	}
	if _, err := s.roleRepo.FindByID(ctx, req.RoleID); err != nil {
		return nil, response.BadRequest("Role not found")
	}
	if _, err := s.staffRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, response.Conflict("Email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	staff := &model.Staff{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		RoleID:   req.RoleID,
		Status:   model.StaffActive,
		HireDate: req.HireDate,
		Salary:   req.Salary,
		Address:  req.Address,
	}
	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &actorID, model.ActivityStaffCreated,
		staff.ID.String(), staff.Name, "Staff member added: "+staff.Name)
	return s.staffRepo.FindByID(ctx, staff.ID)
}

func (s *staffService) Update(ctx context.Context, id uuid.UUID, req UpdateStaffRequest) (*model.Staff, error) {
	staff, err := s.staffRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Staff member not found")
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, response.BadRequest("Name cannot be empty")
		}
		staff.Name = *req.Name
	}
	if req.Phone != nil {
		staff.Phone = *req.Phone
	}
	if req.RoleID != nil {
		if _, err := s.roleRepo.FindByID(ctx, *req.RoleID); err != nil {
			return nil, response.BadRequest("Role not found")
		}
		staff.RoleID = *req.RoleID
	}
	if req.Status != nil {
		if !validStaffStatuses[*req.Status] {
			return nil, response.BadRequest("Status must be one of: active, inactive, suspended")
		}
		staff.Status = *req.Status
	}
	if req.Avatar != nil {
		staff.Avatar = *req.Avatar
	}
	if req.HireDate != nil {
		staff.HireDate = req.HireDate
	}
	if req.Salary != nil {
		staff.Salary = *req.Salary
	}
	if req.Address != nil {
		staff.Address = *req.Address
	}

	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}
	return s.staffRepo.FindByID(ctx, id)
}

// Delete refuses while the member has pending or in-progress tasks.
func (s *staffService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.staffRepo.FindByID(ctx, id); err != nil {
		return response.NotFound("Staff member not found")
	}
	open, err := s.staffRepo.CountOpenTasks(ctx, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return response.BadRequest(fmt.Sprintf("Cannot delete staff member: %d open task(s) are assigned to them", open))
	}
	return s.staffRepo.Delete(ctx, id)
}

func (s *staffService) Get(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	staff, err := s.staffRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Staff member not found")
	}
	return staff, nil
}

func (s *staffService) List(ctx context.Context, filter repository.StaffFilter, page, limit int) ([]model.Staff, int64, error) {
	return s.staffRepo.List(ctx, filter, page, limit)
}

// --- Tasks ---

func (s *staffService) CreateTask(ctx context.Context, req CreateTaskRequest, actorID uuid.UUID) (*model.Task, error) {
	if !validTaskTypes[req.TaskType] {
		return nil, response.BadRequest("task_type must be one of: visit, maintenance, onboarding, verification")
	}
	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !validTaskPriorities[priority] {
		return nil, response.BadRequest("priority must be one of: low, medium, high, urgent")
	}

	staff, err := s.staffRepo.FindByID(ctx, req.StaffID)
	if err != nil {
		return nil, response.BadRequest("Staff member not found")
	}
	if staff.Status != model.StaffActive {
		return nil, response.BadRequest("Tasks can only be assigned to active staff members")
	}
	if req.PropertyID != nil {
		if _, err := s.propertyRepo.FindByID(ctx, *req.PropertyID); err != nil {
			return nil, response.BadRequest("Property not found")
		}
	}

	task := &model.Task{
		StaffID:     req.StaffID,
		PropertyID:  req.PropertyID,
		TaskType:    req.TaskType,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Status:      model.TaskPending,
		DueDate:     req.DueDate,
		CreatedByID: actorID,
	}
	if err := s.staffRepo.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, &actorID, model.ActivityTaskCreated,
		task.ID.String(), task.Title, "Task assigned to "+staff.Name+": "+task.Title)
	return s.staffRepo.FindTaskByID(ctx, task.ID)
}

func (s *staffService) UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*model.Task, error) {
	task, err := s.staffRepo.FindTaskByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Task not found")
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, response.BadRequest("Title cannot be empty")
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		if !validTaskPriorities[*req.Priority] {
			return nil, response.BadRequest("priority must be one of: low, medium, high, urgent")
		}
		task.Priority = *req.Priority
	}
	if req.Status != nil {
		if !validTaskStatuses[*req.Status] {
			return nil, response.BadRequest("status must be one of: pending, in-progress, completed, cancelled")
		}
		task.Status = *req.Status
		if *req.Status == model.TaskCompleted && task.CompletedAt == nil {
			now := time.Now()
			task.CompletedAt = &now
		}
		if *req.Status != model.TaskCompleted {
			task.CompletedAt = nil
		}
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}
	if req.Notes != nil {
		task.Notes = *req.Notes
	}

	if err := s.staffRepo.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return s.staffRepo.FindTaskByID(ctx, id)
}

func (s *staffService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if _, err := s.staffRepo.FindTaskByID(ctx, id); err != nil {
		return response.NotFound("Task not found")
	}
	return s.staffRepo.DeleteTask(ctx, id)
}

func (s *staffService) GetTask(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, err := s.staffRepo.FindTaskByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Task not found")
	}
	return task, nil
}

func (s *staffService) ListTasks(ctx context.Context, filter repository.TaskFilter, page, limit int) ([]model.Task, int64, error) {
	return s.staffRepo.ListTasks(ctx, filter, page, limit)
}

// --- Performance ---

func (s *staffService) LogPerformance(ctx context.Context, staffID uuid.UUID, req LogPerformanceRequest, actorID uuid.UUID) (*model.PerformanceLog, error) {
	if req.Score < 0 || req.Score > 100 {
		return nil, response.BadRequest("Score must be between 0 and 100")
	}
	if _, err := s.staffRepo.FindByID(ctx, staffID); err != nil {
		return nil, response.NotFound("Staff member not found")
	}
	if req.TaskID != nil {
		task, err := s.staffRepo.FindTaskByID(ctx, *req.TaskID)
		if err != nil {
			return nil, response.BadRequest("Task not found")
		}
		if task.StaffID != staffID {
			return nil, response.BadRequest("Task does not belong to this staff member")
		}
	}

	performanceDate := time.Now()
	if req.PerformanceDate != nil {
		performanceDate = *req.PerformanceDate
	}

	plog := &model.PerformanceLog{
		StaffID:         staffID,
		TaskID:          req.TaskID,
		Score:           req.Score,
		PerformanceDate: performanceDate,
		Remarks:         req.Remarks,
		LoggedByID:      actorID,
	}
	if err := s.staffRepo.CreatePerformanceLog(ctx, plog); err != nil {
		return nil, err
	}
	return plog, nil
}

func (s *staffService) ListPerformanceLogs(ctx context.Context, staffID uuid.UUID, page, limit int) ([]model.PerformanceLog, int64, error) {
	if _, err := s.staffRepo.FindByID(ctx, staffID); err != nil {
		return nil, 0, response.NotFound("Staff member not found")
	}
	return s.staffRepo.ListPerformanceLogs(ctx, staffID, page, limit)
}

func (s *staffService) Performance(ctx context.Context, staffID uuid.UUID) (*repository.StaffPerformance, error) {
	if _, err := s.staffRepo.FindByID(ctx, staffID); err != nil {
		return nil, response.NotFound("Staff member not found")
	}
	return s.staffRepo.Performance(ctx, staffID)
}
