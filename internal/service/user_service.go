package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"

	"backend/internal/mailer"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/response"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"user_type" binding:"required"`
	Address  string `json:"address"`
	Gender   string `json:"gender"`
}

type UpdateUserRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	UserType   *string `json:"user_type"`
	Address    *string `json:"address"`
	Gender     *string `json:"gender"`
	Avatar     *string `json:"avatar"`
	IsVerified *bool   `json:"is_verified"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type BlockUserRequest struct {
	Blocked bool `json:"blocked"`
}

type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required"`
}

// --- Interface ---

type UserService interface {
	Create(ctx context.Context, req CreateUserRequest, actorID *uuid.UUID) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*model.User, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.User, error)
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool, actorID *uuid.UUID) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	LoginHistory(ctx context.Context, id uuid.UUID) (map[string]interface{}, error)
	List(ctx context.Context, filter repository.UserFilter, page, limit int) ([]model.User, int64, error)
	Stats(ctx context.Context) (*repository.UserStats, error)
	ExportXLSX(ctx context.Context, filter repository.UserFilter) (*bytes.Buffer, error)
}

type userService struct {
	userRepo repository.UserRepository
	mailer   *mailer.Mailer
	activity *ActivityRecorder
}

func NewUserService(userRepo repository.UserRepository, m *mailer.Mailer, activity *ActivityRecorder) UserService {
	return &userService{userRepo: userRepo, mailer: m, activity: activity}
}

var validUserTypes = map[string]bool{
	model.UserTypeTenant: true, model.UserTypeLandlord: true, model.UserTypeBoth: true,
}

var validUserStatuses = map[string]bool{
	model.StatusActive: true, model.StatusInactive: true, model.StatusPending: true,
}

func (s *userService) Create(ctx context.Context, req CreateUserRequest, actorID *uuid.UUID) (*model.User, error) {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, response.BadRequest("Invalid email format")
	}
	if !validUserTypes[req.UserType] {
		return nil, response.BadRequest("user_type must be one of: tenant, landlord, both")
	}
	if len(req.Password) < 6 {
		return nil, response.BadRequest("Password must be at least 6 characters")
	}
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, response.Conflict("Email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Password:    string(hashed),
		Status:      model.StatusActive,
		UserType:    req.UserType,
		Address:     req.Address,
		Gender:      req.Gender,
		CreatedByID: actorID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.mailer.SendWelcome(user.Email, user.Name); err != nil {
		// Mail trouble must not fail account creation.
		log.Printf("welcome mail to %s failed: %v", user.Email, err)
	}
	s.activity.Record(ctx, actorID, model.ActivityUserRegistered,
		user.ID.String(), user.Name, "New user registered: "+user.Name)
	return user, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("User not found")
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, response.BadRequest("Name cannot be empty")
		}
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.UserType != nil {
		if !validUserTypes[*req.UserType] {
			return nil, response.BadRequest("user_type must be one of: tenant, landlord, both")
		}
		user.UserType = *req.UserType
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.IsVerified != nil {
		user.IsVerified = *req.IsVerified
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.User, error) {
	if !validUserStatuses[status] {
		return nil, response.BadRequest("Status must be one of: active, inactive, pending")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("User not found")
	}
	user.Status = status
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool, actorID *uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("User not found")
	}
	user.IsBlocked = blocked
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if blocked {
		s.activity.Record(ctx, actorID, model.ActivityUserBlocked,
			user.ID.String(), user.Name, "User blocked: "+user.Name)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return response.NotFound("User not found")
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *userService) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, response.BadRequest("No user IDs provided")
	}
	return s.userRepo.DeleteMany(ctx, ids)
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("User not found")
	}
	return user, nil
}

// LoginHistory reports the account's last sign-in. Individual login records
// are not retained, so the history list is always empty.
func (s *userService) LoginHistory(ctx context.Context, id uuid.UUID) (map[string]interface{}, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("User not found")
	}
	return map[string]interface{}{
		"user": map[string]interface{}{
			"name":       user.Name,
			"email":      user.Email,
			"last_login": user.LastLogin,
			"created_at": user.CreatedAt,
		},
		"login_history": []interface{}{},
	}, nil
}

func (s *userService) List(ctx context.Context, filter repository.UserFilter, page, limit int) ([]model.User, int64, error) {
	return s.userRepo.List(ctx, filter, page, limit)
}

func (s *userService) Stats(ctx context.Context) (*repository.UserStats, error) {
	return s.userRepo.Stats(ctx)
}

// ExportXLSX renders the filtered user list as a spreadsheet.
func (s *userService) ExportXLSX(ctx context.Context, filter repository.UserFilter) (*bytes.Buffer, error) {
	users, err := s.userRepo.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Users"
	f.SetSheetName("Sheet1", sheet)

	headers := []interface{}{
		"Name", "Email", "Phone", "Type", "Status", "Blocked", "Verified", "Registered",
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}

	for i, u := range users {
		row := []interface{}{
			u.Name, u.Email, u.Phone, u.UserType, u.Status,
			u.IsBlocked, u.IsVerified, u.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}
