package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"backend/internal/config"
	"backend/internal/mailer"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/response"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	UserType  string      `json:"user_type"`
	Account   interface{} `json:"account"`
}

type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Avatar  *string `json:"avatar"`
	Address *string `json:"address"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --- Interface ---

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	GetAdminProfile(ctx context.Context, adminID uuid.UUID) (*model.Admin, error)
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateAdminProfile(ctx context.Context, adminID uuid.UUID, req UpdateProfileRequest) (*model.Admin, error)
	UpdateUserProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*model.User, error)
	ChangeAdminPassword(ctx context.Context, adminID uuid.UUID, req ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest, resetBaseURL string) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type authService struct {
	adminRepo repository.AdminRepository
	userRepo  repository.UserRepository
	mailer    *mailer.Mailer
	jwtCfg    config.JWTConfig
}

func NewAuthService(adminRepo repository.AdminRepository, userRepo repository.UserRepository, m *mailer.Mailer, jwtCfg config.JWTConfig) AuthService {
	return &authService{adminRepo: adminRepo, userRepo: userRepo, mailer: m, jwtCfg: jwtCfg}
}

func (s *authService) issueToken(id uuid.UUID, principalType string) (string, error) {
	claims := jwt.MapClaims{
		"id":   id.String(),
		"type": principalType,
		"exp":  time.Now().Add(s.jwtCfg.Expiry).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtCfg.Secret))
}

// Login probes the admins table first, then end users. A single endpoint
// serves both account kinds.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, response.BadRequest("Invalid email format")
	}

	now := time.Now()

	admin, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)) != nil {
			return nil, response.Unauthorized("Invalid credentials")
		}
		if admin.Status != model.StatusActive {
			return nil, response.Unauthorized("Account is deactivated")
		}
		token, err := s.issueToken(admin.ID, "admin")
		if err != nil {
			return nil, fmt.Errorf("sign token: %w", err)
		}
		admin.LastLogin = &now
		if err := s.adminRepo.Update(ctx, admin); err != nil {
			return nil, err
		}
		return &LoginResponse{Token: token, TokenType: "Bearer", UserType: "admin", Account: admin}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.Unauthorized("Invalid credentials")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, response.Unauthorized("Invalid credentials")
	}
	if user.IsBlocked {
		return nil, response.Unauthorized("Account is blocked")
	}
	if user.Status != model.StatusActive {
		return nil, response.Unauthorized("Account is deactivated")
	}
	token, err := s.issueToken(user.ID, "user")
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, TokenType: "Bearer", UserType: user.UserType, Account: user}, nil
}

func (s *authService) GetAdminProfile(ctx context.Context, adminID uuid.UUID) (*model.Admin, error) {
	return s.adminRepo.FindByID(ctx, adminID)
}

func (s *authService) GetUserProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *authService) UpdateAdminProfile(ctx context.Context, adminID uuid.UUID, req UpdateProfileRequest) (*model.Admin, error) {
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return nil, response.NotFound("Admin not found")
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, response.BadRequest("Name cannot be empty")
		}
		admin.Name = *req.Name
	}
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *authService) UpdateUserProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
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
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) ChangeAdminPassword(ctx context.Context, adminID uuid.UUID, req ChangePasswordRequest) error {
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return response.NotFound("Admin not found")
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.CurrentPassword)) != nil {
		return response.Unauthorized("Current password is incorrect")
	}
	if len(req.NewPassword) < 6 {
		return response.BadRequest("Password must be at least 6 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin.Password = string(hashed)
	return s.adminRepo.Update(ctx, admin)
}

func generateResetToken() (raw, hashed string, err error) {
	buf := make([]byte, 20)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	sum := sha256.Sum256([]byte(raw))
	return raw, hex.EncodeToString(sum[:]), nil
}

// ForgotPassword stores a hashed reset token on the account and mails the raw
// one. The response is the same whether or not the email exists.
func (s *authService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest, resetBaseURL string) error {
	admin, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	raw, hashed, err := generateResetToken()
	if err != nil {
		return err
	}
	expire := time.Now().Add(s.jwtCfg.ResetExpiry)
	admin.ResetPasswordToken = hashed
	admin.ResetPasswordExpire = &expire
	if err := s.adminRepo.Update(ctx, admin); err != nil {
		return err
	}

	resetURL := resetBaseURL + "/reset-password/" + raw
	return s.mailer.SendPasswordReset(admin.Email, admin.Name, resetURL)
}

func (s *authService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if len(req.Password) < 6 {
		return response.BadRequest("Password must be at least 6 characters")
	}
	sum := sha256.Sum256([]byte(req.Token))
	hashed := hex.EncodeToString(sum[:])

	admin, err := s.adminRepo.FindByResetToken(ctx, hashed)
	if err != nil {
		return response.BadRequest("Invalid or expired reset token")
	}
	if admin.ResetPasswordExpire == nil || admin.ResetPasswordExpire.Before(time.Now()) {
		return response.BadRequest("Invalid or expired reset token")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin.Password = string(newHash)
	admin.ResetPasswordToken = ""
	admin.ResetPasswordExpire = nil
	return s.adminRepo.Update(ctx, admin)
}
