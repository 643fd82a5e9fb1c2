package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) AuthService {
	return NewAuthService(
		repository.NewAdminRepository(db),
		repository.NewUserRepository(db),
		newTestMailer(),
		testJWTConfig(),
	)
}

func TestLoginAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	admin := createTestAdmin(t, db, "login@example.com", false)

	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    "login@example.com",
		Password: "admin123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "admin", result.UserType)

	var fresh model.Admin
	require.NoError(t, db.First(&fresh, "id = ?", admin.ID).Error)
	assert.NotNil(t, fresh.LastLogin)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	createTestAdmin(t, db, "login@example.com", false)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "login@example.com",
		Password: "wrong",
	})

	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestLoginDeactivatedAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	admin := createTestAdmin(t, db, "inactive@example.com", false)
	require.NoError(t, db.Model(admin).Update("status", model.StatusInactive).Error)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "inactive@example.com",
		Password: "admin123",
	})

	require.Error(t, err)
	assert.Equal(t, "Account is deactivated", err.Error())
}

func TestLoginEndUser(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	createTestUser(t, db, "tenant@example.com")

	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    "tenant@example.com",
		Password: "user123",
	})
	require.NoError(t, err)

	assert.Equal(t, model.UserTypeTenant, result.UserType)
}

func TestLoginBlockedUser(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	user := createTestUser(t, db, "blocked@example.com")
	require.NoError(t, db.Model(user).Update("is_blocked", true).Error)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "blocked@example.com",
		Password: "user123",
	})

	require.Error(t, err)
	assert.Equal(t, "Account is blocked", err.Error())
}

func TestLoginUnknownEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestChangeAdminPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	admin := createTestAdmin(t, db, "rotate@example.com", false)

	err := svc.ChangeAdminPassword(context.Background(), admin.ID, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newsecret",
	})
	require.Error(t, err)

	err = svc.ChangeAdminPassword(context.Background(), admin.ID, ChangePasswordRequest{
		CurrentPassword: "admin123",
		NewPassword:     "newsecret",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "rotate@example.com",
		Password: "newsecret",
	})
	assert.NoError(t, err)
}

func TestForgotAndResetPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)
	admin := createTestAdmin(t, db, "forgot@example.com", false)

	require.NoError(t, svc.ForgotPassword(context.Background(),
		ForgotPasswordRequest{Email: "forgot@example.com"}, "http://localhost:5173"))

	var fresh model.Admin
	require.NoError(t, db.First(&fresh, "id = ?", admin.ID).Error)
	assert.NotEmpty(t, fresh.ResetPasswordToken)
	require.NotNil(t, fresh.ResetPasswordExpire)
	assert.True(t, fresh.ResetPasswordExpire.After(time.Now()))

	// The stored token is hashed; a made-up raw token must not match it.
	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Token:    "not-the-token",
		Password: "brandnew",
	})
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired reset token", err.Error())
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	err := svc.ForgotPassword(context.Background(),
		ForgotPasswordRequest{Email: "nobody@example.com"}, "http://localhost:5173")

	assert.NoError(t, err)
}
