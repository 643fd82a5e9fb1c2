package service

import (
	"testing"
	"time"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/mailer"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestRecorder(db *gorm.DB) *ActivityRecorder {
	return NewActivityRecorder(repository.NewActivityRepository(db), nil)
}

func newTestMailer() *mailer.Mailer {
	// Empty SMTP credentials make the mailer log instead of dialing out.
	return mailer.New(config.SMTPConfig{})
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:      "test-secret",
		Expiry:      time.Hour,
		ResetExpiry: 10 * time.Minute,
	}
}

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func createTestAdmin(t *testing.T, db *gorm.DB, email string, superAdmin bool) *model.Admin {
	t.Helper()
	admin := &model.Admin{
		Name:         "Test Admin",
		Email:        email,
		Password:     hashPassword(t, "admin123"),
		Status:       model.StatusActive,
		IsSuperAdmin: superAdmin,
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Name:     "Test User",
		Email:    email,
		Phone:    "9876543210",
		Password: hashPassword(t, "user123"),
		Status:   model.StatusActive,
		UserType: model.UserTypeTenant,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestRole(t *testing.T, db *gorm.DB, name string) *model.Role {
	t.Helper()
	role := &model.Role{Name: name, IsActive: true}
	require.NoError(t, db.Create(role).Error)
	return role
}
