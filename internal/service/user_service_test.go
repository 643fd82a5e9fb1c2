package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) UserService {
	return NewUserService(repository.NewUserRepository(db), newTestMailer(), newTestRecorder(db))
}

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	actor := createTestAdmin(t, db, "creator@example.com", false)

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "New Tenant",
		Email:    "tenant@example.com",
		Phone:    "9876543210",
		Password: "secret1",
		UserType: model.UserTypeTenant,
	}, &actor.ID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusActive, user.Status)
	require.NotNil(t, user.CreatedByID)
	assert.Equal(t, actor.ID, *user.CreatedByID)
	assert.NotEqual(t, "secret1", user.Password)

	// Registration lands in the activity log.
	var logs []model.ActivityLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, model.ActivityUserRegistered, logs[0].Kind)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	createTestUser(t, db, "dup@example.com")

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Clone",
		Email:    "dup@example.com",
		Phone:    "1234567890",
		Password: "secret1",
		UserType: model.UserTypeLandlord,
	}, nil)

	require.Error(t, err)
	assert.Equal(t, "Email already exists", err.Error())
}

func TestCreateUserInvalidType(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Weird",
		Email:    "weird@example.com",
		Phone:    "1234567890",
		Password: "secret1",
		UserType: "agent",
	}, nil)

	require.Error(t, err)
}

func TestSetBlocked(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	user := createTestUser(t, db, "target@example.com")
	actor := createTestAdmin(t, db, "moderator@example.com", false)

	blocked, err := svc.SetBlocked(context.Background(), user.ID, true, &actor.ID)
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked)

	unblocked, err := svc.SetBlocked(context.Background(), user.ID, false, &actor.ID)
	require.NoError(t, err)
	assert.False(t, unblocked.IsBlocked)
}

func TestBulkDelete(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	first := createTestUser(t, db, "one@example.com")
	second := createTestUser(t, db, "two@example.com")

	deleted, err := svc.BulkDelete(context.Background(), []uuid.UUID{first.ID, second.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUserStats(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	createTestUser(t, db, "a@example.com")
	blocked := createTestUser(t, db, "b@example.com")
	require.NoError(t, db.Model(blocked).Update("is_blocked", true).Error)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Blocked)
	assert.Equal(t, int64(2), stats.Tenants)
}

func TestExportXLSX(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	createTestUser(t, db, "export@example.com")

	buf, err := svc.ExportXLSX(context.Background(), repository.UserFilter{})
	require.NoError(t, err)
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Users")
	require.NoError(t, err)
	require.Len(t, rows, 2) // header plus one user
	assert.Contains(t, rows[1], "export@example.com")
}
