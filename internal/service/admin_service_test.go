package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAdminService(db *gorm.DB) AdminService {
	return NewAdminService(
		repository.NewAdminRepository(db),
		repository.NewRoleRepository(db),
		repository.NewTransactionManager(db),
	)
}

func TestCreateAdminWithRoles(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)
	role := createTestRole(t, db, "Property Manager")

	admin, err := svc.CreateAdmin(context.Background(), CreateAdminRequest{
		Name:     "Jordan",
		Email:    "jordan@example.com",
		Password: "secret1",
		RoleIDs:  []uuid.UUID{role.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusActive, admin.Status)
	require.Len(t, admin.Roles, 1)
	assert.Equal(t, role.ID, admin.Roles[0].ID)
	assert.NotEqual(t, "secret1", admin.Password)
}

func TestCreateAdminDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)
	createTestAdmin(t, db, "taken@example.com", false)

	_, err := svc.CreateAdmin(context.Background(), CreateAdminRequest{
		Name:     "Second",
		Email:    "taken@example.com",
		Password: "secret1",
	})

	require.Error(t, err)
	assert.Equal(t, "Email already exists", err.Error())
}

func TestCreateAdminRejectsShortPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)

	_, err := svc.CreateAdmin(context.Background(), CreateAdminRequest{
		Name:     "Short",
		Email:    "short@example.com",
		Password: "abc",
	})

	require.Error(t, err)
	var appErr *response.AppError
	assert.ErrorAs(t, err, &appErr)
}

func TestCreateAdminUnknownRole(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)

	_, err := svc.CreateAdmin(context.Background(), CreateAdminRequest{
		Name:     "Orphan",
		Email:    "orphan@example.com",
		Password: "secret1",
		RoleIDs:  []uuid.UUID{uuid.New()},
	})

	require.Error(t, err)

	// The transaction rolled back, so no half-created admin remains.
	var count int64
	require.NoError(t, db.Model(&model.Admin{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteAdminSelf(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)
	admin := createTestAdmin(t, db, "self@example.com", false)

	err := svc.DeleteAdmin(context.Background(), admin.ID, admin.ID)

	require.Error(t, err)
	assert.Equal(t, "You cannot delete your own account", err.Error())
}

func TestDeleteAdminSuperAdminProtected(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)
	super := createTestAdmin(t, db, "root@example.com", true)
	actor := createTestAdmin(t, db, "actor@example.com", false)

	err := svc.DeleteAdmin(context.Background(), super.ID, actor.ID)

	require.Error(t, err)
	assert.Equal(t, response.Conflict("Cannot delete super admin"), err)

	var count int64
	require.NoError(t, db.Model(&model.Admin{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestUpdateAdminReplaceRoles(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)
	first := createTestRole(t, db, "First")
	second := createTestRole(t, db, "Second")

	admin, err := svc.CreateAdmin(context.Background(), CreateAdminRequest{
		Name:     "Rotating",
		Email:    "rotating@example.com",
		Password: "secret1",
		RoleIDs:  []uuid.UUID{first.ID},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateAdmin(context.Background(), admin.ID, UpdateAdminRequest{
		RoleIDs: &[]uuid.UUID{second.ID},
	})
	require.NoError(t, err)
	require.Len(t, updated.Roles, 1)
	assert.Equal(t, second.ID, updated.Roles[0].ID)

	// An explicitly empty list clears everything.
	cleared, err := svc.UpdateAdmin(context.Background(), admin.ID, UpdateAdminRequest{
		RoleIDs: &[]uuid.UUID{},
	})
	require.NoError(t, err)
	assert.Empty(t, cleared.Roles)
}

func TestDeleteRoleInUse(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)
	role := createTestRole(t, db, "Busy Role")

	_, err := svc.CreateAdmin(context.Background(), CreateAdminRequest{
		Name:     "Holder",
		Email:    "holder@example.com",
		Password: "secret1",
		RoleIDs:  []uuid.UUID{role.ID},
	})
	require.NoError(t, err)

	err = svc.DeleteRole(context.Background(), role.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin(s) are assigned to it")
}

func TestDeleteRoleUnused(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)
	role := createTestRole(t, db, "Idle Role")

	require.NoError(t, svc.DeleteRole(context.Background(), role.ID))

	_, err := svc.GetRole(context.Background(), role.ID)
	assert.Error(t, err)
}

func TestCreateRoleDuplicateName(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)
	createTestRole(t, db, "Support Agent")

	_, err := svc.CreateRole(context.Background(), CreateRoleRequest{Name: "Support Agent"})

	require.Error(t, err)
	assert.Equal(t, "Role name already exists", err.Error())
}

func TestCreatePermissionValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(db)

	_, err := svc.CreatePermission(context.Background(), CreatePermissionRequest{
		Name:   "Bogus",
		Module: "warehouse",
		Action: model.ActionRead,
	})
	require.Error(t, err)

	perm, err := svc.CreatePermission(context.Background(), CreatePermissionRequest{
		Name:   "Read users",
		Module: model.ModuleUsers,
		Action: model.ActionRead,
	})
	require.NoError(t, err)
	assert.True(t, perm.Matches(model.ModuleUsers, model.ActionRead))

	_, err = svc.CreatePermission(context.Background(), CreatePermissionRequest{
		Name:   "Read users again",
		Module: model.ModuleUsers,
		Action: model.ActionRead,
	})
	require.Error(t, err)
	assert.Equal(t, "Permission already exists for this module and action", err.Error())
}
