package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	Update(ctx context.Context, role *model.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Role, error)
	FindByName(ctx context.Context, name string) (*model.Role, error)
	List(ctx context.Context, search string, page, limit int) ([]model.Role, int64, error)
	ReplacePermissions(ctx context.Context, role *model.Role, perms []model.Permission) error
	CountAssignedAdmins(ctx context.Context, roleID uuid.UUID) (int64, error)
	CountAssignedStaff(ctx context.Context, roleID uuid.UUID) (int64, error)

	CreatePermission(ctx context.Context, perm *model.Permission) error
	FindPermissionByID(ctx context.Context, id uuid.UUID) (*model.Permission, error)
	FindPermissionByModuleAction(ctx context.Context, module, action string) (*model.Permission, error)
	FindPermissionsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Permission, error)
	ListPermissions(ctx context.Context, module string) ([]model.Permission, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	return GetDB(ctx, r.db).Create(role).Error
}

func (r *roleRepository) Update(ctx context.Context, role *model.Role) error {
	return GetDB(ctx, r.db).Save(role).Error
}

func (r *roleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Role{}).Error
}

func (r *roleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).Preload("Permissions").
		First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).First(&role, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context, search string, page, limit int) ([]model.Role, int64, error) {
	var roles []model.Role
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if search != "" {
			q = q.Where("name ILIKE ?", "%"+search+"%")
		}
		return q
	}

	if err := apply(db.Model(&model.Role{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := apply(db.Model(&model.Role{})).
		Preload("Permissions").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&roles).Error; err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

func (r *roleRepository) ReplacePermissions(ctx context.Context, role *model.Role, perms []model.Permission) error {
	return GetDB(ctx, r.db).Model(role).Association("Permissions").Replace(perms)
}

func (r *roleRepository) CountAssignedAdmins(ctx context.Context, roleID uuid.UUID) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Table("admin_roles").
		Where("role_id = ?", roleID).Count(&total).Error
	return total, err
}

func (r *roleRepository) CountAssignedStaff(ctx context.Context, roleID uuid.UUID) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Staff{}).
		Where("role_id = ?", roleID).Count(&total).Error
	return total, err
}

func (r *roleRepository) CreatePermission(ctx context.Context, perm *model.Permission) error {
	return GetDB(ctx, r.db).Create(perm).Error
}

func (r *roleRepository) FindPermissionByID(ctx context.Context, id uuid.UUID) (*model.Permission, error) {
	var perm model.Permission
	if err := GetDB(ctx, r.db).First(&perm, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *roleRepository) FindPermissionByModuleAction(ctx context.Context, module, action string) (*model.Permission, error) {
	var perm model.Permission
	if err := GetDB(ctx, r.db).
		First(&perm, "module = ? AND action = ?", module, action).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *roleRepository) FindPermissionsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Permission, error) {
	var perms []model.Permission
	err := GetDB(ctx, r.db).Where("id IN ?", ids).Find(&perms).Error
	return perms, err
}

func (r *roleRepository) ListPermissions(ctx context.Context, module string) ([]model.Permission, error) {
	var perms []model.Permission
	q := GetDB(ctx, r.db).Model(&model.Permission{}).Order("module, action")
	if module != "" {
		q = q.Where("module = ?", module)
	}
	err := q.Find(&perms).Error
	return perms, err
}
