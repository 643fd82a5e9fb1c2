package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminFilter narrows admin listings.
type AdminFilter struct {
	Search string
	Status string
	RoleID *uuid.UUID
}

type AdminRepository interface {
	Create(ctx context.Context, admin *model.Admin) error
	Update(ctx context.Context, admin *model.Admin) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Admin, error)
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	FindByResetToken(ctx context.Context, token string) (*model.Admin, error)
	List(ctx context.Context, filter AdminFilter, page, limit int) ([]model.Admin, int64, error)
	ReplaceRoles(ctx context.Context, admin *model.Admin, roles []model.Role) error
	ReplacePermissions(ctx context.Context, admin *model.Admin, perms []model.Permission) error
	Count(ctx context.Context) (int64, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *model.Admin) error {
	return GetDB(ctx, r.db).Create(admin).Error
}

func (r *adminRepository) Update(ctx context.Context, admin *model.Admin) error {
	return GetDB(ctx, r.db).Save(admin).Error
}

func (r *adminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Admin{}).Error
}

func (r *adminRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Admin, error) {
	var admin model.Admin
	if err := GetDB(ctx, r.db).
		Preload("Roles.Permissions").
		Preload("Permissions").
		First(&admin, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	if err := GetDB(ctx, r.db).
		Preload("Roles.Permissions").
		Preload("Permissions").
		First(&admin, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) FindByResetToken(ctx context.Context, token string) (*model.Admin, error) {
	var admin model.Admin
	if err := GetDB(ctx, r.db).
		First(&admin, "reset_password_token = ?", token).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) List(ctx context.Context, filter AdminFilter, page, limit int) ([]model.Admin, int64, error) {
	var admins []model.Admin
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if filter.Search != "" {
			q = q.Where("name ILIKE ? OR email ILIKE ?",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.RoleID != nil {
			q = q.Where("id IN (?)",
				db.Table("admin_roles").Select("admin_id").Where("role_id = ?", *filter.RoleID))
		}
		return q
	}

	if err := apply(db.Model(&model.Admin{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := apply(db.Model(&model.Admin{})).
		Preload("Roles").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&admins).Error; err != nil {
		return nil, 0, err
	}
	return admins, total, nil
}

func (r *adminRepository) ReplaceRoles(ctx context.Context, admin *model.Admin, roles []model.Role) error {
	return GetDB(ctx, r.db).Model(admin).Association("Roles").Replace(roles)
}

func (r *adminRepository) ReplacePermissions(ctx context.Context, admin *model.Admin, perms []model.Permission) error {
	return GetDB(ctx, r.db).Model(admin).Association("Permissions").Replace(perms)
}

func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Admin{}).Count(&total).Error
	return total, err
}
