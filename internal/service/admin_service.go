package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/response"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateAdminRequest struct {
	Name          string      `json:"name" binding:"required"`
	Email         string      `json:"email" binding:"required"`
	Password      string      `json:"password" binding:"required"`
	RoleIDs       []uuid.UUID `json:"role_ids"`
	PermissionIDs []uuid.UUID `json:"permission_ids"`
	IsSuperAdmin  bool        `json:"is_super_admin"`
}

type UpdateAdminRequest struct {
	Name          *string      `json:"name"`
	Status        *string      `json:"status"`
	RoleIDs       *[]uuid.UUID `json:"role_ids"`       // nil = not sent, [] = clear all
	PermissionIDs *[]uuid.UUID `json:"permission_ids"` // nil = not sent, [] = clear all
	IsSuperAdmin  *bool        `json:"is_super_admin"`
}

type CreateRoleRequest struct {
	Name          string      `json:"name" binding:"required"`
	Description   string      `json:"description"`
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

type UpdateRoleRequest struct {
	Name          *string      `json:"name"`
	Description   *string      `json:"description"`
	IsActive      *bool        `json:"is_active"`
	PermissionIDs *[]uuid.UUID `json:"permission_ids"`
}

type CreatePermissionRequest struct {
	Name        string `json:"name" binding:"required"`
	Module      string `json:"module" binding:"required"`
	Action      string `json:"action" binding:"required"`
	Description string `json:"description"`
}

// --- Interface ---

type AdminService interface {
	CreateAdmin(ctx context.Context, req CreateAdminRequest) (*model.Admin, error)
	UpdateAdmin(ctx context.Context, id uuid.UUID, req UpdateAdminRequest) (*model.Admin, error)
	DeleteAdmin(ctx context.Context, id, actorID uuid.UUID) error
	GetAdmin(ctx context.Context, id uuid.UUID) (*model.Admin, error)
	ListAdmins(ctx context.Context, filter repository.AdminFilter, page, limit int) ([]model.Admin, int64, error)

	CreateRole(ctx context.Context, req CreateRoleRequest) (*model.Role, error)
	UpdateRole(ctx context.Context, id uuid.UUID, req UpdateRoleRequest) (*model.Role, error)
	DeleteRole(ctx context.Context, id uuid.UUID) error
	GetRole(ctx context.Context, id uuid.UUID) (*model.Role, error)
	ListRoles(ctx context.Context, search string, page, limit int) ([]model.Role, int64, error)

	CreatePermission(ctx context.Context, req CreatePermissionRequest) (*model.Permission, error)
	ListPermissions(ctx context.Context, module string) ([]model.Permission, error)
	GroupedPermissions(ctx context.Context) (map[string][]model.Permission, error)
}

type adminService struct {
	adminRepo repository.AdminRepository
	roleRepo  repository.RoleRepository
	txManager repository.TransactionManager
}

func NewAdminService(adminRepo repository.AdminRepository, roleRepo repository.RoleRepository, txManager repository.TransactionManager) AdminService {
	return &adminService{adminRepo: adminRepo, roleRepo: roleRepo, txManager: txManager}
}

var validModules = map[string]bool{
	model.ModuleUsers: true, model.ModuleProperties: true, model.ModuleDashboard: true,
	model.ModuleStaff: true, model.ModulePayments: true, model.ModuleSubscriptions: true,
	model.ModuleSettings: true, model.ModuleBlog: true,
}

var validActions = map[string]bool{
	model.ActionCreate: true, model.ActionRead: true, model.ActionUpdate: true,
	model.ActionDelete: true, model.ActionManage: true,
}

// --- Admins ---

func (s *adminService) CreateAdmin(ctx context.Context, req CreateAdminRequest) (*model.Admin, error) {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, response.BadRequest("Invalid email format")
	}
	if len(req.Password) < 6 {
		return nil, response.BadRequest("Password must be at least 6 characters")
	}
	if _, err := s.adminRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, response.Conflict("Email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &model.Admin{
		Name:         req.Name,
		Email:        req.Email,
		Password:     string(hashed),
		Status:       model.StatusActive,
		IsSuperAdmin: req.IsSuperAdmin,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.adminRepo.Create(txCtx, admin); err != nil {
			return err
		}
		if len(req.RoleIDs) > 0 {
			roles, err := s.findRoles(txCtx, req.RoleIDs)
			if err != nil {
				return err
			}
			if err := s.adminRepo.ReplaceRoles(txCtx, admin, roles); err != nil {
				return err
			}
		}
		if len(req.PermissionIDs) > 0 {
			perms, err := s.findPermissions(txCtx, req.PermissionIDs)
			if err != nil {
				return err
			}
			if err := s.adminRepo.ReplacePermissions(txCtx, admin, perms); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.adminRepo.FindByID(ctx, admin.ID)
}

func (s *adminService) findRoles(ctx context.Context, ids []uuid.UUID) ([]model.Role, error) {
	roles := make([]model.Role, 0, len(ids))
	for _, id := range ids {
		role, err := s.roleRepo.FindByID(ctx, id)
		if err != nil {
			return nil, response.BadRequest("Role not found: " + id.String())
		}
		roles = append(roles, *role)
	}
	return roles, nil
}

func (s *adminService) findPermissions(ctx context.Context, ids []uuid.UUID) ([]model.Permission, error) {
	perms, err := s.roleRepo.FindPermissionsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(perms) != len(ids) {
		return nil, response.BadRequest("One or more permissions do not exist")
	}
	return perms, nil
}

func (s *adminService) UpdateAdmin(ctx context.Context, id uuid.UUID, req UpdateAdminRequest) (*model.Admin, error) {
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Admin not found")
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, response.BadRequest("Name cannot be empty")
		}
		admin.Name = *req.Name
	}
	if req.Status != nil {
		if *req.Status != model.StatusActive && *req.Status != model.StatusInactive {
			return nil, response.BadRequest("Status must be active or inactive")
		}
		admin.Status = *req.Status
	}
	if req.IsSuperAdmin != nil {
		admin.IsSuperAdmin = *req.IsSuperAdmin
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.adminRepo.Update(txCtx, admin); err != nil {
			return err
		}
		if req.RoleIDs != nil {
			roles, err := s.findRoles(txCtx, *req.RoleIDs)
			if err != nil {
				return err
			}
			if err := s.adminRepo.ReplaceRoles(txCtx, admin, roles); err != nil {
				return err
			}
		}
		if req.PermissionIDs != nil {
			perms, err := s.findPermissions(txCtx, *req.PermissionIDs)
			if err != nil {
				return err
			}
			if err := s.adminRepo.ReplacePermissions(txCtx, admin, perms); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.adminRepo.FindByID(ctx, id)
}

func (s *adminService) DeleteAdmin(ctx context.Context, id, actorID uuid.UUID) error {
	if id == actorID {
		return response.BadRequest("You cannot delete your own account")
	}
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		return response.NotFound("Admin not found")
	}
	if admin.IsSuperAdmin {
		return response.Conflict("Cannot delete super admin")
	}
	return s.adminRepo.Delete(ctx, id)
}

func (s *adminService) GetAdmin(ctx context.Context, id uuid.UUID) (*model.Admin, error) {
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Admin not found")
	}
	return admin, nil
}

func (s *adminService) ListAdmins(ctx context.Context, filter repository.AdminFilter, page, limit int) ([]model.Admin, int64, error) {
	return s.adminRepo.List(ctx, filter, page, limit)
}

// --- Roles ---

func (s *adminService) CreateRole(ctx context.Context, req CreateRoleRequest) (*model.Role, error) {
	if _, err := s.roleRepo.FindByName(ctx, req.Name); err == nil {
		return nil, response.Conflict("Role name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := &model.Role{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.roleRepo.Create(txCtx, role); err != nil {
			return err
		}
		if len(req.PermissionIDs) > 0 {
			perms, err := s.findPermissions(txCtx, req.PermissionIDs)
			if err != nil {
				return err
			}
			return s.roleRepo.ReplacePermissions(txCtx, role, perms)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.roleRepo.FindByID(ctx, role.ID)
}

func (s *adminService) UpdateRole(ctx context.Context, id uuid.UUID, req UpdateRoleRequest) (*model.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Role not found")
	}

	if req.Name != nil && *req.Name != role.Name {
		if _, err := s.roleRepo.FindByName(ctx, *req.Name); err == nil {
			return nil, response.Conflict("Role name already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		role.Name = *req.Name
		role.Slug = model.Slugify(*req.Name)
	}
	if req.Description != nil {
		role.Description = *req.Description
	}
	if req.IsActive != nil {
		role.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.roleRepo.Update(txCtx, role); err != nil {
			return err
		}
		if req.PermissionIDs != nil {
			perms, err := s.findPermissions(txCtx, *req.PermissionIDs)
			if err != nil {
				return err
			}
			return s.roleRepo.ReplacePermissions(txCtx, role, perms)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.roleRepo.FindByID(ctx, id)
}

// DeleteRole refuses while any admin or staff member still carries the role.
func (s *adminService) DeleteRole(ctx context.Context, id uuid.UUID) error {
	if _, err := s.roleRepo.FindByID(ctx, id); err != nil {
		return response.NotFound("Role not found")
	}
	adminCount, err := s.roleRepo.CountAssignedAdmins(ctx, id)
	if err != nil {
		return err
	}
	if adminCount > 0 {
		return response.BadRequest(fmt.Sprintf("Cannot delete role: %d admin(s) are assigned to it", adminCount))
	}
	staffCount, err := s.roleRepo.CountAssignedStaff(ctx, id)
	if err != nil {
		return err
	}
	if staffCount > 0 {
		return response.BadRequest(fmt.Sprintf("Cannot delete role: %d staff member(s) are assigned to it", staffCount))
	}
	return s.roleRepo.Delete(ctx, id)
}

func (s *adminService) GetRole(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, response.NotFound("Role not found")
	}
	return role, nil
}

func (s *adminService) ListRoles(ctx context.Context, search string, page, limit int) ([]model.Role, int64, error) {
	return s.roleRepo.List(ctx, search, page, limit)
}

// --- Permissions ---

func (s *adminService) CreatePermission(ctx context.Context, req CreatePermissionRequest) (*model.Permission, error) {
	if !validModules[req.Module] {
		return nil, response.BadRequest("Unknown module: " + req.Module)
	}
	if !validActions[req.Action] {
		return nil, response.BadRequest("Unknown action: " + req.Action)
	}
	if _, err := s.roleRepo.FindPermissionByModuleAction(ctx, req.Module, req.Action); err == nil {
		return nil, response.Conflict("Permission already exists for this module and action")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	perm := &model.Permission{
		Name:        req.Name,
		Module:      req.Module,
		Action:      req.Action,
		Description: req.Description,
	}
	if err := s.roleRepo.CreatePermission(ctx, perm); err != nil {
		return nil, err
	}
	return perm, nil
}

// GroupedPermissions buckets every permission by its module, the shape the
// role editor consumes.
func (s *adminService) GroupedPermissions(ctx context.Context) (map[string][]model.Permission, error) {
	perms, err := s.roleRepo.ListPermissions(ctx, "")
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]model.Permission)
	for _, p := range perms {
		grouped[p.Module] = append(grouped[p.Module], p)
	}
	return grouped, nil
}

func (s *adminService) ListPermissions(ctx context.Context, module string) ([]model.Permission, error) {
	return s.roleRepo.ListPermissions(ctx, module)
}
