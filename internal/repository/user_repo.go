package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserFilter narrows end-user listings.
type UserFilter struct {
	Search     string
	Status     string
	UserType   string
	IsBlocked  *bool
	IsVerified *bool
	From       *time.Time
	To         *time.Time
	SortBy     string
	SortOrder  string
}

// UserStats aggregates headline counts for the user module.
type UserStats struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Inactive  int64 `json:"inactive"`
	Blocked   int64 `json:"blocked"`
	Verified  int64 `json:"verified"`
	Tenants   int64 `json:"tenants"`
	Landlords int64 `json:"landlords"`
	NewToday  int64 `json:"new_today"`
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByResetToken(ctx context.Context, token string) (*model.User, error)
	List(ctx context.Context, filter UserFilter, page, limit int) ([]model.User, int64, error)
	ListAll(ctx context.Context, filter UserFilter) ([]model.User, error)
	Stats(ctx context.Context) (*UserStats, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return GetDB(ctx, r.db).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.User{}).Error
}

func (r *userRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	res := GetDB(ctx, r.db).Where("id IN ?", ids).Delete(&model.User{})
	return res.RowsAffected, res.Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).Preload("CreatedBy").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).
		First(&user, "reset_password_token = ?", token).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) applyFilter(q *gorm.DB, filter UserFilter) *gorm.DB {
	if filter.Search != "" {
		q = q.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.UserType != "" {
		q = q.Where("user_type = ?", filter.UserType)
	}
	if filter.IsBlocked != nil {
		q = q.Where("is_blocked = ?", *filter.IsBlocked)
	}
	if filter.IsVerified != nil {
		q = q.Where("is_verified = ?", *filter.IsVerified)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}
	return q
}

var userSortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
	"last_login": "last_login",
}

func (r *userRepository) List(ctx context.Context, filter UserFilter, page, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := GetDB(ctx, r.db)
	if err := r.applyFilter(db.Model(&model.User{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if col, ok := userSortColumns[filter.SortBy]; ok {
		dir := "DESC"
		if filter.SortOrder == "asc" {
			dir = "ASC"
		}
		order = col + " " + dir
	}

	if err := r.applyFilter(db.Model(&model.User{}), filter).
		Order(order).
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) ListAll(ctx context.Context, filter UserFilter) ([]model.User, error) {
	var users []model.User
	err := r.applyFilter(GetDB(ctx, r.db).Model(&model.User{}), filter).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) Stats(ctx context.Context) (*UserStats, error) {
	db := GetDB(ctx, r.db)
	stats := &UserStats{}

	counts := []struct {
		dest  *int64
		query func(*gorm.DB) *gorm.DB
	}{
		{&stats.Total, func(q *gorm.DB) *gorm.DB { return q }},
		{&stats.Active, func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", model.StatusActive) }},
		{&stats.Inactive, func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", model.StatusInactive) }},
		{&stats.Blocked, func(q *gorm.DB) *gorm.DB { return q.Where("is_blocked = ?", true) }},
		{&stats.Verified, func(q *gorm.DB) *gorm.DB { return q.Where("is_verified = ?", true) }},
		{&stats.Tenants, func(q *gorm.DB) *gorm.DB { return q.Where("user_type = ?", model.UserTypeTenant) }},
		{&stats.Landlords, func(q *gorm.DB) *gorm.DB { return q.Where("user_type = ?", model.UserTypeLandlord) }},
	}
	for _, c := range counts {
		if err := c.query(db.Model(&model.User{})).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	midnight := time.Now().Truncate(24 * time.Hour)
	if err := db.Model(&model.User{}).
		Where("created_at >= ?", midnight).
		Count(&stats.NewToday).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *userRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.User{}).
		Where("created_at >= ?", since).Count(&total).Error
	return total, err
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.User{}).Count(&total).Error
	return total, err
}
