package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	Recent(ctx context.Context, limit int) ([]model.ActivityLog, error)
	ListByKind(ctx context.Context, kind string, page, limit int) ([]model.ActivityLog, int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *activityRepository) Recent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	err := GetDB(ctx, r.db).
		Preload("Admin").
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *activityRepository) ListByKind(ctx context.Context, kind string, page, limit int) ([]model.ActivityLog, int64, error) {
	var entries []model.ActivityLog
	var total int64

	db := GetDB(ctx, r.db)
	q := db.Model(&model.ActivityLog{})
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	fetch := db.Preload("Admin").Order("created_at DESC")
	if kind != "" {
		fetch = fetch.Where("kind = ?", kind)
	}
	if err := fetch.Offset((page - 1) * limit).Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
