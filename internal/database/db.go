package database

import (
	"log"

	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate runs auto-migration for every persisted entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Admin{},
		&model.User{},
		&model.Role{},
		&model.Permission{},
		&model.PropertyCategory{},
		&model.PropertyFeature{},
		&model.PropertyAmenity{},
		&model.Property{},
		&model.PropertyImage{},
		&model.PropertyDocument{},
		&model.Staff{},
		&model.Task{},
		&model.PerformanceLog{},
		&model.SubscriptionPlan{},
		&model.UserSubscription{},
		&model.Payment{},
		&model.ActivityLog{},
	)
}
