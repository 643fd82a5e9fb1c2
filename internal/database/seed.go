package database

import (
	"fmt"
	"log"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed provisions the baseline dataset: the full permission matrix, default
// roles, the super admin account, the property taxonomy and the starter
// subscription plans. Every step is idempotent (keyed on unique columns), so
// it is safe to run at each startup.
func Seed(db *gorm.DB) error {
	perms, err := seedPermissions(db)
	if err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}
	if err := seedRoles(db, perms); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	if err := seedSuperAdmin(db); err != nil {
		return fmt.Errorf("seed super admin: %w", err)
	}
	if err := seedTaxonomy(db); err != nil {
		return fmt.Errorf("seed taxonomy: %w", err)
	}
	if err := seedPlans(db); err != nil {
		return fmt.Errorf("seed plans: %w", err)
	}
	return nil
}

func seedPermissions(db *gorm.DB) (map[string]model.Permission, error) {
	modules := []string{
		model.ModuleUsers, model.ModuleProperties, model.ModuleDashboard,
		model.ModuleStaff, model.ModulePayments, model.ModuleSubscriptions,
		model.ModuleSettings, model.ModuleBlog,
	}
	actions := []string{
		model.ActionCreate, model.ActionRead, model.ActionUpdate,
		model.ActionDelete, model.ActionManage,
	}

	byKey := make(map[string]model.Permission, len(modules)*len(actions))
	for _, m := range modules {
		for _, a := range actions {
			perm := model.Permission{
				Name:        m + "." + a,
				Module:      m,
				Action:      a,
				Description: "Allows " + a + " on the " + m + " module",
			}
			if err := db.Where("module = ? AND action = ?", m, a).
				FirstOrCreate(&perm).Error; err != nil {
				return nil, err
			}
			byKey[m+"."+a] = perm
		}
	}
	return byKey, nil
}

func seedRoles(db *gorm.DB, perms map[string]model.Permission) error {
	roles := []struct {
		name        string
		description string
		grants      []string
	}{
		{
			name:        "Property Manager",
			description: "Manages property listings and verification",
			grants: []string{
				"properties.create", "properties.read", "properties.update",
				"properties.delete", "dashboard.read",
			},
		},
		{
			name:        "Support Agent",
			description: "Handles end users and their subscriptions",
			grants: []string{
				"users.read", "users.update", "subscriptions.read",
				"subscriptions.update", "payments.read",
			},
		},
		{
			name:        "Finance Manager",
			description: "Oversees payments and refunds",
			grants: []string{
				"payments.read", "payments.update", "subscriptions.read",
				"dashboard.read",
			},
		},
	}

	for _, r := range roles {
		role := model.Role{Name: r.name, Description: r.description}
		if err := db.Where("name = ?", r.name).FirstOrCreate(&role).Error; err != nil {
			return err
		}
		attach := make([]model.Permission, 0, len(r.grants))
		for _, g := range r.grants {
			if p, ok := perms[g]; ok {
				attach = append(attach, p)
			}
		}
		if err := db.Model(&role).Association("Permissions").Replace(attach); err != nil {
			return err
		}
	}
	return nil
}

func seedSuperAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Admin{}).Where("email = ?", "admin@example.com").
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := model.Admin{
		Name:         "Super Admin",
		Email:        "admin@example.com",
		Password:     string(hashed),
		Status:       model.StatusActive,
		IsSuperAdmin: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Seeded super admin admin@example.com")
	return nil
}

func seedTaxonomy(db *gorm.DB) error {
	categories := []model.PropertyCategory{
		{Name: "Residential", Description: "Apartments, houses and villas", SortOrder: 1},
		{Name: "Commercial", Description: "Offices, shops and showrooms", SortOrder: 2},
		{Name: "Land", Description: "Plots and agricultural land", SortOrder: 3},
	}
	for i := range categories {
		if err := db.Where("name = ?", categories[i].Name).
			FirstOrCreate(&categories[i]).Error; err != nil {
			return err
		}
	}

	features := []string{
		"Modular Kitchen", "Power Backup", "Reserved Parking",
		"Private Garden", "Corner Property",
	}
	for _, name := range features {
		f := model.PropertyFeature{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&f).Error; err != nil {
			return err
		}
	}

	amenities := []model.PropertyAmenity{
		{Name: "CCTV Surveillance", Category: model.AmenitySafety},
		{Name: "Gated Security", Category: model.AmenitySafety},
		{Name: "Swimming Pool", Category: model.AmenityLifestyle},
		{Name: "Gymnasium", Category: model.AmenityLifestyle},
		{Name: "High-Speed Internet", Category: model.AmenityConnectivity},
		{Name: "Lift", Category: model.AmenityOther},
	}
	for i := range amenities {
		if err := db.Where("name = ?", amenities[i].Name).
			FirstOrCreate(&amenities[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedPlans(db *gorm.DB) error {
	plans := []model.SubscriptionPlan{
		{
			Name:         "Basic",
			Price:        decimal.NewFromInt(499),
			DurationDays: 30,
			VisitCredits: 5,
			Features:     model.FeatureList{"5 property visits", "Email support"},
			SortOrder:    1,
		},
		{
			Name:         "Standard",
			Price:        decimal.NewFromInt(999),
			DurationDays: 90,
			VisitCredits: 20,
			Features:     model.FeatureList{"20 property visits", "Priority support", "Verified listings"},
			IsPopular:    true,
			SortOrder:    2,
		},
		{
			Name:         "Premium",
			Price:        decimal.NewFromInt(2499),
			DurationDays: 365,
			VisitCredits: 100,
			Features:     model.FeatureList{"100 property visits", "Dedicated manager", "Featured placement"},
			SortOrder:    3,
		},
	}
	for i := range plans {
		if err := db.Where("name = ?", plans[i].Name).
			FirstOrCreate(&plans[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
