package database

import (
	"gorm.io/gorm"

	"github.com/whatnewads/safeshift-sub006/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Notification{},
	)
}

// SeedData populates the default roles used for broadcast targeting.
func SeedData(db *gorm.DB) error {
	roles := []models.Role{
		{
			BaseModel:   models.BaseModel{ID: "admin"},
			Name:        "Administrator",
			Description: "Full system access",
			IsSystem:    true,
		},
		{
			BaseModel:   models.BaseModel{ID: "clinician"},
			Name:        "Clinician",
			Description: "Clinical staff access",
			IsSystem:    true,
		},
		{
			BaseModel:   models.BaseModel{ID: "pharmacist"},
			Name:        "Pharmacist",
			Description: "Pharmacy staff access",
			IsSystem:    true,
		},
	}

	for _, role := range roles {
		if err := db.Where(models.Role{BaseModel: models.BaseModel{ID: role.ID}}).Attrs(role).FirstOrCreate(&models.Role{}).Error; err != nil {
			return err
		}
	}

	return nil
}
