package config

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/keerthysesha/Automated-Hardware-Support-Agent/models"
)

// SeedDatabase inserts the sample customers and technicians on first run.
// Tables that already contain rows are left untouched.
func SeedDatabase(db *gorm.DB) error {
	var customerCount int64
	if err := db.Model(&models.Customer{}).Count(&customerCount).Error; err != nil {
		return fmt.Errorf("failed to count customers: %w", err)
	}

	if customerCount == 0 {
		customers := []models.Customer{
			{
				ServiceTag:      "ABC123",
				Name:            "John Doe",
				Email:           "john.doe@example.com",
				Phone:           "555-1001",
				Address:         "123 Main St, New York",
				LaptopModel:     "Dell XPS 15",
				PurchaseDate:    "2023-01-15",
				WarrantyEndDate: "2025-12-31",
				WarrantyValid:   true,
			},
			{
				ServiceTag:      "XYZ789",
				Name:            "Jane Smith",
				Email:           "jane.smith@example.com",
				Phone:           "555-1002",
				Address:         "456 Oak Ave, Chicago",
				LaptopModel:     "HP Spectre x360",
				PurchaseDate:    "2022-06-30",
				WarrantyEndDate: "2023-06-30",
				WarrantyValid:   false,
			},
			{
				ServiceTag:      "DEF456",
				Name:            "Mike Johnson",
				Email:           "mike.johnson@example.com",
				Phone:           "555-1003",
				Address:         "789 Pine Rd, Los Angeles",
				LaptopModel:     "Lenovo ThinkPad X1",
				PurchaseDate:    "2024-02-20",
				WarrantyEndDate: "2026-02-20",
				WarrantyValid:   true,
			},
		}
		if err := db.Create(&customers).Error; err != nil {
			return fmt.Errorf("failed to seed customers: %w", err)
		}
		log.Printf("Seeded %d sample customers", len(customers))
	}

	var technicianCount int64
	if err := db.Model(&models.Technician{}).Count(&technicianCount).Error; err != nil {
		return fmt.Errorf("failed to count technicians: %w", err)
	}

	if technicianCount == 0 {
		// All sample technicians share the demo password
		hash, err := bcrypt.GenerateFromPassword([]byte("tech123"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash sample password: %w", err)
		}

		technicians := []models.Technician{
			{Name: "Alex Chen", Email: "alex.chen@example.com", Phone: "555-2001", Specialization: "Dell", Location: "Downtown", Rating: 4.8, Available: true, PasswordHash: string(hash)},
			{Name: "Sarah Williams", Email: "sarah.williams@example.com", Phone: "555-2002", Specialization: "HP", Location: "Midtown", Rating: 4.6, Available: true, PasswordHash: string(hash)},
			{Name: "David Kim", Email: "david.kim@example.com", Phone: "555-2003", Specialization: "Lenovo", Location: "Uptown", Rating: 4.9, Available: true, PasswordHash: string(hash)},
			{Name: "Priya Patel", Email: "priya.patel@example.com", Phone: "555-2004", Specialization: "Dell", Location: "Suburb", Rating: 4.7, Available: true, PasswordHash: string(hash)},
			{Name: "James Wilson", Email: "james.wilson@example.com", Phone: "555-2005", Specialization: "HP", Location: "City Center", Rating: 4.5, Available: true, PasswordHash: string(hash)},
		}
		if err := db.Create(&technicians).Error; err != nil {
			return fmt.Errorf("failed to seed technicians: %w", err)
		}
		log.Printf("Seeded %d sample technicians", len(technicians))
	}

	return nil
}
