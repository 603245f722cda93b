package models

import (
	"time"

	"gorm.io/gorm"
)

// Technician represents a field service technician with a single brand
// specialization. The rating is informational only; nothing in the
// scheduling flow updates it.
type Technician struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Email          string    `gorm:"not null" json:"email"`
	Phone          string    `json:"phone"`
	Specialization string    `gorm:"not null" json:"specialization"` // "Dell", "HP" or "Lenovo"
	Location       string    `json:"location"`
	Rating         float64   `json:"rating"`
	Available      bool      `json:"available"`
	PasswordHash   string    `gorm:"not null" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Technician model
func (Technician) TableName() string {
	return "technicians"
}

// AvailableTechniciansByBrand returns available technicians whose
// specialization exactly matches the brand, in insertion order.
// No match yields an empty slice, not an error.
func AvailableTechniciansByBrand(db *gorm.DB, brand string) ([]Technician, error) {
	var technicians []Technician
	err := db.Where("specialization = ? AND available = ?", brand, true).
		Order("id").Find(&technicians).Error
	if err != nil {
		return nil, err
	}
	return technicians, nil
}
