package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Customer represents a registered device owner identified by service tag
type Customer struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ServiceTag      string    `gorm:"uniqueIndex;not null" json:"service_tag"`
	Name            string    `gorm:"not null" json:"name"`
	Email           string    `gorm:"not null" json:"email"`
	Phone           string    `json:"phone"`
	Address         string    `json:"address"`
	LaptopModel     string    `json:"laptop_model"`
	PurchaseDate    string    `json:"purchase_date"`     // YYYY-MM-DD
	WarrantyEndDate string    `json:"warranty_end_date"` // YYYY-MM-DD
	WarrantyValid   bool      `json:"warranty_valid"`    // stored flag, never recomputed from the end date
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// FindCustomerByServiceTag looks up a customer by exact service tag.
// A missing tag is not an error: the customer return is nil.
func FindCustomerByServiceTag(db *gorm.DB, serviceTag string) (*Customer, error) {
	var customer Customer
	err := db.Where("service_tag = ?", serviceTag).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomerAddress overwrites the customer's address unconditionally
func UpdateCustomerAddress(db *gorm.DB, customerID uint, address string) error {
	return db.Model(&Customer{}).Where("id = ?", customerID).
		Update("address", address).Error
}

// NeedsAddressUpdate reports whether the stored address is too short to
// schedule an at-home service visit against
func (c *Customer) NeedsAddressUpdate() bool {
	return len(c.Address) < 5
}
