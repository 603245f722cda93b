package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupModelTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&Customer{}, &Technician{}, &Appointment{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func TestFindCustomerByServiceTag(t *testing.T) {
	db := setupModelTestDB(t)

	seeded := Customer{
		ServiceTag:    "ABC123",
		Name:          "John Doe",
		Email:         "john@example.com",
		LaptopModel:   "Dell XPS 15",
		WarrantyValid: true,
	}
	require.NoError(t, db.Create(&seeded).Error)

	customer, err := FindCustomerByServiceTag(db, "ABC123")
	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, "John Doe", customer.Name)
	assert.True(t, customer.WarrantyValid)
}

func TestFindCustomerByServiceTag_NotFound(t *testing.T) {
	db := setupModelTestDB(t)

	// A missing tag is a nil customer, not an error
	customer, err := FindCustomerByServiceTag(db, "NOPE99")
	assert.NoError(t, err)
	assert.Nil(t, customer)
}

func TestDuplicateServiceTagRejected(t *testing.T) {
	db := setupModelTestDB(t)

	first := Customer{ServiceTag: "ABC123", Name: "First", Email: "first@example.com"}
	require.NoError(t, db.Create(&first).Error)

	second := Customer{ServiceTag: "ABC123", Name: "Second", Email: "second@example.com"}
	err := db.Create(&second).Error
	assert.Error(t, err, "second insert with the same service tag must fail")

	// Exactly one row remains for the tag
	var count int64
	db.Model(&Customer{}).Where("service_tag = ?", "ABC123").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpdateCustomerAddress(t *testing.T) {
	db := setupModelTestDB(t)

	customer := Customer{ServiceTag: "ABC123", Name: "John", Email: "john@example.com", Address: "old"}
	require.NoError(t, db.Create(&customer).Error)

	require.NoError(t, UpdateCustomerAddress(db, customer.ID, "123 Main St, New York"))

	var reloaded Customer
	require.NoError(t, db.First(&reloaded, customer.ID).Error)
	assert.Equal(t, "123 Main St, New York", reloaded.Address)
}

func TestNeedsAddressUpdate(t *testing.T) {
	assert.True(t, (&Customer{Address: ""}).NeedsAddressUpdate())
	assert.True(t, (&Customer{Address: "x"}).NeedsAddressUpdate())
	assert.False(t, (&Customer{Address: "123 Main St"}).NeedsAddressUpdate())
}

func TestDeleteCustomerKeepsAppointments(t *testing.T) {
	db := setupModelTestDB(t)

	customer := Customer{ServiceTag: "ABC123", Name: "John", Email: "john@example.com"}
	require.NoError(t, db.Create(&customer).Error)

	appointment := Appointment{
		CustomerID:      customer.ID,
		TechnicianID:    1,
		ServiceTag:      customer.ServiceTag,
		AppointmentDate: "2025-06-01",
		AppointmentTime: "10:00",
		Status:          StatusScheduled,
	}
	require.NoError(t, db.Create(&appointment).Error)

	// Hard delete, no cascade: the appointment keeps its orphaned reference
	require.NoError(t, db.Delete(&Customer{}, customer.ID).Error)

	var customerCount int64
	db.Model(&Customer{}).Count(&customerCount)
	assert.Equal(t, int64(0), customerCount)

	var remaining Appointment
	require.NoError(t, db.First(&remaining, appointment.ID).Error)
	assert.Equal(t, customer.ID, remaining.CustomerID)
}
