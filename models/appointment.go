package models

import (
	"time"
)

// Appointment status values. Transitions are Scheduled -> In Progress ->
// Completed through the technician portal, but the admin override accepts
// any of the four from any prior state.
const (
	StatusScheduled  = "Scheduled"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"
)

// ValidStatus reports whether s is one of the four appointment statuses
func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment represents a booked repair visit. CustomerID and TechnicianID
// are reference fields without enforced foreign keys; deleting a customer
// leaves its appointments in place. Date and time are stored as the literal
// strings the customer picked, with no timezone conversion.
type Appointment struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CustomerID       uint      `gorm:"index" json:"customer_id"`
	TechnicianID     uint      `gorm:"index" json:"technician_id"`
	ServiceTag       string    `json:"service_tag"` // denormalized from the customer record
	IssueDescription string    `json:"issue_description"`
	ImageKey         *string   `json:"image_key,omitempty"` // S3 key of the analyzed defect photo
	AppointmentDate  string    `gorm:"not null" json:"appointment_date"` // YYYY-MM-DD
	AppointmentTime  string    `gorm:"not null" json:"appointment_time"` // HH:MM
	Status           string    `gorm:"not null;default:'Scheduled'" json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}
