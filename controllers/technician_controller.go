package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/keerthysesha/Automated-Hardware-Support-Agent/config"
	"github.com/keerthysesha/Automated-Hardware-Support-Agent/middleware"
	"github.com/keerthysesha/Automated-Hardware-Support-Agent/models"
	"github.com/keerthysesha/Automated-Hardware-Support-Agent/services"
)

// TechnicianLoginRequest represents the technician portal login body
type TechnicianLoginRequest struct {
	TechnicianID uint   `json:"technician_id" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

// TechnicianLogin handles POST /api/v1/technicians/login - verifies the
// technician's credentials and issues a bearer token
func TechnicianLogin(c *gin.Context) {
	var req TechnicianLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var technician models.Technician
	err := db.First(&technician, req.TechnicianID).Error

	// Same response for unknown ID and wrong password
	if err != nil || bcrypt.CompareHashAndPassword([]byte(technician.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Technician ID or password is incorrect",
			},
		})
		return
	}

	token := services.GetAuthStore().Issue(services.RoleTechnician, technician.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token":      token,
			"technician": technician,
		},
	})
}

// TechnicianAppointment is one row of the technician's schedule, joined
// with the customer's contact details
type TechnicianAppointment struct {
	ID               uint    `json:"id"`
	CustomerName     string  `json:"customer_name"`
	CustomerPhone    string  `json:"customer_phone"`
	CustomerAddress  string  `json:"customer_address"`
	ServiceTag       string  `json:"service_tag"`
	IssueDescription string  `json:"issue_description"`
	ImageKey         *string `json:"image_key,omitempty"`
	ImageURL         string  `gorm:"-" json:"image_url,omitempty"`
	AppointmentDate  string  `json:"appointment_date"`
	AppointmentTime  string  `json:"appointment_time"`
	Status           string  `json:"status"`
}

// MyAppointments handles GET /api/v1/technicians/me/appointments - lists the
// logged-in technician's upcoming visits in date order
func MyAppointments(c *gin.Context) {
	technicianID, err := middleware.GetTechnicianID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract technician information",
			},
		})
		return
	}

	today := time.Now().Format("2006-01-02")
	db := config.GetDB()

	var appointments []TechnicianAppointment
	err = db.Table("appointments").
		Select(`appointments.id, customers.name AS customer_name,
			customers.phone AS customer_phone, customers.address AS customer_address,
			appointments.service_tag, appointments.issue_description, appointments.image_key,
			appointments.appointment_date, appointments.appointment_time, appointments.status`).
		Joins("JOIN customers ON appointments.customer_id = customers.id").
		Where("appointments.technician_id = ? AND appointments.appointment_date >= ?", technicianID, today).
		Order("appointments.appointment_date").
		Scan(&appointments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load appointments",
			},
		})
		return
	}

	// The bucket is private, so stored keys are translated into presigned
	// URLs the technician's browser can open
	if s3Service := services.GetS3Service(); s3Service != nil {
		for i := range appointments {
			if appointments[i].ImageKey == nil {
				continue
			}
			url, err := s3Service.GetPresignedURL(*appointments[i].ImageKey)
			if err != nil {
				log.Printf("Failed to presign defect photo %s: %v", *appointments[i].ImageKey, err)
				continue
			}
			appointments[i].ImageURL = url
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    appointments,
	})
}

// ownAppointment loads the appointment and checks it belongs to the
// logged-in technician. On failure it writes the error response.
func ownAppointment(c *gin.Context) (*models.Appointment, bool) {
	technicianID, err := middleware.GetTechnicianID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract technician information",
			},
		})
		return nil, false
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Appointment ID must be numeric",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var appointment models.Appointment
	if err := db.First(&appointment, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "APPOINTMENT_NOT_FOUND",
				"message": "Appointment not found",
			},
		})
		return nil, false
	}

	if appointment.TechnicianID != technicianID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "This appointment is assigned to another technician",
			},
		})
		return nil, false
	}

	return &appointment, true
}

// StartAppointment handles PUT /api/v1/technicians/appointments/:id/start -
// marks the visit as In Progress
func StartAppointment(c *gin.Context) {
	appointment, ok := ownAppointment(c)
	if !ok {
		return
	}

	db := config.GetDB()
	if err := db.Model(appointment).Update("status", models.StatusInProgress).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update appointment status",
			},
		})
		return
	}

	appointment.Status = models.StatusInProgress
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    appointment,
	})
}

// CompleteAppointment handles PUT /api/v1/technicians/appointments/:id/complete -
// marks the visit Completed and notifies the customer by email (non-fatal)
func CompleteAppointment(c *gin.Context) {
	appointment, ok := ownAppointment(c)
	if !ok {
		return
	}

	db := config.GetDB()
	if err := db.Model(appointment).Update("status", models.StatusCompleted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update appointment status",
			},
		})
		return
	}
	appointment.Status = models.StatusCompleted

	emailSent, emailWarning := sendCompletionEmail(db, appointment)

	data := gin.H{
		"appointment": appointment,
		"email_sent":  emailSent,
	}
	if emailWarning != "" {
		data["warning"] = emailWarning
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// sendCompletionEmail notifies the customer their repair is done. Failures
// are logged and reported as email_sent=false. When delivery was skipped
// rather than attempted, the returned warning says why.
func sendCompletionEmail(db *gorm.DB, appointment *models.Appointment) (bool, string) {
	mailService := services.GetMailService()
	if mailService == nil {
		return false, "Completion email skipped: mail service not configured"
	}

	if err := config.GetConfig().RequireMail(); err != nil {
		log.Printf("Skipping completion email: %v", err)
		return false, fmt.Sprintf("Completion email skipped: %v", err)
	}

	var customer models.Customer
	if err := db.First(&customer, appointment.CustomerID).Error; err != nil {
		log.Printf("Skipping completion email: customer %d not found", appointment.CustomerID)
		return false, fmt.Sprintf("Completion email skipped: customer %d not found", appointment.CustomerID)
	}

	var technician models.Technician
	technicianName := "our technician"
	if err := db.First(&technician, appointment.TechnicianID).Error; err == nil {
		technicianName = technician.Name
	}

	body := fmt.Sprintf(`
<p>Your service appointment has been completed!</p>
<p><strong>Details:</strong></p>
<ul>
    <li>Technician: %s</li>
    <li>Service Tag: %s</li>
    <li>Issue: %s</li>
</ul>
<p>Please contact us if you have any questions about your repair.</p>`,
		technicianName,
		appointment.ServiceTag,
		appointment.IssueDescription,
	)

	if err := mailService.Send(customer.Email, "Service Completed", body); err != nil {
		log.Printf("Failed to send completion email: %v", err)
		return false, ""
	}
	return true, ""
}
