package controllers

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/keerthysesha/Automated-Hardware-Support-Agent/config"
	"github.com/keerthysesha/Automated-Hardware-Support-Agent/models"
	"github.com/keerthysesha/Automated-Hardware-Support-Agent/services"
)

// AdminLoginRequest represents the admin dashboard login body
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles POST /api/v1/admin/login - checks the configured admin
// password and issues a bearer token
func AdminLogin(c *gin.Context) {
	cfg := config.GetConfig()
	if err := cfg.RequireAdmin(); err != nil {
		configMissing(c, err)
		return
	}

	var req AdminLoginRequest
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

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(cfg.AdminPassword)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Admin password is incorrect",
			},
		})
		return
	}

	token := services.GetAuthStore().Issue(services.RoleAdmin, 0)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token": token,
		},
	})
}

// ListCustomers handles GET /api/v1/admin/customers
func ListCustomers(c *gin.Context) {
	db := config.GetDB()
	var customers []models.Customer
	if err := db.Order("id").Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list customers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customers,
	})
}

// CreateCustomerRequest represents the request body for customer intake
type CreateCustomerRequest struct {
	ServiceTag      string `json:"service_tag" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	LaptopModel     string `json:"laptop_model"`
	PurchaseDate    string `json:"purchase_date"`
	WarrantyEndDate string `json:"warranty_end_date"`
	WarrantyValid   bool   `json:"warranty_valid"`
}

// CreateCustomer handles POST /api/v1/admin/customers. The service tag is
// the one enforced uniqueness in the schema; violating it is a 409.
func CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
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

	customer := models.Customer{
		ServiceTag:      req.ServiceTag,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		LaptopModel:     req.LaptopModel,
		PurchaseDate:    req.PurchaseDate,
		WarrantyEndDate: req.WarrantyEndDate,
		WarrantyValid:   req.WarrantyValid,
	}

	db := config.GetDB()
	if err := db.Create(&customer).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SERVICE_TAG_EXISTS",
					"message": "Service tag already exists",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create customer",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    customer,
	})
}

// DeleteCustomer handles DELETE /api/v1/admin/customers/:id - hard delete.
// Appointments referencing the customer are intentionally left in place.
func DeleteCustomer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Customer ID must be numeric",
			},
		})
		return
	}

	db := config.GetDB()
	if err := db.Delete(&models.Customer{}, uint(id)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete customer",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Customer deleted",
	})
}

// ListTechnicians handles GET /api/v1/admin/technicians
func ListTechnicians(c *gin.Context) {
	db := config.GetDB()
	var technicians []models.Technician
	if err := db.Order("id").Find(&technicians).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list technicians",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    technicians,
	})
}

// CreateTechnicianRequest represents the request body for adding a technician
type CreateTechnicianRequest struct {
	Name           string  `json:"name" binding:"required"`
	Email          string  `json:"email" binding:"required,email"`
	Phone          string  `json:"phone"`
	Specialization string  `json:"specialization" binding:"required,oneof=Dell HP Lenovo"`
	Location       string  `json:"location"`
	Rating         float64 `json:"rating" binding:"omitempty,gte=1,lte=5"`
	Available      bool    `json:"available"`
	Password       string  `json:"password" binding:"required,min=6"`
}

// CreateTechnician handles POST /api/v1/admin/technicians. The supplied
// password is stored as a bcrypt hash.
func CreateTechnician(c *gin.Context) {
	var req CreateTechnicianRequest
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

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Failed to hash password",
			},
		})
		return
	}

	technician := models.Technician{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Location:       req.Location,
		Rating:         req.Rating,
		Available:      req.Available,
		PasswordHash:   string(hash),
	}

	db := config.GetDB()
	if err := db.Create(&technician).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create technician",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    technician,
	})
}

// AdminAppointment is one row of the monitoring view, joined with the
// customer and technician names
type AdminAppointment struct {
	ID              uint   `json:"id"`
	CustomerName    string `json:"customer_name"`
	TechnicianName  string `json:"technician"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Status          string `json:"status"`
}

// ListAppointments handles GET /api/v1/admin/appointments - monitoring view
// of every appointment in date order
func ListAppointments(c *gin.Context) {
	db := config.GetDB()

	var appointments []AdminAppointment
	err := db.Table("appointments").
		Select(`appointments.id, customers.name AS customer_name,
			technicians.name AS technician_name,
			appointments.appointment_date, appointments.appointment_time, appointments.status`).
		Joins("JOIN customers ON appointments.customer_id = customers.id").
		Joins("JOIN technicians ON appointments.technician_id = technicians.id").
		Order("appointments.appointment_date").
		Scan(&appointments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list appointments",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    appointments,
	})
}

// UpdateStatusRequest represents the admin status-override body
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAppointmentStatus handles PUT /api/v1/admin/appointments/:id/status.
// The override accepts any of the four statuses from any prior state;
// Completed and Cancelled can be reopened.
func UpdateAppointmentStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Appointment ID must be numeric",
			},
		})
		return
	}

	var req UpdateStatusRequest
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

	if !models.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Status must be one of: Scheduled, In Progress, Completed, Cancelled",
			},
		})
		return
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
		return
	}

	if err := db.Model(&appointment).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update appointment status",
			},
		})
		return
	}

	appointment.Status = req.Status
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    appointment,
	})
}

// isUniqueViolation detects unique-constraint errors from both PostgreSQL
// and SQLite by message text
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}
