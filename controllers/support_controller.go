package controllers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/keerthysesha/Automated-Hardware-Support-Agent/config"
	"github.com/keerthysesha/Automated-Hardware-Support-Agent/models"
	"github.com/keerthysesha/Automated-Hardware-Support-Agent/services"
	"github.com/keerthysesha/Automated-Hardware-Support-Agent/utils"
)

// SessionTokenHeader identifies the customer's in-progress support workflow
const SessionTokenHeader = "X-Session-Token"

// schedulingWindowDays is how far ahead an appointment can be booked
const schedulingWindowDays = 30

// currentSession resolves the workflow session for the request. On failure
// it writes the error response and returns ok=false.
func currentSession(c *gin.Context) (services.WorkflowSession, bool) {
	token := c.GetHeader(SessionTokenHeader)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": fmt.Sprintf("%s header is required", SessionTokenHeader),
			},
		})
		return services.WorkflowSession{}, false
	}

	session, ok := services.GetSessionStore().Get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SESSION_NOT_FOUND",
				"message": "Session not found or expired. Start a new support session.",
			},
		})
		return services.WorkflowSession{}, false
	}

	return session, true
}

// configMissing writes the CONFIG_MISSING response for an absent credential
func configMissing(c *gin.Context, err error) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "CONFIG_MISSING",
			"message": err.Error(),
		},
	})
}

// CreateSession handles POST /api/v1/support/sessions - starts a workflow session
func CreateSession(c *gin.Context) {
	session := services.GetSessionStore().Create()

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"token": session.Token,
		},
	})
}

// AnalyzeImage handles POST /api/v1/support/analyze - runs defect analysis
// on an uploaded hardware photo and stores the result on the session
func AnalyzeImage(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	cfg := config.GetConfig()
	if err := cfg.RequireVision(); err != nil {
		configMissing(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "An image file is required",
			},
		})
		return
	}

	if err := utils.ValidateImageFile(fileHeader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Failed to read uploaded image",
			},
		})
		return
	}
	defer func() {
		_ = file.Close()
	}()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Failed to read uploaded image",
			},
		})
		return
	}

	contentType := utils.ContentTypeForExt(fileHeader.Filename)
	analysis, err := services.GetVisionService().AnalyzeDefects(c.Request.Context(), imageBytes, contentType)
	if err != nil {
		log.Printf("Defect analysis failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ANALYSIS_FAILED",
				"message": "Analysis unavailable. Please try again.",
			},
		})
		return
	}

	// Archive the photo so the technician can review it; losing the
	// archive must not block the support flow
	var imageKey string
	if s3Service := services.GetS3Service(); s3Service != nil {
		// A re-analysis supersedes the previous photo, so clean it up
		if session.ImageKey != "" {
			if err := s3Service.DeleteFile(session.ImageKey); err != nil {
				log.Printf("Failed to delete superseded defect photo %s: %v", session.ImageKey, err)
			}
		}
		imageKey, err = s3Service.UploadDefectImage(imageBytes, fileHeader.Filename, contentType)
		if err != nil {
			log.Printf("Failed to archive defect photo: %v", err)
			imageKey = ""
		}
	}

	session.DefectAnalysis = analysis
	session.ImageKey = imageKey
	services.GetSessionStore().Put(session)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"analysis":  analysis,
			"image_key": imageKey,
		},
	})
}

// VerifyServiceTagRequest represents the request body for tag verification
type VerifyServiceTagRequest struct {
	ServiceTag string `json:"service_tag" binding:"required"`
}

// VerifyServiceTag handles POST /api/v1/support/verify - looks up the
// customer behind a service tag and attaches it to the session
func VerifyServiceTag(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var req VerifyServiceTagRequest
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
	customer, err := models.FindCustomerByServiceTag(db, req.ServiceTag)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to look up service tag",
			},
		})
		return
	}
	if customer == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_TAG_NOT_FOUND",
				"message": "We couldn't find your service tag in our database. Please check the number and try again.",
			},
		})
		return
	}

	session.CustomerID = customer.ID
	session.AddressUpdated = !customer.NeedsAddressUpdate()
	services.GetSessionStore().Put(session)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"customer":             customer,
			"needs_address_update": customer.NeedsAddressUpdate(),
		},
	})
}

// verifiedCustomer loads the customer attached to the session. On failure it
// writes the error response and returns ok=false.
func verifiedCustomer(c *gin.Context, session services.WorkflowSession) (*models.Customer, bool) {
	if session.CustomerID == 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "WORKFLOW_STATE",
				"message": "Verify your service tag before this step",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var customer models.Customer
	if err := db.First(&customer, session.CustomerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CUSTOMER_NOT_FOUND",
				"message": "The verified customer record no longer exists",
			},
		})
		return nil, false
	}

	return &customer, true
}

// UpdateAddressRequest represents the request body for the address back-fill
type UpdateAddressRequest struct {
	Address string `json:"address" binding:"required"`
}

// UpdateAddress handles PUT /api/v1/support/address - back-fills the
// customer's address for at-home service scheduling
func UpdateAddress(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	customer, ok := verifiedCustomer(c, session)
	if !ok {
		return
	}

	var req UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Please enter a valid address",
			},
		})
		return
	}

	db := config.GetDB()
	if err := models.UpdateCustomerAddress(db, customer.ID, req.Address); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update address",
			},
		})
		return
	}

	session.AddressUpdated = true
	services.GetSessionStore().Put(session)

	customer.Address = req.Address
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// GetServiceOptions handles GET /api/v1/support/options - returns the
// warranty verdict plus either available technicians (active warranty) or
// renewal guidance (expired warranty)
func GetServiceOptions(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	customer, ok := verifiedCustomer(c, session)
	if !ok {
		return
	}

	brand := utils.BrandFromModel(customer.LaptopModel)
	data := gin.H{
		"warranty_valid":    customer.WarrantyValid,
		"warranty_end_date": customer.WarrantyEndDate,
		"brand":             brand,
	}

	if customer.WarrantyValid {
		technicians := []models.Technician{}
		if brand != "" {
			db := config.GetDB()
			var err error
			technicians, err = models.AvailableTechniciansByBrand(db, brand)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "DATABASE_ERROR",
						"message": "Failed to list technicians",
					},
				})
				return
			}
		}
		data["technicians"] = technicians
	} else {
		if info, found := utils.WarrantyRenewalInfo(brand); found {
			data["renewal"] = info
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// FindServiceCenters handles GET /api/v1/support/service-centers - searches
// for authorized service centers near the customer's location
func FindServiceCenters(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	customer, ok := verifiedCustomer(c, session)
	if !ok {
		return
	}

	location := c.Query("location")
	if location == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Please enter a valid location",
			},
		})
		return
	}

	cfg := config.GetConfig()
	if err := cfg.RequireSearch(); err != nil {
		configMissing(c, err)
		return
	}

	brand := utils.BrandFromModel(customer.LaptopModel)
	centers := []services.ServiceCenter{}
	if brand != "" {
		var err error
		centers, err = services.GetSearchService().FindServiceCenters(c.Request.Context(), brand, location)
		if err != nil {
			log.Printf("Service center search failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SEARCH_FAILED",
					"message": "Failed to fetch service centers. Please try again.",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"service_centers": centers,
		},
	})
}

// ScheduleAppointmentRequest represents the request body for booking a visit
type ScheduleAppointmentRequest struct {
	TechnicianID     uint   `json:"technician_id" binding:"required"`
	IssueDescription string `json:"issue_description"`
	Date             string `json:"date" binding:"required"` // YYYY-MM-DD
	Time             string `json:"time" binding:"required"` // HH:MM
}

// ScheduleAppointment handles POST /api/v1/support/appointments - books the
// repair visit and sends the confirmation email. The email is
// fire-and-forget: a relay failure is reported but the appointment stands.
func ScheduleAppointment(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	customer, ok := verifiedCustomer(c, session)
	if !ok {
		return
	}

	if !session.AddressUpdated {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "WORKFLOW_STATE",
				"message": "Update your address details before scheduling",
			},
		})
		return
	}

	var req ScheduleAppointmentRequest
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

	if msg := validateSchedule(req.Date, req.Time); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": msg,
			},
		})
		return
	}

	db := config.GetDB()
	var technician models.Technician
	if err := db.First(&technician, req.TechnicianID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TECHNICIAN_NOT_FOUND",
				"message": "The selected technician does not exist",
			},
		})
		return
	}

	issue := req.IssueDescription
	if issue == "" && session.DefectAnalysis != nil {
		issue = session.DefectAnalysis.DefectType
	}

	appointment := models.Appointment{
		CustomerID:       customer.ID,
		TechnicianID:     technician.ID,
		ServiceTag:       customer.ServiceTag,
		IssueDescription: issue,
		AppointmentDate:  req.Date,
		AppointmentTime:  req.Time,
		Status:           models.StatusScheduled,
	}
	if session.ImageKey != "" {
		appointment.ImageKey = &session.ImageKey
	}

	if err := db.Create(&appointment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create appointment",
			},
		})
		return
	}

	emailSent, emailWarning := sendConfirmationEmail(customer, &technician, &appointment)

	session.Appointment = &services.AppointmentSummary{
		ID:              appointment.ID,
		Date:            appointment.AppointmentDate,
		Time:            appointment.AppointmentTime,
		TechnicianName:  technician.Name,
		TechnicianPhone: technician.Phone,
	}
	services.GetSessionStore().Put(session)

	data := gin.H{
		"appointment": appointment,
		"email_sent":  emailSent,
	}
	if emailWarning != "" {
		data["warning"] = emailWarning
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}

// validateSchedule checks the literal date/time inputs against the booking
// window. Returns an empty string when valid.
func validateSchedule(date, timeOfDay string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil || parsed.Format("2006-01-02") != date {
		return "Date must be in YYYY-MM-DD format"
	}

	if _, err := time.Parse("15:04", timeOfDay); err != nil {
		return "Time must be in HH:MM format"
	}

	// YYYY-MM-DD strings order the same way the dates do
	today := time.Now().Format("2006-01-02")
	latest := time.Now().AddDate(0, 0, schedulingWindowDays).Format("2006-01-02")
	if date < today {
		return "Date cannot be in the past"
	}
	if date > latest {
		return fmt.Sprintf("Date must be within the next %d days", schedulingWindowDays)
	}

	return ""
}

// sendConfirmationEmail delivers the booking confirmation. Failures are
// logged and surfaced as email_sent=false, never as a request error. When
// delivery was skipped rather than attempted, the returned warning says why.
func sendConfirmationEmail(customer *models.Customer, technician *models.Technician, appointment *models.Appointment) (bool, string) {
	mailService := services.GetMailService()
	if mailService == nil {
		return false, "Confirmation email skipped: mail service not configured"
	}

	if err := config.GetConfig().RequireMail(); err != nil {
		log.Printf("Skipping confirmation email: %v", err)
		return false, fmt.Sprintf("Confirmation email skipped: %v", err)
	}

	date, _ := time.Parse("2006-01-02", appointment.AppointmentDate)
	timeOfDay, _ := time.Parse("15:04", appointment.AppointmentTime)

	body := fmt.Sprintf(`
<p>Your appointment has been scheduled successfully!</p>
<p><strong>Details:</strong></p>
<ul>
    <li>Date: %s</li>
    <li>Time: %s</li>
    <li>Technician: %s</li>
    <li>Contact: %s</li>
    <li>Address: %s</li>
</ul>
<p>Our technician will call you before the scheduled visit.</p>`,
		date.Format("January 2, 2006"),
		timeOfDay.Format("3:04 PM"),
		technician.Name,
		technician.Phone,
		customer.Address,
	)

	if err := mailService.Send(customer.Email, "Appointment Confirmation", body); err != nil {
		log.Printf("Failed to send confirmation email: %v", err)
		return false, ""
	}
	return true, ""
}

// ResetWorkflow handles POST /api/v1/support/reset - clears the session so
// the customer can schedule another appointment
func ResetWorkflow(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	// A photo that never made it onto a booking has no one left to view it
	if session.ImageKey != "" && session.Appointment == nil {
		if s3Service := services.GetS3Service(); s3Service != nil {
			if err := s3Service.DeleteFile(session.ImageKey); err != nil {
				log.Printf("Failed to delete abandoned defect photo %s: %v", session.ImageKey, err)
			}
		}
	}

	services.GetSessionStore().Reset(session.Token)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Support session reset",
	})
}
