package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/keerthysesha/Automated-Hardware-Support-Agent/config"
	"github.com/keerthysesha/Automated-Hardware-Support-Agent/controllers"
	"github.com/keerthysesha/Automated-Hardware-Support-Agent/middleware"
	"github.com/keerthysesha/Automated-Hardware-Support-Agent/models"
	"github.com/keerthysesha/Automated-Hardware-Support-Agent/services"
)

func main() {
	// Basic logging
	log.Println("Starting Hardware Support Agent API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(&models.Customer{}, &models.Technician{}, &models.Appointment{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Seed sample data on first run
	if err := config.SeedDatabase(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Initialize services. Collaborators with missing credentials stay
	// uninitialized; the handlers surface CONFIG_MISSING when used.
	services.InitSessionStore()
	services.InitAuthStore()
	services.InitSearchService(cfg.SerperAPIKey)

	if cfg.GeminiAPIKey != "" {
		if _, err := services.InitVisionService(cfg.GeminiAPIKey); err != nil {
			log.Fatalf("Failed to initialize vision service: %v", err)
		}
	} else {
		log.Println("GEMINI_API_KEY not set, defect analysis disabled")
	}

	if cfg.SMTPUser != "" {
		if _, err := services.InitMailService(cfg.SMTPServer, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword); err != nil {
			log.Fatalf("Failed to initialize mail service: %v", err)
		}
	} else {
		log.Println("SMTP_USER not set, email notifications disabled")
	}

	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitS3Service(); err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
	} else {
		log.Println("AWS_S3_BUCKET not set, defect photo archival disabled")
	}

	// Initialize Gin router
	router := setupRouter()

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all portal routes
func setupRouter() *gin.Engine {
	router := gin.Default()

	// Browser frontend talks to the API directly
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", controllers.SessionTokenHeader)
	router.Use(cors.New(corsConfig))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Operational endpoints
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Customer support workflow
		support := v1.Group("/support")
		{
			support.POST("/sessions", controllers.CreateSession)
			support.POST("/analyze", controllers.AnalyzeImage)
			support.POST("/verify", controllers.VerifyServiceTag)
			support.PUT("/address", controllers.UpdateAddress)
			support.GET("/options", controllers.GetServiceOptions)
			support.GET("/service-centers", controllers.FindServiceCenters)
			support.POST("/appointments", controllers.ScheduleAppointment)
			support.POST("/reset", controllers.ResetWorkflow)
		}

		// Technician portal
		technicians := v1.Group("/technicians")
		{
			technicians.POST("/login", controllers.TechnicianLogin)

			authed := technicians.Group("")
			authed.Use(middleware.RequireTechnician())
			{
				authed.POST("/logout", controllers.Logout)
				authed.GET("/me/appointments", controllers.MyAppointments)
				authed.PUT("/appointments/:id/start", controllers.StartAppointment)
				authed.PUT("/appointments/:id/complete", controllers.CompleteAppointment)
			}
		}

		// Admin dashboard
		admin := v1.Group("/admin")
		{
			admin.POST("/login", controllers.AdminLogin)

			authed := admin.Group("")
			authed.Use(middleware.RequireAdmin())
			{
				authed.POST("/logout", controllers.Logout)
				authed.GET("/customers", controllers.ListCustomers)
				authed.POST("/customers", controllers.CreateCustomer)
				authed.DELETE("/customers/:id", controllers.DeleteCustomer)
				authed.GET("/technicians", controllers.ListTechnicians)
				authed.POST("/technicians", controllers.CreateTechnician)
				authed.GET("/appointments", controllers.ListAppointments)
				authed.PUT("/appointments/:id/status", controllers.UpdateAppointmentStatus)
			}
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Hardware Support Agent API is running",
	})
}

// databaseStatus checks database connectivity and row counts
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var customers, technicians, appointments int64
	db.Model(&models.Customer{}).Count(&customers)
	db.Model(&models.Technician{}).Count(&technicians)
	db.Model(&models.Appointment{}).Count(&appointments)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"counts": gin.H{
			"customers":    customers,
			"technicians":  technicians,
			"appointments": appointments,
		},
	})
}
