package integration

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/keerthysesha/Automated-Hardware-Support-Agent/config"
	"github.com/keerthysesha/Automated-Hardware-Support-Agent/controllers"
	"github.com/keerthysesha/Automated-Hardware-Support-Agent/models"
	"github.com/keerthysesha/Automated-Hardware-Support-Agent/services"
	"github.com/keerthysesha/Automated-Hardware-Support-Agent/tests/testutil"
)

// SupportIntegrationTestSuite exercises the customer workflow endpoints end
// to end against an in-memory database
type SupportIntegrationTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB
	mail   *services.MockMailService
	vision *services.MockVisionService
}

// SetupSuite runs once before all tests
func (suite *SupportIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	os.Setenv("GO_ENV", "test")
	os.Setenv("GEMINI_API_KEY", "test-gemini-key")
	os.Setenv("SERPER_API_KEY", "test-serper-key")
	os.Setenv("SMTP_SERVER", "smtp.test")
	os.Setenv("SMTP_USER", "support@test")
	os.Setenv("SMTP_PASSWORD", "secret")
	os.Setenv("PORT", "8080")

	_, err := config.Load()
	suite.NoError(err)
}

// SetupTest runs before each test
func (suite *SupportIntegrationTestSuite) SetupTest() {
	suite.db = testutil.SetupTestDB(suite.T())

	services.SetSessionStore(services.NewSessionStore())
	services.SetAuthStore(services.NewAuthStore())

	suite.vision = services.NewMockVisionService()
	suite.vision.SetAsMockForTesting()
	services.NewMockSearchService().SetAsMockForTesting()
	suite.mail = services.NewMockMailService()
	suite.mail.SetAsMockForTesting()
	services.NewMockS3Service().SetAsMockForTesting()

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1")
	{
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
	}
}

// TearDownTest runs after each test
func (suite *SupportIntegrationTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (suite *SupportIntegrationTestSuite) seedCustomerAndTechnician() (models.Customer, models.Technician) {
	customer := models.Customer{
		ServiceTag:      "ABC123",
		Name:            "John Doe",
		Email:           "john@example.com",
		Phone:           "555-1001",
		Address:         "123 Main St, New York",
		LaptopModel:     "Dell XPS 15",
		PurchaseDate:    "2023-01-15",
		WarrantyEndDate: "2025-12-31",
		WarrantyValid:   true,
	}
	suite.NoError(suite.db.Create(&customer).Error)

	technician := models.Technician{
		Name: "Alex Chen", Email: "alex@example.com", Phone: "555-2001",
		Specialization: "Dell", Location: "Downtown", Rating: 4.8,
		Available: true, PasswordHash: testutil.HashPassword(suite.T(), "tech123"),
	}
	suite.NoError(suite.db.Create(&technician).Error)

	return customer, technician
}

func (suite *SupportIntegrationTestSuite) request(method, path string, body interface{}, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		suite.NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(controllers.SessionTokenHeader, token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func (suite *SupportIntegrationTestSuite) uploadImage(token, filename string) (*httptest.ResponseRecorder, map[string]interface{}) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	suite.NoError(err)
	_, err = part.Write([]byte("fake image data"))
	suite.NoError(err)
	suite.NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/support/analyze", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(controllers.SessionTokenHeader, token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

// TestSupportWorkflow_FullHappyPath walks the complete customer journey:
// start a session, analyze a photo, verify the tag, review options and book
// a visit with a matching technician.
func (suite *SupportIntegrationTestSuite) TestSupportWorkflow_FullHappyPath() {
	_, technician := suite.seedCustomerAndTechnician()

	// Step 1: Start a session
	w, response := suite.request(http.MethodPost, "/api/v1/support/sessions", nil, "")
	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	token := response["data"].(map[string]interface{})["token"].(string)
	assert.NotEmpty(suite.T(), token)

	// Step 2: Upload a defect photo
	w, response = suite.uploadImage(token, "cracked_screen.jpg")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	analysis := response["data"].(map[string]interface{})["analysis"].(map[string]interface{})
	assert.Equal(suite.T(), true, analysis["defect_detected"])

	// Step 3: Verify the service tag
	w, response = suite.request(http.MethodPost, "/api/v1/support/verify",
		map[string]string{"service_tag": "ABC123"}, token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), false, response["data"].(map[string]interface{})["needs_address_update"])

	// Step 4: Warranty is active, so Dell technicians are offered
	w, response = suite.request(http.MethodGet, "/api/v1/support/options", nil, token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), true, data["warranty_valid"])
	assert.Equal(suite.T(), "Dell", data["brand"])
	technicians := data["technicians"].([]interface{})
	assert.Equal(suite.T(), 1, len(technicians))

	// Step 5: Book the visit
	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	w, response = suite.request(http.MethodPost, "/api/v1/support/appointments", map[string]interface{}{
		"technician_id": technician.ID,
		"date":          date,
		"time":          "10:00",
	}, token)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	data = response["data"].(map[string]interface{})
	assert.Equal(suite.T(), true, data["email_sent"])
	appointment := data["appointment"].(map[string]interface{})
	assert.NotNil(suite.T(), appointment["id"])
	assert.Equal(suite.T(), "Scheduled", appointment["status"])
	// Issue description defaults to the analyzed defect
	assert.Equal(suite.T(), "Cracked screen", appointment["issue_description"])

	// The confirmation email reached the customer
	sent := suite.mail.Sent()
	suite.Len(sent, 1)
	assert.Equal(suite.T(), "john@example.com", sent[0].To)
	assert.Equal(suite.T(), "Appointment Confirmation", sent[0].Subject)

	// Step 6: The appointment is persisted
	var stored models.Appointment
	suite.NoError(suite.db.First(&stored, uint(appointment["id"].(float64))).Error)
	assert.Equal(suite.T(), date, stored.AppointmentDate)
	assert.Equal(suite.T(), "10:00", stored.AppointmentTime)
	assert.Equal(suite.T(), technician.ID, stored.TechnicianID)
}

// TestSupportWorkflow_ExpiredWarranty checks the expired-warranty branch:
// renewal guidance plus a service center search instead of technicians.
func (suite *SupportIntegrationTestSuite) TestSupportWorkflow_ExpiredWarranty() {
	customer := models.Customer{
		ServiceTag: "XYZ789", Name: "Jane Smith", Email: "jane@example.com",
		Address: "456 Oak Ave, Chicago", LaptopModel: "HP Spectre x360",
		WarrantyEndDate: "2023-06-30", WarrantyValid: false,
	}
	suite.NoError(suite.db.Create(&customer).Error)

	_, response := suite.request(http.MethodPost, "/api/v1/support/sessions", nil, "")
	token := response["data"].(map[string]interface{})["token"].(string)

	w, _ := suite.request(http.MethodPost, "/api/v1/support/verify",
		map[string]string{"service_tag": "XYZ789"}, token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w, response = suite.request(http.MethodGet, "/api/v1/support/options", nil, token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), false, data["warranty_valid"])
	assert.Nil(suite.T(), data["technicians"])

	renewal := data["renewal"].(map[string]interface{})
	assert.NotEmpty(suite.T(), renewal["steps"])
	assert.NotEmpty(suite.T(), renewal["link"])

	// Service centers near the customer's city
	w, response = suite.request(http.MethodGet, "/api/v1/support/service-centers?location=Chennai", nil, token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	centers := response["data"].(map[string]interface{})["service_centers"].([]interface{})
	assert.Equal(suite.T(), 1, len(centers))
}

// TestSupportWorkflow_AddressBackfill covers the short-address branch: the
// customer must supply a full address before scheduling is allowed.
func (suite *SupportIntegrationTestSuite) TestSupportWorkflow_AddressBackfill() {
	customer, technician := suite.seedCustomerAndTechnician()
	suite.NoError(suite.db.Model(&customer).Update("address", "n/a").Error)

	_, response := suite.request(http.MethodPost, "/api/v1/support/sessions", nil, "")
	token := response["data"].(map[string]interface{})["token"].(string)

	w, response := suite.request(http.MethodPost, "/api/v1/support/verify",
		map[string]string{"service_tag": "ABC123"}, token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), true, response["data"].(map[string]interface{})["needs_address_update"])

	// Scheduling before the back-fill is rejected
	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	w, response = suite.request(http.MethodPost, "/api/v1/support/appointments", map[string]interface{}{
		"technician_id": technician.ID,
		"date":          date,
		"time":          "10:00",
	}, token)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Equal(suite.T(), "WORKFLOW_STATE", response["error"].(map[string]interface{})["code"])

	// Back-fill the address
	w, _ = suite.request(http.MethodPut, "/api/v1/support/address",
		map[string]string{"address": "789 Birch Ln, Seattle"}, token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// Scheduling now succeeds and the email carries the new address
	w, _ = suite.request(http.MethodPost, "/api/v1/support/appointments", map[string]interface{}{
		"technician_id": technician.ID,
		"date":          date,
		"time":          "10:00",
	}, token)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	sent := suite.mail.Sent()
	suite.Len(sent, 1)
	assert.Contains(suite.T(), sent[0].Body, "789 Birch Ln, Seattle")
}

// TestSupportWorkflow_ResetAllowsSecondBooking verifies reset clears the
// session so a second appointment can be booked on the same token.
func (suite *SupportIntegrationTestSuite) TestSupportWorkflow_ResetAllowsSecondBooking() {
	_, technician := suite.seedCustomerAndTechnician()

	_, response := suite.request(http.MethodPost, "/api/v1/support/sessions", nil, "")
	token := response["data"].(map[string]interface{})["token"].(string)

	suite.request(http.MethodPost, "/api/v1/support/verify",
		map[string]string{"service_tag": "ABC123"}, token)

	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	w, _ := suite.request(http.MethodPost, "/api/v1/support/appointments", map[string]interface{}{
		"technician_id": technician.ID,
		"date":          date,
		"time":          "10:00",
	}, token)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	// Reset clears the verification
	w, _ = suite.request(http.MethodPost, "/api/v1/support/reset", nil, token)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w, response = suite.request(http.MethodGet, "/api/v1/support/options", nil, token)
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
	assert.Equal(suite.T(), "WORKFLOW_STATE", response["error"].(map[string]interface{})["code"])

	// Verify again and book a second visit
	suite.request(http.MethodPost, "/api/v1/support/verify",
		map[string]string{"service_tag": "ABC123"}, token)
	w, _ = suite.request(http.MethodPost, "/api/v1/support/appointments", map[string]interface{}{
		"technician_id": technician.ID,
		"date":          date,
		"time":          "15:00",
	}, token)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var count int64
	suite.db.Model(&models.Appointment{}).Count(&count)
	assert.Equal(suite.T(), int64(2), count)
}

// TestSupportWorkflow_AnalysisFailureDoesNotBlockBooking verifies the photo
// analysis step is optional: a vision outage still leaves the rest of the
// workflow usable.
func (suite *SupportIntegrationTestSuite) TestSupportWorkflow_AnalysisFailureDoesNotBlockBooking() {
	_, technician := suite.seedCustomerAndTechnician()
	suite.vision.Err = assert.AnError

	_, response := suite.request(http.MethodPost, "/api/v1/support/sessions", nil, "")
	token := response["data"].(map[string]interface{})["token"].(string)

	w, _ := suite.uploadImage(token, "crack.jpg")
	assert.Equal(suite.T(), http.StatusBadGateway, w.Code)

	suite.request(http.MethodPost, "/api/v1/support/verify",
		map[string]string{"service_tag": "ABC123"}, token)

	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	w, response = suite.request(http.MethodPost, "/api/v1/support/appointments", map[string]interface{}{
		"technician_id":     technician.ID,
		"issue_description": "Screen flickers on boot",
		"date":              date,
		"time":              "10:00",
	}, token)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	appointment := response["data"].(map[string]interface{})["appointment"].(map[string]interface{})
	assert.Equal(suite.T(), "Screen flickers on boot", appointment["issue_description"])
}

// TestSupportIntegrationSuite runs the test suite
func TestSupportIntegrationSuite(t *testing.T) {
	suite.Run(t, new(SupportIntegrationTestSuite))
}
