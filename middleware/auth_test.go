package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keerthysesha/Automated-Hardware-Support-Agent/services"
)

func setupAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	services.SetAuthStore(services.NewAuthStore())

	router := gin.New()
	router.GET("/tech", RequireTechnician(), func(c *gin.Context) {
		id, err := GetTechnicianID(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "technician_id": id})
	})
	router.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func TestRequireTechnician_MissingHeader(t *testing.T) {
	router := setupAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tech", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errObj := response["error"].(map[string]interface{})
	assert.Equal(t, "UNAUTHORIZED", errObj["code"])
}

func TestRequireTechnician_MalformedHeader(t *testing.T) {
	router := setupAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tech", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireTechnician_UnknownToken(t *testing.T) {
	router := setupAuthTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tech", nil)
	req.Header.Set("Authorization", "Bearer not-issued")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireTechnician_Success(t *testing.T) {
	router := setupAuthTestRouter()
	token := services.GetAuthStore().Issue(services.RoleTechnician, 7)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/tech", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(7), response["technician_id"])
}

func TestRequireAdmin_RejectsTechnicianToken(t *testing.T) {
	router := setupAuthTestRouter()
	token := services.GetAuthStore().Issue(services.RoleTechnician, 7)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	errObj := response["error"].(map[string]interface{})
	assert.Equal(t, "FORBIDDEN", errObj["code"])
}

func TestRequireAdmin_Success(t *testing.T) {
	router := setupAuthTestRouter()
	token := services.GetAuthStore().Issue(services.RoleAdmin, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetTechnicianID_MissingContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetTechnicianID(c)
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "MISSING_TECHNICIAN_ID", authErr.Code)
}
