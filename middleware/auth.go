package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/keerthysesha/Automated-Hardware-Support-Agent/services"
)

// bearerToken extracts the bearer token from the Authorization header
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// RequireRole is a middleware that resolves the bearer token against the
// auth store and rejects requests that lack the expected role
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing or malformed Authorization header",
				},
			})
			c.Abort()
			return
		}

		session, ok := services.GetAuthStore().Resolve(token)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid or expired session token",
				},
			})
			c.Abort()
			return
		}

		if session.Role != role {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient permissions to access this resource",
				},
			})
			c.Abort()
			return
		}

		c.Set("auth_role", session.Role)
		c.Set("auth_token", session.Token)
		c.Set("technician_id", session.TechnicianID)
		c.Next()
	}
}

// RequireTechnician guards the technician portal routes
func RequireTechnician() gin.HandlerFunc {
	return RequireRole(services.RoleTechnician)
}

// RequireAdmin guards the admin dashboard routes
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(services.RoleAdmin)
}

// GetTechnicianID extracts the logged-in technician's ID from the Gin context
func GetTechnicianID(c *gin.Context) (uint, error) {
	value, exists := c.Get("technician_id")
	if !exists {
		return 0, &AuthError{Code: "MISSING_TECHNICIAN_ID", Message: "Technician ID not found in context"}
	}

	id, ok := value.(uint)
	if !ok || id == 0 {
		return 0, &AuthError{Code: "INVALID_TECHNICIAN_ID", Message: "Technician ID is not set"}
	}

	return id, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
