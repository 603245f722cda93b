package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/keerthysesha/Automated-Hardware-Support-Agent/services"
)

// Logout handles POST /api/v1/technicians/logout and POST /api/v1/admin/logout -
// revokes the bearer token behind the current login session
func Logout(c *gin.Context) {
	if token := c.GetString("auth_token"); token != "" {
		services.GetAuthStore().Revoke(token)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}
