package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports that the API is up
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Pickup Line API is running",
	})
}
