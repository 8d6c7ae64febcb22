package handlers

import (
	"net/http"

	"verdict/config"

	"github.com/gin-gonic/gin"
)

// Root returns basic liveness info about the service.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    config.AppName,
		"version": config.AppVersion,
		"docs":    "/docs",
	})
}

// HealthCheck reports service health.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}
