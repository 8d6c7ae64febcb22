package handlers

import (
	"verdict/config"
	"verdict/database"
	"verdict/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// NewRouter builds the gin engine with all middleware and routes. Everything
// under /api/v1 requires an API key; the root and health endpoints do not.
func NewRouter(db *database.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.APIKeyHeader},
		AllowCredentials: true,
	}))

	r.GET("/", Root)
	r.GET("/health", HealthCheck)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.APIKeyAuth(db))
	{
		v1.POST("/projects", CreateProject(db))
		v1.GET("/projects", ListProjects(db))
		v1.GET("/projects/:id", GetProject(db))
		v1.PATCH("/projects/:id", UpdateProject(db))
		v1.DELETE("/projects/:id", DeleteProject(db))

		v1.POST("/runs", CreateRun(db, cfg))
		v1.GET("/runs", ListRuns(db))
		v1.GET("/runs/:id", GetRun(db))
	}

	return r
}
