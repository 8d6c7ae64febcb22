package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"verdict/database"
	"verdict/middleware"
	"verdict/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func CreateProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		scope := middleware.GetScope(c)
		project, err := db.CreateProject(c.Request.Context(), scope.OrgID, &req)
		if err != nil {
			if errors.Is(err, database.ErrConflict) {
				c.JSON(http.StatusConflict, gin.H{
					"error": fmt.Sprintf("project with slug '%s' already exists", req.Slug),
				})
				return
			}
			log.Error().Err(err).Msg("failed to create project")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
			return
		}

		c.JSON(http.StatusCreated, project)
	}
}

func ListProjects(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params models.PaginationParams
		if err := c.ShouldBindQuery(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		scope := middleware.GetScope(c)
		projects, total, err := db.ListProjects(c.Request.Context(),
			scope.OrgID, params.PageSize, params.Offset())
		if err != nil {
			log.Error().Err(err).Msg("failed to list projects")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
			return
		}

		summaries := make([]models.ProjectSummary, 0, len(projects))
		for i := range projects {
			summaries = append(summaries, projects[i].Summary())
		}

		c.JSON(http.StatusOK, models.NewPaginatedResponse(summaries, total, params.Page, params.PageSize))
	}
}

func GetProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		scope := middleware.GetScope(c)
		project, err := db.GetProject(c.Request.Context(), projectID, scope.OrgID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
				return
			}
			log.Error().Err(err).Msg("failed to get project")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get project"})
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

func UpdateProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		var req models.UpdateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		scope := middleware.GetScope(c)
		project, err := db.UpdateProject(c.Request.Context(), projectID, scope.OrgID, &req)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
				return
			}
			log.Error().Err(err).Msg("failed to update project")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
			return
		}

		c.JSON(http.StatusOK, project)
	}
}

func DeleteProject(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		scope := middleware.GetScope(c)
		if err := db.DeleteProject(c.Request.Context(), projectID, scope.OrgID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
				return
			}
			log.Error().Err(err).Msg("failed to delete project")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
