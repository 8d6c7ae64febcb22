package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"verdict/config"
	"verdict/database"
	"verdict/middleware"
	"verdict/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// listRunsParams are the query parameters for GET /runs.
type listRunsParams struct {
	ProjectID string `form:"project_id" binding:"required"`
	Page      int    `form:"page,default=1" binding:"min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"min=1,max=100"`
	Status    string `form:"status" binding:"omitempty,oneof=pending running passed failed error"`
}

// CreateRun ingests a complete run submission from the CLI. The payload is
// validated before any database work; the run header and every result
// commit in one transaction or not at all.
func CreateRun(db *database.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var data models.RunCreate
		if err := c.ShouldBindJSON(&data); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		if err := data.Validate(); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		scope := middleware.GetScope(c)
		ctx := c.Request.Context()

		project, err := db.VerifyProjectAccess(ctx, data.ProjectID, scope)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrForbidden):
				c.JSON(http.StatusForbidden, gin.H{"error": "API key does not have access to this project"})
			case errors.Is(err, database.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "project not found or access denied"})
			default:
				log.Error().Err(err).Msg("failed to verify project access")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}

		run, err := db.CreateRun(ctx, project.ID, &data)
		if err != nil {
			log.Error().Err(err).Str("project_id", project.ID.String()).Msg("failed to ingest run")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create run"})
			return
		}

		c.JSON(http.StatusCreated, models.RunCreateResponse{
			ID:       run.ID,
			Status:   run.Status,
			PassRate: run.PassRate,
			Summary: models.RunCreateSummary{
				Total:  run.TotalCases,
				Passed: run.PassedCases,
				Failed: run.FailedCases,
			},
			DashboardURL: fmt.Sprintf("%s/projects/%s/runs/%s", cfg.DashboardURL, project.Slug, run.ID),
		})
	}
}

// ListRuns returns paginated run summaries for a project, newest first,
// optionally filtered by status.
func ListRuns(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params listRunsParams
		if err := c.ShouldBindQuery(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		projectID, err := uuid.Parse(params.ProjectID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project ID"})
			return
		}

		scope := middleware.GetScope(c)
		ctx := c.Request.Context()

		if _, err := db.VerifyProjectAccess(ctx, projectID, scope); err != nil {
			switch {
			case errors.Is(err, database.ErrForbidden):
				c.JSON(http.StatusForbidden, gin.H{"error": "API key does not have access to this project"})
			case errors.Is(err, database.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "project not found or access denied"})
			default:
				log.Error().Err(err).Msg("failed to verify project access")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}

		offset := (params.Page - 1) * params.PageSize
		runs, total, err := db.ListRuns(ctx, projectID, scope.OrgID,
			params.PageSize, offset, params.Status)
		if err != nil {
			log.Error().Err(err).Msg("failed to list runs")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
			return
		}

		summaries := make([]models.RunSummary, 0, len(runs))
		for i := range runs {
			summaries = append(summaries, runs[i].Summary())
		}

		c.JSON(http.StatusOK, models.NewPaginatedResponse(summaries, total, params.Page, params.PageSize))
	}
}

// GetRun returns full run detail including every test result.
func GetRun(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		runID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run ID"})
			return
		}

		scope := middleware.GetScope(c)
		run, err := db.GetRun(c.Request.Context(), runID, scope.OrgID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
				return
			}
			log.Error().Err(err).Msg("failed to get run")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get run"})
			return
		}

		c.JSON(http.StatusOK, run)
	}
}
