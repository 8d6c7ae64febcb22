package database

import (
	"context"
	"testing"
	"time"

	"verdict/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func seedOrg(t *testing.T, db *DB, slug string) *models.Organization {
	t.Helper()
	org, err := db.CreateOrganization(context.Background(), "Test Organization", slug, "pro")
	require.NoError(t, err)
	return org
}

func seedProject(t *testing.T, db *DB, orgID uuid.UUID, slug string) *models.Project {
	t.Helper()
	project, err := db.CreateProject(context.Background(), orgID, &models.CreateProjectRequest{
		Name: "Test Project",
		Slug: slug,
	})
	require.NoError(t, err)
	return project
}

func seedAPIKey(t *testing.T, db *DB, orgID uuid.UUID, projectID *uuid.UUID) (string, *models.APIKey) {
	t.Helper()
	key, plaintext, err := db.CreateAPIKey(context.Background(),
		orgID, projectID, "test key", "rg_", 32, nil)
	require.NoError(t, err)
	return plaintext, key
}

// makeRunPayload builds a valid submission with one suite of ten cases,
// nine passed and one failed.
func makeRunPayload(projectID uuid.UUID) *models.RunCreate {
	started := time.Now().Add(-time.Minute).UTC()
	finished := time.Now().UTC()
	ref := "refs/heads/main"
	thresholdsMet := true

	cases := make([]models.CaseResultCreate, 0, 10)
	for i := 0; i < 10; i++ {
		passed := i != 0
		score := 1.0
		if !passed {
			score = 0.2
		}
		cases = append(cases, models.CaseResultCreate{
			Name:      "case-" + string(rune('a'+i)),
			Input:     "What is the refund policy?",
			Output:    "Refunds are available within 30 days.",
			Passed:    passed,
			Score:     score,
			Evaluator: "contains",
			EvaluatorResult: models.EvaluatorResultCreate{
				Passed: passed,
				Score:  score,
			},
			LatencyMS: 120,
		})
	}

	return &models.RunCreate{
		ProjectID: projectID,
		Git: &models.GitInfo{
			SHA: "0123456789abcdef0123456789abcdef01234567",
			Ref: &ref,
		},
		ConfigHash: "abc123",
		StartedAt:  started,
		FinishedAt: finished,
		DurationMS: int(finished.Sub(started).Milliseconds()),
		Status:     models.RunStatusPassed,
		Total:      10,
		Passed:     9,
		Failed:     1,
		PassRate:   0.9,
		Suites: []models.SuiteResultCreate{
			{
				Name:     "smoke",
				Total:    10,
				Passed:   9,
				Failed:   1,
				PassRate: 0.9,
				Cases:    cases,
			},
		},
		Metrics: models.RunMetrics{
			AvgLatencyMS: 120,
			TotalTokens:  4200,
			TotalCostUSD: 0.12,
		},
		ThresholdsMet: &thresholdsMet,
	}
}
