package database

import (
	"context"
	"fmt"

	"verdict/models"

	"github.com/google/uuid"
)

// CreateSuite registers a named suite for a project. The configuration blob
// is stored opaque alongside the hash computed by the client.
func (db *DB) CreateSuite(ctx context.Context, projectID uuid.UUID, name string, configYAML, configHash *string) (*models.Suite, error) {
	query := `
		INSERT INTO suites (project_id, name, config_yaml, config_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, project_id, name, description, config_yaml, config_hash,
			is_default, created_at, updated_at
	`

	var suite models.Suite
	err := db.Pool.QueryRow(ctx, query, projectID, name, configYAML, configHash).Scan(
		&suite.ID,
		&suite.ProjectID,
		&suite.Name,
		&suite.Description,
		&suite.ConfigYAML,
		&suite.ConfigHash,
		&suite.IsDefault,
		&suite.CreatedAt,
		&suite.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create suite: %w", err)
	}

	return &suite, nil
}

// CreateTestCase adds a case to a suite.
func (db *DB) CreateTestCase(ctx context.Context, suiteID uuid.UUID, tc *models.TestCase) (*models.TestCase, error) {
	query := `
		INSERT INTO test_cases (suite_id, name, input, expected_output, evaluator, evaluator_config, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, suite_id, name, input, expected_output, evaluator,
			evaluator_config, tags, created_at, updated_at
	`

	var created models.TestCase
	err := db.Pool.QueryRow(ctx, query,
		suiteID, tc.Name, tc.Input, tc.ExpectedOutput, tc.Evaluator, tc.EvaluatorConfig, tc.Tags,
	).Scan(
		&created.ID,
		&created.SuiteID,
		&created.Name,
		&created.Input,
		&created.ExpectedOutput,
		&created.Evaluator,
		&created.EvaluatorConfig,
		&created.Tags,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create test case: %w", err)
	}

	return &created, nil
}
