package models

import (
	"time"

	"github.com/google/uuid"
)

// Suite is a named group of test cases within a project. The configuration
// blob is stored as opaque serialized text alongside its content hash.
type Suite struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	ConfigYAML  *string   `json:"config_yaml"`
	ConfigHash  *string   `json:"config_hash"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TestCase is one case within a suite.
type TestCase struct {
	ID              uuid.UUID      `json:"id"`
	SuiteID         uuid.UUID      `json:"suite_id"`
	Name            string         `json:"name"`
	Input           string         `json:"input"`
	ExpectedOutput  *string        `json:"expected_output"`
	Evaluator       string         `json:"evaluator"`
	EvaluatorConfig map[string]any `json:"evaluator_config"`
	Tags            []string       `json:"tags"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
