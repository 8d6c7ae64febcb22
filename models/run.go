package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run statuses. CLI submissions report one of passed/failed/error; pending
// and running exist for runs created ahead of execution.
const (
	RunStatusPending = "pending"
	RunStatusRunning = "running"
	RunStatusPassed  = "passed"
	RunStatusFailed  = "failed"
	RunStatusError   = "error"
)

// TriggerCI marks runs ingested through the CLI upload path. The trigger is
// fixed server-side, never caller-supplied.
const TriggerCI = "ci"

// Run is one evaluation execution against a project. Runs and their results
// are created atomically by ingestion and are immutable afterwards;
// pass_rate is stored as a 0-100 percentage.
type Run struct {
	ID                  uuid.UUID      `json:"id"`
	ProjectID           uuid.UUID      `json:"project_id"`
	SuiteID             *uuid.UUID     `json:"suite_id,omitempty"`
	GitSHA              string         `json:"git_sha"`
	GitRef              *string        `json:"git_ref"`
	GitMessage          *string        `json:"git_message"`
	PRNumber            *int           `json:"pr_number"`
	Status              string         `json:"status"`
	Trigger             *string        `json:"trigger,omitempty"`
	ConfigHash          *string        `json:"config_hash"`
	TotalCases          int            `json:"total_cases"`
	PassedCases         int            `json:"passed_cases"`
	FailedCases         int            `json:"failed_cases"`
	PassRate            float64        `json:"pass_rate"`
	Metrics             map[string]any `json:"metrics"`
	ThresholdsMet       *bool          `json:"thresholds_met"`
	ThresholdViolations []string       `json:"threshold_violations"`
	StartedAt           *time.Time     `json:"started_at"`
	FinishedAt          *time.Time     `json:"finished_at"`
	DurationMS          *int           `json:"duration_ms"`
	CreatedAt           time.Time      `json:"created_at"`
}

// RunResult is the outcome of one test case within a run. Suite and case
// names are denormalized for query convenience.
type RunResult struct {
	ID              uuid.UUID      `json:"id"`
	RunID           uuid.UUID      `json:"run_id"`
	SuiteName       *string        `json:"suite_name"`
	CaseName        *string        `json:"case_name"`
	CaseInput       *string        `json:"case_input"`
	ActualOutput    *string        `json:"actual_output"`
	Passed          bool           `json:"passed"`
	Score           *float64       `json:"score"`
	Evaluator       *string        `json:"evaluator"`
	EvaluatorResult map[string]any `json:"evaluator_result"`
	LatencyMS       *int           `json:"latency_ms"`
	TokensUsed      *int           `json:"tokens_used"`
	CostUSD         *float64       `json:"cost_usd"`
	Error           *string        `json:"error"`
	CreatedAt       time.Time      `json:"created_at"`
}

// GitInfo is the git context submitted with a run.
type GitInfo struct {
	SHA      string  `json:"sha" binding:"required,min=1,max=40"`
	Ref      *string `json:"ref"`
	Message  *string `json:"message"`
	PRNumber *int    `json:"pr_number"`
}

// EvaluatorResultCreate is the structured evaluator output for one case.
type EvaluatorResultCreate struct {
	Passed  bool           `json:"passed"`
	Score   float64        `json:"score" binding:"min=0,max=1"`
	Reason  *string        `json:"reason"`
	Details map[string]any `json:"details"`
}

// CaseResultCreate is one test-case result in a run submission.
type CaseResultCreate struct {
	Name            string                `json:"name" binding:"required"`
	Input           string                `json:"input"`
	Output          string                `json:"output"`
	Passed          bool                  `json:"passed"`
	Score           float64               `json:"score" binding:"min=0,max=1"`
	Evaluator       string                `json:"evaluator" binding:"required"`
	EvaluatorResult EvaluatorResultCreate `json:"evaluator_result"`
	LatencyMS       int                   `json:"latency_ms"`
	TokensUsed      *int                  `json:"tokens_used"`
	CostUSD         *float64              `json:"cost_usd"`
	Error           *string               `json:"error"`
}

// SuiteResultCreate groups the case results of one suite.
type SuiteResultCreate struct {
	Name     string             `json:"name" binding:"required"`
	Total    int                `json:"total"`
	Passed   int                `json:"passed"`
	Failed   int                `json:"failed"`
	PassRate float64            `json:"pass_rate" binding:"min=0,max=1"`
	Cases    []CaseResultCreate `json:"cases" binding:"dive"`
}

// RunMetrics carries the aggregate metrics reported by the CLI.
type RunMetrics struct {
	PIIDetected             int     `json:"pii_detected"`
	PromptInjectionAttempts int     `json:"prompt_injection_attempts"`
	AvgLatencyMS            float64 `json:"avg_latency_ms"`
	TotalTokens             int     `json:"total_tokens"`
	TotalCostUSD            float64 `json:"total_cost_usd"`
}

// RunCreate is the CLI run-upload payload.
type RunCreate struct {
	ProjectID           uuid.UUID           `json:"project_id" binding:"required"`
	Git                 *GitInfo            `json:"git"`
	ConfigHash          string              `json:"config_hash" binding:"required"`
	StartedAt           time.Time           `json:"started_at" binding:"required"`
	FinishedAt          time.Time           `json:"finished_at" binding:"required"`
	DurationMS          int                 `json:"duration_ms"`
	Status              string              `json:"status" binding:"required,oneof=passed failed error"`
	Total               int                 `json:"total"`
	Passed              int                 `json:"passed"`
	Failed              int                 `json:"failed"`
	PassRate            float64             `json:"pass_rate" binding:"min=0,max=1"`
	Suites              []SuiteResultCreate `json:"suites" binding:"dive"`
	Metrics             RunMetrics          `json:"metrics"`
	ThresholdsMet       *bool               `json:"thresholds_met" binding:"required"`
	ThresholdViolations []string            `json:"threshold_violations"`
}

// Validate enforces the cross-field rules the binding tags cannot express:
// reported counts must be internally consistent at the run level and within
// every suite group.
func (r *RunCreate) Validate() error {
	if r.Total != r.Passed+r.Failed {
		return fmt.Errorf("run counts inconsistent: total %d != passed %d + failed %d",
			r.Total, r.Passed, r.Failed)
	}
	for _, suite := range r.Suites {
		if suite.Total != suite.Passed+suite.Failed {
			return fmt.Errorf("suite %q counts inconsistent: total %d != passed %d + failed %d",
				suite.Name, suite.Total, suite.Passed, suite.Failed)
		}
	}
	return nil
}

// FinalStatus returns the status to persist. A run that missed its
// thresholds is failed regardless of what the CLI reported.
func (r *RunCreate) FinalStatus() string {
	if r.ThresholdsMet != nil && !*r.ThresholdsMet {
		return RunStatusFailed
	}
	return r.Status
}

// RunSummary is the compact run shape used in list views.
type RunSummary struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	GitSHA      string    `json:"git_sha"`
	GitRef      *string   `json:"git_ref"`
	Status      string    `json:"status"`
	TotalCases  int       `json:"total_cases"`
	PassedCases int       `json:"passed_cases"`
	FailedCases int       `json:"failed_cases"`
	PassRate    float64   `json:"pass_rate"`
	DurationMS  *int      `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary converts a run to its list-view shape.
func (r *Run) Summary() RunSummary {
	return RunSummary{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		GitSHA:      r.GitSHA,
		GitRef:      r.GitRef,
		Status:      r.Status,
		TotalCases:  r.TotalCases,
		PassedCases: r.PassedCases,
		FailedCases: r.FailedCases,
		PassRate:    r.PassRate,
		DurationMS:  r.DurationMS,
		CreatedAt:   r.CreatedAt,
	}
}

// RunDetail is a run together with all of its results.
type RunDetail struct {
	Run
	Results []RunResult `json:"results"`
}

// RunCreateSummary is the compact count summary returned after ingestion.
type RunCreateSummary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// RunCreateResponse is returned after a successful run upload.
type RunCreateResponse struct {
	ID           uuid.UUID        `json:"id"`
	Status       string           `json:"status"`
	PassRate     float64          `json:"pass_rate"`
	Summary      RunCreateSummary `json:"summary"`
	DashboardURL string           `json:"dashboard_url"`
}
