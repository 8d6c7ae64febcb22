package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"verdict/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

const runColumns = `id, project_id, suite_id, git_sha, git_ref, git_message, pr_number,
	status, "trigger", config_hash, total_cases, passed_cases, failed_cases, pass_rate,
	metrics, thresholds_met, threshold_violations, started_at, finished_at, duration_ms, created_at`

const insertRunResultQuery = `
	INSERT INTO run_results (run_id, suite_name, case_name, case_input, actual_output,
		passed, score, evaluator, evaluator_result, latency_ms, tokens_used, cost_usd, error)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`

// CreateRun persists a run header and every per-case result in a single
// transaction. Either the whole run commits or nothing does; a partial run
// is never visible to readers.
//
// The payload must already be validated. The persisted status applies the
// threshold override and pass_rate is stored as a 0-100 percentage.
func (db *DB) CreateRun(ctx context.Context, projectID uuid.UUID, data *models.RunCreate) (*models.Run, error) {
	start := time.Now()

	gitSHA := "unknown"
	var gitRef, gitMessage *string
	var prNumber *int
	if data.Git != nil {
		gitSHA = data.Git.SHA
		gitRef = data.Git.Ref
		gitMessage = data.Git.Message
		prNumber = data.Git.PRNumber
	}

	metrics := map[string]any{
		"pii_detected":              data.Metrics.PIIDetected,
		"prompt_injection_attempts": data.Metrics.PromptInjectionAttempts,
		"avg_latency_ms":            data.Metrics.AvgLatencyMS,
		"total_tokens":              data.Metrics.TotalTokens,
		"total_cost_usd":            data.Metrics.TotalCostUSD,
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf(`
		INSERT INTO runs (project_id, git_sha, git_ref, git_message, pr_number,
			status, "trigger", config_hash, total_cases, passed_cases, failed_cases,
			pass_rate, metrics, thresholds_met, threshold_violations,
			started_at, finished_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING %s
	`, runColumns)

	run, err := scanRun(tx.QueryRow(ctx, query,
		projectID, gitSHA, gitRef, gitMessage, prNumber,
		data.FinalStatus(), models.TriggerCI, data.ConfigHash,
		data.Total, data.Passed, data.Failed,
		data.PassRate*100, metrics, data.ThresholdsMet, data.ThresholdViolations,
		data.StartedAt, data.FinishedAt, data.DurationMS))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	batch := &pgx.Batch{}
	queued := 0
	for _, suite := range data.Suites {
		for _, c := range suite.Cases {
			evaluatorResult := map[string]any{
				"passed": c.EvaluatorResult.Passed,
				"score":  c.EvaluatorResult.Score,
				"reason": c.EvaluatorResult.Reason,
			}
			if c.EvaluatorResult.Details != nil {
				evaluatorResult["details"] = c.EvaluatorResult.Details
			}

			batch.Queue(insertRunResultQuery,
				run.ID, suite.Name, c.Name, c.Input, c.Output,
				c.Passed, c.Score, c.Evaluator, evaluatorResult,
				c.LatencyMS, c.TokensUsed, c.CostUSD, c.Error)
			queued++
		}
	}

	if queued > 0 {
		results := tx.SendBatch(ctx, batch)
		for i := 0; i < queued; i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return nil, fmt.Errorf("failed to insert result %d/%d: %w", i, queued, err)
			}
		}
		if err := results.Close(); err != nil {
			return nil, fmt.Errorf("failed to close result batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}

	log.Info().
		Str("run_id", run.ID.String()).
		Str("project_id", projectID.String()).
		Str("status", run.Status).
		Int("results", queued).
		Dur("duration", time.Since(start)).
		Msg("ingested run")
	return run, nil
}

// GetRun fetches a run with all of its results, filtered through the
// project join by organization. Out-of-org runs are ErrNotFound.
func (db *DB) GetRun(ctx context.Context, runID, orgID uuid.UUID) (*models.RunDetail, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM runs r
		JOIN projects p ON p.id = r.project_id
		WHERE r.id = $1 AND p.org_id = $2
	`, prefixColumns("r", runColumns))

	run, err := scanRun(db.Pool.QueryRow(ctx, query, runID, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	results, err := db.getRunResults(ctx, runID)
	if err != nil {
		return nil, err
	}

	return &models.RunDetail{Run: *run, Results: results}, nil
}

func (db *DB) getRunResults(ctx context.Context, runID uuid.UUID) ([]models.RunResult, error) {
	query := `
		SELECT id, run_id, suite_name, case_name, case_input, actual_output,
			passed, score, evaluator, evaluator_result, latency_ms, tokens_used,
			cost_usd, error, created_at
		FROM run_results
		WHERE run_id = $1
		ORDER BY created_at, id
	`

	rows, err := db.Pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run results: %w", err)
	}
	defer rows.Close()

	results := []models.RunResult{}
	for rows.Next() {
		var r models.RunResult
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.SuiteName, &r.CaseName, &r.CaseInput,
			&r.ActualOutput, &r.Passed, &r.Score, &r.Evaluator, &r.EvaluatorResult,
			&r.LatencyMS, &r.TokensUsed, &r.CostUSD, &r.Error, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run results: %w", err)
	}

	return results, nil
}

// ListRuns returns one page of a project's runs, newest first, optionally
// filtered by exact status. The org filter runs through the project join.
func (db *DB) ListRuns(ctx context.Context, projectID, orgID uuid.UUID, limit, offset int, status string) ([]models.Run, int64, error) {
	limit = validateLimit(limit, defaultPageSize, maxPageSize)
	offset = validateOffset(offset)

	qb := NewQueryBuilder()
	qb.AddCondition("r.project_id", projectID)
	qb.AddCondition("p.org_id", orgID)
	if status != "" {
		qb.AddCondition("r.status", status)
	}

	// SAFETY: all user input is parameterized via $N placeholders; the
	// where clause contains only fixed column names and operators.
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM runs r
		JOIN projects p ON p.id = r.project_id
		%s
		ORDER BY r.created_at DESC
		LIMIT $%d OFFSET $%d
	`, prefixColumns("r", runColumns), qb.WhereClause(), qb.NextArgNum(), qb.NextArgNum()+1)

	args := append(qb.Args(), limit, offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []models.Run{}
	var total int64
	for rows.Next() {
		run, err := scanRunWithTotal(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating runs: %w", err)
	}

	if len(runs) == 0 {
		countQuery := fmt.Sprintf(`
			SELECT COUNT(*)
			FROM runs r
			JOIN projects p ON p.id = r.project_id
			%s
		`, qb.WhereClause())
		if err := db.Pool.QueryRow(ctx, countQuery, qb.Args()...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("failed to count runs: %w", err)
		}
	}

	return runs, total, nil
}

func scanRun(row rowScanner) (*models.Run, error) {
	var r models.Run
	var passRate *float64
	err := row.Scan(
		&r.ID, &r.ProjectID, &r.SuiteID, &r.GitSHA, &r.GitRef, &r.GitMessage,
		&r.PRNumber, &r.Status, &r.Trigger, &r.ConfigHash,
		&r.TotalCases, &r.PassedCases, &r.FailedCases, &passRate,
		&r.Metrics, &r.ThresholdsMet, &r.ThresholdViolations,
		&r.StartedAt, &r.FinishedAt, &r.DurationMS, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if passRate != nil {
		r.PassRate = *passRate
	}
	return &r, nil
}

func scanRunWithTotal(row rowScanner, total *int64) (*models.Run, error) {
	var r models.Run
	var passRate *float64
	err := row.Scan(
		&r.ID, &r.ProjectID, &r.SuiteID, &r.GitSHA, &r.GitRef, &r.GitMessage,
		&r.PRNumber, &r.Status, &r.Trigger, &r.ConfigHash,
		&r.TotalCases, &r.PassedCases, &r.FailedCases, &passRate,
		&r.Metrics, &r.ThresholdsMet, &r.ThresholdViolations,
		&r.StartedAt, &r.FinishedAt, &r.DurationMS, &r.CreatedAt,
		total,
	)
	if err != nil {
		return nil, err
	}
	if passRate != nil {
		r.PassRate = *passRate
	}
	return &r, nil
}
