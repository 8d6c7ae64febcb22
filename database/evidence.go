package database

import (
	"context"
	"errors"
	"fmt"

	"verdict/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Evidence packs and approvals are written by the reporting pipeline, not by
// any public endpoint. Pack generation and PDF rendering live outside this
// API; the store only persists and reads the rows.

// CreateEvidencePack stores a compliance artifact record for a project,
// optionally tied to a run.
func (db *DB) CreateEvidencePack(ctx context.Context, projectID uuid.UUID, runID *uuid.UUID, name *string, templateVersion string, content map[string]any) (*models.EvidencePack, error) {
	query := `
		INSERT INTO evidence_packs (project_id, run_id, name, template_version, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, project_id, run_id, created_by, name, template_version,
			content, pdf_url, json_url, share_token, expires_at, created_at
	`

	var pack models.EvidencePack
	err := db.Pool.QueryRow(ctx, query, projectID, runID, name, templateVersion, content).Scan(
		&pack.ID,
		&pack.ProjectID,
		&pack.RunID,
		&pack.CreatedBy,
		&pack.Name,
		&pack.TemplateVersion,
		&pack.Content,
		&pack.PDFURL,
		&pack.JSONURL,
		&pack.ShareToken,
		&pack.ExpiresAt,
		&pack.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create evidence pack: %w", err)
	}

	return &pack, nil
}

// CreateApproval records a pending review decision on an evidence pack.
func (db *DB) CreateApproval(ctx context.Context, projectID uuid.UUID, packID *uuid.UUID, approverEmail *string) (*models.Approval, error) {
	query := `
		INSERT INTO approvals (project_id, evidence_pack_id, approver_email, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id, project_id, run_id, evidence_pack_id, approver_id,
			approver_email, status, comment, approved_at, created_at
	`

	var approval models.Approval
	err := db.Pool.QueryRow(ctx, query, projectID, packID, approverEmail).Scan(
		&approval.ID,
		&approval.ProjectID,
		&approval.RunID,
		&approval.EvidencePackID,
		&approval.ApproverID,
		&approval.ApproverEmail,
		&approval.Status,
		&approval.Comment,
		&approval.ApprovedAt,
		&approval.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create approval: %w", err)
	}

	return &approval, nil
}

// GetEvidencePack fetches a pack through the project join so tenancy rules
// match every other read.
func (db *DB) GetEvidencePack(ctx context.Context, packID, orgID uuid.UUID) (*models.EvidencePack, error) {
	query := `
		SELECT e.id, e.project_id, e.run_id, e.created_by, e.name, e.template_version,
			e.content, e.pdf_url, e.json_url, e.share_token, e.expires_at, e.created_at
		FROM evidence_packs e
		JOIN projects p ON p.id = e.project_id
		WHERE e.id = $1 AND p.org_id = $2
	`

	var pack models.EvidencePack
	err := db.Pool.QueryRow(ctx, query, packID, orgID).Scan(
		&pack.ID,
		&pack.ProjectID,
		&pack.RunID,
		&pack.CreatedBy,
		&pack.Name,
		&pack.TemplateVersion,
		&pack.Content,
		&pack.PDFURL,
		&pack.JSONURL,
		&pack.ShareToken,
		&pack.ExpiresAt,
		&pack.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get evidence pack: %w", err)
	}

	return &pack, nil
}
