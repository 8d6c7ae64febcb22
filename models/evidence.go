package models

import (
	"time"

	"github.com/google/uuid"
)

// EvidencePack bundles run data into a compliance artifact. Generation and
// PDF rendering happen outside this API; only the stored shape lives here.
type EvidencePack struct {
	ID              uuid.UUID      `json:"id"`
	ProjectID       uuid.UUID      `json:"project_id"`
	RunID           *uuid.UUID     `json:"run_id"`
	CreatedBy       *uuid.UUID     `json:"created_by"`
	Name            *string        `json:"name"`
	TemplateVersion string         `json:"template_version"`
	Content         map[string]any `json:"content"`
	PDFURL          *string        `json:"pdf_url"`
	JSONURL         *string        `json:"json_url"`
	ShareToken      *string        `json:"share_token,omitempty"`
	ExpiresAt       *time.Time     `json:"expires_at"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Approval records a review decision on an evidence pack.
type Approval struct {
	ID             uuid.UUID  `json:"id"`
	ProjectID      uuid.UUID  `json:"project_id"`
	RunID          *uuid.UUID `json:"run_id"`
	EvidencePackID *uuid.UUID `json:"evidence_pack_id"`
	ApproverID     *uuid.UUID `json:"approver_id"`
	ApproverEmail  *string    `json:"approver_email"`
	Status         string     `json:"status"` // pending, approved, rejected
	Comment        *string    `json:"comment"`
	ApprovedAt     *time.Time `json:"approved_at"`
	CreatedAt      time.Time  `json:"created_at"`
}
