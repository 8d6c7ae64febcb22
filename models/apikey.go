package models

import (
	"time"

	"github.com/google/uuid"
)

// APIKey is a bearer credential for CLI and automation access. Only the
// SHA-256 hash of the secret and a short display prefix are stored; the
// plaintext is returned once at issuance and never persisted.
//
// A key with a nil ProjectID is organization-wide; otherwise it is scoped to
// that single project.
type APIKey struct {
	ID         uuid.UUID  `json:"id"`
	OrgID      uuid.UUID  `json:"org_id"`
	ProjectID  *uuid.UUID `json:"project_id"`
	CreatedBy  *uuid.UUID `json:"created_by"`
	Name       string     `json:"name"`
	KeyHash    string     `json:"-"`
	KeyPrefix  string     `json:"key_prefix"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AccessScope is the resolved authorization context for a request: the
// authenticated organization plus, for project-scoped keys, the single
// project the key may touch. Every data access downstream filters by OrgID.
type AccessScope struct {
	KeyID     uuid.UUID
	OrgID     uuid.UUID
	ProjectID *uuid.UUID
}

// ProjectScoped reports whether the credential is bound to a single project.
func (s AccessScope) ProjectScoped() bool {
	return s.ProjectID != nil
}
