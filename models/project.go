package models

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Project represents a monitored GenAI application within an organization.
// The (org_id, slug) pair is unique. Deleting a project cascades to its
// suites, runs, scoped API keys and evidence packs.
type Project struct {
	ID                   uuid.UUID `json:"id"`
	OrgID                uuid.UUID `json:"org_id"`
	Name                 string    `json:"name"`
	Slug                 string    `json:"slug"`
	Description          *string   `json:"description"`
	GithubRepoOwner      *string   `json:"github_repo_owner"`
	GithubRepoName       *string   `json:"github_repo_name"`
	GithubInstallationID *string   `json:"github_installation_id"`
	DefaultBranch        string    `json:"default_branch"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// CreateProjectRequest is the payload for creating a new project.
// Slug must be lowercase alphanumeric with hyphens.
type CreateProjectRequest struct {
	Name            string  `json:"name" binding:"required,min=1,max=255"`
	Slug            string  `json:"slug" binding:"required,min=1,max=255"`
	Description     *string `json:"description"`
	GithubRepoOwner *string `json:"github_repo_owner"`
	GithubRepoName  *string `json:"github_repo_name"`
	DefaultBranch   string  `json:"default_branch"`
}

// Validate enforces the slug format the binding tags cannot express.
func (r *CreateProjectRequest) Validate() error {
	if !slugPattern.MatchString(r.Slug) {
		return fmt.Errorf("slug must contain only lowercase letters, digits and hyphens")
	}
	return nil
}

// UpdateProjectRequest is the payload for a partial project update. Nil
// fields are left unchanged.
type UpdateProjectRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description     *string `json:"description"`
	GithubRepoOwner *string `json:"github_repo_owner"`
	GithubRepoName  *string `json:"github_repo_name"`
	DefaultBranch   *string `json:"default_branch"`
}

// ProjectSummary is the compact project shape used in list views.
type ProjectSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary converts a project to its list-view shape.
func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}
