package database

import (
	"context"
	"errors"
	"fmt"

	"verdict/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

const projectColumns = `id, org_id, name, slug, description, github_repo_owner,
	github_repo_name, github_installation_id, default_branch, created_at, updated_at`

// CreateProject creates a project in the caller's organization. Returns
// ErrConflict when the slug is already taken within the org.
func (db *DB) CreateProject(ctx context.Context, orgID uuid.UUID, req *models.CreateProjectRequest) (*models.Project, error) {
	defaultBranch := req.DefaultBranch
	if defaultBranch == "" {
		defaultBranch = "main"
	}

	query := fmt.Sprintf(`
		INSERT INTO projects (org_id, name, slug, description, github_repo_owner, github_repo_name, default_branch)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s
	`, projectColumns)

	project, err := scanProject(db.Pool.QueryRow(ctx, query,
		orgID, req.Name, req.Slug, req.Description,
		req.GithubRepoOwner, req.GithubRepoName, defaultBranch))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	log.Info().
		Str("project_id", project.ID.String()).
		Str("org_id", orgID.String()).
		Str("slug", project.Slug).
		Msg("created project")
	return project, nil
}

// ListProjects returns one page of the organization's projects, newest
// first, plus the total count. A COUNT(*) OVER() window keeps it to a
// single query, so the count is recomputed independently of the page size.
func (db *DB) ListProjects(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]models.Project, int64, error) {
	limit = validateLimit(limit, defaultPageSize, maxPageSize)
	offset = validateOffset(offset)

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM projects
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, projectColumns)

	rows, err := db.Pool.Query(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	var total int64

	for rows.Next() {
		var p models.Project
		if err := rows.Scan(
			&p.ID, &p.OrgID, &p.Name, &p.Slug, &p.Description,
			&p.GithubRepoOwner, &p.GithubRepoName, &p.GithubInstallationID,
			&p.DefaultBranch, &p.CreatedAt, &p.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating projects: %w", err)
	}

	// Window total is 0 rows when the page is past the end; fall back to a
	// plain count so total stays correct.
	if len(projects) == 0 {
		if err := db.Pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM projects WHERE org_id = $1`, orgID).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("failed to count projects: %w", err)
		}
	}

	return projects, total, nil
}

// GetProject fetches a single project. The org filter is the tenant
// boundary: a project belonging to another organization is reported as
// ErrNotFound, identically to one that does not exist.
func (db *DB) GetProject(ctx context.Context, projectID, orgID uuid.UUID) (*models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM projects WHERE id = $1 AND org_id = $2
	`, projectColumns)

	project, err := scanProject(db.Pool.QueryRow(ctx, query, projectID, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// UpdateProject applies a partial update to the mutable project fields.
func (db *DB) UpdateProject(ctx context.Context, projectID, orgID uuid.UUID, req *models.UpdateProjectRequest) (*models.Project, error) {
	query := fmt.Sprintf(`
		UPDATE projects SET
			name = COALESCE($3, name),
			description = COALESCE($4, description),
			github_repo_owner = COALESCE($5, github_repo_owner),
			github_repo_name = COALESCE($6, github_repo_name),
			default_branch = COALESCE($7, default_branch),
			updated_at = NOW()
		WHERE id = $1 AND org_id = $2
		RETURNING %s
	`, projectColumns)

	project, err := scanProject(db.Pool.QueryRow(ctx, query,
		projectID, orgID, req.Name, req.Description,
		req.GithubRepoOwner, req.GithubRepoName, req.DefaultBranch))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project; suites, runs, scoped API keys and
// evidence packs go with it via the foreign-key cascades.
func (db *DB) DeleteProject(ctx context.Context, projectID, orgID uuid.UUID) error {
	result, err := db.Pool.Exec(ctx,
		`DELETE FROM projects WHERE id = $1 AND org_id = $2`, projectID, orgID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	log.Info().Str("project_id", projectID.String()).Msg("deleted project")
	return nil
}

// VerifyProjectAccess checks that the scope may touch the given project.
// A project-scoped key for a different project yields ErrForbidden; a
// project outside the scope's organization yields ErrNotFound.
func (db *DB) VerifyProjectAccess(ctx context.Context, projectID uuid.UUID, scope models.AccessScope) (*models.Project, error) {
	if scope.ProjectScoped() && *scope.ProjectID != projectID {
		return nil, ErrForbidden
	}
	return db.GetProject(ctx, projectID, scope.OrgID)
}

// Helper functions

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID,
		&p.OrgID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.GithubRepoOwner,
		&p.GithubRepoName,
		&p.GithubInstallationID,
		&p.DefaultBranch,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
