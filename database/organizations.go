package database

import (
	"context"
	"fmt"

	"verdict/models"

	"github.com/google/uuid"
)

// Organizations and users are provisioned out of band; no public endpoint
// exposes these operations. They exist for admin tooling and the test
// harness.

// CreateOrganization creates a new tenant root.
func (db *DB) CreateOrganization(ctx context.Context, name, slug, plan string) (*models.Organization, error) {
	query := `
		INSERT INTO organizations (name, slug, plan)
		VALUES ($1, $2, $3)
		RETURNING id, name, slug, plan, stripe_customer_id, created_at, updated_at
	`

	var org models.Organization
	err := db.Pool.QueryRow(ctx, query, name, slug, plan).Scan(
		&org.ID,
		&org.Name,
		&org.Slug,
		&org.Plan,
		&org.StripeCustomerID,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	return &org, nil
}

// CreateUser adds a user to an organization.
func (db *DB) CreateUser(ctx context.Context, orgID uuid.UUID, email, name, role string) (*models.User, error) {
	query := `
		INSERT INTO users (org_id, email, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, org_id, email, name, avatar_url, github_id, role, created_at, updated_at
	`

	var user models.User
	err := db.Pool.QueryRow(ctx, query, orgID, email, name, role).Scan(
		&user.ID,
		&user.OrgID,
		&user.Email,
		&user.Name,
		&user.AvatarURL,
		&user.GithubID,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}
