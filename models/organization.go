package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the root of multi-tenancy. Every project, API key and user
// belongs to exactly one organization, and all data access is partitioned by
// it.
type Organization struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Plan             string    `json:"plan"` // free, pro, enterprise
	StripeCustomerID *string   `json:"stripe_customer_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// User belongs to one organization. Users are pre-provisioned; no public
// signup endpoint exists in this API.
type User struct {
	ID        uuid.UUID `json:"id"`
	OrgID     uuid.UUID `json:"org_id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	GithubID  *string   `json:"github_id,omitempty"`
	Role      string    `json:"role"` // owner, admin, member
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
