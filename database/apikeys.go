package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"verdict/auth"
	"verdict/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// CreateAPIKey issues a new credential for an organization, optionally
// scoped to a single project. The plaintext key is returned exactly once;
// only its hash and display prefix are stored.
func (db *DB) CreateAPIKey(
	ctx context.Context,
	orgID uuid.UUID,
	projectID *uuid.UUID,
	name, keyPrefix string,
	keyLength int,
	expiresAt *time.Time,
) (*models.APIKey, string, error) {
	plaintext, hash, displayPrefix, err := auth.GenerateKey(keyPrefix, keyLength)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate API key: %w", err)
	}

	query := `
		INSERT INTO api_keys (org_id, project_id, name, key_hash, key_prefix, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, org_id, project_id, created_by, name, key_hash, key_prefix,
			last_used_at, expires_at, created_at
	`

	key, err := scanAPIKey(db.Pool.QueryRow(ctx, query,
		orgID, projectID, name, hash, displayPrefix, expiresAt))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create API key: %w", err)
	}

	log.Info().
		Str("org_id", orgID.String()).
		Str("key_prefix", key.KeyPrefix).
		Msg("created API key")
	return key, plaintext, nil
}

// GetAPIKeyByHash looks up a credential by the hash of its plaintext.
// Returns ErrInvalidAPIKey when no row matches and ErrExpiredAPIKey when
// the key exists but is past its expiry; the two invalid cases are not
// distinguishable from a key that never existed.
func (db *DB) GetAPIKeyByHash(ctx context.Context, keyHash string) (*models.APIKey, error) {
	query := `
		SELECT id, org_id, project_id, created_by, name, key_hash, key_prefix,
			last_used_at, expires_at, created_at
		FROM api_keys
		WHERE key_hash = $1
	`

	key, err := scanAPIKey(db.Pool.QueryRow(ctx, query, keyHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidAPIKey
		}
		return nil, fmt.Errorf("failed to look up API key: %w", err)
	}

	if key.ExpiresAt != nil && key.ExpiresAt.Before(time.Now()) {
		return nil, ErrExpiredAPIKey
	}

	return key, nil
}

// TouchAPIKey records the key as used now. Best effort: failures are logged
// and never propagated to the request.
func (db *DB) TouchAPIKey(ctx context.Context, keyID uuid.UUID) {
	_, err := db.Pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW() WHERE id = $1`, keyID)
	if err != nil {
		log.Debug().Err(err).Str("key_id", keyID.String()).Msg("failed to update last_used_at")
	}
}

func scanAPIKey(row rowScanner) (*models.APIKey, error) {
	var key models.APIKey
	err := row.Scan(
		&key.ID,
		&key.OrgID,
		&key.ProjectID,
		&key.CreatedBy,
		&key.Name,
		&key.KeyHash,
		&key.KeyPrefix,
		&key.LastUsedAt,
		&key.ExpiresAt,
		&key.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &key, nil
}
