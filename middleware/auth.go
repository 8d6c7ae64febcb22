package middleware

import (
	"errors"
	"net/http"

	"verdict/auth"
	"verdict/database"
	"verdict/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// APIKeyHeader is the request header carrying the plaintext credential.
const APIKeyHeader = "X-API-Key"

const scopeKey = "access_scope"

// APIKeyAuth authenticates requests by API key and stores the resolved
// AccessScope in the gin context.
//
// The key is looked up by its SHA-256 hash; an unknown key and a hash
// mismatch produce the same response so keys cannot be enumerated.
func APIKeyAuth(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawKey := c.GetHeader(APIKeyHeader)
		if rawKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "API key required. Provide " + APIKeyHeader + " header.",
			})
			return
		}

		ctx := c.Request.Context()
		key, err := db.GetAPIKeyByHash(ctx, auth.HashKey(rawKey))
		if err != nil {
			switch {
			case errors.Is(err, database.ErrInvalidAPIKey):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			case errors.Is(err, database.ErrExpiredAPIKey):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key has expired"})
			default:
				log.Error().Err(err).Msg("API key lookup failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}

		// Best effort; never fails the request.
		db.TouchAPIKey(ctx, key.ID)

		c.Set(scopeKey, models.AccessScope{
			KeyID:     key.ID,
			OrgID:     key.OrgID,
			ProjectID: key.ProjectID,
		})

		c.Next()
	}
}

// GetScope returns the AccessScope stored by APIKeyAuth. It must only be
// called from handlers behind the middleware.
func GetScope(c *gin.Context) models.AccessScope {
	return c.MustGet(scopeKey).(models.AccessScope)
}
