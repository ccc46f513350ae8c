// Package authn validates the Authorization header and resolves it to a
// tenant, as a gin middleware every authenticated route mounts.
package authn

import (
	"strings"

	"github.com/gin-gonic/gin"

	"mlop-ingest/internal/apperror"
	"mlop-ingest/internal/authdb"
)

const bearerPrefix = "Bearer "

// ParseBearer extracts and validates the raw token from an Authorization
// header value. The "Bearer " prefix check is case-sensitive; the token
// itself must be non-empty ASCII alphanumeric plus '-', '_', '.'.
func ParseBearer(header string) (string, *apperror.Error) {
	if header == "" {
		return "", apperror.New(apperror.MissingToken, "missing Authorization header")
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", apperror.New(apperror.InvalidBearerFormat, "Authorization header must use the Bearer scheme")
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", apperror.New(apperror.InvalidToken, "bearer token must not be empty")
	}

	for _, r := range token {
		if !isAllowedTokenRune(r) {
			return "", apperror.New(apperror.InvalidTokenFormat, "bearer token contains invalid characters")
		}
	}
	return token, nil
}

func isAllowedTokenRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-', r == '_', r == '.':
		return true
	default:
		return false
	}
}

// Middleware parses the Authorization header, resolves it against db, and
// stashes the resulting tenant ID in the gin context under "tenantId" for
// downstream handlers.
func Middleware(db *authdb.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sendError := c.MustGet("sendError").(func(*apperror.Error))

		token, perr := ParseBearer(c.GetHeader("Authorization"))
		if perr != nil {
			sendError(perr)
			c.Abort()
			return
		}

		tenantID, perr := db.ResolveTenant(c.Request.Context(), token)
		if perr != nil {
			sendError(perr)
			c.Abort()
			return
		}

		c.Set("tenantId", tenantID)
		c.Next()
	}
}
