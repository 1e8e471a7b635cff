package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"artfolio-backend/internal/shared/response"
	"artfolio-backend/pkg/jwt"
)

// ArtistIDKey is the gin context key under which AuthMiddleware stores the
// authenticated artist id.
const ArtistIDKey = "artistID"

// AuthMiddleware validates the bearer token and puts the artist id into the
// context. The identity service issued the token; its claims are trusted
// here without re-validation.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := manager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		artistID, err := uuid.Parse(claims.ArtistID)
		if err != nil {
			response.Unauthorized(c, "invalid artist id in token")
			c.Abort()
			return
		}

		c.Set(ArtistIDKey, artistID)
		c.Next()
	}
}

// ArtistID reads the authenticated artist id set by AuthMiddleware.
func ArtistID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ArtistIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
