package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nurpe/marketplace-ledger/internal/auth"
	"github.com/nurpe/marketplace-ledger/internal/model"
)

const profileContextKey = "profile"

// ProfileLoader fetches the calling profile. The ledger store satisfies it.
type ProfileLoader interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error)
}

// Profile resolves the calling profile from either the profile_id header or
// a bearer token, loads it from the store and aborts with 401 when neither
// identifies an existing profile.
func Profile(parser *auth.Parser, profiles ProfileLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, err := resolveProfileID(c, parser)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "profile identification required"})
			return
		}

		profile, err := profiles.GetProfile(c.Request.Context(), profileID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown profile"})
			return
		}

		c.Set(profileContextKey, *profile)
		c.Next()
	}
}

// MustProfile returns the profile placed in the context by the middleware.
func MustProfile(c *gin.Context) (model.Profile, bool) {
	value, ok := c.Get(profileContextKey)
	if !ok {
		return model.Profile{}, false
	}
	profile, ok := value.(model.Profile)
	return profile, ok
}

func resolveProfileID(c *gin.Context, parser *auth.Parser) (uuid.UUID, error) {
	if raw := strings.TrimSpace(c.GetHeader("profile_id")); raw != "" {
		return uuid.Parse(raw)
	}

	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return parser.Parse(strings.TrimSpace(token))
	}
	return uuid.Nil, fmt.Errorf("no profile identification")
}
