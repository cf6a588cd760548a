package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-api/internal/auth"
)

// Authenticate parses the bearer token, if any, and attaches the caller
// identity to the request context. Invalid or absent tokens leave the
// request anonymous; enforcement happens per route in RequireCapability.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := auth.ExtractAccessToken(c.Request)
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := auth.ParseJWT(tokenStr)
		if err != nil {
			c.Next()
			return
		}

		id := &auth.Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   auth.Role(claims.Role),
		}
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))

		c.Next()
	}
}

// RequireCapability enforces the access policy for a resource action.
func RequireCapability(res auth.Resource, action auth.Action) gin.HandlerFunc {
	cap := auth.Require(res, action)

	return func(c *gin.Context) {
		id := auth.IdentityFrom(c.Request.Context())
		if auth.Allowed(cap, id) {
			c.Next()
			return
		}

		if id == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "permission denied",
		})
	}
}
