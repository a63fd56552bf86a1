package middleware

import (
	"net/http"
	"strings"

	"phoneshop/internal/apierror"
	"phoneshop/internal/service"

	"github.com/gin-gonic/gin"
)

const claimsKey = "auth_claims"

// JWTAuth validates the Bearer token and stores its claims on the context.
// Refresh tokens are rejected here: they are only good at /auth/refresh.
func JWTAuth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("missing bearer token"))
			return
		}
		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil || claims.Refresh {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("invalid or expired token"))
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("authentication required"))
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("insufficient permissions"))
	}
}

// GetClaims returns the authenticated user's claims, or nil outside JWTAuth.
func GetClaims(c *gin.Context) *service.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*service.Claims)
	return claims
}
