package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClaimsKey is the gin context key holding the caller's *Claims.
const ClaimsKey = "claims"

const bearerPrefix = "Bearer "

// RequireAuth rejects requests without a valid bearer token with 401 and
// stores the token claims for downstream handlers.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token missing"})
			return
		}

		claims, err := ParseToken(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)), secret)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		ctx.Set(ClaimsKey, claims)
		ctx.Next()
	}
}

// CurrentClaims returns the claims stored by RequireAuth.
func CurrentClaims(ctx *gin.Context) (*Claims, bool) {
	v, ok := ctx.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
