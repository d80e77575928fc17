package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diwan-maarifa/diwan-backend/internal/common"
	"github.com/diwan-maarifa/diwan-backend/internal/domain"
	"github.com/diwan-maarifa/diwan-backend/internal/policy"
	"github.com/diwan-maarifa/diwan-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// JWTAuth JWT authentication middleware
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "Missing authorization header", nil)
			c.Abort()
			return
		}

		// 2. Parse Bearer token
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		// 3. Verify token
		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, http.StatusUnauthorized, "Token expired", err)
			} else {
				common.ErrorResponse(c, http.StatusUnauthorized, "Invalid token", err)
			}
			c.Abort()
			return
		}

		role := domain.Role(claims.Role)
		if !role.IsValid() {
			common.ErrorResponse(c, http.StatusUnauthorized, "Invalid token", errors.New("unknown role"))
			c.Abort()
			return
		}

		// 4. Store principal in context
		c.Set(principalKey, domain.Principal{ID: claims.UserID, Role: role})
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller, if any
func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

// SetPrincipal stores p as the authenticated caller
func SetPrincipal(c *gin.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// RequireRole aborts with 403 unless the caller ranks at least as high as role.
// Must run after JWTAuth.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
			c.Abort()
			return
		}
		if !policy.HasRole(p.Role, role) {
			common.ErrorResponse(c, http.StatusForbidden, "Insufficient role", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin checks that the authenticated user is an administrator
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok || p.Role != domain.RoleAdmin {
			common.ErrorResponse(c, http.StatusForbidden, "Administrator role required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireReviewer admits roles that review at least one stage
func RequireReviewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok || !policy.CanReviewAny(p.Role) {
			common.ErrorResponse(c, http.StatusForbidden, "Reviewer role required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
