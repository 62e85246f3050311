package middleware

import (
	"net/http"
	"strings"

	"tourops/internal/shared/config"
	"tourops/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Context keys set by JWTAuth for downstream handlers
const (
	ContextUserID = "user_id"
	ContextOrgID  = "org_id"
	ContextRole   = "user_role"
)

// JWTAuthWithConfig creates a JWT authentication middleware with config.
// Claims carry user_id, org_id and role; org_id is the tenancy boundary and
// every downstream query is scoped by it.
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil, nil)
			c.Abort()
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})

		if err != nil || !token.Valid {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired token", nil, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid token claims", nil, nil)
			c.Abort()
			return
		}

		if tokenType, ok := claims["type"]; !ok || tokenType != "access" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid token type", nil, nil)
			c.Abort()
			return
		}

		orgIDStr, _ := claims["org_id"].(string)
		if _, err := uuid.Parse(orgIDStr); err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "token missing organization", nil, nil)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims["user_id"])
		c.Set(ContextOrgID, orgIDStr)
		c.Set(ContextRole, claims["role"])

		c.Next()
	}
}

// RequireRole middleware checks if user has required role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextRole)
		if !exists {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		if userRole.(string) != requiredRole {
			response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetOrgID extracts the authenticated organization id from the gin context
func GetOrgID(c *gin.Context) (uuid.UUID, bool) {
	orgIDVal, exists := c.Get(ContextOrgID)
	if !exists {
		return uuid.Nil, false
	}
	orgIDStr, ok := orgIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}
	orgID, err := uuid.Parse(orgIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return orgID, true
}

// GetUserID extracts the authenticated user id from the gin context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDVal, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	userIDStr, ok := userIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
