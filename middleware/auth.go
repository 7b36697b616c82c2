package middleware

import (
	"net/http"
	"strings"

	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SessionTokenKey is the session key holding the token of a cookie based sign in
const SessionTokenKey = "token"

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if token, ok := sessions.Default(c).Get(SessionTokenKey).(string); ok {
		return token
	}
	return ""
}

// IdentifyUser fills the request context from a bearer token or the session token. Requests
// without a valid token continue anonymously.
func IdentifyUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := Current(c)

		tokenString := bearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.LogError("Invalid token: %v", err)
			c.Next()
			return
		}

		userID := claims.UserID
		rc.UserID = &userID
		rc.Role = claims.Role
		rc.Name = claims.Name
		utils.LogDebug("Request %s identified as user %s", rc.RequestID, userID)
		c.Next()
	}
}

// RequireAuth aborts requests without a signed in user
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Current(c).UserID == nil {
			utils.LogError("Unauthenticated access to %s", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ActionResult{
				Success: false,
				Message: "Please login for access",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts requests from anyone but admins
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := Current(c)
		if rc.UserID == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ActionResult{
				Success: false,
				Message: "Please login for access",
			})
			return
		}
		if rc.Role != models.RoleAdmin {
			utils.LogError("Non-admin user attempted admin access: %s", rc.UserID)
			c.AbortWithStatusJSON(http.StatusForbidden, utils.ActionResult{
				Success: false,
				Message: "Admin access required",
			})
			return
		}
		c.Next()
	}
}
