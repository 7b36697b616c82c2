package middleware

import (
	"fmt"

	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestContextKey = "requestContext"

// RequestContext is the per-request identity handlers work from. Handlers never read cookies or
// token claims themselves.
type RequestContext struct {
	RequestID     string
	SessionCartID string
	UserID        *uuid.UUID
	Role          string
	Name          string
}

// IsAdmin reports whether the caller signed in as an admin
func (rc *RequestContext) IsAdmin() bool {
	return rc.UserID != nil && rc.Role == models.RoleAdmin
}

// Current returns the request context, creating an empty one if no middleware ran yet
func Current(c *gin.Context) *RequestContext {
	if v, ok := c.Get(requestContextKey); ok {
		if rc, ok := v.(*RequestContext); ok {
			return rc
		}
	}
	rc := &RequestContext{RequestID: c.GetString(utils.RequestIDKey)}
	c.Set(requestContextKey, rc)
	return rc
}

// SessionCartMiddleware makes sure every session carries a cart id, issuing one on the first
// request
func SessionCartMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := Current(c)

		id := utils.GetSessionCartID(c)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
			if err := utils.SetSessionCartID(c, id, ""); err != nil {
				utils.LogError("Failed to issue session cart id: %v", err)
			} else {
				utils.LogDebug("Issued session cart id %s", id)
			}
		}

		rc.SessionCartID = id
		c.Next()
	}
}

// StartUserSession stores token in the session and swaps the session cart id when the sign in
// moved the shopper to another cart
func StartUserSession(c *gin.Context, token, cartID, previousCartID string) error {
	session := sessions.Default(c)
	session.Set(SessionTokenKey, token)
	session.Set(utils.SessionCartKey, cartID)
	if previousCartID != "" {
		session.Set(utils.BeforeSigninCartKey, previousCartID)
	}
	if err := session.Save(); err != nil {
		return fmt.Errorf("failed to save session: %v", err)
	}

	rc := Current(c)
	rc.SessionCartID = cartID
	return nil
}

// EndUserSession forgets the signed in user but keeps the session cart id
func EndUserSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(SessionTokenKey)
	if err := session.Save(); err != nil {
		return fmt.Errorf("failed to save session: %v", err)
	}

	rc := Current(c)
	rc.UserID = nil
	rc.Role = ""
	rc.Name = ""
	return nil
}
