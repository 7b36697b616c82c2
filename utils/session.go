package utils

import (
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Session keys
const (
	SessionCartKey      = "sessionCartId"
	BeforeSigninCartKey = "beforeSigninSessionCartId"
	SessionName         = "storefront_session"
)

// GetSessionCartID returns the cart id stored in the session, or ""
func GetSessionCartID(c *gin.Context) string {
	id, _ := sessions.Default(c).Get(SessionCartKey).(string)
	return id
}

// SetSessionCartID stores id as the session cart id. previous, when set, is kept under
// BeforeSigninCartKey.
func SetSessionCartID(c *gin.Context, id, previous string) error {
	session := sessions.Default(c)
	session.Set(SessionCartKey, id)
	if previous != "" {
		session.Set(BeforeSigninCartKey, previous)
	}
	if err := session.Save(); err != nil {
		return fmt.Errorf("failed to save session: %v", err)
	}
	return nil
}
