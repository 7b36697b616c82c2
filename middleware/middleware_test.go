package middleware

import (
	"net/http"
	"testing"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/models"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "middleware-test-secret"
	userCartID = "6f1c2b9e-4d0a-4c8e-9b7d-2f5a1e3c4b6d"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prev := config.Current.JWTSecret
	config.Current.JWTSecret = testSecret
	t.Cleanup(func() { config.Current.JWTSecret = prev })

	router := gin.New()
	router.Use(sessions.Sessions(utils.SessionName, cookie.NewStore([]byte("cookie-secret"))))
	router.Use(SessionCartMiddleware())
	router.Use(IdentifyUser())

	whoami := func(c *gin.Context) {
		rc := Current(c)
		body := gin.H{"session_cart_id": rc.SessionCartID, "role": rc.Role}
		if rc.UserID != nil {
			body["user_id"] = rc.UserID.String()
		}
		c.JSON(http.StatusOK, body)
	}
	router.GET("/whoami", whoami)
	router.GET("/private", RequireAuth(), whoami)
	router.GET("/admin", RequireAdmin(), whoami)

	router.POST("/sign-in", func(c *gin.Context) {
		user := &models.User{ID: uuid.New(), Role: models.RoleUser, Name: "Jane"}
		token, err := utils.GenerateToken(user)
		require.NoError(t, err)
		require.NoError(t, StartUserSession(c, token, userCartID, Current(c).SessionCartID))
		c.JSON(http.StatusOK, gin.H{"session_cart_id": Current(c).SessionCartID})
	})
	router.POST("/sign-out", func(c *gin.Context) {
		require.NoError(t, EndUserSession(c))
		whoami(c)
	})
	return router
}

func TestSessionCartMiddlewareIssuesStableID(t *testing.T) {
	router := setupRouter(t)

	first := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/whoami"})
	require.Equal(t, http.StatusOK, first.StatusCode)
	id, _ := first.Body["session_cart_id"].(string)
	_, err := uuid.Parse(id)
	require.NoError(t, err, "session cart id is a uuid")
	require.NotEmpty(t, first.Cookies)

	second := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/whoami", Cookies: first.Cookies})
	assert.Equal(t, id, second.Body["session_cart_id"])
}

func TestRequireAuth(t *testing.T) {
	router := setupRouter(t)

	resp := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/private"})
	utils.AssertResponse(t, resp, http.StatusUnauthorized, map[string]interface{}{
		"success": false,
		"message": "Please login for access",
	})

	user := &models.User{ID: uuid.New(), Role: models.RoleUser}
	token := utils.GetTestToken(t, user, testSecret)
	resp = utils.MakeTestRequest(t, router, utils.TestRequest{
		Method:  http.MethodGet,
		Path:    "/private",
		Headers: map[string]string{"Authorization": "Bearer " + token},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, user.ID.String(), resp.Body["user_id"])
}

func TestInvalidTokenContinuesAnonymously(t *testing.T) {
	router := setupRouter(t)
	resp := utils.MakeTestRequest(t, router, utils.TestRequest{
		Method:  http.MethodGet,
		Path:    "/whoami",
		Headers: map[string]string{"Authorization": "Bearer not-a-token"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, resp.Body, "user_id")
}

func TestRequireAdmin(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name   string
		role   string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"user", models.RoleUser, http.StatusForbidden},
		{"admin", models.RoleAdmin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := utils.TestRequest{Method: http.MethodGet, Path: "/admin"}
			if tt.role != "" {
				token := utils.GetTestToken(t, &models.User{ID: uuid.New(), Role: tt.role}, testSecret)
				req.Headers = map[string]string{"Authorization": "Bearer " + token}
			}
			resp := utils.MakeTestRequest(t, router, req)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestSignOutKeepsSessionCart(t *testing.T) {
	router := setupRouter(t)

	anon := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/whoami"})
	signIn := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodPost, Path: "/sign-in", Cookies: anon.Cookies})
	require.Equal(t, http.StatusOK, signIn.StatusCode)
	assert.Equal(t, userCartID, signIn.Body["session_cart_id"])

	// the session token identifies the user without a header
	me := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/private", Cookies: signIn.Cookies})
	require.Equal(t, http.StatusOK, me.StatusCode)
	assert.Equal(t, userCartID, me.Body["session_cart_id"])

	signOut := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodPost, Path: "/sign-out", Cookies: signIn.Cookies})
	require.Equal(t, http.StatusOK, signOut.StatusCode)
	assert.NotContains(t, signOut.Body, "user_id")

	after := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/private", Cookies: signOut.Cookies})
	assert.Equal(t, http.StatusUnauthorized, after.StatusCode)

	cart := utils.MakeTestRequest(t, router, utils.TestRequest{Method: http.MethodGet, Path: "/whoami", Cookies: signOut.Cookies})
	assert.Equal(t, userCartID, cart.Body["session_cart_id"])
}
