package utils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aspireon/storefront/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRequest represents a test HTTP request
type TestRequest struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
	Cookies []*http.Cookie
}

// TestResponse represents a test HTTP response
type TestResponse struct {
	StatusCode int
	Body       map[string]interface{}
	Cookies    []*http.Cookie
	Header     http.Header
}

// MakeTestRequest makes a test HTTP request
func MakeTestRequest(t *testing.T, router *gin.Engine, req TestRequest) TestResponse {
	t.Helper()

	var body []byte
	if req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		require.NoError(t, err, "marshal request body")
	}

	httpReq, err := http.NewRequest(req.Method, req.Path, bytes.NewBuffer(body))
	require.NoError(t, err, "create request")

	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	for _, cookie := range req.Cookies {
		httpReq.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httpReq)

	var responseBody map[string]interface{}
	if w.Body.Len() > 0 && json.Valid(w.Body.Bytes()) {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody), "unmarshal response body")
	}

	return TestResponse{
		StatusCode: w.Code,
		Body:       responseBody,
		Cookies:    w.Result().Cookies(),
		Header:     w.Header(),
	}
}

// AssertResponse asserts the test response
func AssertResponse(t *testing.T, response TestResponse, expectedStatusCode int, expectedBody map[string]interface{}) {
	t.Helper()
	assert.Equal(t, expectedStatusCode, response.StatusCode)
	if expectedBody != nil {
		assert.Equal(t, expectedBody, response.Body)
	}
}

// GetTestToken generates a bearer token for user signed with secret
func GetTestToken(t *testing.T, user *models.User, secret string) string {
	t.Helper()
	token, err := generateToken(user, secret, time.Now())
	require.NoError(t, err, "generate test token")
	return token
}
