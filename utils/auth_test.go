package utils

import (
	"testing"
	"time"

	"github.com/aspireon/storefront/models"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleAdmin, Name: "Jane"}

	token, err := generateToken(user, testSecret, time.Now())
	require.NoError(t, err)

	claims, err := validateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "Jane", claims.Name)
}

func TestValidateTokenRejects(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleUser}

	expired, err := generateToken(user, testSecret, time.Now().Add(-TokenTTL-time.Minute))
	require.NoError(t, err)
	_, err = validateToken(expired, testSecret)
	assert.Error(t, err, "expired token")

	valid, err := generateToken(user, testSecret, time.Now())
	require.NoError(t, err)
	_, err = validateToken(valid, "other-secret")
	assert.Error(t, err, "wrong secret")

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "user"})
	signed, err := noUser.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = validateToken(signed, testSecret)
	assert.Error(t, err, "missing user id")
}

func TestGenerateTokenNeedsSecret(t *testing.T) {
	_, err := generateToken(&models.User{ID: uuid.New()}, "", time.Now())
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("Valid-Passw0rd")
	require.NoError(t, err)
	assert.True(t, CheckPassword("Valid-Passw0rd", hash))
	assert.False(t, CheckPassword("valid-passw0rd", hash))
}

func TestNameFromEmail(t *testing.T) {
	assert.Equal(t, "jane.doe", NameFromEmail("jane.doe@example.com"))
	assert.Equal(t, "nobody", NameFromEmail("nobody"))
}
