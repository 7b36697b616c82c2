package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/models"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long a sign in lasts
const TokenTTL = 30 * 24 * time.Hour

// TokenClaims is the identity carried by a bearer token
type TokenClaims struct {
	UserID uuid.UUID
	Role   string
	Name   string
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password against a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken creates a JWT token for a user
func GenerateToken(user *models.User) (string, error) {
	return generateToken(user, config.Current.JWTSecret, time.Now())
}

func generateToken(user *models.User, secret string, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret not configured")
	}
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = user.ID.String()
	claims["role"] = user.Role
	claims["name"] = user.Name
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(TokenTTL).Unix()

	return token.SignedString([]byte(secret))
}

// ValidateToken validates a JWT token and returns its claims
func ValidateToken(tokenString string) (*TokenClaims, error) {
	return validateToken(tokenString, config.Current.JWTSecret)
}

func validateToken(tokenString, secret string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	rawID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid user ID in token")
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %v", err)
	}
	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)

	return &TokenClaims{UserID: userID, Role: role, Name: name}, nil
}

// NameFromEmail derives a display name from the local part of email
func NameFromEmail(email string) string {
	for i, r := range email {
		if r == '@' {
			return email[:i]
		}
	}
	return email
}
