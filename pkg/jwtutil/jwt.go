package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"tinytreats/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims represents the JWT claims for an authenticated admin session
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTUtil signs and validates back-office session tokens
type JWTUtil struct {
	config *config.JWTConfig
}

// New creates a new JWT utility with the given configuration
func New(cfg *config.JWTConfig) *JWTUtil {
	return &JWTUtil{config: cfg}
}

// GenerateAdminToken creates a signed token for a logged-in administrator
func (j *JWTUtil) GenerateAdminToken() (string, error) {
	if j.config == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims := AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.config.ExpirationTime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*AdminClaims, error) {
	if j.config == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&AdminClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AdminClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
