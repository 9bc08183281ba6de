package token

import (
	"errors"
	"time"

	"video_library_service/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// RoleType set viewer role
type RoleType string

const (
	// RoleAdmin is the admin role
	RoleAdmin RoleType = "admin"
	// RoleMember is the member role
	RoleMember RoleType = "member"
	// RoleGuest is the guest role
	RoleGuest RoleType = "guest"
)

// Claims structure for custom claims in JWT
type Claims struct {
	ViewerID string `json:"user_id"`
	Role     string `json:"role"`
	// MaxOrder 觀看者可見的最高帶級，nil 表示不限
	MaxOrder *int `json:"max_order,omitempty"`
	jwt.RegisteredClaims
}

var (
	defaultSecret   = []byte("secure_secret_key")
	tokenExpiration = 60 * time.Minute
)

// Secret returns the signing key, JWT_SECRET wins over the built-in key
func Secret() []byte {
	if s := config.EnvConfig.JWTSecret; s != "" {
		return []byte(s)
	}
	return defaultSecret
}

// GenerateJWT generates a JWT token
func GenerateJWT(viewerID string, role RoleType, maxOrder *int, issuer string) (string, error) {
	now := time.Now()
	claims := Claims{
		ViewerID: viewerID,
		Role:     string(role),
		MaxOrder: maxOrder,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(Secret())
}

// ParseJWT parses a JWT and extracts the Claims
func ParseJWT(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return Secret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
