package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/i-himanshu29/Authentication-System/internal/auth/service TokenGenerator

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/i-himanshu29/Authentication-System/pkg/constant"
)

type TokenGenerator interface {
	Generate(userID, email, role string) (accessToken, refreshToken string, refreshExpiry time.Time, err error)
	GenerateOpaqueToken(nBytes int) (string, error)
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

// TokenService issues signed access tokens and opaque refresh tokens.
// Refresh tokens carry no claims; their validity lives in the session
// store.
type TokenService struct {
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func NewTokenService(accessSecret string, accessMinutes, refreshMinutes int) *TokenService {
	return &TokenService{
		AccessTokenSecret:  accessSecret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
	}
}

func (ts *TokenService) Generate(userID, email, role string) (string, string, time.Time, error) {
	now := time.Now()

	accessClaims := JWTCustomClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(ts.AccessTokenSecret))
	if err != nil {
		return "", "", time.Time{}, err
	}

	refreshToken, err := ts.GenerateOpaqueToken(constant.RefreshTokenBytes)
	if err != nil {
		return "", "", time.Time{}, err
	}

	return accessToken, refreshToken, now.Add(ts.RefreshTokenExpiry), nil
}

// GenerateOpaqueToken returns a URL-safe random token of nBytes entropy.
// Shared by refresh, verification, and password-reset tokens.
func (ts *TokenService) GenerateOpaqueToken(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate opaque token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (ts *TokenService) GetAccessTokenExpiry() time.Duration {
	return ts.AccessTokenExpiry
}

func (ts *TokenService) GetRefreshTokenExpiry() time.Duration {
	return ts.RefreshTokenExpiry
}

// VerifyAccessToken parses and validates the given access token string.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.AccessTokenSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
