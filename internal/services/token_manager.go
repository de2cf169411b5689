package services

import (
	"fmt"
	"time"

	"github.com/confreview/backend/internal/config"
	"github.com/confreview/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of both access and refresh tokens.
type Claims struct {
	UserID uint     `json:"userId"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// TokenManager signs and verifies HS256 tokens. Access and refresh tokens
// use different secrets so one can never stand in for the other.
type TokenManager struct {
	cfg config.JWTConfig
	now func() time.Time
}

func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	return &TokenManager{cfg: cfg, now: time.Now}
}

func (tm *TokenManager) Issue(user *models.User) (TokenPair, error) {
	now := tm.now()
	pair := TokenPair{
		AccessExpiresAt:  now.Add(tm.cfg.AccessExpires),
		RefreshExpiresAt: now.Add(tm.cfg.RefreshExpires),
	}

	var err error
	pair.AccessToken, err = tm.sign(user, now, pair.AccessExpiresAt, tm.cfg.AccessSecret)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	pair.RefreshToken, err = tm.sign(user, now, pair.RefreshExpiresAt, tm.cfg.RefreshSecret)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return pair, nil
}

func (tm *TokenManager) sign(user *models.User, now, expires time.Time, secret string) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Roles:  []string(user.Roles),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (tm *TokenManager) ParseAccess(token string) (*Claims, error) {
	return tm.parse(token, tm.cfg.AccessSecret)
}

func (tm *TokenManager) ParseRefresh(token string) (*Claims, error) {
	return tm.parse(token, tm.cfg.RefreshSecret)
}

func (tm *TokenManager) parse(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
