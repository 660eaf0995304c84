package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	settingsIssuer  = "study-schedule"
	settingsSubject = "settings"
)

type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// GenerateSettingsToken cấp token mở khoá khu vực settings
func GenerateSettingsToken(secret string, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("JWT_SECRET chưa cấu hình")
	}
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Scope: settingsSubject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   settingsSubject,
			Issuer:    settingsIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func VerifyToken(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET chưa cấu hình")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(settingsIssuer))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Scope != settingsSubject {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
