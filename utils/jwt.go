package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

type payload struct {
	Data string `json:"data"`
	jwt.RegisteredClaims
}

// GenJWT data 一般是操作员 id
func GenJWT(secret, data string, expiredSeconds int) (string, error) {
	now := time.Now()
	claims := payload{
		data,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiredSeconds) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

func ParseJWT(secret, token string) (string, error) {
	t, err := jwt.ParseWithClaims(token, &payload{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if claims, ok := t.Claims.(*payload); ok && t.Valid {
		return claims.Data, nil
	}
	return "", errors.New("invalid token")
}
