package stubserver

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type tokenManager struct {
	secretKey []byte
	duration  time.Duration
}

func newTokenManager(secret string, duration time.Duration) *tokenManager {
	return &tokenManager{
		secretKey: []byte(secret),
		duration:  duration,
	}
}

func (t *tokenManager) generate(userID int, email, role string) (string, error) {
	c := claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(t.duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(t.secretKey)
}

func (t *tokenManager) validate(tokenString string) (*claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		return t.secretKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	c, ok := token.Claims.(*claims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return c, nil
}
