package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenMaker struct {
	secret []byte
	issuer string
}

func NewTokenMaker(secret string) *TokenMaker {
	return &TokenMaker{
		secret: []byte(secret),
		issuer: "storefront-auth",
	}
}

type Claims struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Client string `json:"client"`
	jwt.RegisteredClaims
}

func (t *TokenMaker) New(sess Session, client string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		Name:   sess.Name,
		Email:  sess.Email,
		Client: client,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.Email,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *TokenMaker) Parse(tokenStr string) (Claims, error) {
	var c Claims

	token, err := jwt.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer))
	if err != nil || token == nil || !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	return c, nil
}

func (c Claims) Session() Session {
	return Session{Name: c.Name, Email: c.Email}
}
