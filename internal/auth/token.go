package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenClaims is the payload carried by a signed access token.
type TokenClaims struct {
	UserID   int64
	Email    string
	Nickname string
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret   []byte
	duration time.Duration
}

func NewTokenIssuer(secret string, duration time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), duration: duration}
}

// Issue signs a token for the user. Expiry is measured from now.
func (i *TokenIssuer) Issue(claims TokenClaims) (string, error) {
	now := time.Now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      claims.UserID,
		"email":    claims.Email,
		"nickname": claims.Nickname,
		"iat":      now.Unix(),
		"exp":      now.Add(i.duration).Unix(),
	})
	return t.SignedString(i.secret)
}

// Verify parses a token string and returns its claims, or ErrInvalidToken.
func (i *TokenIssuer) Verify(raw string) (*TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return nil, ErrInvalidToken
	}

	out := &TokenClaims{UserID: int64(sub)}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if nickname, ok := claims["nickname"].(string); ok {
		out.Nickname = nickname
	}
	return out, nil
}
