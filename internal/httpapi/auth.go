package httpapi

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"bizhub/backend/internal/domain"
)

const tokenIssuer = "bizhub"

// TokenManager signs and verifies the bearer tokens that tie a request to a
// session. It does not authenticate anyone.
type TokenManager struct {
	secret []byte
}

type sessionClaims struct {
	jwtlib.RegisteredClaims
	Role string `json:"role"`
}

func NewTokenManager(secret string) *TokenManager {
	if secret == "" {
		secret = "dev-change-me"
	}
	return &TokenManager{secret: []byte(secret)}
}

func (m *TokenManager) Issue(sessionID string, role string, expiresAt time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwtlib.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt.UTC()),
			Issuer:    tokenIssuer,
		},
		Role: role,
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) ParseToken(tokenStr string) (domain.Actor, error) {
	claims := &sessionClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}), jwtlib.WithIssuer(tokenIssuer))
	if err != nil || !token.Valid {
		return domain.Actor{}, errors.New("invalid or expired token")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Actor{}, errors.New("invalid token subject")
	}
	return domain.Actor{SessionID: sub, Role: claims.Role}, nil
}
