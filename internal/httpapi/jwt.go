package httpapi

import (
	"crypto/rand"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const clientTokenExpiry = 30 * 24 * time.Hour

// clientSigner issues and checks the tokens that carry a browser's client id.
type clientSigner struct {
	key []byte
}

func newClientSigner(secret string) *clientSigner {
	if secret != "" {
		return &clientSigner{key: []byte(secret)}
	}
	// Generate a random key if no secret is configured.
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate JWT key: " + err.Error())
	}
	return &clientSigner{key: b}
}

func (s *clientSigner) sign(clientID string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": clientID,
		"exp": now.Add(clientTokenExpiry).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}

func (s *clientSigner) parse(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.key, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrSignatureInvalid
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", jwt.ErrTokenInvalidSubject
	}
	return sub, nil
}
