// Package auth issues and verifies the bearer tokens used by the API.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrInvalidToken is returned for any token that fails signature or
// structure validation.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by every issued token. Tokens have no
// expiry; once issued they remain valid until the signing secret changes.
type Claims struct {
	Email string
	Name  string
}

const verifyCacheSize = 1024

// Manager signs and verifies HS256 tokens with a process-wide secret.
// Verification results are cached per token string; the mapping is a pure
// function of the token so cached entries never go stale.
type Manager struct {
	secret []byte
	cache  *lru.Cache[string, Claims]
}

func NewManager(secret string) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("auth: empty signing secret")
	}

	cache, err := lru.New[string, Claims](verifyCacheSize)
	if err != nil {
		return nil, err
	}

	return &Manager{secret: []byte(secret), cache: cache}, nil
}

// Issue creates a signed token encoding the user's email and name.
func (m *Manager) Issue(email, name string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"name":  name,
	})
	return token.SignedString(m.secret)
}

// Verify checks the token signature and returns the embedded claims.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	if cached, ok := m.cache.Get(tokenString); ok {
		return &cached, nil
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	email, _ := mapClaims["email"].(string)
	name, _ := mapClaims["name"].(string)
	if email == "" {
		return nil, ErrInvalidToken
	}

	claims := Claims{Email: email, Name: name}
	m.cache.Add(tokenString, claims)
	return &claims, nil
}
