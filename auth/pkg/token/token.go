package token

import (
	"errors"
	"fmt"
	"time"

	"cineview/auth/pkg/identity"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "cineview"

// Claims defines the JWT claims issued for a user. UserID is the single
// canonical identity claim.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256 signed tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New creates a new token manager.
func New(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for the given user.
func (m *Manager) Issue(userID, username string) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates the token signature and expiry and returns the
// identity it carries.
func (m *Manager) Verify(tokenString string) (identity.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("%w: %v", identity.ErrInvalidCredential, err)
	}
	if !token.Valid || claims.UserID == "" {
		return identity.Identity{}, identity.ErrInvalidCredential
	}
	return identity.Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
