package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strconv"
	"time"

	"taskgate/internal/config"
	"taskgate/internal/users"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager is the token codec and issuer: it signs claim sets with the
// private key and verifies them with the public key. It is storage- and
// transport-agnostic; persisting refresh tokens is the login flow's job.
type Manager struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	priv, pub, err := LoadKeyPair(cfg.PrivateKeyPath, cfg.PublicKeyPath)
	if err != nil {
		return nil, err
	}
	return NewManagerWithKeys(priv, pub, cfg.Algorithm, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
}

// NewManagerWithKeys builds a Manager from already-parsed key material.
func NewManagerWithKeys(priv *rsa.PrivateKey, pub *rsa.PublicKey, algorithm string, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if priv == nil || pub == nil {
		return nil, errors.New("auth: key pair is required")
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("auth: unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("auth: algorithm %q is not RSA-based", algorithm)
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("auth: token lifetimes must be positive")
	}
	return &Manager{
		privateKey: priv,
		publicKey:  pub,
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

func (m *Manager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

func (m *Manager) IssueAccessToken(now time.Time, user users.User) (string, error) {
	return m.issue(now, TokenTypeAccess, user, m.accessTTL)
}

func (m *Manager) IssueRefreshToken(now time.Time, user users.User) (string, error) {
	return m.issue(now, TokenTypeRefresh, user, m.refreshTTL)
}

func (m *Manager) issue(now time.Time, tokenType TokenType, user users.User, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Username:  user.Username,
		TokenType: tokenType,
	}

	t := jwt.NewWithClaims(m.method, claims)
	return t.SignedString(m.privateKey)
}

// Decode verifies the signature and structural shape of a token and
// returns its claims. It deliberately does NOT reject expired tokens:
// both validation protocols compare exp against their own clock, and the
// refresh protocol must be able to read the expiry of an already-stale
// stored token. Any failure maps to ErrInvalidToken.
func (m *Manager) Decode(tokenString string) (Claims, error) {
	var claims Claims

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	_, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return m.publicKey, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if err := claims.validateRequired(); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
