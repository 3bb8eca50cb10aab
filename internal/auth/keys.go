package auth

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// LoadKeyPair reads an RSA key pair from PEM files. The private key signs,
// the public key verifies; unreadable key material is a startup-time fatal
// error, never a per-request one.
func LoadKeyPair(privateKeyPath, publicKeyPath string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privPEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read private key: %w", err)
	}
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("parse private key: %w", err)
	}

	pub, err := LoadPublicKey(publicKeyPath)
	if err != nil {
		return nil, nil, err
	}
	return priv, pub, nil
}

// LoadPublicKey reads just the verification key, for processes that never
// sign.
func LoadPublicKey(publicKeyPath string) (*rsa.PublicKey, error) {
	pubPEM, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return pub, nil
}
