package identity

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken is returned when no session token was presented
	ErrMissingToken = errors.New("missing session token")

	// ErrInvalidToken is returned when the session token fails verification
	ErrInvalidToken = errors.New("invalid session token")
)

// Identity is a verified social identity from the identity provider
type Identity struct {
	// ID is the provider's opaque user id (token subject)
	ID string
	// Handle is the social handle as asserted by the provider, not yet normalized
	Handle string
}

// UserMetadata carries the profile fields the identity provider copies from the social login
type UserMetadata struct {
	UserName          string `json:"user_name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Name              string `json:"name,omitempty"`
}

// Handle returns the first non-empty of user_name, preferred_username and name
func (m UserMetadata) Handle() string {
	for _, h := range []string{m.UserName, m.PreferredUsername, m.Name} {
		if h = strings.TrimSpace(h); h != "" {
			return h
		}
	}
	return ""
}

// SessionClaims are the claims of a session token
type SessionClaims struct {
	jwt.RegisteredClaims
	UserMetadata UserMetadata `json:"user_metadata"`
}

// Config holds session token verification settings.
// At least one of Secret (HS256) or PublicKeyPEM (RS256) must be set.
type Config struct {
	Secret       string
	PublicKeyPEM string
	Audience     string
}

// Authenticator verifies session tokens
//
//go:generate mockgen -source=identity.go -destination=../mocks/identity.go -package=mocks -mock_names=Authenticator=MockAuthenticator
type Authenticator interface {
	// Authenticate verifies a bearer token and returns the identity it carries
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

type jwtAuthenticator struct {
	secret    []byte
	publicKey *rsa.PublicKey
	parser    *jwt.Parser
}

// NewAuthenticator creates a JWT session verifier
func NewAuthenticator(cfg Config) (Authenticator, error) {
	a := &jwtAuthenticator{}
	var methods []string

	if cfg.Secret != "" {
		a.secret = []byte(cfg.Secret)
		methods = append(methods, jwt.SigningMethodHS256.Alg())
	}

	if cfg.PublicKeyPEM != "" {
		key, err := parseRSAPublicKey(cfg.PublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
		}
		a.publicKey = key
		methods = append(methods, jwt.SigningMethodRS256.Alg())
	}

	if len(methods) == 0 {
		return nil, errors.New("no session token key configured")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods(methods)}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	a.parser = jwt.NewParser(opts...)

	return a, nil
}

// Authenticate parses and validates the token signature, expiry and audience
func (a *jwtAuthenticator) Authenticate(_ context.Context, token string) (*Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	claims := &SessionClaims{}
	_, err := a.parser.ParseWithClaims(token, claims, a.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &Identity{
		ID:     claims.Subject,
		Handle: claims.UserMetadata.Handle(),
	}, nil
}

func (a *jwtAuthenticator) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if a.secret == nil {
			return nil, errors.New("HMAC tokens not accepted")
		}
		return a.secret, nil
	case *jwt.SigningMethodRSA:
		if a.publicKey == nil {
			return nil, errors.New("RSA tokens not accepted")
		}
		return a.publicKey, nil
	default:
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
}

// parseRSAPublicKey parses an RSA public key from PEM format
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	// Try parsing as PKIX (most common format)
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		// Try parsing as PKCS1 format
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}

	return rsaKey, nil
}
